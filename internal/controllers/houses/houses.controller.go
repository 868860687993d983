package houseController

import (
	"context"
	"time"

	"homerent/config"
	"homerent/internal/apperrors"
	"homerent/internal/database"
	"homerent/internal/logger"
	. "homerent/internal/models"
	"homerent/internal/repositories"
	"homerent/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type HouseController struct {
	houseRepo          repositories.HouseRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateHouseRequest struct {
	Title               string          `json:"title"       validate:"required"`
	Description         string          `json:"description" validate:"required"`
	Location            string          `json:"location"    validate:"required"`
	Rent                decimal.Decimal `json:"rent"        validate:"required"`
	Deposit             decimal.Decimal `json:"deposit"     validate:"required"`
	BookingAmount       decimal.Decimal `json:"bookingAmount"`
	Type                HouseType       `json:"type"        validate:"required"`
	Beds                int             `json:"beds"`
	Baths               int             `json:"baths"`
	Area                int             `json:"area"`
	Furnished           FurnishedLevel  `json:"furnished"`
	Amenities           []string        `json:"amenities"`
	Images              []string        `json:"images"`
	ElectricityBillURL  string          `json:"electricityBillUrl"`
	ElectricityBillType string          `json:"electricityBillType"`
	AvailableFrom       *time.Time      `json:"availableFrom,omitempty"`
}

type UpdateHouseRequest struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Rent          *decimal.Decimal `json:"rent,omitempty"`
	Deposit       *decimal.Decimal `json:"deposit,omitempty"`
	BookingAmount *decimal.Decimal `json:"bookingAmount,omitempty"`
	Furnished     *FurnishedLevel  `json:"furnished,omitempty"`
	Amenities     []string         `json:"amenities,omitempty"`
	Images        []string         `json:"images,omitempty"`
}

type HouseControllerInterface interface {
	Create(ctx context.Context, landlord *User, request *CreateHouseRequest) (*House, error)
	Update(
		ctx context.Context,
		landlord *User,
		houseID uuid.UUID,
		request *UpdateHouseRequest,
	) (*House, error)
	Get(ctx context.Context, houseID uuid.UUID) (*House, error)
	List(ctx context.Context, filter repositories.HouseFilter) ([]*House, error)
	ListByLandlord(ctx context.Context, landlord *User) ([]*House, error)
	Vacate(ctx context.Context, landlord *User, houseID uuid.UUID) (*House, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) HouseControllerInterface {
	return &HouseController{
		houseRepo:          repos.House,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("houseController"),
	}
}

func (c *HouseController) Create(
	ctx context.Context,
	landlord *User,
	request *CreateHouseRequest,
) (*House, error) {
	if !landlord.IsLandlord() {
		return nil, apperrors.ErrForbidden
	}
	if !landlord.Verified {
		return nil, apperrors.Validation("account must be verified before listing a house")
	}
	if request.Title == "" || request.Location == "" {
		return nil, apperrors.Validation("title and location are required")
	}
	if !request.Rent.IsPositive() || !request.Deposit.IsPositive() {
		return nil, apperrors.Validation("rent and deposit must be positive")
	}
	if request.BookingAmount.IsNegative() {
		return nil, apperrors.Validation("booking amount cannot be negative")
	}

	availableFrom := time.Now()
	if request.AvailableFrom != nil {
		availableFrom = *request.AvailableFrom
	}

	furnished := request.Furnished
	if furnished == "" {
		furnished = Unfurnished
	}

	house := &House{
		LandlordID:          landlord.ID,
		Title:               request.Title,
		Description:         request.Description,
		Location:            request.Location,
		Rent:                request.Rent,
		Deposit:             request.Deposit,
		BookingAmount:       request.BookingAmount,
		Type:                request.Type,
		Beds:                request.Beds,
		Baths:               request.Baths,
		Area:                request.Area,
		Furnished:           furnished,
		Amenities:           request.Amenities,
		Images:              request.Images,
		ElectricityBillURL:  request.ElectricityBillURL,
		ElectricityBillType: request.ElectricityBillType,
		AvailableFrom:       availableFrom,
		Status:              HouseAvailable,
		VerificationStatus:  VerificationPending,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.houseRepo.Create(ctx, tx, house)
	})
	if err != nil {
		return nil, err
	}

	return house, nil
}

func (c *HouseController) Update(
	ctx context.Context,
	landlord *User,
	houseID uuid.UUID,
	request *UpdateHouseRequest,
) (*House, error) {
	var house *House
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		house, err = c.houseRepo.GetByIDForUpdate(ctx, tx, houseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if house.LandlordID != landlord.ID {
			return apperrors.ErrForbidden
		}

		if request.Title != nil {
			house.Title = *request.Title
		}
		if request.Description != nil {
			house.Description = *request.Description
		}
		if request.Location != nil {
			house.Location = *request.Location
		}
		if request.Rent != nil {
			if !request.Rent.IsPositive() {
				return apperrors.Validation("rent must be positive")
			}
			house.Rent = *request.Rent
		}
		if request.Deposit != nil {
			if !request.Deposit.IsPositive() {
				return apperrors.Validation("deposit must be positive")
			}
			house.Deposit = *request.Deposit
		}
		if request.BookingAmount != nil {
			if request.BookingAmount.IsNegative() {
				return apperrors.Validation("booking amount cannot be negative")
			}
			house.BookingAmount = *request.BookingAmount
		}
		if request.Furnished != nil {
			house.Furnished = *request.Furnished
		}
		if request.Amenities != nil {
			house.Amenities = request.Amenities
		}
		if request.Images != nil {
			house.Images = request.Images
		}

		return c.houseRepo.Save(ctx, tx, house)
	})
	if err != nil {
		return nil, err
	}

	return house, nil
}

func (c *HouseController) Get(ctx context.Context, houseID uuid.UUID) (*House, error) {
	house, err := c.houseRepo.GetByID(ctx, c.db.SQL, houseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return house, nil
}

func (c *HouseController) List(
	ctx context.Context,
	filter repositories.HouseFilter,
) ([]*House, error) {
	return c.houseRepo.List(ctx, c.db.SQL, filter)
}

func (c *HouseController) ListByLandlord(ctx context.Context, landlord *User) ([]*House, error) {
	return c.houseRepo.ListByLandlord(ctx, c.db.SQL, landlord.ID)
}

// Vacate clears the occupancy when a tenancy ends, putting the house
// back on the market.
func (c *HouseController) Vacate(
	ctx context.Context,
	landlord *User,
	houseID uuid.UUID,
) (*House, error) {
	var house *House
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		house, err = c.houseRepo.GetByIDForUpdate(ctx, tx, houseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if house.LandlordID != landlord.ID && !landlord.IsAdmin() {
			return apperrors.ErrForbidden
		}

		if !house.IsRented() {
			return apperrors.StateConflict(string(house.Status), "house is not rented")
		}

		house.Vacate()
		return c.houseRepo.Save(ctx, tx, house)
	})
	if err != nil {
		return nil, err
	}

	return house, nil
}
