package adminUserController

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
	"gorm.io/gorm"
)

type AdminUserController struct {
	userRepo           repositories.UserRepository
	houseRepo          repositories.HouseRepository
	transactionService *services.TransactionService
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type DecideHouseRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

type AdminUserControllerInterface interface {
	ListUsers(ctx context.Context, role Role) ([]Profile, error)
	VerifyLandlord(ctx context.Context, admin *User, userID uuid.UUID) (*Profile, error)
	DeleteUser(ctx context.Context, admin *User, userID uuid.UUID) error
	ListHouses(ctx context.Context) ([]*House, error)
	DecideHouse(
		ctx context.Context,
		admin *User,
		houseID uuid.UUID,
		request *DecideHouseRequest,
	) (*House, error)
	DeleteHouse(ctx context.Context, admin *User, houseID uuid.UUID) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) AdminUserControllerInterface {
	return &AdminUserController{
		userRepo:           repos.User,
		houseRepo:          repos.House,
		transactionService: services.Transaction,
		db:                 db,
		Config:             config,
		log:                logger.New("adminUserController"),
	}
}

func (c *AdminUserController) ListUsers(ctx context.Context, role Role) ([]Profile, error) {
	if role != "" && !role.Valid() {
		return nil, apperrors.Validation("unknown role: %s", role)
	}

	users, err := c.userRepo.List(ctx, c.db.SQL, role)
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, len(users))
	for i, user := range users {
		profiles[i] = user.ToProfile()
	}
	return profiles, nil
}

// VerifyLandlord marks a landlord's identity as checked. Only landlords
// carry the verified flag.
func (c *AdminUserController) VerifyLandlord(
	ctx context.Context,
	admin *User,
	userID uuid.UUID,
) (*Profile, error) {
	var user *User
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		user, err = c.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if !user.IsLandlord() {
			return apperrors.Validation("only landlords can be verified")
		}

		if user.Verified {
			return nil
		}

		now := time.Now()
		user.Verified = true
		user.VerifiedAt = &now
		return c.userRepo.Save(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}

// DeleteUser removes an account. Admins are protected; deleting a
// landlord cascades to their houses.
func (c *AdminUserController) DeleteUser(
	ctx context.Context,
	admin *User,
	userID uuid.UUID,
) error {
	log := c.log.Function("DeleteUser")

	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		user, err := c.userRepo.GetByID(ctx, tx, userID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if user.IsAdmin() {
			return apperrors.ErrForbidden
		}

		if user.IsLandlord() {
			houses, err := c.houseRepo.ListByLandlord(ctx, tx, user.ID)
			if err != nil {
				return err
			}
			for _, house := range houses {
				if err := c.houseRepo.Delete(ctx, tx, house.ID); err != nil {
					return err
				}
			}
			log.Info("deleted landlord houses", "userID", user.ID, "count", len(houses))
		}

		return c.userRepo.Delete(ctx, tx, user.ID)
	})
}

func (c *AdminUserController) ListHouses(ctx context.Context) ([]*House, error) {
	return c.houseRepo.ListAll(ctx, c.db.SQL)
}

// DecideHouse settles a listing's verification after reviewing the
// ownership documents.
func (c *AdminUserController) DecideHouse(
	ctx context.Context,
	admin *User,
	houseID uuid.UUID,
	request *DecideHouseRequest,
) (*House, error) {
	if !request.Approve && request.Note == "" {
		return nil, apperrors.Validation("a note is required when rejecting")
	}

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

		if house.VerificationStatus != VerificationPending {
			return apperrors.StateConflict(
				string(house.VerificationStatus),
				"listing has already been reviewed",
			)
		}

		now := time.Now()
		if request.Approve {
			house.VerificationStatus = VerificationApproved
			house.VerifiedAt = &now
			house.VerifiedBy = &admin.ID
		} else {
			house.VerificationStatus = VerificationRejected
			house.RejectReason = request.Note
		}

		return c.houseRepo.Save(ctx, tx, house)
	})
	if err != nil {
		return nil, err
	}

	return house, nil
}

func (c *AdminUserController) DeleteHouse(
	ctx context.Context,
	admin *User,
	houseID uuid.UUID,
) error {
	return c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		err := c.houseRepo.Delete(ctx, tx, houseID)
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrNotFound
		}
		return err
	})
}
