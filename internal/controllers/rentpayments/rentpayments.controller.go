package rentPaymentController

import (
	"context"
	"time"

	"homerent/config"
	"homerent/internal/apperrors"
	"homerent/internal/database"
	"homerent/internal/events"
	"homerent/internal/logger"
	. "homerent/internal/models"
	"homerent/internal/repositories"
	"homerent/internal/services"
	"homerent/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RentPaymentController struct {
	rentRepo           repositories.RentPaymentRepository
	houseRepo          repositories.HouseRepository
	userRepo           repositories.UserRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type InitiateRentRequest struct {
	HouseID uuid.UUID `json:"houseId" validate:"required"`
	Period  string    `json:"period"  validate:"required"`
}

type InitiateRentResponse struct {
	Payment *RentPayment `json:"payment"`
	UPILink string       `json:"upiLink"`
}

type SubmitRentRequest struct {
	UTR string `json:"utr" validate:"required"`
}

type DecideRentRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

type RentPaymentControllerInterface interface {
	Initiate(
		ctx context.Context,
		tenant *User,
		request *InitiateRentRequest,
	) (*InitiateRentResponse, error)
	Submit(
		ctx context.Context,
		tenant *User,
		paymentID uuid.UUID,
		request *SubmitRentRequest,
	) (*RentPayment, error)
	Decide(
		ctx context.Context,
		landlord *User,
		paymentID uuid.UUID,
		request *DecideRentRequest,
	) (*RentPayment, error)
	ListMine(ctx context.Context, tenant *User) ([]*RentPayment, error)
	ListForLandlord(ctx context.Context, landlord *User) ([]*RentPayment, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) RentPaymentControllerInterface {
	return &RentPaymentController{
		rentRepo:           repos.RentPayment,
		houseRepo:          repos.House,
		userRepo:           repos.User,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("rentPaymentController"),
	}
}

// Initiate opens a rent cycle for the tenant's current house and hands
// back the UPI link paying the landlord directly. One cycle per house,
// tenant and period; re-initiating returns the existing open cycle.
func (c *RentPaymentController) Initiate(
	ctx context.Context,
	tenant *User,
	request *InitiateRentRequest,
) (*InitiateRentResponse, error) {
	if !ValidPeriod(request.Period) {
		return nil, apperrors.Validation("period must be formatted YYYY-MM")
	}

	house, err := c.houseRepo.GetByID(ctx, c.db.SQL, request.HouseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if house.CurrentTenantID == nil || *house.CurrentTenantID != tenant.ID {
		return nil, apperrors.ErrForbidden
	}

	landlord, err := c.userRepo.GetByID(ctx, c.db.SQL, house.LandlordID)
	if err != nil {
		return nil, err
	}
	if landlord.UPIID == "" {
		return nil, apperrors.Validation("landlord has no UPI id on file")
	}

	var payment *RentPayment
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		existing, err := c.rentRepo.FindByHouseTenantPeriod(
			ctx, tx, house.ID, tenant.ID, request.Period,
		)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Decided() {
				return apperrors.StateConflict(
					string(existing.Status),
					"rent for %s has already been settled", request.Period,
				)
			}
			payment = existing
			return nil
		}

		payment = &RentPayment{
			HouseID:    house.ID,
			TenantID:   tenant.ID,
			LandlordID: house.LandlordID,
			Period:     request.Period,
			Amount:     house.Rent,
		}
		return c.rentRepo.Create(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	link := utils.UPIIntent(
		landlord.UPIID,
		landlord.Name,
		payment.Amount,
		utils.RentNote(payment.Period, payment.ID.String()),
	)

	return &InitiateRentResponse{Payment: payment, UPILink: link}, nil
}

func (c *RentPaymentController) Submit(
	ctx context.Context,
	tenant *User,
	paymentID uuid.UUID,
	request *SubmitRentRequest,
) (*RentPayment, error) {
	log := c.log.Function("Submit")

	if request.UTR == "" {
		return nil, apperrors.Validation("utr is required")
	}

	var payment *RentPayment
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		payment, err = c.rentRepo.GetByID(ctx, tx, paymentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if payment.TenantID != tenant.ID {
			return apperrors.ErrForbidden
		}

		if payment.Status != RentInitiated {
			return apperrors.StateConflict(
				string(payment.Status),
				"rent payment is not awaiting submission",
			)
		}

		now := time.Now()
		payment.TenantUTR = request.UTR
		payment.SubmittedAt = &now
		payment.SetStatus(RentSubmitted, Actor(tenant.ID), "Rent UTR submitted")

		return c.rentRepo.Save(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.Publish(events.RENT_CHANNEL, events.Event{
		Type: events.RENT_SUBMITTED,
		Data: map[string]any{
			"paymentId": payment.ID.String(),
			"period":    payment.Period,
		},
	}); err != nil {
		log.Warn("failed to publish rent event", "paymentID", payment.ID, "error", err)
	}

	return payment, nil
}

// Decide is the landlord confirming or disputing a submitted rent
// payment against their own bank statement.
func (c *RentPaymentController) Decide(
	ctx context.Context,
	landlord *User,
	paymentID uuid.UUID,
	request *DecideRentRequest,
) (*RentPayment, error) {
	log := c.log.Function("Decide")

	if !request.Approve && request.Note == "" {
		return nil, apperrors.Validation("a note is required when rejecting")
	}

	var payment *RentPayment
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		payment, err = c.rentRepo.GetByID(ctx, tx, paymentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if payment.LandlordID != landlord.ID {
			return apperrors.ErrForbidden
		}

		if payment.Status != RentSubmitted {
			return apperrors.StateConflict(
				string(payment.Status),
				"only a submitted rent payment can be decided",
			)
		}

		now := time.Now()
		payment.DecidedBy = &landlord.ID
		payment.DecidedAt = &now

		if request.Approve {
			payment.SetStatus(RentApproved, Actor(landlord.ID), "Rent received")
		} else {
			payment.RejectReason = request.Note
			payment.SetStatus(RentRejected, Actor(landlord.ID), request.Note)
		}

		return c.rentRepo.Save(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.Publish(events.RENT_CHANNEL, events.Event{
		Type: events.RENT_DECIDED,
		Data: map[string]any{
			"paymentId": payment.ID.String(),
			"status":    string(payment.Status),
		},
	}); err != nil {
		log.Warn("failed to publish rent event", "paymentID", payment.ID, "error", err)
	}

	return payment, nil
}

func (c *RentPaymentController) ListMine(
	ctx context.Context,
	tenant *User,
) ([]*RentPayment, error) {
	return c.rentRepo.ListByTenant(ctx, c.db.SQL, tenant.ID)
}

func (c *RentPaymentController) ListForLandlord(
	ctx context.Context,
	landlord *User,
) ([]*RentPayment, error) {
	return c.rentRepo.ListByLandlord(ctx, c.db.SQL, landlord.ID)
}
