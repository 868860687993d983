package adminSettlementController

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

// transactor runs a unit of work inside a database transaction.
type transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type AdminSettlementController struct {
	bookingRepo        repositories.BookingRepository
	houseRepo          repositories.HouseRepository
	userRepo           repositories.UserRepository
	transactionService transactor
	mailer             *services.MailerService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

// PaymentBucket selects which settlement queue the admin is looking at.
type PaymentBucket string

const (
	BucketPending  PaymentBucket = "pending"
	BucketApproved PaymentBucket = "approved"
	BucketRejected PaymentBucket = "rejected"
	BucketAll      PaymentBucket = "all"
)

type RejectPaymentRequest struct {
	Note string `json:"note" validate:"required"`
}

type MarkTransferredRequest struct {
	PayoutTxnID string `json:"payoutTxnId" validate:"required"`
}

type PayoutIntentResponse struct {
	BookingID uuid.UUID `json:"bookingId"`
	Payee     string    `json:"payee"`
	UPILink   string    `json:"upiLink"`
}

type AdminSettlementControllerInterface interface {
	ListPayments(ctx context.Context, bucket PaymentBucket) ([]*Booking, error)
	Approve(ctx context.Context, admin *User, bookingID uuid.UUID) (*Booking, error)
	Reject(
		ctx context.Context,
		admin *User,
		bookingID uuid.UUID,
		request *RejectPaymentRequest,
	) (*Booking, error)
	PayoutIntent(ctx context.Context, admin *User, bookingID uuid.UUID) (*PayoutIntentResponse, error)
	MarkTransferred(
		ctx context.Context,
		admin *User,
		bookingID uuid.UUID,
		request *MarkTransferredRequest,
	) (*Booking, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) AdminSettlementControllerInterface {
	return &AdminSettlementController{
		bookingRepo:        repos.Booking,
		houseRepo:          repos.House,
		userRepo:           repos.User,
		transactionService: services.Transaction,
		mailer:             services.Mailer,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("adminSettlementController"),
	}
}

func (c *AdminSettlementController) ListPayments(
	ctx context.Context,
	bucket PaymentBucket,
) ([]*Booking, error) {
	switch bucket {
	case BucketPending, "":
		return c.bookingRepo.ListByStatuses(ctx, c.db.SQL, []BookingStatus{BookingPaymentSubmitted})
	case BucketApproved:
		return c.bookingRepo.ListByStatuses(
			ctx,
			c.db.SQL,
			[]BookingStatus{BookingApproved, BookingTransferred},
		)
	case BucketRejected:
		return c.bookingRepo.ListByStatuses(ctx, c.db.SQL, []BookingStatus{BookingRejected})
	case BucketAll:
		return c.bookingRepo.ListAll(ctx, c.db.SQL)
	default:
		return nil, apperrors.Validation("unknown bucket: %s", bucket)
	}
}

// Approve verifies the tenant's payment and marks the house as rented
// by that tenant. Assignment is idempotent: an already rented house is
// never overwritten.
func (c *AdminSettlementController) Approve(
	ctx context.Context,
	admin *User,
	bookingID uuid.UUID,
) (*Booking, error) {
	log := c.log.Function("Approve")

	var booking *Booking
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		booking, err = c.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if booking.Status != BookingPaymentSubmitted {
			return apperrors.StateConflict(
				string(booking.Status),
				"only a submitted payment can be approved",
			)
		}

		now := time.Now()
		booking.AdminDecision.ApprovedBy = &admin.ID
		booking.AdminDecision.ApprovedAt = &now
		booking.SetStatus(BookingApproved, Actor(admin.ID), "Payment verified")

		if err := c.bookingRepo.Save(ctx, tx, booking); err != nil {
			return err
		}

		return c.assignHouseToTenant(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	c.notifyTenant(ctx, booking, true, "")

	if err := c.eventBus.PublishBooking(events.BOOKING_APPROVED, booking.ID, string(booking.Status), nil); err != nil {
		log.Warn("failed to publish booking event", "bookingID", booking.ID, "error", err)
	}

	return booking, nil
}

func (c *AdminSettlementController) Reject(
	ctx context.Context,
	admin *User,
	bookingID uuid.UUID,
	request *RejectPaymentRequest,
) (*Booking, error) {
	log := c.log.Function("Reject")

	if request.Note == "" {
		return nil, apperrors.Validation("a rejection note is required")
	}

	var booking *Booking
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		booking, err = c.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if booking.Status != BookingPaymentSubmitted {
			return apperrors.StateConflict(
				string(booking.Status),
				"only a submitted payment can be rejected",
			)
		}

		now := time.Now()
		booking.AdminDecision.RejectedBy = &admin.ID
		booking.AdminDecision.RejectedAt = &now
		booking.AdminDecision.Note = request.Note
		booking.SetStatus(BookingRejected, Actor(admin.ID), request.Note)

		return c.bookingRepo.Save(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	c.notifyTenant(ctx, booking, false, request.Note)

	if err := c.eventBus.PublishBooking(events.BOOKING_REJECTED, booking.ID, string(booking.Status), nil); err != nil {
		log.Warn("failed to publish booking event", "bookingID", booking.ID, "error", err)
	}

	return booking, nil
}

// PayoutIntent builds the UPI deep link the admin uses to transfer the
// booking amount to the landlord.
func (c *AdminSettlementController) PayoutIntent(
	ctx context.Context,
	admin *User,
	bookingID uuid.UUID,
) (*PayoutIntentResponse, error) {
	booking, err := c.bookingRepo.GetByID(ctx, c.db.SQL, bookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if booking.Status != BookingApproved {
		return nil, apperrors.StateConflict(
			string(booking.Status),
			"payout is only available for an approved booking",
		)
	}

	landlord, err := c.userRepo.GetByID(ctx, c.db.SQL, booking.LandlordID)
	if err != nil {
		return nil, err
	}

	if landlord.UPIID == "" {
		return nil, apperrors.Validation("landlord has no UPI id on file")
	}

	link := utils.UPIIntent(
		landlord.UPIID,
		landlord.Name,
		booking.Amount,
		utils.PayoutNote(booking.ID.String()),
	)

	return &PayoutIntentResponse{
		BookingID: booking.ID,
		Payee:     landlord.UPIID,
		UPILink:   link,
	}, nil
}

// MarkTransferred closes the settlement after the admin has moved the
// money to the landlord.
func (c *AdminSettlementController) MarkTransferred(
	ctx context.Context,
	admin *User,
	bookingID uuid.UUID,
	request *MarkTransferredRequest,
) (*Booking, error) {
	log := c.log.Function("MarkTransferred")

	if request.PayoutTxnID == "" {
		return nil, apperrors.Validation("payoutTxnId is required")
	}

	var booking *Booking
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		booking, err = c.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if booking.Status != BookingApproved {
			return apperrors.StateConflict(
				string(booking.Status),
				"only an approved booking can be marked transferred",
			)
		}

		now := time.Now()
		booking.PayoutTxnID = request.PayoutTxnID
		booking.PayoutAt = &now
		booking.SetStatus(BookingTransferred, Actor(admin.ID), "Payout transferred")

		if err := c.bookingRepo.Save(ctx, tx, booking); err != nil {
			return err
		}

		// Approval normally assigns the house; this covers bookings
		// approved before a crash interrupted the assignment.
		return c.assignHouseToTenant(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	c.notifyLandlordPayout(ctx, booking)

	if err := c.eventBus.PublishBooking(events.BOOKING_TRANSFERRED, booking.ID, string(booking.Status), map[string]any{
		"payoutTxnId": booking.PayoutTxnID,
	}); err != nil {
		log.Warn("failed to publish booking event", "bookingID", booking.ID, "error", err)
	}

	return booking, nil
}

func (c *AdminSettlementController) assignHouseToTenant(
	ctx context.Context,
	tx *gorm.DB,
	booking *Booking,
) error {
	log := c.log.Function("assignHouseToTenant")

	house, err := c.houseRepo.GetByIDForUpdate(ctx, tx, booking.HouseID)
	if err != nil {
		return err
	}

	if house.IsRented() {
		log.Info(
			"house already rented, skipping assignment",
			"houseID", house.ID,
			"bookingID", booking.ID,
		)
		return nil
	}

	house.AssignTenant(booking.TenantID, booking.ID, time.Now())
	return c.houseRepo.Save(ctx, tx, house)
}

func (c *AdminSettlementController) notifyTenant(
	ctx context.Context,
	booking *Booking,
	approved bool,
	note string,
) {
	log := c.log.Function("notifyTenant")

	tenant, err := c.userRepo.GetByID(ctx, c.db.SQL, booking.TenantID)
	if err != nil {
		log.Warn("failed to load tenant for notification", "bookingID", booking.ID, "error", err)
		return
	}

	c.mailer.SendBookingDecision(tenant.Email, tenant.Name, booking.ID.String(), approved, note)
}

func (c *AdminSettlementController) notifyLandlordPayout(ctx context.Context, booking *Booking) {
	log := c.log.Function("notifyLandlordPayout")

	landlord, err := c.userRepo.GetByID(ctx, c.db.SQL, booking.LandlordID)
	if err != nil {
		log.Warn("failed to load landlord for notification", "bookingID", booking.ID, "error", err)
		return
	}

	c.mailer.SendPayoutNotice(
		landlord.Email,
		landlord.Name,
		booking.ID.String(),
		booking.Amount.StringFixed(2),
		booking.PayoutTxnID,
	)
}
