package bookingController

import (
	"context"
	"strings"
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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// transactor runs a unit of work inside a database transaction.
type transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

// bookingPublisher fans booking lifecycle events out to subscribers.
type bookingPublisher interface {
	PublishBooking(
		messageType events.MessageType,
		bookingID uuid.UUID,
		status string,
		data map[string]any,
	) error
}

type BookingController struct {
	bookingRepo        repositories.BookingRepository
	houseRepo          repositories.HouseRepository
	transactionService transactor
	houseLock          *services.HouseLockService
	eventBus           bookingPublisher
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type InitiateBookingRequest struct {
	HouseID uuid.UUID `json:"houseId" validate:"required"`
}

// Payee identifies who a UPI deep link pays.
type Payee struct {
	Name  string `json:"name"`
	UPIID string `json:"upiId"`
}

type InitiateBookingResponse struct {
	Booking *Booking        `json:"booking"`
	Amount  decimal.Decimal `json:"amount"`
	UPILink string          `json:"upiLink"`
	Payee   Payee           `json:"payee"`
	// Hold window; the booking expires HoldMinutes after creation.
	HoldMinutes int       `json:"holdMinutes"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type MarkPaidRequest struct {
	UTR      string `json:"utr"                validate:"required"`
	ProofURL string `json:"proofUrl,omitempty"`
}

type CancelBookingRequest struct {
	Note string `json:"note,omitempty"`
}

type AvailabilityResponse struct {
	HouseID   uuid.UUID `json:"houseId"`
	Available bool      `json:"available"`
	// Reason the house is unavailable, with the status behind it:
	// either the house record itself is rented or a live booking
	// blocks it.
	Reason string `json:"reason,omitempty"`
	Status string `json:"status,omitempty"`
}

const (
	ReasonHouseRented   = "house_rented"
	ReasonActiveBooking = "active_booking"
)

type BookingControllerInterface interface {
	Initiate(
		ctx context.Context,
		tenant *User,
		request *InitiateBookingRequest,
	) (*InitiateBookingResponse, error)
	MarkPaid(
		ctx context.Context,
		tenant *User,
		bookingID uuid.UUID,
		request *MarkPaidRequest,
	) (*Booking, error)
	Cancel(
		ctx context.Context,
		tenant *User,
		bookingID uuid.UUID,
		request *CancelBookingRequest,
	) (*Booking, error)
	Get(ctx context.Context, user *User, bookingID uuid.UUID) (*Booking, error)
	Availability(ctx context.Context, houseID uuid.UUID) (*AvailabilityResponse, error)
	ListMine(ctx context.Context, tenant *User) ([]*Booking, error)
	ListForLandlord(ctx context.Context, landlord *User) ([]*Booking, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) BookingControllerInterface {
	return &BookingController{
		bookingRepo:        repos.Booking,
		houseRepo:          repos.House,
		transactionService: services.Transaction,
		houseLock:          services.HouseLock,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("bookingController"),
	}
}

func (c *BookingController) holdDuration() time.Duration {
	if c.Config.BookingHoldMinutes > 0 {
		return time.Duration(c.Config.BookingHoldMinutes) * time.Minute
	}
	return DefaultHoldDuration
}

// Initiate places a hold on a house for the tenant and hands back the
// UPI deep link for the booking payment. The per-house lock plus the
// transaction keep concurrent initiations serialized; the partial
// unique index on bookings is the cross-process backstop.
func (c *BookingController) Initiate(
	ctx context.Context,
	tenant *User,
	request *InitiateBookingRequest,
) (*InitiateBookingResponse, error) {
	log := c.log.Function("Initiate")

	if request.HouseID == uuid.Nil {
		return nil, apperrors.Validation("houseId is required")
	}

	if c.Config.PlatformUPIID == "" {
		return nil, log.Error("platform UPI id is not configured")
	}

	unlock := c.houseLock.Lock(request.HouseID)
	defer unlock()

	var booking *Booking
	var amount decimal.Decimal

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		house, err := c.houseRepo.GetByIDForUpdate(ctx, tx, request.HouseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if house.VerificationStatus != VerificationApproved {
			return apperrors.Validation("house is not open for booking")
		}
		if house.IsRented() {
			return apperrors.StateConflict(string(HouseRented), "house is already rented")
		}
		if house.LandlordID == tenant.ID {
			return apperrors.Validation("cannot book your own house")
		}

		// One active booking per tenant-landlord pair, across all of
		// the landlord's houses. The tenant's own stale hold is
		// expired in place so they can rebook immediately.
		own, err := c.bookingRepo.FindActiveForTenantAndLandlord(ctx, tx, tenant.ID, house.LandlordID)
		if err != nil {
			return err
		}
		if own != nil {
			if own.HoldExpired(time.Now(), c.holdDuration()) {
				own.SetStatus(BookingExpired, SystemActor, "Hold expired")
				if err := c.bookingRepo.Save(ctx, tx, own); err != nil {
					return err
				}
			} else {
				return apperrors.OwnBookingContention(own.ID, string(own.Status), own.CanCancel())
			}
		}

		blocking, err := c.bookingRepo.FindBlockingForHouse(ctx, tx, house.ID)
		if err != nil {
			return err
		}
		if blocking != nil {
			// Never leak another tenant's booking id.
			return apperrors.HouseTakenContention(string(blocking.Status))
		}

		amount = house.BookingAmount
		if amount.IsZero() {
			amount = house.Deposit
		}
		if !amount.IsPositive() {
			return apperrors.Validation("house has no booking amount configured")
		}

		booking = &Booking{
			HouseID:    house.ID,
			LandlordID: house.LandlordID,
			TenantID:   tenant.ID,
			Amount:     amount,
			Status:     BookingInitiated,
		}

		return c.bookingRepo.Create(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	upiLink := utils.UPIIntent(
		c.Config.PlatformUPIID,
		c.Config.PlatformUPIName,
		amount,
		utils.BookingNote(booking.ID.String()),
	)

	if err := c.eventBus.PublishBooking(events.BOOKING_INITIATED, booking.ID, string(booking.Status), map[string]any{
		"houseId":  booking.HouseID.String(),
		"tenantId": booking.TenantID.String(),
	}); err != nil {
		log.Warn("failed to publish booking event", "bookingID", booking.ID, "error", err)
	}

	return &InitiateBookingResponse{
		Booking: booking,
		Amount:  amount,
		UPILink: upiLink,
		Payee: Payee{
			Name:  c.Config.PlatformUPIName,
			UPIID: c.Config.PlatformUPIID,
		},
		HoldMinutes: int(c.holdDuration().Minutes()),
		ExpiresAt:   booking.CreatedAt.Add(c.holdDuration()),
	}, nil
}

// MarkPaid records the tenant's UTR and moves the booking to
// payment_submitted, which is the point it starts blocking the house.
func (c *BookingController) MarkPaid(
	ctx context.Context,
	tenant *User,
	bookingID uuid.UUID,
	request *MarkPaidRequest,
) (*Booking, error) {
	log := c.log.Function("MarkPaid")

	if request.UTR == "" {
		return nil, apperrors.Validation("utr is required")
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

		if booking.TenantID != tenant.ID {
			return apperrors.ErrForbidden
		}

		if booking.HoldExpired(time.Now(), c.holdDuration()) {
			booking.SetStatus(BookingExpired, SystemActor, "Hold expired")
			if err := c.bookingRepo.Save(ctx, tx, booking); err != nil {
				return err
			}
			return apperrors.StateConflict(
				string(BookingExpired),
				"booking hold has expired",
			)
		}

		if booking.Status != BookingInitiated {
			return apperrors.StateConflict(
				string(booking.Status),
				"payment can only be submitted for an initiated booking",
			)
		}

		// The house may have been rented out from under the hold, for
		// example when another tenant's booking was approved and later
		// cancelled. A hold never guarantees the house.
		house, err := c.houseRepo.GetByIDForUpdate(ctx, tx, booking.HouseID)
		if err != nil {
			return err
		}
		if house.IsRented() {
			return apperrors.StateConflict(
				string(HouseRented),
				"house is already rented",
			)
		}

		now := time.Now()
		booking.TenantUTR = request.UTR
		booking.PaymentProofURL = request.ProofURL
		booking.PaymentSubmittedAt = &now
		booking.SetStatus(BookingPaymentSubmitted, Actor(tenant.ID), "Payment proof submitted")

		return c.bookingRepo.Save(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.PublishBooking(events.BOOKING_PAID, booking.ID, string(booking.Status), nil); err != nil {
		log.Warn("failed to publish booking event", "bookingID", booking.ID, "error", err)
	}

	return booking, nil
}

// Cancel withdraws the tenant's booking from any non-terminal state.
func (c *BookingController) Cancel(
	ctx context.Context,
	tenant *User,
	bookingID uuid.UUID,
	request *CancelBookingRequest,
) (*Booking, error) {
	log := c.log.Function("Cancel")

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

		if booking.TenantID != tenant.ID {
			return apperrors.ErrForbidden
		}

		if !booking.CanCancel() {
			return apperrors.StateConflict(
				string(booking.Status),
				"Cannot cancel booking in status: %s", booking.Status,
			)
		}

		note := strings.TrimSpace(request.Note)
		historyNote := note
		if historyNote == "" {
			historyNote = "Cancelled by tenant"
		}

		now := time.Now()
		booking.CancelledAt = &now
		booking.CancelNote = note
		booking.SetStatus(BookingCancelled, Actor(tenant.ID), historyNote)

		return c.bookingRepo.Save(ctx, tx, booking)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.PublishBooking(events.BOOKING_CANCELLED, booking.ID, string(booking.Status), nil); err != nil {
		log.Warn("failed to publish booking event", "bookingID", booking.ID, "error", err)
	}

	return booking, nil
}

// Get returns the booking to its tenant, its landlord, or an admin.
// Stale holds are expired on read so callers never see a live-looking
// hold that is past its deadline.
func (c *BookingController) Get(
	ctx context.Context,
	user *User,
	bookingID uuid.UUID,
) (*Booking, error) {
	booking, err := c.bookingRepo.GetByID(ctx, c.db.SQL, bookingID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if booking.TenantID != user.ID && booking.LandlordID != user.ID && !user.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	if booking.HoldExpired(time.Now(), c.holdDuration()) {
		if err := c.expireHold(ctx, booking); err != nil {
			return nil, err
		}
	}

	return booking, nil
}

// Availability reports whether a house can take a new booking. A hold
// past its deadline counts as available even before the sweep runs.
func (c *BookingController) Availability(
	ctx context.Context,
	houseID uuid.UUID,
) (*AvailabilityResponse, error) {
	house, err := c.houseRepo.GetByID(ctx, c.db.SQL, houseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if house.IsRented() {
		return &AvailabilityResponse{
			HouseID:   houseID,
			Available: false,
			Reason:    ReasonHouseRented,
			Status:    string(HouseRented),
		}, nil
	}

	blocking, err := c.bookingRepo.FindBlockingForHouse(ctx, c.db.SQL, houseID)
	if err != nil {
		return nil, err
	}
	if blocking != nil {
		return &AvailabilityResponse{
			HouseID:   houseID,
			Available: false,
			Reason:    ReasonActiveBooking,
			Status:    string(blocking.Status),
		}, nil
	}

	// A hold never blocks availability, but a stale one is flipped to
	// expired here rather than waiting for the sweep.
	holds, err := c.bookingRepo.FindHoldsForHouse(ctx, c.db.SQL, houseID)
	if err != nil {
		return nil, err
	}
	if _, err := c.expireStale(ctx, holds); err != nil {
		return nil, err
	}

	return &AvailabilityResponse{HouseID: houseID, Available: true}, nil
}

func (c *BookingController) ListMine(ctx context.Context, tenant *User) ([]*Booking, error) {
	bookings, err := c.bookingRepo.ListByTenant(ctx, c.db.SQL, tenant.ID)
	if err != nil {
		return nil, err
	}

	return c.expireStale(ctx, bookings)
}

func (c *BookingController) ListForLandlord(
	ctx context.Context,
	landlord *User,
) ([]*Booking, error) {
	bookings, err := c.bookingRepo.ListByLandlord(ctx, c.db.SQL, landlord.ID)
	if err != nil {
		return nil, err
	}

	return c.expireStale(ctx, bookings)
}

func (c *BookingController) expireStale(
	ctx context.Context,
	bookings []*Booking,
) ([]*Booking, error) {
	now := time.Now()
	for _, booking := range bookings {
		if booking.HoldExpired(now, c.holdDuration()) {
			if err := c.expireHold(ctx, booking); err != nil {
				return nil, err
			}
		}
	}
	return bookings, nil
}

func (c *BookingController) expireHold(ctx context.Context, booking *Booking) error {
	log := c.log.Function("expireHold")

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		fresh, err := c.bookingRepo.GetByIDForUpdate(ctx, tx, booking.ID)
		if err != nil {
			return err
		}

		// Someone else may have advanced or expired it already.
		if !fresh.HoldExpired(time.Now(), c.holdDuration()) {
			booking.Status = fresh.Status
			booking.StatusHistory = fresh.StatusHistory
			return nil
		}

		fresh.SetStatus(BookingExpired, SystemActor, "Hold expired")
		if err := c.bookingRepo.Save(ctx, tx, fresh); err != nil {
			return err
		}

		booking.Status = fresh.Status
		booking.StatusHistory = fresh.StatusHistory
		return nil
	})
	if err != nil {
		return err
	}

	if booking.Status == BookingExpired {
		if err := c.eventBus.PublishBooking(events.BOOKING_EXPIRED, booking.ID, string(booking.Status), nil); err != nil {
			log.Warn("failed to publish booking event", "bookingID", booking.ID, "error", err)
		}
	}

	return nil
}
