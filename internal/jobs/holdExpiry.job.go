package jobs

import (
	"context"
	"time"

	"homerent/config"
	"homerent/internal/events"
	"homerent/internal/logger"
	"homerent/internal/models"
	"homerent/internal/repositories"
	"homerent/internal/services"

	"gorm.io/gorm"
)

// HoldExpiryJob sweeps initiated bookings past their hold deadline and
// expires them. Reads also expire lazily; the sweep keeps the table
// clean when nobody is looking.
type HoldExpiryJob struct {
	bookingRepo        repositories.BookingRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	holdDuration       time.Duration
	log                logger.Logger
	schedule           services.Schedule
}

func NewHoldExpiryJob(
	repos repositories.Repository,
	transactionService *services.TransactionService,
	eventBus *events.EventBus,
	config config.Config,
	schedule services.Schedule,
) *HoldExpiryJob {
	log := logger.New("holdExpiryJob")

	hold := models.DefaultHoldDuration
	if config.BookingHoldMinutes > 0 {
		hold = time.Duration(config.BookingHoldMinutes) * time.Minute
	}

	return &HoldExpiryJob{
		bookingRepo:        repos.Booking,
		transactionService: transactionService,
		eventBus:           eventBus,
		holdDuration:       hold,
		log:                log,
		schedule:           schedule,
	}
}

func (j *HoldExpiryJob) Name() string {
	return "BookingHoldExpiry"
}

func (j *HoldExpiryJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *HoldExpiryJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	var expired []*models.Booking

	err := j.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		cutoff := time.Now().Add(-j.holdDuration)
		stale, err := j.bookingRepo.FindStaleHolds(ctx, tx, cutoff)
		if err != nil {
			return err
		}

		for _, booking := range stale {
			booking.SetStatus(models.BookingExpired, models.SystemActor, "Hold expired")
			if err := j.bookingRepo.Save(ctx, tx, booking); err != nil {
				return err
			}
			expired = append(expired, booking)
		}

		return nil
	})
	if err != nil {
		return log.Err("hold expiry sweep failed", err)
	}

	for _, booking := range expired {
		if err := j.eventBus.PublishBooking(
			events.BOOKING_EXPIRED,
			booking.ID,
			string(booking.Status),
			nil,
		); err != nil {
			log.Warn("failed to publish expiry event", "bookingID", booking.ID, "error", err)
		}
	}

	if len(expired) > 0 {
		log.Info("Expired stale booking holds", "count", len(expired))
	}

	return nil
}
