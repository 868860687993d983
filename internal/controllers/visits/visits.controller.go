package visitController

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

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitController struct {
	visitRepo          repositories.VisitRepository
	houseRepo          repositories.HouseRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type RequestVisitRequest struct {
	HouseID   uuid.UUID `json:"houseId"   validate:"required"`
	SlotStart time.Time `json:"slotStart" validate:"required"`
	SlotEnd   time.Time `json:"slotEnd"   validate:"required"`
	Message   string    `json:"message,omitempty"`
}

type DecideVisitRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note,omitempty"`
}

type VisitControllerInterface interface {
	Request(ctx context.Context, tenant *User, request *RequestVisitRequest) (*VisitRequest, error)
	Decide(
		ctx context.Context,
		landlord *User,
		visitID uuid.UUID,
		request *DecideVisitRequest,
	) (*VisitRequest, error)
	Cancel(ctx context.Context, tenant *User, visitID uuid.UUID) (*VisitRequest, error)
	Complete(ctx context.Context, landlord *User, visitID uuid.UUID) (*VisitRequest, error)
	ListMine(ctx context.Context, tenant *User) ([]*VisitRequest, error)
	ListForLandlord(ctx context.Context, landlord *User) ([]*VisitRequest, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) VisitControllerInterface {
	return &VisitController{
		visitRepo:          repos.Visit,
		houseRepo:          repos.House,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("visitController"),
	}
}

func (c *VisitController) Request(
	ctx context.Context,
	tenant *User,
	request *RequestVisitRequest,
) (*VisitRequest, error) {
	log := c.log.Function("Request")

	if !ValidSlot(request.SlotStart, request.SlotEnd, time.Now()) {
		return nil, apperrors.Validation(
			"visit slot must be 15 minutes to 4 hours long and start at least 30 minutes from now",
		)
	}

	house, err := c.houseRepo.GetByID(ctx, c.db.SQL, request.HouseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if house.LandlordID == tenant.ID {
		return nil, apperrors.Validation("cannot request a visit to your own house")
	}

	var visit *VisitRequest
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		open, err := c.visitRepo.FindOpenForTenantAndHouse(ctx, tx, tenant.ID, house.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperrors.StateConflict(
				string(open.Status),
				"you already have an open visit request for this house",
			)
		}

		visit = &VisitRequest{
			HouseID:    house.ID,
			TenantID:   tenant.ID,
			LandlordID: house.LandlordID,
			SlotStart:  request.SlotStart,
			SlotEnd:    request.SlotEnd,
			Message:    request.Message,
			Status:     VisitRequested,
		}
		return c.visitRepo.Create(ctx, tx, visit)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.Publish(events.VISIT_CHANNEL, events.Event{
		Type: events.VISIT_REQUESTED,
		Data: map[string]any{"visitId": visit.ID.String(), "houseId": house.ID.String()},
	}); err != nil {
		log.Warn("failed to publish visit event", "visitID", visit.ID, "error", err)
	}

	return visit, nil
}

func (c *VisitController) Decide(
	ctx context.Context,
	landlord *User,
	visitID uuid.UUID,
	request *DecideVisitRequest,
) (*VisitRequest, error) {
	log := c.log.Function("Decide")

	var visit *VisitRequest
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		visit, err = c.visitRepo.GetByID(ctx, tx, visitID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if visit.LandlordID != landlord.ID {
			return apperrors.ErrForbidden
		}

		if visit.Status != VisitRequested {
			return apperrors.StateConflict(
				string(visit.Status),
				"only a requested visit can be decided",
			)
		}

		now := time.Now()
		visit.DecidedAt = &now
		if request.Approve {
			visit.Status = VisitApproved
		} else {
			visit.Status = VisitDeclined
			visit.DeclineNote = request.Note
		}

		return c.visitRepo.Save(ctx, tx, visit)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.Publish(events.VISIT_CHANNEL, events.Event{
		Type: events.VISIT_DECIDED,
		Data: map[string]any{"visitId": visit.ID.String(), "status": string(visit.Status)},
	}); err != nil {
		log.Warn("failed to publish visit event", "visitID", visit.ID, "error", err)
	}

	return visit, nil
}

func (c *VisitController) Cancel(
	ctx context.Context,
	tenant *User,
	visitID uuid.UUID,
) (*VisitRequest, error) {
	var visit *VisitRequest
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		visit, err = c.visitRepo.GetByID(ctx, tx, visitID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if visit.TenantID != tenant.ID {
			return apperrors.ErrForbidden
		}

		if !visit.Open() {
			return apperrors.StateConflict(
				string(visit.Status),
				"visit is no longer open",
			)
		}

		now := time.Now()
		visit.Status = VisitCancelled
		visit.CancelledAt = &now

		return c.visitRepo.Save(ctx, tx, visit)
	})
	if err != nil {
		return nil, err
	}

	return visit, nil
}

func (c *VisitController) Complete(
	ctx context.Context,
	landlord *User,
	visitID uuid.UUID,
) (*VisitRequest, error) {
	var visit *VisitRequest
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		visit, err = c.visitRepo.GetByID(ctx, tx, visitID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if visit.LandlordID != landlord.ID {
			return apperrors.ErrForbidden
		}

		if visit.Status != VisitApproved {
			return apperrors.StateConflict(
				string(visit.Status),
				"only an approved visit can be completed",
			)
		}

		visit.Status = VisitCompleted
		return c.visitRepo.Save(ctx, tx, visit)
	})
	if err != nil {
		return nil, err
	}

	return visit, nil
}

func (c *VisitController) ListMine(ctx context.Context, tenant *User) ([]*VisitRequest, error) {
	return c.visitRepo.ListByTenant(ctx, c.db.SQL, tenant.ID)
}

func (c *VisitController) ListForLandlord(
	ctx context.Context,
	landlord *User,
) ([]*VisitRequest, error) {
	return c.visitRepo.ListByLandlord(ctx, c.db.SQL, landlord.ID)
}
