package supportController

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

type SupportController struct {
	supportRepo        repositories.SupportRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type OpenTicketRequest struct {
	Category  TicketCategory `json:"category" validate:"required"`
	Priority  TicketPriority `json:"priority"`
	Subject   string         `json:"subject"  validate:"required"`
	Body      string         `json:"body"     validate:"required"`
	BookingID *uuid.UUID     `json:"bookingId,omitempty"`
	HouseID   *uuid.UUID     `json:"houseId,omitempty"`
}

type ReplyRequest struct {
	Body string `json:"body" validate:"required"`
}

type UpdateTicketRequest struct {
	Status     *TicketStatus `json:"status,omitempty"`
	AssignedTo *uuid.UUID    `json:"assignedTo,omitempty"`
}

type SupportControllerInterface interface {
	Open(ctx context.Context, user *User, request *OpenTicketRequest) (*SupportTicket, error)
	Get(ctx context.Context, user *User, ticketID uuid.UUID) (*SupportTicket, error)
	Reply(
		ctx context.Context,
		user *User,
		ticketID uuid.UUID,
		request *ReplyRequest,
	) (*SupportTicket, error)
	Update(
		ctx context.Context,
		admin *User,
		ticketID uuid.UUID,
		request *UpdateTicketRequest,
	) (*SupportTicket, error)
	ListMine(ctx context.Context, user *User) ([]*SupportTicket, error)
	ListAll(ctx context.Context, status TicketStatus) ([]*SupportTicket, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) SupportControllerInterface {
	return &SupportController{
		supportRepo:        repos.Support,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("supportController"),
	}
}

func (c *SupportController) Open(
	ctx context.Context,
	user *User,
	request *OpenTicketRequest,
) (*SupportTicket, error) {
	log := c.log.Function("Open")

	if !request.Category.Valid() {
		return nil, apperrors.Validation("unknown category: %s", request.Category)
	}
	if request.Subject == "" || request.Body == "" {
		return nil, apperrors.Validation("subject and body are required")
	}

	priority := request.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.Validation("unknown priority: %s", priority)
	}

	ticket := &SupportTicket{
		UserID:    user.ID,
		Category:  request.Category,
		Priority:  priority,
		Status:    TicketOpen,
		Subject:   request.Subject,
		Body:      request.Body,
		BookingID: request.BookingID,
		HouseID:   request.HouseID,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.supportRepo.CreateTicket(ctx, tx, ticket)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.Publish(events.SUPPORT_CHANNEL, events.Event{
		Type: events.TICKET_OPENED,
		Data: map[string]any{
			"ticketId": ticket.ID.String(),
			"category": string(ticket.Category),
			"priority": string(ticket.Priority),
		},
	}); err != nil {
		log.Warn("failed to publish ticket event", "ticketID", ticket.ID, "error", err)
	}

	return ticket, nil
}

func (c *SupportController) Get(
	ctx context.Context,
	user *User,
	ticketID uuid.UUID,
) (*SupportTicket, error) {
	ticket, err := c.supportRepo.GetTicket(ctx, c.db.SQL, ticketID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if ticket.UserID != user.ID && !user.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	return ticket, nil
}

// Reply appends a message to the thread. A user answering a
// waiting_user ticket puts it back in the admin's queue.
func (c *SupportController) Reply(
	ctx context.Context,
	user *User,
	ticketID uuid.UUID,
	request *ReplyRequest,
) (*SupportTicket, error) {
	log := c.log.Function("Reply")

	if request.Body == "" {
		return nil, apperrors.Validation("body is required")
	}

	var ticket *SupportTicket
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		ticket, err = c.supportRepo.GetTicket(ctx, tx, ticketID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		fromStaff := user.IsAdmin()
		if ticket.UserID != user.ID && !fromStaff {
			return apperrors.ErrForbidden
		}

		if ticket.Status.Terminal() {
			return apperrors.StateConflict(string(ticket.Status), "ticket is closed")
		}

		message := &TicketMessage{
			TicketID:  ticket.ID,
			AuthorID:  user.ID,
			FromStaff: fromStaff,
			Body:      request.Body,
		}
		if err := c.supportRepo.AddMessage(ctx, tx, message); err != nil {
			return err
		}

		switch {
		case fromStaff && ticket.Status == TicketOpen:
			ticket.Status = TicketInProgress
		case !fromStaff && ticket.Status == TicketWaitingUser:
			ticket.Status = TicketInProgress
		}

		return c.supportRepo.SaveTicket(ctx, tx, ticket)
	})
	if err != nil {
		return nil, err
	}

	if err := c.eventBus.Publish(events.SUPPORT_CHANNEL, events.Event{
		Type: events.TICKET_UPDATED,
		Data: map[string]any{"ticketId": ticket.ID.String(), "status": string(ticket.Status)},
	}); err != nil {
		log.Warn("failed to publish ticket event", "ticketID", ticket.ID, "error", err)
	}

	return ticket, nil
}

func (c *SupportController) Update(
	ctx context.Context,
	admin *User,
	ticketID uuid.UUID,
	request *UpdateTicketRequest,
) (*SupportTicket, error) {
	var ticket *SupportTicket
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		ticket, err = c.supportRepo.GetTicket(ctx, tx, ticketID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrNotFound
			}
			return err
		}

		if request.Status != nil {
			if !request.Status.Valid() {
				return apperrors.Validation("unknown status: %s", *request.Status)
			}
			ticket.Status = *request.Status
			if ticket.Status == TicketResolved {
				now := time.Now()
				ticket.ResolvedAt = &now
			}
		}

		if request.AssignedTo != nil {
			ticket.AssignedTo = request.AssignedTo
		}

		return c.supportRepo.SaveTicket(ctx, tx, ticket)
	})
	if err != nil {
		return nil, err
	}

	return ticket, nil
}

func (c *SupportController) ListMine(ctx context.Context, user *User) ([]*SupportTicket, error) {
	return c.supportRepo.ListByUser(ctx, c.db.SQL, user.ID)
}

func (c *SupportController) ListAll(
	ctx context.Context,
	status TicketStatus,
) ([]*SupportTicket, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation("unknown status: %s", status)
	}
	return c.supportRepo.ListAll(ctx, c.db.SQL, status)
}
