package repositories

import (
	"context"

	"homerent/internal/logger"
	. "homerent/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupportRepository interface {
	CreateTicket(ctx context.Context, tx *gorm.DB, ticket *SupportTicket) error
	SaveTicket(ctx context.Context, tx *gorm.DB, ticket *SupportTicket) error
	GetTicket(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*SupportTicket, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*SupportTicket, error)
	ListAll(ctx context.Context, tx *gorm.DB, status TicketStatus) ([]*SupportTicket, error)
	AddMessage(ctx context.Context, tx *gorm.DB, message *TicketMessage) error
}

type supportRepository struct{}

func NewSupportRepository() SupportRepository {
	return &supportRepository{}
}

func (r *supportRepository) CreateTicket(
	ctx context.Context,
	tx *gorm.DB,
	ticket *SupportTicket,
) error {
	log := logger.NewWithContext(ctx, "supportRepository").Function("CreateTicket")

	if err := tx.WithContext(ctx).Create(ticket).Error; err != nil {
		return log.Err("failed to create ticket", err, "userID", ticket.UserID)
	}

	log.Info("Support ticket created", "id", ticket.ID, "category", ticket.Category)
	return nil
}

func (r *supportRepository) SaveTicket(
	ctx context.Context,
	tx *gorm.DB,
	ticket *SupportTicket,
) error {
	log := logger.NewWithContext(ctx, "supportRepository").Function("SaveTicket")

	if err := tx.WithContext(ctx).Save(ticket).Error; err != nil {
		return log.Err("failed to save ticket", err, "id", ticket.ID)
	}

	return nil
}

func (r *supportRepository) GetTicket(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*SupportTicket, error) {
	log := logger.NewWithContext(ctx, "supportRepository").Function("GetTicket")

	var ticket SupportTicket
	err := tx.WithContext(ctx).
		Preload("User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Messages.Author").
		First(&ticket, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get ticket", err, "id", id)
	}

	return &ticket, nil
}

func (r *supportRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*SupportTicket, error) {
	log := logger.NewWithContext(ctx, "supportRepository").Function("ListByUser")

	var tickets []*SupportTicket
	err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, log.Err("failed to list user tickets", err, "userID", userID)
	}

	return tickets, nil
}

func (r *supportRepository) ListAll(
	ctx context.Context,
	tx *gorm.DB,
	status TicketStatus,
) ([]*SupportTicket, error) {
	log := logger.NewWithContext(ctx, "supportRepository").Function("ListAll")

	query := tx.WithContext(ctx).Preload("User")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var tickets []*SupportTicket
	err := query.
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END").
		Order("created_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, log.Err("failed to list tickets", err, "status", status)
	}

	return tickets, nil
}

func (r *supportRepository) AddMessage(
	ctx context.Context,
	tx *gorm.DB,
	message *TicketMessage,
) error {
	log := logger.NewWithContext(ctx, "supportRepository").Function("AddMessage")

	if err := tx.WithContext(ctx).Create(message).Error; err != nil {
		return log.Err("failed to add ticket message", err, "ticketID", message.TicketID)
	}

	return nil
}
