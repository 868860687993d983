package repositories

import (
	"context"

	"homerent/internal/logger"
	. "homerent/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisitRepository interface {
	Create(ctx context.Context, tx *gorm.DB, visit *VisitRequest) error
	Save(ctx context.Context, tx *gorm.DB, visit *VisitRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*VisitRequest, error)
	FindOpenForTenantAndHouse(
		ctx context.Context,
		tx *gorm.DB,
		tenantID, houseID uuid.UUID,
	) (*VisitRequest, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*VisitRequest, error)
	ListByLandlord(ctx context.Context, tx *gorm.DB, landlordID uuid.UUID) ([]*VisitRequest, error)
}

type visitRepository struct{}

func NewVisitRepository() VisitRepository {
	return &visitRepository{}
}

func (r *visitRepository) Create(ctx context.Context, tx *gorm.DB, visit *VisitRequest) error {
	log := logger.NewWithContext(ctx, "visitRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(visit).Error; err != nil {
		return log.Err(
			"failed to create visit request",
			err,
			"houseID", visit.HouseID,
			"tenantID", visit.TenantID,
		)
	}

	log.Info("Visit request created", "id", visit.ID, "houseID", visit.HouseID)
	return nil
}

func (r *visitRepository) Save(ctx context.Context, tx *gorm.DB, visit *VisitRequest) error {
	log := logger.NewWithContext(ctx, "visitRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(visit).Error; err != nil {
		return log.Err("failed to save visit request", err, "id", visit.ID)
	}

	return nil
}

func (r *visitRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*VisitRequest, error) {
	log := logger.NewWithContext(ctx, "visitRepository").Function("GetByID")

	var visit VisitRequest
	if err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		First(&visit, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get visit request", err, "id", id)
	}

	return &visit, nil
}

func (r *visitRepository) FindOpenForTenantAndHouse(
	ctx context.Context,
	tx *gorm.DB,
	tenantID, houseID uuid.UUID,
) (*VisitRequest, error) {
	log := logger.NewWithContext(ctx, "visitRepository").Function("FindOpenForTenantAndHouse")

	var visit VisitRequest
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND house_id = ? AND status IN ?",
			tenantID, houseID, []string{string(VisitRequested), string(VisitApproved)}).
		First(&visit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err(
			"failed to find open visit request",
			err,
			"tenantID", tenantID,
			"houseID", houseID,
		)
	}

	return &visit, nil
}

func (r *visitRepository) ListByTenant(
	ctx context.Context,
	tx *gorm.DB,
	tenantID uuid.UUID,
) ([]*VisitRequest, error) {
	log := logger.NewWithContext(ctx, "visitRepository").Function("ListByTenant")

	var visits []*VisitRequest
	err := tx.WithContext(ctx).
		Preload("House").
		Where("tenant_id = ?", tenantID).
		Order("slot_start DESC").
		Find(&visits).Error
	if err != nil {
		return nil, log.Err("failed to list tenant visits", err, "tenantID", tenantID)
	}

	return visits, nil
}

func (r *visitRepository) ListByLandlord(
	ctx context.Context,
	tx *gorm.DB,
	landlordID uuid.UUID,
) ([]*VisitRequest, error) {
	log := logger.NewWithContext(ctx, "visitRepository").Function("ListByLandlord")

	var visits []*VisitRequest
	err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		Where("landlord_id = ?", landlordID).
		Order("slot_start ASC").
		Find(&visits).Error
	if err != nil {
		return nil, log.Err("failed to list landlord visits", err, "landlordID", landlordID)
	}

	return visits, nil
}
