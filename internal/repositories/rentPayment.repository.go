package repositories

import (
	"context"

	"homerent/internal/logger"
	. "homerent/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RentPaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *RentPayment) error
	Save(ctx context.Context, tx *gorm.DB, payment *RentPayment) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*RentPayment, error)
	FindByHouseTenantPeriod(
		ctx context.Context,
		tx *gorm.DB,
		houseID, tenantID uuid.UUID,
		period string,
	) (*RentPayment, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*RentPayment, error)
	ListByLandlord(ctx context.Context, tx *gorm.DB, landlordID uuid.UUID) ([]*RentPayment, error)
}

type rentPaymentRepository struct{}

func NewRentPaymentRepository() RentPaymentRepository {
	return &rentPaymentRepository{}
}

func (r *rentPaymentRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	payment *RentPayment,
) error {
	log := logger.NewWithContext(ctx, "rentPaymentRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
		return log.Err(
			"failed to create rent payment",
			err,
			"houseID", payment.HouseID,
			"period", payment.Period,
		)
	}

	log.Info("Rent payment created", "id", payment.ID, "period", payment.Period)
	return nil
}

func (r *rentPaymentRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	payment *RentPayment,
) error {
	log := logger.NewWithContext(ctx, "rentPaymentRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(payment).Error; err != nil {
		return log.Err("failed to save rent payment", err, "id", payment.ID)
	}

	return nil
}

func (r *rentPaymentRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*RentPayment, error) {
	log := logger.NewWithContext(ctx, "rentPaymentRepository").Function("GetByID")

	var payment RentPayment
	if err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		First(&payment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get rent payment", err, "id", id)
	}

	return &payment, nil
}

func (r *rentPaymentRepository) FindByHouseTenantPeriod(
	ctx context.Context,
	tx *gorm.DB,
	houseID, tenantID uuid.UUID,
	period string,
) (*RentPayment, error) {
	log := logger.NewWithContext(ctx, "rentPaymentRepository").
		Function("FindByHouseTenantPeriod")

	var payment RentPayment
	err := tx.WithContext(ctx).
		Where("house_id = ? AND tenant_id = ? AND period = ?", houseID, tenantID, period).
		First(&payment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err(
			"failed to find rent payment",
			err,
			"houseID", houseID,
			"period", period,
		)
	}

	return &payment, nil
}

func (r *rentPaymentRepository) ListByTenant(
	ctx context.Context,
	tx *gorm.DB,
	tenantID uuid.UUID,
) ([]*RentPayment, error) {
	log := logger.NewWithContext(ctx, "rentPaymentRepository").Function("ListByTenant")

	var payments []*RentPayment
	err := tx.WithContext(ctx).
		Preload("House").
		Where("tenant_id = ?", tenantID).
		Order("period DESC").
		Find(&payments).Error
	if err != nil {
		return nil, log.Err("failed to list tenant rent payments", err, "tenantID", tenantID)
	}

	return payments, nil
}

func (r *rentPaymentRepository) ListByLandlord(
	ctx context.Context,
	tx *gorm.DB,
	landlordID uuid.UUID,
) ([]*RentPayment, error) {
	log := logger.NewWithContext(ctx, "rentPaymentRepository").Function("ListByLandlord")

	var payments []*RentPayment
	err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		Where("landlord_id = ?", landlordID).
		Order("period DESC").
		Find(&payments).Error
	if err != nil {
		return nil, log.Err("failed to list landlord rent payments", err, "landlordID", landlordID)
	}

	return payments, nil
}
