package repositories

import (
	"context"
	"time"

	"homerent/internal/logger"
	. "homerent/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, booking *Booking) error
	Save(ctx context.Context, tx *gorm.DB, booking *Booking) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Booking, error)
	FindActiveForTenantAndLandlord(
		ctx context.Context,
		tx *gorm.DB,
		tenantID, landlordID uuid.UUID,
	) (*Booking, error)
	FindBlockingForHouse(ctx context.Context, tx *gorm.DB, houseID uuid.UUID) (*Booking, error)
	FindStaleHolds(ctx context.Context, tx *gorm.DB, cutoff time.Time) ([]*Booking, error)
	FindHoldsForHouse(ctx context.Context, tx *gorm.DB, houseID uuid.UUID) ([]*Booking, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*Booking, error)
	ListByLandlord(ctx context.Context, tx *gorm.DB, landlordID uuid.UUID) ([]*Booking, error)
	ListByStatuses(ctx context.Context, tx *gorm.DB, statuses []BookingStatus) ([]*Booking, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*Booking, error)
}

type bookingRepository struct{}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(booking).Error; err != nil {
		return log.Err(
			"failed to create booking",
			err,
			"houseID", booking.HouseID,
			"tenantID", booking.TenantID,
		)
	}

	log.Info("Booking created", "id", booking.ID, "houseID", booking.HouseID)
	return nil
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, booking *Booking) error {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(booking).Error; err != nil {
		return log.Err("failed to save booking", err, "id", booking.ID)
	}

	return nil
}

func (r *bookingRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("GetByID")

	var booking Booking
	if err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		Preload("Landlord").
		First(&booking, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get booking", err, "id", id)
	}

	return &booking, nil
}

// GetByIDForUpdate loads the booking with a row lock. Only valid inside
// a transaction.
func (r *bookingRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("GetByIDForUpdate")

	var booking Booking
	if err := tx.WithContext(ctx).
		Clauses(forUpdate()).
		First(&booking, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get booking for update", err, "id", id)
	}

	return &booking, nil
}

// FindActiveForTenantAndLandlord returns the tenant's live booking with
// the given landlord, across all of that landlord's houses. One active
// booking per tenant-landlord pair is allowed at a time.
func (r *bookingRepository) FindActiveForTenantAndLandlord(
	ctx context.Context,
	tx *gorm.DB,
	tenantID, landlordID uuid.UUID,
) (*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").
		Function("FindActiveForTenantAndLandlord")

	var booking Booking
	err := tx.WithContext(ctx).
		Where("tenant_id = ? AND landlord_id = ? AND status IN ?",
			tenantID, landlordID, statusStrings(TenantActiveStatuses())).
		Order("created_at DESC").
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err(
			"failed to find active booking",
			err,
			"tenantID", tenantID,
			"landlordID", landlordID,
		)
	}

	return &booking, nil
}

// FindBlockingForHouse returns the booking that makes the house
// unavailable to other tenants, if any. Bare holds do not block.
func (r *bookingRepository) FindBlockingForHouse(
	ctx context.Context,
	tx *gorm.DB,
	houseID uuid.UUID,
) (*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("FindBlockingForHouse")

	var booking Booking
	err := tx.WithContext(ctx).
		Where("house_id = ? AND status IN ?", houseID, statusStrings(HouseBlockingStatuses())).
		Order("created_at DESC").
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to find blocking booking", err, "houseID", houseID)
	}

	return &booking, nil
}

// FindStaleHolds returns initiated bookings created before the cutoff.
// The caller expires them one by one so each keeps its history.
func (r *bookingRepository) FindStaleHolds(
	ctx context.Context,
	tx *gorm.DB,
	cutoff time.Time,
) ([]*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("FindStaleHolds")

	var bookings []*Booking
	err := tx.WithContext(ctx).
		Where("status = ? AND created_at < ?", BookingInitiated, cutoff).
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to find stale holds", err, "cutoff", cutoff)
	}

	return bookings, nil
}

// FindHoldsForHouse returns the open holds on a house. A house has at
// most a handful of these at any time.
func (r *bookingRepository) FindHoldsForHouse(
	ctx context.Context,
	tx *gorm.DB,
	houseID uuid.UUID,
) ([]*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("FindHoldsForHouse")

	var bookings []*Booking
	err := tx.WithContext(ctx).
		Where("house_id = ? AND status = ?", houseID, BookingInitiated).
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to find holds for house", err, "houseID", houseID)
	}

	return bookings, nil
}

func (r *bookingRepository) ListByTenant(
	ctx context.Context,
	tx *gorm.DB,
	tenantID uuid.UUID,
) ([]*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("ListByTenant")

	var bookings []*Booking
	err := tx.WithContext(ctx).
		Preload("House").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to list tenant bookings", err, "tenantID", tenantID)
	}

	return bookings, nil
}

func (r *bookingRepository) ListByLandlord(
	ctx context.Context,
	tx *gorm.DB,
	landlordID uuid.UUID,
) ([]*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("ListByLandlord")

	var bookings []*Booking
	err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to list landlord bookings", err, "landlordID", landlordID)
	}

	return bookings, nil
}

func (r *bookingRepository) ListByStatuses(
	ctx context.Context,
	tx *gorm.DB,
	statuses []BookingStatus,
) ([]*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("ListByStatuses")

	var bookings []*Booking
	err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		Preload("Landlord").
		Where("status IN ?", statusStrings(statuses)).
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to list bookings by status", err, "statuses", statuses)
	}

	return bookings, nil
}

func (r *bookingRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*Booking, error) {
	log := logger.NewWithContext(ctx, "bookingRepository").Function("ListAll")

	var bookings []*Booking
	err := tx.WithContext(ctx).
		Preload("House").
		Preload("Tenant").
		Preload("Landlord").
		Order("created_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, log.Err("failed to list bookings", err)
	}

	return bookings, nil
}

func statusStrings(statuses []BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
