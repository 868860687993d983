package repositories

import (
	"context"
	"time"

	"homerent/internal/database"
	"homerent/internal/logger"
	. "homerent/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	HOUSE_CACHE_PREFIX = "house"
	HOUSE_CACHE_EXPIRY = 15 * time.Minute
)

// HouseFilter narrows the public listing query.
type HouseFilter struct {
	Location      string
	Type          HouseType
	MaxRent       *decimal.Decimal
	OnlyAvailable bool
}

type HouseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, house *House) error
	Save(ctx context.Context, tx *gorm.DB, house *House) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*House, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*House, error)
	List(ctx context.Context, tx *gorm.DB, filter HouseFilter) ([]*House, error)
	ListByLandlord(ctx context.Context, tx *gorm.DB, landlordID uuid.UUID) ([]*House, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*House, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ClearCache(ctx context.Context, id uuid.UUID)
}

type houseRepository struct {
	cache database.CacheClient
}

func NewHouseRepository(cache database.CacheClient) HouseRepository {
	return &houseRepository{
		cache: cache,
	}
}

func (r *houseRepository) Create(ctx context.Context, tx *gorm.DB, house *House) error {
	log := logger.NewWithContext(ctx, "houseRepository").Function("Create")

	if err := tx.WithContext(ctx).Create(house).Error; err != nil {
		return log.Err("failed to create house", err, "landlordID", house.LandlordID)
	}

	log.Info("House created", "id", house.ID, "landlordID", house.LandlordID)
	return nil
}

func (r *houseRepository) Save(ctx context.Context, tx *gorm.DB, house *House) error {
	log := logger.NewWithContext(ctx, "houseRepository").Function("Save")

	if err := tx.WithContext(ctx).Save(house).Error; err != nil {
		return log.Err("failed to save house", err, "id", house.ID)
	}

	r.ClearCache(ctx, house.ID)
	return nil
}

func (r *houseRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*House, error) {
	log := logger.NewWithContext(ctx, "houseRepository").Function("GetByID")

	var cached House
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(HOUSE_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get house from cache", "id", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	var house House
	if err := tx.WithContext(ctx).
		Preload("Landlord").
		First(&house, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get house", err, "id", id)
	}

	err = database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(HOUSE_CACHE_PREFIX).
		WithStruct(house).
		WithTTL(HOUSE_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to cache house", "id", id, "error", err)
	}

	return &house, nil
}

// GetByIDForUpdate bypasses the cache and locks the row. Only valid
// inside a transaction.
func (r *houseRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*House, error) {
	log := logger.NewWithContext(ctx, "houseRepository").Function("GetByIDForUpdate")

	var house House
	if err := tx.WithContext(ctx).
		Clauses(forUpdate()).
		First(&house, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get house for update", err, "id", id)
	}

	return &house, nil
}

func (r *houseRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter HouseFilter,
) ([]*House, error) {
	log := logger.NewWithContext(ctx, "houseRepository").Function("List")

	query := tx.WithContext(ctx).
		Where("verification_status = ?", VerificationApproved)

	if filter.OnlyAvailable {
		query = query.Where("status = ?", HouseAvailable)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.MaxRent != nil {
		query = query.Where("rent <= ?", filter.MaxRent)
	}

	var houses []*House
	if err := query.Order("created_at DESC").Find(&houses).Error; err != nil {
		return nil, log.Err("failed to list houses", err)
	}

	return houses, nil
}

func (r *houseRepository) ListByLandlord(
	ctx context.Context,
	tx *gorm.DB,
	landlordID uuid.UUID,
) ([]*House, error) {
	log := logger.NewWithContext(ctx, "houseRepository").Function("ListByLandlord")

	var houses []*House
	err := tx.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("created_at DESC").
		Find(&houses).Error
	if err != nil {
		return nil, log.Err("failed to list landlord houses", err, "landlordID", landlordID)
	}

	return houses, nil
}

func (r *houseRepository) ListAll(ctx context.Context, tx *gorm.DB) ([]*House, error) {
	log := logger.NewWithContext(ctx, "houseRepository").Function("ListAll")

	var houses []*House
	err := tx.WithContext(ctx).
		Preload("Landlord").
		Order("created_at DESC").
		Find(&houses).Error
	if err != nil {
		return nil, log.Err("failed to list all houses", err)
	}

	return houses, nil
}

func (r *houseRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := logger.NewWithContext(ctx, "houseRepository").Function("Delete")

	result := tx.WithContext(ctx).Delete(&House{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete house", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.ClearCache(ctx, id)
	return nil
}

func (r *houseRepository) ClearCache(ctx context.Context, id uuid.UUID) {
	log := logger.NewWithContext(ctx, "houseRepository").Function("ClearCache")

	err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(HOUSE_CACHE_PREFIX).
		Delete()
	if err != nil {
		log.Warn("failed to clear house cache", "id", id, "error", err)
	}
}
