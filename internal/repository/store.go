package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

// GormStoreRepository is the GORM implementation of StoreRepository
type GormStoreRepository struct {
	db *gorm.DB
}

func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	var store domain.Store
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

func (r *GormStoreRepository) GetByUser(ctx context.Context, userID string) (*domain.Store, error) {
	var store domain.Store
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&store).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

func (r *GormStoreRepository) Create(ctx context.Context, store *domain.Store) error {
	if store.ID == "" {
		store.ID = common.UUID()
	}
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *GormStoreRepository) Update(ctx context.Context, store *domain.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// Save writes the form as the user's only store. The first call inserts a
// row, later calls overwrite the editable fields of that same row.
func (r *GormStoreRepository) Save(ctx context.Context, userID string, form *domain.Store) (*domain.Store, bool, error) {
	var (
		saved   domain.Store
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", userID).First(&saved).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = *form
			saved.ID = common.UUID()
			saved.UserID = userID
			saved.StoreImageURL = common.IfEmptyStr(saved.StoreImageURL, domain.StoreIcon)
			saved.OpeningHours = common.IfEmptyStr(saved.OpeningHours, domain.DefaultOpeningHours)
			created = true
			return tx.Create(&saved).Error
		case err != nil:
			return err
		}
		saved.StoreName = form.StoreName
		saved.Description = form.Description
		saved.Category = form.Category
		saved.Address = form.Address
		saved.Latitude = form.Latitude
		saved.Longitude = form.Longitude
		saved.Landmark = form.Landmark
		saved.Phone = form.Phone
		saved.Email = form.Email
		saved.StoreImageURL = common.IfEmptyStr(form.StoreImageURL, saved.StoreImageURL)
		saved.OpeningHours = common.IfEmptyStr(form.OpeningHours, saved.OpeningHours)
		saved.IsOpen = form.IsOpen
		saved.IsActive = form.IsActive
		return tx.Save(&saved).Error
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "save store")
	}
	return &saved, created, nil
}

func (r *GormStoreRepository) ListActive(ctx context.Context, page, pageSize int) ([]*domain.Store, int64, error) {
	var (
		stores []*domain.Store
		total  int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Store{}).Where("is_active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query.Order("created_at DESC"), page, pageSize).Find(&stores).Error
	return stores, total, err
}
