package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = common.UUID()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormProductRepository) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *GormProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *GormProductRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*domain.Product, int64, error) {
	var (
		items []*domain.Product
		total int64
	)
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query.Order("created_at DESC"), page, pageSize).Find(&items).Error
	return items, total, err
}

func (r *GormProductRepository) ListByStore(ctx context.Context, storeID string, activeOnly bool) ([]*domain.Product, error) {
	var items []*domain.Product
	query := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *GormProductRepository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	var items []*domain.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *GormProductRepository) BulkCreate(ctx context.Context, items []*domain.Product) error {
	if len(items) == 0 {
		return nil
	}
	for _, p := range items {
		if p.ID == "" {
			p.ID = common.UUID()
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(items, 100).Error
	})
}
