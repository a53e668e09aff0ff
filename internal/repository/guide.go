package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

type GormGuideRepository struct {
	db *gorm.DB
}

func NewGormGuideRepository(db *gorm.DB) *GormGuideRepository {
	return &GormGuideRepository{db: db}
}

func (r *GormGuideRepository) Create(ctx context.Context, g *domain.StudentGuide) error {
	if g.ID == "" {
		g.ID = common.UUID()
	}
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GormGuideRepository) GetByID(ctx context.Context, id string) (*domain.StudentGuide, error) {
	var g domain.StudentGuide
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &g, nil
}

func (r *GormGuideRepository) ListAvailable(ctx context.Context) ([]*domain.StudentGuide, error) {
	var guides []*domain.StudentGuide
	err := r.db.WithContext(ctx).
		Where("is_available = ? AND is_verified = ?", true, true).
		Order("created_at DESC").
		Find(&guides).Error
	return guides, err
}
