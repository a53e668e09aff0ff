package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/domain"
)

type GormOprLogRepository struct {
	db *gorm.DB
}

func NewGormOprLogRepository(db *gorm.DB) *GormOprLogRepository {
	return &GormOprLogRepository{db: db}
}

func (r *GormOprLogRepository) List(ctx context.Context, operator string, page, pageSize int) ([]*domain.SysOprLog, int64, error) {
	var (
		logs  []*domain.SysOprLog
		total int64
	)
	query := r.db.WithContext(ctx).Model(&domain.SysOprLog{})
	if operator != "" {
		query = query.Where("opr_name = ?", operator)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(query.Order("opt_time DESC"), page, pageSize).Find(&logs).Error
	return logs, total, err
}

func (r *GormOprLogRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).Where("opt_time < ?", cutoff).Delete(&domain.SysOprLog{})
	return result.RowsAffected, result.Error
}
