package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/domain"
)

// ErrNotFound is returned when the requested record does not exist
var ErrNotFound = errors.New("record not found")

// StoreRepository data access for merchant storefronts
type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Store, error)

	// GetByUser returns the single store owned by a user
	GetByUser(ctx context.Context, userID string) (*domain.Store, error)

	Create(ctx context.Context, store *domain.Store) error
	Update(ctx context.Context, store *domain.Store) error

	// Save inserts the user's store or updates it in place, keeping its id
	Save(ctx context.Context, userID string, form *domain.Store) (*domain.Store, bool, error)

	// ListActive returns active stores, newest first
	ListActive(ctx context.Context, page, pageSize int) ([]*domain.Store, int64, error)
}

// ProductRepository data access for catalog items
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// ListByUser returns a merchant's products, newest first. pageSize <= 0 returns all rows.
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]*domain.Product, int64, error)

	// ListByStore returns the products of a store, newest first
	ListByStore(ctx context.Context, storeID string, activeOnly bool) ([]*domain.Product, error)

	// ListActive returns every active product of the marketplace
	ListActive(ctx context.Context) ([]*domain.Product, error)

	// BulkCreate inserts all products in one transaction
	BulkCreate(ctx context.Context, items []*domain.Product) error
}

// GuideRepository data access for student guides
type GuideRepository interface {
	Create(ctx context.Context, g *domain.StudentGuide) error
	GetByID(ctx context.Context, id string) (*domain.StudentGuide, error)

	// ListAvailable returns verified guides open for booking
	ListAvailable(ctx context.Context) ([]*domain.StudentGuide, error)
}

// UserRepository data access for accounts
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// OprLogRepository access to the operation audit trail
type OprLogRepository interface {
	List(ctx context.Context, operator string, page, pageSize int) ([]*domain.SysOprLog, int64, error)

	// DeleteOlderThan removes entries older than N days
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}

// Repositories groups the GORM implementations over one connection
type Repositories struct {
	Stores   *GormStoreRepository
	Products *GormProductRepository
	Guides   *GormGuideRepository
	Users    *GormUserRepository
	OprLogs  *GormOprLogRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Stores:   NewGormStoreRepository(db),
		Products: NewGormProductRepository(db),
		Guides:   NewGormGuideRepository(db),
		Users:    NewGormUserRepository(db),
		OprLogs:  NewGormOprLogRepository(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func paginate(tx *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return tx
	}
	if page < 1 {
		page = 1
	}
	return tx.Offset((page - 1) * pageSize).Limit(pageSize)
}

var (
	_ StoreRepository   = (*GormStoreRepository)(nil)
	_ ProductRepository = (*GormProductRepository)(nil)
	_ GuideRepository   = (*GormGuideRepository)(nil)
	_ UserRepository    = (*GormUserRepository)(nil)
	_ OprLogRepository  = (*GormOprLogRepository)(nil)
)
