// Package catalog holds the merchant side of the marketplace: the store
// profile, form-entered products, the dashboard and bulk import/export.
package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/events"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

var (
	// ErrNoStore products can only be added once the merchant has a store
	ErrNoStore  = errors.New("merchant has no store profile")
	ErrNotOwner = errors.New("product belongs to another merchant")
)

// Publisher is the subset of an event bus the service needs.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

type StoreForm struct {
	StoreName     string   `json:"store_name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Address       string   `json:"address"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Landmark      string   `json:"landmark"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	StoreImageURL string   `json:"store_image_url"`
	OpeningHours  string   `json:"opening_hours"`
	IsOpen        bool     `json:"is_open"`
	IsActive      bool     `json:"is_active"`
}

func (f StoreForm) Validate() error {
	errs := common.FieldErrors{}
	errs.Required("store_name", f.StoreName, "Store name is required")
	errs.Required("address", f.Address, "Address is required")
	errs.Required("category", f.Category, "Category is required")
	errs.Required("phone", f.Phone, "Phone number is required")
	if strings.TrimSpace(f.Email) != "" && !common.IsEmail(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if f.Latitude != nil && (*f.Latitude < -90 || *f.Latitude > 90) {
		errs["latitude"] = "Invalid latitude"
	}
	if f.Longitude != nil && (*f.Longitude < -180 || *f.Longitude > 180) {
		errs["longitude"] = "Invalid longitude"
	}
	return errs.Err()
}

// ProductForm is the full product form; re-submitting it updates every field.
type ProductForm struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	SerialNo    string          `json:"serial_no"`
	IsActive    *bool           `json:"is_active"`
}

func (f ProductForm) Validate() error {
	errs := common.FieldErrors{}
	errs.Required("name", f.Name, "Product name is required")
	if f.Price.IsNegative() {
		errs["price"] = "Price cannot be negative"
	}
	if f.Stock < 0 {
		errs["stock"] = "Stock cannot be negative"
	}
	return errs.Err()
}

type Service struct {
	stores   repository.StoreRepository
	products repository.ProductRepository
	bus      Publisher
}

// NewService creates the merchant catalog service; bus may be nil.
func NewService(stores repository.StoreRepository, products repository.ProductRepository, bus Publisher) *Service {
	return &Service{stores: stores, products: products, bus: bus}
}

func (s *Service) publish(topic string, args ...interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, args...)
	}
}

// Store returns the merchant's store or ErrNoStore.
func (s *Service) Store(ctx context.Context, userID string) (*domain.Store, error) {
	store, err := s.stores.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoStore
	}
	return store, err
}

// SaveStore creates the merchant's store on first save and updates it in
// place afterwards. The bool reports whether a store was created.
func (s *Service) SaveStore(ctx context.Context, userID string, form StoreForm) (*domain.Store, bool, error) {
	if err := form.Validate(); err != nil {
		return nil, false, err
	}
	store, created, err := s.stores.Save(ctx, userID, &domain.Store{
		StoreName:     strings.TrimSpace(form.StoreName),
		Description:   form.Description,
		Category:      form.Category,
		Address:       form.Address,
		Latitude:      form.Latitude,
		Longitude:     form.Longitude,
		Landmark:      form.Landmark,
		Phone:         strings.TrimSpace(form.Phone),
		Email:         strings.TrimSpace(form.Email),
		StoreImageURL: form.StoreImageURL,
		OpeningHours:  form.OpeningHours,
		IsOpen:        form.IsOpen,
		IsActive:      form.IsActive,
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "save store")
	}
	s.publish(events.TopicStoreSaved, store, created)
	return store, created, nil
}

// CreateProduct adds a form-entered product to the merchant's store.
func (s *Service) CreateProduct(ctx context.Context, userID string, form ProductForm) (*domain.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	store, err := s.Store(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{
		UserID:  userID,
		StoreID: &store.ID,
		Sold:    0,
	}
	form.apply(p)
	if form.IsActive == nil {
		p.IsActive = true
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create product")
	}
	zap.L().Info("product created",
		zap.String("product", p.ID),
		zap.String("store", store.ID),
		zap.String("namespace", "catalog"))
	s.publish(events.TopicProductCreated, p, events.SourceForm)
	return p, nil
}

// UpdateProduct overwrites the editable fields of one of the merchant's products.
func (s *Service) UpdateProduct(ctx context.Context, userID, id string, form ProductForm) (*domain.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	p, err := s.Product(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	active := p.IsActive
	form.apply(p)
	if form.IsActive == nil {
		p.IsActive = active
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update product")
	}
	s.publish(events.TopicProductUpdated, p)
	return p, nil
}

// Product returns one of the merchant's products.
func (s *Service) Product(ctx context.Context, userID, id string) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotOwner
	}
	return p, nil
}

func (s *Service) Products(ctx context.Context, userID string, page, pageSize int) ([]*domain.Product, int64, error) {
	return s.products.ListByUser(ctx, userID, page, pageSize)
}

func (f ProductForm) apply(p *domain.Product) {
	p.Name = strings.TrimSpace(f.Name)
	p.Description = f.Description
	p.Price = f.Price.Round(2)
	p.Stock = f.Stock
	p.ImageURL = common.IfEmptyStr(f.ImageURL, domain.ProductFormIcon)
	p.Category = common.IfEmptyStr(f.Category, domain.DefaultCategory)
	p.SerialNo = strings.ToUpper(strings.TrimSpace(f.SerialNo))
	if f.IsActive != nil {
		p.IsActive = *f.IsActive
	}
}
