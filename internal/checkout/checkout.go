// Package checkout prices a cart and places a simulated order.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

// GuideStoreID is the pseudo store whose items are student guide days.
const GuideStoreID = "guides"

const (
	PaymentCOD  = "cod"
	PaymentUPI  = "upi"
	PaymentCard = "card"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrUnavailable = errors.New("item is not available in this store")
)

// Options are the pricing and processing settings, read per order.
type Options struct {
	DeliveryFee       decimal.Decimal
	FreeDeliveryAbove decimal.Decimal
	Delay             time.Duration
}

func DefaultOptions() Options {
	return Options{
		DeliveryFee:       decimal.NewFromInt(50),
		FreeDeliveryAbove: decimal.NewFromInt(500),
		Delay:             2 * time.Second,
	}
}

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Form struct {
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Pincode       string     `json:"pincode"`
	PaymentMethod string     `json:"payment_method"`
	StoreID       string     `json:"store_id"`
	Items         []CartItem `json:"items"`
}

// Validate returns common.FieldErrors listing every invalid field.
func (f *Form) Validate() error {
	if f.PaymentMethod == "" {
		f.PaymentMethod = PaymentCOD
	}
	errs := common.FieldErrors{}
	errs.Required("full_name", f.FullName, "Full name is required")
	if errs.Required("email", f.Email, "Email is required") && !common.IsEmail(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if errs.Required("phone", f.Phone, "Phone number is required") && !common.IsDigits(f.Phone, 10) {
		errs["phone"] = "Invalid phone number"
	}
	errs.Required("address", f.Address, "Address is required")
	errs.Required("city", f.City, "City is required")
	errs.Required("state", f.State, "State is required")
	if errs.Required("pincode", f.Pincode, "Pincode is required") && !common.IsDigits(f.Pincode, 6) {
		errs["pincode"] = "Invalid pincode"
	}
	switch f.PaymentMethod {
	case PaymentCOD, PaymentUPI, PaymentCard:
	default:
		errs["payment_method"] = "Invalid payment method"
	}
	checkQuantities(errs, f.Items)
	return errs.Err()
}

func checkQuantities(errs common.FieldErrors, items []CartItem) {
	for i, item := range items {
		if item.Quantity < 1 {
			errs[fmt.Sprintf("items[%d].quantity", i)] = "Quantity must be at least 1"
		}
	}
}

type Line struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// Order is the confirmation returned to the buyer. It is not persisted.
type Order struct {
	Number        string          `json:"order_number"`
	StoreID       string          `json:"store_id"`
	Lines         []Line          `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	FreeDelivery  bool            `json:"free_delivery"`
	PaymentMethod string          `json:"payment_method"`
	CustomerName  string          `json:"customer_name"`
	PlacedAt      time.Time       `json:"placed_at"`
}

type ProductFinder interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type GuideFinder interface {
	GetByID(ctx context.Context, id string) (*domain.StudentGuide, error)
}

type Service struct {
	products ProductFinder
	guides   GuideFinder
	options  func() Options
}

// NewService creates a checkout; options may be nil.
func NewService(products ProductFinder, guides GuideFinder, options func() Options) *Service {
	if options == nil {
		options = DefaultOptions
	}
	return &Service{products: products, guides: guides, options: options}
}

// Quote prices the cart without the processing delay.
func (s *Service) Quote(ctx context.Context, storeID string, items []CartItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	errs := common.FieldErrors{}
	checkQuantities(errs, items)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	opts := s.options()
	order := &Order{StoreID: storeID, Subtotal: decimal.Zero}
	for _, item := range items {
		line, err := s.line(ctx, storeID, item)
		if err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, line)
		order.Subtotal = order.Subtotal.Add(line.Total)
	}
	order.DeliveryFee = opts.DeliveryFee
	if order.Subtotal.GreaterThan(opts.FreeDeliveryAbove) {
		order.DeliveryFee = decimal.Zero
		order.FreeDelivery = true
	}
	order.Total = order.Subtotal.Add(order.DeliveryFee)
	return order, nil
}

func (s *Service) line(ctx context.Context, storeID string, item CartItem) (Line, error) {
	if storeID == GuideStoreID {
		g, err := s.guides.GetByID(ctx, item.ProductID)
		if err != nil {
			return Line{}, unavailable(err, item.ProductID)
		}
		if !g.IsAvailable {
			return Line{}, errors.Wrap(ErrUnavailable, item.ProductID)
		}
		return newLine(g.ID, "Guide: "+g.FullName, g.DailyRate, item.Quantity), nil
	}
	p, err := s.products.GetByID(ctx, item.ProductID)
	if err != nil {
		return Line{}, unavailable(err, item.ProductID)
	}
	if !p.IsActive || p.StoreID == nil || *p.StoreID != storeID {
		return Line{}, errors.Wrap(ErrUnavailable, item.ProductID)
	}
	return newLine(p.ID, p.Name, p.Price, item.Quantity), nil
}

func newLine(id, name string, price decimal.Decimal, qty int) Line {
	return Line{
		ProductID: id,
		Name:      name,
		Price:     price,
		Quantity:  qty,
		Total:     price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func unavailable(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errors.Wrap(ErrUnavailable, id)
	}
	return errors.Wrap(err, "load cart item")
}

// Place validates the form, prices the cart, waits out the simulated payment
// processing and returns the confirmation.
func (s *Service) Place(ctx context.Context, form Form) (*Order, error) {
	if len(form.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	order, err := s.Quote(ctx, form.StoreID, form.Items)
	if err != nil {
		return nil, err
	}

	if delay := s.options().Delay; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	order.Number = fmt.Sprintf("ORD-%d", common.UUIDint64())
	order.PaymentMethod = form.PaymentMethod
	order.CustomerName = strings.TrimSpace(form.FullName)
	order.PlacedAt = time.Now()
	zap.L().Info("order placed",
		zap.String("order", order.Number),
		zap.String("store", order.StoreID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.String("namespace", "checkout"))
	return order, nil
}
