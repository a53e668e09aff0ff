// Package guides enrolls student guides and quotes bookings for visitors.
package guides

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/events"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

const (
	MinAge = 16
	MaxAge = 40
)

var (
	ErrUnavailable = errors.New("guide is not available for booking")
	ErrBadDate     = errors.New("booking date is not understood")
	ErrPastDate    = errors.New("booking date is in the past")
	ErrBadDays     = errors.New("booking must cover at least one day")
)

// EnrollForm is what a student submits to become a guide.
type EnrollForm struct {
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	CollegeName     string          `json:"college_name"`
	Age             int             `json:"age"`
	StudentID       string          `json:"student_id"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	LanguagesSpoken string          `json:"languages_spoken"` // comma separated
	Specialization  string          `json:"specialization"`   // comma separated
	Description     string          `json:"description"`
}

// Validate returns common.FieldErrors listing every invalid field.
func (f EnrollForm) Validate() error {
	errs := common.FieldErrors{}
	errs.Required("full_name", f.FullName, "Full name is required")
	if errs.Required("email", f.Email, "Email is required") && !common.IsEmail(f.Email) {
		errs["email"] = "Invalid email format"
	}
	if errs.Required("phone", f.Phone, "Phone number is required") && !common.IsDigits(f.Phone, 10) {
		errs["phone"] = "Invalid phone number"
	}
	errs.Required("college_name", f.CollegeName, "College name is required")
	errs.Required("student_id", f.StudentID, "Student ID is required")
	if f.Age < MinAge || f.Age > MaxAge {
		errs["age"] = fmt.Sprintf("Age must be between %d and %d", MinAge, MaxAge)
	}
	if !f.DailyRate.IsPositive() {
		errs["daily_rate"] = "Daily rate must be greater than 0"
	}
	if len(common.SplitList(f.LanguagesSpoken)) == 0 {
		errs["languages_spoken"] = "At least one language is required"
	}
	return errs.Err()
}

// Publisher is the subset of an event bus the service needs.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

// Booking is a simulated confirmation, nothing is stored.
type Booking struct {
	Reference   string          `json:"reference"`
	GuideID     string          `json:"guide_id"`
	GuideName   string          `json:"guide_name"`
	Date        time.Time       `json:"date"`
	Days        int             `json:"days"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	Quote       decimal.Decimal `json:"quote"`
	WhatsAppURL string          `json:"whatsapp_url"`
}

type Service struct {
	guides repository.GuideRepository
	bus    Publisher
	loc    *time.Location
	now    func() time.Time
}

// NewService creates the service; bus may be nil and loc defaults to UTC.
func NewService(guides repository.GuideRepository, bus Publisher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{guides: guides, bus: bus, loc: loc, now: time.Now}
}

// Enroll validates the form and stores a verified, available guide.
func (s *Service) Enroll(ctx context.Context, form EnrollForm) (*domain.StudentGuide, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	g := &domain.StudentGuide{
		FullName:        strings.TrimSpace(form.FullName),
		Email:           strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:           strings.Join(strings.Fields(form.Phone), ""),
		CollegeName:     strings.TrimSpace(form.CollegeName),
		Age:             form.Age,
		StudentID:       strings.TrimSpace(form.StudentID),
		DailyRate:       form.DailyRate.Round(2),
		LanguagesSpoken: datatypes.JSONSlice[string](common.SplitList(form.LanguagesSpoken)),
		Specialization:  datatypes.JSONSlice[string](common.SplitList(form.Specialization)),
		Description:     strings.TrimSpace(form.Description),
		IsVerified:      true,
		IsAvailable:     true,
	}
	if err := s.guides.Create(ctx, g); err != nil {
		return nil, errors.Wrap(err, "enroll guide")
	}
	zap.L().Info("student guide enrolled",
		zap.String("guide", g.ID),
		zap.String("namespace", "guides"))
	if s.bus != nil {
		s.bus.Publish(events.TopicGuideEnrolled, g)
	}
	return g, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]*domain.StudentGuide, error) {
	return s.guides.ListAvailable(ctx)
}

// Book quotes days of guiding starting at the free-form date text.
func (s *Service) Book(ctx context.Context, guideID, dateText string, days int) (*Booking, error) {
	if days < 1 {
		return nil, ErrBadDays
	}
	date, err := dateparse.ParseIn(strings.TrimSpace(dateText), s.loc)
	if err != nil {
		return nil, errors.Wrap(ErrBadDate, err.Error())
	}
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	date = date.In(s.loc)
	if time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc).Before(today) {
		return nil, ErrPastDate
	}

	g, err := s.guides.GetByID(ctx, guideID)
	if err != nil {
		return nil, err
	}
	if !g.IsAvailable || !g.IsVerified {
		return nil, ErrUnavailable
	}
	return &Booking{
		Reference:   fmt.Sprintf("GB-%d", common.UUIDint64()),
		GuideID:     g.ID,
		GuideName:   g.FullName,
		Date:        date,
		Days:        days,
		DailyRate:   g.DailyRate,
		Quote:       g.DailyRate.Mul(decimal.NewFromInt(int64(days))),
		WhatsAppURL: WhatsAppURL(g),
	}, nil
}

// WhatsAppURL opens a chat with the guide prefilled with a booking request.
func WhatsAppURL(g *domain.StudentGuide) string {
	topic := strings.Join(g.Specialization, ", ")
	if topic == "" {
		topic = "the city"
	}
	msg := fmt.Sprintf("Hi %s, I'm interested in booking you as a student guide for Nashik exploring %s.", g.FullName, topic)
	return "https://wa.me/91" + g.Phone + "?text=" + url.QueryEscape(msg)
}
