package voice

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/events"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

const (
	PromptListen   = "Please tell me about your product. Include the name, price, description, and stock quantity."
	PromptConfirm  = "I heard: %s for %s rupees. Should I add this product?"
	MessageSuccess = "Product added successfully!"
	MessageFailure = "Sorry, there was an error adding the product."

	DefaultProductName = "Voice Product"
	DefaultDelay       = 1200 * time.Millisecond

	defaultSessionLimit = 1024
	defaultSessionTTL   = 30 * time.Minute
)

var (
	ErrSessionNotFound = errors.New("voice session not found")
	ErrWrongStage      = errors.New("voice session is not in a stage that allows this action")
	ErrBusy            = errors.New("voice session is already saving")
)

// Options are the runtime settings of the voice product flow.
type Options struct {
	Delay       time.Duration
	AttachStore bool
	MarkActive  bool
}

// Announcer speaks a line to the merchant.
type Announcer interface {
	Announce(ctx context.Context, s *Session, text string) error
}

// ScriptAnnouncer queues lines on the session, the browser speaks them
// when it polls.
type ScriptAnnouncer struct{}

func (ScriptAnnouncer) Announce(_ context.Context, s *Session, text string) error {
	s.Say(text)
	return nil
}

type ProductWriter interface {
	Create(ctx context.Context, p *domain.Product) error
}

type StoreFinder interface {
	GetByUser(ctx context.Context, userID string) (*domain.Store, error)
}

// Publisher is the subset of an event bus the orchestrator needs.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

// Orchestrator drives voice sessions from listening to a saved product.
type Orchestrator struct {
	products  ProductWriter
	stores    StoreFinder
	announcer Announcer
	options   func() Options
	bus       Publisher
	sessions  *expirable.LRU[string, *Session]
	wg        sync.WaitGroup
}

type OrchestratorOption func(*Orchestrator)

func WithAnnouncer(a Announcer) OrchestratorOption {
	return func(o *Orchestrator) { o.announcer = a }
}

func WithOptions(fn func() Options) OrchestratorOption {
	return func(o *Orchestrator) { o.options = fn }
}

func WithPublisher(bus Publisher) OrchestratorOption {
	return func(o *Orchestrator) { o.bus = bus }
}

// WithSessionLimit bounds the number of live sessions and their idle lifetime.
func WithSessionLimit(size int, ttl time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.sessions = newSessionCache(size, ttl) }
}

func NewOrchestrator(products ProductWriter, stores StoreFinder, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		products:  products,
		stores:    stores,
		announcer: ScriptAnnouncer{},
		options:   func() Options { return Options{Delay: DefaultDelay} },
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sessions == nil {
		o.sessions = newSessionCache(defaultSessionLimit, defaultSessionTTL)
	}
	return o
}

func newSessionCache(size int, ttl time.Duration) *expirable.LRU[string, *Session] {
	return expirable.NewLRU[string, *Session](size, func(_ string, s *Session) {
		s.capture.Stop()
		s.cancel()
	}, ttl)
}

// Open starts a new dialog and begins listening in the merchant's language.
func (o *Orchestrator) Open(userID, lang string) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := NewPushRecognizer()
	s := &Session{
		ID:        common.UUID(),
		UserID:    userID,
		Lang:      lang,
		CreatedAt: time.Now(),
		rec:       rec,
		capture:   NewCapture(rec),
		ctx:       ctx,
		cancel:    cancel,
		stage:     StageListening,
	}
	if err := s.capture.Start(ctx, lang); err != nil {
		cancel()
		return nil, err
	}
	o.sessions.Add(s.ID, s)
	o.announce(s, PromptListen)
	return s, nil
}

// Get returns a live session owned by userID.
func (o *Orchestrator) Get(id, userID string) (*Session, error) {
	s, ok := o.sessions.Get(id)
	if !ok || s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close discards a session and cancels any running playback.
func (o *Orchestrator) Close(id, userID string) error {
	if _, err := o.Get(id, userID); err != nil {
		return err
	}
	o.sessions.Remove(id)
	return nil
}

// Len number of live sessions
func (o *Orchestrator) Len() int {
	return o.sessions.Len()
}

// Stop ends listening. The transcript, blank or not, is extracted and played
// back field by field in the background.
func (o *Orchestrator) Stop(id, userID string) (*Session, error) {
	s, err := o.Get(id, userID)
	if err != nil {
		return nil, err
	}
	if s.Stage() != StageListening {
		return nil, ErrWrongStage
	}
	s.capture.Stop()
	c := Extract(s.capture.Transcript())
	s.mu.Lock()
	s.stage = StageProcessing
	s.candidate = &c
	s.errMsg = ""
	s.mu.Unlock()

	opts := o.options()
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.playback(s, c, opts.Delay)
	}()
	return s, nil
}

type announcement struct {
	field string
	text  string
}

func announcements(c Candidate) []announcement {
	var items []announcement
	if c.SerialNumber() != "" {
		items = append(items, announcement{"serial_number", "Serial number " + c.SerialNumber()})
	}
	return append(items,
		announcement{"name", "Product name " + c.Name()},
		announcement{"price", "Price " + formatPrice(c.Price()) + " rupees"},
		announcement{"stock", "Stock " + strconv.Itoa(c.Stock()) + " pieces"},
		announcement{"category", "Category " + common.IfEmptyStr(c.Category(), domain.DefaultCategory)},
		announcement{"description", "Description " + c.Description()},
	)
}

func (o *Orchestrator) playback(s *Session, c Candidate, delay time.Duration) {
	for _, a := range announcements(c) {
		s.setAnnouncing(a.field)
		o.announce(s, a.text)
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(delay):
		}
		s.markFilled(a.field)
	}
	s.setStage(StageConfirm)
	o.announce(s, fmt.Sprintf(PromptConfirm, c.Name(), formatPrice(c.Price())))
}

// Wait blocks until running playbacks have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Shutdown discards every session and waits for running playbacks.
func (o *Orchestrator) Shutdown() {
	o.sessions.Purge()
	o.wg.Wait()
}

// Confirm saves the candidate as a product of the session's merchant.
func (o *Orchestrator) Confirm(ctx context.Context, id, userID string) (*domain.Product, error) {
	s, err := o.Get(id, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.stage != StageConfirm || s.candidate == nil {
		s.mu.Unlock()
		return nil, ErrWrongStage
	}
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	s.busy = true
	s.errMsg = ""
	c := *s.candidate
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	p := o.newProduct(ctx, userID, c)
	if err := o.products.Create(ctx, p); err != nil {
		s.setError(errors.Cause(err).Error())
		o.announce(s, MessageFailure)
		zap.L().Error("voice product insert failed", zap.Error(err), zap.String("namespace", "voice"))
		return nil, err
	}

	s.mu.Lock()
	s.stage = StageSuccess
	s.productID = p.ID
	s.mu.Unlock()
	o.announce(s, MessageSuccess)
	if o.bus != nil {
		o.bus.Publish(events.TopicProductCreated, p, events.SourceVoice)
	}
	return p, nil
}

func (o *Orchestrator) newProduct(ctx context.Context, userID string, c Candidate) *domain.Product {
	opts := o.options()
	p := &domain.Product{
		ID:          common.UUID(),
		UserID:      userID,
		SerialNo:    c.SerialNumber(),
		Name:        common.IfEmptyStr(c.Name(), DefaultProductName),
		Description: c.Description(),
		Price:       decimal.NewFromFloat(c.Price()),
		Stock:       c.Stock(),
		Sold:        0,
		ImageURL:    domain.ProductVoiceIcon,
		Category:    common.IfEmptyStr(c.Category(), domain.DefaultCategory),
		IsActive:    opts.MarkActive,
	}
	if opts.AttachStore && o.stores != nil {
		store, err := o.stores.GetByUser(ctx, userID)
		if err == nil {
			p.StoreID = &store.ID
		} else {
			zap.L().Warn("voice product without store", zap.String("user", userID), zap.Error(err),
				zap.String("namespace", "voice"))
		}
	}
	return p
}

// Reject discards the candidate and listens again. It also restarts a
// dialog whose recognizer failed.
func (o *Orchestrator) Reject(id, userID string) (*Session, error) {
	s, err := o.Get(id, userID)
	if err != nil {
		return nil, err
	}
	switch s.Stage() {
	case StageConfirm:
	case StageListening:
		if s.capture.Listening() {
			return nil, ErrWrongStage
		}
	default:
		return nil, ErrWrongStage
	}
	s.reset()
	if err := s.capture.Start(s.ctx, s.Lang); err != nil {
		return nil, err
	}
	o.announce(s, PromptListen)
	return s, nil
}

func (o *Orchestrator) announce(s *Session, text string) {
	if err := o.announcer.Announce(s.ctx, s, text); err != nil {
		zap.L().Warn("announce failed", zap.Error(err), zap.String("namespace", "voice"))
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
