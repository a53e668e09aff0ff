package voice

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrNotListening = errors.New("recognizer is not listening")
	ErrEventBacklog = errors.New("recognizer event backlog is full")
)

type EventKind int

const (
	EventResult EventKind = iota
	EventEnd
	EventError
)

// Result is one recognition segment as reported by the platform recognizer.
type Result struct {
	Text  string `json:"transcript"`
	Final bool   `json:"isFinal"`
}

// Event carries the cumulative result list, an end notice or an error.
type Event struct {
	Kind    EventKind
	Results []Result
	Err     string
}

// Recognizer is a continuous speech-to-text source.
type Recognizer interface {
	Start(ctx context.Context, locale string) error
	Stop()
	Events() <-chan Event
}

// PushRecognizer is fed by the browser, which runs the platform recognizer
// and posts its result lists.
type PushRecognizer struct {
	mu      sync.Mutex
	running bool
	locale  string
	events  chan Event
}

func NewPushRecognizer() *PushRecognizer {
	return &PushRecognizer{events: make(chan Event, 64)}
}

func (r *PushRecognizer) Start(_ context.Context, locale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
	r.locale = locale
	return nil
}

func (r *PushRecognizer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

func (r *PushRecognizer) Events() <-chan Event {
	return r.events
}

func (r *PushRecognizer) Locale() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.locale
}

// Push delivers a cumulative result list.
func (r *PushRecognizer) Push(results []Result) error {
	return r.send(Event{Kind: EventResult, Results: results})
}

// End reports that the platform recognizer stopped on its own.
func (r *PushRecognizer) End() error {
	return r.send(Event{Kind: EventEnd})
}

// Fail reports a platform recognizer error.
func (r *PushRecognizer) Fail(reason string) error {
	return r.send(Event{Kind: EventError, Err: reason})
}

func (r *PushRecognizer) send(ev Event) error {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return ErrNotListening
	}
	select {
	case r.events <- ev:
		return nil
	default:
		return ErrEventBacklog
	}
}

// Capture accumulates the transcript of one listening period.
type Capture struct {
	rec Recognizer

	mu         sync.RWMutex
	transcript string
	listening  bool
	errMsg     string
	locale     string
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewCapture(rec Recognizer) *Capture {
	return &Capture{rec: rec}
}

// Start clears the transcript and begins continuous recognition in the
// locale matching lang.
func (c *Capture) Start(ctx context.Context, lang string) error {
	c.Stop()

	c.mu.Lock()
	c.transcript = ""
	c.errMsg = ""
	c.locale = LocaleFor(lang)
	locale := c.locale
	c.mu.Unlock()

	if err := c.rec.Start(ctx, locale); err != nil {
		return errors.Wrap(err, "start recognizer")
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.mu.Lock()
	c.listening = true
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go c.run(runCtx, done)
	return nil
}

// Stop ends listening and freezes the transcript. Results already
// delivered by the recognizer are applied first.
func (c *Capture) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel != nil {
		c.rec.Stop()
		cancel()
		<-done
		c.drain()
	}

	c.mu.Lock()
	c.listening = false
	c.mu.Unlock()
}

func (c *Capture) drain() {
	for {
		select {
		case ev := <-c.rec.Events():
			if ev.Kind == EventResult {
				c.handle(context.Background(), ev)
			}
		default:
			return
		}
	}
}

func (c *Capture) Transcript() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transcript
}

func (c *Capture) Listening() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.listening
}

func (c *Capture) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errMsg
}

func (c *Capture) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

func (c *Capture) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.rec.Events():
			if !c.handle(ctx, ev) {
				return
			}
		}
	}
}

// handle applies one event and reports whether to keep consuming.
func (c *Capture) handle(ctx context.Context, ev Event) bool {
	switch ev.Kind {
	case EventResult:
		text := JoinResults(ev.Results)
		c.mu.Lock()
		if c.listening {
			c.transcript = text
		}
		c.mu.Unlock()
	case EventEnd:
		if !c.Listening() {
			return true
		}
		if err := c.rec.Start(ctx, c.Locale()); err != nil {
			zap.L().Warn("restart recognizer failed", zap.Error(err), zap.String("namespace", "voice"))
		}
	case EventError:
		c.mu.Lock()
		c.errMsg = "Voice recognition error: " + ev.Err
		c.listening = false
		cancel := c.cancel
		c.cancel, c.done = nil, nil
		c.mu.Unlock()
		c.rec.Stop()
		if cancel != nil {
			cancel()
		}
		return false
	}
	return true
}

// JoinResults rebuilds the transcript from a cumulative result list: every
// final segment followed by a space, or the interim segments when nothing
// is final yet.
func JoinResults(results []Result) string {
	var final, interim strings.Builder
	for _, r := range results {
		if r.Final {
			final.WriteString(r.Text)
			final.WriteString(" ")
		} else {
			interim.WriteString(r.Text)
		}
	}
	if final.Len() > 0 {
		return final.String()
	}
	return interim.String()
}
