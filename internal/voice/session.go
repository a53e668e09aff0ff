package voice

import (
	"context"
	"sync"
	"time"
)

type Stage string

const (
	StageListening  Stage = "listening"
	StageProcessing Stage = "processing"
	StageAnnouncing Stage = "announcing"
	StageConfirm    Stage = "confirm"
	StageSuccess    Stage = "success"
)

// Utterance is a line the browser should speak, in order of Seq.
type Utterance struct {
	Seq    int    `json:"seq"`
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

// Session is one voice product dialog of a merchant.
type Session struct {
	ID        string
	UserID    string
	Lang      string
	CreatedAt time.Time

	rec     *PushRecognizer
	capture *Capture
	ctx     context.Context
	cancel  context.CancelFunc

	mu         sync.RWMutex
	stage      Stage
	candidate  *Candidate
	announcing string
	filled     []string
	utterances []Utterance
	errMsg     string
	productID  string
	busy       bool
}

// SessionView is the JSON state polled by the browser.
type SessionView struct {
	ID         string      `json:"id"`
	Stage      Stage       `json:"stage"`
	Listening  bool        `json:"listening"`
	Locale     string      `json:"locale"`
	Transcript string      `json:"transcript"`
	Candidate  *Candidate  `json:"candidate,omitempty"`
	Announcing string      `json:"announcing,omitempty"`
	Filled     []string    `json:"filled"`
	Utterances []Utterance `json:"utterances"`
	Error      string      `json:"error,omitempty"`
	ProductID  string      `json:"product_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (s *Session) Stage() Stage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stage
}

func (s *Session) Recognizer() *PushRecognizer {
	return s.rec
}

// View returns a consistent copy of the session state.
func (s *Session) View() SessionView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := SessionView{
		ID:         s.ID,
		Stage:      s.stage,
		Listening:  s.capture.Listening(),
		Locale:     s.capture.Locale(),
		Transcript: s.capture.Transcript(),
		Announcing: s.announcing,
		Filled:     append([]string{}, s.filled...),
		Utterances: append([]Utterance{}, s.utterances...),
		Error:      s.errMsg,
		ProductID:  s.productID,
		CreatedAt:  s.CreatedAt,
	}
	if s.capture.Err() != "" && v.Error == "" {
		v.Error = s.capture.Err()
	}
	if s.candidate != nil {
		c := *s.candidate
		v.Candidate = &c
	}
	return v
}

// Say queues a line for the browser's speech synthesizer.
func (s *Session) Say(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.utterances = append(s.utterances, Utterance{
		Seq:    len(s.utterances) + 1,
		Text:   text,
		Locale: LocaleFor(s.Lang),
	})
}

func (s *Session) setStage(stage Stage) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
}

func (s *Session) setAnnouncing(field string) {
	s.mu.Lock()
	s.stage = StageAnnouncing
	s.announcing = field
	s.mu.Unlock()
}

func (s *Session) markFilled(field string) {
	s.mu.Lock()
	s.filled = append(s.filled, field)
	s.announcing = ""
	s.mu.Unlock()
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// reset discards the transcript outcome and returns to listening.
func (s *Session) reset() {
	s.mu.Lock()
	s.stage = StageListening
	s.candidate = nil
	s.announcing = ""
	s.filled = nil
	s.errMsg = ""
	s.mu.Unlock()
}
