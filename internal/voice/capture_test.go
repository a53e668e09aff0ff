package voice

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecognizer struct {
	*PushRecognizer
	starts atomic.Int32
}

func (r *countingRecognizer) Start(ctx context.Context, locale string) error {
	r.starts.Add(1)
	return r.PushRecognizer.Start(ctx, locale)
}

func TestJoinResults(t *testing.T) {
	assert.Equal(t, "", JoinResults(nil))
	assert.Equal(t, "silver ring", JoinResults([]Result{{Text: "silver "}, {Text: "ring"}}))
	assert.Equal(t, "silver ring price 850 ", JoinResults([]Result{
		{Text: "silver ring", Final: true},
		{Text: "price 850", Final: true},
		{Text: "stock", Final: false},
	}))
}

func TestLocaleFor(t *testing.T) {
	assert.Equal(t, "mr-IN", LocaleFor("mr"))
	assert.Equal(t, "bn-IN", LocaleFor("bn"))
	assert.Equal(t, DefaultLocale, LocaleFor("fr"))
	assert.Equal(t, DefaultLocale, LocaleFor(""))
}

func TestCaptureReplacesTranscriptWholesale(t *testing.T) {
	rec := NewPushRecognizer()
	c := NewCapture(rec)
	require.NoError(t, c.Start(context.Background(), "gu"))
	assert.Equal(t, "gu-IN", rec.Locale())

	require.NoError(t, rec.Push([]Result{{Text: "brass"}}))
	assert.Eventually(t, func() bool { return c.Transcript() == "brass" }, time.Second, 5*time.Millisecond)

	require.NoError(t, rec.Push([]Result{{Text: "brass lamp", Final: true}, {Text: "two"}}))
	c.Stop()
	assert.Equal(t, "brass lamp ", c.Transcript())
	assert.False(t, c.Listening())

	assert.ErrorIs(t, rec.Push([]Result{{Text: "ignored", Final: true}}), ErrNotListening)
	assert.Equal(t, "brass lamp ", c.Transcript())
}

func TestCaptureRestartsAfterUnexpectedEnd(t *testing.T) {
	rec := &countingRecognizer{PushRecognizer: NewPushRecognizer()}
	c := NewCapture(rec)
	require.NoError(t, c.Start(context.Background(), "en"))
	assert.Equal(t, int32(1), rec.starts.Load())

	require.NoError(t, rec.End())
	assert.Eventually(t, func() bool { return rec.starts.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, c.Listening())
	c.Stop()
}

func TestCaptureStartResetsState(t *testing.T) {
	rec := NewPushRecognizer()
	c := NewCapture(rec)
	require.NoError(t, c.Start(context.Background(), "en"))
	require.NoError(t, rec.Fail("network"))
	assert.Eventually(t, func() bool { return c.Err() != "" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Voice recognition error: network", c.Err())

	require.NoError(t, c.Start(context.Background(), "ta"))
	assert.Equal(t, "", c.Err())
	assert.Equal(t, "", c.Transcript())
	assert.True(t, c.Listening())
	assert.Equal(t, "ta-IN", c.Locale())
	c.Stop()
}
