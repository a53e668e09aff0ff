// Package metrics keeps lightweight time series of service counters and gauges
// in an embedded tstorage database under the application workdir.
package metrics

import (
	"path"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

const (
	MetricsProductCreated  = "vyapaar_product_created"
	MetricsProductVoice    = "vyapaar_product_voice"
	MetricsStoreSaved      = "vyapaar_store_saved"
	MetricsGuideEnrolled   = "vyapaar_guide_enrolled"
	MetricsInvoiceRendered = "vyapaar_invoice_rendered"
	MetricsTranslateHit    = "vyapaar_translate_cache_hit"
	MetricsTranslateMiss   = "vyapaar_translate_cache_miss"
	MetricsSystemCpuUse    = "system_cpuuse"
	MetricsSystemMemUse    = "system_memuse"
	MetricsProcessCpuUse   = "vyapaar_cpuuse"
	MetricsProcessMemUse   = "vyapaar_memuse"
)

// Point one sample of a series
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

var (
	mu       sync.RWMutex
	storage  tstorage.Storage
	counters sync.Map // name -> *int64
)

// InitMetrics opens the series storage in <workdir>/data/metrics
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(path.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(7*24*time.Hour),
	)
	if err != nil {
		return err
	}
	storage = s
	return nil
}

func insert(name string, value float64) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
	}})
}

// SetGauge records the current value of a gauge
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// Incr bumps a counter and records its new total
func Incr(name string) int64 {
	v, _ := counters.LoadOrStore(name, new(int64))
	n := atomic.AddInt64(v.(*int64), 1)
	insert(name, float64(n))
	return n
}

// Counter returns the in-process total of a counter
func Counter(name string) int64 {
	if v, ok := counters.Load(name); ok {
		return atomic.LoadInt64(v.(*int64))
	}
	return 0
}

// Query returns samples of name recorded within the last window
func Query(name string, window time.Duration) ([]Point, error) {
	mu.RLock()
	defer mu.RUnlock()
	if storage == nil {
		return nil, nil
	}
	end := time.Now().Unix() + 1
	points, err := storage.Select(name, nil, end-int64(window.Seconds()), end)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, err
	}
	result := make([]Point, 0, len(points))
	for _, p := range points {
		result = append(result, Point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return result, nil
}

// Close flushes and closes the storage
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
