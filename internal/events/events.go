// Package events fans domain notifications out to the audit log and metrics.
package events

import (
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/pkg/common"
	"github.com/nashikconnect/vyapaar/pkg/metrics"
)

const (
	TopicStoreSaved     = "store:saved"
	TopicProductCreated = "product:created"
	TopicProductUpdated = "product:updated"
	TopicGuideEnrolled  = "guide:enrolled"
)

// Product creation sources
const (
	SourceForm   = "form"
	SourceVoice  = "voice"
	SourceImport = "import"
)

// Auditor subscribes to the bus and records every notification.
type Auditor struct {
	db  *gorm.DB
	bus EventBus.Bus
}

func NewAuditor(db *gorm.DB, bus EventBus.Bus) *Auditor {
	return &Auditor{db: db, bus: bus}
}

// Subscribe attaches the audit handlers. Handlers run asynchronously and in
// order per topic.
func (a *Auditor) Subscribe() error {
	handlers := map[string]interface{}{
		TopicStoreSaved:     a.onStoreSaved,
		TopicProductCreated: a.onProductCreated,
		TopicProductUpdated: a.onProductUpdated,
		TopicGuideEnrolled:  a.onGuideEnrolled,
	}
	for topic, fn := range handlers {
		if err := a.bus.SubscribeAsync(topic, fn, true); err != nil {
			return errors.Wrapf(err, "subscribe %s", topic)
		}
	}
	return nil
}

// Unsubscribe detaches the handlers and waits for queued ones to finish.
func (a *Auditor) Unsubscribe() {
	_ = a.bus.Unsubscribe(TopicStoreSaved, a.onStoreSaved)
	_ = a.bus.Unsubscribe(TopicProductCreated, a.onProductCreated)
	_ = a.bus.Unsubscribe(TopicProductUpdated, a.onProductUpdated)
	_ = a.bus.Unsubscribe(TopicGuideEnrolled, a.onGuideEnrolled)
	a.bus.WaitAsync()
}

func (a *Auditor) onStoreSaved(store *domain.Store, created bool) {
	action := "update_store"
	if created {
		action = "create_store"
	}
	metrics.Incr(metrics.MetricsStoreSaved)
	a.log(store.UserID, action, fmt.Sprintf("store %s (%s)", store.StoreName, store.ID))
}

func (a *Auditor) onProductCreated(p *domain.Product, source string) {
	metrics.Incr(metrics.MetricsProductCreated)
	if source == SourceVoice {
		metrics.Incr(metrics.MetricsProductVoice)
	}
	a.log(p.UserID, "create_product", fmt.Sprintf("%s product %s (%s)", source, p.Name, p.ID))
}

func (a *Auditor) onProductUpdated(p *domain.Product) {
	a.log(p.UserID, "update_product", fmt.Sprintf("product %s (%s)", p.Name, p.ID))
}

func (a *Auditor) onGuideEnrolled(g *domain.StudentGuide) {
	metrics.Incr(metrics.MetricsGuideEnrolled)
	a.log(g.Email, "enroll_guide", fmt.Sprintf("guide %s (%s)", g.FullName, g.ID))
}

func (a *Auditor) log(operator, action, desc string) {
	entry := &domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   operator,
		OprIp:     common.NA,
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := a.db.Create(entry).Error; err != nil {
		zap.L().Error("write operation log failed", zap.Error(err), zap.String("namespace", "events"))
	}
}
