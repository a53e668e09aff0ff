package app

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/nashikconnect/vyapaar/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	jobs := []struct {
		spec string
		fn   func()
	}{
		{"@every 30s", a.SchedMonitorTask},
		{"@daily", a.SchedClearOprLogs},
		{"@hourly", a.SchedPurgeTranslations},
		{"30 3 * * *", a.SchedWarmTranslations},
	}
	for _, job := range jobs {
		if _, err := a.sched.AddFunc(job.spec, job.fn); err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// SchedMonitorTask samples host and process usage into the metrics store.
// CPU gauges hold percent*100, memory gauges hold MB.
func (a *Application) SchedMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Errorf("monitor task panic: %v", err)
		}
	}()

	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		metrics.SetGauge(metrics.MetricsSystemCpuUse, int64(pct[0]*100))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		metrics.SetGauge(metrics.MetricsSystemMemUse, megabytes(vm.Used))
	}

	self, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec
	if err != nil {
		zap.L().Debug("inspect own process", zap.Error(err))
		return
	}
	if pct, err := self.CPUPercent(); err == nil {
		metrics.SetGauge(metrics.MetricsProcessCpuUse, int64(pct*100))
	}
	if rss, err := self.MemoryInfo(); err == nil {
		metrics.SetGauge(metrics.MetricsProcessMemUse, megabytes(rss.RSS))
	}
}

func megabytes(b uint64) int64 {
	return int64(b >> 20) //nolint:gosec
}

// SchedClearOprLogs drops operation log entries past the retention period
func (a *Application) SchedClearOprLogs() {
	days := a.configManager.GetInt("system", "OprLogRetentionDays")
	if days <= 0 {
		days = 365
	}
	n, err := a.repos.OprLogs.DeleteOlderThan(context.Background(), days)
	if err != nil {
		zap.L().Error("clear operation logs failed", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("cleared operation logs", zap.Int64("rows", n), zap.Int("days", days))
	}
}

// SchedPurgeTranslations removes expired entries of the persistent translation cache
func (a *Application) SchedPurgeTranslations() {
	n, err := a.translator.Cache().PurgeExpired()
	if err != nil {
		zap.L().Error("purge translation cache failed", zap.Error(err), zap.String("namespace", "translate"))
		return
	}
	if n > 0 {
		zap.L().Info("purged expired translations", zap.Int("entries", n), zap.String("namespace", "translate"))
	}
}

// SchedWarmTranslations pre-translates interface strings into the configured languages
func (a *Application) SchedWarmTranslations() {
	langs := a.appConfig.Translate.WarmLanguages
	texts := a.configManager.WarmTexts()
	if len(langs) == 0 || len(texts) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := a.translator.Warm(ctx, texts, langs); err != nil {
		zap.L().Warn("translation warm-up incomplete", zap.Error(err), zap.String("namespace", "translate"))
		return
	}
	zap.L().Info("translation cache warmed",
		zap.Int("texts", len(texts)),
		zap.Strings("languages", langs),
		zap.String("namespace", "translate"))
}
