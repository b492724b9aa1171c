// Package prediction runs the periodic weather scan over the monitored
// areas and materializes disasters for qualifying conditions.
package prediction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Kartik-coder753/prism-disaster-management/internal/classify"
	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
	"github.com/Kartik-coder753/prism-disaster-management/internal/observability"
	"github.com/Kartik-coder753/prism-disaster-management/internal/repository"
	"github.com/Kartik-coder753/prism-disaster-management/internal/weather"
)

// severityFloor is the minimum classified severity that creates a disaster.
const severityFloor = 3

// Gateway is the weather provider surface the scheduler needs.
type Gateway interface {
	Current(ctx context.Context, lat, lng float64) (*weather.Conditions, error)
	Forecast(ctx context.Context, lat, lng float64) (*weather.Forecast, error)
}

// Publisher receives each created disaster before the scan moves on to the
// next area.
type Publisher interface {
	Publish(e models.Event)
}

type Scheduler struct {
	areas    []models.MonitoredArea
	gateway  Gateway
	repo     repository.DisasterRepository
	pub      Publisher
	metrics  *observability.Metrics
	clock    clockwork.Clock
	interval time.Duration

	// scanning guards the scan body so a timer firing during a slow scan
	// is skipped instead of overlapping it.
	scanning sync.Mutex
}

func NewScheduler(areas []models.MonitoredArea, gateway Gateway, repo repository.DisasterRepository,
	pub Publisher, metrics *observability.Metrics, clock clockwork.Clock, interval time.Duration) *Scheduler {
	return &Scheduler{
		areas:    areas,
		gateway:  gateway,
		repo:     repo,
		pub:      pub,
		metrics:  metrics,
		clock:    clock,
		interval: interval,
	}
}

// Run scans once immediately and then on every timer interval until the
// context is cancelled. Writes committed by an in-flight scan stay
// committed across shutdown.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("prediction scheduler starting", "interval", s.interval, "areas", len(s.areas))

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("prediction scheduler shutting down")
			return
		case <-ticker.Chan():
			s.Scan(ctx)
		}
	}
}

// Scan visits every monitored area once. At most one scan runs at a time;
// a second caller returns immediately.
func (s *Scheduler) Scan(ctx context.Context) {
	if !s.scanning.TryLock() {
		slog.Warn("scan still in progress, skipping this firing")
		s.metrics.ScansSkipped.Inc()
		return
	}
	defer s.scanning.Unlock()

	s.metrics.ScansTotal.Inc()
	start := s.clock.Now()

	for _, area := range s.areas {
		if ctx.Err() != nil {
			return
		}
		s.scanArea(ctx, area)
	}

	s.metrics.ScanDuration.Observe(s.clock.Since(start).Seconds())
	slog.Debug("scan complete", "areas", len(s.areas))
}

// scanArea fetches, classifies, and persists one area. Every failure here
// is logged and swallowed so a single bad area never aborts the scan.
func (s *Scheduler) scanArea(ctx context.Context, area models.MonitoredArea) {
	cond, err := s.gateway.Current(ctx, area.Lat, area.Lng)
	if err != nil {
		slog.Warn("weather unavailable, skipping area", "area", area.Name, "error", err)
		s.metrics.ScanAreaErrors.Inc()
		return
	}
	forecast, err := s.gateway.Forecast(ctx, area.Lat, area.Lng)
	if err != nil {
		slog.Warn("forecast unavailable, skipping area", "area", area.Name, "error", err)
		s.metrics.ScanAreaErrors.Inc()
		return
	}

	result := classify.Severity(cond)
	if result.Severity < severityFloor {
		return
	}

	disasterType := classify.TypeOf(cond, forecast)
	now := s.clock.Now()
	d := &models.Disaster{
		Type:          disasterType,
		Title:         titleFor(disasterType),
		Description:   describe(disasterType, result),
		Location:      models.Location{Lat: area.Lat, Lng: area.Lng},
		Severity:      result.Severity,
		Timestamp:     now,
		AffectedAreas: []string{area.Name},
		WindSpeed:     cond.WindSpeed,
		Rainfall:      cond.Rainfall3h,
		Movement:      "Monitoring",
		ImpactRadius:  float64(result.Severity) * 20,
		LastUpdate:    now,
	}

	if err := s.repo.CreateDisaster(ctx, d); err != nil {
		slog.Error("error creating predicted disaster", "area", area.Name, "error", err)
		s.metrics.ScanAreaErrors.Inc()
		return
	}
	s.metrics.DisastersCreated.Inc()

	// Push before moving to the next area so subscribers see events as
	// they are discovered, not batched at the end of the scan.
	s.pub.Publish(models.Event{Type: models.EventNewDisaster, Data: d})

	slog.Info("predicted disaster created", "id", d.ID, "type", d.Type,
		"area", area.Name, "severity", d.Severity)
}

func titleFor(t models.DisasterType) string {
	name := string(t)
	if name == "" {
		return "Weather Warning"
	}
	return strings.ToUpper(name[:1]) + name[1:] + " Warning"
}

func describe(t models.DisasterType, r classify.Result) string {
	desc := fmt.Sprintf("Predicted %s with severity level %d.", t, r.Severity)
	if len(r.Warnings) > 0 {
		desc += " " + strings.Join(r.Warnings, ". ")
	}
	return desc
}
