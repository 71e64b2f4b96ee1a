package telemetry

import (
	"context"
	"fmt"

	"controllerboard/internal/models"
	"controllerboard/internal/repository"
)

// ObservedEventRepo counts events on their way into the log. The node and the
// command server already describe everything they do as events, so this is the
// only place metrics are derived.
type ObservedEventRepo struct {
	repository.EventRepo
	metrics *Metrics
}

func NewObservedEventRepo(next repository.EventRepo, m *Metrics) *ObservedEventRepo {
	return &ObservedEventRepo{EventRepo: next, metrics: m}
}

func (r *ObservedEventRepo) Append(ctx context.Context, e models.NodeEvent) error {
	r.observe(e)
	return r.EventRepo.Append(ctx, e)
}

func (r *ObservedEventRepo) observe(e models.NodeEvent) {
	meta, _ := e.Metadata.(map[string]any)
	m := r.metrics
	switch e.Type {
	case models.EventSleep:
		m.cycles.WithLabelValues(metaString(meta, "reason")).Inc()
		if v, ok := metaNumber(meta, "minutes"); ok {
			m.sleepMinutes.Set(v)
		}
	case models.EventError:
		m.failures.WithLabelValues(metaString(meta, "failure")).Inc()
	case models.EventActivate:
		port := metaString(meta, "port")
		m.activations.WithLabelValues(port).Inc()
		if v, ok := metaNumber(meta, "minutes"); ok {
			m.openMinutes.WithLabelValues(port).Add(v)
		}
	case models.EventPlanServed:
		m.plansServed.WithLabelValues(metaString(meta, "board"), metaString(meta, "found")).Inc()
	}
}

func metaString(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return "unknown"
	}
	return fmt.Sprint(v)
}

func metaNumber(meta map[string]any, key string) (float64, bool) {
	switch v := meta[key].(type) {
	case uint32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
