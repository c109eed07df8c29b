package registry

import (
	"context"

	"github.com/gaigenticai/insurance-ai-system-sub000/observability"
)

// ServiceHealth is the per-service entry of a health report.
type ServiceHealth struct {
	Status    string `json:"status"`
	Lifecycle string `json:"lifecycle"`
	Error     string `json:"error,omitempty"`
}

// HealthReport aggregates service health for external supervisors.
type HealthReport struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceHealth `json:"services"`
}

// HealthCheck probes every ready instance that reports health. Probe
// failures and panics degrade the report instead of propagating; descriptors
// in error state force the overall status to degraded.
func (r *Registry) HealthCheck(ctx context.Context) HealthReport {
	r.mu.RLock()
	descriptors := make([]*descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		descriptors = append(descriptors, d)
	}
	r.mu.RUnlock()

	report := HealthReport{
		Status:   "healthy",
		Services: make(map[string]ServiceHealth, len(descriptors)),
	}

	healthy := 0
	for _, d := range descriptors {
		status, instance, lastErr := d.snapshot()

		sh := ServiceHealth{
			Status:    "healthy",
			Lifecycle: d.lifecycle.String(),
		}

		switch status {
		case StatusError:
			sh.Status = "unhealthy"
			if lastErr != nil {
				sh.Error = lastErr.Error()
			}
		case StatusReady:
			if err := probe(ctx, instance); err != nil {
				sh.Status = "unhealthy"
				sh.Error = err.Error()
			}
		default:
			// Not constructed yet; nothing to probe.
		}

		if sh.Status == "healthy" {
			healthy++
		}
		report.Services[d.serviceType] = sh
	}

	switch {
	case len(descriptors) == 0 || healthy == len(descriptors):
		report.Status = "healthy"
	case healthy == 0:
		report.Status = "unhealthy"
	default:
		report.Status = "degraded"
	}
	return report
}

// probeError carries a probe result as an error value.
type probeError string

func (e probeError) Error() string { return string(e) }

// probe invokes the instance's health check when it exposes one. Panics are
// treated as unhealthy, not propagated.
func probe(ctx context.Context, instance any) (err error) {
	checker, ok := instance.(observability.HealthChecker)
	if !ok {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = probeError("health probe panicked")
		}
	}()

	h := checker.CheckHealth(ctx)
	if h.Status == observability.HealthStatusUp {
		return nil
	}
	if h.Message != "" {
		return probeError(h.Message)
	}
	return probeError("service reported " + string(h.Status))
}
