package orchestrator

import (
	"time"

	"github.com/devflowhq/devflow/internal/ghclient"
)

// ComponentHealth is one subcomponent's status line.
type ComponentHealth struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// HealthReport is the structured per-subcomponent status returned by
// SystemHealth.
type HealthReport struct {
	Healthy    bool                       `json:"healthy"`
	Components map[string]ComponentHealth `json:"components"`
	CheckedAt  time.Time                  `json:"checkedAt"`
}

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusDown     = "down"
)

// SystemHealth reports the status of each subcomponent. The platform
// entry reflects the shared rate limit state rather than issuing a
// live API call.
func (o *Orchestrator) SystemHealth() HealthReport {
	report := HealthReport{
		Healthy:    true,
		Components: make(map[string]ComponentHealth),
		CheckedAt:  time.Now(),
	}

	o.mu.RLock()
	initialized := o.initialized
	o.mu.RUnlock()

	core := ComponentHealth{Status: statusOK}
	if !initialized {
		core = ComponentHealth{Status: statusDown, Detail: "not initialized"}
		report.Healthy = false
	}
	report.Components["orchestrator"] = core
	report.Components["classifier"] = ComponentHealth{Status: statusOK}
	report.Components["projects"] = ComponentHealth{Status: statusOK}
	report.Components["workflows"] = ComponentHealth{Status: statusOK}
	report.Components["milestones"] = ComponentHealth{Status: statusOK}

	platform := ComponentHealth{Status: statusOK}
	if remaining, limit, resetAt, limited := ghclient.GetRateLimitStatus(); limited {
		platform = ComponentHealth{
			Status: statusDegraded,
			Detail: "rate limited until " + resetAt.Format(time.RFC3339),
		}
		report.Healthy = false
	} else if limit > 0 && remaining <= ghclient.RateLimitLowWatermark {
		platform = ComponentHealth{Status: statusDegraded, Detail: "rate limit low"}
	}
	report.Components["platform"] = platform

	return report
}
