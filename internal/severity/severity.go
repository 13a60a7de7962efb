// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package severity maps raw environment metrics, incidents and issues to the
// three-level tier used to colour dashboard indicators.
//
// Every function is pure and total: out-of-range input (negative percentages,
// uptime above 100) is classified by the same inclusive thresholds.
package severity

import "github.com/confighub/ctrl-scout/internal/envsvc"

// Tier is a severity classification.
type Tier string

const (
	Excellent Tier = "excellent"
	Warning   Tier = "warning"
	Negative  Tier = "negative"
)

// Rank orders tiers: negative > warning > excellent.
func (t Tier) Rank() int {
	switch t {
	case Negative:
		return 2
	case Warning:
		return 1
	default:
		return 0
	}
}

// Thresholds
const (
	UptimeExcellent = 99.5
	UptimeWarning   = 95.0

	UsageNegative = 80.0
	UsageWarning  = 60.0

	LimitsWarningMax     = 3
	ThreadPoolWarningMax = 5
)

// Uptime classifies an uptime percentage.
func Uptime(uptime float64) Tier {
	switch {
	case uptime >= UptimeExcellent:
		return Excellent
	case uptime >= UptimeWarning:
		return Warning
	default:
		return Negative
	}
}

// Incidents is negative when any incident is critical, warning when there are
// incidents but none critical, and excellent when there are none.
func Incidents(incidents []envsvc.Incident) Tier {
	if len(incidents) == 0 {
		return Excellent
	}
	for _, in := range incidents {
		if in.Severity == envsvc.SeverityCritical {
			return Negative
		}
	}
	return Warning
}

// Issues is negative when any issue is P0, warning when some are P1.
func Issues(issues []envsvc.Jira) Tier {
	tier := Excellent
	for _, j := range issues {
		switch j.Priority {
		case envsvc.PriorityP0:
			return Negative
		case envsvc.PriorityP1:
			tier = Warning
		}
	}
	return tier
}

// Limits classifies the number of metric limits reached.
func Limits(limitsReached int) Tier {
	switch {
	case limitsReached == 0:
		return Excellent
	case limitsReached <= LimitsWarningMax:
		return Warning
	default:
		return Negative
	}
}

// UsagePercent classifies a limit usage bar.
func UsagePercent(pct float64) Tier {
	switch {
	case pct >= UsageNegative:
		return Negative
	case pct >= UsageWarning:
		return Warning
	default:
		return Excellent
	}
}

// ThreadPool classifies the number of thread-pool breaches.
func ThreadPool(breaches int) Tier {
	switch {
	case breaches <= 0:
		return Excellent
	case breaches <= ThreadPoolWarningMax:
		return Warning
	default:
		return Negative
	}
}

// Health maps the coarse controller health to a tier.
func Health(status envsvc.HealthStatus) Tier {
	switch status {
	case envsvc.HealthHealthy:
		return Excellent
	case envsvc.HealthCritical:
		return Negative
	default:
		return Warning
	}
}

// Worst returns the most severe of tiers, or Excellent when none are given.
func Worst(tiers ...Tier) Tier {
	worst := Excellent
	for _, t := range tiers {
		if t.Rank() > worst.Rank() {
			worst = t
		}
	}
	return worst
}

// Overall combines every indicator of a snapshot.
func Overall(s envsvc.Snapshot) Tier {
	return Worst(
		Health(s.HealthStatus),
		Uptime(s.Metrics.Uptime),
		Incidents(s.Incidents.All()),
		Issues(s.Jiras),
		Limits(s.Metrics.LimitsReached),
	)
}
