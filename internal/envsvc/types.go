// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package envsvc provides the controller environment data model and the
// registry that tracks which environment the dashboard is looking at.
// It separates the data model from the CLI and TUI rendering.
package envsvc

import "strings"

// HealthStatus is the coarse health reported for a controller.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

// Level is the scope an incident was raised at.
type Level string

const (
	LevelController Level = "controller"
	LevelAccount    Level = "account"
	LevelCluster    Level = "cluster"
)

// Levels lists incident levels in display order.
var Levels = []Level{LevelController, LevelAccount, LevelCluster}

// IncidentSeverity is the severity of a single incident.
type IncidentSeverity string

const (
	SeverityCritical IncidentSeverity = "critical"
	SeverityWarning  IncidentSeverity = "warning"
	SeverityInfo     IncidentSeverity = "info"
)

// Rank orders severities: critical > warning > info > unknown.
func (s IncidentSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// IncidentStatus is the lifecycle state of an incident.
type IncidentStatus string

const (
	IncidentActive   IncidentStatus = "active"
	IncidentResolved IncidentStatus = "resolved"
)

// ResourceType tags controller-level incidents with the resource under pressure.
type ResourceType string

const (
	ResourceHeap    ResourceType = "heap"
	ResourceCPU     ResourceType = "cpu"
	ResourceMemory  ResourceType = "memory"
	ResourceDisk    ResourceType = "disk"
	ResourceNetwork ResourceType = "network"
)

// Priority is a Jira issue priority.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
)

// IssueStatus is a Jira issue workflow state.
type IssueStatus string

const (
	IssueOpen       IssueStatus = "open"
	IssueInProgress IssueStatus = "in-progress"
	IssueResolved   IssueStatus = "resolved"
)

// Environment is one monitored controller deployment.
type Environment struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Hostname  string   `json:"hostname"`
	AccountID string   `json:"accountId"`
	Snapshot  Snapshot `json:"data"`
}

// Summary is the listing view of an Environment.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Hostname  string `json:"hostname"`
	AccountID string `json:"accountId"`
}

// Summary returns the listing fields of e.
func (e Environment) Summary() Summary {
	return Summary{ID: e.ID, Name: e.Name, Hostname: e.Hostname, AccountID: e.AccountID}
}

// Snapshot is the point-in-time operational data for an environment.
type Snapshot struct {
	AccountInfo  AccountInfo  `json:"accountInfo"`
	Settings     Settings     `json:"settings"`
	Limits       Limits       `json:"limits"`
	Jiras        []Jira       `json:"jiras"`
	Clusters     Clusters     `json:"clusters"`
	HealthStatus HealthStatus `json:"healthStatus"`
	Metrics      Metrics      `json:"metrics"`
	Incidents    Incidents    `json:"incidents"`
	LimitUsage   LimitUsage   `json:"limitUsage,omitempty"`
}

// AccountInfo is the controller account metadata.
type AccountInfo struct {
	Controller string `json:"controller"`
	AccountID  string `json:"accountId"`
	Host       string `json:"host"`
	SSHIP      string `json:"sshIp"`
	Version    string `json:"version"`
	GlobalName string `json:"globalName"`
	EUMName    string `json:"eumName"`
	Dedicated  bool   `json:"dedicated"`
	License    string `json:"license"`
}

// IsPremium reports whether the license names a premium tier.
func (a AccountInfo) IsPremium() bool {
	return strings.Contains(a.License, "Premium")
}

// Settings are the account's operational settings.
type Settings struct {
	Timezone          string `json:"timezone"`
	Retention         string `json:"retention"`
	MaintenanceWindow string `json:"maintWindow"`
	SSO               bool   `json:"sso"`
}

// Limits are the licensed resource limits.
type Limits struct {
	Applications int `json:"applications"`
	Agents       int `json:"agents"`
	DBCollectors int `json:"dbCollectors"`
	EUMApps      int `json:"eumApps"`
}

// Jira is an open issue tracked against the environment.
type Jira struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Priority Priority    `json:"priority"`
	Status   IssueStatus `json:"status"`
}

// Clusters lists the GAN and EUM cluster names.
type Clusters struct {
	GAN []string `json:"gan"`
	EUM []string `json:"eum"`
}

// Metrics are the headline health metrics.
type Metrics struct {
	Uptime           float64 `json:"uptime"`
	ResponseTime     float64 `json:"responseTime"`
	ActiveUsers      int     `json:"activeUsers"`
	ErrorRate        float64 `json:"errorRate"`
	ThreadPoolBreach int     `json:"threadPoolBreach"`
	LimitsReached    int     `json:"limitsReached"`
}

// Incident is a single controller, account or cluster incident.
type Incident struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	Description  string           `json:"description"`
	StartTime    string           `json:"startTime"`
	EndTime      string           `json:"endTime"`
	Duration     string           `json:"duration"`
	Severity     IncidentSeverity `json:"severity"`
	Status       IncidentStatus   `json:"status"`
	ResourceType ResourceType     `json:"resourceType,omitempty"`
}

// Incidents groups incidents by level. Each list keeps source order.
type Incidents struct {
	Controller []Incident `json:"controller"`
	Account    []Incident `json:"account"`
	Cluster    []Incident `json:"cluster"`
}

// Level returns the incident list for l, or nil for an unknown level.
func (in Incidents) Level(l Level) []Incident {
	switch l {
	case LevelController:
		return in.Controller
	case LevelAccount:
		return in.Account
	case LevelCluster:
		return in.Cluster
	default:
		return nil
	}
}

// All returns every incident, controller first, then account, then cluster.
func (in Incidents) All() []Incident {
	all := make([]Incident, 0, len(in.Controller)+len(in.Account)+len(in.Cluster))
	all = append(all, in.Controller...)
	all = append(all, in.Account...)
	all = append(all, in.Cluster...)
	return all
}

// LimitUsageRow is one metric limit with its current consumption.
type LimitUsageRow struct {
	Resource string `json:"resource"`
	Current  int64  `json:"current"`
	Limit    int64  `json:"limit"`
}

// Percent returns current as a whole percentage of limit. A zero limit yields 0.
func (r LimitUsageRow) Percent() int {
	if r.Limit <= 0 {
		return 0
	}
	return int(r.Current * 100 / r.Limit)
}

// LimitUsage holds the controller-wide and account-scoped limit tables.
type LimitUsage struct {
	Controller []LimitUsageRow `json:"controller,omitempty"`
	Account    []LimitUsageRow `json:"account,omitempty"`
}

// UrgentIssues counts P0 and P1 issues.
func (s Snapshot) UrgentIssues() int {
	n := 0
	for _, j := range s.Jiras {
		if j.Priority == PriorityP0 || j.Priority == PriorityP1 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers cannot mutate registry-owned slices.
func (e Environment) Clone() Environment {
	out := e
	s := &out.Snapshot
	s.Jiras = append([]Jira(nil), e.Snapshot.Jiras...)
	s.Clusters.GAN = append([]string(nil), e.Snapshot.Clusters.GAN...)
	s.Clusters.EUM = append([]string(nil), e.Snapshot.Clusters.EUM...)
	s.Incidents.Controller = append([]Incident(nil), e.Snapshot.Incidents.Controller...)
	s.Incidents.Account = append([]Incident(nil), e.Snapshot.Incidents.Account...)
	s.Incidents.Cluster = append([]Incident(nil), e.Snapshot.Incidents.Cluster...)
	s.LimitUsage.Controller = append([]LimitUsageRow(nil), e.Snapshot.LimitUsage.Controller...)
	s.LimitUsage.Account = append([]LimitUsageRow(nil), e.Snapshot.LimitUsage.Account...)
	return out
}
