// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package envsvc

// referenceLimitUsage is the limit table shared by the reference environments.
func referenceLimitUsage() LimitUsage {
	return LimitUsage{
		Controller: []LimitUsageRow{
			{Resource: "Account", Current: 1000, Limit: 2000},
			{Resource: "Application", Current: 18000, Limit: 20000},
			{Resource: "Backend", Current: 5940, Limit: 100000},
			{Resource: "BusinessTransaction", Current: 44690, Limit: 300000},
			{Resource: "Collections", Current: 0, Limit: 40000},
			{Resource: "Error", Current: 58030, Limit: 100000},
			{Resource: "Memory", Current: 8000, Limit: 40000},
			{Resource: "Node", Current: 9061, Limit: 600000},
			{Resource: "ServiceEndpoint", Current: 20096, Limit: 100000},
			{Resource: "StackTrace", Current: 82200, Limit: 6000000},
			{Resource: "Thread", Current: 36450, Limit: 100000},
			{Resource: "Tier", Current: 6143, Limit: 100000},
			{Resource: "TrackedObject", Current: 3280, Limit: 40000},
		},
		Account: []LimitUsageRow{
			{Resource: "Account", Current: 600, Limit: 2000},
			{Resource: "Application", Current: 12000, Limit: 20000},
			{Resource: "Backend", Current: 5000, Limit: 100000},
			{Resource: "BusinessTransaction", Current: 36000, Limit: 300000},
			{Resource: "Collections", Current: 0, Limit: 40000},
			{Resource: "Error", Current: 46000, Limit: 100000},
			{Resource: "Memory", Current: 8000, Limit: 40000},
			{Resource: "Node", Current: 90000, Limit: 600000},
			{Resource: "ServiceEndpoint", Current: 5000, Limit: 100000},
			{Resource: "StackTrace", Current: 3000000, Limit: 6000000},
			{Resource: "Thread", Current: 20000, Limit: 100000},
			{Resource: "Tier", Current: 40000, Limit: 100000},
			{Resource: "TrackedObject", Current: 3280, Limit: 40000},
		},
	}
}

// DefaultEnvironments returns the built-in reference controllers used when no
// environments file is configured.
func DefaultEnvironments() []Environment {
	return []Environment{
		{
			ID:        "controllerces",
			Name:      "Controller CES",
			Hostname:  "controllerces.saas.appdynamics.com",
			AccountID: "55 ( controllerces )",
			Snapshot: Snapshot{
				AccountInfo: AccountInfo{
					Controller: "controllerces.saas.appdynamics.com",
					AccountID:  "55 ( controllerces )",
					Host:       "pdx-p-con-1001",
					SSHIP:      "10.1.2.3",
					Version:    "23.9.1",
					GlobalName: "controllerces",
					EUMName:    "-",
					Dedicated:  false,
					License:    "a0Q2H00000Ery2BUAR",
				},
				Settings: Settings{Timezone: "UTC", Retention: "30 days", MaintenanceWindow: "Sun 02:00–04:00 UTC", SSO: true},
				Limits:   Limits{Applications: 100, Agents: 500, DBCollectors: 20, EUMApps: 10},
				Jiras: []Jira{
					{ID: "JIRA-12345", Title: "Login authentication timeout", Priority: PriorityP1, Status: IssueOpen},
					{ID: "JIRA-12346", Title: "Database connection issues", Priority: PriorityP0, Status: IssueInProgress},
					{ID: "JIRA-12347", Title: "Memory leak in agent", Priority: PriorityP1, Status: IssueOpen},
				},
				Clusters:     Clusters{GAN: []string{"athena"}, EUM: []string{"pdx-p01-dyn-k8s-a1-dis3"}},
				HealthStatus: HealthHealthy,
				Metrics:      Metrics{Uptime: 99.97, ResponseTime: 245, ActiveUsers: 1247, ErrorRate: 0.02, ThreadPoolBreach: 2, LimitsReached: 3},
				Incidents: Incidents{
					Controller: []Incident{
						{
							ID:           "CTRL-INC-001",
							Type:         "ContrResourceUsageInc",
							Description:  "Increase in usage percent % on Controller resources like Heap, CPU etc",
							StartTime:    "09/09/2025 07:02:01",
							EndTime:      "07:25:01",
							Duration:     "0h 23m 0s",
							Severity:     SeverityWarning,
							Status:       IncidentResolved,
							ResourceType: ResourceHeap,
						},
					},
				},
				LimitUsage: referenceLimitUsage(),
			},
		},
		{
			ID:        "dotnetces",
			Name:      "DotNet CES",
			Hostname:  "dotnetces.saas.appdynamics.com",
			AccountID: "789012",
			Snapshot: Snapshot{
				AccountInfo: AccountInfo{
					Controller: "dotnetces.saas.appdynamics.com",
					AccountID:  "789012",
					Host:       "pdx-p-con-208",
					SSHIP:      "10.1.2.4",
					Version:    "23.9.2",
					GlobalName: "dotnetces",
					EUMName:    "eum-dotnetces",
					Dedicated:  true,
					License:    "Enterprise / 1000 Agents",
				},
				Settings: Settings{Timezone: "PST", Retention: "45 days", MaintenanceWindow: "Sat 01:00–03:00 PST", SSO: true},
				Limits:   Limits{Applications: 150, Agents: 800, DBCollectors: 30, EUMApps: 15},
				Jiras: []Jira{
					{ID: "JIRA-22345", Title: "Memory optimization needed", Priority: PriorityP2, Status: IssueOpen},
					{ID: "JIRA-22346", Title: "SSL certificate renewal", Priority: PriorityP1, Status: IssueResolved},
				},
				Clusters:     Clusters{GAN: []string{"eks3", "eks4"}, EUM: []string{"pdx-p01-dyn-k8s-a1-dis3"}},
				HealthStatus: HealthWarning,
				Metrics:      Metrics{Uptime: 99.85, ResponseTime: 180, ActiveUsers: 2847, ErrorRate: 0.15, ThreadPoolBreach: 5, LimitsReached: 1},
				Incidents: Incidents{
					Controller: []Incident{
						{
							ID:           "CTRL-INC-002",
							Type:         "ContrResourceUsageInc",
							Description:  "Memory leak detected in controller process",
							StartTime:    "09/09/2025 14:15:30",
							EndTime:      "16:45:12",
							Duration:     "2h 29m 42s",
							Severity:     SeverityCritical,
							Status:       IncidentActive,
							ResourceType: ResourceMemory,
						},
					},
				},
				LimitUsage: referenceLimitUsage(),
			},
		},
		{
			ID:        "farm",
			Name:      "Farm Controller",
			Hostname:  "farm.saas.appdynamics.com",
			AccountID: "345678",
			Snapshot: Snapshot{
				AccountInfo: AccountInfo{
					Controller: "farm.saas.appdynamics.com",
					AccountID:  "345678",
					Host:       "pdx-p-con-209",
					SSHIP:      "10.161.178.89",
					Version:    "23.8.9",
					GlobalName: "farm",
					EUMName:    "eum-farm",
					Dedicated:  false,
					License:    "a0Q2H00000Ery2BUAR",
				},
				Settings: Settings{Timezone: "EST", Retention: "15 days", MaintenanceWindow: "Sun 03:00–05:00 EST", SSO: false},
				Limits:   Limits{Applications: 50, Agents: 200, DBCollectors: 10, EUMApps: 5},
				Jiras: []Jira{
					{ID: "JIRA-32345", Title: "Performance degradation", Priority: PriorityP0, Status: IssueInProgress},
					{ID: "JIRA-32346", Title: "Agent connectivity issues", Priority: PriorityP0, Status: IssueOpen},
					{ID: "JIRA-32347", Title: "Database timeout errors", Priority: PriorityP1, Status: IssueOpen},
				},
				Clusters:     Clusters{GAN: []string{"eks5"}, EUM: []string{"eum-eks5"}},
				HealthStatus: HealthCritical,
				Metrics:      Metrics{Uptime: 97.2, ResponseTime: 890, ActiveUsers: 567, ErrorRate: 2.8, ThreadPoolBreach: 12, LimitsReached: 7},
				Incidents: Incidents{
					Controller: []Incident{
						{
							ID:           "CTRL-INC-003",
							Type:         "ContrResourceUsageInc",
							Description:  "High CPU usage affecting performance",
							StartTime:    "09/09/2025 09:30:15",
							EndTime:      "12:15:22",
							Duration:     "2h 45m 7s",
							Severity:     SeverityCritical,
							Status:       IncidentActive,
							ResourceType: ResourceCPU,
						},
						{
							ID:           "CTRL-INC-004",
							Type:         "ContrResourceUsageInc",
							Description:  "Disk space utilization above threshold",
							StartTime:    "09/08/2025 18:20:00",
							EndTime:      "22:10:30",
							Duration:     "3h 50m 30s",
							Severity:     SeverityWarning,
							Status:       IncidentResolved,
							ResourceType: ResourceDisk,
						},
					},
				},
				LimitUsage: referenceLimitUsage(),
			},
		},
	}
}
