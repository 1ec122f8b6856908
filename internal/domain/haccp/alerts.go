package haccp

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Alert thresholds
const (
	DefaultAlertHours         = 24
	UnverifiedActionAge       = 72 * time.Hour
	RepeatedViolationWindow   = 12 * time.Hour
	RepeatedViolationMinCount = 3
)

// AlertKind classifies a critical alert
type AlertKind string

const (
	AlertRecentViolation    AlertKind = "recent_violation"
	AlertUnverifiedAction   AlertKind = "unverified_corrective_action"
	AlertRepeatedViolations AlertKind = "repeated_violations"
)

// Alert is one critical alert entry
type Alert struct {
	Kind       AlertKind
	CCPID      uuid.UUID
	LogID      *uuid.UUID
	Count      int
	OccurredAt time.Time
}

// BuildAlerts derives critical alerts. recent must hold the logs measured in the
// last max(hours, 12h); actions holds the corrective_action logs of any age.
func BuildAlerts(recent, actions []CCPLog, hours int, now time.Time) []Alert {
	if hours <= 0 {
		hours = DefaultAlertHours
	}
	since := now.Add(-time.Duration(hours) * time.Hour)
	repeatSince := now.Add(-RepeatedViolationWindow)
	staleBefore := now.Add(-UnverifiedActionAge)

	alerts := make([]Alert, 0)
	repeat := make(map[uuid.UUID]int)
	latest := make(map[uuid.UUID]time.Time)

	for i := range recent {
		log := &recent[i]
		violated := log.Status == LogStatusOutOfLimits || log.Status == LogStatusCorrectiveAction
		if log.Status == LogStatusOutOfLimits && !log.MeasuredAt.Before(since) {
			id := log.ID
			alerts = append(alerts, Alert{Kind: AlertRecentViolation, CCPID: log.CCPID, LogID: &id, Count: 1, OccurredAt: log.MeasuredAt})
		}
		if violated && !log.MeasuredAt.Before(repeatSince) {
			repeat[log.CCPID]++
			if log.MeasuredAt.After(latest[log.CCPID]) {
				latest[log.CCPID] = log.MeasuredAt
			}
		}
	}
	for i := range actions {
		log := &actions[i]
		if log.Status == LogStatusCorrectiveAction && !log.IsVerified() && log.MeasuredAt.Before(staleBefore) {
			id := log.ID
			alerts = append(alerts, Alert{Kind: AlertUnverifiedAction, CCPID: log.CCPID, LogID: &id, Count: 1, OccurredAt: log.MeasuredAt})
		}
	}
	for ccpID, count := range repeat {
		if count >= RepeatedViolationMinCount {
			alerts = append(alerts, Alert{Kind: AlertRepeatedViolations, CCPID: ccpID, Count: count, OccurredAt: latest[ccpID]})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].OccurredAt.After(alerts[j].OccurredAt)
	})
	return alerts
}
