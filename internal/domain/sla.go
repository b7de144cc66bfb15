package domain

import (
	"fmt"
	"time"
)

// SLATier buckets ticket age into escalating severity levels.
type SLATier string

const (
	SLATierDone     SLATier = "done"
	SLATierOnTrack  SLATier = "on_track"
	SLATierWarning  SLATier = "warning"
	SLATierCritical SLATier = "critical"
)

// SLA aging thresholds.
const (
	slaWarningAfter  = 24 * time.Hour
	slaCriticalAfter = 48 * time.Hour
)

// SLAStatus is the advisory, display-only aging indicator for a ticket.
type SLAStatus struct {
	Tier  SLATier
	Label string
}

// ComputeSLA derives the SLA indicator from status and elapsed time. It is a
// pure function and is recomputed on every read, never stored. Resolved
// tickets report the terminal tier regardless of age; otherwise the label
// counts hours below the first threshold and whole days above it.
func ComputeSLA(status TicketStatus, createdAt, now time.Time) SLAStatus {
	if status == TicketStatusResolved {
		return SLAStatus{Tier: SLATierDone, Label: "Done"}
	}

	elapsed := now.Sub(createdAt)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < slaWarningAfter:
		return SLAStatus{Tier: SLATierOnTrack, Label: fmt.Sprintf("%dh", int(elapsed.Hours()))}
	case elapsed < slaCriticalAfter:
		return SLAStatus{Tier: SLATierWarning, Label: fmt.Sprintf("%dd", int(elapsed.Hours()/24))}
	default:
		return SLAStatus{Tier: SLATierCritical, Label: fmt.Sprintf("%dd", int(elapsed.Hours()/24))}
	}
}
