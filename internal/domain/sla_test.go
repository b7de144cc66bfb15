package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeSLA(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    TicketStatus
		age       time.Duration
		wantTier  SLATier
		wantLabel string
	}{
		{"fresh ticket counts hours", TicketStatusOpen, 3 * time.Hour, SLATierOnTrack, "3h"},
		{"just under first threshold", TicketStatusOpen, 24*time.Hour - time.Minute, SLATierOnTrack, "23h"},
		{"at first threshold switches to days", TicketStatusInProgress, 24 * time.Hour, SLATierWarning, "1d"},
		{"just under second threshold", TicketStatusOpen, 48*time.Hour - time.Minute, SLATierWarning, "1d"},
		{"at second threshold escalates", TicketStatusOpen, 48 * time.Hour, SLATierCritical, "2d"},
		{"very old ticket", TicketStatusInProgress, 10 * 24 * time.Hour, SLATierCritical, "10d"},
		{"resolved is terminal regardless of age", TicketStatusResolved, 30 * 24 * time.Hour, SLATierDone, "Done"},
		{"resolved fresh ticket", TicketStatusResolved, time.Hour, SLATierDone, "Done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSLA(tt.status, now.Add(-tt.age), now)
			assert.Equal(t, tt.wantTier, got.Tier)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestComputeSLAClockSkew(t *testing.T) {
	now := time.Now()
	got := ComputeSLA(TicketStatusOpen, now.Add(time.Hour), now)
	assert.Equal(t, SLATierOnTrack, got.Tier)
	assert.Equal(t, "0h", got.Label)
}

func TestTicketStatusIsValid(t *testing.T) {
	assert.True(t, TicketStatusOpen.IsValid())
	assert.True(t, TicketStatusInProgress.IsValid())
	assert.True(t, TicketStatusResolved.IsValid())
	assert.False(t, TicketStatus("Closed").IsValid())
}

func TestTicketPriorityIsUrgent(t *testing.T) {
	assert.True(t, TicketPriorityCritical.IsUrgent())
	assert.True(t, TicketPriorityHigh.IsUrgent())
	assert.False(t, TicketPriorityMedium.IsUrgent())
	assert.False(t, TicketPriorityLow.IsUrgent())
}

func TestAssetDisplayLabel(t *testing.T) {
	asset := Asset{Name: "Laptop Dell Latitude", SerialNumber: "SN-4411"}
	assert.Equal(t, "Laptop Dell Latitude (SN-4411)", asset.DisplayLabel())
}
