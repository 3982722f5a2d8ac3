package classifier

import (
	"testing"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"github.com/stretchr/testify/assert"
)

func defaultClassifier() *Classifier {
	return New(10*time.Minute, 30*time.Minute, 60*time.Minute)
}

func TestClassifyNeverSeen(t *testing.T) {
	c := defaultClassifier()

	status, subStatus := c.Classify(nil, time.Now())

	assert.Equal(t, types.StatusDown, status)
	assert.Empty(t, subStatus)
}

func TestClassifyThresholds(t *testing.T) {
	c := defaultClassifier()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		age           time.Duration
		wantStatus    string
		wantSubStatus string
	}{
		{"just seen", 0, types.StatusLive, types.SubStatusActive},
		{"five minutes", 5 * time.Minute, types.StatusLive, types.SubStatusActive},
		{"exactly active threshold", 10 * time.Minute, types.StatusLive, types.SubStatusActive},
		{"fifteen minutes", 15 * time.Minute, types.StatusLive, types.SubStatusStandby},
		{"exactly live threshold", 30 * time.Minute, types.StatusLive, types.SubStatusStandby},
		{"just past live threshold", 30*time.Minute + time.Second, types.StatusWarning, ""},
		{"forty-five minutes", 45 * time.Minute, types.StatusWarning, ""},
		{"exactly warning threshold", 60 * time.Minute, types.StatusWarning, ""},
		{"just past warning threshold", 60*time.Minute + time.Second, types.StatusDown, ""},
		{"ninety minutes", 90 * time.Minute, types.StatusDown, ""},
		{"days of silence", 72 * time.Hour, types.StatusDown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.Add(-tt.age)
			status, subStatus := c.Classify(&last, now)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantSubStatus, subStatus)
		})
	}
}

func TestClassifyClockSkew(t *testing.T) {
	c := defaultClassifier()
	now := time.Now()
	future := now.Add(20 * time.Minute)

	status, subStatus := c.Classify(&future, now)

	assert.Equal(t, types.StatusLive, status)
	assert.Equal(t, types.SubStatusActive, subStatus)
}

func TestClassifyDeterministic(t *testing.T) {
	c := defaultClassifier()
	now := time.Now()
	last := now.Add(-42 * time.Minute)

	firstStatus, firstSub := c.Classify(&last, now)
	for i := 0; i < 100; i++ {
		status, subStatus := c.Classify(&last, now)
		assert.Equal(t, firstStatus, status)
		assert.Equal(t, firstSub, subStatus)
	}
}
