package classifier

import (
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/types"
)

// Classifier maps the age of a device's last observed transaction to a
// status/sub-status pair. It is pure: no clock access, no side effects.
type Classifier struct {
	activeThreshold  time.Duration // LIVE/active within this
	liveThreshold    time.Duration // LIVE/standby up to this
	warningThreshold time.Duration // WARNING up to this, DOWN beyond
}

func New(active, live, warning time.Duration) *Classifier {
	return &Classifier{
		activeThreshold:  active,
		liveThreshold:    live,
		warningThreshold: warning,
	}
}

// Classify returns the status a device should hold at `now` given its last
// transaction. A nil last transaction means the device has never been seen.
// Clock skew producing a future timestamp is treated as zero age.
func (c *Classifier) Classify(lastTransaction *time.Time, now time.Time) (string, string) {
	if lastTransaction == nil {
		return types.StatusDown, ""
	}

	age := now.Sub(*lastTransaction)
	if age < 0 {
		age = 0
	}

	switch {
	case age <= c.activeThreshold:
		return types.StatusLive, types.SubStatusActive
	case age <= c.liveThreshold:
		return types.StatusLive, types.SubStatusStandby
	case age <= c.warningThreshold:
		return types.StatusWarning, ""
	default:
		return types.StatusDown, ""
	}
}
