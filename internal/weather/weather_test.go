package weather

import (
	"testing"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingPublisher struct {
	snapshots [][]types.WeatherSnapshot
}

func (p *capturingPublisher) PublishWeather(snapshots []types.WeatherSnapshot) {
	p.snapshots = append(p.snapshots, snapshots)
}

func TestSnapshotsCoverEveryPlaza(t *testing.T) {
	plazas := []string{"Plaza North", "Plaza South", "Plaza East"}
	svc := New(&capturingPublisher{}, plazas, time.Hour, zap.NewNop())

	snapshots := svc.Snapshots()
	require.Len(t, snapshots, len(plazas))

	for i, snapshot := range snapshots {
		assert.Equal(t, plazas[i], snapshot.Plaza)
		assert.Contains(t, conditions, snapshot.Condition)
		assert.GreaterOrEqual(t, snapshot.TempCelsius, -10.0)
		assert.LessOrEqual(t, snapshot.TempCelsius, 35.0)
		assert.GreaterOrEqual(t, snapshot.VisibilityM, 200)
		assert.LessOrEqual(t, snapshot.VisibilityM, 10000)
	}
}

func TestStartPublishesImmediately(t *testing.T) {
	publisher := &capturingPublisher{}
	svc := New(publisher, []string{"Plaza North"}, time.Hour, zap.NewNop())

	svc.Start()
	svc.Stop()

	require.NotEmpty(t, publisher.snapshots)
	assert.Len(t, publisher.snapshots[0], 1)
}
