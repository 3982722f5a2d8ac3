package weather

import (
	"context"
	"math/rand"
	"time"

	"github.com/fleetwatch-dev/fleetwatch/internal/types"
	"go.uber.org/zap"
)

// Publisher is the push channel weather snapshots go out on.
type Publisher interface {
	PublishWeather(snapshots []types.WeatherSnapshot)
}

var conditions = []string{"clear", "cloudy", "rain", "heavy_rain", "fog", "snow"}

// Service pushes synthetic per-plaza environment snapshots on a slow cadence.
// The data is demo-grade; a real deployment would swap in a provider feed.
type Service struct {
	publisher Publisher
	logger    *zap.Logger
	plazas    []string
	interval  time.Duration
	rng       *rand.Rand

	cancel context.CancelFunc
	done   chan struct{}
}

func New(publisher Publisher, plazas []string, interval time.Duration, logger *zap.Logger) *Service {
	return &Service{
		publisher: publisher,
		logger:    logger,
		plazas:    plazas,
		interval:  interval,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Service) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.publish()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.publish()
			}
		}
	}()
}

func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Service) publish() {
	snapshots := s.Snapshots()
	s.publisher.PublishWeather(snapshots)
	s.logger.Debug("weather snapshots published", zap.Int("plazas", len(snapshots)))
}

// Snapshots generates one synthetic reading per plaza.
func (s *Service) Snapshots() []types.WeatherSnapshot {
	snapshots := make([]types.WeatherSnapshot, 0, len(s.plazas))

	for _, plaza := range s.plazas {
		condition := conditions[s.rng.Intn(len(conditions))]

		visibility := 10000
		switch condition {
		case "fog":
			visibility = 200 + s.rng.Intn(800)
		case "heavy_rain", "snow":
			visibility = 1000 + s.rng.Intn(4000)
		case "rain":
			visibility = 4000 + s.rng.Intn(6000)
		}

		snapshots = append(snapshots, types.WeatherSnapshot{
			Plaza:       plaza,
			Condition:   condition,
			TempCelsius: float64(s.rng.Intn(450))/10 - 10, // -10.0 .. 35.0
			WindKph:     float64(s.rng.Intn(800)) / 10,
			VisibilityM: visibility,
		})
	}

	return snapshots
}
