package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-data/trackkit/geom"
	"github.com/meridian-data/trackkit/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

func frame(t *testing.T, tracker *Tracker, at time.Time, positions ...geom.Point2D) {
	t.Helper()
	obs := make([]Observation, len(positions))
	for i, p := range positions {
		obs[i] = Observation{Position: p, SensorID: "test-sensor"}
	}
	tracker.Update(obs, at)
}

func TestTrackerSpawnsTentativeTrack(t *testing.T) {
	tracker := New(DefaultConfig())
	now := time.Now()

	frame(t, tracker, now, geom.Point2D{X: 5, Y: 5})

	active := tracker.Active()
	require.Len(t, active, 1)
	assert.Equal(t, Tentative, active[0].State)
	assert.Equal(t, "test-sensor", active[0].SensorID)
	assert.NotEmpty(t, active[0].ID)
	assert.InDelta(t, 5.0, active[0].Position().X, 1e-9)
	assert.InDelta(t, 5.0, active[0].Position().Y, 1e-9)
}

func TestTrackerConfirmsAfterConsecutiveHits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HitsToConfirm = 3
	tracker := New(cfg)

	now := time.Now()
	for i := 0; i < 3; i++ {
		frame(t, tracker, now.Add(time.Duration(i)*100*time.Millisecond),
			geom.Point2D{X: 5 + 0.1*float64(i), Y: 5})
	}

	confirmed := tracker.Confirmed()
	require.Len(t, confirmed, 1)
	assert.GreaterOrEqual(t, confirmed[0].Hits, 3)
}

func TestTrackerDeletesAfterMisses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMisses = 2
	tracker := New(cfg)

	now := time.Now()
	frame(t, tracker, now, geom.Point2D{X: 5, Y: 5})

	// Two empty frames push the track over the miss limit.
	frame(t, tracker, now.Add(100*time.Millisecond))
	frame(t, tracker, now.Add(200*time.Millisecond))

	assert.Empty(t, tracker.Active())
	total, _, _, deleted := tracker.Counts()
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, deleted)
}

func TestTrackerCleanupAfterGracePeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMisses = 1
	cfg.DeletedGracePeriod = time.Second
	tracker := New(cfg)

	now := time.Now()
	frame(t, tracker, now, geom.Point2D{X: 5, Y: 5})
	frame(t, tracker, now.Add(100*time.Millisecond)) // miss → deleted

	total, _, _, _ := tracker.Counts()
	require.Equal(t, 1, total)

	// Past the grace period the deleted track is removed entirely.
	frame(t, tracker, now.Add(3*time.Second))
	total, _, _, _ = tracker.Counts()
	assert.Zero(t, total)
}

func TestTrackerAssociatesNearbyObservation(t *testing.T) {
	tracker := New(DefaultConfig())
	now := time.Now()

	frame(t, tracker, now, geom.Point2D{X: 5, Y: 5})
	id := tracker.Active()[0].ID

	frame(t, tracker, now.Add(100*time.Millisecond), geom.Point2D{X: 5.2, Y: 5.1})

	active := tracker.Active()
	require.Len(t, active, 1, "nearby observation must continue the track, not spawn a new one")
	assert.Equal(t, id, active[0].ID)
	assert.Equal(t, 2, active[0].ObservationCount)
}

func TestTrackerFarObservationSpawnsNewTrack(t *testing.T) {
	tracker := New(DefaultConfig())
	now := time.Now()

	frame(t, tracker, now, geom.Point2D{X: 5, Y: 5})
	frame(t, tracker, now.Add(100*time.Millisecond),
		geom.Point2D{X: 5.1, Y: 5}, geom.Point2D{X: 500, Y: 500})

	assert.Len(t, tracker.Active(), 2)
}

func TestTrackerEstimatesVelocity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MeasurementNoise = 0.01
	tracker := New(cfg)

	// Target moving at 2 m/s along +x, observed every 100 ms.
	now := time.Now()
	for i := 0; i < 20; i++ {
		frame(t, tracker, now.Add(time.Duration(i)*100*time.Millisecond),
			geom.Point2D{X: 0.2 * float64(i), Y: 0})
	}

	active := tracker.Active()
	require.Len(t, active, 1)
	track := active[0]

	v := track.Velocity()
	assert.InDelta(t, 2.0, v.X, 0.3, "vx should approach 2 m/s")
	assert.InDelta(t, 0.0, v.Y, 0.2)
	assert.InDelta(t, 2.0, track.Speed(), 0.35)
	assert.InDelta(t, 0.0, track.Heading(), 0.15)
	assert.Positive(t, track.PeakSpeed)
}

func TestTrackerHistoryBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxHistoryLength = 5
	tracker := New(cfg)

	now := time.Now()
	for i := 0; i < 20; i++ {
		frame(t, tracker, now.Add(time.Duration(i)*100*time.Millisecond),
			geom.Point2D{X: 0.1 * float64(i), Y: 0})
	}

	active := tracker.Active()
	require.Len(t, active, 1)
	assert.LessOrEqual(t, len(active[0].History), 5)
}

func TestTrackerMaxTracks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTracks = 2
	tracker := New(cfg)

	frame(t, tracker, time.Now(),
		geom.Point2D{X: 0, Y: 0},
		geom.Point2D{X: 100, Y: 100},
		geom.Point2D{X: 200, Y: 200},
	)

	assert.Len(t, tracker.Active(), 2)
}

func TestTrackerGet(t *testing.T) {
	tracker := New(DefaultConfig())
	frame(t, tracker, time.Now(), geom.Point2D{X: 1, Y: 2})

	id := tracker.Active()[0].ID
	assert.NotNil(t, tracker.Get(id))
	assert.Nil(t, tracker.Get("no-such-track"))
}

func TestTrackerAllIncludesDeleted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMisses = 1
	cfg.DeletedGracePeriod = time.Hour
	tracker := New(cfg)

	now := time.Now()
	frame(t, tracker, now, geom.Point2D{X: 5, Y: 5})
	frame(t, tracker, now.Add(100*time.Millisecond)) // miss → deleted

	assert.Empty(t, tracker.Active())
	assert.Len(t, tracker.All(), 1)
}
