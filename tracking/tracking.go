package tracking

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/meridian-data/trackkit/geom"
	"github.com/meridian-data/trackkit/internal/monitoring"
	"github.com/meridian-data/trackkit/kalman"
)

// State represents the lifecycle state of a track.
type State string

const (
	Tentative State = "tentative" // New track, needs confirmation
	Confirmed State = "confirmed" // Stable track with sufficient history
	Deleted   State = "deleted"   // Track marked for removal
)

// Internal numerical stability constants — not user-tunable.
const (
	// minDeterminant is the minimum determinant for innovation
	// covariance inversion during gating.
	minDeterminant = 1e-6
	// singularDistanceRejection is the gating distance returned when
	// the innovation covariance is singular.
	singularDistanceRejection = 1e9
	// defaultFirstFrameDt is assumed when no previous update exists.
	defaultFirstFrameDt = 0.1
)

// Config holds configuration parameters for the tracker.
type Config struct {
	MaxTracks          int           // Maximum number of concurrent tracks
	MaxMisses          int           // Consecutive misses before deletion
	HitsToConfirm      int           // Consecutive hits needed for confirmation
	GatingDistance     float64       // Squared Mahalanobis gating distance
	ProcessNoisePos    float64       // Process noise for position (σ²)
	ProcessNoiseVel    float64       // Process noise for velocity (σ²)
	MeasurementNoise   float64       // Measurement noise (σ²)
	InitialPosVariance float64       // Initial position uncertainty (σ²)
	InitialVelVariance float64       // Initial velocity uncertainty (σ²)
	MaxHistoryLength   int           // Maximum position trail length
	DeletedGracePeriod time.Duration // How long deleted tracks are kept before cleanup
}

// DefaultConfig returns the default tracker configuration.
func DefaultConfig() Config {
	return Config{
		MaxTracks:          100,
		MaxMisses:          3,
		HitsToConfirm:      3,
		GatingDistance:     25.0,
		ProcessNoisePos:    0.1,
		ProcessNoiseVel:    0.5,
		MeasurementNoise:   0.2,
		InitialPosVariance: 10.0,
		InitialVelVariance: 1.0,
		MaxHistoryLength:   100,
		DeletedGracePeriod: 5 * time.Second,
	}
}

// Observation is a single position measurement of some object.
type Observation struct {
	Position geom.Point2D
	SensorID string
}

// TrackPoint is one entry in a track's position history.
type TrackPoint struct {
	Position  geom.Point2D
	UnixNanos int64
}

// Track is a single tracked object. Its kinematic state lives in a
// per-track Kalman filter with a constant-velocity process model.
type Track struct {
	ID       string
	SensorID string
	State    State

	Hits   int // Consecutive successful associations
	Misses int // Consecutive missed associations

	FirstUnixNanos int64
	LastUnixNanos  int64

	model  *constantVelocityModel
	filter *kalman.Filter

	History []TrackPoint

	ObservationCount int
	AvgSpeed         float64
	PeakSpeed        float64
}

// Position returns the current position estimate.
func (tr *Track) Position() geom.Point2D {
	x := tr.filter.State()
	return geom.Point2D{X: x.AtVec(0), Y: x.AtVec(1)}
}

// Velocity returns the current velocity estimate.
func (tr *Track) Velocity() geom.Point2D {
	x := tr.filter.State()
	return geom.Point2D{X: x.AtVec(2), Y: x.AtVec(3)}
}

// Speed returns the current speed magnitude.
func (tr *Track) Speed() float64 {
	return tr.Velocity().Norm()
}

// Heading returns the current heading in radians.
func (tr *Track) Heading() float64 {
	v := tr.Velocity()
	return math.Atan2(v.Y, v.X)
}

// Covariance returns a copy of the track's 4x4 state covariance.
func (tr *Track) Covariance() *mat.Dense {
	return tr.filter.Covariance()
}

// Tracker manages multi-object tracking with explicit lifecycle states.
type Tracker struct {
	mu sync.RWMutex

	tracks map[string]*Track
	config Config

	lastUpdateNanos int64
}

// New creates a tracker with the given configuration.
func New(config Config) *Tracker {
	return &Tracker{
		tracks: make(map[string]*Track),
		config: config,
	}
}

// Update processes one frame of observations: predicts all live tracks
// to the frame time, associates observations under gating, corrects
// matched tracks, ages unmatched ones and spawns tentative tracks for
// leftover observations.
func (t *Tracker) Update(observations []Observation, timestamp time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	nowNanos := timestamp.UnixNano()

	dt := defaultFirstFrameDt
	if t.lastUpdateNanos > 0 {
		dt = float64(nowNanos-t.lastUpdateNanos) / 1e9
	}
	t.lastUpdateNanos = nowNanos

	// Step 1: predict all live tracks to the frame time. The model's
	// dt feeds the next StateTransition fetch inside Predict.
	for id, track := range t.tracks {
		if track.State == Deleted {
			continue
		}
		track.model.dt = dt
		if err := track.filter.Predict(nil); err != nil {
			monitoring.Logf("tracking: predict failed for track %s: %v", id, err)
		}
	}

	// Step 2: associate observations to tracks using gating.
	associations := t.associate(observations)

	// Step 3: correct matched tracks.
	matched := make(map[string]bool)
	for obsIdx, trackID := range associations {
		if trackID == "" {
			continue
		}
		track := t.tracks[trackID]
		t.correct(track, observations[obsIdx], nowNanos)
		track.Hits++
		track.Misses = 0
		matched[trackID] = true

		if track.State == Tentative && track.Hits >= t.config.HitsToConfirm {
			track.State = Confirmed
		}
	}

	// Step 4: age unmatched tracks.
	for id, track := range t.tracks {
		if matched[id] || track.State == Deleted {
			continue
		}
		track.Misses++
		track.Hits = 0
		if track.Misses >= t.config.MaxMisses {
			track.State = Deleted
			track.LastUnixNanos = nowNanos
		}
	}

	// Step 5: spawn tentative tracks from unassociated observations.
	for obsIdx, trackID := range associations {
		if trackID == "" && len(t.tracks) < t.config.MaxTracks {
			t.spawn(observations[obsIdx], nowNanos)
		}
	}

	// Step 6: drop deleted tracks after the grace period.
	t.cleanup(nowNanos)
}

// associate performs greedy nearest-neighbour association under the
// squared-Mahalanobis gate. Returns, per observation, the matched track
// ID or the empty string.
func (t *Tracker) associate(observations []Observation) []string {
	associations := make([]string, len(observations))

	liveIDs := make([]string, 0, len(t.tracks))
	for id, track := range t.tracks {
		if track.State != Deleted {
			liveIDs = append(liveIDs, id)
		}
	}

	used := make(map[string]bool)
	for oi, obs := range observations {
		bestID := ""
		bestDist := t.config.GatingDistance

		for _, id := range liveIDs {
			if used[id] {
				continue
			}
			if d := t.gatingDistance(t.tracks[id], obs); d < bestDist {
				bestDist = d
				bestID = id
			}
		}

		if bestID != "" {
			associations[oi] = bestID
			used[bestID] = true
		}
	}
	return associations
}

// gatingDistance computes the squared Mahalanobis distance between an
// observation and a track's predicted position, using the position
// block of the innovation covariance S = H·P·Hᵀ + R.
func (t *Tracker) gatingDistance(track *Track, obs Observation) float64 {
	pos := track.Position()
	dx := obs.Position.X - pos.X
	dy := obs.Position.Y - pos.Y

	p := track.filter.Covariance()
	s00 := p.At(0, 0) + t.config.MeasurementNoise
	s01 := p.At(0, 1)
	s10 := p.At(1, 0)
	s11 := p.At(1, 1) + t.config.MeasurementNoise

	det := s00*s11 - s01*s10
	if det < minDeterminant {
		return singularDistanceRejection
	}

	return (dx*dx*s11 - dx*dy*(s01+s10) + dy*dy*s00) / det
}

// correct folds an observation into the track's filter and updates the
// aggregated statistics.
func (t *Tracker) correct(track *Track, obs Observation, nowNanos int64) {
	z := mat.NewVecDense(2, []float64{obs.Position.X, obs.Position.Y})
	if err := track.filter.Correct(z); err != nil {
		// A singular innovation covariance abandons this correction;
		// the association itself still counts as a hit.
		monitoring.Logf("tracking: correct failed for track %s: %v", track.ID, err)
		return
	}

	track.LastUnixNanos = nowNanos
	track.ObservationCount++

	speed := track.Speed()
	n := float64(track.ObservationCount)
	track.AvgSpeed = ((n-1)*track.AvgSpeed + speed) / n
	if speed > track.PeakSpeed {
		track.PeakSpeed = speed
	}

	track.History = append(track.History, TrackPoint{
		Position:  track.Position(),
		UnixNanos: nowNanos,
	})
	if len(track.History) > t.config.MaxHistoryLength {
		track.History = track.History[1:]
	}
}

// spawn creates a tentative track from an unassociated observation.
func (t *Tracker) spawn(obs Observation, nowNanos int64) *Track {
	model := &constantVelocityModel{
		dt:              defaultFirstFrameDt,
		processNoisePos: t.config.ProcessNoisePos,
		processNoiseVel: t.config.ProcessNoiseVel,
		x0:              mat.NewVecDense(4, []float64{obs.Position.X, obs.Position.Y, 0, 0}),
		p0: mat.NewDiagDense(4, []float64{
			t.config.InitialPosVariance,
			t.config.InitialPosVariance,
			t.config.InitialVelVariance,
			t.config.InitialVelVariance,
		}),
	}

	filter, err := kalman.New(model, &positionModel{measurementNoise: t.config.MeasurementNoise})
	if err != nil {
		// Model dimensions are fixed at compile time; this cannot
		// happen with a well-formed config.
		monitoring.Logf("tracking: filter construction failed: %v", err)
		return nil
	}

	track := &Track{
		ID:       uuid.NewString(),
		SensorID: obs.SensorID,
		State:    Tentative,
		Hits:     1,

		FirstUnixNanos: nowNanos,
		LastUnixNanos:  nowNanos,

		model:  model,
		filter: filter,

		ObservationCount: 1,
		History: []TrackPoint{{
			Position:  obs.Position,
			UnixNanos: nowNanos,
		}},
	}

	t.tracks[track.ID] = track
	return track
}

// cleanup removes tracks that have been deleted for the grace period.
func (t *Tracker) cleanup(nowNanos int64) {
	grace := t.config.DeletedGracePeriod
	if grace == 0 {
		grace = DefaultConfig().DeletedGracePeriod
	}

	for id, track := range t.tracks {
		if track.State == Deleted && nowNanos-track.LastUnixNanos > int64(grace) {
			delete(t.tracks, id)
		}
	}
}

// Active returns all non-deleted tracks.
func (t *Tracker) Active() []*Track {
	t.mu.RLock()
	defer t.mu.RUnlock()

	active := make([]*Track, 0, len(t.tracks))
	for _, track := range t.tracks {
		if track.State != Deleted {
			active = append(active, track)
		}
	}
	return active
}

// Confirmed returns only confirmed tracks.
func (t *Tracker) Confirmed() []*Track {
	t.mu.RLock()
	defer t.mu.RUnlock()

	confirmed := make([]*Track, 0)
	for _, track := range t.tracks {
		if track.State == Confirmed {
			confirmed = append(confirmed, track)
		}
	}
	return confirmed
}

// Get returns a track by ID, or nil if not found.
func (t *Tracker) Get(id string) *Track {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tracks[id]
}

// Counts returns track counts by lifecycle state.
func (t *Tracker) Counts() (total, tentative, confirmed, deleted int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, track := range t.tracks {
		total++
		switch track.State {
		case Tentative:
			tentative++
		case Confirmed:
			confirmed++
		case Deleted:
			deleted++
		}
	}
	return
}

// All returns every track including deleted ones, for post-run
// analysis and reporting.
func (t *Tracker) All() []*Track {
	t.mu.RLock()
	defer t.mu.RUnlock()

	all := make([]*Track, 0, len(t.tracks))
	for _, track := range t.tracks {
		all = append(all, track)
	}
	return all
}
