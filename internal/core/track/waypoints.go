package track

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/racetracks/internal/core/physics"
)

// WaypointSource supplies the point a car should steer towards from pos.
type WaypointSource interface {
	GetTarget(pos physics.Vec2) physics.Vec2
}

// LapCounter is implemented by sources that count completed laps.
type LapCounter interface {
	Laps() int
}

// Track is an ordered closed loop of waypoints shared by every car on it.
type Track struct {
	Name         string
	Points       []physics.Vec2
	ReachRadius  float64
	Start        physics.Vec2
	StartHeading float64 // degrees
}

// Fingerprint hashes the waypoint layout, ignoring the name.
func (t *Track) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte
	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}
	write(t.ReachRadius)
	for _, p := range t.Points {
		write(p[0])
		write(p[1])
	}
	return h.Sum64()
}

// Follow returns an independent cursor over the track, starting at the first
// waypoint.
func (t *Track) Follow() *Waypoints {
	return &Waypoints{track: t}
}

// Oval builds an elliptic loop of n waypoints around centre.
func Oval(name string, centre physics.Vec2, rx, ry float64, n int, reach float64) *Track {
	pts := make([]physics.Vec2, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = physics.V(centre[0]+rx*math.Cos(a), centre[1]+ry*math.Sin(a))
	}
	return &Track{
		Name:         name,
		Points:       pts,
		ReachRadius:  reach,
		Start:        physics.V(centre[0]+rx, centre[1]-ry/4),
		StartHeading: 90,
	}
}

// Waypoints walks a Track. The current waypoint advances, wrapping around,
// while the queried position lies within the reach radius of it.
type Waypoints struct {
	mu    sync.Mutex
	track *Track
	next  int
	laps  int
}

var (
	_ WaypointSource = (*Waypoints)(nil)
	_ LapCounter     = (*Waypoints)(nil)
)

// GetTarget returns the current waypoint for pos. On an empty track pos
// itself is returned.
func (w *Waypoints) GetTarget(pos physics.Vec2) physics.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()

	pts := w.track.Points
	if len(pts) == 0 {
		return pos
	}
	reachSq := w.track.ReachRadius * w.track.ReachRadius
	// at most one full loop per query
	for range pts {
		if physics.DistanceSq(pos, pts[w.next]) > reachSq {
			break
		}
		w.next++
		if w.next == len(pts) {
			w.next = 0
			w.laps++
		}
	}
	return pts[w.next]
}

// Index is the position of the current waypoint in the loop.
func (w *Waypoints) Index() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.next
}

func (w *Waypoints) Laps() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.laps
}
