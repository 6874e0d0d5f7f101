package race

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/racetracks/internal/core/physics"
	"github.com/zeusync/racetracks/internal/core/track"
)

// Slot is a starting position on the grid.
type Slot struct {
	Position physics.Vec2
	Heading  float64 // radians
}

// Grid lines n cars up behind the track start, one every spacing units
// against the start heading. Without a track the cars queue along -X from
// the origin.
func Grid(tr *track.Track, spacing float64, n int) []Slot {
	var start physics.Vec2
	heading := 0.0
	if tr != nil {
		start = tr.Start
		heading = mgl64.DegToRad(tr.StartHeading)
	}
	back := physics.Polar(heading).Mul(-spacing)

	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = Slot{Position: start.Add(back.Mul(float64(i))), Heading: heading}
	}
	return slots
}
