// Package tui draws a race onto a terminal screen.
package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/racetracks/internal/core/physics"
	"github.com/zeusync/racetracks/internal/core/race"
	"github.com/zeusync/racetracks/internal/core/track"
	"github.com/zeusync/racetracks/internal/core/vehicle"
)

const (
	waypointGlyph = '·'
	hudRows       = 1
	// trackMargin pads the track bounds so cars on the outer line stay visible.
	trackMargin = 0.1
)

// headingGlyphs are ordered by increasing angle from +X in 45° steps. World Y
// points down the screen, so increasing angle turns clockwise.
var headingGlyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

var (
	styleTrack  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	npcColors   = []tcell.Color{tcell.ColorRed, tcell.ColorBlue, tcell.ColorGreen, tcell.ColorPurple, tcell.ColorTeal}
)

// Bounds is the world rectangle mapped onto the screen.
type Bounds struct {
	Min, Max physics.Vec2
}

// DefaultBounds is used when there is no track to measure.
var DefaultBounds = Bounds{Min: physics.V(0, 0), Max: physics.V(800, 600)}

// BoundsOf returns the waypoint bounding box grown by a margin on every side.
func BoundsOf(tr *track.Track) Bounds {
	if tr == nil || len(tr.Points) == 0 {
		return DefaultBounds
	}
	b := Bounds{Min: tr.Points[0], Max: tr.Points[0]}
	for _, p := range tr.Points[1:] {
		b.Min = physics.V(math.Min(b.Min[0], p[0]), math.Min(b.Min[1], p[1]))
		b.Max = physics.V(math.Max(b.Max[0], p[0]), math.Max(b.Max[1], p[1]))
	}
	pad := b.Max.Sub(b.Min).Mul(trackMargin)
	pad = physics.V(math.Max(pad[0], tr.ReachRadius), math.Max(pad[1], tr.ReachRadius))
	b.Min = b.Min.Sub(pad)
	b.Max = b.Max.Add(pad)
	return b
}

// View renders snapshots of one race. Draw matches race.FrameFunc.
type View struct {
	screen tcell.Screen
	track  *track.Track
	bounds Bounds
	help   string
}

func NewView(screen tcell.Screen, tr *track.Track) *View {
	return &View{
		screen: screen,
		track:  tr,
		bounds: BoundsOf(tr),
		help:   "WASD/arrows drive  q quits",
	}
}

// Project maps a world position to a cell. ok is false outside the play area.
func (v *View) Project(p physics.Vec2) (x, y int, ok bool) {
	w, h := v.screen.Size()
	h -= hudRows
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	size := v.bounds.Max.Sub(v.bounds.Min)
	if size[0] <= 0 || size[1] <= 0 {
		return 0, 0, false
	}
	fx := (p[0] - v.bounds.Min[0]) / size[0]
	fy := (p[1] - v.bounds.Min[1]) / size[1]
	x = int(math.Round(fx * float64(w-1)))
	y = int(math.Round(fy * float64(h-1)))
	return x, y, x >= 0 && x < w && y >= 0 && y < h
}

// HeadingGlyph picks the arrow closest to angle (radians).
func HeadingGlyph(angle float64) rune {
	octant := int(math.Round(angle / (math.Pi / 4)))
	return headingGlyphs[((octant%8)+8)%8]
}

func (v *View) Draw(s race.Snapshot) error {
	v.screen.Clear()

	if v.track != nil {
		for _, p := range v.track.Points {
			if x, y, ok := v.Project(p); ok {
				v.screen.SetContent(x, y, waypointGlyph, nil, styleTrack)
			}
		}
	}

	npc := 0
	for _, car := range s.Vehicles {
		style := stylePlayer
		if car.Kind != vehicle.KindPlayer {
			style = tcell.StyleDefault.Foreground(npcColors[npc%len(npcColors)])
			npc++
		}
		if x, y, ok := v.Project(car.Position); ok {
			v.screen.SetContent(x, y, HeadingGlyph(car.Angle), nil, style)
		}
	}

	v.drawHUD(s)
	v.screen.Show()
	return nil
}

func (v *View) drawHUD(s race.Snapshot) {
	w, h := v.screen.Size()
	if h <= 0 {
		return
	}
	row := h - 1
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, row, ' ', nil, styleHUD)
	}
	line := HUDLine(s) + "  " + v.help
	col := 0
	for _, r := range line {
		if col >= w {
			break
		}
		v.screen.SetContent(col, row, r, nil, styleHUD)
		col++
	}
}

// HUDLine summarises the race: tick, player speed, then laps by car name.
func HUDLine(s race.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tick %d", s.Tick)

	cars := append([]race.VehicleState(nil), s.Vehicles...)
	sort.SliceStable(cars, func(i, j int) bool { return cars[i].Laps > cars[j].Laps })
	for _, c := range cars {
		if c.Kind == vehicle.KindPlayer {
			fmt.Fprintf(&sb, "  speed %.1f", c.Speed())
			break
		}
	}
	for _, c := range cars {
		if c.Kind == vehicle.KindPlayer {
			continue
		}
		fmt.Fprintf(&sb, "  %s:%d", c.Name, c.Laps)
	}
	return sb.String()
}
