// Package lighting provides the point and directional lights that cast shadow volumes.
package lighting

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"

	"github.com/Faultbox/stencil-shadows/pkg/math"
)

// MaxLights is the number of lights a frame can shadow.
const MaxLights = 5

// DefaultRadius is the light falloff radius used by the demo patterns.
const DefaultRadius = 20.0

// ErrUnknownPattern is returned when a pattern name cannot be parsed.
var ErrUnknownPattern = errors.New("unknown light pattern")

// Palette holds the light colors, assigned round-robin by index.
var Palette = [MaxLights][3]float32{
	{1.0, 0.7, 0.2}, // yellow
	{0.7, 0.2, 1.0}, // purple
	{0.2, 1.0, 0.7}, // cyan
	{1.0, 0.4, 0.2}, // orange
	{0.7, 0.7, 0.7}, // white
}

// Light is a shadow-casting light source.
type Light struct {
	Position    math.Vec3 // World position, or the direction towards the light when Directional
	Directional bool
	Color       [3]float32
	Radius      float32
}

// NewPointLight creates a point light at pos.
func NewPointLight(pos math.Vec3) Light {
	return Light{Position: pos, Color: Palette[0], Radius: DefaultRadius}
}

// NewDirectionalLight creates a light infinitely far away along dir.
func NewDirectionalLight(dir math.Vec3) Light {
	return Light{Position: dir.Normalize(), Directional: true, Color: Palette[0]}
}

// Vec4 returns the homogeneous light position: w=1 for point lights, w=0 for directional ones.
func (l Light) Vec4() math.Vec4 {
	if l.Directional {
		return l.Position.Direction()
	}
	return l.Position.Point()
}

// SunLight converts longitude/latitude angles in degrees to a directional light.
// Longitude is rotation around the Y axis, latitude is elevation from the horizon.
func SunLight(longitude, latitude float32) Light {
	lonRad := float64(longitude) * gomath.Pi / 180.0
	latRad := float64(latitude) * gomath.Pi / 180.0

	dir := math.Vec3{
		X: float32(gomath.Cos(latRad) * gomath.Sin(lonRad)),
		Y: float32(gomath.Sin(latRad)),
		Z: float32(gomath.Cos(latRad) * gomath.Cos(lonRad)),
	}
	return NewDirectionalLight(dir)
}

// Pattern selects an animated light layout.
type Pattern int

const (
	// PatternRing spreads lights evenly on a radius 20 ring.
	PatternRing Pattern = iota
	// PatternArc bunches lights on a radius 40 arc.
	PatternArc
)

func (p Pattern) String() string {
	switch p {
	case PatternRing:
		return "ring"
	case PatternArc:
		return "arc"
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// ParsePattern accepts "ring"/"arc" or the numeric forms "0"/"1".
func ParsePattern(s string) (Pattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ring", "0":
		return PatternRing, nil
	case "arc", "1":
		return PatternArc, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPattern, s)
}

// Lights places n point lights (clamped to MaxLights) for pattern p at time t seconds.
// All lights hang at height 20.
func (p Pattern) Lights(n int, t float32) []Light {
	if n > MaxLights {
		n = MaxLights
	}
	if n <= 0 {
		return nil
	}

	lights := make([]Light, n)
	for i := range lights {
		var angle, radius float64
		switch p {
		case PatternArc:
			angle = float64(i)*2/float64(n) + float64(t)*1.3 + gomath.Pi
			radius = 40
		default:
			angle = 2*gomath.Pi/float64(n)*float64(i) + float64(t)*1.1 + 3
			radius = 20
		}
		lights[i] = Light{
			Position: math.Vec3{
				X: float32(gomath.Cos(angle) * radius),
				Y: 20,
				Z: float32(gomath.Sin(angle) * radius),
			},
			Color:  Palette[i%MaxLights],
			Radius: DefaultRadius,
		}
	}
	return lights
}
