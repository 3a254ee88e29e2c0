package scene

import (
	"errors"
	"fmt"
	"strings"
)

// Spiral instance counts.
const (
	DefaultSpiralInstances = 9
	MaxSpiralInstances     = 49
)

// ErrUnknownLayout is returned by ParseLayout.
var ErrUnknownLayout = errors.New("unknown scene layout")

// Layout selects how casters are placed.
type Layout int

const (
	// LayoutDemo is the animated figure, cubes, columns and platforms.
	LayoutDemo Layout = iota
	// LayoutSpiral repeats the figure on a square spiral.
	LayoutSpiral
)

func (l Layout) String() string {
	switch l {
	case LayoutDemo:
		return "demo"
	case LayoutSpiral:
		return "spiral"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout accepts "demo"/"spiral" or the numeric forms "0"/"1".
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "demo", "0":
		return LayoutDemo, nil
	case "spiral", "1":
		return LayoutSpiral, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, s)
}

// Casters places the models for layout l at time t seconds. instances is the
// spiral length, clamped to [1, MaxSpiralInstances]; the demo ignores it.
func (l Layout) Casters(m DemoModels, instances int, t float32) []*Instance {
	if l == LayoutSpiral {
		return Spiral(m.Figure, min(max(instances, 1), MaxSpiralInstances))
	}
	return Demo(m, t)
}
