package constellation

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with components in [0, 1]. It encodes as a
// "#rrggbb" string.
type Color struct {
	R, G, B float64
}

// Hex ...
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// Blend linearly interpolates from c towards o in RGB space.
func (c Color) Blend(o Color, t float64) Color {
	b := colorful.Color{R: c.R, G: c.G, B: c.B}.BlendRgb(colorful.Color{R: o.R, G: o.G, B: o.B}, t)
	return Color{R: b.R, G: b.G, B: b.B}
}

// Scale multiplies every component by s.
func (c Color) Scale(s float64) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s}
}

// MarshalText ...
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText ...
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses a "#rrggbb" or "#rgb" string.
func ParseColor(s string) (Color, error) {
	cc, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	return Color{R: cc.R, G: cc.G, B: cc.B}, nil
}

func mustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Ramp endpoints and band boundaries.
var (
	Red         = mustParseColor("#ff0033")
	Orange      = mustParseColor("#ff6600")
	Yellow      = mustParseColor("#ffdd00")
	YellowGreen = mustParseColor("#88ff44")
	Green       = mustParseColor("#00ff88")
)

type colorStop struct {
	at    float64
	color Color
}

// rampStops must be sorted by at and span [MinValue, MaxValue].
var rampStops = []colorStop{
	{0, Red},
	{25, Orange},
	{50, Yellow},
	{75, YellowGreen},
	{100, Green},
}

// ColorOf maps a sanity value to its color: red at 0 through orange,
// yellow and yellow-green to green at 100, interpolated linearly within
// each quartile band. Values outside [0, 100] are clamped.
func ColorOf(v float64) Color {
	if !(v > MinValue) {
		return rampStops[0].color
	}
	if v >= MaxValue {
		return rampStops[len(rampStops)-1].color
	}
	for i := 1; i < len(rampStops); i++ {
		lo, hi := rampStops[i-1], rampStops[i]
		if v <= hi.at {
			t := (v - lo.at) / (hi.at - lo.at)
			return lo.color.Blend(hi.color, t)
		}
	}
	return rampStops[len(rampStops)-1].color
}

// Mood is the qualitative reading of a sanity value.
type Mood struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

var (
	moodCoherent  = Mood{"Coherent", "All systems harmonized · Neural pathways aligned"}
	moodStable    = Mood{"Stable", "Minor fluctuations detected · Maintaining stability"}
	moodFractured = Mood{"Fractured", "Significant instability present · Pattern degradation"}
	moodChaotic   = Mood{"Chaotic", "Critical coherence failure · Reality breakdown imminent"}
)

// MoodOf ...
func MoodOf(v float64) Mood {
	switch {
	case v >= 75:
		return moodCoherent
	case v >= 50:
		return moodStable
	case v >= 25:
		return moodFractured
	default:
		return moodChaotic
	}
}

// LabelOf ...
func LabelOf(v float64) string {
	return MoodOf(v).Label
}

// DescriptionOf ...
func DescriptionOf(v float64) string {
	return MoodOf(v).Description
}
