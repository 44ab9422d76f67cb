package constellation

import "math"

// Vec3 is a point or direction in layout space.
type Vec3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Add ...
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub ...
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale ...
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Len ...
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist ...
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns the unit vector in v's direction, or the zero vector
// when v has no length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ClampLen rescales v so its length lies in [min, max]. The zero vector
// has no direction, so it is placed on the positive X axis at min.
func (v Vec3) ClampLen(min, max float64) Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{X: min}
	}
	if l < min {
		return v.Scale(min / l)
	}
	if l > max {
		return v.Scale(max / l)
	}
	return v
}
