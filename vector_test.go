package constellation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Arithmetic(t *testing.T) {
	assert := assert.New(t)
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}

	assert.Equal(Vec3{5, 8, 6}, a.Add(b))
	assert.Equal(Vec3{3, 4, 0}, b.Sub(a))
	assert.Equal(Vec3{2, 4, 6}, a.Scale(2))
	assert.Equal(5.0, a.Dist(b))
	assert.Equal(5.0, Vec3{3, 4, 0}.Len())
	assert.InDelta(1.0, Vec3{3, 4, 12}.Normalize().Len(), 1e-12)
	assert.Equal(Vec3{}, Vec3{}.Normalize())
}

func TestVec3ClampLen(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Vec3{X: 0.5}, Vec3{X: 0.1}.ClampLen(0.5, 2))
	assert.Equal(Vec3{Y: 2}, Vec3{Y: 10}.ClampLen(0.5, 2))
	assert.Equal(Vec3{1, 0, 0}, Vec3{1, 0, 0}.ClampLen(0.5, 2))
	assert.InDelta(2.0, Vec3{3, 4, 12}.ClampLen(0.5, 2).Len(), 1e-12)

	// The origin has no direction; it still ends up inside the band.
	assert.Equal(Vec3{X: 0.5}, Vec3{}.ClampLen(0.5, 2))
}
