package physics

// Lightweight 3D abstractions shared by the projectile and target code.
// Only axis-aligned boxes are supported; rotation is not modelled.

// Shape provides the local-space bounds of a prototype geometry.
// World-space bounds are obtained by translating them to a position.
type Shape interface {
	Bounds() Box3
}

// Transform is a world position plus the world forward axis.
type Transform struct {
	Position Vec3 `yaml:"position"`
	Forward  Vec3 `yaml:"forward"`
}

// NewTransform builds a transform at pos facing the canonical forward axis.
func NewTransform(pos Vec3) Transform {
	return Transform{Position: pos, Forward: Forward}
}

// Direction returns the normalized forward axis, falling back to Forward
// when the transform carries a zero vector.
func (t Transform) Direction() Vec3 {
	if t.Forward.IsZero() {
		return Forward
	}
	return t.Forward.Normalize()
}
