package physics

import "math"

// Vec3 is a 3D vector in world units.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Forward is the scene's canonical forward axis.
var Forward = Vec3{X: 0, Y: 0, Z: -1}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3         { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3         { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3    { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64         { return math.Sqrt(v.Dot(v)) }
func (v Vec3) IsZero() bool            { return v.X == 0 && v.Y == 0 && v.Z == 0 }
func (v Vec3) Distance(o Vec3) float64 { return o.Sub(v).Length() }

func (v Vec3) Min(o Vec3) Vec3 {
	return Vec3{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z)}
}

func (v Vec3) Max(o Vec3) Vec3 {
	return Vec3{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z)}
}

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Box3 is an axis-aligned bounding box. A box with Min > Max on any axis
// is empty and intersects nothing.
type Box3 struct {
	Min Vec3 `yaml:"min"`
	Max Vec3 `yaml:"max"`
}

// EmptyBox is the identity for Union.
var EmptyBox = Box3{
	Min: Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
	Max: Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
}

// NewBox3FromCenter builds a box of the given size centered on c.
func NewBox3FromCenter(c, size Vec3) Box3 {
	half := size.Scale(0.5)
	return Box3{Min: c.Sub(half), Max: c.Add(half)}
}

// Bounds lets a local-space box act as a prototype Shape.
func (b Box3) Bounds() Box3 { return b }

func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

func (b Box3) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }
func (b Box3) Size() Vec3   { return b.Max.Sub(b.Min) }

// Translate offsets the box by d.
func (b Box3) Translate(d Vec3) Box3 {
	return Box3{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box enclosing both.
func (b Box3) Union(o Box3) Box3 {
	return Box3{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Intersects reports overlap; boxes that only touch count as overlapping.
func (b Box3) Intersects(o Box3) bool {
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y ||
		o.Max.Z < b.Min.Z || o.Min.Z > b.Max.Z)
}

func (b Box3) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
