package geom

import "math"

type Vector4 struct {
	X Element
	Y Element
	Z Element
	W Element
}

type Quaternion = Vector4

func NewVector4(x, y, z, w float32) *Vector4 {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

func NewQuaternion(x, y, z, w float32) *Vector4 {
	return &Vector4{X: x, Y: y, Z: z, W: w}
}

func NewQuaternionIdentity() *Quaternion {
	return &Quaternion{0, 0, 0, 1}
}

func NewQuaternionFromArray(arr [4]Element) *Vector4 {
	return &Vector4{X: arr[0], Y: arr[1], Z: arr[2], W: arr[3]}
}

// NewQuaternionFromAxisAngle returns rotation of rad around the unit vector axis.
func NewQuaternionFromAxisAngle(axis *Vector3, rad Element) *Quaternion {
	h := float64(rad) * 0.5
	s := Element(math.Sin(h))
	return &Quaternion{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: Element(math.Cos(h))}
}

// NewQuaternionFromUnitVectors returns the shortest arc rotation from unit vector a to b.
func NewQuaternionFromUnitVectors(a, b *Vector3) *Quaternion {
	const eps = 0.000001
	r := a.Dot(b) + 1
	var q Quaternion
	if r < eps {
		// antiparallel: any perpendicular axis works
		if Abs(a.X) > Abs(a.Z) {
			q = Quaternion{X: -a.Y, Y: a.X, Z: 0, W: 0}
		} else {
			q = Quaternion{X: 0, Y: -a.Z, Z: a.Y, W: 0}
		}
	} else {
		c := a.Cross(b)
		q = Quaternion{X: c.X, Y: c.Y, Z: c.Z, W: r}
	}
	return q.Normalize()
}

func (v *Vector4) Add(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X + v2.X, Y: v.Y + v2.Y, Z: v.Z + v2.Z, W: v.W + v2.W}
}

func (v *Vector4) Sub(v2 *Vector4) *Vector4 {
	return &Vector4{X: v.X - v2.X, Y: v.Y - v2.Y, Z: v.Z - v2.Z, W: v.W - v2.W}
}

func (v *Vector4) Scale(s Element) *Vector4 {
	return &Vector4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

func (v *Vector4) Dot(v2 *Vector4) Element {
	return v.X*v2.X + v.Y*v2.Y + v.Z*v2.Z + v.W*v2.W
}

func (v *Vector4) Len() Element {
	return Element(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)))
}

func (v *Vector4) LenSqr() Element {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W
}

func (v *Vector4) Normalize() *Vector4 {
	l := v.Len()
	if l > 0 {
		v.X /= l
		v.Y /= l
		v.Z /= l
		v.W /= l
	} else {
		v.W = 1
	}
	return v
}

func (v *Vector4) Negate() *Vector4 {
	return &Vector4{X: -v.X, Y: -v.Y, Z: -v.Z, W: -v.W}
}

// Inverse returns conjugate of the unit quaternion.
func (v *Vector4) Inverse() *Vector4 {
	return &Vector4{X: -v.X, Y: -v.Y, Z: -v.Z, W: v.W}
}

// Returns Hamilton product
func (a *Vector4) Mul(b *Vector4) *Vector4 {
	return &Vector4{
		W: a.W*b.W - a.X*b.X - a.Y*b.Y - a.Z*b.Z, // 1
		X: a.W*b.X + a.X*b.W + a.Y*b.Z - a.Z*b.Y, // i
		Y: a.W*b.Y - a.X*b.Z + a.Y*b.W + a.Z*b.X, // j
		Z: a.W*b.Z + a.X*b.Y - a.Y*b.X + a.Z*b.W, // k
	}
}

// ApplyTo rotates v. same as q * v * ~q
func (q *Quaternion) ApplyTo(v *Vector3) *Vector3 {
	// t = 2 * cross(q.xyz, v)
	tx := 2 * (q.Y*v.Z - q.Z*v.Y)
	ty := 2 * (q.Z*v.X - q.X*v.Z)
	tz := 2 * (q.X*v.Y - q.Y*v.X)
	return &Vector3{
		X: v.X + q.W*tx + q.Y*tz - q.Z*ty,
		Y: v.Y + q.W*ty + q.Z*tx - q.X*tz,
		Z: v.Z + q.W*tz + q.X*ty - q.Y*tx,
	}
}

// Slerp interpolates along the shorter arc.
func (a *Quaternion) Slerp(b *Quaternion, t Element) *Quaternion {
	bb := *b
	cos := a.Dot(b)
	if cos < 0 {
		cos = -cos
		bb = *b.Negate()
	}
	if cos > 0.9995 {
		return a.Nlerp(&bb, t)
	}
	theta := math.Acos(float64(cos))
	sin := math.Sin(theta)
	s0 := Element(math.Sin((1-float64(t))*theta) / sin)
	s1 := Element(math.Sin(float64(t)*theta) / sin)
	return &Quaternion{
		X: a.X*s0 + bb.X*s1,
		Y: a.Y*s0 + bb.Y*s1,
		Z: a.Z*s0 + bb.Z*s1,
		W: a.W*s0 + bb.W*s1,
	}
}

// Nlerp is normalized linear interpolation. Caller handles hemisphere.
func (a *Quaternion) Nlerp(b *Quaternion, t Element) *Quaternion {
	return (&Quaternion{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}).Normalize()
}

func (v *Vector4) Array() [4]Element {
	return [4]Element{v.X, v.Y, v.Z, v.W}
}
