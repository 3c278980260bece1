package geom

import "math"

type RotationOrder int

const (
	// RotationOrderXYZ rotates around Z, then Y, then X. (q = qx * qy * qz)
	RotationOrderXYZ RotationOrder = iota
	// RotationOrderZXY rotates around Y, then X, then Z. (q = qz * qx * qy)
	RotationOrderZXY
)

type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z Element, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

// NewEulerDegrees is NewEuler with angles in degrees.
func NewEulerDegrees(x, y, z Element, order RotationOrder) *EulerAngles {
	const d2r = math.Pi / 180
	return NewEuler(x*d2r, y*d2r, z*d2r, order)
}

// NewEulerFromQuaternion decomposes a unit quaternion. At gimbal lock the last applied angle is 0.
func NewEulerFromQuaternion(q *Quaternion, order RotationOrder) *EulerAngles {
	const eps = 0.0000001
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)
	m11 := 1 - 2*(y*y+z*z)
	m12 := 2 * (x*y - z*w)
	m13 := 2 * (x*z + y*w)
	m21 := 2 * (x*y + z*w)
	m22 := 1 - 2*(x*x+z*z)
	m23 := 2 * (y*z - x*w)
	m31 := 2 * (x*z - y*w)
	m32 := 2 * (y*z + x*w)
	m33 := 1 - 2*(x*x+y*y)

	e := &EulerAngles{Order: order}
	switch order {
	case RotationOrderXYZ:
		e.Y = Element(math.Asin(math.Max(-1, math.Min(m13, 1))))
		if math.Abs(m13) < 1-eps {
			e.X = Element(math.Atan2(-m23, m33))
			e.Z = Element(math.Atan2(-m12, m11))
		} else {
			e.X = Element(math.Atan2(m32, m22))
		}
	case RotationOrderZXY:
		e.X = Element(math.Asin(math.Max(-1, math.Min(m32, 1))))
		if math.Abs(m32) < 1-eps {
			e.Y = Element(math.Atan2(-m31, m33))
			e.Z = Element(math.Atan2(-m12, m22))
		} else {
			e.Z = Element(math.Atan2(m21, m11))
		}
	}
	return e
}

func (v *EulerAngles) ToQuaternion() *Quaternion {
	qx := NewQuaternionFromAxisAngle(&Vector3Left, v.X)
	qy := NewQuaternionFromAxisAngle(&Vector3Up, v.Y)
	qz := NewQuaternionFromAxisAngle(&Vector3Forward, v.Z)
	switch v.Order {
	case RotationOrderZXY:
		return qz.Mul(qx).Mul(qy)
	default:
		return qx.Mul(qy).Mul(qz)
	}
}
