package geom

import (
	"testing"
)

func TestEuler(t *testing.T) {
	const eps = 0.00001

	for i, c := range []struct {
		order   RotationOrder
		x, y, z Element
	}{
		{RotationOrderXYZ, 10, 20, 30},
		{RotationOrderXYZ, -40, 60, 5},
		{RotationOrderZXY, 10, 20, 30},
		{RotationOrderZXY, 80, 0, 10},
	} {
		e1 := NewEulerDegrees(c.x, c.y, c.z, c.order)
		q := e1.ToQuaternion()
		e2 := NewEulerFromQuaternion(q, c.order)

		if e1.Vector3.Sub(&e2.Vector3).Len() > eps {
			t.Error("euler: ", i, e1, e2)
		}
		if Abs(q.Len()-1) > eps {
			t.Error("Quaternion.Len() != 1", e1)
		}
	}
}

func TestEulerOrder(t *testing.T) {
	const eps = 0.00001

	// Z is applied first in XYZ order.
	q := NewEulerDegrees(90, 0, 90, RotationOrderXYZ).ToQuaternion()
	if v := q.ApplyTo(&Vector3Left); v.Sub(&Vector3Forward).Len() > eps {
		t.Error("XYZ: ", v)
	}
	// X is applied after Y in ZXY order.
	q = NewEulerDegrees(90, 90, 0, RotationOrderZXY).ToQuaternion()
	if v := q.ApplyTo(&Vector3Forward); v.Sub(&Vector3Left).Len() > eps {
		t.Error("ZXY: ", v)
	}
}
