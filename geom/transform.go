package geom

// Transform is a TRS transform. Applied as scale, then rotation, then translation.
type Transform struct {
	Pos   Vector3
	Rot   Quaternion
	Scale Vector3
}

func NewTransform() *Transform {
	return &Transform{Rot: Quaternion{0, 0, 0, 1}, Scale: Vector3{1, 1, 1}}
}

func NewTransformFromTRS(pos *Vector3, rot *Quaternion, scale *Vector3) *Transform {
	return &Transform{Pos: *pos, Rot: *rot, Scale: *scale}
}

func (t *Transform) Clone() *Transform {
	r := *t
	return &r
}

// Mul returns t * c. (c is a child transform of t)
func (t *Transform) Mul(c *Transform) *Transform {
	return &Transform{
		Pos:   *t.TransformVec(&c.Pos),
		Rot:   *t.Rot.Mul(&c.Rot),
		Scale: *t.Scale.Mul(&c.Scale),
	}
}

// MulTRS is Mul with a child given as separate components.
func (t *Transform) MulTRS(pos *Vector3, rot *Quaternion, scale *Vector3) *Transform {
	return t.Mul(&Transform{Pos: *pos, Rot: *rot, Scale: *scale})
}

func (t *Transform) Invert() *Transform {
	inv := &Transform{Rot: *t.Rot.Inverse()}
	inv.Scale = Vector3{invElement(t.Scale.X), invElement(t.Scale.Y), invElement(t.Scale.Z)}
	inv.Pos = *inv.Rot.ApplyTo(t.Pos.Negate()).Mul(&inv.Scale)
	return inv
}

// TransformVec transforms a point.
func (t *Transform) TransformVec(v *Vector3) *Vector3 {
	return t.Rot.ApplyTo(v.Mul(&t.Scale)).Add(&t.Pos)
}

// TransformDir rotates and scales a direction. Translation is not applied.
func (t *Transform) TransformDir(v *Vector3) *Vector3 {
	return t.Rot.ApplyTo(v.Mul(&t.Scale))
}

func (t *Transform) Matrix() *Matrix4 {
	return NewTRSMatrix4(&t.Pos, &t.Rot, &t.Scale)
}

func invElement(v Element) Element {
	if v == 0 {
		return 0
	}
	return 1 / v
}
