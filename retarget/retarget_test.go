package retarget

import (
	"math"
	"testing"

	"github.com/binzume/ikretarget/animation"
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/bonemap"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/internal/testmodel"
)

func rot(axis *geom.Vector3, deg float64) [4]float32 {
	return geom.NewQuaternionFromAxisAngle(axis, geom.Element(deg*math.Pi/180)).Array()
}

func newClip(pose *armature.Pose, prefix string) *animation.Clip {
	bone := func(name string) int { return pose.BoneByName(prefix + name).Index }
	clip := animation.NewClip("walk")
	clip.AddTrack(&animation.Track{
		Bone:  bone("Hips"),
		Path:  animation.Translation,
		Times: []float32{0, 1},
		Vec3:  [][3]float32{{0, 1, 0}, {0.1, 0.9, 0.2}},
	})
	clip.AddTrack(&animation.Track{
		Bone:  bone("Spine1"),
		Path:  animation.Rotation,
		Times: []float32{0, 1},
		Quat:  [][4]float32{{0, 0, 0, 1}, rot(&geom.Vector3Up, 40)},
	})
	leg := geom.NewQuaternionFromAxisAngle(&geom.Vector3Left, -0.5).Mul(pose.LocalRot(bone("LeftUpLeg")))
	clip.AddTrack(&animation.Track{
		Bone:  bone("LeftUpLeg"),
		Path:  animation.Rotation,
		Times: []float32{0, 1},
		Quat:  [][4]float32{pose.LocalRot(bone("LeftUpLeg")).Array(), leg.Array()},
	})
	clip.AddTrack(&animation.Track{
		Bone:  bone("RightForeArm"),
		Path:  animation.Rotation,
		Times: []float32{0, 0.5, 1},
		Quat:  [][4]float32{{0, 0, 0, 1}, rot(&geom.Vector3Up, 60), rot(&geom.Vector3Forward, 170)},
	})
	return clip
}

func sameRotation(a, b *geom.Quaternion, eps geom.Element) bool {
	return geom.Abs(a.Dot(b)) > 1-eps
}

func TestRetargetRoundTrip(t *testing.T) {
	from := testmodel.Humanoid("mixamorig:", 1).NewPose()
	to := testmodel.Humanoid("", 1).NewPose()

	r := New(from, to)
	if r.State() != Unbound {
		t.Error("state:", r.State())
	}
	if !r.Bind() {
		t.Fatal("Bind failed")
	}
	if r.State() != Bound || r.Hip == nil || r.HipScale != 1 {
		t.Error("bind:", r.State(), r.HipScale)
	}
	r.SetClip(newClip(from, "mixamorig:"))

	for _, dt := range []float32{0.3, 0.4, 0.5} {
		r.AnimateNext(dt)
		if r.State() != Animating {
			t.Error("state:", r.State())
		}
		for _, l := range r.Links {
			a := from.LocalRot(l.FromIndex)
			b := to.LocalRot(l.ToIndex)
			if !sameRotation(a, b, 0.0001) {
				t.Error("rotation:", from.Bone(l.FromIndex).Name, a, b)
			}
		}
		hips := to.BoneByName("Hips").Index
		if v := to.LocalPos(hips); v.Sub(from.LocalPos(0)).Len() > 0.0001 {
			t.Error("hip:", v)
		}
	}
	// time wraps
	if math.Abs(float64(r.Time()-0.2)) > 0.0001 {
		t.Error("time:", r.Time())
	}

	r.AtKey(1)
	if r.Time() != 0.5 {
		t.Error("key time:", r.Time())
	}
	a := from.WorldTransform(from.BoneByName("mixamorig:RightHand").Index).Pos
	b := to.WorldTransform(to.BoneByName("RightHand").Index).Pos
	if a.Distance(&b) > 0.0001 {
		t.Error("hand:", a, b)
	}
}

func TestBoneLinkHemisphere(t *testing.T) {
	from := testmodel.Humanoid("", 1).NewPose()
	to := testmodel.Humanoid("", 1).NewPose()
	i := from.BoneByName("LeftArm").Index
	// different rest rotation on the TO side
	to.SetLocalRot(i, geom.NewQuaternionFromAxisAngle(&geom.Vector3Up, 0.3))

	l := NewBoneLink(i, i)
	l.Bind(from, to)

	q := geom.NewQuaternionFromAxisAngle(geom.NewVector3(1, 2, 3).Normalize(), 2.5)
	r1 := l.Rotation(q)
	r2 := l.Rotation(q)
	if *r1 != *r2 {
		t.Error("not deterministic:", r1, r2)
	}
	// equivalent input quaternion gives the same result
	r3 := l.Rotation(q.Negate())
	if r1.Sub(r3).Len() > 0.0001 {
		t.Error("hemisphere:", r1, r3)
	}

	// identity input maps the FROM rest pose to the TO rest pose
	if r := l.Rotation(geom.NewQuaternionIdentity()); !sameRotation(r, to.LocalRot(i), 0.0001) {
		t.Error("rest:", r)
	}

	// rebinding gives identical quaternions
	l2 := NewBoneLink(i, i)
	l2.Bind(from, to)
	if *l2 != *l {
		t.Error("bind is not idempotent")
	}
}

func TestRetargetHipScale(t *testing.T) {
	from := testmodel.Humanoid("", 1).NewPose()
	to := testmodel.Humanoid("", 2).NewPose()
	r := New(from, to)
	if !r.Bind() {
		t.Fatal("Bind failed")
	}
	if r.HipScale != 2 {
		t.Error("hip scale:", r.HipScale)
	}
	r.SetClip(newClip(from, ""))
	r.AtKey(2) // t = 1

	if v := to.LocalPos(0); v.Sub(geom.NewVector3(0.2, 1.8, 0.4)).Len() > 0.0001 {
		t.Error("hip:", v)
	}
}

func TestRetargetBake(t *testing.T) {
	from := testmodel.Humanoid("", 1).NewPose()
	to := testmodel.Humanoid("", 1).NewPose()
	r := New(from, to)
	if frames := r.Bake(10); frames != nil {
		t.Error("unbound retarget should not bake")
	}
	r.Bind()
	r.SetClip(newClip(from, ""))
	frames := r.Bake(10)
	if len(frames) != 11 {
		t.Fatal("frames:", len(frames))
	}
	if v := frames[10].LocalPos(0); v.Sub(geom.NewVector3(0.1, 0.9, 0.2)).Len() > 0.0001 {
		t.Error("last frame:", v)
	}
	if v := frames[0].LocalPos(0); v.Sub(geom.NewVector3(0, 1, 0)).Len() > 0.0001 {
		t.Error("first frame:", v)
	}
}

func TestMatchBones(t *testing.T) {
	for _, c := range []struct {
		from, to []string
		expected [][2]int
	}{
		{[]string{"Spine", "Spine1", "Spine2", "Chest"}, []string{"Spine", "Chest"}, [][2]int{{0, 0}, {3, 1}}},
		{[]string{"Spine", "Spine1", "Spine2", "Chest"}, []string{"Spine", "Spine1", "Chest"}, [][2]int{{0, 0}, {3, 2}, {1, 1}}},
		{[]string{"Spine"}, []string{"Spine", "Spine1", "Chest"}, [][2]int{{0, 0}}},
		{[]string{"Spine", "Spine1"}, []string{"Spine", "Chest"}, [][2]int{{0, 0}, {1, 1}}},
	} {
		pairs := matchBones(bonemap.Parse(c.from).Get("spine"), bonemap.Parse(c.to).Get("spine"))
		if len(pairs) != len(c.expected) {
			t.Error("pairs:", c.from, c.to, pairs)
			continue
		}
		for i := range pairs {
			if pairs[i] != c.expected[i] {
				t.Error("pairs:", c.from, c.to, pairs)
			}
		}
	}
}

func TestRetargetMismatch(t *testing.T) {
	from := testmodel.Humanoid("", 1).NewPose()
	to := testmodel.Humanoid("", 1).NewPose()
	r := New(from, to)
	r.ToMap = bonemap.New(to.Armature, -1)
	spine := r.ToMap.Get("spine")
	r.ToMap.Set("spine", false, spine.Bones[:1], spine.Names[:1])

	if !r.Bind() {
		t.Fatal("Bind failed")
	}
	for _, l := range r.Links {
		if from.Bone(l.FromIndex).Name == "Spine" {
			t.Error("spine should not be linked")
		}
	}

	empty := armature.New()
	empty.AddBone("Root", -1, &geom.Vector3{}, geom.NewQuaternionIdentity(), geom.NewVector3(1, 1, 1))
	empty.Finalize()
	r = New(from, empty.NewPose())
	if r.Bind() {
		t.Error("nothing to bind")
	}
	r.AnimateNext(0.1)
	if r.State() != Unbound {
		t.Error("state:", r.State())
	}
}
