package animation

import (
	"math"
	"testing"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
)

func newPose() *armature.Pose {
	a := armature.New()
	one := geom.NewVector3(1, 1, 1)
	a.AddBone("root", -1, &geom.Vector3{}, geom.NewQuaternionIdentity(), one)
	a.AddBone("child", 0, &geom.Vector3{Y: 1}, geom.NewQuaternionIdentity(), one)
	a.Finalize()
	return a.NewPose()
}

func TestClip(t *testing.T) {
	const eps = 0.0001
	s := float32(math.Sqrt(0.5))
	clip := NewClip("test")
	clip.AddTrack(&Track{
		Bone:  0,
		Path:  Translation,
		Times: []float32{0, 1},
		Vec3:  [][3]float32{{0, 0, 0}, {2, 0, 0}},
	})
	clip.AddTrack(&Track{
		Bone:  1,
		Path:  Rotation,
		Times: []float32{0, 0.5, 2},
		Quat:  [][4]float32{{0, 0, 0, 1}, {0, 0, s, s}, {0, 0, -s, -s}},
	})
	clip.AddTrack(&Track{
		Bone:          1,
		Path:          Scale,
		Interpolation: Step,
		Times:         []float32{0, 1},
		Vec3:          [][3]float32{{1, 1, 1}, {2, 2, 2}},
	})

	if clip.Duration() != 2 {
		t.Error("duration:", clip.Duration())
	}
	if clip.FrameCount() != 4 {
		t.Error("frames:", clip.Timeline())
	}
	if clip.FrameTime(2) != 1 || clip.FrameTime(10) != 2 || clip.FrameTime(-1) != 0 {
		t.Error("frame time")
	}

	pose := newPose()
	clip.Sample(pose, 0.25)
	if v := pose.LocalPos(0); v.Sub(geom.NewVector3(0.5, 0, 0)).Len() > eps {
		t.Error("translation:", v)
	}
	// 45 degrees around Z
	expected := geom.NewQuaternionFromAxisAngle(&geom.Vector3Forward, math.Pi/4)
	if q := pose.LocalRot(1); geom.Abs(q.Dot(expected)) < 1-eps {
		t.Error("rotation:", q)
	}
	if v := pose.LocalScale(1); v.X != 1 {
		t.Error("step scale:", v)
	}

	// same rotation with opposite sign does not spin
	clip.Sample(pose, 1.25)
	if q := pose.LocalRot(1); geom.Abs(q.Dot(geom.NewQuaternion(0, 0, s, s))) < 1-eps {
		t.Error("hemisphere:", q)
	}
	if v := pose.LocalScale(1); v.X != 2 {
		t.Error("step scale:", v)
	}

	// clamped after the last key
	clip.Sample(pose, 5)
	if v := pose.LocalPos(0); v.X != 2 {
		t.Error("clamp:", v)
	}
}

func TestTrackInvalidBone(t *testing.T) {
	clip := NewClip("invalid")
	clip.AddTrack(&Track{Bone: 5, Path: Translation, Times: []float32{0}, Vec3: [][3]float32{{1, 1, 1}}})
	clip.AddTrack(&Track{Bone: 0, Path: Rotation, Times: []float32{0, 1}})
	pose := newPose()
	clip.Sample(pose, 0)
	if v := pose.LocalPos(0); !v.IsZero() {
		t.Error("pose changed:", v)
	}
	if clip.FrameCount() != 1 {
		t.Error("frames:", clip.Timeline())
	}
}
