package animation

import (
	"sort"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
)

type Path int

const (
	Translation Path = iota
	Rotation
	Scale
)

type Interpolation int

const (
	Linear Interpolation = iota
	Step
)

// Track animates one property of a bone. Times must be ascending.
type Track struct {
	Bone          int
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Vec3          [][3]float32 // Translation, Scale
	Quat          [][4]float32 // Rotation
}

func (t *Track) Len() int {
	if t.Path == Rotation {
		return min(len(t.Times), len(t.Quat))
	}
	return min(len(t.Times), len(t.Vec3))
}

// keys returns surrounding key indices and the interpolation factor at time tm.
func (t *Track) keys(tm float32) (int, int, geom.Element) {
	n := t.Len()
	i := sort.Search(n, func(i int) bool { return t.Times[i] > tm })
	if i == 0 {
		return 0, 0, 0
	}
	if i >= n {
		return n - 1, n - 1, 0
	}
	if t.Interpolation == Step {
		return i - 1, i - 1, 0
	}
	d := t.Times[i] - t.Times[i-1]
	if d <= 0 {
		return i, i, 0
	}
	return i - 1, i, (tm - t.Times[i-1]) / d
}

func (t *Track) SampleVec3(tm float32) *geom.Vector3 {
	a, b, f := t.keys(tm)
	return geom.NewVector3FromArray(t.Vec3[a]).Lerp(geom.NewVector3FromArray(t.Vec3[b]), f)
}

// SampleQuat interpolates rotations on the shorter arc.
func (t *Track) SampleQuat(tm float32) *geom.Quaternion {
	a, b, f := t.keys(tm)
	qa := geom.NewQuaternionFromArray(t.Quat[a])
	if a == b {
		return qa.Normalize()
	}
	return qa.Slerp(geom.NewQuaternionFromArray(t.Quat[b]), f).Normalize()
}

func (t *Track) apply(pose *armature.Pose, tm float32) {
	if t.Bone < 0 || t.Bone >= pose.Len() || t.Len() == 0 {
		return
	}
	switch t.Path {
	case Translation:
		pose.SetLocalPos(t.Bone, t.SampleVec3(tm))
	case Rotation:
		pose.SetLocalRot(t.Bone, t.SampleQuat(tm))
	case Scale:
		pose.SetLocalScale(t.Bone, t.SampleVec3(tm))
	}
}

// Clip is a set of tracks sampled together.
type Clip struct {
	Name   string
	Tracks []*Track

	timeline []float32
}

func NewClip(name string) *Clip {
	return &Clip{Name: name}
}

func (c *Clip) AddTrack(t *Track) {
	c.Tracks = append(c.Tracks, t)
	c.timeline = nil
}

func (c *Clip) Duration() float32 {
	var d float32
	for _, t := range c.Tracks {
		if n := t.Len(); n > 0 && t.Times[n-1] > d {
			d = t.Times[n-1]
		}
	}
	return d
}

// Timeline returns sorted unique key times of all tracks.
func (c *Clip) Timeline() []float32 {
	if c.timeline != nil {
		return c.timeline
	}
	var times []float32
	for _, t := range c.Tracks {
		times = append(times, t.Times[:t.Len()]...)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	timeline := []float32{}
	for i, tm := range times {
		if i == 0 || tm != times[i-1] {
			timeline = append(timeline, tm)
		}
	}
	c.timeline = timeline
	return timeline
}

func (c *Clip) FrameCount() int {
	return len(c.Timeline())
}

// FrameTime returns time of key k. k is clamped.
func (c *Clip) FrameTime(k int) float32 {
	tl := c.Timeline()
	if len(tl) == 0 {
		return 0
	}
	return tl[max(0, min(k, len(tl)-1))]
}

// Sample writes local transforms at time tm into pose.
func (c *Clip) Sample(pose *armature.Pose, tm float32) {
	for _, t := range c.Tracks {
		t.apply(pose, tm)
	}
}
