package retarget

import (
	"log"
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/bonemap"
	"github.com/binzume/ikretarget/geom"
)

// Clip writes an animation into a pose.
type Clip interface {
	Sample(pose *armature.Pose, t float32)
	Duration() float32
	FrameCount() int
	FrameTime(k int) float32
}

type State int

const (
	Unbound State = iota
	Bound
	Animating
)

const hipKey = "hip"

// Retarget copies animation of the FROM pose to the TO pose.
// Both poses must be in the same rest pose (e.g. T-pose) when Bind is called.
type Retarget struct {
	From    *armature.Pose
	To      *armature.Pose
	FromMap *bonemap.BoneMap
	ToMap   *bonemap.BoneMap
	Clip    Clip

	Links    []*BoneLink
	Hip      *BoneLink
	HipScale geom.Element

	fromBindHip geom.Vector3
	toBindHip   geom.Vector3
	state       State
	time        float32
}

func New(from, to *armature.Pose) *Retarget {
	return &Retarget{From: from, To: to, HipScale: 1}
}

func (r *Retarget) SetClip(clip Clip) *Retarget {
	r.Clip = clip
	r.time = 0
	return r
}

func (r *Retarget) State() State {
	return r.state
}

func (r *Retarget) Time() float32 {
	return r.time
}

// Bind matches bones by canonical name and computes bone links from current poses.
// Returns false if no bones are linked.
func (r *Retarget) Bind() bool {
	if r.FromMap == nil {
		r.FromMap = bonemap.New(r.From.Armature, -1)
	}
	if r.ToMap == nil {
		r.ToMap = bonemap.New(r.To.Armature, -1)
	}
	r.Links = nil
	r.Hip = nil

	for _, key := range r.FromMap.Keys() {
		fe := r.FromMap.Get(key)
		te := r.ToMap.Get(key)
		if te == nil {
			log.Println("Bone not found in target:", key)
			continue
		}
		if fe.IsChain() != te.IsChain() {
			log.Println("Bone map mismatch:", key)
			continue
		}
		for _, p := range matchBones(fe, te) {
			l := NewBoneLink(p[0], p[1])
			l.Bind(r.From, r.To)
			r.Links = append(r.Links, l)
			if key == hipKey && r.Hip == nil {
				r.Hip = l
			}
		}
	}

	r.HipScale = 1
	if r.Hip != nil {
		r.fromBindHip = r.From.WorldTransform(r.Hip.FromIndex).Pos
		r.toBindHip = r.To.WorldTransform(r.Hip.ToIndex).Pos
		if r.fromBindHip.Y != 0 {
			r.HipScale = geom.Abs(r.toBindHip.Y / r.fromBindHip.Y)
		}
	}
	if len(r.Links) == 0 {
		r.state = Unbound
		return false
	}
	r.state = Bound
	return true
}

// matchBones returns pairs of FROM and TO bone indices.
func matchBones(fe, te *bonemap.Entry) [][2]int {
	fn, tn := fe.Len(), te.Len()
	if fn >= 2 && tn >= 2 {
		pairs := [][2]int{{fe.First(), te.First()}, {fe.Last(), te.Last()}}
		for i := 1; i < min(fn, tn)-1; i++ {
			pairs = append(pairs, [2]int{fe.Bones[i], te.Bones[i]})
		}
		return pairs
	}
	var pairs [][2]int
	for i := 0; i < min(fn, tn); i++ {
		pairs = append(pairs, [2]int{fe.Bones[i], te.Bones[i]})
	}
	return pairs
}

// AnimateNext advances the clip by dt seconds and retargets. Time wraps at the clip duration.
func (r *Retarget) AnimateNext(dt float32) {
	if !r.ready() {
		return
	}
	r.time += dt
	if d := r.Clip.Duration(); d > 0 {
		r.time = float32(math.Mod(float64(r.time), float64(d)))
	}
	r.animate()
}

// AtKey retargets the pose at key frame k of the clip.
func (r *Retarget) AtKey(k int) {
	if !r.ready() {
		return
	}
	r.time = r.Clip.FrameTime(k)
	r.animate()
}

func (r *Retarget) ready() bool {
	if r.state == Unbound {
		log.Println("Retarget is not bound")
		return false
	}
	if r.Clip == nil {
		log.Println("Retarget has no clip")
		return false
	}
	return true
}

func (r *Retarget) animate() {
	r.Clip.Sample(r.From, r.time)
	r.From.UpdateWorld()
	r.ApplyRetarget()
	r.To.UpdateWorld()
	r.state = Animating
}

// ApplyRetarget writes rotations of linked bones and the hip position to the TO pose.
func (r *Retarget) ApplyRetarget() {
	for _, l := range r.Links {
		r.To.SetLocalRot(l.ToIndex, l.Rotation(r.From.LocalRot(l.FromIndex)))
	}
	if r.Hip == nil {
		return
	}
	pos := r.From.WorldTransform(r.Hip.FromIndex).Pos.Sub(&r.fromBindHip).Scale(r.HipScale).Add(&r.toBindHip)
	r.To.SetLocalPos(r.Hip.ToIndex, r.To.ParentWorld(r.Hip.ToIndex).Invert().TransformVec(pos))
}

// Bake samples the whole clip at fps and returns TO poses.
func (r *Retarget) Bake(fps float32) []*armature.Pose {
	if !r.ready() || fps <= 0 {
		return nil
	}
	n := int(r.Clip.Duration()*fps) + 1
	var frames []*armature.Pose
	for i := 0; i < n; i++ {
		r.time = float32(i) / fps
		r.animate()
		frames = append(frames, r.To.Clone())
	}
	return frames
}
