package autorig

import (
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/bonemap"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
	"github.com/binzume/ikretarget/solver"
)

// Quadruped is a four legged rig. Front legs use arm bones, hind legs use leg bones.
type Quadruped struct {
	*ikrig.Rig

	Hip    *ikrig.Chain
	Spine  *ikrig.Chain
	Neck   *ikrig.Chain
	Head   *ikrig.Chain
	FrontL *ikrig.Chain
	FrontR *ikrig.Chain
	HindL  *ikrig.Chain
	HindR  *ikrig.Chain
	Tail   *ikrig.Chain
}

func NewQuadruped() *Quadruped {
	return &Quadruped{Rig: ikrig.NewRig()}
}

func (r *Quadruped) AutoRig(pose *armature.Pose) bool {
	return r.AutoRigWithMap(pose, bonemap.New(pose.Armature, -1))
}

func (r *Quadruped) AutoRigWithMap(pose *armature.Pose, m *bonemap.BoneMap) bool {
	b := &chainBuilder{rig: r.Rig, pose: pose, m: m, complete: true}
	r.Hip = b.add("hip", "hip")
	r.Spine = b.add("spine", "spine")
	r.Neck = b.add("neck", "neck")
	r.Head = b.add("head", "head")
	r.HindL = b.add("hind_l", "thigh_l", "shin_l", "foot_l")
	r.HindR = b.add("hind_r", "thigh_r", "shin_r", "foot_r")
	r.FrontL = b.add("front_l", "upperarm_l", "forearm_l", "hand_l")
	r.FrontR = b.add("front_r", "upperarm_r", "forearm_r", "hand_r")
	return b.complete
}

// SetTail adds the tail chain by bone names. Tails have no naming convention.
func (r *Quadruped) SetTail(pose *armature.Pose, names ...string) *ikrig.Chain {
	c := ikrig.NewChain(pose)
	c.SetBonesByName(pose, names...)
	if c.Count() == 0 {
		return nil
	}
	r.Tail = r.AddChain("tail", c)
	return r.Tail
}

func (r *Quadruped) UseSolvers(pose *armature.Pose) {
	set := func(c *ikrig.Chain, s ikrig.Solver, effectorDir, poleDir *geom.Vector3) {
		if c == nil {
			return
		}
		c.SetSolver(s)
		c.BindAltDirections(pose, effectorDir, poleDir)
	}
	set(r.Hip, solver.NewHip(), &geom.Vector3Forward, &geom.Vector3Up)
	set(r.Spine, solver.NewSwingTwistEnds(), &geom.Vector3Forward, &geom.Vector3Up)
	set(r.Neck, solver.NewSwingTwist(), &geom.Vector3Forward, &geom.Vector3Up)
	set(r.Head, solver.NewSwingTwist(), &geom.Vector3Forward, &geom.Vector3Up)
	for _, c := range []*ikrig.Chain{r.FrontL, r.FrontR, r.HindL, r.HindR} {
		set(c, solver.NewZ(), &geom.Vector3Down, &geom.Vector3Forward)
	}
	set(r.Tail, solver.NewArc(), &geom.Vector3Back, &geom.Vector3Up)
}
