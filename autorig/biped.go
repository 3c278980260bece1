package autorig

import (
	"log"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/bonemap"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
	"github.com/binzume/ikretarget/solver"
)

// Biped is a humanoid rig. Chains are resolved hip first.
type Biped struct {
	*ikrig.Rig

	Hip   *ikrig.Chain
	Spine *ikrig.Chain
	Neck  *ikrig.Chain
	Head  *ikrig.Chain
	LegL  *ikrig.Chain
	LegR  *ikrig.Chain
	FootL *ikrig.Chain
	FootR *ikrig.Chain
	ArmL  *ikrig.Chain
	ArmR  *ikrig.Chain
	HandL *ikrig.Chain
	HandR *ikrig.Chain
}

func NewBiped() *Biped {
	return &Biped{Rig: ikrig.NewRig()}
}

// AutoRig creates chains from bone names. Returns false if some chains are missing.
func (r *Biped) AutoRig(pose *armature.Pose) bool {
	return r.AutoRigWithMap(pose, bonemap.New(pose.Armature, -1))
}

func (r *Biped) AutoRigWithMap(pose *armature.Pose, m *bonemap.BoneMap) bool {
	b := &chainBuilder{rig: r.Rig, pose: pose, m: m, complete: true}
	r.Hip = b.add("hip", "hip")
	r.Spine = b.add("spine", "spine")
	r.Neck = b.add("neck", "neck")
	r.Head = b.add("head", "head")
	r.LegL = b.add("leg_l", "thigh_l", "shin_l")
	r.LegR = b.add("leg_r", "thigh_r", "shin_r")
	r.FootL = b.add("foot_l", "foot_l")
	r.FootR = b.add("foot_r", "foot_r")
	r.ArmL = b.add("arm_l", "upperarm_l", "forearm_l")
	r.ArmR = b.add("arm_r", "upperarm_r", "forearm_r")
	r.HandL = b.add("hand_l", "hand_l")
	r.HandR = b.add("hand_r", "hand_r")
	return b.complete
}

// UseSolversForRetarget assigns direction based solvers. pose must be a T-pose.
func (r *Biped) UseSolversForRetarget(pose *armature.Pose) {
	r.setSolver(pose, r.Hip, solver.NewHip(), &geom.Vector3Forward, &geom.Vector3Up)
	r.setSolver(pose, r.Spine, solver.NewSwingTwistEnds(), &geom.Vector3Up, &geom.Vector3Forward)
	r.setSolver(pose, r.Neck, solver.NewSwingTwist(), &geom.Vector3Forward, &geom.Vector3Up)
	r.setSolver(pose, r.Head, solver.NewSwingTwist(), &geom.Vector3Forward, &geom.Vector3Up)
	r.setSolver(pose, r.LegL, solver.NewLimb(), &geom.Vector3Down, &geom.Vector3Forward)
	r.setSolver(pose, r.LegR, solver.NewLimb(), &geom.Vector3Down, &geom.Vector3Forward)
	r.setSolver(pose, r.FootL, solver.NewSwingTwist(), &geom.Vector3Forward, &geom.Vector3Up)
	r.setSolver(pose, r.FootR, solver.NewSwingTwist(), &geom.Vector3Forward, &geom.Vector3Up)
	r.setSolver(pose, r.ArmL, solver.NewLimb(), &geom.Vector3Left, &geom.Vector3Back)
	r.setSolver(pose, r.ArmR, solver.NewLimb(), &geom.Vector3Right, &geom.Vector3Back)
	r.setSolver(pose, r.HandL, solver.NewSwingTwist(), &geom.Vector3Left, &geom.Vector3Back)
	r.setSolver(pose, r.HandR, solver.NewSwingTwist(), &geom.Vector3Right, &geom.Vector3Back)
}

// UseSolversForFBIK assigns position based solvers to limbs and spine.
func (r *Biped) UseSolversForFBIK(pose *armature.Pose) {
	r.UseSolversForRetarget(pose)
	for _, c := range []*ikrig.Chain{r.LegL, r.LegR, r.ArmL, r.ArmR} {
		if c != nil {
			c.SetSolver(solver.NewFabrik())
		}
	}
	if r.Spine != nil {
		r.Spine.SetSolver(solver.NewNaturalCCD())
	}
}

func (r *Biped) setSolver(pose *armature.Pose, c *ikrig.Chain, s ikrig.Solver, effectorDir, poleDir *geom.Vector3) {
	if c == nil {
		return
	}
	c.SetSolver(s)
	c.BindAltDirections(pose, effectorDir, poleDir)
}

type chainBuilder struct {
	rig      *ikrig.Rig
	pose     *armature.Pose
	m        *bonemap.BoneMap
	complete bool
}

// add creates a chain from the first bone of each entry. A single key takes the whole chain.
func (b *chainBuilder) add(name string, keys ...string) *ikrig.Chain {
	var bones []int
	for _, k := range keys {
		e := b.m.Get(k)
		if e == nil {
			log.Println("Bone not found:", k)
			b.complete = false
			return nil
		}
		if len(keys) == 1 {
			bones = append(bones, e.Bones...)
		} else {
			bones = append(bones, e.First())
		}
	}
	return b.rig.Add(b.pose, name, bones...)
}
