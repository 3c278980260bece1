package autorig

import (
	"log"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
	"github.com/binzume/ikretarget/solver"
)

type IKDataKind int

const (
	IKSwingTwist IKDataKind = iota
	IKSwingTwistEnds
	IKLimb
	IKHip
)

// IKData is a rig independent description of a chain pose.
type IKData struct {
	Kind        IKDataKind
	EffectorDir geom.Vector3
	PoleDir     geom.Vector3
	LenScale    geom.Element

	// IKSwingTwistEnds
	EndEffectorDir geom.Vector3
	EndPoleDir     geom.Vector3

	// IKHip
	MovePos    geom.Vector3
	BindHeight geom.Element
}

// BipedIKPose transfers poses between bipeds of different proportions.
type BipedIKPose struct {
	Chains map[string]*IKData
}

func NewBipedIKPose() *BipedIKPose {
	return &BipedIKPose{Chains: map[string]*IKData{}}
}

var bipedIKKinds = map[string]IKDataKind{
	"hip":    IKHip,
	"spine":  IKSwingTwistEnds,
	"neck":   IKSwingTwist,
	"head":   IKSwingTwist,
	"leg_l":  IKLimb,
	"leg_r":  IKLimb,
	"foot_l": IKSwingTwist,
	"foot_r": IKSwingTwist,
	"arm_l":  IKLimb,
	"arm_r":  IKLimb,
	"hand_l": IKSwingTwist,
	"hand_r": IKSwingTwist,
}

// Compute reads the pose of all biped chains. Alt directions of rig must be bound.
func (p *BipedIKPose) Compute(rig *Biped, pose *armature.Pose) {
	for _, name := range rig.Names() {
		kind, ok := bipedIKKinds[name]
		c := rig.Get(name)
		if !ok || c.Count() == 0 {
			continue
		}
		d := &IKData{Kind: kind, LenScale: 1}
		switch kind {
		case IKSwingTwist:
			computeSwingTwist(d, c, pose)
		case IKSwingTwistEnds:
			computeSwingTwistEnds(d, c, pose)
		case IKLimb:
			computeLimb(d, c, pose)
		case IKHip:
			computeSwingTwist(d, c, pose)
			l := c.First()
			bindPos := pose.ParentWorld(l.Index).TransformVec(&l.Bind.Pos)
			d.MovePos = *pose.WorldTransform(l.Index).Pos.Sub(bindPos)
			d.BindHeight = bindPos.Y
		}
		p.Chains[name] = d
	}
}

func computeSwingTwist(d *IKData, c *ikrig.Chain, pose *armature.Pose) {
	eff, pole := c.AltDirections(pose, 0)
	d.EffectorDir = *eff
	d.PoleDir = *pole
}

func computeSwingTwistEnds(d *IKData, c *ikrig.Chain, pose *armature.Pose) {
	computeSwingTwist(d, c, pose)
	eff, pole := c.AltDirections(pose, c.Count()-1)
	d.EndEffectorDir = *eff
	d.EndPoleDir = *pole
}

func computeLimb(d *IKData, c *ikrig.Chain, pose *armature.Pose) {
	dir := c.LastPosition(pose).Sub(c.StartPosition(pose))
	if c.Length > 0 {
		d.LenScale = dir.Len() / c.Length
	}
	d.EffectorDir = *dir.Normalize()

	_, pole := c.AltDirections(pose, 0)
	_, pole = solver.OrthoPole(&d.EffectorDir, pole)
	d.PoleDir = *pole
}

// ApplyToRig sets solver targets of rig and resolves it.
func (p *BipedIKPose) ApplyToRig(rig *Biped, pose *armature.Pose) {
	for _, name := range rig.Names() {
		d := p.Chains[name]
		c := rig.Get(name)
		if d == nil || c.Solver == nil {
			continue
		}
		switch d.Kind {
		case IKHip:
			s, ok := c.Solver.(*solver.Hip)
			if !ok {
				log.Println("Hip solver required:", name)
				continue
			}
			s.SetTargetDir(&d.EffectorDir, &d.PoleDir, 1)
			s.SetMovePos(&d.MovePos, false, d.BindHeight)
		case IKSwingTwistEnds:
			s, ok := c.Solver.(*solver.SwingTwistEnds)
			if !ok {
				log.Println("SwingTwistEnds solver required:", name)
				continue
			}
			s.SetStartDir(&d.EffectorDir, &d.PoleDir).SetEndDir(&d.EndEffectorDir, &d.EndPoleDir)
		default:
			s, ok := c.Solver.(dirTarget)
			if !ok {
				log.Println("Solver does not accept directions:", name)
				continue
			}
			s.SetTargetDir(&d.EffectorDir, &d.PoleDir, d.LenScale)
		}
	}
	rig.ResolveToPose(pose)
}

type dirTarget interface {
	SetTargetDir(e, pole *geom.Vector3, effectorScale geom.Element)
}
