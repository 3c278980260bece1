package solver

import (
	"log"
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// Limb is a 2 bone solver.
type Limb struct {
	SwingTwist
	BendDir geom.Element // 1 or -1
}

func NewLimb() *Limb {
	s := &Limb{BendDir: 1}
	s.init()
	return s
}

func (s *Limb) Invert() *Limb {
	s.BendDir = -s.BendDir
	return s
}

func (s *Limb) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	if chain.Count() < 2 {
		log.Println("Limb requires 2 bones:", chain.Count())
		return
	}
	rot, pt, t := s.swingTwist(chain, pose)

	aLen := chain.Links[0].Length
	bLen := chain.Links[1].Length
	cLen := t.dist

	turns := []geom.Element{
		-LawCosSSS(aLen, cLen, bLen) * s.BendDir,
		(math.Pi - LawCosSSS(aLen, bLen, cLen)) * s.BendDir,
	}
	for i := 2; i < chain.Count(); i++ {
		turns = append(turns, 0)
	}
	applyTurns(chain, pose, pt, rot, &t.ortho, turns)
}
