package solver

import (
	"log"
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// Z is a 3 bone solver. Two triangles share the half of the middle bone.
type Z struct {
	SwingTwist
}

func NewZ() *Z {
	s := &Z{}
	s.init()
	return s
}

func (s *Z) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	if chain.Count() != 3 {
		log.Println("Z requires 3 bones:", chain.Count())
		return
	}
	rot, pt, t := s.swingTwist(chain, pose)

	aLen := chain.Links[0].Length
	bLen := chain.Links[1].Length
	cLen := chain.Links[2].Length
	bhLen := bLen * 0.5
	d := geom.Element(math.Min(float64(t.dist), float64(chain.Length)))

	var ta geom.Element
	if chain.Length > 0 {
		ta = d * (aLen + bhLen) / chain.Length
	}
	tb := d - ta

	turns := []geom.Element{
		-LawCosSSS(aLen, ta, bhLen),
		math.Pi - LawCosSSS(aLen, bhLen, ta),
		-(math.Pi - LawCosSSS(bhLen, cLen, tb)),
	}
	last := applyTurns(chain, pose, pt, rot, &t.ortho, turns)
	realign(chain, pose, pt, t, last)
}
