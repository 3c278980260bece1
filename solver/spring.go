package solver

import (
	"log"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
)

// Spring folds an even number of bones into a zigzag. Bones are treated as equal length.
type Spring struct {
	SwingTwist
}

func NewSpring() *Spring {
	s := &Spring{}
	s.init()
	return s
}

func (s *Spring) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	n := chain.Count()
	if n%2 != 0 {
		log.Println("Spring requires even number of bones:", n)
		return
	}
	rot, pt, t := s.swingTwist(chain, pose)

	boneLen := chain.Length / geom.Element(n)
	baseLen := t.dist / geom.Element(n/2)
	a := LawCosSSS(boneLen, baseLen, boneLen)

	turns := make([]geom.Element, n)
	turns[0] = -a
	for i := 1; i < n; i++ {
		if i%2 == 1 {
			turns[i] = a * 2
		} else {
			turns[i] = -a * 2
		}
	}
	applyTurns(chain, pose, pt, rot, &t.ortho, turns)
}
