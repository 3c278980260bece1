package solver

import (
	"math"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/ikrig"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// ComputeSag returns the catenary parameter A of a rope hanging between two points.
// ok is false if span is longer than the rope.
func ComputeSag(ropeLen, span geom.Element) (a geom.Element, ok bool) {
	if span > ropeLen || span <= 0 {
		return 0, false
	}
	const tries = 100
	const tolerance = 0.001
	aa := 100.0
	halfRope := float64(ropeLen) * 0.5
	halfSpan := float64(span) * 0.5
	for i := 0; i < tries; i++ {
		tmp := halfSpan / math.Asinh(halfRope/aa)
		if math.Abs((tmp-aa)/aa) < tolerance {
			aa = tmp
			break
		}
		aa = tmp
	}
	return geom.Element(aa), true
}

// Catenary drapes the chain along a catenary curve between the origin and the target.
// The curve sags toward -pole.
type Catenary struct {
	SwingTwist
}

func NewCatenary() *Catenary {
	s := &Catenary{}
	s.init()
	return s
}

func (s *Catenary) Resolve(chain *ikrig.Chain, pose *armature.Pose) {
	pt := pose.ParentWorld(chain.First().Index)
	t := s.resolveTarget(chain, pt)

	a, ok := ComputeSag(chain.Length, t.dist)
	if !ok || t.dist >= chain.Length {
		alignToPoints(chain, pose, pt, straightPoints(chain, &t.origin, &t.dir))
		return
	}
	alignToPoints(chain, pose, pt, catenaryPoints(chain, t, float64(a)))
}

func catenaryPoints(chain *ikrig.Chain, t *target, a float64) []*geom.Vector3 {
	span := float64(t.dist)
	curve := func(x float64) *geom.Vector3 {
		y := a*math.Cosh((x-span*0.5)/a) - a*math.Cosh(span*0.5/a)
		return t.origin.Add(t.dir.Scale(geom.Element(x))).Add(t.pole.Scale(geom.Element(y)))
	}

	sampleCount := chain.Count()*2 + 2
	xs := floats.Span(make([]float64, sampleCount), 0, span)
	segs := make([]float64, sampleCount)
	prev := curve(0)
	for i := 1; i < sampleCount; i++ {
		p := curve(xs[i])
		segs[i] = float64(p.Distance(prev))
		prev = p
	}
	arcLens := floats.CumSum(make([]float64, sampleCount), segs)

	var sampler interp.PiecewiseLinear
	if err := sampler.Fit(arcLens, xs); err != nil {
		return straightPoints(chain, &t.origin, &t.dir)
	}
	scale := arcLens[sampleCount-1] / float64(chain.Length)

	points := []*geom.Vector3{&t.origin}
	var l float64
	for _, lnk := range chain.Links {
		l += float64(lnk.Length)
		points = append(points, curve(sampler.Predict(math.Min(l*scale, arcLens[sampleCount-1]))))
	}
	return points
}
