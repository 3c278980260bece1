package ikrig

import (
	"log"

	"github.com/binzume/ikretarget/armature"
)

// Rig is a named collection of chains. Chains are resolved in order of addition.
type Rig struct {
	chains map[string]*Chain
	names  []string
}

func NewRig() *Rig {
	return &Rig{chains: map[string]*Chain{}}
}

func (r *Rig) AddChain(name string, c *Chain) *Chain {
	if _, exists := r.chains[name]; !exists {
		r.names = append(r.names, name)
	}
	r.chains[name] = c
	return c
}

// Add creates a chain from bones and adds it.
func (r *Rig) Add(pose *armature.Pose, name string, bones ...int) *Chain {
	return r.AddChain(name, NewChain(pose, bones...))
}

func (r *Rig) Get(name string) *Chain {
	return r.chains[name]
}

func (r *Rig) Names() []string {
	return r.names
}

func (r *Rig) ResolveToPose(pose *armature.Pose) {
	for _, name := range r.names {
		c := r.chains[name]
		if c.Solver == nil {
			continue
		}
		c.ResolveToPose(pose)
	}
}

// BindPose recaptures bind transforms of all chains.
func (r *Rig) BindPose(pose *armature.Pose) {
	for _, name := range r.names {
		r.chains[name].BindToPose(pose)
	}
}

func (r *Rig) ResetLengths(pose *armature.Pose) {
	for _, name := range r.names {
		r.chains[name].ResetLengths(pose)
	}
}

func (r *Rig) ResolveChain(pose *armature.Pose, name string) {
	c := r.chains[name]
	if c == nil {
		log.Println("Chain not found:", name)
		return
	}
	c.ResolveToPose(pose)
}
