package config

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/bonemap"
	"github.com/binzume/ikretarget/geom"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	FPS      float32         `yaml:"fps"`
	HipScale float32         `yaml:"hipScale"` // 0: computed from hip height
	From     ArmatureConfig  `yaml:"from"`
	To       ArmatureConfig  `yaml:"to"`
	Springs  []*SpringConfig `yaml:"springs"`
}

// ArmatureConfig overrides bone classification. Keys are canonical names (e.g. "thigh_l").
type ArmatureConfig struct {
	Bones map[string][]string `yaml:"bones"`
	// Rest rotates bind bones by XYZ euler angles in degrees (e.g. A-pose to T-pose).
	Rest map[string][3]float32 `yaml:"rest"`
}

type SpringConfig struct {
	Name    string   `yaml:"name"`
	Bones   []string `yaml:"bones"`
	Type    string   `yaml:"type"` // "rot" or "pos"
	Osc     float32  `yaml:"osc"`
	OscEnd  float32  `yaml:"oscEnd"`
	Damping float32  `yaml:"damping"`
}

func Default() *Config {
	return &Config{FPS: 30}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	conf := Default()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if conf.FPS <= 0 {
		return nil, fmt.Errorf("config: invalid fps %v", conf.FPS)
	}
	for _, s := range conf.Springs {
		if s.Type == "" {
			s.Type = "rot"
		}
		if s.Type != "rot" && s.Type != "pos" {
			return nil, fmt.Errorf("config: invalid spring type %q", s.Type)
		}
		if s.Osc == 0 {
			s.Osc = 5
		}
		if s.OscEnd == 0 {
			s.OscEnd = s.Osc
		}
		if s.Damping == 0 {
			s.Damping = 0.5
		}
	}
	return conf, nil
}

// Apply replaces entries of m with configured bones of arm.
// An entry with more than one bone is a chain.
// Keys are applied in sorted order so new entries are added deterministically.
func (c *ArmatureConfig) Apply(m *bonemap.BoneMap, arm *armature.Armature) {
	keys := make([]string, 0, len(c.Bones))
	for key := range c.Bones {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		names := c.Bones[key]
		var bones []int
		var found []string
		for _, name := range names {
			i := arm.Index(name)
			if i < 0 {
				log.Println("Bone not found:", name)
				continue
			}
			bones = append(bones, i)
			found = append(found, name)
		}
		if len(bones) == 0 {
			continue
		}
		chain := len(bones) > 1
		if e := m.Get(key); e != nil {
			chain = chain || e.IsChain()
		}
		m.Set(key, chain, bones, found)
	}
}

// ApplyRest rotates bind bones of arm and recomputes world transforms.
func (c *ArmatureConfig) ApplyRest(arm *armature.Armature) {
	if len(c.Rest) == 0 {
		return
	}
	for name, r := range c.Rest {
		b := arm.BoneByName(name)
		if b == nil {
			log.Println("Bone not found:", name)
			continue
		}
		q := geom.NewEulerDegrees(r[0], r[1], r[2], geom.RotationOrderXYZ).ToQuaternion()
		b.Local.Rot = *b.Local.Rot.Mul(q)
	}
	arm.Finalize()
}
