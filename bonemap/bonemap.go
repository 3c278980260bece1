package bonemap

import (
	"regexp"
	"strings"

	"github.com/binzume/ikretarget/armature"
	"golang.org/x/text/unicode/norm"
)

// Rule classifies a bone name into a canonical role.
type Rule struct {
	Name  string
	LR    bool
	Chain bool

	match   *regexp.Regexp
	exclude *regexp.Regexp
}

func NewRule(name, match, exclude string, lr, chain bool) *Rule {
	r := &Rule{Name: name, LR: lr, Chain: chain, match: regexp.MustCompile("(?i)" + match)}
	if exclude != "" {
		r.exclude = regexp.MustCompile("(?i)" + exclude)
	}
	return r
}

func (r *Rule) Match(name string) bool {
	return r.match.MatchString(name) && (r.exclude == nil || !r.exclude.MatchString(name))
}

// Rules are tested in order. The first match wins.
var Rules = []*Rule{
	NewRule("thigh", `thigh|up.*leg`, `twist`, true, true),
	NewRule("shin", `shin|leg|calf`, `up|twist`, true, true),
	NewRule("foot", `foot`, ``, true, true),
	NewRule("shoulder", `clavicle|shoulder`, ``, true, false),
	NewRule("upperarm", `(upper.*arm|arm)`, `fore|twist|lower|armature`, true, true),
	NewRule("forearm", `forearm|arm`, `up|twist|armature`, true, true),
	NewRule("hand", `hand`, `thumb|index|middle|ring|pinky`, true, false),
	NewRule("head", `head`, ``, false, false),
	NewRule("neck", `neck`, ``, false, false),
	NewRule("hip", `hips*|pelvis`, ``, false, false),
	NewRule("spine", `spine.*\d*|chest`, ``, false, true),
}

var (
	leftPattern  = regexp.MustCompile(`(?i)\.l|left|_l`)
	rightPattern = regexp.MustCompile(`(?i)\.r|right|_r`)
)

// Classify returns the canonical key of a bone name and its rule.
// Returns nil rule if no rule matches.
func Classify(name string) (string, *Rule) {
	name = norm.NFKC.String(name)
	for _, r := range Rules {
		if !r.Match(name) {
			continue
		}
		if !r.LR {
			return r.Name, r
		}
		if leftPattern.MatchString(name) {
			return r.Name + "_l", r
		}
		if rightPattern.MatchString(name) {
			return r.Name + "_r", r
		}
		// no side found. keep unsuffixed
		return r.Name, r
	}
	return "", nil
}

// Entry is a single bone or an ordered chain of bones.
type Entry struct {
	Key   string
	Bones []int
	Names []string
	chain bool
}

func (e *Entry) IsChain() bool {
	return e.chain
}

func (e *Entry) Len() int {
	return len(e.Bones)
}

// First returns the first (or the only) bone index.
func (e *Entry) First() int {
	return e.Bones[0]
}

func (e *Entry) Last() int {
	return e.Bones[len(e.Bones)-1]
}

type BoneMap struct {
	entries map[string]*Entry
	keys    []string
}

func newBoneMap() *BoneMap {
	return &BoneMap{entries: map[string]*Entry{}}
}

// Parse classifies names. Bone indices of entries are indices into names.
func Parse(names []string) *BoneMap {
	m := newBoneMap()
	for i, name := range names {
		m.add(i, name)
	}
	return m
}

// New classifies bones of the armature under root. root < 0 means all bones.
func New(arm *armature.Armature, root int) *BoneMap {
	m := newBoneMap()
	if root < 0 {
		for _, b := range arm.Bones {
			m.add(b.Index, b.Name)
		}
		return m
	}
	for _, i := range arm.Descendants(root) {
		m.add(i, arm.Bones[i].Name)
	}
	return m
}

func (m *BoneMap) add(index int, name string) {
	key, rule := Classify(name)
	if rule == nil {
		return
	}
	e, ok := m.entries[key]
	if ok && !rule.Chain {
		return
	}
	if !ok {
		e = &Entry{Key: key, chain: rule.Chain}
		m.entries[key] = e
		m.keys = append(m.keys, key)
	}
	e.Bones = append(e.Bones, index)
	e.Names = append(e.Names, name)
}

// Set replaces an entry. Used for explicit bone assignments.
func (m *BoneMap) Set(key string, chain bool, bones []int, names []string) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = &Entry{Key: key, Bones: bones, Names: names, chain: chain}
}

func (m *BoneMap) Get(key string) *Entry {
	return m.entries[key]
}

// Keys returns keys in order of first appearance.
func (m *BoneMap) Keys() []string {
	return m.keys
}

func (m *BoneMap) String() string {
	var sb strings.Builder
	for _, k := range m.keys {
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(strings.Join(m.entries[k].Names, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}
