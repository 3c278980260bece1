package gltfutil

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/geom"
	"github.com/qmuntal/gltf"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// Save writes .gltf as JSON and others as GLB.
func Save(doc *gltf.Document, path string) error {
	if strings.ToLower(filepath.Ext(path)) == ".gltf" {
		return gltf.Save(doc, path)
	}
	return gltf.SaveBinary(doc, path)
}

var identityMatrix = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// NodeTransform returns the local transform of a node. Unset values are treated as defaults.
func NodeTransform(n *gltf.Node) *geom.Transform {
	if n.Matrix != [16]float32{} && n.Matrix != identityMatrix {
		pos, rot, scale := geom.NewMatrix4FromSlice(n.Matrix[:]).Decompose()
		return geom.NewTransformFromTRS(pos, rot, scale)
	}
	t := geom.NewTransform()
	t.Pos = *geom.NewVector3FromArray(n.Translation)
	if n.Rotation != [4]float32{} {
		t.Rot = *geom.NewQuaternionFromArray(n.Rotation)
	}
	if n.Scale != [3]float32{} {
		t.Scale = *geom.NewVector3FromArray(n.Scale)
	}
	return t
}

// LoadArmature builds an armature from joints of a skin and their ancestor nodes, or from all nodes if skin < 0.
// Every bone keeps the local transform of its node, so animation channels apply to bones as is.
// Returns the armature and a map from node index to bone index.
func LoadArmature(doc *gltf.Document, skin int) (*armature.Armature, map[uint32]int, error) {
	parents := map[uint32]uint32{}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) >= len(doc.Nodes) {
				return nil, nil, fmt.Errorf("node %d out of range", c)
			}
			if _, exists := parents[c]; exists {
				return nil, nil, fmt.Errorf("node %d has multiple parents", c)
			}
			parents[c] = uint32(i)
		}
	}

	include := map[uint32]bool{}
	if skin >= 0 {
		if skin >= len(doc.Skins) {
			return nil, nil, fmt.Errorf("skin %d out of range", skin)
		}
		for _, j := range doc.Skins[skin].Joints {
			if int(j) >= len(doc.Nodes) {
				return nil, nil, fmt.Errorf("joint %d out of range", j)
			}
			for n, ok := j, true; ok && !include[n]; n, ok = parents[n] {
				include[n] = true
			}
		}
	}

	a := armature.New()
	nodeToBone := map[uint32]int{}
	var walk func(ni uint32, parent int)
	walk = func(ni uint32, parent int) {
		if skin >= 0 && !include[ni] {
			return
		}
		n := doc.Nodes[ni]
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("node%d", ni)
		}
		t := NodeTransform(n)
		b := a.AddBone(name, parent, &t.Pos, &t.Rot, &t.Scale)
		nodeToBone[ni] = b.Index
		for _, c := range n.Children {
			walk(c, b.Index)
		}
	}
	for i := range doc.Nodes {
		if _, ok := parents[uint32(i)]; !ok {
			walk(uint32(i), -1)
		}
	}
	if len(a.Bones) == 0 {
		return nil, nil, fmt.Errorf("no bones")
	}
	a.Finalize()
	return a, nodeToBone, nil
}

// BoneToNode inverts a node to bone map.
func BoneToNode(nodeToBone map[uint32]int) map[int]uint32 {
	m := map[int]uint32{}
	for n, b := range nodeToBone {
		m[b] = n
	}
	return m
}
