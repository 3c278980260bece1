package vrm

import (
	"github.com/binzume/ikretarget/bonemap"
	"github.com/qmuntal/gltf"
)

// BoneMap classifies bones by humanoid bone names instead of node names.
// Returns nil if doc has no VRM humanoid.
func BoneMap(doc *gltf.Document, nodeToBone map[uint32]int, boneCount int) *bonemap.BoneMap {
	v := Get(doc)
	if v == nil || len(v.Humanoid.Bones) == 0 {
		return nil
	}
	names := make([]string, boneCount)
	for node, name := range v.NodeNames() {
		if b, ok := nodeToBone[node]; ok && b < boneCount {
			names[b] = name
		}
	}
	return bonemap.Parse(names)
}
