package gltfutil

import (
	"fmt"
	"log"

	"github.com/binzume/ikretarget/animation"
	"github.com/binzume/ikretarget/armature"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func readAccessor(doc *gltf.Document, index *uint32) (interface{}, error) {
	if index == nil || int(*index) >= len(doc.Accessors) {
		return nil, fmt.Errorf("invalid accessor")
	}
	return modeler.ReadAccessor(doc, doc.Accessors[*index], nil)
}

// LoadClip reads an animation. Channels targeting nodes not in nodeToBone are skipped.
func LoadClip(doc *gltf.Document, anim int, nodeToBone map[uint32]int) (*animation.Clip, error) {
	if anim < 0 || anim >= len(doc.Animations) {
		return nil, fmt.Errorf("animation %d out of range", anim)
	}
	a := doc.Animations[anim]
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("animation%d", anim)
	}
	clip := animation.NewClip(name)

	for i, ch := range a.Channels {
		if ch.Target.Node == nil || ch.Sampler == nil || int(*ch.Sampler) >= len(a.Samplers) {
			continue
		}
		bone, ok := nodeToBone[*ch.Target.Node]
		if !ok {
			continue
		}
		sampler := a.Samplers[*ch.Sampler]
		input, err := readAccessor(doc, sampler.Input)
		if err != nil {
			return nil, fmt.Errorf("channel %d input: %w", i, err)
		}
		times, ok := input.([]float32)
		if !ok {
			return nil, fmt.Errorf("channel %d: unsupported input type", i)
		}

		track := &animation.Track{Bone: bone, Times: times}
		switch sampler.Interpolation {
		case gltf.InterpolationStep:
			track.Interpolation = animation.Step
		case gltf.InterpolationCubicSpline:
			log.Println("Cubic spline is sampled as linear:", name, i)
		}

		output, err := readAccessor(doc, sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("channel %d output: %w", i, err)
		}
		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			track.Path = animation.Translation
			if ch.Target.Path == gltf.TRSScale {
				track.Path = animation.Scale
			}
			v, ok := output.([][3]float32)
			if !ok {
				return nil, fmt.Errorf("channel %d: unsupported output type", i)
			}
			track.Vec3 = v
		case gltf.TRSRotation:
			track.Path = animation.Rotation
			v, ok := output.([][4]float32)
			if !ok {
				return nil, fmt.Errorf("channel %d: unsupported rotation type", i)
			}
			track.Quat = v
		default:
			continue
		}
		if sampler.Interpolation == gltf.InterpolationCubicSpline {
			dropTangents(track)
		}
		clip.AddTrack(track)
	}
	return clip, nil
}

// dropTangents keeps values of cubic spline keys (in-tangent, value, out-tangent).
func dropTangents(t *animation.Track) {
	if len(t.Vec3) == len(t.Times)*3 {
		v := make([][3]float32, len(t.Times))
		for i := range v {
			v[i] = t.Vec3[i*3+1]
		}
		t.Vec3 = v
	}
	if len(t.Quat) == len(t.Times)*3 {
		v := make([][4]float32, len(t.Times))
		for i := range v {
			v[i] = t.Quat[i*3+1]
		}
		t.Quat = v
	}
}

// WriteClip adds baked frames as an animation. Channels are written only for bones that move.
func WriteClip(doc *gltf.Document, name string, frames []*armature.Pose, fps float32, boneToNode map[int]uint32) *gltf.Animation {
	if len(frames) == 0 {
		return nil
	}
	a := &gltf.Animation{Name: name}
	var keys []float32
	for i := range frames {
		keys = append(keys, float32(i)/fps)
	}
	keysAcc := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, keys)

	addChannel := func(node, acc uint32, path gltf.TRSProperty) {
		a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(keysAcc),
			Output:        gltf.Index(acc),
			Interpolation: gltf.InterpolationLinear,
		})
		a.Channels = append(a.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(node),
				Path: path,
			},
		})
	}

	arm := frames[0].Armature
	for bi, b := range arm.Bones {
		node, ok := boneToNode[bi]
		if !ok {
			continue
		}
		rotate := false
		translate := false
		var rotations [][4]float32
		var translations [][3]float32
		for _, f := range frames {
			r := f.LocalRot(bi).Array()
			p := f.LocalPos(bi).Array()
			if r != b.Local.Rot.Array() {
				rotate = true
			}
			if p != b.Local.Pos.Array() {
				translate = true
			}
			rotations = append(rotations, r)
			translations = append(translations, p)
		}
		if rotate {
			addChannel(node, modeler.WriteTangent(doc, rotations), gltf.TRSRotation)
		}
		if translate {
			addChannel(node, modeler.WritePosition(doc, translations), gltf.TRSTranslation)
		}
	}
	if len(a.Channels) == 0 {
		log.Println("No animated bones:", name)
		return nil
	}
	doc.Animations = append(doc.Animations, a)
	return a
}
