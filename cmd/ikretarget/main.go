package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/ikretarget/animation"
	"github.com/binzume/ikretarget/armature"
	"github.com/binzume/ikretarget/autorig"
	"github.com/binzume/ikretarget/bonemap"
	"github.com/binzume/ikretarget/config"
	"github.com/binzume/ikretarget/geom"
	"github.com/binzume/ikretarget/gltfutil"
	"github.com/binzume/ikretarget/retarget"
	"github.com/binzume/ikretarget/springs"
	"github.com/binzume/ikretarget/vrm"
	"github.com/qmuntal/gltf"
)

type model struct {
	doc        *gltf.Document
	arm        *armature.Armature
	nodeToBone map[uint32]int
	boneMap    *bonemap.BoneMap
}

func loadModel(path string, conf *config.ArmatureConfig) (*model, error) {
	doc, err := gltfutil.Load(path)
	if err != nil {
		return nil, err
	}
	skin := -1
	if len(doc.Skins) > 0 {
		skin = 0
	}
	arm, nodeToBone, err := gltfutil.LoadArmature(doc, skin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	conf.ApplyRest(arm)
	m := vrm.BoneMap(doc, nodeToBone, len(arm.Bones))
	if m == nil {
		m = bonemap.New(arm, -1)
	}
	conf.Apply(m, arm)
	return &model{doc: doc, arm: arm, nodeToBone: nodeToBone, boneMap: m}, nil
}

func defaultOutputFile(input string) string {
	ext := filepath.Ext(input)
	return input[0:len(input)-len(ext)] + "_retarget.glb"
}

func bakeRotations(from, to *model, clip *animation.Clip, conf *config.Config) ([]*armature.Pose, error) {
	r := retarget.New(from.arm.NewPose(), to.arm.NewPose())
	r.FromMap = from.boneMap
	r.ToMap = to.boneMap
	r.SetClip(clip)
	if !r.Bind() {
		return nil, fmt.Errorf("no bones to retarget")
	}
	if conf.HipScale > 0 {
		r.HipScale = conf.HipScale
	}
	log.Println("Linked bones:", len(r.Links), "hip scale:", r.HipScale)
	return r.Bake(conf.FPS), nil
}

func bakeIK(from, to *model, clip *animation.Clip, conf *config.Config) ([]*armature.Pose, error) {
	fromPose := from.arm.NewPose()
	toPose := to.arm.NewPose()
	src := autorig.NewBiped()
	dst := autorig.NewBiped()
	if !src.AutoRigWithMap(fromPose, from.boneMap) || !dst.AutoRigWithMap(toPose, to.boneMap) {
		log.Println("Some chains are missing")
	}
	src.UseSolversForRetarget(fromPose)
	dst.UseSolversForRetarget(toPose)

	ik := autorig.NewBipedIKPose()
	var frames []*armature.Pose
	n := int(clip.Duration()*conf.FPS) + 1
	for i := 0; i < n; i++ {
		fromPose.Reset()
		clip.Sample(fromPose, float32(i)/conf.FPS)
		ik.Compute(src, fromPose)
		toPose.Reset()
		ik.ApplyToRig(dst, toPose)
		toPose.UpdateWorld()
		frames = append(frames, toPose.Clone())
	}
	return frames, nil
}

func applySprings(frames []*armature.Pose, conf *config.Config, fps float32) {
	if len(conf.Springs) == 0 || len(frames) == 0 {
		return
	}
	bs := springs.NewBoneSpring()
	rest := frames[0].Armature.NewPose()
	for i, s := range conf.Springs {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("spring%d", i)
		}
		c := bs.Add(rest, name, s.Type == "rot", geom.Element(s.Osc), geom.Element(s.Damping), s.Bones...)
		if c != nil {
			c.SetOsc(geom.Element(s.Osc), geom.Element(s.OscEnd), geom.Element(s.Damping))
		}
	}
	for _, f := range frames {
		bs.UpdatePose(f, 1/fps)
		f.UpdateWorld()
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s from.glb to.glb [output.glb]\n", os.Args[0])
		flag.PrintDefaults()
	}
	confFile := flag.String("config", "", "config file (.yaml)")
	animIndex := flag.Int("anim", 0, "animation index of from.glb")
	fps := flag.Float64("fps", 0, "sampling rate. 0: config or 30")
	mode := flag.String("mode", "rot", "rot: copy rotations, ik: transfer IK pose (biped)")
	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	target := flag.Arg(1)
	output := defaultOutputFile(target)
	if flag.NArg() > 2 {
		output = flag.Arg(2)
	}

	conf := config.Default()
	if *confFile != "" {
		var err error
		if conf, err = config.Load(*confFile); err != nil {
			log.Fatal(err)
		}
	}
	if *fps > 0 {
		conf.FPS = float32(*fps)
	}

	from, err := loadModel(input, &conf.From)
	if err != nil {
		log.Fatal(err)
	}
	to, err := loadModel(target, &conf.To)
	if err != nil {
		log.Fatal(err)
	}
	clip, err := gltfutil.LoadClip(from.doc, *animIndex, from.nodeToBone)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Animation:", clip.Name, "duration:", clip.Duration())

	var frames []*armature.Pose
	switch strings.ToLower(*mode) {
	case "rot":
		frames, err = bakeRotations(from, to, clip, conf)
	case "ik":
		frames, err = bakeIK(from, to, clip, conf)
	default:
		err = fmt.Errorf("unknown mode: %v", *mode)
	}
	if err != nil {
		log.Fatal(err)
	}
	applySprings(frames, conf, conf.FPS)

	if gltfutil.WriteClip(to.doc, clip.Name, frames, conf.FPS, gltfutil.BoneToNode(to.nodeToBone)) == nil {
		log.Fatal("No animation to write")
	}
	log.Print("out: ", output)
	if err := gltfutil.Save(to.doc, output); err != nil {
		log.Fatal(err)
	}
}
