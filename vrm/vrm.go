package vrm

// https://vrm.dev/
// https://github.com/vrm-c/vrm-specification/blob/master/specification/0.0/README.ja.md

import (
	"encoding/json"

	"github.com/qmuntal/gltf"
)

const (
	ExtensionName = "VRM"
)

func init() {
	gltf.RegisterExtension(ExtensionName, Unmarshal)
}

type Metadata struct {
	Title   string `json:"title"`
	Version string `json:"version"`
	Author  string `json:"author"`

	LicenseName     string `json:"licenseName"`
	OtherLicenseUrl string `json:"otherLicenseUrl"`
}

type Bone struct {
	Bone             string  `json:"bone"`
	Node             int     `json:"node"`
	UseDefaultValues bool    `json:"useDefaultValues"`
	AxisLength       float32 `json:"axisLength"`
}

type Humanoid struct {
	Bones []*Bone `json:"humanBones"`
}

type VRM struct {
	Meta     Metadata `json:"meta"`
	Humanoid Humanoid `json:"humanoid"`

	FirstPerson        interface{} `json:"firstPerson"`
	BlendShapeMaster   interface{} `json:"blendShapeMaster"`
	SecondaryAnimation interface{} `json:"secondaryAnimation"`
	MaterialProperties interface{} `json:"materialProperties"`

	ExporterVersion string `json:"exporterVersion"`
}

func Unmarshal(data []byte) (interface{}, error) {
	var vrmext VRM
	if err := json.Unmarshal(data, &vrmext); err != nil {
		return nil, err
	}
	return &vrmext, nil
}

// Get returns the VRM extension of doc or nil.
func Get(doc *gltf.Document) *VRM {
	if ext, ok := doc.Extensions[ExtensionName].(*VRM); ok {
		return ext
	}
	return nil
}

// NodeNames returns humanoid bone names by node index.
func (v *VRM) NodeNames() map[uint32]string {
	names := map[uint32]string{}
	for _, b := range v.Humanoid.Bones {
		if b.Node >= 0 {
			names[uint32(b.Node)] = b.Bone
		}
	}
	return names
}
