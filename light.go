package gltfscene

import (
	"math"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec3"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
)

type LightKind uint8

const (
	// DirectionalLight intensity is in lux.
	DirectionalLight LightKind = iota
	// PointLight intensity is in candela.
	PointLight
	// SpotLight intensity is in candela inside the inner cone.
	SpotLight
)

func (k LightKind) String() string {
	switch k {
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	}
	return "directional"
}

// Light is a snapshot of a KHR_lights_punctual light in world space.
// Position is only meaningful for point and spot lights, Direction for
// directional and spot lights, the cone angles for spot lights.
type Light struct {
	Kind      LightKind
	Name      string
	Index     int
	Position  dvec3.T
	Direction dvec3.T
	Color     vec3.T
	Intensity float32
	// Range is 0 when the light has infinite range.
	Range          float32
	InnerConeAngle float32
	OuterConeAngle float32
}

func documentLights(doc *gltf.Document) ([]*lightspunctual.Light, error) {
	v, ok := doc.Extensions[lightspunctual.ExtensionName]
	if !ok {
		return nil, nil
	}
	switch lights := v.(type) {
	case lightspunctual.Lights:
		return lights, nil
	case *lightspunctual.Lights:
		return *lights, nil
	}
	var ext struct {
		Lights []*lightspunctual.Light `json:"lights"`
	}
	if err := decodeExtension(v, &ext); err != nil {
		return nil, errors.Wrap(err, lightspunctual.ExtensionName)
	}
	return ext.Lights, nil
}

// nodeLight returns the light index attached to nd, or -1.
func nodeLight(nd *gltf.Node) (int, error) {
	v, ok := nd.Extensions[lightspunctual.ExtensionName]
	if !ok {
		return -1, nil
	}
	switch idx := v.(type) {
	case lightspunctual.LightIndex:
		return int(idx), nil
	case *lightspunctual.LightIndex:
		return int(*idx), nil
	}
	var ref struct {
		Light *int `json:"light"`
	}
	if err := decodeExtension(v, &ref); err != nil {
		return -1, errors.Wrap(err, lightspunctual.ExtensionName)
	}
	if ref.Light == nil {
		return -1, nil
	}
	return *ref.Light, nil
}

func loadLight(index int, pl *lightspunctual.Light, world *dmat.T) *Light {
	c := pl.ColorOrDefault()
	lt := &Light{
		Name:      pl.Name,
		Index:     index,
		Color:     vec3.T{float32(c[0]), float32(c[1]), float32(c[2])},
		Intensity: float32(pl.IntensityOrDefault()),
	}
	if pl.Range != nil && !math.IsInf(*pl.Range, 0) {
		lt.Range = float32(*pl.Range)
	}
	forward := axis(world, 2)
	forward.Invert()
	switch pl.Type {
	case lightspunctual.TypePoint:
		lt.Kind = PointLight
		lt.Position = translation(world)
	case lightspunctual.TypeSpot:
		lt.Kind = SpotLight
		lt.Position = translation(world)
		lt.Direction = forward
		spot := pl.Spot
		if spot == nil {
			spot = &lightspunctual.Spot{}
		}
		lt.InnerConeAngle = float32(spot.InnerConeAngle)
		lt.OuterConeAngle = float32(spot.OuterConeAngleOrDefault())
	default:
		lt.Kind = DirectionalLight
		lt.Direction = forward
	}
	return lt
}
