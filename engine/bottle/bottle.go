// Package bottle assembles the OIISHI sauce bottle scene: lights, ground, camera and the
// bottle group with its label.
package bottle

import (
	"fmt"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/camera"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/label"
	"github.com/Carmen-Shannon/oiishi/engine/light"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/Carmen-Shannon/oiishi/engine/scene"
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// Node names used by the viewer and by exports.
const (
	GroupName  = "bottle"
	GroundName = "ground"
)

// RingCount is the number of decorative rings stacked under the cap.
const RingCount = 10

var (
	backgroundColor = common.Hex(0xf5f1ea)
	bodyColor       = common.Hex(0x2a2c26)
	capColor        = common.Hex(0xcfd1d2)
	ringColor       = common.Hex(0xb9bbbc)
	frameColor      = common.Hex(0xe5dcc7)
)

// Profile is the lathe outline of the bottle body as (radius, height) pairs, bottom to top.
var Profile = [][2]float32{
	{0, -1.2},
	{1.25, -1.2},
	{1.28, -1.1},
	{1.24, -0.5},
	{1.22, 0.6},
	{1.07, 1.05},
	{0.88, 1.34},
	{0.86, 1.65},
	{0.9, 1.68},
}

// AnisotropyReporter reports the maximum anisotropic filtering level of a renderer.
// renderer.Renderer satisfies it.
type AnisotropyReporter interface {
	MaxAnisotropy() uint16
}

// Assembly is an assembled bottle scene and every resource created for it.
type Assembly struct {
	Scene  scene.Scene
	Camera camera.Camera
	Bottle scene.Node
	Ground scene.Node
	Label  material.Texture
	Lights []light.Light

	geometries []geometry.Geometry
	materials  []material.Material
}

// Geometries returns every geometry in creation order. Each appears once.
func (a *Assembly) Geometries() []geometry.Geometry {
	return a.geometries
}

// Materials returns every unique material in creation order.
func (a *Assembly) Materials() []material.Material {
	return a.materials
}

// Textures returns the textures owned by the assembly.
func (a *Assembly) Textures() []material.Texture {
	return []material.Texture{a.Label}
}

func (a *Assembly) geometry(g geometry.Geometry) geometry.Geometry {
	a.geometries = append(a.geometries, g)
	return g
}

func (a *Assembly) material(m material.Material) material.Material {
	a.materials = append(a.materials, m)
	return m
}

// Assemble builds the bottle scene. It never fails: a label that cannot be drawn
// degrades to a blank texture.
//
// Parameters:
//   - r: source of the label's anisotropy level, may be nil
//   - options: variadic list of AssemblerOption functions
//
// Returns:
//   - *Assembly: the scene, camera, bottle group and owned resources
func Assemble(r AnisotropyReporter, options ...AssemblerOption) *Assembly {
	b := &assembler{logger: zap.NewNop()}
	for _, opt := range options {
		opt(b)
	}
	logger := b.logger.With(zap.String("component", "bottle"))

	anisotropy := uint16(1)
	if r != nil {
		anisotropy = r.MaxAnisotropy()
	}

	a := &Assembly{}

	a.Camera = camera.NewCamera(
		camera.WithPerspective(35, 1, 0.1, 100),
		camera.WithPosition(4.2, 3.2, 6),
	)

	hemi := light.NewLight(
		light.WithType(light.LightTypeHemisphere),
		light.WithName("fill"),
		light.WithColor(common.Hex(0xffffff)),
		light.WithGroundColor(common.Hex(0xd9cbb6)),
		light.WithIntensity(0.9),
	)
	key := light.NewLight(
		light.WithType(light.LightTypeDirectional),
		light.WithName("key"),
		light.WithColor(common.Hex(0xffffff)),
		light.WithIntensity(1.05),
		light.WithPosition(5, 8, 4),
		light.WithCastsShadows(true),
		light.WithShadowMapSize(light.ShadowMapResolution, light.ShadowMapResolution),
	)
	a.Lights = []light.Light{hemi, key}

	a.Scene = scene.NewScene(
		scene.WithBackground(backgroundColor),
		scene.WithLights(a.Lights...),
	)

	a.Ground = scene.NewMesh(GroundName,
		a.geometry(geometry.NewPlane(50, 50, geometry.WithName("ground"))),
		a.material(material.NewShadowMaterial(0.18, material.WithName("ground"))),
		scene.WithRotation(-math32.Pi/2, 0, 0),
		scene.WithPosition(0, -1.25, 0),
		scene.WithShadows(false, true),
	)
	a.Scene.Add(a.Ground)

	body := a.material(material.NewMaterial(
		material.WithName("body"),
		material.WithKind(material.KindPhysical),
		material.WithColor(bodyColor),
		material.WithRoughness(0.5),
		material.WithMetalness(0.05),
		material.WithClearcoat(0.25),
		material.WithSheen(0.25),
	))
	capMat := a.material(material.NewMaterial(
		material.WithName("cap"),
		material.WithKind(material.KindPhysical),
		material.WithColor(capColor),
		material.WithRoughness(0.8),
		material.WithMetalness(0),
	))
	ring := a.material(material.NewMaterial(
		material.WithName("ring"),
		material.WithColor(ringColor),
		material.WithRoughness(0.6),
		material.WithMetalness(0.1),
	))

	a.Label = b.texture
	if a.Label == nil {
		a.Label = label.Build(append([]label.BuilderOption{
			label.WithAnisotropy(anisotropy),
			label.WithLogger(b.logger),
		}, b.labelOptions...)...)
	}
	labelMat := a.material(material.NewMaterial(
		material.WithName("label"),
		material.WithMap(a.Label),
		material.WithRoughness(0.85),
		material.WithMetalness(0),
	))
	frame := a.material(material.NewMaterial(
		material.WithName("frame"),
		material.WithColor(frameColor),
		material.WithRoughness(0.9),
	))

	castReceive := scene.WithShadows(true, true)
	castOnly := scene.WithShadows(true, false)

	group := scene.NewGroup(GroupName)
	group.Add(
		scene.NewMesh("body", a.geometry(geometry.NewLathe(Profile, 192, geometry.WithName("body"))), body, castReceive),
		scene.NewMesh("base", a.geometry(geometry.NewCylinder(0.95, 0.95, 0.25, 96, geometry.WithName("base"))), body,
			castReceive, scene.WithPosition(0, -0.6, 0)),
		scene.NewMesh("cap", a.geometry(geometry.NewCylinder(0.75, 0.75, 0.5, 96, geometry.WithName("cap"))), capMat,
			castOnly, scene.WithPosition(0, 1.95, 0)),
		scene.NewMesh("tip", a.geometry(geometry.NewCone(0.22, 0.5, 96, geometry.WithName("tip"))), capMat,
			castOnly, scene.WithPosition(0, 2.35, 0)),
	)
	for i := range RingCount {
		name := fmt.Sprintf("ring-%d", i)
		group.Add(scene.NewMesh(name, a.geometry(geometry.NewTorus(0.75, 0.03, 8, 80, geometry.WithName(name))), ring,
			castOnly,
			scene.WithPosition(0, 1.76+float32(i)*0.03, 0),
			scene.WithRotation(math32.Pi/2, 0, 0),
		))
	}
	group.Add(
		scene.NewMesh("label", a.geometry(geometry.NewPlane(2.25, 2.05, geometry.WithName("label"))), labelMat,
			scene.WithPosition(0, 0.1, 1.238)),
		scene.NewMesh("frame", a.geometry(geometry.NewPlane(2.27, 2.07, geometry.WithName("frame"))), frame,
			scene.WithPosition(0, 0.1, 1.234), scene.WithRenderOrder(-1)),
	)
	a.Bottle = group
	a.Scene.Add(group)

	logger.Debug("bottle assembled",
		zap.Int("geometries", len(a.geometries)),
		zap.Int("materials", len(a.materials)),
		zap.Bool("blank_label", a.Label.Blank()),
		zap.Uint16("anisotropy", anisotropy),
	)
	return a
}
