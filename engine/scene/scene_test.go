package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mesh(name string, options ...NodeBuilderOption) Node {
	return NewMesh(name, geometry.NewPlane(1, 1), material.NewMaterial(), options...)
}

func TestNode_WorldMatrixComposesAncestors(t *testing.T) {
	child := mesh("child", WithPosition(0, 0, 1))
	group := NewNode(WithName("group"), WithPosition(0, 2, 0), WithChildren(child))
	group.RotateY(math32.Pi / 2)

	p := child.WorldMatrix().TransformPoint(common.Vec3{})
	// +Z rotated a quarter turn about Y lands on +X
	assert.InDelta(t, 1, p[0], 1e-5)
	assert.InDelta(t, 2, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)
}

func TestNode_AddReparents(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewGroup("c")

	a.Add(c)
	b.Add(c)

	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Equal(t, b, c.Parent())
}

func TestNode_AddRejectsCycles(t *testing.T) {
	a := NewGroup("a")
	b := NewGroup("b")
	a.Add(b)

	b.Add(a)
	a.Add(a)

	assert.Nil(t, a.Parent())
	assert.Empty(t, b.Children())
}

func TestScene_SingleRoot(t *testing.T) {
	s := NewScene(WithBackground(common.Hex(0xf5f1ea)))
	g := NewGroup("bottle", mesh("body"))
	s.Add(g)

	assert.Equal(t, "scene", s.Root().Name())
	assert.Nil(t, s.Root().Parent())
	assert.Equal(t, g, s.Find("bottle"))
	assert.NotNil(t, s.Find("body"))
	assert.Nil(t, s.Find("missing"))
	assert.Equal(t, uint32(0xf5f1ea), s.Background().Hex())
}

func TestScene_RenderListSkipsHiddenSubtrees(t *testing.T) {
	s := NewScene()
	hidden := NewNode(WithName("hidden"), WithVisible(false), WithChildren(mesh("inner")))
	s.Add(mesh("shown"), hidden)

	items := s.RenderList()
	require.Len(t, items, 1)
	assert.Equal(t, "shown", items[0].Node.Name())
}

func TestScene_RenderListOrder(t *testing.T) {
	s := NewScene()
	glass := NewMesh("glass", geometry.NewPlane(1, 1), material.NewMaterial(material.WithTransparent(true)))
	s.Add(glass, mesh("label"), mesh("frame", WithRenderOrder(-1)))

	items := s.RenderList()
	require.Len(t, items, 3)
	assert.Equal(t, "frame", items[0].Node.Name())
	assert.Equal(t, "label", items[1].Node.Name())
	assert.Equal(t, "glass", items[2].Node.Name())
}
