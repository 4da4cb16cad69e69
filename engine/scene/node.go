package scene

import (
	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
)

// node is the implementation of the Node interface.
// Nodes are not safe for concurrent mutation; the viewer mutates them from its frame loop only.
type node struct {
	name     string
	position common.Vec3
	rotation common.Vec3
	scale    common.Vec3

	visible       bool
	castShadow    bool
	receiveShadow bool
	renderOrder   int

	geometry geometry.Geometry
	material material.Material

	parent   *node
	children []*node
}

// Node is an element of the scene graph: a local transform, optional mesh payload
// (geometry + material) and children. A node belongs to at most one parent.
type Node interface {
	// Name returns the node name.
	Name() string

	// SetName renames the node.
	SetName(name string)

	// Position returns the local translation.
	Position() common.Vec3

	// SetPosition sets the local translation.
	SetPosition(p common.Vec3)

	// Rotation returns the local XYZ Euler rotation in radians.
	Rotation() common.Vec3

	// SetRotation sets the local XYZ Euler rotation in radians.
	SetRotation(r common.Vec3)

	// RotateY adds delta radians to the Y rotation.
	RotateY(delta float32)

	// Scale returns the local scale.
	Scale() common.Vec3

	// SetScale sets the local scale.
	SetScale(s common.Vec3)

	// Visible reports whether the node and its subtree are drawn and exported.
	Visible() bool

	// SetVisible shows or hides the node and its subtree.
	SetVisible(visible bool)

	// CastShadow reports whether the mesh is drawn into shadow maps.
	CastShadow() bool

	// SetCastShadow toggles shadow casting.
	SetCastShadow(cast bool)

	// ReceiveShadow reports whether the mesh samples shadow maps.
	ReceiveShadow() bool

	// SetReceiveShadow toggles shadow receiving.
	SetReceiveShadow(receive bool)

	// RenderOrder returns the draw order key; lower values draw first.
	RenderOrder() int

	// SetRenderOrder sets the draw order key.
	SetRenderOrder(order int)

	// IsMesh reports whether the node carries both a geometry and a material.
	IsMesh() bool

	// Geometry returns the mesh geometry, or nil for groups.
	Geometry() geometry.Geometry

	// Material returns the mesh material, or nil for groups.
	Material() material.Material

	// Parent returns the parent node, or nil for a root or detached node.
	Parent() Node

	// Children returns the direct children in insertion order.
	Children() []Node

	// Add attaches children to this node, detaching each from any previous parent first.
	// Adding a node to itself or to one of its descendants is ignored.
	//
	// Parameters:
	//   - children: nodes to attach
	Add(children ...Node)

	// Remove detaches a direct child.
	//
	// Returns:
	//   - bool: true if child was a direct child of this node
	Remove(child Node) bool

	// LocalMatrix returns T * R * S for this node.
	LocalMatrix() common.Mat4

	// WorldMatrix returns the composition of every ancestor's local matrix with this node's.
	WorldMatrix() common.Mat4

	// Traverse visits this node and its descendants depth-first in child order.
	// Returning false from fn skips the visited node's children.
	Traverse(fn func(Node) bool)
}

var _ Node = &node{}

// NewNode creates a scene graph node. Without WithMesh it is a plain group.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Node: the node
func NewNode(options ...NodeBuilderOption) Node {
	n := &node{
		scale:   common.Vec3{1, 1, 1},
		visible: true,
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// NewGroup creates a named node without a mesh payload.
func NewGroup(name string, children ...Node) Node {
	g := NewNode(WithName(name))
	g.Add(children...)
	return g
}

// NewMesh creates a named node rendering geometry with material.
func NewMesh(name string, g geometry.Geometry, m material.Material, options ...NodeBuilderOption) Node {
	return NewNode(append([]NodeBuilderOption{WithName(name), WithMesh(g, m)}, options...)...)
}

func (n *node) Name() string {
	return n.name
}

func (n *node) SetName(name string) {
	n.name = name
}

func (n *node) Position() common.Vec3 {
	return n.position
}

func (n *node) SetPosition(p common.Vec3) {
	n.position = p
}

func (n *node) Rotation() common.Vec3 {
	return n.rotation
}

func (n *node) SetRotation(r common.Vec3) {
	n.rotation = r
}

func (n *node) RotateY(delta float32) {
	n.rotation[1] += delta
}

func (n *node) Scale() common.Vec3 {
	return n.scale
}

func (n *node) SetScale(s common.Vec3) {
	n.scale = s
}

func (n *node) Visible() bool {
	return n.visible
}

func (n *node) SetVisible(visible bool) {
	n.visible = visible
}

func (n *node) CastShadow() bool {
	return n.castShadow
}

func (n *node) SetCastShadow(cast bool) {
	n.castShadow = cast
}

func (n *node) ReceiveShadow() bool {
	return n.receiveShadow
}

func (n *node) SetReceiveShadow(receive bool) {
	n.receiveShadow = receive
}

func (n *node) RenderOrder() int {
	return n.renderOrder
}

func (n *node) SetRenderOrder(order int) {
	n.renderOrder = order
}

func (n *node) IsMesh() bool {
	return n.geometry != nil && n.material != nil
}

func (n *node) Geometry() geometry.Geometry {
	return n.geometry
}

func (n *node) Material() material.Material {
	return n.material
}

func (n *node) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *node) Add(children ...Node) {
	for _, c := range children {
		child, ok := c.(*node)
		if !ok || child == nil || child.isAncestorOf(n) {
			continue
		}
		if child.parent != nil {
			child.parent.Remove(child)
		}
		child.parent = n
		n.children = append(n.children, child)
	}
}

func (n *node) Remove(child Node) bool {
	c, ok := child.(*node)
	if !ok {
		return false
	}
	for i, existing := range n.children {
		if existing == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

// isAncestorOf reports whether n is other or one of other's ancestors.
func (n *node) isAncestorOf(other *node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *node) LocalMatrix() common.Mat4 {
	return common.Compose(n.position, n.rotation, n.scale)
}

func (n *node) WorldMatrix() common.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

func (n *node) Traverse(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}
