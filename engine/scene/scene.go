// Package scene holds the scene graph: a single root node, a background color and lights.
package scene

import (
	"sort"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/light"
)

// scene is the implementation of the Scene interface.
type scene struct {
	root       *node
	background common.Color
	lights     []light.Light
}

// RenderItem is one visible mesh resolved for drawing.
type RenderItem struct {
	Node  Node
	World common.Mat4
}

// Scene is a renderable scene graph with exactly one root node.
type Scene interface {
	// Root returns the root node. It is never nil.
	Root() Node

	// Add attaches nodes to the root.
	Add(nodes ...Node)

	// Background returns the sRGB clear color.
	Background() common.Color

	// SetBackground sets the sRGB clear color.
	SetBackground(c common.Color)

	// Lights returns the scene lights in insertion order.
	Lights() []light.Light

	// AddLight registers lights with the scene.
	AddLight(lights ...light.Light)

	// Find returns the first node with the given name in depth-first order, or nil.
	Find(name string) Node

	// RenderList returns every visible mesh with its world matrix.
	// Hidden nodes hide their whole subtree. Items are ordered by render order, then
	// opaque before transparent, then graph order.
	//
	// Returns:
	//   - []RenderItem: the draw list
	RenderList() []RenderItem
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the provided options.
// The root node is named "scene" and the default background is white.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Scene: the scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		root:       NewNode(WithName("scene")).(*node),
		background: common.Color{1, 1, 1},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Root() Node {
	return s.root
}

func (s *scene) Add(nodes ...Node) {
	s.root.Add(nodes...)
}

func (s *scene) Background() common.Color {
	return s.background
}

func (s *scene) SetBackground(c common.Color) {
	s.background = c
}

func (s *scene) Lights() []light.Light {
	return s.lights
}

func (s *scene) AddLight(lights ...light.Light) {
	s.lights = append(s.lights, lights...)
}

func (s *scene) Find(name string) Node {
	var found Node
	s.root.Traverse(func(n Node) bool {
		if found != nil {
			return false
		}
		if n.Name() == name {
			found = n
			return false
		}
		return true
	})
	return found
}

func (s *scene) RenderList() []RenderItem {
	var items []RenderItem
	var walk func(n *node, parent common.Mat4)
	walk = func(n *node, parent common.Mat4) {
		if !n.visible {
			return
		}
		world := parent.Mul(n.LocalMatrix())
		if n.IsMesh() {
			items = append(items, RenderItem{Node: n, World: world})
		}
		for _, c := range n.children {
			walk(c, world)
		}
	}
	walk(s.root, common.Identity4())

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Node, items[j].Node
		if a.RenderOrder() != b.RenderOrder() {
			return a.RenderOrder() < b.RenderOrder()
		}
		return !a.Material().Transparent() && b.Material().Transparent()
	})
	return items
}
