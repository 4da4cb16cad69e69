package scene

import (
	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
)

// NodeBuilderOption is a functional option for configuring a Node.
type NodeBuilderOption func(n *node)

// WithName sets the node name.
func WithName(name string) NodeBuilderOption {
	return func(n *node) {
		n.name = name
	}
}

// WithPosition sets the local translation.
//
// Parameters:
//   - x, y, z: translation components
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithPosition(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.position = common.Vec3{x, y, z}
	}
}

// WithRotation sets the local XYZ Euler rotation in radians.
func WithRotation(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.rotation = common.Vec3{x, y, z}
	}
}

// WithScale sets the local scale.
func WithScale(x, y, z float32) NodeBuilderOption {
	return func(n *node) {
		n.scale = common.Vec3{x, y, z}
	}
}

// WithMesh attaches a mesh payload. Both arguments are required for the node to render.
//
// Parameters:
//   - g: the geometry
//   - m: the material
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithMesh(g geometry.Geometry, m material.Material) NodeBuilderOption {
	return func(n *node) {
		n.geometry = g
		n.material = m
	}
}

// WithShadows sets the cast and receive shadow flags.
func WithShadows(cast, receive bool) NodeBuilderOption {
	return func(n *node) {
		n.castShadow = cast
		n.receiveShadow = receive
	}
}

// WithRenderOrder sets the draw order key.
func WithRenderOrder(order int) NodeBuilderOption {
	return func(n *node) {
		n.renderOrder = order
	}
}

// WithVisible sets the initial visibility.
func WithVisible(visible bool) NodeBuilderOption {
	return func(n *node) {
		n.visible = visible
	}
}

// WithChildren attaches children at construction.
func WithChildren(children ...Node) NodeBuilderOption {
	return func(n *node) {
		n.Add(children...)
	}
}
