package animator

import (
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/scene"
)

// DefaultSpinSpeed is the Y rotation in radians added to each instance per frame.
const DefaultSpinSpeed float32 = 0.01

// instance is one animated node and its per-frame rotation.
type instance struct {
	node     scene.Node
	rotSpeed common.Vec3
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	instances    []instance
	defaultSpeed common.Vec3
	enabled      bool
}

// Animator advances node rotations one frame at a time.
//
// Speeds are expressed in radians per frame, not per second, so the visual result depends
// on the frame rate of the caller. The render loop calls PrepareFrame once per drawn frame.
type Animator interface {
	// PrepareFrame applies one frame of rotation to every instance. It is a no-op while
	// the animator is disabled.
	PrepareFrame()

	// SetEnabled pauses or resumes the animator.
	SetEnabled(enabled bool)

	// Enabled reports whether PrepareFrame applies rotation.
	Enabled() bool

	// Release drops every instance. The nodes keep their current rotation.
	Release()
}

var _ Animator = &animator{}

// NewAnimator creates an enabled Animator that spins its instances about Y at DefaultSpinSpeed.
//
// Parameters:
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: the animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:           &sync.Mutex{},
		defaultSpeed: common.Vec3{0, DefaultSpinSpeed, 0},
		enabled:      true,
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) PrepareFrame() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return
	}
	for _, in := range a.instances {
		// Y only is the common case and keeps the node's other axes untouched.
		if in.rotSpeed[0] == 0 && in.rotSpeed[2] == 0 {
			in.node.RotateY(in.rotSpeed[1])
			continue
		}
		in.node.SetRotation(in.node.Rotation().Add(in.rotSpeed))
	}
}

func (a *animator) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

func (a *animator) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

func (a *animator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.instances)
	a.instances = nil
}
