package viewer

import (
	"go.uber.org/zap"
)

// ResourceKind orders disposal: resources are released kind by kind in this order.
type ResourceKind int

const (
	ResourceControls ResourceKind = iota
	ResourceRenderer
	ResourceMaterial
	ResourceGeometry
	ResourceTexture
	resourceKindCount
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceControls:
		return "controls"
	case ResourceRenderer:
		return "renderer"
	case ResourceMaterial:
		return "material"
	case ResourceGeometry:
		return "geometry"
	case ResourceTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// disposer is anything released by a Dispose call that reports whether it did the work.
type disposer interface {
	Dispose() bool
}

// ResourceStats counts tracked resources.
type ResourceStats struct {
	Created  int
	Disposed int
	// Repeated counts Dispose calls that found the resource already released.
	Repeated int
}

type trackedResource struct {
	kind     ResourceKind
	resource disposer
}

// tracker records every resource created for a viewer so Close can release each exactly once.
type tracker struct {
	resources []trackedResource
	seen      map[disposer]struct{}
	stats     ResourceStats
	released  bool
	logger    *zap.Logger
}

func newTracker(logger *zap.Logger) *tracker {
	return &tracker{
		seen:   make(map[disposer]struct{}),
		logger: logger,
	}
}

// track records r under kind. Nil and already tracked resources are ignored.
func (t *tracker) track(kind ResourceKind, r disposer) {
	if r == nil || t.released {
		return
	}
	if _, ok := t.seen[r]; ok {
		return
	}
	t.seen[r] = struct{}{}
	t.resources = append(t.resources, trackedResource{kind: kind, resource: r})
	t.stats.Created++
}

// releaseAll disposes every tracked resource once, kind by kind. Later calls do nothing.
func (t *tracker) releaseAll() {
	if t.released {
		return
	}
	t.released = true

	for kind := range resourceKindCount {
		for _, tr := range t.resources {
			if tr.kind != kind {
				continue
			}
			if tr.resource.Dispose() {
				t.stats.Disposed++
				continue
			}
			t.stats.Repeated++
			t.logger.Warn("resource already disposed", zap.Stringer("kind", kind))
		}
	}
}
