package window

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/viewer"
	"github.com/stretchr/testify/assert"
)

// headlessWindow builds an engineWindow without a platform window.
func headlessWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		mu:     &sync.Mutex{},
		width:  100,
		height: 50,
		dispatch: func(fn func()) bool {
			fn()
			return true
		},
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func TestResized_NotifiesOnChangeOnly(t *testing.T) {
	w := headlessWindow()
	var sizes [][2]int
	unsubscribe := w.ObserveSize(func(width, height int) {
		sizes = append(sizes, [2]int{width, height})
	})

	w.resized(200, 100, 400, 200)
	w.resized(200, 100, 400, 200)
	assert.Equal(t, [][2]int{{200, 100}}, sizes)
	assert.Equal(t, float32(2), w.PixelRatio())

	width, height := w.Bounds()
	assert.Equal(t, 200, width)
	assert.Equal(t, 100, height)

	unsubscribe()
	unsubscribe()
	w.resized(300, 100, 300, 100)
	assert.Len(t, sizes, 1)
	assert.Zero(t, w.sizeListeners.len())
}

func TestPixelRatio_DefaultsToOne(t *testing.T) {
	w := headlessWindow()
	assert.Equal(t, float32(1), w.PixelRatio())
}

func TestPointer_FansOutInOrder(t *testing.T) {
	w := headlessWindow()
	var got []string
	w.OnPointer(func(viewer.PointerEvent) { got = append(got, "a") })
	w.OnPointer(func(e viewer.PointerEvent) {
		assert.Equal(t, common.MouseButtonSecondary, e.Button)
		got = append(got, "b")
	})

	w.pointer(viewer.PointerEvent{Kind: viewer.PointerDown, Button: common.MouseButtonSecondary})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestWithDispatcher_RoutesHandlers(t *testing.T) {
	var queued []func()
	w := headlessWindow(WithDispatcher(func(fn func()) bool {
		queued = append(queued, fn)
		return true
	}))

	exports := 0
	w.BindExport(func() { exports++ })
	keys := []uint32{}
	w.SetKeyDownCallback(func(k uint32) { keys = append(keys, k) })

	w.export()
	w.keyDown(common.KeyR)
	assert.Zero(t, exports)
	assert.Empty(t, keys)

	for _, fn := range queued {
		fn()
	}
	assert.Equal(t, 1, exports)
	assert.Equal(t, []uint32{common.KeyR}, keys)
}

func TestUninitializedWindow(t *testing.T) {
	w := headlessWindow()
	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Error(t, w.Close())
	w.RequestClose()
}
