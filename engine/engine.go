package engine

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oiishi/engine/profiler"
	"go.uber.org/zap"
)

// FrameID identifies a pending frame request. The zero value never names a request.
type FrameID uint64

// engine implements the Loop interface.
// A single goroutine serializes posted tasks and frame callbacks.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	manualTicks     chan chan struct{}
	notify          chan struct{}

	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
	startOnce   sync.Once

	engineTickRate time.Duration
	manual         bool
	running        atomic.Bool

	pending map[FrameID]func(deltaTime float32)
	nextID  FrameID
	tasks   []func()

	frames    atomic.Uint64
	lastFrame time.Time

	profiler *profiler.Profiler
	logger   *zap.Logger
}

// Loop is the viewer's frame scheduler.
// Frame callbacks requested with RequestFrame run once, on the next tick, on the loop goroutine.
// Posted tasks run on the same goroutine in submission order, so code reached only through
// the loop never needs its own locking.
type Loop interface {
	// RequestFrame schedules cb for the next tick.
	//
	// Parameters:
	//   - cb: callback receiving the seconds elapsed since the previous tick
	//
	// Returns:
	//   - FrameID: handle for CancelFrame, or 0 once the loop has quit
	RequestFrame(cb func(deltaTime float32)) FrameID

	// CancelFrame drops a pending request. Unknown or already-run ids are ignored.
	CancelFrame(id FrameID)

	// Post queues fn to run on the loop goroutine.
	//
	// Returns:
	//   - bool: false if the loop has quit and fn will never run
	Post(fn func()) bool

	// Tick runs one frame synchronously on the loop goroutine. Only running loops built
	// with WithManualTicks honour it; everything else returns false.
	// Must not be called from inside a loop callback.
	Tick() bool

	// SetTickRate changes the ticker frequency in frames per second (defaults to 60 if <= 0).
	SetTickRate(fps float64)

	// Frames returns how many ticks have completed.
	Frames() uint64

	// Run starts the loop goroutine. Calling it again is a no-op.
	Run()

	// Quit signals the loop goroutine to stop and waits for it to exit.
	// Pending frame requests and queued tasks are discarded.
	// Safe to call multiple times; must not be called from inside a loop callback.
	Quit()

	// Done is closed once Quit has been called.
	Done() <-chan struct{}
}

var _ Loop = &engine{}

// NewLoop creates a new Loop with the provided options.
// The loop is not running until Run is called.
//
// Parameters:
//   - options: functional options for loop configuration (tick rate, profiler, etc.)
//
// Returns:
//   - Loop: the newly created loop
func NewLoop(options ...EngineBuilderOption) Loop {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		manualTicks:     make(chan chan struct{}),
		notify:          make(chan struct{}, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
		pending:         make(map[FrameID]func(float32)),
		logger:          zap.NewNop(),
	}

	for _, opt := range options {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "loop"))

	return e
}

func (e *engine) Run() {
	e.startOnce.Do(func() {
		select {
		case <-e.quitChannel:
			return
		default:
		}
		e.lastFrame = time.Now()
		e.running.Store(true)
		e.wg.Add(1)
		go e.handleLoop()
	})
}

func (e *engine) Quit() {
	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal the loop goroutine to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
		e.mu.Lock()
		e.pending = make(map[FrameID]func(float32))
		e.tasks = nil
		e.mu.Unlock()
	})
}

func (e *engine) closed() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

func (e *engine) RequestFrame(cb func(deltaTime float32)) FrameID {
	if cb == nil {
		panic("engine: nil frame callback")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed() {
		return 0
	}
	e.nextID++
	e.pending[e.nextID] = cb
	return e.nextID
}

func (e *engine) CancelFrame(id FrameID) {
	e.mu.Lock()
	delete(e.pending, id)
	e.mu.Unlock()
}

func (e *engine) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	e.mu.Lock()
	if e.closed() {
		e.mu.Unlock()
		return false
	}
	e.tasks = append(e.tasks, fn)
	e.mu.Unlock()

	select {
	case e.notify <- struct{}{}:
	default:
	}
	return true
}

func (e *engine) Tick() bool {
	if !e.manual || !e.running.Load() {
		return false
	}
	ack := make(chan struct{})
	select {
	case e.manualTicks <- ack:
	case <-e.quitChannel:
		return false
	}
	select {
	case <-ack:
		return true
	case <-e.quitChannel:
		return false
	}
}

// SetTickRate sets the loop tick rate in frames per second.
// If the loop is running, the change takes effect on its next select.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	// Non-blocking send - if channel is full, replace the pending value
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		select {
		case e.tickRateChannel <- newRate:
		default:
		}
	}
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

// handleLoop runs until the quit channel closes. It drains posted tasks whenever
// notified and runs frame callbacks on every tick, ticker-driven or manual.
func (e *engine) handleLoop() {
	defer e.wg.Done()
	// Recover from panics inside the loop goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("loop goroutine recovered from panic", zap.String("panic", fmt.Sprint(r)))
			e.signalQuit()
		}
	}()

	var tickC <-chan time.Time
	var ticker *time.Ticker
	if !e.manual {
		ticker = time.NewTicker(e.engineTickRate)
		defer ticker.Stop()
		tickC = ticker.C
	}

	for {
		select {
		case <-e.quitChannel:
			return
		case <-e.notify:
			e.drainTasks()
		case <-tickC:
			e.drainTasks()
			e.runFrame()
		case ack := <-e.manualTicks:
			e.drainTasks()
			e.runFrame()
			close(ack)
		case newRate := <-e.tickRateChannel:
			e.engineTickRate = newRate
			if ticker != nil {
				ticker.Reset(newRate)
			}
		}
	}
}

func (e *engine) drainTasks() {
	for {
		e.mu.Lock()
		tasks := e.tasks
		e.tasks = nil
		e.mu.Unlock()

		if len(tasks) == 0 {
			return
		}
		for _, fn := range tasks {
			if e.closed() {
				return
			}
			fn()
		}
	}
}

func (e *engine) runFrame() {
	e.mu.Lock()
	ids := make([]FrameID, 0, len(e.pending))
	for id := range e.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	callbacks := make([]func(float32), len(ids))
	for i, id := range ids {
		callbacks[i] = e.pending[id]
	}
	e.pending = make(map[FrameID]func(float32))
	e.mu.Unlock()

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	for _, cb := range callbacks {
		if e.closed() {
			return
		}
		cb(dt)
	}

	e.frames.Add(1)
	if e.profiler != nil {
		e.profiler.Tick()
	}
}
