package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
)

// engine implements the Engine interface.
// Coordinates the tick goroutine with the window's frame loop.
type engine struct {
	mu *sync.Mutex

	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window          window.Window
	renderer        renderer.Renderer
	rendererOptions []renderer.RendererBuilderOption
	logger          *slog.Logger

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	scenes map[int]scene.Scene

	lastFrame   time.Time
	lastDrawErr string
	closed      bool
}

// Engine is the main entry point for the engine.
// It runs scene updates at a fixed tick rate and renders the active scenes once per window frame.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing into the window's graphics context.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in frames per second.
	// Scenes are updated and the tick callback is called at this rate.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick, before the scenes update.
	// Use this for game logic and input processing.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called each frame after the scenes are drawn, on
	// the thread owning the graphics context.
	//
	// Parameters:
	//   - callback: function to call each render frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order. A different scene already at key is
	// replaced and closed.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key and closes it, unless it is
	// still registered under another key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the tick goroutine and the window's frame loop. Blocks until the window closes
	// or Quit is called, then releases the renderer's GPU objects and closes the window.
	Run()

	// Quit signals the engine to stop. The window is closed from its own thread on the next frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine drawing into the window given with WithWindow.
// Without WithRenderer a renderer is created on the window's graphics context.
//
// Parameters:
//   - options: functional options for engine configuration (window, profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if no window is configured or the renderer cannot be created
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		scenes:          make(map[int]scene.Scene),
		logger:          slog.Default(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		return nil, errors.New("engine: a window is required")
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	if e.renderer == nil {
		opts := append([]renderer.RendererBuilderOption{
			renderer.WithBackend(e.window.Backend()),
			renderer.WithLogger(e.logger),
		}, e.rendererOptions...)
		r, err := renderer.NewRenderer(e.window.Context(), opts...)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.renderer = r
	}

	e.window.SetResizeCallback(e.resize)
	e.window.SetUpdateCallback(e.frame)

	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.lastFrame = time.Now()
	e.mu.Unlock()

	e.resize(e.window.Width(), e.window.Height())
	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
	e.shutdown()
}

// shutdown releases the renderer's GPU objects while the context is still alive, then closes
// the window. It must run on the window's thread.
func (e *engine) shutdown() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	scenes := slices.Collect(maps.Values(e.scenes))
	e.mu.Unlock()

	for _, s := range scenes {
		s.Close()
	}
	e.renderer.Close()
	if err := e.window.Close(); err != nil {
		e.logger.Warn("failed to close window", "error", err)
	}
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick goroutine, tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(1)
	go e.handleEngine()
}

// handleEngine runs the fixed-rate engine tick loop in its own goroutine.
// Fires the tick callback and updates every active scene at the configured tick rate, and listens
// for dynamic rate changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tick goroutine recovered from panic", "panic", r)
			e.signalQuit()
		}
	}()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()
	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
		}
	}
}

// tick runs one engine tick.
func (e *engine) tick(dt float32) {
	e.mu.Lock()
	callback := e.tickCallback
	e.mu.Unlock()

	if callback != nil {
		callback(dt)
	}
	for _, s := range e.activeScenes() {
		s.Update(dt)
	}
}

// frame renders one frame. It runs on the window's thread, which owns the graphics context.
func (e *engine) frame() {
	select {
	case <-e.quitChannel:
		e.shutdown()
		return
	default:
	}

	e.mu.Lock()
	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now
	callback := e.renderCallback
	profiling := e.profilingEnabled
	e.mu.Unlock()

	if err := e.renderer.BeginFrame(); err != nil {
		// A lost context recovers on a later BeginFrame; nothing can be drawn until then.
		if !errors.Is(err, gl.ErrContextLost) {
			e.logger.Error("failed to begin frame", "error", err)
		}
		return
	}

	var drawErr error
	for _, s := range e.activeScenes() {
		if err := s.Render(e.renderer); err != nil {
			drawErr = err
			if errors.Is(err, gl.ErrContextLost) {
				break
			}
		}
	}
	e.reportDrawError(drawErr)

	if callback != nil {
		callback(dt)
	}
	if profiling {
		e.profiler.Tick(e.renderer.Stats().DrawCalls)
	}
}

// reportDrawError logs a draw error once until it changes, so a broken program does not flood
// the log every frame.
func (e *engine) reportDrawError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err == nil {
		e.lastDrawErr = ""
		return
	}
	if msg := err.Error(); msg != e.lastDrawErr {
		e.lastDrawErr = msg
		if !errors.Is(err, gl.ErrContextLost) {
			e.logger.Error("failed to render scene", "error", err)
		}
	}
}

// resize forwards a surface size change to the renderer and every scene camera.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.renderer.Resize(width, height)
	for _, s := range e.Scenes() {
		if c := s.Camera(); c != nil {
			c.SetAspect(float32(width) / float32(height))
		}
	}
}

// activeScenes returns the active scenes in ascending z-index order.
func (e *engine) activeScenes() []scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := slices.Sorted(maps.Keys(e.scenes))
	active := make([]scene.Scene, 0, len(keys))
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			active = append(active, s)
		}
	}
	return active
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in frames per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// Replace a pending update that the tick loop has not consumed yet.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

// tickInterval converts a rate in frames per second into a tick interval, defaulting to 60.
func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

func (e *engine) AddScene(key int, s scene.Scene) {
	if s == nil {
		return
	}
	e.mu.Lock()
	old := e.scenes[key]
	e.scenes[key] = s
	orphaned := old != nil && old != s && !e.registered(old)
	e.mu.Unlock()

	if orphaned {
		old.Close()
	}
}

func (e *engine) RemoveScene(key int) {
	e.mu.Lock()
	old, ok := e.scenes[key]
	delete(e.scenes, key)
	orphaned := ok && !e.registered(old)
	e.mu.Unlock()

	if orphaned {
		old.Close()
	}
}

// registered reports whether s is stored under any key. Callers hold e.mu.
func (e *engine) registered(s scene.Scene) bool {
	for _, v := range e.scenes {
		if v == s {
			return true
		}
	}
	return false
}

func (e *engine) Scene(key int) scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.scenes)
}
