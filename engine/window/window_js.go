//go:build js && wasm

package window

import (
	"errors"
	"strings"
	"syscall/js"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/webgl"
)

// canvasWindow holds the browser-specific window state.
type canvasWindow struct {
	canvas  js.Value
	running bool
	done    chan struct{}
	funcs   []listener
	frame   js.Func
}

// listener is a registered DOM event handler.
type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

// domKeys maps KeyboardEvent.code values without an ASCII spelling to virtual key codes.
var domKeys = map[string]uint32{
	"Space":      common.KeySpace,
	"Minus":      common.KeyMinus,
	"Equal":      common.KeyEqual,
	"Escape":     common.KeyEsc,
	"Backspace":  common.KeyBackspace,
	"ArrowRight": common.KeyRight,
	"ArrowLeft":  common.KeyLeft,
	"ArrowDown":  common.KeyDown,
	"ArrowUp":    common.KeyUp,
	"ShiftLeft":  common.KeyLeftShift,
	"ShiftRight": common.KeyRightShift,
}

// keyCode translates a KeyboardEvent.code such as "KeyW" or "Digit3".
func keyCode(code string) (uint32, bool) {
	if k, ok := domKeys[code]; ok {
		return k, true
	}
	if letter, ok := strings.CutPrefix(code, "Key"); ok && len(letter) == 1 {
		return uint32(letter[0]), true
	}
	if digit, ok := strings.CutPrefix(code, "Digit"); ok && len(digit) == 1 {
		return uint32(digit[0]), true
	}
	return 0, false
}

// newPlatformWindow finds or creates the canvas, acquires its WebGL context and registers the
// DOM event listeners.
func newPlatformWindow(w *engineWindow) error {
	doc := js.Global().Get("document")
	if doc.IsUndefined() {
		return errors.New("no document available")
	}
	doc.Set("title", w.title)

	canvas := doc.Call("getElementById", w.canvasID)
	if canvas.IsNull() {
		canvas = doc.Call("createElement", "canvas")
		canvas.Set("id", w.canvasID)
		canvas.Get("style").Set("width", "100vw")
		canvas.Get("style").Set("height", "100vh")
		canvas.Get("style").Set("display", "block")
		doc.Get("body").Call("appendChild", canvas)
	}

	ctx, err := webgl.NewContext(canvas)
	if err != nil {
		return err
	}
	w.ctx = ctx
	w.backend = renderer.BackendTypeWebGL

	cw := &canvasWindow{
		canvas:  canvas,
		running: true,
		done:    make(chan struct{}),
	}
	w.internalWindow = cw

	listen := func(target js.Value, event string, fn func(e js.Value)) {
		f := js.FuncOf(func(_ js.Value, args []js.Value) any {
			fn(args[0])
			return nil
		})
		cw.funcs = append(cw.funcs, listener{target: target, event: event, fn: f})
		target.Call("addEventListener", event, f)
	}

	global := js.Global()
	listen(global, "keydown", func(e js.Value) {
		code, ok := keyCode(e.Get("code").String())
		if !ok {
			return
		}
		e.Call("preventDefault")
		w.keyDown(code)
	})
	listen(global, "keyup", func(e js.Value) {
		if code, ok := keyCode(e.Get("code").String()); ok {
			w.keyUp(code)
		}
	})
	listen(canvas, "wheel", func(e js.Value) {
		e.Call("preventDefault")
		if w.onScroll == nil {
			return
		}
		// DOM deltaY is positive when scrolling down.
		switch dy := e.Get("deltaY").Float(); {
		case dy < 0:
			w.onScroll(1)
		case dy > 0:
			w.onScroll(-1)
		}
	})
	listen(canvas, "mousedown", func(e js.Value) {
		if e.Get("button").Int() == 1 && w.onMiddleMouseDown != nil {
			e.Call("preventDefault")
			w.onMiddleMouseDown(int32(e.Get("offsetX").Int()), int32(e.Get("offsetY").Int()))
		}
	})
	listen(canvas, "mouseup", func(e js.Value) {
		if e.Get("button").Int() == 1 && w.onMiddleMouseUp != nil {
			w.onMiddleMouseUp(int32(e.Get("offsetX").Int()), int32(e.Get("offsetY").Int()))
		}
	})
	listen(canvas, "mousemove", func(e js.Value) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(e.Get("offsetX").Int()), int32(e.Get("offsetY").Int()))
		}
	})
	// Without preventDefault the browser never fires webglcontextrestored.
	listen(canvas, "webglcontextlost", func(e js.Value) {
		e.Call("preventDefault")
	})
	listen(global, "resize", func(js.Value) {
		syncCanvasSize(w, cw)
	})

	w.width, w.height = 0, 0
	syncCanvasSize(w, cw)
	return nil
}

// syncCanvasSize sizes the drawing buffer to the canvas's CSS size times the device pixel ratio.
func syncCanvasSize(w *engineWindow, cw *canvasWindow) {
	ratio := js.Global().Get("devicePixelRatio").Float()
	if ratio <= 0 {
		ratio = 1
	}
	width := int(cw.canvas.Get("clientWidth").Float() * ratio)
	height := int(cw.canvas.Get("clientHeight").Float() * ratio)
	if width == 0 || height == 0 {
		return
	}
	cw.canvas.Set("width", width)
	cw.canvas.Set("height", height)
	w.resized(width, height)
}

func platformIsRunningCheck(w *engineWindow) bool {
	cw, ok := w.internalWindow.(*canvasWindow)
	return ok && cw.running
}

func platformCloseWindow(w *engineWindow) error {
	cw, ok := w.internalWindow.(*canvasWindow)
	if !ok {
		return errors.New("window: not initialized")
	}
	if !cw.running {
		return nil
	}
	cw.running = false
	close(cw.done)
	return nil
}

// platformRun drives the update callback from requestAnimationFrame and blocks until Close.
// The browser presents the canvas after each animation frame callback returns.
func platformRun(w *engineWindow) {
	cw, ok := w.internalWindow.(*canvasWindow)
	if !ok {
		return
	}
	cw.frame = js.FuncOf(func(js.Value, []js.Value) any {
		if !cw.running {
			return nil
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		js.Global().Call("requestAnimationFrame", cw.frame)
		return nil
	})
	js.Global().Call("requestAnimationFrame", cw.frame)

	<-cw.done

	cw.frame.Release()
	for _, l := range cw.funcs {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}
	cw.funcs = nil
}
