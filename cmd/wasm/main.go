//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/scene"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(scene.DefaultConfig())

	// Create the engine API object
	fractalEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	fractalEngine.Set("configure", js.FuncOf(configure))
	fractalEngine.Set("regenerate", js.FuncOf(regenerate))
	fractalEngine.Set("regenerateShowcase", js.FuncOf(regenerateShowcase))
	fractalEngine.Set("setViewport", js.FuncOf(setViewport))
	fractalEngine.Set("setSelection", js.FuncOf(setSelection))

	// --- Queries (frontend ← backend) ---
	fractalEngine.Set("render", js.FuncOf(render))
	fractalEngine.Set("hitTest", js.FuncOf(hitTest))
	fractalEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	fractalEngine.Set("getSelection", js.FuncOf(getSelection))
	fractalEngine.Set("getSceneInfo", js.FuncOf(getSceneInfo))

	// Register on global scope
	js.Global().Set("fractalEngine", fractalEngine)

	// Signal that WASM is ready
	js.Global().Set("fractalWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

// configure replaces the scene configuration with a JSON object layered over
// the defaults. The current scene is kept until the next regenerate.
func configure(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing config JSON"})
	}
	cfg := scene.DefaultConfig()
	if err := json.Unmarshal([]byte(args[0].String()), &cfg); err != nil {
		return errorResult(err)
	}
	if err := cfg.Validate(); err != nil {
		return errorResult(err)
	}
	eng = engine.NewEngine(cfg)
	return okResult()
}

// seedArg reads a seed passed as a decimal string, so values above 2^53
// survive the trip through JavaScript.
func seedArg(args []js.Value) (uint64, error) {
	raw := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		raw = args[0].String()
	}
	return engine.ResolveSeed(raw, 0)
}

func regenerate(this js.Value, args []js.Value) interface{} {
	seed, err := seedArg(args)
	if err != nil {
		return errorResult(err)
	}
	if err := eng.Regenerate(seed); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func regenerateShowcase(this js.Value, args []js.Value) interface{} {
	seed, err := seedArg(args)
	if err != nil {
		return errorResult(err)
	}
	if err := eng.RegenerateShowcase(seed); err != nil {
		return errorResult(err)
	}
	return okResult()
}

func setViewport(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		eng.SetViewport(0, 0)
		return nil
	}
	eng.SetViewport(args[0].Int(), args[1].Int())
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	if arr.Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	x := args[0].Float()
	y := args[1].Float()
	return js.ValueOf(eng.HitTest(x, y))
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelection())
}

func getSceneInfo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSceneInfo())
}
