package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/mcpgateway/codemode/pkg/gateway/capability"
)

// deniedGlobals enumerates spec.md §4.2's explicitly denied surface. goja's
// standard globals already omit most of these (no fetch, no Node process),
// but every name is bound to the undefined value anyway so denial does not
// depend on what a given goja version happens to leave out — per the design
// note in spec.md §9 about runtimes that cannot truly "unset" a global.
var deniedGlobals = []string{
	"process", "global", "globalThis", "self", "window",
	"eval", "Function",
	"setTimeout", "setInterval", "setImmediate", "queueMicrotask",
	"fetch", "WebSocket", "XMLHttpRequest",
	"ArrayBuffer", "SharedArrayBuffer", "Atomics", "DataView",
	"Int8Array", "Uint8Array", "Uint8ClampedArray",
	"Int16Array", "Uint16Array", "Int32Array", "Uint32Array",
	"Float32Array", "Float64Array", "BigInt64Array", "BigUint64Array",
	"require", "module", "exports", "Buffer",
	"WebAssembly",
}

func installDenials(vm *goja.Runtime) {
	for _, name := range deniedGlobals {
		_ = vm.Set(name, goja.Undefined())
	}
}

func installConsole(vm *goja.Runtime, ec *ExecutionContext) {
	console := vm.NewObject()
	logFn := func(call goja.FunctionCall) goja.Value {
		ec.Log(formatArgs(call.Arguments))
		return goja.Undefined()
	}
	_ = console.Set("log", logFn)
	_ = console.Set("warn", logFn)
	_ = console.Set("error", logFn)
	_ = vm.Set("console", console)
}

func installCapability(vm *goja.Runtime, ctx context.Context, api *capability.API) {
	obj := vm.NewObject()

	_ = obj.Set("listServers", func(call goja.FunctionCall) goja.Value {
		servers, err := api.ListServers(ctx)
		throwIfErr(vm, err)
		return vm.ToValue(servers)
	})

	_ = obj.Set("listTools", func(call goja.FunctionCall) goja.Value {
		tools, err := api.ListTools(ctx, argString(call, 0))
		throwIfErr(vm, err)
		return vm.ToValue(tools)
	})

	_ = obj.Set("callTool", func(call goja.FunctionCall) goja.Value {
		result, err := api.CallTool(ctx, argString(call, 0), argString(call, 1), argMap(call, 2))
		throwIfErr(vm, err)
		return vm.ToValue(result)
	})

	_ = obj.Set("listResources", func(call goja.FunctionCall) goja.Value {
		resources, err := api.ListResources(ctx, argString(call, 0))
		throwIfErr(vm, err)
		return vm.ToValue(resources)
	})

	_ = obj.Set("listResourceTemplates", func(call goja.FunctionCall) goja.Value {
		templates, err := api.ListResourceTemplates(ctx, argString(call, 0))
		throwIfErr(vm, err)
		return vm.ToValue(templates)
	})

	_ = obj.Set("readResource", func(call goja.FunctionCall) goja.Value {
		content, err := api.ReadResource(ctx, argString(call, 0), argString(call, 1))
		throwIfErr(vm, err)
		return vm.ToValue(content)
	})

	_ = obj.Set("listPrompts", func(call goja.FunctionCall) goja.Value {
		prompts, err := api.ListPrompts(ctx, argString(call, 0))
		throwIfErr(vm, err)
		return vm.ToValue(prompts)
	})

	_ = obj.Set("getPrompt", func(call goja.FunctionCall) goja.Value {
		result, err := api.GetPrompt(ctx, argString(call, 0), argString(call, 1), argStringMap(call, 2))
		throwIfErr(vm, err)
		return vm.ToValue(result)
	})

	_ = obj.Set("sleep", func(call goja.FunctionCall) goja.Value {
		api.Sleep(argInt(call, 0))
		return goja.Undefined()
	})

	_ = obj.Set("log", func(call goja.FunctionCall) goja.Value {
		api.Log(formatArgs(call.Arguments))
		return goja.Undefined()
	})

	_ = vm.Set("mcp", obj)
}

func throwIfErr(vm *goja.Runtime, err error) {
	if err != nil {
		panic(vm.NewGoError(err))
	}
}

func argString(call goja.FunctionCall, i int) string {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func argInt(call goja.FunctionCall, i int) int {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return int(v.ToInteger())
}

func argMap(call goja.FunctionCall, i int) map[string]any {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	m, _ := v.Export().(map[string]any)
	return m
}

func argStringMap(call goja.FunctionCall, i int) map[string]string {
	v := call.Argument(i)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	m, ok := v.Export().(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		out[k] = fmt.Sprintf("%v", val)
	}
	return out
}

// formatArgs mirrors spec.md §4.2's console-capture formatter: arguments
// joined by a single space, primitives via their usual textual form,
// compound values via JSON with a generic fallback if unstringifiable.
func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = capability.FormatLogLine(exportArg(a))
	}
	return strings.Join(parts, " ")
}

func exportArg(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) {
		return nil
	}
	if goja.IsNull(v) {
		return "null"
	}
	exported := v.Export()
	if _, isString := exported.(string); isString {
		return exported
	}
	switch exported.(type) {
	case bool, int64, float64:
		return v.String()
	}
	if b, err := json.Marshal(exported); err == nil {
		return string(b)
	}
	return v.String()
}
