// Package sandbox implements the Sandbox Runtime (spec.md C2): it builds an
// isolated goja evaluation context, installs only the permitted globals plus
// the bound Capability API, wraps the user fragment as a deferred async
// evaluable, races it against a deadline, and shapes every outcome into a
// validate.ExecutionResult.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/mcpgateway/codemode/pkg/gateway/capability"
	"github.com/mcpgateway/codemode/pkg/gateway/validate"
)

// Config is the per-run resource ceiling, per spec.md §3.
type Config struct {
	TimeoutMs   int
	MaxMCPCalls int
}

// DefaultConfig mirrors the validate package's external defaults.
func DefaultConfig() Config {
	return Config{TimeoutMs: validate.DefaultTimeoutMs, MaxMCPCalls: validate.DefaultMaxMCPCalls}
}

// ExecutionContext is the per-run call counter and log buffer. It
// implements capability.Accounting so a *capability.API can be bound to it
// without either package importing the other's concrete type (spec.md §3
// ExecutionContext, §9 "pre-increment before dispatch").
type ExecutionContext struct {
	mu        sync.Mutex
	callCount int
	maxCalls  int
	logs      []string
}

func newExecutionContext(maxCalls int, initialLogs []string) *ExecutionContext {
	logs := make([]string, len(initialLogs))
	copy(logs, initialLogs)
	return &ExecutionContext{maxCalls: maxCalls, logs: logs}
}

// Billable pre-increments callCount and fails the call before it ever
// reaches the registry once the ceiling is exceeded, per spec.md §4.1/§9.
func (e *ExecutionContext) Billable() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callCount++
	if e.callCount > e.maxCalls {
		return fmt.Errorf("%s", validate.BudgetMessage(e.maxCalls))
	}
	return nil
}

// Log appends line to the run's buffer in call order.
func (e *ExecutionContext) Log(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logs = append(e.logs, line)
}

func (e *ExecutionContext) snapshot() ([]string, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	logs := make([]string, len(e.logs))
	copy(logs, e.logs)
	return logs, e.callCount
}

// Sandbox constructs and runs isolated evaluations against a fixed server
// registry. A single Sandbox is safe to Run concurrently: every run gets its
// own goja.Runtime and ExecutionContext (spec.md §5).
type Sandbox struct {
	registry capability.ServerRegistry
}

// New binds a Sandbox to the registry user code's mcp calls will dispatch
// through.
func New(registry capability.ServerRegistry) *Sandbox {
	return &Sandbox{registry: registry}
}

// Run evaluates code under cfg and returns the discriminated envelope. It
// never returns a Go error: every failure mode, including a host-side
// failure to build the runtime, is shaped into validate.ExecutionResult.
//
// The deadline is enforced by racing a dedicated goroutine that owns the
// goja.Runtime against a timer. On timeout the runtime is interrupted on a
// best-effort basis and the goroutine is abandoned — cancellation here is
// observational, matching spec.md §5: any in-flight backend call the
// abandoned goroutine was waiting on keeps running until the backend
// returns, and its result is simply discarded. vm.Interrupt only takes
// effect the next time goja resumes running bytecode, so a goroutine
// blocked in a native Go call at timeout — most notably capability.API.Sleep,
// which calls time.Sleep directly — keeps running for up to the remainder
// of that call before the interrupt is observed and the goroutine exits.
func (s *Sandbox) Run(ctx context.Context, code string, cfg Config, initialLogs []string) validate.ExecutionResult {
	started := time.Now()
	ec := newExecutionContext(cfg.MaxMCPCalls, initialLogs)
	api := capability.New(s.registry, ec)
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	type outcome struct {
		result any
		fail   *validate.ExecutionError
	}

	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{fail: &validate.ExecutionError{Name: validate.ErrNameRuntime, Message: fmt.Sprintf("%v", r)}}
			}
		}()
		result, fail := runInVM(vm, ctx, code, api, ec)
		done <- outcome{result: result, fail: fail}
	}()

	select {
	case out := <-done:
		logs, calls := ec.snapshot()
		st := validate.ExecutionStats{DurationMs: time.Since(started).Milliseconds(), MCPCalls: calls}
		if out.fail != nil {
			return validate.Fail(out.fail.Name, out.fail.Message, logs, st)
		}
		return validate.Succeed(out.result, logs, st)
	case <-time.After(time.Duration(cfg.TimeoutMs) * time.Millisecond):
		vm.Interrupt(validate.TimeoutMessage(cfg.TimeoutMs))
		logs, calls := ec.snapshot()
		st := validate.ExecutionStats{DurationMs: time.Since(started).Milliseconds(), MCPCalls: calls}
		return validate.Fail(validate.ErrNameTimeout, validate.TimeoutMessage(cfg.TimeoutMs), logs, st)
	}
}

func runInVM(vm *goja.Runtime, ctx context.Context, code string, api *capability.API, ec *ExecutionContext) (any, *validate.ExecutionError) {
	installDenials(vm)
	installConsole(vm, ec)
	installCapability(vm, ctx, api)

	wrapped := "(async () => {\n" + code + "\n})()"
	prg, err := goja.Compile("<execute>", wrapped, false)
	if err != nil {
		return nil, &validate.ExecutionError{Name: validate.ErrNameSyntax, Message: err.Error()}
	}

	v, err := vm.RunProgram(prg)
	if err != nil {
		return nil, classifyRuntimeError(vm, err)
	}

	promise, ok := v.Export().(*goja.Promise)
	if !ok {
		return normalizeResult(ec, v), nil
	}

	switch promise.State() {
	case goja.PromiseStateFulfilled:
		return normalizeResult(ec, promise.Result()), nil
	case goja.PromiseStateRejected:
		return nil, classifyThrown(vm, promise.Result())
	default:
		return nil, &validate.ExecutionError{Name: validate.ErrNameRuntime, Message: "execution did not settle"}
	}
}

func classifyRuntimeError(vm *goja.Runtime, err error) *validate.ExecutionError {
	if ex, ok := err.(*goja.Exception); ok {
		return classifyThrown(vm, ex.Value())
	}
	return &validate.ExecutionError{Name: validate.ErrNameRuntime, Message: err.Error()}
}

func classifyThrown(vm *goja.Runtime, v goja.Value) *validate.ExecutionError {
	if v == nil {
		return &validate.ExecutionError{Name: validate.ErrNameRuntime, Message: "undefined error"}
	}
	if obj := v.ToObject(vm); obj != nil {
		name := obj.Get("name")
		message := obj.Get("message")
		if name != nil && message != nil && !goja.IsUndefined(name) {
			return &validate.ExecutionError{Name: name.String(), Message: message.String()}
		}
	}
	return &validate.ExecutionError{Name: validate.ErrNameRuntime, Message: v.String()}
}

// normalizeResult round-trips v through JSON to enforce invariant §3.4/§3.5:
// undefined becomes nil, and anything that cannot survive the round trip is
// replaced by nil with a warning appended to the run's log, per spec.md §4.2.
func normalizeResult(ec *ExecutionContext, v goja.Value) any {
	if v == nil || goja.IsUndefined(v) {
		return nil
	}
	b, err := json.Marshal(v.Export())
	if err != nil {
		ec.Log(fmt.Sprintf("warning: result is not JSON-serializable: %v", err))
		return nil
	}
	var normalized any
	if err := json.Unmarshal(b, &normalized); err != nil {
		ec.Log(fmt.Sprintf("warning: result is not JSON-serializable: %v", err))
		return nil
	}
	return normalized
}
