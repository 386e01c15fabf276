package validate

import (
	"strconv"
	"strings"
)

// ExecutionStats accompanies every ExecutionResult, per spec.md §3.
type ExecutionStats struct {
	DurationMs int64 `json:"durationMs"`
	MCPCalls   int   `json:"mcpCalls"`
}

// ExecutionError is the discriminated failure payload.
type ExecutionError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ExecutionResult is the uniform envelope returned from every execute
// outcome — success, validation, syntax, runtime, timeout, or budget — so
// the caller never has to catch a thrown exception (spec.md §3/§7).
type ExecutionResult struct {
	Success bool            `json:"success"`
	Result  any             `json:"result,omitempty"`
	Error   *ExecutionError `json:"error,omitempty"`
	Logs    []string        `json:"logs"`
	Stats   ExecutionStats  `json:"stats"`
}

// Succeed builds a success envelope. result is normalized to nil by the
// sandbox before this is called (invariant §3.4); it is accepted as-is here.
func Succeed(result any, logs []string, stats ExecutionStats) ExecutionResult {
	return ExecutionResult{Success: true, Result: result, Logs: logs, Stats: stats}
}

// Fail builds a failure envelope.
func Fail(name, message string, logs []string, stats ExecutionStats) ExecutionResult {
	return ExecutionResult{
		Success: false,
		Error:   &ExecutionError{Name: name, Message: message},
		Logs:    logs,
		Stats:   stats,
	}
}

// Canonical failure classification names/messages, per spec.md §4.2/§7.
const (
	ErrNameTimeout    = "TimeoutError"
	ErrNameBudget     = "BudgetExceededError"
	ErrNameValidation = "ValidationError"
	ErrNameSyntax     = "SyntaxError"
	ErrNameRuntime    = "Error"
)

// TimeoutMessage is the canonical message for a deadline-expired run.
func TimeoutMessage(timeoutMs int) string {
	return "Execution timed out after " + strconv.Itoa(timeoutMs) + "ms"
}

// BudgetMessage is the canonical message for a call-budget-exhausted run.
func BudgetMessage(maxCalls int) string {
	return "Maximum mcp.* call limit exceeded (" + strconv.Itoa(maxCalls) + ")"
}

// IsSuccess reports whether r represents a successful execution.
func IsSuccess(r ExecutionResult) bool { return r.Success }

// IsTimeout reports whether r's error message matches the timeout
// classifier, per spec.md §4.2.
func IsTimeout(r ExecutionResult) bool {
	return !r.Success && r.Error != nil && strings.Contains(r.Error.Message, "timed out")
}

// IsCallLimitExceeded reports whether r's error message matches the
// call-budget classifier, per spec.md §4.2.
func IsCallLimitExceeded(r ExecutionResult) bool {
	return !r.Success && r.Error != nil && strings.Contains(r.Error.Message, "call limit exceeded")
}

// IsOtherFailure reports a failure that is neither a timeout nor a
// call-limit exhaustion (validation, syntax, or runtime failure).
func IsOtherFailure(r ExecutionResult) bool {
	return !r.Success && !IsTimeout(r) && !IsCallLimitExceeded(r)
}
