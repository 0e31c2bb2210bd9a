package resolve

import (
	"errors"
	"fmt"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// classified failure causes, internal to the resolvers. none of them escape
// a Resolve call, they only pick which branch of the pipeline runs next.
var (
	ErrNoCredential = errors.New("resolve: credential not configured")
	ErrNetwork      = errors.New("resolve: network failure")
	ErrMalformed    = errors.New("resolve: malformed response")
	ErrUnknownCity  = errors.New("resolve: unknown city")
)

// Result is the uniform shape both resolvers return. Exactly one of Report
// and ErrorMessage is populated, determined by Status.
type Result struct {
	Status       string
	Report       string
	ErrorMessage string
	Data         map[string]any
}

func Success(report string, data map[string]any) Result {
	return Result{
		Status: StatusSuccess,
		Report: report,
		Data:   data,
	}
}

func Errorf(format string, args ...any) Result {
	return Result{
		Status:       StatusError,
		ErrorMessage: fmt.Sprintf(format, args...),
	}
}

func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Output renders the result as a tool response payload.
func (r Result) Output() map[string]any {
	out := map[string]any{"status": r.Status}
	if r.Status == StatusSuccess {
		out["report"] = r.Report
		if r.Data != nil {
			out["data"] = r.Data
		}
	} else {
		out["error_message"] = r.ErrorMessage
	}
	return out
}

// normalizeCity lowercases and strips spaces, "New York" -> "newyork".
func normalizeCity(city string) string {
	return strings.ReplaceAll(strings.ToLower(city), " ", "")
}
