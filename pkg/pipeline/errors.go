package pipeline

import (
	"context"
	"errors"

	perrors "github.com/matzehuels/robopom/pkg/errors"
	"github.com/matzehuels/robopom/pkg/integrations"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   *perrors.Error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// stageError classifies err and tags it with stage. The message describes
// what was being attempted.
func stageError(stage string, err error, format string, args ...any) error {
	return &StageError{
		Stage: stage,
		Err:   perrors.Wrap(Classify(err), err, format, args...),
	}
}

// Classify maps an error from any stage to its [perrors.Code].
//
//	deadline or client timeout      → TIMEOUT
//	cancelled mid-request or backoff → NETWORK_ERROR
//	HTTP 429                        → RATE_LIMITED
//	HTTP 404                        → NOT_FOUND
//	malformed response              → PARSE_ERROR
//	any other transport or status   → NETWORK_ERROR
//
// Errors that already carry a code keep it.
func Classify(err error) perrors.Code {
	var timeout interface{ Timeout() bool }
	var rateLimited *perrors.RateLimitedError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &timeout) && timeout.Timeout():
		return perrors.ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return perrors.ErrCodeNetwork
	case errors.As(err, &rateLimited):
		return perrors.ErrCodeRateLimited
	case errors.Is(err, integrations.ErrNotFound):
		return perrors.ErrCodeNotFound
	case errors.Is(err, integrations.ErrDecode):
		return perrors.ErrCodeParse
	case errors.Is(err, integrations.ErrNetwork):
		return perrors.ErrCodeNetwork
	}
	if code := perrors.GetCode(err); code != "" {
		return code
	}
	return perrors.ErrCodeInternal
}

// FailedStage returns the stage recorded on err, or "" if none.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// IsNetworkFailure reports whether err belongs to the network family
// (transport failure, non-2xx status, timeout, or rate limit).
func IsNetworkFailure(err error) bool {
	switch perrors.GetCode(err) {
	case perrors.ErrCodeNetwork, perrors.ErrCodeNotFound, perrors.ErrCodeTimeout, perrors.ErrCodeRateLimited:
		return true
	}
	return false
}
