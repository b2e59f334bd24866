package research

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures for callers. Every aborted run
// surfaces exactly one kind; persistence failures are logged and never
// reach the caller.
type ErrorKind string

const (
	KindMalformedRequest ErrorKind = "malformed_request"
	KindMarketNotFound   ErrorKind = "market_not_found"
	KindGathererTimeout  ErrorKind = "gatherer_timeout"
	KindGathererFailure  ErrorKind = "gatherer_failure"
	KindEmptyEvidence    ErrorKind = "gatherer_empty_result"
	KindAnalyzerTimeout  ErrorKind = "analyzer_timeout"
	KindAnalyzerFailure  ErrorKind = "analyzer_failure"
)

// Stage names reported in errors and logs.
const (
	StageValidating = "validating"
	StageCacheCheck = "cache_check"
	StagePlanning   = "planning"
	StageGathering  = "gathering"
	StageGrading    = "grading"
	StageAnalyzing  = "analyzing"
	StageReasoning  = "reasoning"
	StageResolving  = "resolving"
	StagePersisting = "persisting"
)

// Error is the structured error returned by the orchestrator: which stage
// failed and why.
type Error struct {
	Kind    ErrorKind
	Stage   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, stage, message string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Message: message, Err: err}
}

// KindOf extracts the error kind from any error in the chain, or "" when
// the error did not originate in the pipeline.
func KindOf(err error) ErrorKind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
