package assessment

import (
	"errors"
	"fmt"
)

// ErrNoContent is returned when the normalized input text is empty.
var ErrNoContent = errors.New("no content to analyze")

// AnalysisFailure reports an unexpected failure inside one engine stage.
type AnalysisFailure struct {
	Stage   string
	Message string
	Err     error
}

func (e *AnalysisFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analysis failed at %s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("analysis failed at %s: %s", e.Stage, e.Message)
}

func (e *AnalysisFailure) Unwrap() error {
	return e.Err
}

func failure(stage, format string, args ...any) *AnalysisFailure {
	return &AnalysisFailure{Stage: stage, Message: fmt.Sprintf(format, args...)}
}
