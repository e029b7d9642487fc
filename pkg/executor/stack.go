package executor

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// stackTracer is the trace surface exposed by errors captured with
// github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// extendStackTrace attaches the current call stack to a failure crossing
// the connection provider's asynchronous boundary. Driver and plugin
// errors surface without the orchestrating frames, so formatting the
// returned error with %+v shows both the failure's own message chain and
// the frames where it was observed.
//
// The wrap preserves identity: errors.Is and errors.As keep matching the
// original error through Unwrap. An error that already carries a
// captured stack is returned unchanged so nested executor calls do not
// pile up duplicate traces.
func extendStackTrace(err error) error {
	if err == nil {
		return nil
	}
	var st stackTracer
	if stderrors.As(err, &st) {
		return err
	}
	return errors.WithStack(err)
}
