package editor

import (
	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
)

// Err converts a rejected outcome to a coded error. Dispatched and
// awaiting results return nil.
func (r Result) Err(source, target string) error {
	switch r.Outcome {
	case OutcomeDispatched, OutcomeAwaitingConfirmation:
		return nil
	case OutcomeSelfLoop:
		return apierrors.New(apierrors.ErrCodeSelfDependency, "task %q cannot depend on itself", source)
	case OutcomeUnknownTask:
		return apierrors.New(apierrors.ErrCodeTaskNotFound, "task %q or %q not found", source, target)
	case OutcomeNoSuchEdge:
		return apierrors.New(apierrors.ErrCodeNotFound, "%q does not depend on %q", target, source)
	case OutcomeCancelled:
		return apierrors.New(apierrors.ErrCodeConfirmationRequired, "removal was not confirmed")
	case OutcomeBusy:
		return apierrors.New(apierrors.ErrCodeConfirmationRequired, "a removal is awaiting confirmation")
	default:
		return apierrors.New(apierrors.ErrCodeInternal, "unexpected outcome %s", r.Outcome)
	}
}
