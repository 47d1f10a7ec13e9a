package application

import (
	"context"

	"github.com/pkg/errors"
)

var errNotAtReviewStep = errors.New("submission is only allowed from the review step")

// Submitter is anything that can accept a completed draft, typically *Service.
type Submitter interface {
	Submit(ctx context.Context, applicant Applicant, draft Draft) (Application, error)
}

// Orchestrator owns a Draft and the active step, and gates navigation through
// the fixed step sequence. It is not safe for concurrent use; each form
// session owns its own Orchestrator.
type Orchestrator struct {
	draft  Draft
	active Step
}

// NewOrchestrator starts a session at the first step, optionally pre-filled.
func NewOrchestrator(initial *Draft) *Orchestrator {
	return &Orchestrator{
		draft:  NewDraft(initial),
		active: StepPersonalDetails,
	}
}

// UpdateState shallow-merges the patch into the draft. No validation is
// performed here; it always succeeds.
func (o *Orchestrator) UpdateState(p Patch) {
	o.draft.Apply(p)
}

// Draft returns a copy of the accumulated draft.
func (o *Orchestrator) Draft() Draft { return o.draft }

func (o *Orchestrator) ActiveStep() Step { return o.active }

// IsStepValid reports whether the given step's required fields are complete.
func (o *Orchestrator) IsStepValid(s Step) bool {
	return ValidateStep(s, &o.draft) == nil
}

// Next advances to the following step, clamped at the review step. When the
// active step is incomplete the step does not change and the validation
// error is returned so the caller can surface it.
func (o *Orchestrator) Next() error {
	if err := ValidateStep(o.active, &o.draft); err != nil {
		return err
	}
	if o.active < LastStep {
		o.active++
	}
	return nil
}

// Back returns to the previous step, floored at the first step. It is never guarded.
func (o *Orchestrator) Back() {
	if o.active > StepPersonalDetails {
		o.active--
	}
}

// Submit sends the whole draft through svc in one request. It is reachable
// only from the review step. On failure the draft is retained unchanged so
// no user input is lost; on success the session should be discarded.
func (o *Orchestrator) Submit(ctx context.Context, svc Submitter, applicant Applicant) (Application, error) {
	if o.active != LastStep {
		return Application{}, errNotAtReviewStep
	}
	return svc.Submit(ctx, applicant, o.draft)
}
