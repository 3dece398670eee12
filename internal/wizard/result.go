package wizard

import (
	"encoding/json"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/media"
)

// Progress is the step pointer shown to the provider
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

func progressOf(s *domain.CreationSession) Progress {
	return Progress{Current: s.CurrentStep, Total: s.TotalSteps}
}

// View is what a step screen needs on mount
type View struct {
	Step     domain.StepName         `json:"step"`
	Route    string                  `json:"route"`
	Redirect bool                    `json:"redirect"`
	Progress Progress                `json:"progress"`
	Draft    json.RawMessage         `json:"draft,omitempty"`
	Session  *domain.CreationSession `json:"session"`
	Pricing  *PricingView            `json:"pricing,omitempty"`
}

// Outcome is the answer to submit, back, skip and exit actions
type Outcome struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Step     domain.StepName `json:"step"`
	Route    string          `json:"route"`
	Progress Progress        `json:"progress"`
}

// ImagesOutcome adds the per-file report of the image step
type ImagesOutcome struct {
	Outcome
	Accepted []*media.Image     `json:"accepted,omitempty"`
	Rejected []*media.FileError `json:"rejected,omitempty"`
	Slots    []media.Slot       `json:"slots,omitempty"`
}

// PricingView describes the sub-wizard screen of the availability/pricing step
type PricingView struct {
	SubStep int                `json:"subStep"`
	Name    string             `json:"name"`
	Modes   domain.OptionModes `json:"modes"`
	Bands   []domain.AgeBand   `json:"bands,omitempty"`
}

// RedirectError is returned when a step cannot run and the UI must go elsewhere
type RedirectError struct {
	Err   error
	Route string
}

func (e *RedirectError) Error() string {
	return e.Err.Error()
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}
