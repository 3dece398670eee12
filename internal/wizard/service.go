// Package wizard runs the activity creation wizard: one controller per step,
// a shared submit pipeline and the transition table from the domain package
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/draft"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/media"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/pricing"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/session"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/logger"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Service defines the wizard operations exposed to the HTTP layer
type Service interface {
	// State returns the creation session as persisted
	State(ctx context.Context, sessionID string) (*domain.CreationSession, error)

	// Mount checks the step guard and returns the rehydrated draft
	Mount(ctx context.Context, sessionID string, step domain.StepName, optionID string) (*View, error)

	// Autosave overwrites the draft of a step with the full form state
	Autosave(ctx context.Context, sessionID string, step domain.StepName, form json.RawMessage) error

	// Submit validates the form, persists it with one backend call and advances on success
	Submit(ctx context.Context, sessionID string, step domain.StepName, form json.RawMessage) (*Outcome, error)

	// ValidateImages checks files without uploading them
	ValidateImages(files []media.File) *ImagesOutcome

	// SubmitImages validates, uploads and stores the activity images
	SubmitImages(ctx context.Context, sessionID string, files []media.File) (*ImagesOutcome, error)

	// Back moves to the predecessor of the current step
	Back(ctx context.Context, sessionID string) (*Outcome, error)

	// SaveAndExit leaves the wizard for the dashboard, keeping drafts
	SaveAndExit(ctx context.Context, sessionID string) (*Outcome, error)

	// Reset abandons the activity under construction
	Reset(ctx context.Context, sessionID string) (*Outcome, error)

	// SubmitPricing saves one screen of the availability/pricing sub-wizard
	SubmitPricing(ctx context.Context, sessionID string, sub int, form json.RawMessage) (*Outcome, error)

	// BackPricing moves to the previous sub-step, or out of the sub-wizard from the first one
	BackPricing(ctx context.Context, sessionID string) (*Outcome, error)

	// SkipPricing leaves an optional sub-step without saving it
	SkipPricing(ctx context.Context, sessionID string) (*Outcome, error)

	// EditBands applies one age band edit to the pricing draft
	EditBands(ctx context.Context, sessionID string, op BandOp) ([]domain.AgeBand, error)

	// EditMeeting switches the meeting/pickup sub-flow or edits its address lists in the draft
	EditMeeting(ctx context.Context, sessionID string, op MeetingOp) (*domain.MeetingPickup, error)
}

// Config contains configuration for the wizard service
type Config struct {
	ImageRules media.Rules
}

type service struct {
	api      gateway.API
	sessions session.Store
	drafts   *draft.Store
	uploader *media.Uploader
	rules    media.Rules
	log      *logger.Logger
	steps    map[domain.StepName]controller
}

// NewService creates a new wizard service
func NewService(
	api gateway.API,
	sessions session.Store,
	drafts *draft.Store,
	uploader *media.Uploader,
	cfg *Config,
	log *logger.Logger,
) Service {
	rules := media.DefaultRules()
	if cfg != nil && cfg.ImageRules.MaxBytes > 0 {
		rules = cfg.ImageRules
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &service{
		api:      api,
		sessions: sessions,
		drafts:   drafts,
		uploader: uploader,
		rules:    rules,
		log:      log,
		steps:    controllers(),
	}
}

func (s *service) State(ctx context.Context, sessionID string) (*domain.CreationSession, error) {
	return s.sessions.Load(ctx, sessionID)
}

func (s *service) Mount(ctx context.Context, sessionID string, step domain.StepName, optionID string) (*View, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wizard.mount")
	defer span.End()
	span.SetAttributes(attribute.String("step", string(step)))

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	def, err := domain.LookupStep(step)
	if err != nil {
		return nil, err
	}
	if optionID != "" && def.RequiresOption && state.ActivityID != "" {
		if state.OwnsOption(optionID) {
			state.SetOptionID(optionID)
		} else {
			s.log.Warn("Ignoring option outside the session",
				zap.String("session_id", sessionID),
				zap.String("option_id", optionID),
			)
		}
	}

	if redirect := s.guardRedirect(state, def); redirect != nil {
		span.SetAttributes(attribute.String("redirect", string(redirect.Name)))
		return &View{
			Step:     redirect.Name,
			Route:    redirect.Route(state),
			Redirect: true,
			Progress: progressOf(state),
			Session:  state,
		}, nil
	}

	if step != state.Step {
		if _, err := state.Visit(step); err != nil {
			return nil, err
		}
	}
	s.persist(ctx, sessionID, state)

	view := &View{
		Step:     step,
		Route:    def.Route(state),
		Progress: progressOf(state),
		Session:  state,
	}

	raw, err := s.drafts.Raw(ctx, sessionID, step, state.OptionID)
	switch {
	case err == nil:
		view.Draft = raw
	case !errors.Is(err, draft.ErrNoDraft):
		s.log.Warn("Failed to load step draft", zap.String("step", string(step)), zap.Error(err))
	}

	if step == domain.StepAvailabilityPricing {
		pv, err := s.pricingView(ctx, sessionID, state)
		if err != nil {
			return nil, err
		}
		view.Pricing = pv
		view.Route = def.Route(state)
	}
	return view, nil
}

// guardRedirect returns the step to send the provider to, or nil when def may run
func (s *service) guardRedirect(state *domain.CreationSession, def domain.StepDef) *domain.StepDef {
	switch state.CheckGuard(def) {
	case nil:
	case domain.ErrActivityRequired:
		cat, _ := domain.LookupStep(domain.StepCategory)
		return &cat
	default:
		setup, _ := domain.LookupStep(domain.StepOptionSetup)
		return &setup
	}
	if domain.Before(state.Step, def.Name) {
		cur, err := domain.LookupStep(state.Step)
		if err != nil {
			cur, _ = domain.LookupStep(domain.StepCategory)
		}
		return &cur
	}
	return nil
}

func (s *service) Autosave(ctx context.Context, sessionID string, step domain.StepName, form json.RawMessage) error {
	if sessionID == "" {
		return domain.ErrMissingSessionID
	}
	if _, err := domain.LookupStep(step); err != nil {
		return err
	}
	if !json.Valid(form) {
		return domain.ValidationErrors{{Field: "draft", Message: "el borrador no es JSON válido"}}
	}
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.drafts.Save(ctx, sessionID, step, state.OptionID, json.RawMessage(form))
}

func (s *service) Submit(ctx context.Context, sessionID string, step domain.StepName, form json.RawMessage) (*Outcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wizard.submit")
	defer span.End()
	span.SetAttributes(attribute.String("step", string(step)))

	switch step {
	case domain.StepImages:
		return nil, domain.ValidationErrors{{Field: "images", Message: "sube las imágenes como archivos"}}
	case domain.StepAvailabilityPricing:
		state, err := s.sessions.Load(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		return s.SubmitPricing(ctx, sessionID, state.PricingStep, form)
	}

	state, def, err := s.prepare(ctx, sessionID, step)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ctrl, ok := s.steps[step]
	if !ok {
		return nil, domain.ErrUnknownStep
	}
	res, err := ctrl.submit(ctx, s.api, state, form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !res.success {
		s.log.Info("Step save refused by backend",
			zap.String("session_id", sessionID),
			zap.String("step", string(step)),
			zap.String("message", res.message),
		)
		return s.stay(state, def, res.message), nil
	}
	span.SetStatus(codes.Ok, "")
	return s.complete(ctx, sessionID, state, step, res)
}

// prepare loads the session and checks the step may be submitted now
func (s *service) prepare(ctx context.Context, sessionID string, step domain.StepName) (*domain.CreationSession, domain.StepDef, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, domain.StepDef{}, err
	}
	def, err := domain.LookupStep(step)
	if err != nil {
		return nil, domain.StepDef{}, err
	}
	if redirect := s.guardRedirect(state, def); redirect != nil {
		guard := state.CheckGuard(def)
		if guard == nil {
			guard = domain.ErrInvalidTransition
		}
		return nil, def, &RedirectError{Err: guard, Route: redirect.Route(state)}
	}
	if state.Step != step {
		return nil, def, &RedirectError{Err: domain.ErrInvalidTransition, Route: domain.RouteFor(state.Step, state)}
	}
	return state, def, nil
}

// complete runs after a successful backend save: the draft is dropped and the pointer advances
func (s *service) complete(ctx context.Context, sessionID string, state *domain.CreationSession, step domain.StepName, res stepResult) (*Outcome, error) {
	if err := s.drafts.Delete(ctx, sessionID, step, state.OptionID); err != nil {
		s.log.Warn("Failed to drop step draft", zap.String("step", string(step)), zap.Error(err))
	}

	if step == domain.StepReview {
		state.Reset()
		s.persist(ctx, sessionID, state)
		return &Outcome{
			Success:  true,
			Message:  res.message,
			Step:     domain.StepCategory,
			Route:    domain.DashboardRoute,
			Progress: progressOf(state),
		}, nil
	}

	next, err := state.Advance(step)
	if err != nil {
		return nil, fmt.Errorf("advance from %s: %w", step, err)
	}
	s.persist(ctx, sessionID, state)

	return &Outcome{
		Success:  true,
		Message:  res.message,
		Step:     next.Name,
		Route:    next.Route(state),
		Progress: progressOf(state),
	}, nil
}

func (s *service) stay(state *domain.CreationSession, def domain.StepDef, message string) *Outcome {
	if message == "" {
		message = gateway.GenericFailureMessage
	}
	return &Outcome{
		Success:  false,
		Message:  message,
		Step:     def.Name,
		Route:    def.Route(state),
		Progress: progressOf(state),
	}
}

// persist saves the session; failures are logged and do not fail the request
func (s *service) persist(ctx context.Context, sessionID string, state *domain.CreationSession) {
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		s.log.Error("Failed to persist creation session",
			zap.String("session_id", sessionID),
			zap.String("step", string(state.Step)),
			zap.Error(err),
		)
	}
}

func (s *service) Back(ctx context.Context, sessionID string) (*Outcome, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	prev, err := state.Back()
	if err != nil {
		return nil, err
	}
	if prev.Name == domain.StepAvailabilityPricing {
		state.SetPricingStep(s.lastPricingStep(state))
	}
	s.persist(ctx, sessionID, state)
	return &Outcome{Success: true, Step: prev.Name, Route: prev.Route(state), Progress: progressOf(state)}, nil
}

func (s *service) lastPricingStep(state *domain.CreationSession) int {
	if state.OptionModes == nil {
		return int(pricing.StepSchedule)
	}
	return int(pricing.StepAddons)
}

func (s *service) SaveAndExit(ctx context.Context, sessionID string) (*Outcome, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Outcome{Success: true, Step: state.Step, Route: domain.DashboardRoute, Progress: progressOf(state)}, nil
}

func (s *service) Reset(ctx context.Context, sessionID string) (*Outcome, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state.Reset()
	s.persist(ctx, sessionID, state)
	return &Outcome{
		Success:  true,
		Step:     domain.StepCategory,
		Route:    domain.RouteFor(domain.StepCategory, state),
		Progress: progressOf(state),
	}, nil
}
