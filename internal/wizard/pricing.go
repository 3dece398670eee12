package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/draft"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/pricing"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PricingDraft is the autosaved state of the whole availability/pricing page
type PricingDraft struct {
	Schedule *domain.Schedule `json:"schedule,omitempty"`
	Bands    []domain.AgeBand `json:"bands,omitempty"`
	Capacity *domain.Capacity `json:"capacity,omitempty"`
	Pricing  *domain.Pricing  `json:"pricing,omitempty"`
	Addons   []domain.Addon   `json:"addons,omitempty"`
}

// AddonsForm is the last, optional sub-step
type AddonsForm struct {
	Addons []domain.Addon `json:"addons"`
}

// BandsForm is the price categories sub-step
type BandsForm struct {
	Bands []domain.AgeBand `json:"bands"`
}

// Band edit actions
const (
	BandSetMaxAge = "set_max_age"
	BandInsert    = "insert"
	BandDelete    = "delete"
	BandRename    = "rename"
)

// BandOp is one edit of the age band editor
type BandOp struct {
	Action  string `json:"action" binding:"required"`
	BandID  string `json:"bandId"`
	AfterID string `json:"afterId"`
	Name    string `json:"name"`
	MaxAge  int    `json:"maxAge"`
}

// modes returns the option's availability/pricing pair, fetching it once per option
func (s *service) modes(ctx context.Context, state *domain.CreationSession) (domain.OptionModes, error) {
	if state.OptionModes != nil && state.OptionModes.PricingMode != "" {
		return *state.OptionModes, nil
	}
	m, err := s.api.GetOptionModes(ctx, state.OptionID)
	if err != nil {
		return domain.OptionModes{}, err
	}
	state.SetOptionModes(*m)
	return *m, nil
}

func (s *service) loadPricingDraft(ctx context.Context, sessionID string, state *domain.CreationSession) PricingDraft {
	var d PricingDraft
	err := s.drafts.Load(ctx, sessionID, domain.StepAvailabilityPricing, state.OptionID, &d)
	if err != nil && !errors.Is(err, draft.ErrNoDraft) {
		s.log.Warn("Failed to load pricing draft", zap.String("option_id", state.OptionID), zap.Error(err))
	}
	return d
}

func (s *service) savePricingDraft(ctx context.Context, sessionID string, state *domain.CreationSession, d PricingDraft) {
	if err := s.drafts.Save(ctx, sessionID, domain.StepAvailabilityPricing, state.OptionID, d); err != nil {
		s.log.Warn("Failed to save pricing draft", zap.String("option_id", state.OptionID), zap.Error(err))
	}
}

func currentSubStep(state *domain.CreationSession) pricing.SubStep {
	if state.PricingStep < int(pricing.StepSchedule) {
		return pricing.StepSchedule
	}
	return pricing.SubStep(state.PricingStep)
}

func (s *service) pricingView(ctx context.Context, sessionID string, state *domain.CreationSession) (*PricingView, error) {
	m, err := s.modes(ctx, state)
	if err != nil {
		return nil, err
	}
	sub := currentSubStep(state)
	if !sub.Valid(m.PricingMode) {
		sub = pricing.StepSchedule
	}
	state.SetPricingStep(int(sub))
	s.persist(ctx, sessionID, state)

	view := &PricingView{SubStep: int(sub), Name: sub.String(), Modes: m}
	if m.PricingMode == domain.PricingPerPerson {
		view.Bands = pricing.NewEditor(s.loadPricingDraft(ctx, sessionID, state).Bands).Bands()
	}
	return view, nil
}

func (s *service) preparePricing(ctx context.Context, sessionID string) (*domain.CreationSession, domain.StepDef, domain.OptionModes, error) {
	state, def, err := s.prepare(ctx, sessionID, domain.StepAvailabilityPricing)
	if err != nil {
		return nil, def, domain.OptionModes{}, err
	}
	m, err := s.modes(ctx, state)
	if err != nil {
		return nil, def, domain.OptionModes{}, err
	}
	return state, def, m, nil
}

func (s *service) SubmitPricing(ctx context.Context, sessionID string, sub int, form json.RawMessage) (*Outcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wizard.submit_pricing")
	defer span.End()
	span.SetAttributes(attribute.Int("sub_step", sub))

	state, def, m, err := s.preparePricing(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	step := pricing.SubStep(sub)
	if sub == 0 {
		step = currentSubStep(state)
	}
	if step != currentSubStep(state) || !step.Valid(m.PricingMode) {
		return nil, &RedirectError{Err: domain.ErrInvalidTransition, Route: def.Route(state)}
	}

	d := s.loadPricingDraft(ctx, sessionID, state)
	res, err := s.savePricingStep(ctx, state, m, step, form, &d)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return s.stay(state, def, res.Message), nil
	}
	s.savePricingDraft(ctx, sessionID, state, d)
	return s.advancePricing(ctx, sessionID, state, def, m, step, res.Message)
}

// savePricingStep validates the sub-step form, merges it into the draft and sends it
func (s *service) savePricingStep(ctx context.Context, state *domain.CreationSession, m domain.OptionModes, step pricing.SubStep, raw json.RawMessage, d *PricingDraft) (*gateway.Result[gateway.Empty], error) {
	decode := func(v any) error {
		if err := json.Unmarshal(raw, v); err != nil {
			return domain.ValidationErrors{{Field: "form", Message: "formulario inválido"}}
		}
		return nil
	}

	switch step {
	case pricing.StepSchedule:
		var f domain.Schedule
		if err := decode(&f); err != nil {
			return nil, err
		}
		if err := pricing.ValidateSchedule(f, m.AvailabilityMode); err != nil {
			return nil, err
		}
		d.Schedule = &f
		return s.api.UpdateSchedule(ctx, state.OptionID, f)

	case pricing.StepPriceCategories:
		var f BandsForm
		if err := decode(&f); err != nil {
			return nil, err
		}
		editor := pricing.NewEditor(f.Bands)
		if err := editor.Validate(); err != nil {
			return nil, err
		}
		bands := editor.Bands()
		d.Bands = bands
		return s.api.UpdatePriceCategories(ctx, state.OptionID, gateway.PriceCategoriesRequest{Bands: bands})

	case pricing.StepCapacity:
		var f domain.Capacity
		if err := decode(&f); err != nil {
			return nil, err
		}
		if err := pricing.ValidateCapacity(f); err != nil {
			return nil, err
		}
		d.Capacity = &f
		return s.api.UpdateCapacity(ctx, state.OptionID, f)

	case pricing.StepPrice:
		var f domain.Pricing
		if err := decode(&f); err != nil {
			return nil, err
		}
		if f.Mode == "" {
			f.Mode = m.PricingMode
		}
		if strings.TrimSpace(f.Currency) == "" {
			f.Currency = state.Currency
		}
		if err := pricing.ValidatePricing(f, m.PricingMode, pricing.NewEditor(d.Bands).Bands()); err != nil {
			return nil, err
		}
		d.Pricing = &f
		return s.api.UpdatePrices(ctx, state.OptionID, f)

	case pricing.StepAddons:
		var f AddonsForm
		if err := decode(&f); err != nil {
			return nil, err
		}
		if err := pricing.ValidateAddons(f.Addons); err != nil {
			return nil, err
		}
		d.Addons = f.Addons
		return s.api.UpdateAddons(ctx, state.OptionID, gateway.AddonsRequest{Addons: f.Addons})
	}
	return nil, domain.ErrInvalidTransition
}

// advancePricing moves to the next sub-step, or out to the itinerary once the last one is behind
func (s *service) advancePricing(ctx context.Context, sessionID string, state *domain.CreationSession, def domain.StepDef, m domain.OptionModes, step pricing.SubStep, message string) (*Outcome, error) {
	next, done, err := pricing.Next(step, m.PricingMode)
	if err != nil {
		return nil, err
	}
	if !done {
		state.SetPricingStep(int(next))
		s.persist(ctx, sessionID, state)
		return &Outcome{
			Success:  true,
			Message:  message,
			Step:     domain.StepAvailabilityPricing,
			Route:    def.Route(state),
			Progress: progressOf(state),
		}, nil
	}

	state.SetPricingStep(0)
	return s.complete(ctx, sessionID, state, domain.StepAvailabilityPricing, stepResult{success: true, message: message})
}

func (s *service) BackPricing(ctx context.Context, sessionID string) (*Outcome, error) {
	state, def, m, err := s.preparePricing(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	prev, ok, err := pricing.Prev(currentSubStep(state), m.PricingMode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.Back(ctx, sessionID)
	}
	state.SetPricingStep(int(prev))
	s.persist(ctx, sessionID, state)
	return &Outcome{Success: true, Step: def.Name, Route: def.Route(state), Progress: progressOf(state)}, nil
}

func (s *service) SkipPricing(ctx context.Context, sessionID string) (*Outcome, error) {
	state, def, m, err := s.preparePricing(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	step := currentSubStep(state)
	if !pricing.Skippable(step) {
		return nil, &RedirectError{Err: domain.ErrInvalidTransition, Route: def.Route(state)}
	}
	return s.advancePricing(ctx, sessionID, state, def, m, step, "")
}

func (s *service) EditBands(ctx context.Context, sessionID string, op BandOp) ([]domain.AgeBand, error) {
	state, _, m, err := s.preparePricing(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if m.PricingMode != domain.PricingPerPerson {
		return nil, &RedirectError{Err: domain.ErrInvalidTransition, Route: domain.RouteFor(domain.StepAvailabilityPricing, state)}
	}

	d := s.loadPricingDraft(ctx, sessionID, state)
	editor := pricing.NewEditor(d.Bands)

	switch op.Action {
	case BandSetMaxAge:
		err = editor.SetMaxAge(op.BandID, op.MaxAge)
	case BandInsert:
		_, err = editor.Insert(op.AfterID, op.Name, op.MaxAge)
	case BandDelete:
		err = editor.Delete(op.BandID)
	case BandRename:
		err = editor.Rename(op.BandID, op.Name)
	default:
		err = domain.ValidationErrors{{Field: "action", Message: "acción desconocida"}}
	}
	if err != nil {
		return nil, err
	}

	d.Bands = editor.Bands()
	s.savePricingDraft(ctx, sessionID, state, d)
	return d.Bands, nil
}
