package domain

import "time"

const (
	DefaultLang     = "es"
	DefaultCurrency = "PEN"
)

// CreationSession tracks the activity under construction for one browser session
type CreationSession struct {
	ActivityID       string       `json:"activityId"`
	OptionID         string       `json:"optionId"`
	CreatedOptions   []string     `json:"createdOptions,omitempty"`
	SelectedCategory *Category    `json:"selectedCategory,omitempty"`
	Step             StepName     `json:"step"`
	CurrentStep      int          `json:"currentStep"`
	TotalSteps       int          `json:"totalSteps"`
	PricingStep      int          `json:"pricingStep,omitempty"`
	OptionModes      *OptionModes `json:"optionModes,omitempty"`
	Lang             string       `json:"lang"`
	Currency         string       `json:"currency"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// NewCreationSession returns the initial state of a session
func NewCreationSession() *CreationSession {
	return &CreationSession{
		Step:        StepCategory,
		CurrentStep: 1,
		TotalSteps:  TotalSteps,
		Lang:        DefaultLang,
		Currency:    DefaultCurrency,
	}
}

// SetActivityID records the backend id of the activity being created
func (s *CreationSession) SetActivityID(id string) {
	s.ActivityID = id
	s.touch()
}

// SetSelectedCategory records the category picked on the first screen
func (s *CreationSession) SetSelectedCategory(c Category) {
	s.SelectedCategory = &c
	s.touch()
}

// SetOptionID records the booking option currently being configured
func (s *CreationSession) SetOptionID(id string) {
	if s.OptionID != id {
		s.PricingStep = 0
		s.OptionModes = nil
	}
	s.OptionID = id
	s.touch()
}

// AddOption records an option created in this session and makes it current
func (s *CreationSession) AddOption(id string) {
	if !s.OwnsOption(id) {
		s.CreatedOptions = append(s.CreatedOptions, id)
	}
	s.SetOptionID(id)
}

// OwnsOption reports whether id is the current option or one created in this session
func (s *CreationSession) OwnsOption(id string) bool {
	if id == "" {
		return false
	}
	if id == s.OptionID {
		return true
	}
	for _, o := range s.CreatedOptions {
		if o == id {
			return true
		}
	}
	return false
}

// SetOptionModes caches the modes the backend reported for the current option
func (s *CreationSession) SetOptionModes(m OptionModes) {
	s.OptionModes = &m
	s.touch()
}

// SetPricingStep records the availability/pricing sub-step
func (s *CreationSession) SetPricingStep(n int) {
	s.PricingStep = n
	s.touch()
}

// Reset clears the activity under construction. Lang and currency survive.
func (s *CreationSession) Reset() {
	lang, currency := s.Lang, s.Currency
	*s = *NewCreationSession()
	if lang != "" {
		s.Lang = lang
	}
	if currency != "" {
		s.Currency = currency
	}
	s.touch()
}

// CheckGuard returns the error that keeps a step from running
func (s *CreationSession) CheckGuard(def StepDef) error {
	if def.RequiresActivity && s.ActivityID == "" {
		return ErrActivityRequired
	}
	if def.RequiresOption && s.OptionID == "" {
		return ErrOptionRequired
	}
	return nil
}

// Advance moves the pointer from the given step to its successor
func (s *CreationSession) Advance(from StepName) (StepDef, error) {
	if s.Step != from {
		return StepDef{}, ErrInvalidTransition
	}
	cur, err := LookupStep(from)
	if err != nil {
		return StepDef{}, err
	}
	if cur.Next == "" {
		return StepDef{}, ErrInvalidTransition
	}
	next, err := LookupStep(cur.Next)
	if err != nil {
		return StepDef{}, err
	}
	if err := s.CheckGuard(next); err != nil {
		return StepDef{}, err
	}
	s.moveTo(next)
	return next, nil
}

// Back moves the pointer to the predecessor of the current step
func (s *CreationSession) Back() (StepDef, error) {
	cur, err := LookupStep(s.Step)
	if err != nil {
		return StepDef{}, err
	}
	if cur.Prev == "" {
		return StepDef{}, ErrInvalidTransition
	}
	prev, err := LookupStep(cur.Prev)
	if err != nil {
		return StepDef{}, err
	}
	s.moveTo(prev)
	return prev, nil
}

// Visit moves the pointer back to an already reached step. Jumping ahead fails.
func (s *CreationSession) Visit(to StepName) (StepDef, error) {
	def, err := LookupStep(to)
	if err != nil {
		return StepDef{}, err
	}
	if to != s.Step && !Before(to, s.Step) {
		return StepDef{}, ErrInvalidTransition
	}
	if err := s.CheckGuard(def); err != nil {
		return StepDef{}, err
	}
	s.moveTo(def)
	return def, nil
}

func (s *CreationSession) moveTo(def StepDef) {
	s.Step = def.Name
	s.CurrentStep = def.Progress
	if s.CurrentStep > s.TotalSteps {
		s.CurrentStep = s.TotalSteps
	}
	s.touch()
}

func (s *CreationSession) touch() {
	s.UpdatedAt = time.Now().UTC()
}
