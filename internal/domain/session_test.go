package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreationSession(t *testing.T) {
	s := NewCreationSession()

	assert.Equal(t, StepCategory, s.Step)
	assert.Equal(t, 1, s.CurrentStep)
	assert.Equal(t, TotalSteps, s.TotalSteps)
	assert.Equal(t, DefaultLang, s.Lang)
	assert.Empty(t, s.ActivityID)
}

func TestCreationSession_AdvanceRequiresActivity(t *testing.T) {
	s := NewCreationSession()

	_, err := s.Advance(StepCategory)
	assert.ErrorIs(t, err, ErrActivityRequired)
	assert.Equal(t, StepCategory, s.Step)

	s.SetActivityID("act-1")
	next, err := s.Advance(StepCategory)
	require.NoError(t, err)
	assert.Equal(t, StepTitle, next.Name)
	assert.Equal(t, 2, s.CurrentStep)
}

func TestCreationSession_AdvanceFromWrongStep(t *testing.T) {
	s := NewCreationSession()
	s.SetActivityID("act-1")

	_, err := s.Advance(StepDescription)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StepCategory, s.Step)
}

func TestCreationSession_WalkWholeWizard(t *testing.T) {
	s := NewCreationSession()
	s.SetActivityID("act-1")

	for _, def := range Steps[:len(Steps)-1] {
		if def.Next == StepMeetingPickup {
			s.SetOptionID("opt-1")
		}
		next, err := s.Advance(def.Name)
		require.NoError(t, err, "advance from %s", def.Name)
		assert.LessOrEqual(t, s.CurrentStep, s.TotalSteps)
		assert.Equal(t, def.Next, next.Name)
	}

	assert.Equal(t, StepReview, s.Step)
	assert.Equal(t, 10, s.CurrentStep)

	_, err := s.Advance(StepReview)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCreationSession_OptionGuard(t *testing.T) {
	s := NewCreationSession()
	s.SetActivityID("act-1")
	s.Step = StepOptionSetup

	_, err := s.Advance(StepOptionSetup)
	assert.ErrorIs(t, err, ErrOptionRequired)
}

func TestCreationSession_Back(t *testing.T) {
	s := NewCreationSession()

	_, err := s.Back()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s.SetActivityID("act-1")
	_, err = s.Advance(StepCategory)
	require.NoError(t, err)

	prev, err := s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepCategory, prev.Name)
	assert.Equal(t, 1, s.CurrentStep)
}

func TestCreationSession_Visit(t *testing.T) {
	s := NewCreationSession()
	s.SetActivityID("act-1")
	s.Step = StepIncludes
	s.CurrentStep = 6

	_, err := s.Visit(StepImages)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	def, err := s.Visit(StepTitle)
	require.NoError(t, err)
	assert.Equal(t, StepTitle, def.Name)
	assert.Equal(t, 2, s.CurrentStep)
}

func TestCreationSession_Reset(t *testing.T) {
	s := NewCreationSession()
	s.Lang = "en"
	s.SetActivityID("act-1")
	s.AddOption("opt-1")
	s.SetSelectedCategory(Category{ID: "1", Name: "Tours"})
	s.Step = StepReview
	s.CurrentStep = 10

	s.Reset()

	assert.Empty(t, s.ActivityID)
	assert.Empty(t, s.OptionID)
	assert.Empty(t, s.CreatedOptions)
	assert.Nil(t, s.SelectedCategory)
	assert.Equal(t, StepCategory, s.Step)
	assert.Equal(t, 1, s.CurrentStep)
	assert.Equal(t, "en", s.Lang)
}

func TestCreationSession_OwnsOption(t *testing.T) {
	s := NewCreationSession()
	s.AddOption("opt-1")
	s.SetOptionModes(OptionModes{PricingMode: PricingPerPerson})
	s.AddOption("opt-2")

	assert.True(t, s.OwnsOption("opt-1"))
	assert.True(t, s.OwnsOption("opt-2"))
	assert.False(t, s.OwnsOption("opt-other"))
	assert.False(t, s.OwnsOption(""))
	assert.Equal(t, []string{"opt-1", "opt-2"}, s.CreatedOptions)
	assert.Equal(t, "opt-2", s.OptionID)
	assert.Nil(t, s.OptionModes)
}

func TestStepDef_Route(t *testing.T) {
	s := NewCreationSession()
	s.OptionID = "opt-9"
	s.Currency = "USD"
	s.PricingStep = 3

	assert.Equal(t, "/extranet/activity/createTitle?lang=es", RouteFor(StepTitle, s))
	assert.Equal(t,
		"/extranet/availabilityPricing/create?currency=USD&lang=es&optionId=opt-9&step=3",
		RouteFor(StepAvailabilityPricing, s))
	assert.Equal(t, "/extranet/activity/createCategory", RouteFor(StepCategory, nil))
	assert.Equal(t, DashboardRoute, RouteFor("nope", s))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("inclusions", "minimum three required")
	err := errs.Err()
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "minimum three required")
}
