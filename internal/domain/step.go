package domain

import (
	"net/url"
	"strconv"
)

// StepName identifies a wizard screen
type StepName string

const (
	StepCategory            StepName = "category"
	StepTitle               StepName = "title"
	StepDescription         StepName = "description"
	StepRecommendations     StepName = "recommendations"
	StepRestrictions        StepName = "restrictions"
	StepIncludes            StepName = "includes"
	StepExcludes            StepName = "excludes"
	StepImages              StepName = "images"
	StepOptionSetup         StepName = "option_setup"
	StepMeetingPickup       StepName = "meeting_pickup"
	StepAvailabilityPricing StepName = "availability_pricing"
	StepItinerary           StepName = "itinerary"
	StepReview              StepName = "review"
)

const (
	// TotalSteps is the number of progress positions shown to the provider
	TotalSteps = 10

	DashboardRoute = "/extranet/dashboard"
	LoginRoute     = "/extranet/login"
)

// StepDef is one row of the wizard transition table
type StepDef struct {
	Name     StepName
	Path     string
	Progress int
	Prev     StepName
	Next     StepName

	RequiresActivity bool
	RequiresOption   bool
}

// Steps is the wizard transition table in screen order
var Steps = []StepDef{
	{Name: StepCategory, Path: "/extranet/activity/createCategory", Progress: 1, Next: StepTitle},
	{Name: StepTitle, Path: "/extranet/activity/createTitle", Progress: 2, Prev: StepCategory, Next: StepDescription, RequiresActivity: true},
	{Name: StepDescription, Path: "/extranet/activity/createDescription", Progress: 3, Prev: StepTitle, Next: StepRecommendations, RequiresActivity: true},
	{Name: StepRecommendations, Path: "/extranet/activity/createRecommendations", Progress: 4, Prev: StepDescription, Next: StepRestrictions, RequiresActivity: true},
	{Name: StepRestrictions, Path: "/extranet/activity/createRestrictions", Progress: 5, Prev: StepRecommendations, Next: StepIncludes, RequiresActivity: true},
	{Name: StepIncludes, Path: "/extranet/activity/createIncludes", Progress: 6, Prev: StepRestrictions, Next: StepExcludes, RequiresActivity: true},
	{Name: StepExcludes, Path: "/extranet/activity/createNotIncluded", Progress: 7, Prev: StepIncludes, Next: StepImages, RequiresActivity: true},
	{Name: StepImages, Path: "/extranet/activity/createImages", Progress: 8, Prev: StepExcludes, Next: StepOptionSetup, RequiresActivity: true},
	{Name: StepOptionSetup, Path: "/extranet/activity/createOptionSetup", Progress: 9, Prev: StepImages, Next: StepMeetingPickup, RequiresActivity: true},
	{Name: StepMeetingPickup, Path: "/extranet/activity/createOptionMeetingPickup", Progress: 9, Prev: StepOptionSetup, Next: StepAvailabilityPricing, RequiresActivity: true, RequiresOption: true},
	{Name: StepAvailabilityPricing, Path: "/extranet/availabilityPricing/create", Progress: 9, Prev: StepMeetingPickup, Next: StepItinerary, RequiresActivity: true, RequiresOption: true},
	{Name: StepItinerary, Path: "/extranet/activity/createItinerary", Progress: 10, Prev: StepAvailabilityPricing, Next: StepReview, RequiresActivity: true},
	{Name: StepReview, Path: "/extranet/activity/review", Progress: 10, Prev: StepItinerary, RequiresActivity: true},
}

var stepIndex = func() map[StepName]int {
	m := make(map[StepName]int, len(Steps))
	for i, s := range Steps {
		m[s.Name] = i
	}
	return m
}()

// LookupStep returns the table row for a step
func LookupStep(name StepName) (StepDef, error) {
	i, ok := stepIndex[name]
	if !ok {
		return StepDef{}, ErrUnknownStep
	}
	return Steps[i], nil
}

// Before reports whether a comes earlier than b in screen order
func Before(a, b StepName) bool {
	ia, oka := stepIndex[a]
	ib, okb := stepIndex[b]
	return oka && okb && ia < ib
}

// Route builds the UI route for a step, threading optionId, lang and currency
func (d StepDef) Route(s *CreationSession) string {
	q := url.Values{}
	if s != nil {
		if d.RequiresOption && s.OptionID != "" {
			q.Set("optionId", s.OptionID)
		}
		if d.Name == StepAvailabilityPricing {
			sub := s.PricingStep
			if sub < 1 {
				sub = 1
			}
			q.Set("step", strconv.Itoa(sub))
		}
		if s.Lang != "" {
			q.Set("lang", s.Lang)
		}
		if s.Currency != "" && d.Name == StepAvailabilityPricing {
			q.Set("currency", s.Currency)
		}
	}
	if len(q) == 0 {
		return d.Path
	}
	return d.Path + "?" + q.Encode()
}

// RouteFor is a shorthand for LookupStep(name).Route(s); unknown steps go to the dashboard
func RouteFor(name StepName, s *CreationSession) string {
	def, err := LookupStep(name)
	if err != nil {
		return DashboardRoute
	}
	return def.Route(s)
}
