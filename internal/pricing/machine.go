package pricing

import "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"

// SubStep is a screen of the availability/pricing sub-wizard
type SubStep int

const (
	StepSchedule        SubStep = 1
	StepPriceCategories SubStep = 2
	StepCapacity        SubStep = 3
	StepPrice           SubStep = 4
	StepAddons          SubStep = 5
)

func (s SubStep) String() string {
	switch s {
	case StepSchedule:
		return "schedule"
	case StepPriceCategories:
		return "price_categories"
	case StepCapacity:
		return "capacity"
	case StepPrice:
		return "price"
	case StepAddons:
		return "addons"
	}
	return "unknown"
}

// Valid reports whether s exists for the pricing mode. Price categories only
// exist for per-person pricing.
func (s SubStep) Valid(mode domain.PricingMode) bool {
	if s < StepSchedule || s > StepAddons {
		return false
	}
	return !(s == StepPriceCategories && mode == domain.PricingPerGroup)
}

// Next returns the sub-step after s; done is true once add-ons are behind
func Next(s SubStep, mode domain.PricingMode) (next SubStep, done bool, err error) {
	if !s.Valid(mode) {
		return 0, false, domain.ErrInvalidTransition
	}
	switch {
	case s == StepAddons:
		return 0, true, nil
	case s == StepSchedule && mode == domain.PricingPerGroup:
		return StepCapacity, false, nil
	default:
		return s + 1, false, nil
	}
}

// Prev returns the sub-step before s; ok is false on the first one
func Prev(s SubStep, mode domain.PricingMode) (prev SubStep, ok bool, err error) {
	if !s.Valid(mode) {
		return 0, false, domain.ErrInvalidTransition
	}
	switch {
	case s == StepSchedule:
		return 0, false, nil
	case s == StepCapacity && mode == domain.PricingPerGroup:
		return StepSchedule, true, nil
	default:
		return s - 1, true, nil
	}
}

// Skippable reports whether s may be left without saving
func Skippable(s SubStep) bool {
	return s == StepAddons
}
