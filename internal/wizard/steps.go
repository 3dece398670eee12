package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/meeting"
)

const (
	MaxTitleLength        = 100
	MaxPresentationLength = 200
	MaxDescriptionLength  = 3000
	MinListItems          = 3
)

type stepResult struct {
	success bool
	message string
}

// controller validates one step's form and persists it with a single backend call
type controller interface {
	submit(ctx context.Context, api gateway.API, s *domain.CreationSession, raw json.RawMessage) (stepResult, error)
}

// stepController wires a typed form to its validation and backend call.
// save runs only when validate passed, and mutates the session only on success.
type stepController[F any] struct {
	validate func(f *F) error
	save     func(ctx context.Context, api gateway.API, s *domain.CreationSession, f F) (stepResult, error)
}

func (c stepController[F]) submit(ctx context.Context, api gateway.API, s *domain.CreationSession, raw json.RawMessage) (stepResult, error) {
	var form F
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &form); err != nil {
			return stepResult{}, domain.ValidationErrors{{Field: "form", Message: "formulario inválido"}}
		}
	}
	if c.validate != nil {
		if err := c.validate(&form); err != nil {
			return stepResult{}, err
		}
	}
	return c.save(ctx, api, s, form)
}

func fromResult[T any](res *gateway.Result[T], err error) (stepResult, error) {
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{success: res.Success, message: res.Message}, nil
}

// CategoryForm is the first screen
type CategoryForm struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// TitleForm is the localized title screen
type TitleForm struct {
	Title string `json:"title"`
}

// DescriptionForm is the presentation and description screen
type DescriptionForm struct {
	Presentation string   `json:"presentation"`
	Description  []string `json:"description"`
}

// ListForm is shared by recommendations, restrictions, inclusions and exclusions
type ListForm struct {
	Items []string `json:"items"`
}

// ItineraryForm lists the stops of the activity
type ItineraryForm struct {
	Items []domain.ItineraryItem `json:"items"`
}

func controllers() map[domain.StepName]controller {
	return map[domain.StepName]controller{
		domain.StepCategory: stepController[CategoryForm]{
			validate: validateCategory,
			save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, f CategoryForm) (stepResult, error) {
				res, err := api.CreateActivity(ctx, gateway.CreateActivityRequest{CategoryID: f.CategoryID, Lang: s.Lang})
				if err != nil {
					return stepResult{}, err
				}
				if res.Success && res.Data.ID == "" {
					return stepResult{message: gateway.GenericFailureMessage}, nil
				}
				if res.Success {
					// choosing a category always starts a new activity
					if s.ActivityID != "" {
						s.Reset()
					}
					s.SetActivityID(res.Data.ID)
					s.SetSelectedCategory(domain.Category{ID: f.CategoryID, Name: f.CategoryName})
				}
				return stepResult{success: res.Success, message: res.Message}, nil
			},
		},
		domain.StepTitle: stepController[TitleForm]{
			validate: validateTitle,
			save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, f TitleForm) (stepResult, error) {
				return fromResult(api.UpdateTitle(ctx, s.ActivityID, gateway.TitleRequest{Title: f.Title, Lang: s.Lang}))
			},
		},
		domain.StepDescription: stepController[DescriptionForm]{
			validate: validateDescription,
			save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, f DescriptionForm) (stepResult, error) {
				return fromResult(api.UpdateDescription(ctx, s.ActivityID, gateway.DescriptionRequest{
					Presentation: f.Presentation,
					Description:  f.Description,
					Lang:         s.Lang,
				}))
			},
		},
		domain.StepRecommendations: listController(MinListItems, "recomendaciones", gateway.API.UpdateRecommendations),
		domain.StepRestrictions:    listController(0, "restricciones", gateway.API.UpdateRestrictions),
		domain.StepIncludes:        listController(MinListItems, "incluidos", gateway.API.UpdateInclusions),
		domain.StepExcludes:        listController(0, "no incluidos", gateway.API.UpdateExclusions),
		domain.StepOptionSetup: stepController[domain.OptionSetup]{
			validate: validateOptionSetup,
			save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, f domain.OptionSetup) (stepResult, error) {
				res, err := api.CreateBookingOption(ctx, s.ActivityID, f)
				if err != nil {
					return stepResult{}, err
				}
				if res.Success && res.Data.ID == "" {
					return stepResult{message: gateway.GenericFailureMessage}, nil
				}
				if res.Success {
					// modes are read from the backend on the first pricing mount
					s.AddOption(res.Data.ID)
				}
				return stepResult{success: res.Success, message: res.Message}, nil
			},
		},
		domain.StepMeetingPickup: stepController[domain.MeetingPickup]{
			validate: func(f *domain.MeetingPickup) error {
				return meeting.Validate(*f)
			},
			save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, f domain.MeetingPickup) (stepResult, error) {
				return fromResult(api.UpdateMeetingPickup(ctx, s.OptionID, meeting.Normalize(f)))
			},
		},
		domain.StepItinerary: stepController[ItineraryForm]{
			validate: validateItinerary,
			save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, f ItineraryForm) (stepResult, error) {
				return fromResult(api.UpdateItinerary(ctx, s.ActivityID, gateway.ItineraryRequest{Items: f.Items, Lang: s.Lang}))
			},
		},
		domain.StepReview: stepController[struct{}]{
			save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, _ struct{}) (stepResult, error) {
				return fromResult(api.SubmitForReview(ctx, s.ActivityID))
			},
		},
	}
}

type listUpdate func(api gateway.API, ctx context.Context, activityID string, req gateway.ListRequest) (*gateway.Result[gateway.Empty], error)

func listController(min int, label string, update listUpdate) controller {
	return stepController[ListForm]{
		validate: func(f *ListForm) error {
			f.Items = cleanList(f.Items)
			if len(f.Items) < min {
				return domain.ValidationErrors{{
					Field:   "items",
					Message: fmt.Sprintf("se requieren mínimo %d %s", min, label),
				}}
			}
			return nil
		},
		save: func(ctx context.Context, api gateway.API, s *domain.CreationSession, f ListForm) (stepResult, error) {
			return fromResult(update(api, ctx, s.ActivityID, gateway.ListRequest{Items: f.Items, Lang: s.Lang}))
		},
	}
}

// cleanList trims entries and drops the empty ones
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func validateCategory(f *CategoryForm) error {
	var errs domain.ValidationErrors
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.CategoryName = strings.TrimSpace(f.CategoryName)
	if f.CategoryID == "" || f.CategoryName == "" {
		errs.Add("category", "elige una categoría")
	}
	return errs.Err()
}

func validateTitle(f *TitleForm) error {
	var errs domain.ValidationErrors
	f.Title = strings.TrimSpace(f.Title)
	switch {
	case f.Title == "":
		errs.Add("title", "el título es obligatorio")
	case utf8.RuneCountInString(f.Title) > MaxTitleLength:
		errs.Add("title", fmt.Sprintf("máximo %d caracteres", MaxTitleLength))
	}
	return errs.Err()
}

func validateDescription(f *DescriptionForm) error {
	var errs domain.ValidationErrors
	f.Presentation = strings.TrimSpace(f.Presentation)
	f.Description = cleanList(f.Description)

	switch {
	case f.Presentation == "":
		errs.Add("presentation", "la presentación es obligatoria")
	case utf8.RuneCountInString(f.Presentation) > MaxPresentationLength:
		errs.Add("presentation", fmt.Sprintf("máximo %d caracteres", MaxPresentationLength))
	}

	total := 0
	for _, p := range f.Description {
		total += utf8.RuneCountInString(p)
	}
	switch {
	case len(f.Description) == 0:
		errs.Add("description", "agrega al menos un párrafo")
	case total > MaxDescriptionLength:
		errs.Add("description", fmt.Sprintf("máximo %d caracteres", MaxDescriptionLength))
	}
	return errs.Err()
}

func validateOptionSetup(f *domain.OptionSetup) error {
	var errs domain.ValidationErrors
	f.Title = strings.TrimSpace(f.Title)
	f.GuideLanguages = cleanList(f.GuideLanguages)

	if f.Title == "" {
		errs.Add("title", "el título de la opción es obligatorio")
	}
	if f.MinGroupSize < 1 {
		errs.Add("minGroupSize", "el mínimo debe ser al menos 1")
	}
	if f.MaxGroupSize < f.MinGroupSize {
		errs.Add("maxGroupSize", "el máximo no puede ser menor que el mínimo")
	}
	if len(f.GuideLanguages) == 0 {
		errs.Add("guideLanguages", "elige al menos un idioma del guía")
	}
	switch f.DurationMode {
	case domain.DurationModeDuration, domain.DurationModeValidity:
	default:
		errs.Add("durationMode", "elige duración o validez")
	}
	if f.DurationValue <= 0 {
		errs.Add("durationValue", "debe ser mayor a 0")
	}
	switch f.AvailabilityMode {
	case domain.AvailabilityTimeSlots, domain.AvailabilityOpeningHours:
	default:
		errs.Add("availabilityMode", "elige horarios fijos u horario de apertura")
	}
	switch f.PricingMode {
	case domain.PricingPerPerson, domain.PricingPerGroup:
	default:
		errs.Add("pricingMode", "elige precio por persona o por grupo")
	}
	return errs.Err()
}

func validateItinerary(f *ItineraryForm) error {
	var errs domain.ValidationErrors
	if len(f.Items) == 0 {
		errs.Add("items", "agrega al menos una parada")
	}
	for i := range f.Items {
		f.Items[i].Title = strings.TrimSpace(f.Items[i].Title)
		if f.Items[i].Title == "" {
			errs.Add(fmt.Sprintf("items[%d].title", i), "el título es obligatorio")
		}
		if f.Items[i].DurationMinutes < 0 {
			errs.Add(fmt.Sprintf("items[%d].durationMinutes", i), "la duración no puede ser negativa")
		}
	}
	return errs.Err()
}
