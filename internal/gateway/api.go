package gateway

import (
	"context"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
)

// API is the set of backend operations the extranet uses
type API interface {
	// Activities
	CreateActivity(ctx context.Context, req CreateActivityRequest) (*Result[Created], error)
	UpdateTitle(ctx context.Context, activityID string, req TitleRequest) (*Result[Empty], error)
	UpdateDescription(ctx context.Context, activityID string, req DescriptionRequest) (*Result[Empty], error)
	UpdateRecommendations(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error)
	UpdateRestrictions(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error)
	UpdateInclusions(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error)
	UpdateExclusions(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error)
	CreateImages(ctx context.Context, activityID string, req ImagesRequest) (*Result[Empty], error)
	UpdateItinerary(ctx context.Context, activityID string, req ItineraryRequest) (*Result[Empty], error)
	SubmitForReview(ctx context.Context, activityID string) (*Result[Empty], error)
	DeleteActivity(ctx context.Context, activityID string) (*Result[Empty], error)
	ListActivities(ctx context.Context, q ListActivitiesQuery) (*domain.ActivityPage, error)
	GetActivity(ctx context.Context, activityID, lang string) (*domain.Activity, error)

	// Booking options
	CreateBookingOption(ctx context.Context, activityID string, req domain.OptionSetup) (*Result[Created], error)
	UpdateMeetingPickup(ctx context.Context, optionID string, req domain.MeetingPickup) (*Result[Empty], error)
	GetOptionModes(ctx context.Context, optionID string) (*domain.OptionModes, error)
	UpdateSchedule(ctx context.Context, optionID string, req domain.Schedule) (*Result[Empty], error)
	UpdatePriceCategories(ctx context.Context, optionID string, req PriceCategoriesRequest) (*Result[Empty], error)
	UpdateCapacity(ctx context.Context, optionID string, req domain.Capacity) (*Result[Empty], error)
	UpdatePrices(ctx context.Context, optionID string, req domain.Pricing) (*Result[Empty], error)
	UpdateAddons(ctx context.Context, optionID string, req AddonsRequest) (*Result[Empty], error)

	// Lookups
	ListCategories(ctx context.Context, lang string) ([]domain.Category, error)
	SearchPlaces(ctx context.Context, query, lang string) ([]domain.Place, error)
	ListTransportModes(ctx context.Context, lang string) ([]domain.TransportMode, error)
	ListDestinations(ctx context.Context, lang string) ([]domain.Destination, error)
}

var _ API = (*Client)(nil)

// CreateActivityRequest starts a new activity from its category
type CreateActivityRequest struct {
	CategoryID string `json:"categoryId"`
	Lang       string `json:"lang"`
}

// TitleRequest sets the localized title
type TitleRequest struct {
	Title string `json:"title"`
	Lang  string `json:"lang"`
}

// DescriptionRequest sets the presentation and description paragraphs
type DescriptionRequest struct {
	Presentation string   `json:"presentation"`
	Description  []string `json:"description"`
	Lang         string   `json:"lang"`
}

// ListRequest replaces a list of short texts (recommendations, inclusions...)
type ListRequest struct {
	Items []string `json:"items"`
	Lang  string   `json:"lang"`
}

// ImagesRequest stores the uploaded image urls; position 0 is the cover
type ImagesRequest struct {
	Images []domain.Image `json:"images"`
}

// ItineraryRequest replaces the itinerary
type ItineraryRequest struct {
	Items []domain.ItineraryItem `json:"items"`
	Lang  string                 `json:"lang"`
}

// PriceCategoriesRequest stores the age bands of a per-person option
type PriceCategoriesRequest struct {
	Bands []domain.AgeBand `json:"bands"`
}

// AddonsRequest replaces the optional extras of an option
type AddonsRequest struct {
	Addons []domain.Addon `json:"addons"`
}

// ListActivitiesQuery pages the dashboard listing
type ListActivitiesQuery struct {
	Page int
	Size int
	Lang string
}
