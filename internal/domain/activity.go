package domain

import "time"

// Category is the activity category picked on the first wizard screen
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActivityStatus is the backend lifecycle status of an activity
type ActivityStatus string

const (
	ActivityStatusDraft     ActivityStatus = "DRAFT"
	ActivityStatusInReview  ActivityStatus = "IN_REVIEW"
	ActivityStatusPublished ActivityStatus = "PUBLISHED"
)

// Image is one stored activity image; position 0 is the cover
type Image struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
	Cover    bool   `json:"isCover"`
}

// ItineraryItem is one stop of the activity itinerary
type ItineraryItem struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	PlaceID         string `json:"placeId,omitempty"`
}

// ActivitySummary is a row of the provider dashboard listing
type ActivitySummary struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Category  string         `json:"category"`
	Status    ActivityStatus `json:"status"`
	CoverURL  string         `json:"coverUrl,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Activity is the full activity as the backend returns it
type Activity struct {
	ID              string              `json:"id"`
	Category        Category            `json:"category"`
	Title           string              `json:"title"`
	Lang            string              `json:"lang"`
	Presentation    string              `json:"presentation"`
	Description     []string            `json:"description"`
	Recommendations []string            `json:"recommendations"`
	Restrictions    []string            `json:"restrictions"`
	Inclusions      []string            `json:"inclusions"`
	Exclusions      []string            `json:"exclusions"`
	Images          []Image             `json:"images"`
	Itinerary       []ItineraryItem     `json:"itinerary"`
	BookingOptions  []BookingOptionInfo `json:"bookingOptions"`
	Status          ActivityStatus      `json:"status"`
}

// ActivityPage is one page of the dashboard listing
type ActivityPage struct {
	Items []ActivitySummary `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Total int               `json:"total"`
}

// Destination is a browsable place grouping activities
type Destination struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Country       string `json:"country"`
	ActivityCount int    `json:"activityCount"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

// Place is a geocoded place returned by search, used by the map picker
type Place struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TransportMode is a vehicle type offered for pickups
type TransportMode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
