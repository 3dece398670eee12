package domain

// DurationMode says whether an option lasts minutes or is valid for days
type DurationMode string

const (
	DurationModeDuration DurationMode = "DURATION"
	DurationModeValidity DurationMode = "VALIDITY"
)

// AvailabilityMode says whether an option is sold by time slots or opening hours
type AvailabilityMode string

const (
	AvailabilityTimeSlots    AvailabilityMode = "TIME_SLOTS"
	AvailabilityOpeningHours AvailabilityMode = "OPENING_HOURS"
)

// PricingMode says whether the price is per person or per group
type PricingMode string

const (
	PricingPerPerson PricingMode = "PER_PERSON"
	PricingPerGroup  PricingMode = "PER_GROUP"
)

// MeetingType selects the meeting/pickup sub-flow
type MeetingType string

const (
	MeetingTypeMeetingPoint MeetingType = "MEETING_POINT"
	MeetingTypePickup       MeetingType = "PICKUP"
)

// OptionModes is the availability/pricing pair the backend reports for an option
type OptionModes struct {
	AvailabilityMode AvailabilityMode `json:"availabilityMode"`
	PricingMode      PricingMode      `json:"pricingMode"`
}

// BookingOptionInfo is the short form of an option listed under its activity
type BookingOptionInfo struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailabilityMode AvailabilityMode `json:"availabilityMode,omitempty"`
	PricingMode      PricingMode      `json:"pricingMode,omitempty"`
}

// OptionSetup holds the fields of the booking option setup screen
type OptionSetup struct {
	Title            string           `json:"title"`
	MinGroupSize     int              `json:"minGroupSize"`
	MaxGroupSize     int              `json:"maxGroupSize"`
	Private          bool             `json:"private"`
	GuideLanguages   []string         `json:"guideLanguages"`
	DurationMode     DurationMode     `json:"durationMode"`
	DurationValue    int              `json:"durationValue"`
	AvailabilityMode AvailabilityMode `json:"availabilityMode"`
	PricingMode      PricingMode      `json:"pricingMode"`
}

// Location is a picked address with coordinates
type Location struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	PlaceID   string   `json:"placeId,omitempty"`
}

// HasCoordinates reports whether both coordinates were picked
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// MeetingPickup holds the meeting point or pickup configuration of an option
type MeetingPickup struct {
	Type MeetingType `json:"type"`

	MeetingPoint *Location `json:"meetingPoint,omitempty"`
	Instructions string    `json:"instructions,omitempty"`

	PickupAddresses    []Location `json:"pickupAddresses,omitempty"`
	TransportModeID    string     `json:"transportModeId,omitempty"`
	MinutesBeforeStart *int       `json:"minutesBeforeStart,omitempty"`
	ReturnSameAsPickup bool       `json:"returnSameAsPickup"`
	ReturnAddresses    []Location `json:"returnAddresses,omitempty"`
	PickupInstructions string     `json:"pickupInstructions,omitempty"`
}

// TimeSlot is a start time, or an opening range when End is set
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// DaySchedule lists the slots of one weekday
type DaySchedule struct {
	Day   string     `json:"day"`
	Slots []TimeSlot `json:"slots"`
}

// ScheduleException is a calendar date the option is not sold
type ScheduleException struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Schedule is the weekly availability of an option
type Schedule struct {
	StartDate  string              `json:"startDate"`
	EndDate    string              `json:"endDate,omitempty"`
	Days       []DaySchedule       `json:"days"`
	Exceptions []ScheduleException `json:"exceptions,omitempty"`
}

// AgeBand is one price category of a per-person option
type AgeBand struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MinAge    int    `json:"minAge"`
	MaxAge    int    `json:"maxAge"`
	Protected bool   `json:"protected"`
}

// Capacity is the number of participants allowed per slot
type Capacity struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Pricing holds the price step; exactly one of the per-person forms or the group form applies
type Pricing struct {
	Mode         PricingMode        `json:"mode"`
	Currency     string             `json:"currency"`
	FlatPrice    *float64           `json:"flatPrice,omitempty"`
	BandPrices   map[string]float64 `json:"bandPrices,omitempty"`
	GroupPrice   float64            `json:"groupPrice,omitempty"`
	MaxGroupSize int                `json:"maxGroupSize,omitempty"`
}

// Addon is an optional extra sold with an option
type Addon struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}
