package wizard

import (
	"context"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/stretchr/testify/mock"
)

// MockAPI is a mock implementation of gateway.API
type MockAPI struct {
	mock.Mock
}

var _ gateway.API = (*MockAPI)(nil)

func emptyResult(args mock.Arguments) (*gateway.Result[gateway.Empty], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Result[gateway.Empty]), args.Error(1)
}

func createdResult(args mock.Arguments) (*gateway.Result[gateway.Created], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Result[gateway.Created]), args.Error(1)
}

func (m *MockAPI) CreateActivity(ctx context.Context, req gateway.CreateActivityRequest) (*gateway.Result[gateway.Created], error) {
	return createdResult(m.Called(ctx, req))
}

func (m *MockAPI) UpdateTitle(ctx context.Context, activityID string, req gateway.TitleRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) UpdateDescription(ctx context.Context, activityID string, req gateway.DescriptionRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) UpdateRecommendations(ctx context.Context, activityID string, req gateway.ListRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) UpdateRestrictions(ctx context.Context, activityID string, req gateway.ListRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) UpdateInclusions(ctx context.Context, activityID string, req gateway.ListRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) UpdateExclusions(ctx context.Context, activityID string, req gateway.ListRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) CreateImages(ctx context.Context, activityID string, req gateway.ImagesRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) UpdateItinerary(ctx context.Context, activityID string, req gateway.ItineraryRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) SubmitForReview(ctx context.Context, activityID string) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID))
}

func (m *MockAPI) DeleteActivity(ctx context.Context, activityID string) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, activityID))
}

func (m *MockAPI) ListActivities(ctx context.Context, q gateway.ListActivitiesQuery) (*domain.ActivityPage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ActivityPage), args.Error(1)
}

func (m *MockAPI) GetActivity(ctx context.Context, activityID, lang string) (*domain.Activity, error) {
	args := m.Called(ctx, activityID, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockAPI) CreateBookingOption(ctx context.Context, activityID string, req domain.OptionSetup) (*gateway.Result[gateway.Created], error) {
	return createdResult(m.Called(ctx, activityID, req))
}

func (m *MockAPI) UpdateMeetingPickup(ctx context.Context, optionID string, req domain.MeetingPickup) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, optionID, req))
}

func (m *MockAPI) GetOptionModes(ctx context.Context, optionID string) (*domain.OptionModes, error) {
	args := m.Called(ctx, optionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OptionModes), args.Error(1)
}

func (m *MockAPI) UpdateSchedule(ctx context.Context, optionID string, req domain.Schedule) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, optionID, req))
}

func (m *MockAPI) UpdatePriceCategories(ctx context.Context, optionID string, req gateway.PriceCategoriesRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, optionID, req))
}

func (m *MockAPI) UpdateCapacity(ctx context.Context, optionID string, req domain.Capacity) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, optionID, req))
}

func (m *MockAPI) UpdatePrices(ctx context.Context, optionID string, req domain.Pricing) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, optionID, req))
}

func (m *MockAPI) UpdateAddons(ctx context.Context, optionID string, req gateway.AddonsRequest) (*gateway.Result[gateway.Empty], error) {
	return emptyResult(m.Called(ctx, optionID, req))
}

func (m *MockAPI) ListCategories(ctx context.Context, lang string) ([]domain.Category, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockAPI) SearchPlaces(ctx context.Context, query, lang string) ([]domain.Place, error) {
	args := m.Called(ctx, query, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Place), args.Error(1)
}

func (m *MockAPI) ListTransportModes(ctx context.Context, lang string) ([]domain.TransportMode, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransportMode), args.Error(1)
}

func (m *MockAPI) ListDestinations(ctx context.Context, lang string) ([]domain.Destination, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Destination), args.Error(1)
}
