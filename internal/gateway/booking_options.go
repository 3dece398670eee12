package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
)

func optionPath(id string, suffix string) string {
	return "/booking-options/" + url.PathEscape(id) + suffix
}

// CreateBookingOption creates an option under the activity and returns its id
func (c *Client) CreateBookingOption(ctx context.Context, activityID string, req domain.OptionSetup) (*Result[Created], error) {
	return send[Created](ctx, c, http.MethodPost, activityPath(activityID, "/booking-options"), req)
}

func (c *Client) UpdateMeetingPickup(ctx context.Context, optionID string, req domain.MeetingPickup) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, optionPath(optionID, "/meeting-pickup"), req)
}

// GetOptionModes returns the availability and pricing modes chosen at setup
func (c *Client) GetOptionModes(ctx context.Context, optionID string) (*domain.OptionModes, error) {
	m, err := fetch[domain.OptionModes](ctx, c, optionPath(optionID, "/modes"), nil)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, optionID string, req domain.Schedule) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, optionPath(optionID, "/schedule"), req)
}

func (c *Client) UpdatePriceCategories(ctx context.Context, optionID string, req PriceCategoriesRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, optionPath(optionID, "/price-categories"), req)
}

func (c *Client) UpdateCapacity(ctx context.Context, optionID string, req domain.Capacity) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, optionPath(optionID, "/capacity"), req)
}

func (c *Client) UpdatePrices(ctx context.Context, optionID string, req domain.Pricing) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, optionPath(optionID, "/prices"), req)
}

func (c *Client) UpdateAddons(ctx context.Context, optionID string, req AddonsRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, optionPath(optionID, "/addons"), req)
}
