package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
)

func activityPath(id string, suffix string) string {
	return "/activities/" + url.PathEscape(id) + suffix
}

// CreateActivity creates an empty activity in the given category and returns its id
func (c *Client) CreateActivity(ctx context.Context, req CreateActivityRequest) (*Result[Created], error) {
	return send[Created](ctx, c, http.MethodPost, "/activities", req)
}

func (c *Client) UpdateTitle(ctx context.Context, activityID string, req TitleRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, activityPath(activityID, "/title"), req)
}

func (c *Client) UpdateDescription(ctx context.Context, activityID string, req DescriptionRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, activityPath(activityID, "/description"), req)
}

func (c *Client) UpdateRecommendations(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, activityPath(activityID, "/recommendations"), req)
}

func (c *Client) UpdateRestrictions(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, activityPath(activityID, "/restrictions"), req)
}

func (c *Client) UpdateInclusions(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, activityPath(activityID, "/inclusions"), req)
}

func (c *Client) UpdateExclusions(ctx context.Context, activityID string, req ListRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, activityPath(activityID, "/exclusions"), req)
}

// CreateImages stores the public urls of the uploaded images
func (c *Client) CreateImages(ctx context.Context, activityID string, req ImagesRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPost, activityPath(activityID, "/images"), req)
}

func (c *Client) UpdateItinerary(ctx context.Context, activityID string, req ItineraryRequest) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPut, activityPath(activityID, "/itinerary"), req)
}

// SubmitForReview hands the finished activity over to the site's editors
func (c *Client) SubmitForReview(ctx context.Context, activityID string) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodPost, activityPath(activityID, "/review"), nil)
}

func (c *Client) DeleteActivity(ctx context.Context, activityID string) (*Result[Empty], error) {
	return send[Empty](ctx, c, http.MethodDelete, activityPath(activityID, ""), nil)
}

// ListActivities returns one page of the provider's activities
func (c *Client) ListActivities(ctx context.Context, q ListActivitiesQuery) (*domain.ActivityPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Size > 0 {
		params.Set("size", strconv.Itoa(q.Size))
	}
	if q.Lang != "" {
		params.Set("lang", q.Lang)
	}
	page, err := fetch[domain.ActivityPage](ctx, c, "/activities", params)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// GetActivity returns the full activity
func (c *Client) GetActivity(ctx context.Context, activityID, lang string) (*domain.Activity, error) {
	params := url.Values{}
	if lang != "" {
		params.Set("lang", lang)
	}
	a, err := fetch[domain.Activity](ctx, c, activityPath(activityID, ""), params)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
