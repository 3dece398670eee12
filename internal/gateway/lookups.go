package gateway

import (
	"context"
	"net/url"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
)

func langQuery(lang string) url.Values {
	q := url.Values{}
	if lang != "" {
		q.Set("lang", lang)
	}
	return q
}

func (c *Client) ListCategories(ctx context.Context, lang string) ([]domain.Category, error) {
	return fetch[[]domain.Category](ctx, c, "/categories", langQuery(lang))
}

// SearchPlaces geocodes free text for the map picker
func (c *Client) SearchPlaces(ctx context.Context, query, lang string) ([]domain.Place, error) {
	q := langQuery(lang)
	q.Set("q", query)
	return fetch[[]domain.Place](ctx, c, "/places", q)
}

func (c *Client) ListTransportModes(ctx context.Context, lang string) ([]domain.TransportMode, error) {
	return fetch[[]domain.TransportMode](ctx, c, "/transport-modes", langQuery(lang))
}

func (c *Client) ListDestinations(ctx context.Context, lang string) ([]domain.Destination, error) {
	return fetch[[]domain.Destination](ctx, c, "/destinations", langQuery(lang))
}
