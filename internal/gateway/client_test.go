package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, onExpired ExpiredFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(&Config{
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
		Transport: NewAuthTransport(http.DefaultTransport, "TOKEN_EXPIRED", onExpired),
	}, nil)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "provider-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateActivity_Success(t *testing.T) {
	var got CreateActivityRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/activities", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]string{"id": "act-1"}})
	}, nil)

	res, err := c.CreateActivity(context.Background(), CreateActivityRequest{CategoryID: "7", Lang: "es"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "act-1", res.Data.ID)
	assert.Equal(t, "7", got.CategoryID)
}

func TestSend_FailureMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Título duplicado"})
	}, nil)

	res, err := c.UpdateTitle(context.Background(), "act-1", TitleRequest{Title: "City Tour"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Título duplicado", res.Message)
}

func TestSend_FailureWithoutMessageUsesFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	}, nil)

	res, err := c.UpdateInclusions(context.Background(), "act-1", ListRequest{Items: []string{"a"}})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, GenericFailureMessage, res.Message)
}

func TestSend_MalformedEnvelopeIsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The old "data.field" shape without a success flag is treated as a backend defect
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"id": "act-1"}})
	}, nil)

	res, err := c.CreateActivity(context.Background(), CreateActivityRequest{CategoryID: "7"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, GenericFailureMessage, res.Message)
}

func TestSend_TransportErrorIsFailure(t *testing.T) {
	c := NewClient(&Config{BaseURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond}, nil)

	res, err := c.UpdateExclusions(context.Background(), "act-1", ListRequest{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, GenericFailureMessage, res.Message)
}

func TestAuthTransport_AttachesToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, nil)

	ctx := WithToken(context.Background(), token)
	res, err := c.SubmitForReview(ctx, "act-1")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestAuthTransport_ExpiredTokenShortCircuits(t *testing.T) {
	var hits, expired int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}, func(ctx context.Context, sessionID string) {
		assert.Equal(t, "sid-1", sessionID)
		atomic.AddInt32(&expired, 1)
	})

	ctx := WithSessionID(WithToken(context.Background(), signedToken(t, time.Now().Add(-time.Minute))), "sid-1")
	_, err := c.UpdateTitle(ctx, "act-1", TitleRequest{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	assert.Equal(t, int32(1), atomic.LoadInt32(&expired))
}

func TestAuthTransport_Upstream401Expired(t *testing.T) {
	var expired int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "code": "TOKEN_EXPIRED"})
	}, func(ctx context.Context, sessionID string) {
		atomic.AddInt32(&expired, 1)
	})

	_, err := c.ListCategories(WithToken(context.Background(), "opaque-token"), "es")
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.Equal(t, int32(1), atomic.LoadInt32(&expired))
}

func TestAuthTransport_Other401PassesThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Sin permisos"})
	}, func(ctx context.Context, sessionID string) {
		t.Fatal("unexpected expiry")
	})

	res, err := c.DeleteActivity(context.Background(), "act-1")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Sin permisos", res.Message)
}

func TestFetch_PropagatesFailures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/activities/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, "not found")
		case "/booking-options/opt-1/modes":
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Opción sin configurar"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"items": []map[string]any{{"id": "act-1", "title": "City Tour", "status": "DRAFT"}},
					"page":  1, "size": 10, "total": 1,
				},
			})
		}
	}, nil)
	ctx := context.Background()

	_, err := c.GetActivity(ctx, "missing", "es")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.GetOptionModes(ctx, "opt-1")
	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Opción sin configurar", be.Message)

	page, err := c.ListActivities(ctx, ListActivitiesQuery{Page: 1, Size: 10, Lang: "es"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "City Tour", page.Items[0].Title)
}

func TestSearchPlaces_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/places", r.URL.Path)
		assert.Equal(t, "Plaza de Armas", r.URL.Query().Get("q"))
		assert.Equal(t, "es", r.URL.Query().Get("lang"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []map[string]any{{"id": "p1", "name": "Plaza de Armas", "latitude": -13.5, "longitude": -71.9}},
		})
	}, nil)

	places, err := c.SearchPlaces(context.Background(), "Plaza de Armas", "es")
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, -13.5, places[0].Latitude)
}

func TestFetch_RetriesUnreachableBackend(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// first answer is not an envelope, as a proxy error page would be
			_, _ = io.WriteString(w, "<html>bad gateway</html>")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{{"id": "1", "name": "Tours"}}})
	}))
	t.Cleanup(srv.Close)
	c := NewClient(&Config{BaseURL: srv.URL, ReadRetries: 2}, nil)

	cats, err := c.ListCategories(context.Background(), "es")
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_DoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(&Config{BaseURL: srv.URL, ReadRetries: 2}, nil)

	_, err := c.GetActivity(context.Background(), "missing", "es")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}
