package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/response"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ActivityHandler serves the dashboard listing and the wizard lookups straight from the backend
type ActivityHandler struct {
	api        gateway.API
	loginRoute string
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(api gateway.API, loginRoute string) *ActivityHandler {
	if loginRoute == "" {
		loginRoute = domain.LoginRoute
	}
	return &ActivityHandler{api: api, loginRoute: loginRoute}
}

// RegisterRoutes mounts the read endpoints on g
func (h *ActivityHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/activities", h.List)
	g.GET("/activities/:id", h.Get)
	g.DELETE("/activities/:id", h.Delete)
	g.GET("/categories", h.Categories)
	g.GET("/destinations", h.Destinations)
	g.GET("/transport-modes", h.TransportModes)
	g.GET("/places", h.Places)
}

func lang(c *gin.Context) string {
	if l := strings.TrimSpace(c.Query("lang")); l != "" {
		return l
	}
	return domain.DefaultLang
}

// List handles GET /activities
func (h *ActivityHandler) List(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.activity.list")
	defer span.End()

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > maxPageSize {
		size = defaultPageSize
	}
	span.SetAttributes(attribute.Int("page", page), attribute.Int("size", size))

	result, err := h.api.ListActivities(ctx, gateway.ListActivitiesQuery{Page: page, Size: size, Lang: lang(c)})
	if err != nil {
		span.RecordError(err)
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, result)
}

// Get handles GET /activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.api.GetActivity(c.Request.Context(), c.Param("id"), lang(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, activity)
}

// Delete handles DELETE /activities/:id
func (h *ActivityHandler) Delete(c *gin.Context) {
	res, err := h.api.DeleteActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	if !res.Success {
		response.Failure(c, res.Message, nil)
		return
	}
	response.Success(c, nil)
}

// Categories handles GET /categories
func (h *ActivityHandler) Categories(c *gin.Context) {
	items, err := h.api.ListCategories(c.Request.Context(), lang(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, items)
}

// Destinations handles GET /destinations
func (h *ActivityHandler) Destinations(c *gin.Context) {
	items, err := h.api.ListDestinations(c.Request.Context(), lang(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, items)
}

// TransportModes handles GET /transport-modes
func (h *ActivityHandler) TransportModes(c *gin.Context) {
	items, err := h.api.ListTransportModes(c.Request.Context(), lang(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, items)
}

// Places handles GET /places?q=
func (h *ActivityHandler) Places(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len([]rune(q)) < 3 {
		response.Success(c, []domain.Place{})
		return
	}
	items, err := h.api.SearchPlaces(c.Request.Context(), q, lang(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, items)
}
