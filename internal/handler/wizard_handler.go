package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/media"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/meeting"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/middleware"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/wizard"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/response"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ImagesField is the multipart field carrying the image files
const ImagesField = "images"

// WizardHandler handles the activity creation wizard endpoints
type WizardHandler struct {
	wizardService wizard.Service
	maxFileBytes  int64
	loginRoute    string
}

// WizardHandlerConfig holds configuration for the wizard handler
type WizardHandlerConfig struct {
	MaxFileBytes int64
	LoginRoute   string
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(wizardService wizard.Service, cfg *WizardHandlerConfig) *WizardHandler {
	h := &WizardHandler{
		wizardService: wizardService,
		maxFileBytes:  media.DefaultMaxBytes,
		loginRoute:    domain.LoginRoute,
	}
	if cfg != nil {
		if cfg.MaxFileBytes > 0 {
			h.maxFileBytes = cfg.MaxFileBytes
		}
		if cfg.LoginRoute != "" {
			h.loginRoute = cfg.LoginRoute
		}
	}
	return h
}

// RegisterRoutes mounts the wizard endpoints on g
func (h *WizardHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/state", h.State)
	g.GET("/steps/:step", h.Mount)
	g.PUT("/steps/:step/draft", h.Autosave)
	g.POST("/steps/:step/submit", h.Submit)
	g.POST("/images/validate", h.ValidateImages)
	g.POST("/images/submit", h.SubmitImages)
	g.POST("/back", h.Back)
	g.POST("/exit", h.SaveAndExit)
	g.POST("/reset", h.Reset)
	g.POST("/pricing/:sub/submit", h.SubmitPricing)
	g.POST("/pricing/back", h.BackPricing)
	g.POST("/pricing/skip", h.SkipPricing)
	g.POST("/pricing/bands", h.EditBands)
	g.POST("/meeting/type", h.SetMeetingType)
	g.POST("/meeting/addresses", h.AddMeetingAddress)
	g.DELETE("/meeting/addresses/:list/:index", h.RemoveMeetingAddress)
}

// State handles GET /wizard/state
func (h *WizardHandler) State(c *gin.Context) {
	state, err := h.wizardService.State(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, state)
}

// Mount handles GET /wizard/steps/:step
func (h *WizardHandler) Mount(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.wizard.mount")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	step := domain.StepName(c.Param("step"))
	span.SetAttributes(attribute.String("step", string(step)))

	view, err := h.wizardService.Mount(ctx, middleware.GetSessionID(c), step, c.Query("optionId"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err, h.loginRoute)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, view)
}

// Autosave handles PUT /wizard/steps/:step/draft
func (h *WizardHandler) Autosave(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	step := domain.StepName(c.Param("step"))
	if err := h.wizardService.Autosave(c.Request.Context(), middleware.GetSessionID(c), step, raw); err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Accepted(c)
}

// Submit handles POST /wizard/steps/:step/submit
func (h *WizardHandler) Submit(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.wizard.submit")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	raw, err := c.GetRawData()
	if err != nil {
		span.RecordError(err)
		response.BadRequest(c, "invalid request body")
		return
	}
	step := domain.StepName(c.Param("step"))
	span.SetAttributes(attribute.String("step", string(step)))

	out, err := h.wizardService.Submit(ctx, middleware.GetSessionID(c), step, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err, h.loginRoute)
		return
	}

	span.SetStatus(codes.Ok, "")
	h.outcome(c, out)
}

// ValidateImages handles POST /wizard/images/validate
func (h *WizardHandler) ValidateImages(c *gin.Context) {
	files, err := h.readFiles(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	out := h.wizardService.ValidateImages(files)
	if !out.Success {
		response.Failure(c, out.Message, out)
		return
	}
	response.Success(c, out)
}

// SubmitImages handles POST /wizard/images/submit
func (h *WizardHandler) SubmitImages(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.wizard.submit_images")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	files, err := h.readFiles(c)
	if err != nil {
		span.RecordError(err)
		response.BadRequest(c, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	out, err := h.wizardService.SubmitImages(ctx, middleware.GetSessionID(c), files)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if out != nil && domain.IsValidationError(err) {
			response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", out.Message, out)
			return
		}
		handleError(c, err, h.loginRoute)
		return
	}

	if !out.Success {
		response.Failure(c, out.Message, out)
		return
	}
	span.SetStatus(codes.Ok, "")
	response.Success(c, out)
}

// readFiles loads the multipart files, reading at most one byte past the size
// limit so oversized files still reach validation and are reported by name
func (h *WizardHandler) readFiles(c *gin.Context) ([]media.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("multipart form expected: %w", err)
	}
	headers := form.File[ImagesField]
	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, h.maxFileBytes+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, media.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}

// Back handles POST /wizard/back
func (h *WizardHandler) Back(c *gin.Context) {
	out, err := h.wizardService.Back(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	h.outcome(c, out)
}

// SaveAndExit handles POST /wizard/exit
func (h *WizardHandler) SaveAndExit(c *gin.Context) {
	out, err := h.wizardService.SaveAndExit(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	h.outcome(c, out)
}

// Reset handles POST /wizard/reset
func (h *WizardHandler) Reset(c *gin.Context) {
	out, err := h.wizardService.Reset(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	h.outcome(c, out)
}

// SubmitPricing handles POST /wizard/pricing/:sub/submit
func (h *WizardHandler) SubmitPricing(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.wizard.submit_pricing")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	sub, err := strconv.Atoi(c.Param("sub"))
	if err != nil || sub < 1 {
		response.BadRequest(c, "invalid pricing step")
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	span.SetAttributes(attribute.Int("sub_step", sub))

	out, err := h.wizardService.SubmitPricing(ctx, middleware.GetSessionID(c), sub, json.RawMessage(raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err, h.loginRoute)
		return
	}
	span.SetStatus(codes.Ok, "")
	h.outcome(c, out)
}

// BackPricing handles POST /wizard/pricing/back
func (h *WizardHandler) BackPricing(c *gin.Context) {
	out, err := h.wizardService.BackPricing(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	h.outcome(c, out)
}

// SkipPricing handles POST /wizard/pricing/skip
func (h *WizardHandler) SkipPricing(c *gin.Context) {
	out, err := h.wizardService.SkipPricing(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	h.outcome(c, out)
}

// EditBands handles POST /wizard/pricing/bands
func (h *WizardHandler) EditBands(c *gin.Context) {
	var op wizard.BandOp
	if err := c.ShouldBindJSON(&op); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	bands, err := h.wizardService.EditBands(c.Request.Context(), middleware.GetSessionID(c), op)
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, bands)
}

// SetMeetingType handles POST /wizard/meeting/type
func (h *WizardHandler) SetMeetingType(c *gin.Context) {
	var req struct {
		Type domain.MeetingType `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.editMeeting(c, wizard.MeetingOp{Action: wizard.MeetingSetType, Type: req.Type})
}

// AddMeetingAddress handles POST /wizard/meeting/addresses with a picked location
// or a place from GET /places
func (h *WizardHandler) AddMeetingAddress(c *gin.Context) {
	var req struct {
		List     meeting.AddressList `json:"list" binding:"required"`
		Location *domain.Location    `json:"location"`
		Place    *domain.Place       `json:"place"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.editMeeting(c, wizard.MeetingOp{
		Action:   wizard.MeetingAddAddress,
		List:     req.List,
		Location: req.Location,
		Place:    req.Place,
	})
}

// RemoveMeetingAddress handles DELETE /wizard/meeting/addresses/:list/:index
func (h *WizardHandler) RemoveMeetingAddress(c *gin.Context) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid address index")
		return
	}
	h.editMeeting(c, wizard.MeetingOp{
		Action: wizard.MeetingRemoveAddress,
		List:   meeting.AddressList(c.Param("list")),
		Index:  i,
	})
}

func (h *WizardHandler) editMeeting(c *gin.Context, op wizard.MeetingOp) {
	d, err := h.wizardService.EditMeeting(c.Request.Context(), middleware.GetSessionID(c), op)
	if err != nil {
		handleError(c, err, h.loginRoute)
		return
	}
	response.Success(c, d)
}

// outcome answers 200 either way; a refused save carries success=false and the backend message
func (h *WizardHandler) outcome(c *gin.Context, out *wizard.Outcome) {
	if !out.Success {
		response.Failure(c, out.Message, out)
		return
	}
	response.Success(c, out)
}
