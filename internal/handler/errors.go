package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/wizard"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/response"
)

// redirectDetails tells the UI where to navigate instead
type redirectDetails struct {
	Redirect string `json:"redirect"`
}

// handleError maps service errors to HTTP responses
func handleError(c *gin.Context, err error, loginRoute string) {
	var (
		verrs    domain.ValidationErrors
		redirect *wizard.RedirectError
		backend  *gateway.BackendError
	)

	switch {
	case errors.As(err, &verrs):
		response.Error(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", "Revisa los campos marcados", verrs)
	case errors.Is(err, domain.ErrSessionExpired):
		response.Error(c, http.StatusUnauthorized, "SESSION_EXPIRED", "Tu sesión expiró, vuelve a iniciar sesión", redirectDetails{Redirect: loginRoute})
	case errors.As(err, &redirect):
		response.Error(c, http.StatusConflict, "STEP_NOT_AVAILABLE", redirect.Error(), redirectDetails{Redirect: redirect.Route})
	case domain.IsGuardError(err):
		response.Error(c, http.StatusConflict, "STEP_NOT_AVAILABLE", err.Error(), nil)
	case domain.IsBandError(err):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_AGE_BANDS", err.Error(), nil)
	case errors.Is(err, domain.ErrMissingSessionID):
		response.Error(c, http.StatusBadRequest, "MISSING_SESSION_ID", err.Error(), nil)
	case errors.Is(err, domain.ErrUnknownStep):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrRequestInProgress):
		response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS", err.Error(), nil)
	case errors.As(err, &backend):
		response.Error(c, http.StatusBadGateway, "BACKEND_ERROR", backend.Message, nil)
	case errors.Is(err, domain.ErrBackendUnavailable):
		response.Error(c, http.StatusBadGateway, "BACKEND_UNAVAILABLE", gateway.GenericFailureMessage, nil)
	default:
		response.InternalError(c, err)
	}
}
