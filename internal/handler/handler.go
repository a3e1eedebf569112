package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/GuptaAyush04/Drug-Safety-Calculator/docs"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/dto"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/schema"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/service"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/store"
)

type Handler struct {
	submissionService service.SubmissionServicer
	router            *gin.Engine
	log               *zap.Logger
}

func NewHandler(submissionService service.SubmissionServicer, log *zap.Logger) *Handler {
	h := &Handler{
		submissionService: submissionService,
		router:            gin.Default(),
		log:               log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/save_data", h.saveEvaluation)
	h.router.POST("/save_suggestion", h.saveSuggestion)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// saveEvaluation handles POST /save_data
// @Summary Save evaluation data
// @Description Append one clinical evaluation record to the evaluation store
// @Tags submissions
// @Accept json
// @Produce json
// @Param payload body object true "Evaluation payload"
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /save_data [post]
func (h *Handler) saveEvaluation(c *gin.Context) {
	h.save(c, schema.KindEvaluation, "Evaluation data saved successfully")
}

// saveSuggestion handles POST /save_suggestion
// @Summary Save a medication suggestion
// @Description Append one free-text medication suggestion to the suggestion store
// @Tags submissions
// @Accept json
// @Produce json
// @Param payload body object true "Suggestion payload"
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /save_suggestion [post]
func (h *Handler) saveSuggestion(c *gin.Context) {
	h.save(c, schema.KindSuggestion, "Suggestion saved successfully")
}

// save runs the shared submission flow for both kinds. Binding into a map
// doubles as the shape check: a scalar or array body fails to decode.
func (h *Handler) save(c *gin.Context, kind schema.Kind, successMessage string) {
	var payload map[string]any

	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Warn("Rejected non-object request body",
			zap.String("kind", string(kind)),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "malformed_request",
			Message: "Request body must be a JSON object",
		})
		return
	}

	// A bare JSON null decodes into a nil map without a binding error.
	if payload == nil {
		h.log.Warn("Rejected null request body", zap.String("kind", string(kind)))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "malformed_request",
			Message: "Request body must be a JSON object",
		})
		return
	}

	if err := h.submissionService.Submit(c.Request.Context(), kind, payload); err != nil {
		h.respondError(c, kind, err)
		return
	}

	h.log.Info("Submission accepted", zap.String("kind", string(kind)))

	c.JSON(http.StatusOK, dto.SubmitResponse{
		Message: successMessage,
	})
}

// respondError maps the service error taxonomy onto HTTP statuses. 4xx
// means the caller must change the request; 5xx means it may retry as-is.
func (h *Handler) respondError(c *gin.Context, kind schema.Kind, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.log.Warn("Submission rejected",
			zap.String("kind", string(kind)),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, store.ErrUnavailable):
		h.log.Error("Record storage unavailable",
			zap.String("kind", string(kind)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "storage_error",
			Message: "Could not access record storage",
		})
	default:
		h.log.Error("Failed to process submission",
			zap.String("kind", string(kind)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "An internal server error occurred",
		})
	}
}
