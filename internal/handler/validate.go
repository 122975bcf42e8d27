// Package handler contains HTTP handlers for the API.
package handler

import (
	"net/http"
	"time"

	"github.com/formsentry/internal/domain"
	"github.com/formsentry/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ValidateHandler handles form-validation requests.
type ValidateHandler struct {
	validator *service.Validator
	logger    *zap.Logger
}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler(validator *service.Validator, logger *zap.Logger) *ValidateHandler {
	return &ValidateHandler{
		validator: validator,
		logger:    logger.Named("validate_handler"),
	}
}

// Handle processes POST /validate requests.
func (h *ValidateHandler) Handle(c *gin.Context) {
	startTime := time.Now()
	requestID := c.GetString("request_id")

	logger := h.logger.With(zap.String("request_id", requestID))
	logger.Debug("received validation request")

	var req domain.ValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, domain.ValidationResponse{
			Success:     false,
			Results:     []domain.FieldResult{},
			Error:       "Invalid request body: " + err.Error(),
			ProcessedAt: time.Now(),
		})
		return
	}

	if len(req.Fields) == 0 {
		c.JSON(http.StatusBadRequest, domain.ValidationResponse{
			Success:     false,
			Results:     []domain.FieldResult{},
			Error:       "At least one field is required",
			ProcessedAt: time.Now(),
		})
		return
	}

	response := h.validator.Validate(c.Request.Context(), &req)

	logger.Info("validation request completed",
		zap.Bool("success", response.Success),
		zap.Int("field_count", len(req.Fields)),
		zap.Duration("duration", time.Since(startTime)),
	)

	if response.Success {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusUnprocessableEntity, response)
	}
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger.Named("health_handler"),
	}
}

// Handle processes GET /health requests.
func (h *HealthHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadyHandler handles readiness check requests.
type ReadyHandler struct {
	aiAvailable func() bool
	logger      *zap.Logger
}

// NewReadyHandler creates a new ReadyHandler.
func NewReadyHandler(aiAvailable func() bool, logger *zap.Logger) *ReadyHandler {
	return &ReadyHandler{
		aiAvailable: aiAvailable,
		logger:      logger.Named("ready_handler"),
	}
}

// Handle processes GET /ready requests. The service is ready even when the
// AI client has no credential: validation then degrades to rules only.
func (h *ReadyHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ready",
		"ai_available": h.aiAvailable(),
		"time":         time.Now().UTC().Format(time.RFC3339),
	})
}

// generateRequestID creates a simple unique request ID.
func generateRequestID() string {
	return time.Now().Format("20060102150405.000000")
}
