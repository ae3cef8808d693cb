package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/poppy/internal/domain/discovery"
	apperrors "github.com/yanqian/poppy/pkg/errors"
)

const serviceName = "Poppy AI Entertainment Discovery"

// Handler wires the HTTP transport to the discovery service.
type Handler struct {
	discoverySvc discovery.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(discoverySvc discovery.Service, logger *slog.Logger) *Handler {
	return &Handler{
		discoverySvc: discoverySvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
}

// Recommend runs the mood based recommendation pipeline.
func (h *Handler) Recommend(c *gin.Context) {
	var query discovery.MoodQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if query.UserID == "" {
		query.UserID = viewerID(c)
	}

	session, err := h.discoverySvc.Recommend(c.Request.Context(), query)
	if err != nil {
		status := http.StatusInternalServerError
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
		}
		abortWithError(c, NewHTTPError(status, "recommendations_failed", "Failed to get recommendations: "+errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, discovery.Response{
		Recommendations:    session.Recommendations,
		MoodInterpretation: session.MoodInterpretation,
		SessionID:          session.SessionID,
	})
}

// History returns persisted recommendation sessions, most recent first.
func (h *Handler) History(c *gin.Context) {
	userID := c.Query("user_id")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "limit must be an integer", err))
			return
		}
		limit = parsed
	}

	sessions, err := h.discoverySvc.History(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "history_failed", "Failed to get history: "+errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": sessions})
}

// Feedback accepts an arbitrary JSON object and stores it.
func (h *Handler) Feedback(c *gin.Context) {
	var record map[string]any
	if err := c.ShouldBindJSON(&record); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	if err := h.discoverySvc.SaveFeedback(c.Request.Context(), record); err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "feedback_failed", "Failed to submit feedback: "+errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Feedback submitted successfully"})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
