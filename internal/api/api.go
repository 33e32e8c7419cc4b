package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"game_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = time.DateOnly

func parseID(c *gin.Context, log *zap.Logger, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		log.Info("failed to parse id", zap.String("param", param), zap.String("value", c.Param(param)))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

// parseDate reads an optional YYYY-MM-DD value as a civil date.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}

func respondError(c *gin.Context, log *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, service.ErrGameNotFound),
		errors.Is(err, service.ErrSpendingNotFound),
		errors.Is(err, service.ErrCurrencyNotFound),
		errors.Is(err, service.ErrCharacterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGameExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("failed to "+action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + action})
	}
}

func badRequest(c *gin.Context, log *zap.Logger, err error) {
	log.Info("invalid request", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}
