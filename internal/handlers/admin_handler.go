package handlers

import (
	"net/http"
	"time"

	"spendwise_backend/internal/pipeline"
	"spendwise_backend/internal/workers"
	"spendwise_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	worker *workers.SettlementWorker
}

func NewAdminHandler(worker *workers.SettlementWorker) *AdminHandler {
	return &AdminHandler{worker: worker}
}

// TriggerSettlement re-runs the settlement pipeline, by default for
// yesterday, or for an explicit ?day=YYYY-MM-DD. All stages overwrite their
// own output, so replaying a failed or partial run is safe.
func (h *AdminHandler) TriggerSettlement(c *gin.Context) {
	day := pipeline.SettlementDay(time.Now())
	if raw := c.Query("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			appErr := apperrors.NewBadRequestError("invalid day, expected YYYY-MM-DD")
			c.JSON(appErr.HTTPCode, appErr)
			return
		}
		day = parsed
	}

	if err := h.worker.RunOnce(c.Request.Context(), day); err != nil {
		var appErr *apperrors.AppError
		if !apperrors.As(err, &appErr) {
			appErr = apperrors.InternalError(err)
		}
		c.JSON(appErr.HTTPCode, appErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "completed",
		"day":    day.Format("2006-01-02"),
	})
}
