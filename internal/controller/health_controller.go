package controller

import (
	"clinplace_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	startedAt time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{startedAt: time.Now()}
}

// Check GET /api/health
func (ctrl *HealthController) Check(c *gin.Context) {
	util.Success(c, gin.H{
		"status": "ok",
		"uptime": time.Since(ctrl.startedAt).String(),
	})
}
