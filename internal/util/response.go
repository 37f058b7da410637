package util

import (
	"clinplace_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope 统一响应结构。status 三态：success / error / warning，
// warning 表示请求成立但某个分支降级（如分类失败返回空匹配）。
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusWarning = "warning"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Status: StatusSuccess,
		Data:   data,
	})
}

func Warning(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Envelope{
		Status:  StatusWarning,
		Message: message,
		Data:    data,
	})
}

func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(httpStatus(appErr.Code), Envelope{
			Status:  StatusError,
			Message: appErr.Error(),
		})
		return
	}

	// 未归类的错误也要带原始信息回包，绝不裸崩
	logger.Log.Error("unmapped error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, Envelope{
		Status:  StatusError,
		Message: err.Error(),
	})
}

func Unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, Envelope{
		Status:  StatusError,
		Message: string(CodeUnauthenticated),
	})
}

func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, Envelope{
		Status:  StatusError,
		Message: string(CodeForbidden),
	})
}

func httpStatus(code ErrorCode) int {
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation, CodeUnknownAction:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUpstreamFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
