package response

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/vidhub/pkg/errcode"
	"github.com/d60-Lab/vidhub/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func write(c *gin.Context, status int, data any, msg string) {
	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    msg,
		Success:    status < http.StatusBadRequest,
	})
}

// Success 200
func Success(c *gin.Context, data any, msg ...string) {
	write(c, http.StatusOK, data, firstOr(msg, "success"))
}

// Created 201
func Created(c *gin.Context, data any, msg ...string) {
	write(c, http.StatusCreated, data, firstOr(msg, "created"))
}

func BadRequest(c *gin.Context, msg string) {
	write(c, http.StatusBadRequest, nil, msg)
}

func Unauthorized(c *gin.Context, msg string) {
	write(c, http.StatusUnauthorized, nil, msg)
}

func TooManyRequests(c *gin.Context, msg string) {
	write(c, http.StatusTooManyRequests, nil, msg)
}

// InternalError 500，记录并上报原始错误
func InternalError(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
	write(c, http.StatusInternalServerError, nil, "internal server error")
}

// Error 按 errcode 分类映射状态码
func Error(c *gin.Context, err error) {
	kind := errcode.KindOf(err)
	if kind == errcode.KindDependency || kind == errcode.KindUnknown {
		InternalError(c, err)
		return
	}
	write(c, kind.HTTPStatus(), nil, errcode.Message(err))
}

func firstOr(xs []string, def string) string {
	if len(xs) > 0 && xs[0] != "" {
		return xs[0]
	}
	return def
}
