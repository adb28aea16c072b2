package util

import (
	"lingochat_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 错误响应结构，成功响应在此基础上附加业务字段
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// DataResponse 仪表盘等聚合接口的统一结构
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func Success(c *gin.Context, payload gin.H) {
	respond(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload gin.H) {
	respond(c, http.StatusCreated, payload)
}

func SuccessData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, DataResponse{Success: true, Data: data})
}

func respond(c *gin.Context, code int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["success"] = true
	c.JSON(code, payload)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success: false,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// RespondError 按错误分类返回 400/404/500
func RespondError(c *gin.Context, err error) {
	switch {
	case IsNotFound(err):
		NotFound(c, err.Error())
	case IsClientError(err):
		BadRequest(c, err.Error())
	default:
		LogInternalError(c, err)
	}
}
