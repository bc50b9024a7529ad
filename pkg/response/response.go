// Package response 提供 Gin 统一响应输出
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	base "github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Success 输出 200 响应，body 不做包装
func Success(c *gin.Context, data any) {
	base.SuccessWithRawData(c, data)
}

// Created 输出 201 响应
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// ErrorWithStatus 以指定状态码输出错误
func ErrorWithStatus(c *gin.Context, status int, msg string, detail string) {
	body := gin.H{"error": msg}
	if detail != "" {
		body["detail"] = detail
	}
	if id := logger.RequestID(c.Request.Context()); id != "" {
		body["request_id"] = id
	}
	c.AbortWithStatusJSON(status, body)
}

// Error 按错误类别映射状态码输出，内部错误会被记录
func Error(c *gin.Context, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		ErrorWithStatus(c, status, "internal server error", "")
		return
	}
	ErrorWithStatus(c, status, errorsx.Message(err), "")
}

// StatusOf 返回错误链中第一个 HTTPStatusProvider 给出的状态码，否则为 500
func StatusOf(err error) int {
	var p base.HTTPStatusProvider
	if errors.As(err, &p) {
		return p.HTTPStatus()
	}
	return http.StatusInternalServerError
}
