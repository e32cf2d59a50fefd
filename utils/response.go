package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   ErrorKind   `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created returns a 201 response for newly stored resources.
func Created(ctx *gin.Context, message string, data interface{}) {
	Respond(ctx, http.StatusCreated, 0, message, data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Error:   kindForStatus(status),
	})
}

// Fail writes err as an error envelope. Anything that is not an *AppError is reported as an internal error.
// Internal errors are logged with the request id and their cause never reaches the client.
func Fail(ctx *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(50000, err)
	}
	if appErr.Kind == KindInternal {
		Logger.Error("request failed",
			zap.String("request_id", ctx.GetString(RequestIDKey)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(appErr.Err),
		)
	}
	ctx.AbortWithStatusJSON(appErr.Status(), JSONResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Error:   appErr.Kind,
	})
}
