package utils

import (
	"net/http"
	"time"

	"insuranceapi/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// InitLoggerWithConfig initializes the global logger with rotation settings.
func InitLoggerWithConfig(filePath, level string, maxSize, maxBackups, maxAge int, compress bool) {
	logger.Init(logger.Options{
		File:       filePath,
		Level:      logger.ParseLogLevel(level),
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   compress,
	})
	logger.Infof("Logger initialized with level %s at: %s", level, filePath)
}

// LoggerMiddleware logs every request at a level chosen by its status code.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()
		reqID := c.GetString(RequestIDKey)

		switch {
		case status >= 500:
			logger.Errorf("HTTP %s %s - Status: %d, Duration: %v, IP: %s, RequestID: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP(), reqID)
		case status >= 400:
			logger.Warnf("HTTP %s %s - Status: %d, Duration: %v, IP: %s, RequestID: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP(), reqID)
		default:
			logger.Infof("HTTP %s %s - Status: %d, Duration: %v, IP: %s, RequestID: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP(), reqID)
		}
	}
}

// APIResponse is the envelope of every successful response.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PaginatedResponse is the envelope of list responses.
type PaginatedResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Data       interface{}        `json:"data"`
	Pagination PaginationMetadata `json:"pagination"`
}

// PaginationMetadata contains pagination information.
type PaginationMetadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// ErrorBody is the envelope of failed responses.
type ErrorBody struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// JSONResponse sends a JSON response with the specified HTTP status code.
func JSONResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// OKResponse wraps data in the success envelope.
func OKResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, APIResponse{Success: true, Message: message, Data: data})
}

// ListResponse writes a page of items with its pagination metadata.
func ListResponse(c *gin.Context, data interface{}, meta PaginationMetadata) {
	c.JSON(http.StatusOK, PaginatedResponse{Success: true, Data: data, Pagination: meta})
}

// ErrorResponse logs err and writes it with the status it maps to.
// Internal details are logged but never sent to the client.
func ErrorResponse(c *gin.Context, err error) {
	appErr := ToAppError(err)
	reqID := c.GetString(RequestIDKey)

	if appErr.Status >= http.StatusInternalServerError {
		logger.Errorf("API Error [%s] %s %s: %v", reqID, c.Request.Method, c.Request.URL.Path, err)
	} else {
		logger.Warnf("API Error [%s] %s %s: %v", reqID, c.Request.Method, c.Request.URL.Path, err)
	}

	c.AbortWithStatusJSON(appErr.Status, ErrorBody{
		Success:   false,
		Error:     appErr.Code,
		Message:   appErr.Message,
		Field:     appErr.Field,
		RequestID: reqID,
	})
}
