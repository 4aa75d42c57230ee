package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessFlag is the body of operations that return no resource.
type SuccessFlag struct {
	Success bool `json:"success"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success writes data as the JSON body with the given status code.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// OK writes {"success": true}.
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessFlag{Success: true})
}

// Fail sends an error response for code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.Set(ContextKeyErrCode, code)
	c.JSON(statusCode, ErrorBody{Error: GetMessage(code)})
}

// FailWithDetails sends an error response carrying the underlying failure message.
func FailWithDetails(c *gin.Context, statusCode int, code ErrCode, details string) {
	c.Set(ContextKeyErrCode, code)
	c.JSON(statusCode, ErrorBody{Error: GetMessage(code), Details: details})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.Set(ContextKeyErrCode, code)
	c.AbortWithStatusJSON(statusCode, ErrorBody{Error: GetMessage(code)})
}
