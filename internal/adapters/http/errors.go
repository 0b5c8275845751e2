package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/daily-quote/internal/adapters/http/dto"
)

// AbortWithErrorCode aborts the request chain with a specific error code.
// Handlers report domain errors through dto.HandleError instead.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message).WithTraceID(dto.GetTraceID(c))

	c.AbortWithStatusJSON(dto.HTTPStatusFromCode(code), errResp)
}
