package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-clean-tweets/internal/rest/response"
)

// Recovery turns a panic into the generic 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		Logger(c).Errorf("panic recovered: %v", rec)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.NewError(response.MsgInternal))
	})
}
