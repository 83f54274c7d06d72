package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Timeout puts a deadline on the request context so a hung backend call
// fails instead of blocking the caller. Websocket upgrades are long-lived
// and keep the original context.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if strings.EqualFold(ctx.GetHeader("Upgrade"), "websocket") {
			ctx.Next()
			return
		}

		timeoutCtx, cancel := context.WithTimeout(ctx.Request.Context(), d)
		defer cancel()

		ctx.Request = ctx.Request.WithContext(timeoutCtx)
		ctx.Next()
	}
}
