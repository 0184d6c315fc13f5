package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// LogApi writes one access line per request. Only the URL path is logged so
// the WebSocket ?token= never ends up in the access log.
func LogApi() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: formatAccessLine,
		SkipPaths: []string{"/health"},
	})
}

func formatAccessLine(param gin.LogFormatterParams) string {
	userID := "-"
	if param.Keys != nil {
		if id, ok := param.Keys[ContextUserID].(uint); ok {
			userID = fmt.Sprintf("%d", id)
		}
	}

	return fmt.Sprintf("[%s] | %s | %d | %s | %s | user=%s | %s | %s | %s\n",
		param.TimeStamp.Format("2006-01-02 15:04:05"),
		param.ClientIP,
		param.StatusCode,
		param.Method,
		param.Request.URL.Path,
		userID,
		param.ErrorMessage,
		param.Latency,
		param.Request.Proto,
	)
}
