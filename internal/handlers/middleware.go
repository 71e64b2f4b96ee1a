package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const ctxBoardKey = "board"

var boardParamPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// boardMiddleware validates the :board path segment and stores it lowercased.
func (h *Handler) boardMiddleware(c *gin.Context) {
	board := strings.ToLower(strings.TrimSpace(c.Param("board")))
	if board == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "missing board name",
		})
		return
	}
	if !boardParamPattern.MatchString(board) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "invalid board name",
		})
		return
	}

	// store in Gin context
	c.Set(ctxBoardKey, board)
	c.Next()
}

func (h *Handler) requestLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"remote", c.ClientIP(),
		"latency", time.Since(start),
	)
}
