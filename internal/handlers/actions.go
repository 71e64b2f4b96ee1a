package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errServeActions    = "failed to load actions"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Commands for a board
// @Description  One "port,minutes" line per action, then "0,minutes" when a sleep is set. Unknown boards get an empty body.
// @Tags         actions
// @Produce      plain
// @Param        board  path  string  true  "Board name"  example(eightport)
// @Success      200  {string}  string  "1,5\n3,2\n0,90\n"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /actions/{board}/ [get]
func (h *Handler) serveActions(c *gin.Context) {
	board := c.GetString(ctxBoardKey)
	body, err := h.services.Plans.Body(c.Request.Context(), board, c.ClientIP())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errServeActions, "actions_serve_failed", err, "board", board)
		return
	}
	c.String(http.StatusOK, body)
}
