package handlers

import (
	"errors"
	"net/http"

	"controllerboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errGetPlan    = "failed to load plan"
	errPutPlan    = "failed to store plan"
	errDeletePlan = "failed to delete plan"
	errNoPlan     = "no plan for board"
	errGetStatus  = "failed to load status"
)

// Request DTO for storing a plan.
type planRequest struct {
	Actions      []planActionRequest `json:"actions"`
	SleepMinutes *uint32             `json:"sleep_minutes,omitempty"`
}

type planActionRequest struct {
	Port    uint32 `json:"port" binding:"required"`
	Minutes uint32 `json:"minutes"`
}

// SetPlanRequest is an exported model for Swagger docs of the putPlan payload.
type SetPlanRequest struct {
	// Activations in execution order. Ports are 1-based.
	Actions []PlanActionDoc `json:"actions"`
	// Minutes of low power after the actions; omitted means the node default.
	SleepMinutes *uint32 `json:"sleep_minutes,omitempty" example:"90"`
}

type PlanActionDoc struct {
	Port    uint32 `json:"port" example:"1"`
	Minutes uint32 `json:"minutes" example:"5"`
}

// @Summary      Set plan
// @Description  Replaces what the board receives on its next poll.
// @Tags         boards
// @Accept       json
// @Produce      json
// @Param        board  path  string          true  "Board name"
// @Param        body   body  SetPlanRequest  true  "Plan payload"
// @Success      200   {object}  models.ActionPlan
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/boards/{board}/plan [put]
func (h *Handler) putPlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	board := c.GetString(ctxBoardKey)
	params := service.PlanParams{
		Board:        board,
		Actions:      make([]service.PlanActionParams, 0, len(req.Actions)),
		SleepMinutes: req.SleepMinutes,
	}
	for _, a := range req.Actions {
		params.Actions = append(params.Actions, service.PlanActionParams{Port: a.Port, Minutes: a.Minutes})
	}

	plan, err := h.services.Plans.Set(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errPutPlan, "plan_set_failed", err, "board", board)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// @Summary      Get plan
// @Tags         boards
// @Produce      json
// @Param        board  path  string  true  "Board name"
// @Success      200  {object}  models.ActionPlan
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/boards/{board}/plan [get]
func (h *Handler) getPlan(c *gin.Context) {
	board := c.GetString(ctxBoardKey)
	plan, err := h.services.Plans.Get(c.Request.Context(), board)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoPlan})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetPlan, "plan_get_failed", err, "board", board)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// @Summary      Delete plan
// @Tags         boards
// @Produce      json
// @Param        board  path  string  true  "Board name"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/boards/{board}/plan [delete]
func (h *Handler) deletePlan(c *gin.Context) {
	board := c.GetString(ctxBoardKey)
	if err := h.services.Plans.Delete(c.Request.Context(), board); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoPlan})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errDeletePlan, "plan_delete_failed", err, "board", board)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// @Summary      Node status
// @Description  Derived from the last stored sleep: UNKNOWN, ASLEEP or OVERDUE.
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.NodeStatus
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/status [get]
func (h *Handler) getStatus(c *gin.Context) {
	st, err := h.services.Status.GetStatus(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetStatus, "status_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
