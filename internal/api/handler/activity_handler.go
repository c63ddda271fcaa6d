package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

type ActivityHandler struct {
	activities ports.ActivityService
}

func NewActivityHandler(activities ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{activities: activities}
}

// Log handles POST /api/activities.
//
// @Summary      Log an activity
// @Tags         activities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      logActivityRequest  true  "Activity"
// @Success      201   {object}  createdResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/activities [post]
func (h *ActivityHandler) Log(c echo.Context) error {
	actorID, err := ctxActorID(c)
	if err != nil {
		return err
	}
	var req logActivityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	a, err := h.activities.Log(c.Request().Context(), ports.LogActivityInput{
		ActorID: actorID,
		Type:    req.ActivityType,
		Details: req.Details,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createdResponse{Message: "Activity logged successfully", ID: a.ID})
}
