package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/schedule"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric :param from the route.  Zero is invalid.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// scheduleError translates engine errors into HTTP responses.  Conflicts
// become 409 with a machine-readable reason, past slots 422, validation
// failures 400.  It returns false when err is not an engine error.
func scheduleError(c echo.Context, err error) (bool, error) {
	if conflict, ok := schedule.AsConflict(err); ok {
		return true, c.JSON(http.StatusConflict, echo.Map{
			"error":  "slot not available",
			"reason": string(conflict.Reason),
		})
	}
	switch {
	case errors.Is(err, schedule.ErrPastSlot):
		return true, c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "slot is in the past"})
	case errors.Is(err, schedule.ErrOffGrid):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "start is not a slot boundary"})
	case errors.Is(err, schedule.ErrMalformedInput):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date or time"})
	case errors.Is(err, schedule.ErrCourtMisconfigured):
		return true, c.JSON(http.StatusConflict, echo.Map{"error": "court schedule misconfigured"})
	}
	return false, nil
}
