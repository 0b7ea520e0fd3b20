package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

type createRecurringReq struct {
	Weekday       int     `json:"weekday"` // 0=Monday .. 6=Sunday
	Start         string  `json:"start"`   // HH:MM
	ValidFrom     string  `json:"valid_from"`
	ValidUntil    string  `json:"valid_until,omitempty"`
	PriceCents    uint32  `json:"price_cents,omitempty"` // 0 = court base price
	PlayerID      *uint64 `json:"player_id,omitempty"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// CreateRecurring handles POST /v1/courts/:id/recurring.  The weekly
// window must start on a grid slot of the court and spans exactly one
// slot; overlapping an existing active recurrence is a conflict.
func (h *OwnerHandler) CreateRecurring(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req createRecurringReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "weekday must be 0 (Monday) to 6 (Sunday)"})
	}

	ctx := c.Request().Context()
	if ok, resp := h.requireCourtOwner(c, courtID, ownerID); !ok {
		return resp
	}
	cfg, err := h.CourtRepo.Config(ctx, courtID)
	if err != nil {
		if handled, herr := scheduleError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	startMin, err := schedule.ParseClock(req.Start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be HH:MM"})
	}
	grid, err := schedule.Grid(cfg)
	if err != nil {
		if handled, herr := scheduleError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var slot *schedule.Interval
	for i := range grid {
		if grid[i].Start == startMin {
			slot = &grid[i]
			break
		}
	}
	if slot == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start is not a slot boundary"})
	}

	validFrom, err := schedule.ParseDate(req.ValidFrom)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_from must be YYYY-MM-DD"})
	}
	var validUntil *time.Time
	if req.ValidUntil != "" {
		vu, err := schedule.ParseDate(req.ValidUntil)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_until must be YYYY-MM-DD"})
		}
		if vu.Before(validFrom) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid_until is before valid_from"})
		}
		validUntil = &vu
	}

	price := req.PriceCents
	if price == 0 {
		price = cfg.PriceCents
	}
	rb := &model.RecurringBooking{
		CourtID:       courtID,
		Weekday:       req.Weekday,
		StartMin:      slot.Start,
		EndMin:        slot.End,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		PriceCents:    price,
		PlayerID:      req.PlayerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Notes:         req.Notes,
		CreatedBy:     ownerID,
	}
	if err := h.RecurringRepo.Create(ctx, rb); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "overlapping recurring booking exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create recurring failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": rb.ID, "status": rb.Status})
}

// ListRecurring handles GET /v1/courts/:id/recurring.
func (h *OwnerHandler) ListRecurring(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	if ok, resp := h.requireCourtOwner(c, courtID, ownerID); !ok {
		return resp
	}
	items, err := h.RecurringRepo.ListByCourt(c.Request().Context(), courtID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PauseRecurring handles PATCH /v1/recurring/:id/pause.  A paused
// recurrence stops projecting occupancy until reactivated.
func (h *OwnerHandler) PauseRecurring(c echo.Context) error {
	return h.setRecurringStatus(c, model.RecurringPaused)
}

// ResumeRecurring handles PATCH /v1/recurring/:id/resume.  Reactivation
// re-runs the overlap check against other active recurrences.
func (h *OwnerHandler) ResumeRecurring(c echo.Context) error {
	return h.setRecurringStatus(c, model.RecurringActive)
}

// CancelRecurring handles DELETE /v1/recurring/:id.  Cancellation is
// terminal; the row stays for history but never occupies again.
func (h *OwnerHandler) CancelRecurring(c echo.Context) error {
	return h.setRecurringStatus(c, model.RecurringCancelled)
}

func (h *OwnerHandler) setRecurringStatus(c echo.Context, status string) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	recurringID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid recurring id"})
	}
	ctx := c.Request().Context()

	rb, err := h.RecurringRepo.GetByID(ctx, recurringID)
	if err != nil {
		if err == repository.ErrRecurringNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recurring booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ok, resp := h.requireCourtOwner(c, rb.CourtID, ownerID); !ok {
		return resp
	}

	if err := h.RecurringRepo.SetStatus(ctx, recurringID, status); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "status change not allowed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": recurringID, "status": status})
}

type createReleaseReq struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason,omitempty"`
}

// CreateRelease handles POST /v1/recurring/:id/releases.  It frees a
// single occurrence date of the recurrence; the slot shows as free and
// can be booked one-off.
func (h *OwnerHandler) CreateRelease(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	recurringID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid recurring id"})
	}
	var req createReleaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()

	rb, err := h.RecurringRepo.GetByID(ctx, recurringID)
	if err != nil {
		if err == repository.ErrRecurringNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "recurring booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ok, resp := h.requireCourtOwner(c, rb.CourtID, ownerID); !ok {
		return resp
	}

	rel := &model.Release{RecurringID: recurringID, Date: date, Reason: strings.TrimSpace(req.Reason)}
	if err := h.RecurringRepo.CreateRelease(ctx, rel); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "date is not an occupied occurrence or already released"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create release failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": rel.ID, "date": req.Date})
}

// DeleteRelease handles DELETE /v1/releases/:id, putting the occurrence
// back on the schedule.
func (h *OwnerHandler) DeleteRelease(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	releaseID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid release id"})
	}
	ctx := c.Request().Context()

	rel, err := h.RecurringRepo.GetReleaseByID(ctx, releaseID)
	if err != nil {
		if err == repository.ErrReleaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rb, err := h.RecurringRepo.GetByID(ctx, rel.RecurringID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ok, resp := h.requireCourtOwner(c, rb.CourtID, ownerID); !ok {
		return resp
	}

	if err := h.RecurringRepo.DeleteRelease(ctx, releaseID); err != nil {
		if err == repository.ErrReleaseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "release not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete release failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// requireCourtOwner verifies the court belongs to ownerID.  When it
// does not, the response has already been written and ok is false.
func (h *OwnerHandler) requireCourtOwner(c echo.Context, courtID, ownerID uint64) (bool, error) {
	actual, err := h.CourtRepo.OwnerOf(c.Request().Context(), courtID)
	if err != nil {
		if err == repository.ErrCourtNotFound {
			return false, c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if actual != ownerID {
		return false, c.JSON(http.StatusForbidden, echo.Map{"error": "not your court"})
	}
	return true, nil
}
