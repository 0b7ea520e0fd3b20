package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

type tournamentWindowReq struct {
	CourtID uint64 `json:"court_id"`
	Start   string `json:"start,omitempty"` // HH:MM, defaults to court open
	End     string `json:"end,omitempty"`   // HH:MM, defaults to court close
}

type createTournamentReq struct {
	Name     string                `json:"name"`
	StartsOn string                `json:"starts_on"`
	EndsOn   string                `json:"ends_on"`
	Category string                `json:"category,omitempty"`
	CourtIDs []uint64              `json:"court_ids,omitempty"` // default: every active court
	Windows  []tournamentWindowReq `json:"windows,omitempty"`   // default: whole operating window
}

// CreateTournament handles POST /v1/complexes/:id/tournaments.  It
// creates the tournament and bulk-creates one blackout per court per
// date.  Without explicit windows, every listed court (or every active
// court of the complex) is blocked for its whole operating window.
func (h *OwnerHandler) CreateTournament(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	complexID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid complex id"})
	}
	var req createTournamentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	startsOn, err := schedule.ParseDate(req.StartsOn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_on must be YYYY-MM-DD"})
	}
	endsOn, err := schedule.ParseDate(req.EndsOn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on must be YYYY-MM-DD"})
	}
	if endsOn.Before(startsOn) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_on is before starts_on"})
	}

	ctx := c.Request().Context()
	if _, err := h.ComplexRepo.GetByIDAndOwner(ctx, complexID, ownerID); err != nil {
		if err == repository.ErrComplexNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "complex not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	windows, err := h.resolveBlackoutWindows(c, complexID, req)
	if err != nil {
		return err // response already written
	}
	if windows == nil {
		return nil // error response written inside resolveBlackoutWindows
	}
	if len(windows) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no courts to block"})
	}

	t := &model.Tournament{
		ComplexID: complexID,
		Name:      req.Name,
		StartsOn:  startsOn,
		EndsOn:    endsOn,
		Category:  strings.TrimSpace(req.Category),
		CreatedBy: ownerID,
	}
	if err := h.TournamentRepo.Create(ctx, t, windows); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "blackout already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create tournament failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":        t.ID,
		"status":    t.Status,
		"starts_on": req.StartsOn,
		"ends_on":   req.EndsOn,
		"courts":    len(windows),
	})
}

// resolveBlackoutWindows turns the request's court list (or the whole
// complex) into concrete per-court minute ranges.  Courts outside the
// complex are rejected.  On a handled error it writes the response and
// returns (nil, respErr-or-nil).
func (h *OwnerHandler) resolveBlackoutWindows(c echo.Context, complexID uint64, req createTournamentReq) ([]repository.BlackoutWindow, error) {
	ctx := c.Request().Context()

	courts, err := h.CourtRepo.ListByComplex(ctx, complexID)
	if err != nil {
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	byID := make(map[uint64]*model.Court, len(courts))
	for _, ct := range courts {
		byID[ct.ID] = ct
	}

	wholeWindow := func(ct *model.Court) (repository.BlackoutWindow, bool) {
		openMin, err1 := schedule.ParseClock(ct.OpenTime)
		closeMin, err2 := schedule.ParseClock(ct.CloseTime)
		if err1 != nil || err2 != nil {
			return repository.BlackoutWindow{}, false
		}
		return repository.BlackoutWindow{CourtID: ct.ID, StartMin: openMin, EndMin: closeMin}, true
	}

	if len(req.Windows) > 0 {
		out := make([]repository.BlackoutWindow, 0, len(req.Windows))
		for _, w := range req.Windows {
			ct, ok := byID[w.CourtID]
			if !ok {
				return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "court does not belong to this complex"})
			}
			win, ok := wholeWindow(ct)
			if !ok {
				return nil, c.JSON(http.StatusConflict, echo.Map{"error": "court schedule misconfigured"})
			}
			if w.Start != "" {
				if win.StartMin, err = schedule.ParseClock(w.Start); err != nil {
					return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "window start must be HH:MM"})
				}
			}
			if w.End != "" {
				if win.EndMin, err = schedule.ParseClock(w.End); err != nil {
					return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "window end must be HH:MM"})
				}
			}
			if win.StartMin >= win.EndMin {
				return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "window start must be before end"})
			}
			out = append(out, win)
		}
		return out, nil
	}

	ids := req.CourtIDs
	if len(ids) == 0 {
		ids = make([]uint64, 0, len(courts))
		for _, ct := range courts {
			ids = append(ids, ct.ID)
		}
	}
	out := make([]repository.BlackoutWindow, 0, len(ids))
	for _, id := range ids {
		ct, ok := byID[id]
		if !ok {
			return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "court does not belong to this complex"})
		}
		win, ok := wholeWindow(ct)
		if !ok {
			return nil, c.JSON(http.StatusConflict, echo.Map{"error": "court schedule misconfigured"})
		}
		out = append(out, win)
	}
	return out, nil
}

// ListTournaments handles GET /v1/complexes/:id/tournaments.
func (h *OwnerHandler) ListTournaments(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	complexID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid complex id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ComplexRepo.GetByIDAndOwner(ctx, complexID, ownerID); err != nil {
		if err == repository.ErrComplexNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "complex not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.TournamentRepo.ListByComplex(ctx, complexID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CancelTournament handles DELETE /v1/tournaments/:id.  It cancels the
// tournament and deletes all of its blackouts, freeing the courts.
func (h *OwnerHandler) CancelTournament(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tournamentID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tournament id"})
	}
	ctx := c.Request().Context()

	t, err := h.TournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if err == repository.ErrTournamentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tournament not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.ComplexRepo.GetByIDAndOwner(ctx, t.ComplexID, ownerID); err != nil {
		if err == repository.ErrComplexNotFound {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := h.TournamentRepo.Cancel(ctx, tournamentID); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tournament already finished or cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel tournament failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
