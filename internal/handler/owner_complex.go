package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/schedule"
)

// OwnerHandler bundles repositories for owners to manage their
// complexes, courts, recurring bookings, tournaments and walk-in
// bookings.  All methods assume JWT authentication and the OWNER role
// check were performed by middleware; ownership of the touched
// resources is still verified per request.
type OwnerHandler struct {
	ComplexRepo    *repository.ComplexRepo
	CourtRepo      *repository.CourtRepo
	BookingRepo    *repository.BookingRepo
	RecurringRepo  *repository.RecurringRepo
	TournamentRepo *repository.TournamentRepo
}

// NewOwnerHandler constructs an OwnerHandler and panics if any
// dependency is nil.
func NewOwnerHandler(cx *repository.ComplexRepo, ct *repository.CourtRepo, b *repository.BookingRepo, rc *repository.RecurringRepo, t *repository.TournamentRepo) *OwnerHandler {
	if cx == nil || ct == nil || b == nil || rc == nil || t == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{ComplexRepo: cx, CourtRepo: ct, BookingRepo: b, RecurringRepo: rc, TournamentRepo: t}
}

type createComplexReq struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
	Slug    string `json:"slug"`
}

// CreateComplex handles POST /v1/complexes.
func (h *OwnerHandler) CreateComplex(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createComplexReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}

	cx := &model.Complex{
		OwnerID: ownerID,
		Name:    req.Name,
		Address: strings.TrimSpace(req.Address),
		City:    strings.TrimSpace(req.City),
		Phone:   strings.TrimSpace(req.Phone),
		Slug:    req.Slug,
	}
	ctx := c.Request().Context()
	if err := h.ComplexRepo.Create(ctx, cx); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create complex failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": cx.ID, "slug": cx.Slug})
}

// ListComplexes handles GET /v1/owner/complexes and returns the
// caller's complexes only.
func (h *OwnerHandler) ListComplexes(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	complexes, err := h.ComplexRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": complexes})
}

type courtReq struct {
	Name        string `json:"name"`
	Sport       string `json:"sport"`
	OpenTime    string `json:"open_time"`  // HH:MM
	CloseTime   string `json:"close_time"` // HH:MM
	SlotMinutes int    `json:"slot_minutes"`
	PriceCents  uint32 `json:"price_cents"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// validateCourtTimes rejects operating windows the engine would refuse
// to build a grid for, so misconfigured courts never reach the table.
func validateCourtTimes(openTime, closeTime string, slotMinutes int) error {
	openMin, err := schedule.ParseClock(openTime)
	if err != nil {
		return err
	}
	closeMin, err := schedule.ParseClock(closeTime)
	if err != nil {
		return err
	}
	if _, err := schedule.Grid(schedule.CourtConfig{OpenMin: openMin, CloseMin: closeMin, SlotMinutes: slotMinutes}); err != nil {
		return err
	}
	return nil
}

// CreateCourt handles POST /v1/complexes/:id/courts.  The complex must
// belong to the caller.
func (h *OwnerHandler) CreateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	complexID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid complex id"})
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if err := validateCourtTimes(req.OpenTime, req.CloseTime, req.SlotMinutes); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid operating window or slot duration"})
	}

	ctx := c.Request().Context()
	if _, err := h.ComplexRepo.GetByIDAndOwner(ctx, complexID, ownerID); err != nil {
		if err == repository.ErrComplexNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "complex not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	court := &model.Court{
		ComplexID:   complexID,
		Name:        req.Name,
		Sport:       strings.TrimSpace(req.Sport),
		OpenTime:    req.OpenTime,
		CloseTime:   req.CloseTime,
		SlotMinutes: req.SlotMinutes,
		PriceCents:  req.PriceCents,
	}
	if err := h.CourtRepo.Create(ctx, court); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "court already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create court failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": court.ID})
}

// UpdateCourt handles PATCH /v1/courts/:id.  Absent fields keep their
// current value.  Existing bookings keep their frozen intervals; only
// future admissions see the new grid.
func (h *OwnerHandler) UpdateCourt(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	court, err := h.CourtRepo.GetByID(ctx, courtID)
	if err != nil {
		if err == repository.ErrCourtNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if v := strings.TrimSpace(req.Name); v != "" {
		court.Name = v
	}
	if v := strings.TrimSpace(req.Sport); v != "" {
		court.Sport = v
	}
	if req.OpenTime != "" {
		court.OpenTime = req.OpenTime
	}
	if req.CloseTime != "" {
		court.CloseTime = req.CloseTime
	}
	if req.SlotMinutes != 0 {
		court.SlotMinutes = req.SlotMinutes
	}
	if req.PriceCents != 0 {
		court.PriceCents = req.PriceCents
	}
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}
	if err := validateCourtTimes(court.OpenTime, court.CloseTime, court.SlotMinutes); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid operating window or slot duration"})
	}

	if err := h.CourtRepo.Update(ctx, court, ownerID); err != nil {
		switch err {
		case repository.ErrCourtNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update court failed"})
	}
	return c.JSON(http.StatusOK, court)
}
