package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/queue"
	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/schedule"
	queue_publisher "github.com/matchpoint/court-reservation/internal/service"
)

// BookingHandler serves the booking endpoints shared by players and
// owners.  Players book for themselves; owners book on behalf of
// walk-in customers, in which case the booking is confirmed on the
// spot.  Admission itself is delegated to the schedule engine.
type BookingHandler struct {
	Admitter    *schedule.Admitter
	BookingRepo *repository.BookingRepo
	CourtRepo   *repository.CourtRepo
	ComplexRepo *repository.ComplexRepo
}

func NewBookingHandler(adm *schedule.Admitter, b *repository.BookingRepo, ct *repository.CourtRepo, cx *repository.ComplexRepo) *BookingHandler {
	if adm == nil || b == nil || ct == nil || cx == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Admitter: adm, BookingRepo: b, CourtRepo: ct, ComplexRepo: cx}
}

type createBookingReq struct {
	Date          string `json:"date"`  // YYYY-MM-DD
	Start         string `json:"start"` // HH:MM, must be a grid slot
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

type bookingView struct {
	ID         uint64 `json:"id"`
	CourtID    uint64 `json:"court_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	Paid       bool   `json:"paid"`
	PriceCents uint32 `json:"price_cents"`
	Notes      string `json:"notes,omitempty"`
}

func viewOf(b *model.Booking) bookingView {
	return bookingView{
		ID:         b.ID,
		CourtID:    b.CourtID,
		Date:       b.Date.Format("2006-01-02"),
		Start:      schedule.FormatClock(b.StartMin),
		End:        schedule.FormatClock(b.EndMin),
		Status:     b.Status,
		Paid:       b.Paid,
		PriceCents: b.PriceCents,
		Notes:      b.Notes,
	}
}

// CreateBooking handles POST /v1/courts/:id/bookings.  A player books
// the slot for themselves as PENDING.  An owner booking their own court
// registers a walk-in customer and the booking is CONFIRMED
// immediately.  Responds 201 on admission, 409 with a reason when the
// slot is taken, 422 for past slots and 400 for malformed input.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courtID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid court id"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Date == "" || req.Start == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date and start are required"})
	}

	ctx := c.Request().Context()
	cfg, err := h.CourtRepo.Config(ctx, courtID)
	if err != nil {
		if err == repository.ErrCourtNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "court not found"})
		}
		if handled, herr := scheduleError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	role, _ := c.Get("role").(string)
	byOperator := false
	if role == model.RoleOwner {
		ownerID, err := h.CourtRepo.OwnerOf(ctx, courtID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if ownerID != userID {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your court"})
		}
		byOperator = true
	}

	adm := schedule.AdmissionRequest{
		Date:          req.Date,
		Start:         req.Start,
		ByOperator:    byOperator,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	}
	if !byOperator || req.CustomerName == "" {
		// owner bookings with no walk-in name are for the owner themselves
		uid := userID
		adm.PlayerID = &uid
	}

	admitted, err := h.Admitter.Admit(ctx, cfg, adm)
	if err != nil {
		if handled, herr := scheduleError(c, err); handled {
			return herr
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "admission failed"})
	}

	status := model.BookingPending
	if admitted.Confirmed {
		status = model.BookingConfirmed
	}
	h.publishAdmitted(courtID, admitted, status, adm)

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":  admitted.BookingID,
		"status":      status,
		"date":        admitted.Date.Format("2006-01-02"),
		"start":       schedule.FormatClock(admitted.Interval.Start),
		"end":         schedule.FormatClock(admitted.Interval.End),
		"price_cents": admitted.PriceCents,
	})
}

// publishAdmitted emits the booking.admitted event in the background so
// broker trouble never delays or fails the request.
func (h *BookingHandler) publishAdmitted(courtID uint64, admitted *schedule.Admitted, status string, req schedule.AdmissionRequest) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.BookingAdmittedEvent{
			BookingID:    admitted.BookingID,
			CourtID:      courtID,
			Date:         admitted.Date.Format("2006-01-02"),
			Start:        schedule.FormatClock(admitted.Interval.Start),
			End:          schedule.FormatClock(admitted.Interval.End),
			Status:       status,
			PriceCents:   admitted.PriceCents,
			CustomerName: req.CustomerName,
			AdmittedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if req.PlayerID != nil {
			ev.PlayerID = *req.PlayerID
		}
		if court, err := h.CourtRepo.GetByID(ctx, courtID); err == nil {
			ev.CourtName = court.Name
			if cx, err := h.ComplexRepo.GetByID(ctx, court.ComplexID); err == nil {
				ev.ComplexName = cx.Name
			}
		}
		_ = queue_publisher.PublishBookingAdmitted(ctx, ev)
	}()
}

// ListMyBookings handles GET /v1/my-bookings.  Bookings are split into
// upcoming and past relative to the current time.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	bookings, err := h.BookingRepo.ListByPlayer(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}

	now := h.Admitter.Now().UTC()
	upcoming := make([]bookingView, 0)
	past := make([]bookingView, 0)
	for _, b := range bookings {
		slotStart := b.Date.Add(time.Duration(b.StartMin) * time.Minute)
		if slotStart.After(now) {
			upcoming = append(upcoming, viewOf(b))
		} else {
			past = append(past, viewOf(b))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upcoming": upcoming,
		"past":     past,
	})
}

// CancelBooking handles DELETE /v1/bookings/:id.  A player may cancel
// their own booking only while it is unpaid and has not started; the
// slot becomes free again.  Returns 204 on success, 403 for someone
// else's booking and 409 when the booking can no longer be cancelled.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx := c.Request().Context()

	b, err := h.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if b.PlayerID == nil || *b.PlayerID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.BookingRepo.Cancel(ctx, bookingID, h.Admitter.Now()); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
