package handler // handler package contains customer ticket purchase endpoints

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinozal/ticket-office/internal/booking"
	"github.com/kinozal/ticket-office/internal/queue"
	"github.com/kinozal/ticket-office/internal/repository"
	"github.com/kinozal/ticket-office/internal/schedule"
	queue_publisher "github.com/kinozal/ticket-office/internal/service"
)

// PurchaseHandler serves ticket purchases and the customer's purchase
// history. Buying goes through the accountant, which checks availability and
// records the ticket plus the user's spend in one transaction.
type PurchaseHandler struct {
	Accountant *booking.Accountant
	Tickets    *repository.TicketRepo
	Users      *repository.UserRepo
	Showtimes  *repository.ShowtimeRepo
	Halls      *repository.HallRepo
}

func NewPurchaseHandler(acc *booking.Accountant, tickets *repository.TicketRepo, users *repository.UserRepo, showtimes *repository.ShowtimeRepo, halls *repository.HallRepo) *PurchaseHandler {
	if acc == nil || tickets == nil || users == nil || showtimes == nil || halls == nil {
		panic("nil dependency passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{Accountant: acc, Tickets: tickets, Users: users, Showtimes: showtimes, Halls: halls}
}

type purchaseReq struct {
	ShowtimeID uint64 `json:"showtime_id"`
	Date       string `json:"date"` // "2006-01-02", empty means today
	Quantity   int    `json:"quantity"`
}

// Buy handles POST /v1/tickets.
func (h *PurchaseHandler) Buy(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ShowtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "showtime_id is required"})
	}
	var date time.Time
	if raw := strings.TrimSpace(req.Date); raw != "" {
		d, err := schedule.ParseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date format"})
		}
		date = d
	}

	ticket, err := h.Accountant.Purchase(c.Request().Context(), uid, req.ShowtimeID, date, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrShowtimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case errors.Is(err, booking.ErrInvalidQuantity):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrInsufficientCapacity):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, schedule.ErrPastSchedule):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
	}

	go h.publishPurchased(ticket)

	return c.JSON(http.StatusCreated, echo.Map{
		"ticket_id":     ticket.ID,
		"showtime_id":   ticket.ShowtimeID,
		"purchase_date": ticket.PurchaseDate.Format("2006-01-02"),
		"quantity":      ticket.Quantity,
		"amount_cents":  ticket.AmountCents,
	})
}

// publishPurchased emits the ticket.purchased event. Best effort: a broker
// outage must not fail a committed purchase, so errors are only logged.
func (h *PurchaseHandler) publishPurchased(t *booking.Ticket) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.TicketPurchasedEvent{
		TicketID:     t.ID,
		UserID:       t.UserID,
		ShowtimeID:   t.ShowtimeID,
		PurchaseDate: t.PurchaseDate.Format("2006-01-02"),
		Quantity:     t.Quantity,
		AmountCents:  t.AmountCents,
		PurchasedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if st, err := h.Showtimes.GetByID(ctx, t.ShowtimeID); err == nil {
		ev.HallID = st.HallID
		ev.Title = st.Title
		ev.StartTime = st.StartTime.String()
		if hall, err := h.Halls.GetByID(ctx, st.HallID); err == nil {
			ev.HallName = hall.Name
		}
	}
	if err := queue_publisher.PublishTicketPurchased(ctx, ev); err != nil {
		log.Printf("purchase: publish event failed: %v", err)
	}
}

// MyTickets handles GET /v1/tickets: the caller's purchases newest first,
// plus their cumulative spend.
func (h *PurchaseHandler) MyTickets(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page, perPage := pageParams(c, 20, 100)
	offset := (page - 1) * perPage

	details, err := h.Tickets.ListByUser(c.Request().Context(), uid, perPage, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	total, err := h.Tickets.CountByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	spent, err := h.Users.MoneySpent(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load spend"})
	}

	items := make([]echo.Map, 0, len(details))
	for i := range details {
		d := &details[i]
		items = append(items, echo.Map{
			"ticket_id":     d.ID,
			"showtime_id":   d.ShowtimeID,
			"title":         d.Title,
			"hall_name":     d.HallName,
			"purchase_date": d.PurchaseDate.Format("2006-01-02"),
			"start_time":    d.StartTime.String(),
			"quantity":      d.Quantity,
			"amount_cents":  d.AmountCents,
			"purchased_at":  d.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":             items,
		"page":              page,
		"per_page":          perPage,
		"total":             total,
		"money_spent_cents": spent,
	})
}
