package handler // handler package contains the public browse endpoints

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kinozal/ticket-office/internal/clock"
	"github.com/kinozal/ticket-office/internal/repository"
	"github.com/kinozal/ticket-office/internal/schedule"
)

// BrowseHandler serves the unauthenticated catalogue: halls and the
// showtimes running today or tomorrow.
type BrowseHandler struct {
	Halls     *repository.HallRepo
	Showtimes *repository.ShowtimeRepo
	Clk       clock.Clock
}

func NewBrowseHandler(halls *repository.HallRepo, showtimes *repository.ShowtimeRepo, clk clock.Clock) *BrowseHandler {
	if halls == nil || showtimes == nil || clk == nil {
		panic("nil dependency passed to NewBrowseHandler")
	}
	return &BrowseHandler{Halls: halls, Showtimes: showtimes, Clk: clk}
}

// ListHalls handles GET /v1/halls.
func (h *BrowseHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	items := make([]echo.Map, 0, len(halls))
	for _, hall := range halls {
		items = append(items, echo.Map{
			"id":       hall.ID,
			"name":     hall.Name,
			"capacity": hall.Capacity,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListShowtimes handles GET /v1/showtimes. Query params:
//
//	day  = today | tomorrow           (default today)
//	sort = start_time | price_asc | price_desc
//	page, per_page                    (default 20, cap 100)
//
// Each item carries the hall name and how many tickets are still available
// for the chosen day.
func (h *BrowseHandler) ListShowtimes(c echo.Context) error {
	day := schedule.DateOnly(h.Clk.Now())
	switch c.QueryParam("day") {
	case "", "today":
	case "tomorrow":
		day = day.AddDate(0, 0, 1)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be today or tomorrow"})
	}

	sort := c.QueryParam("sort")
	switch sort {
	case "", repository.SortByStartTime, repository.SortByPriceAsc, repository.SortByPriceDesc:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sort must be start_time, price_asc or price_desc"})
	}

	page, perPage := pageParams(c, 20, 100)
	offset := (page - 1) * perPage

	listings, err := h.Showtimes.ListOnDate(c.Request().Context(), day, sort, perPage, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
	}
	total, err := h.Showtimes.CountOnDate(c.Request().Context(), day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
	}

	items := make([]echo.Map, 0, len(listings))
	for i := range listings {
		l := &listings[i]
		left := l.TicketsLeft
		if left < 0 {
			left = 0
		}
		items = append(items, echo.Map{
			"id":           l.ID,
			"hall_id":      l.HallID,
			"hall_name":    l.HallName,
			"title":        l.Title,
			"start_date":   l.StartDate.Format("2006-01-02"),
			"finish_date":  l.FinishDate.Format("2006-01-02"),
			"start_time":   l.StartTime.String(),
			"finish_time":  l.FinishTime.String(),
			"price_cents":  l.PriceCents,
			"tickets_left": left,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":     day.Format("2006-01-02"),
		"items":    items,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}
