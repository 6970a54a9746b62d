package handler // handler package contains admin showtime scheduling endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kinozal/ticket-office/internal/repository"
	"github.com/kinozal/ticket-office/internal/schedule"
)

type showtimeBody struct {
	HallID     uint64  `json:"hall_id"`
	Title      string  `json:"title"`
	StartDate  string  `json:"start_date"`  // "2006-01-02"
	FinishDate string  `json:"finish_date"` // "2006-01-02"
	StartTime  string  `json:"start_time"`  // "15:04" or "15:04:05"
	FinishTime string  `json:"finish_time"`
	PriceCents *uint32 `json:"price_cents"`
}

// parseInterval converts the request's date and time strings into a
// schedule.Interval. It reports which field failed so the client gets a
// precise message.
func parseInterval(b showtimeBody) (schedule.Interval, string) {
	var iv schedule.Interval
	sd, err := schedule.ParseDate(strings.TrimSpace(b.StartDate))
	if err != nil {
		return iv, "invalid start_date format"
	}
	fd, err := schedule.ParseDate(strings.TrimSpace(b.FinishDate))
	if err != nil {
		return iv, "invalid finish_date format"
	}
	st, err := schedule.ParseTimeOfDay(strings.TrimSpace(b.StartTime))
	if err != nil {
		return iv, "invalid start_time format"
	}
	ft, err := schedule.ParseTimeOfDay(strings.TrimSpace(b.FinishTime))
	if err != nil {
		return iv, "invalid finish_time format"
	}
	iv = schedule.Interval{StartDate: sd, FinishDate: fd, StartTime: st, FinishTime: ft}
	return iv, ""
}

// mergeShowtime overlays a partial update body onto the stored showtime:
// absent fields keep their stored values, including the hall, so a request
// carrying hall_id moves the showtime. Returns the merged fields and the
// effective price.
func mergeShowtime(cur *repository.Showtime, body showtimeBody) (showtimeBody, uint32) {
	merged := showtimeBody{
		HallID:     cur.HallID,
		Title:      cur.Title,
		StartDate:  cur.StartDate.Format("2006-01-02"),
		FinishDate: cur.FinishDate.Format("2006-01-02"),
		StartTime:  cur.StartTime.String(),
		FinishTime: cur.FinishTime.String(),
	}
	if body.HallID != 0 {
		merged.HallID = body.HallID
	}
	if v := strings.TrimSpace(body.Title); v != "" {
		merged.Title = v
	}
	if strings.TrimSpace(body.StartDate) != "" {
		merged.StartDate = body.StartDate
	}
	if strings.TrimSpace(body.FinishDate) != "" {
		merged.FinishDate = body.FinishDate
	}
	if strings.TrimSpace(body.StartTime) != "" {
		merged.StartTime = body.StartTime
	}
	if strings.TrimSpace(body.FinishTime) != "" {
		merged.FinishTime = body.FinishTime
	}
	price := cur.PriceCents
	if body.PriceCents != nil {
		price = *body.PriceCents
	}
	return merged, price
}

// validationResponse maps a validator error onto an HTTP response. The
// wrapped message carries the reason shown to the user.
func validationResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, schedule.ErrInvalidInterval), errors.Is(err, schedule.ErrPastSchedule):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, schedule.ErrScheduleConflict), errors.Is(err, schedule.ErrLockedForEditing):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to validate showtime"})
}

// CreateShowtime handles POST /v1/showtimes. The candidate runs through the
// same validator as updates: calendar sanity, not-in-the-past, and no
// overlap with other showtimes in the hall.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var body showtimeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hall_id is required"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if _, err := h.HallRepo.GetByID(c.Request().Context(), body.HallID); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify hall"})
	}
	iv, msg := parseInterval(body)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Validator.ValidateShowtime(c.Request().Context(), schedule.Candidate{HallID: body.HallID, Interval: iv}, 0); err != nil {
		return validationResponse(c, err)
	}
	var price uint32
	if body.PriceCents != nil {
		price = *body.PriceCents
	}
	st := &repository.Showtime{
		HallID:     body.HallID,
		Title:      title,
		StartDate:  iv.StartDate,
		FinishDate: iv.FinishDate,
		StartTime:  iv.StartTime,
		FinishTime: iv.FinishTime,
		PriceCents: price,
	}
	if err := h.ShowtimeRepo.Create(c.Request().Context(), st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create showtime"})
	}
	return c.JSON(http.StatusCreated, showtimeJSON(st))
}

// UpdateShowtime handles PUT /v1/showtimes/:id. Fields omitted from the
// body keep their current values; sending hall_id moves the showtime to
// that hall. The merged candidate then runs through the same validator as
// creation, excluding the showtime itself from the overlap check. A
// showtime with sold tickets is locked.
func (h *AdminHandler) UpdateShowtime(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.ShowtimeRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrShowtimeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtime"})
	}

	var body showtimeBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	merged, price := mergeShowtime(cur, body)
	if merged.HallID != cur.HallID {
		// Moving to another hall: the target must exist and the candidate
		// re-validates against that hall's schedule below.
		if _, err := h.HallRepo.GetByID(c.Request().Context(), merged.HallID); err != nil {
			if err == repository.ErrHallNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify hall"})
		}
	}
	iv, msg := parseInterval(merged)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if err := h.Validator.ValidateShowtime(c.Request().Context(), schedule.Candidate{HallID: merged.HallID, Interval: iv}, cur.ID); err != nil {
		return validationResponse(c, err)
	}

	upd := &repository.Showtime{
		ID:         cur.ID,
		HallID:     merged.HallID,
		Title:      merged.Title,
		StartDate:  iv.StartDate,
		FinishDate: iv.FinishDate,
		StartTime:  iv.StartTime,
		FinishTime: iv.FinishTime,
		PriceCents: price,
	}
	if err := h.ShowtimeRepo.Update(c.Request().Context(), upd); err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case err == repository.ErrNoChange:
			return c.JSON(http.StatusConflict, echo.Map{"error": "showtime already has these parameters"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	fresh, err := h.ShowtimeRepo.GetByID(c.Request().Context(), cur.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtime"})
	}
	return c.JSON(http.StatusOK, showtimeJSON(fresh))
}

// ListShowtimesInHall handles GET /v1/halls/:hall_id/showtimes.
func (h *AdminHandler) ListShowtimesInHall(c echo.Context) error {
	hallID, err := strconv.ParseUint(c.Param("hall_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall_id"})
	}
	if _, err := h.HallRepo.GetByID(c.Request().Context(), hallID); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	showtimes, err := h.ShowtimeRepo.ListByHall(c.Request().Context(), hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load showtimes"})
	}
	items := make([]echo.Map, 0, len(showtimes))
	for i := range showtimes {
		items = append(items, showtimeJSON(&showtimes[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// showtimeJSON renders a showtime with dates and times in their wire format.
func showtimeJSON(s *repository.Showtime) echo.Map {
	return echo.Map{
		"id":          s.ID,
		"hall_id":     s.HallID,
		"title":       s.Title,
		"start_date":  s.StartDate.Format("2006-01-02"),
		"finish_date": s.FinishDate.Format("2006-01-02"),
		"start_time":  s.StartTime.String(),
		"finish_time": s.FinishTime.String(),
		"price_cents": s.PriceCents,
	}
}
