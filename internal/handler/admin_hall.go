package handler // handler package contains admin hall management endpoints

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kinozal/ticket-office/internal/repository"
	"github.com/kinozal/ticket-office/internal/schedule"
)

// AdminHandler bundles the dependencies admins use to manage halls and
// showtimes. Role middleware guarantees only ADMIN users reach these
// handlers.
type AdminHandler struct {
	HallRepo     *repository.HallRepo
	ShowtimeRepo *repository.ShowtimeRepo
	Validator    *schedule.Validator
	HallGuard    *schedule.HallGuard
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(hallRepo *repository.HallRepo, showtimeRepo *repository.ShowtimeRepo, validator *schedule.Validator, guard *schedule.HallGuard) *AdminHandler {
	if hallRepo == nil || showtimeRepo == nil || validator == nil || guard == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{HallRepo: hallRepo, ShowtimeRepo: showtimeRepo, Validator: validator, HallGuard: guard}
}

type hallBody struct {
	Name     string `json:"name"`
	Capacity uint32 `json:"capacity"`
}

// CreateHall handles POST /v1/halls. Capacity must be positive and the name
// unique.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	var body hallBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	hall := &repository.Hall{Name: name, Capacity: body.Capacity}
	if err := h.HallRepo.Create(c.Request().Context(), hall); err != nil {
		if err == repository.ErrHallNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hall"})
	}
	return c.JSON(http.StatusCreated, hall)
}

// UpdateHall handles PUT /v1/halls/:id. A hall with any ticket sales in any
// of its showtimes is locked and cannot be modified.
func (h *AdminHandler) UpdateHall(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cur, err := h.HallRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hall"})
	}

	ok, err := h.HallGuard.CanModify(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check hall sales"})
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "tickets already sold for this hall, it cannot be modified"})
	}

	var body hallBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		name = cur.Name
	}
	capacity := body.Capacity
	if capacity == 0 {
		capacity = cur.Capacity
	}
	upd := &repository.Hall{ID: id, Name: name, Capacity: capacity}
	if err := h.HallRepo.Update(c.Request().Context(), upd); err != nil {
		switch {
		case err == repository.ErrHallNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall name already exists"})
		case err == sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	fresh, err := h.HallRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusOK, upd)
	}
	return c.JSON(http.StatusOK, fresh)
}
