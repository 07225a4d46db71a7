package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/Houeta/employee-gateway/internal/metrics"
	"github.com/Houeta/employee-gateway/internal/models"
	"github.com/Houeta/employee-gateway/internal/services/employees"
)

// EmployeeService is the facade the REST handlers are served by.
type EmployeeService interface {
	ListAll(ctx context.Context) ([]models.Employee, error)
	SearchByName(ctx context.Context, searchString string) ([]models.Employee, error)
	GetByID(ctx context.Context, id string) (models.Employee, error)
	HighestSalary(ctx context.Context) (int, error)
	TopTenEarners(ctx context.Context) ([]string, error)
	Create(ctx context.Context, fields map[string]any) (models.Employee, error)
	DeleteByID(ctx context.Context, id string) (string, error)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Handler serves the employee routes.
type Handler struct {
	log     *slog.Logger
	service EmployeeService
}

func NewHandler(log *slog.Logger, service EmployeeService) *Handler {
	return &Handler{log: log, service: service}
}

// NewRouter returns the echo instance with middleware and every employee route registered.
func NewRouter(log *slog.Logger, service EmployeeService, metrics *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(requestLogger(log, metrics))
	e.Use(middleware.Recover())

	NewHandler(log, service).Register(e)

	return e
}

// Register binds the handlers to their routes. Static routes take precedence over /:id.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.ListAll)
	e.GET("/search/:searchString", h.SearchByName)
	e.GET("/highestSalary", h.HighestSalary)
	e.GET("/topTenHighestEarningEmployeeNames", h.TopTenEarners)
	e.GET("/:id", h.GetByID)
	e.POST("/", h.Create)
	e.DELETE("/:id", h.DeleteByID)
}

func (h *Handler) ListAll(c echo.Context) error {
	list, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

func (h *Handler) SearchByName(c echo.Context) error {
	list, err := h.service.SearchByName(c.Request().Context(), c.Param("searchString"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetByID(c echo.Context) error {
	employee, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, employee)
}

func (h *Handler) HighestSalary(c echo.Context) error {
	highest, err := h.service.HighestSalary(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, highest)
}

func (h *Handler) TopTenEarners(c echo.Context) error {
	names, err := h.service.TopTenEarners(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, names)
}

func (h *Handler) Create(c echo.Context) error {
	var fields map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		h.log.DebugContext(c.Request().Context(), "Unable to bind employee input", sl.Err(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
	}

	employee, err := h.service.Create(c.Request().Context(), fields)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, employee)
}

func (h *Handler) DeleteByID(c echo.Context) error {
	message, err := h.service.DeleteByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, message)
}

func (h *Handler) fail(c echo.Context, err error) error {
	code := statusFor(err)
	h.log.WarnContext(c.Request().Context(), "Request failed",
		"method", c.Request().Method, "route", c.Path(), "status", code, sl.Err(err))

	return c.JSON(code, ErrorResponse{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, employees.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, employees.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// StartAPIServer serves e on port until ctx is done, then shuts it down gracefully.
func StartAPIServer(ctx context.Context, log *slog.Logger, e *echo.Echo, port int, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)

	go func() {
		log.InfoContext(ctx, "Starting REST API server", "port", port)
		if err := e.Start(fmt.Sprintf(":%d", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("REST API server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down REST API server: %w", err)
	}
	log.InfoContext(shutdownCtx, "REST API server stopped")

	return nil
}
