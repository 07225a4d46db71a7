// Package employees is the facade over the upstream employee API: it fetches
// records, unwraps the response envelope and applies search and ranking.
package employees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Houeta/employee-gateway/internal/client"
	"github.com/Houeta/employee-gateway/internal/envelope"
	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/Houeta/employee-gateway/internal/metrics"
	"github.com/Houeta/employee-gateway/internal/models"
	"github.com/Houeta/employee-gateway/internal/search"
)

// TopEarnersLimit is the number of names returned by TopTenEarners.
const TopEarnersLimit = 10

var (
	// ErrUpstream is returned when the upstream API could not serve an operation.
	ErrUpstream = errors.New("upstream employee API failure")
	// ErrNotFound is returned when the requested employee does not exist.
	ErrNotFound = errors.New("employee not found")
	// ErrInvalidInput is returned when the caller supplied unusable input.
	ErrInvalidInput = errors.New("invalid employee input")
)

type Service struct {
	log       *slog.Logger
	requester client.Requester
	metrics   *metrics.Metrics
	endpoints Endpoints
}

func NewService(log *slog.Logger, requester client.Requester, metrics *metrics.Metrics, endpoints Endpoints) *Service {
	return &Service{log: log, requester: requester, metrics: metrics, endpoints: endpoints}
}

func (s *Service) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "employee"),
	)
}

func (s *Service) observe(operation string, start time.Time, err error) {
	s.metrics.ObserveOperation(operation, time.Since(start).Seconds(), err)
}

// ListAll returns every employee known to the upstream API.
func (s *Service) ListAll(ctx context.Context) (employees []models.Employee, err error) {
	const opn = "Employees.ListAll"
	log := s.initLogger(opn)

	defer func(start time.Time) { s.observe("list_all", start, err) }(time.Now())

	log.DebugContext(ctx, "Retrieving all employee details")

	employees, err = s.fetchAll(ctx, log)
	if err != nil {
		return nil, upstreamError("error occurred while retrieving the all employees data")
	}

	log.DebugContext(ctx, "Retrieved all employee details", "count", len(employees))

	return employees, nil
}

// SearchByName returns the employees whose name contains searchString, ignoring case.
func (s *Service) SearchByName(ctx context.Context, searchString string) (employees []models.Employee, err error) {
	const opn = "Employees.SearchByName"
	log := s.initLogger(opn)

	defer func(start time.Time) { s.observe("search_by_name", start, err) }(time.Now())

	log.DebugContext(ctx, "Retrieving employees based on search string", "search", searchString)

	all, err := s.fetchAll(ctx, log)
	if err != nil {
		return nil, upstreamError("error occurred while searching employees by name")
	}

	employees = search.FilterByName(all, searchString)
	log.DebugContext(ctx, "Search completed", "search", searchString, "matched", len(employees))

	return employees, nil
}

// GetByID returns a single employee.
func (s *Service) GetByID(ctx context.Context, id string) (employee models.Employee, err error) {
	const opn = "Employees.GetByID"
	log := s.initLogger(opn)

	defer func(start time.Time) { s.observe("get_by_id", start, err) }(time.Now())

	log.DebugContext(ctx, "Getting employee based on ID", "id", id)

	result := s.Lookup(ctx, id)
	switch result.Status {
	case Found:
		return result.Employee, nil
	case NotFound:
		return models.Employee{}, fmt.Errorf("%w: no employee with ID %q", ErrNotFound, id)
	default:
		return models.Employee{}, upstreamError("error occurred while retrieving the employee details")
	}
}

// HighestSalary returns the highest salary among all employees.
func (s *Service) HighestSalary(ctx context.Context) (highest int, err error) {
	const opn = "Employees.HighestSalary"
	log := s.initLogger(opn)

	defer func(start time.Time) { s.observe("highest_salary", start, err) }(time.Now())

	all, err := s.fetchAll(ctx, log)
	if err != nil {
		return 0, upstreamError("error occurred while retrieving highest salary of an employee")
	}

	highest, err = search.MaxSalary(all)
	if err != nil {
		log.WarnContext(ctx, "No employees to compare", sl.Err(err))
		return 0, fmt.Errorf("failed to find highest salary: %w", err)
	}

	return highest, nil
}

// TopTenEarners returns the names of the ten best paid employees, highest first.
func (s *Service) TopTenEarners(ctx context.Context) (names []string, err error) {
	const opn = "Employees.TopTenEarners"
	log := s.initLogger(opn)

	defer func(start time.Time) { s.observe("top_ten_earners", start, err) }(time.Now())

	all, err := s.fetchAll(ctx, log)
	if err != nil {
		return nil, upstreamError("error occurred while retrieving top ten highest earning employee")
	}

	return search.TopNBySalary(all, TopEarnersLimit), nil
}

// Create posts fields as a new employee record and returns what the upstream stored.
func (s *Service) Create(ctx context.Context, fields map[string]any) (employee models.Employee, err error) {
	const opn = "Employees.Create"
	log := s.initLogger(opn)

	defer func(start time.Time) { s.observe("create", start, err) }(time.Now())

	if len(fields) == 0 {
		return models.Employee{}, fmt.Errorf("%w: employee input is empty", ErrInvalidInput)
	}

	body, err := json.Marshal(fields)
	if err != nil {
		return models.Employee{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	raw, err := s.requester.Send(ctx, http.MethodPost, s.endpoints.Create(), body)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create employee", sl.Err(err))
		return models.Employee{}, upstreamError("error occurred while creating the employee")
	}

	employee, err = envelope.DecodeOne(raw)
	if err != nil {
		log.ErrorContext(ctx, "Failed to decode created employee", sl.Err(err))
		return models.Employee{}, upstreamError("error occurred while creating the employee")
	}

	log.InfoContext(ctx, "Employee created", "id", employee.ID, "name", employee.Name)

	return employee, nil
}

// DeleteByID deletes an existing employee and returns a confirmation naming it.
// Only an employee the upstream confirms to exist is deleted.
func (s *Service) DeleteByID(ctx context.Context, id string) (message string, err error) {
	const opn = "Employees.DeleteByID"
	log := s.initLogger(opn)

	defer func(start time.Time) { s.observe("delete_by_id", start, err) }(time.Now())

	result := s.Lookup(ctx, id)
	switch result.Status {
	case Found:
	case NotFound:
		log.InfoContext(ctx, "Record not found, nothing to delete", "id", id)
		return "", fmt.Errorf("%w: no employee with ID %q", ErrNotFound, id)
	default:
		log.ErrorContext(ctx, "Unable to verify employee before delete", "id", id, sl.Err(result.Err))
		return "", upstreamError(fmt.Sprintf("error occurred while deleting the employee ID: %s", id))
	}

	raw, err := s.requester.Send(ctx, http.MethodDelete, s.endpoints.Delete(id), nil)
	if err == nil {
		err = envelope.Validate(raw)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to delete employee", "id", id, sl.Err(err))
		return "", upstreamError(fmt.Sprintf("error occurred while deleting the employee ID: %s", id))
	}

	log.InfoContext(ctx, "Employee deleted", "id", id, "name", result.Employee.Name)

	return fmt.Sprintf("Employee record naming '%s' is deleted", result.Employee.Name), nil
}

func (s *Service) fetchAll(ctx context.Context, log *slog.Logger) ([]models.Employee, error) {
	raw, err := s.requester.Send(ctx, http.MethodGet, s.endpoints.Collection(), nil)
	if err != nil {
		log.ErrorContext(ctx, "Failed to retrieve employees", "url", s.endpoints.Collection(), sl.Err(err))
		return nil, err
	}

	employees, err := envelope.DecodeList(raw)
	if err != nil {
		log.ErrorContext(ctx, "Invalid response received from upstream", "url", s.endpoints.Collection(), sl.Err(err))
		return nil, err
	}

	return employees, nil
}

func upstreamError(message string) error {
	return fmt.Errorf("%w: %s", ErrUpstream, message)
}

// isEmptyID reports whether id carries no identifier.
func isEmptyID(id string) bool {
	return strings.TrimSpace(id) == ""
}
