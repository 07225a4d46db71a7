package employees

import (
	"context"
	"errors"
	"net/http"

	"github.com/Houeta/employee-gateway/internal/client"
	"github.com/Houeta/employee-gateway/internal/envelope"
	"github.com/Houeta/employee-gateway/internal/lib/logger/sl"
	"github.com/Houeta/employee-gateway/internal/models"
)

// LookupStatus tells the outcome of Lookup apart.
type LookupStatus int

const (
	LookupFailed LookupStatus = iota
	Found
	NotFound
)

func (s LookupStatus) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// LookupResult is the outcome of a single-record lookup. Employee is set for
// Found, Err for LookupFailed.
type LookupResult struct {
	Status   LookupStatus
	Employee models.Employee
	Err      error
}

// Lookup fetches a single record and classifies the outcome, so callers can
// tell a missing employee from an upstream failure.
func (s *Service) Lookup(ctx context.Context, id string) LookupResult {
	const opn = "Employees.Lookup"
	log := s.initLogger(opn)

	if isEmptyID(id) {
		return LookupResult{Status: NotFound}
	}

	raw, err := s.requester.Send(ctx, http.MethodGet, s.endpoints.Item(id), nil)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			log.DebugContext(ctx, "Upstream has no such employee", "id", id)
			return LookupResult{Status: NotFound}
		}
		log.ErrorContext(ctx, "Error occurred while retrieving the employee details", "id", id, sl.Err(err))
		return LookupResult{Status: LookupFailed, Err: err}
	}

	employee, err := envelope.DecodeOne(raw)
	switch {
	case errors.Is(err, envelope.ErrNoData):
		log.DebugContext(ctx, "Record not found", "id", id)
		return LookupResult{Status: NotFound}
	case err != nil:
		log.ErrorContext(ctx, "Invalid employee record received", "id", id, sl.Err(err))
		return LookupResult{Status: LookupFailed, Err: err}
	}

	log.DebugContext(ctx, "Retrieved employee details", "id", id)

	return LookupResult{Status: Found, Employee: employee}
}
