// Package envelope unwraps the {"status", "data", "message"} envelope the upstream
// employee API puts around every payload.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Houeta/employee-gateway/internal/models"
)

var (
	// ErrMalformedResponse is returned when a body is not an envelope or the data has an unexpected shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrNoData is returned when the envelope carries "data": null.
	ErrNoData = errors.New("upstream response has no data")
)

var nullLiteral = []byte("null")

// Envelope is the outer object of an upstream response.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// Result is the outcome of Parse: either an Envelope or the reason the body was rejected.
type Result struct {
	Envelope Envelope
	Err      error
}

// OK reports whether the body parsed into an envelope.
func (r Result) OK() bool {
	return r.Err == nil
}

// Parse decodes raw into an Envelope. It never panics, failures are carried in Result.Err.
func Parse(raw []byte) Result {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Result{Err: fmt.Errorf("%w: empty body", ErrMalformedResponse)}
	}

	if trimmed[0] != '{' {
		if looksLikeHTML(trimmed) {
			return Result{Err: fmt.Errorf("%w: upstream returned an HTML page %q", ErrMalformedResponse, Describe(trimmed))}
		}
		return Result{Err: fmt.Errorf("%w: body is not a JSON object", ErrMalformedResponse)}
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Result{Err: fmt.Errorf("%w: %w", ErrMalformedResponse, err)}
	}

	return Result{Envelope: env}
}

// Data returns the payload of the envelope. A payload that is a JSON string holding
// JSON text is unwrapped one level.
func (r Result) Data() (json.RawMessage, error) {
	if r.Err != nil {
		return nil, r.Err
	}

	data := bytes.TrimSpace(r.Envelope.Data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing data field", ErrMalformedResponse)
	}

	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err == nil {
			if candidate := bytes.TrimSpace([]byte(inner)); len(candidate) > 0 && json.Valid(candidate) {
				data = candidate
			}
		}
	}

	if bytes.Equal(data, nullLiteral) {
		return nil, ErrNoData
	}

	return json.RawMessage(data), nil
}

// DecodeOne extracts a single employee from raw.
func DecodeOne(raw []byte) (models.Employee, error) {
	data, err := Parse(raw).Data()
	if err != nil {
		return models.Employee{}, err
	}

	if data[0] != '{' {
		return models.Employee{}, fmt.Errorf("%w: expected an employee object", ErrMalformedResponse)
	}

	var employee models.Employee
	if err = json.Unmarshal(data, &employee); err != nil {
		return models.Employee{}, fmt.Errorf("%w: failed to decode employee: %w", ErrMalformedResponse, err)
	}

	return employee, nil
}

// DecodeList extracts a list of employees from raw. "data": null is not an empty
// list, it is reported as ErrMalformedResponse.
func DecodeList(raw []byte) ([]models.Employee, error) {
	data, err := Parse(raw).Data()
	if errors.Is(err, ErrNoData) {
		return nil, fmt.Errorf("%w: expected a list, got null", ErrMalformedResponse)
	}
	if err != nil {
		return nil, err
	}

	if data[0] != '[' {
		return nil, fmt.Errorf("%w: expected a list of employees", ErrMalformedResponse)
	}

	employees := make([]models.Employee, 0)
	if err = json.Unmarshal(data, &employees); err != nil {
		return nil, fmt.Errorf("%w: failed to decode employees: %w", ErrMalformedResponse, err)
	}

	return employees, nil
}

// Validate checks that raw is a well-formed envelope and nothing more.
func Validate(raw []byte) error {
	return Parse(raw).Err
}
