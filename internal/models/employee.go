package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNullEmployee is returned when a record is the JSON literal null.
	ErrNullEmployee = errors.New("employee record is null")
	// ErrNegativeSalary is returned when a record carries a salary below zero.
	ErrNegativeSalary = errors.New("employee salary is negative")
)

// UserAgent is sent with every request to the upstream employee API.
const UserAgent = "employee-gateway/1.0 (+https://github.com/Houeta/employee-gateway)"

// EmployeeID is the upstream identifier of an employee. The upstream API sends it
// either as a JSON number or as a JSON string, both decode to the same value.
type EmployeeID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *EmployeeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode employee id: %w", err)
		}
		*id = EmployeeID(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("failed to decode employee id %s: %w", data, err)
		}
		*id = EmployeeID(n.String())
	}

	return nil
}

// MarshalJSON writes numeric identifiers as JSON numbers and everything else as strings,
// so records keep the shape the upstream API produced.
func (id EmployeeID) MarshalJSON() ([]byte, error) {
	if id.isNumeric() {
		return []byte(id), nil
	}

	return json.Marshal(string(id))
}

func (id EmployeeID) String() string {
	return string(id)
}

// isNumeric reports whether id is a valid JSON integer literal: digits only, no leading zero.
func (id EmployeeID) isNumeric() bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Employee represents an employee record as served by the upstream API.
type Employee struct {
	ID           EmployeeID `json:"id"`
	Name         string     `json:"employee_name"`
	Salary       int        `json:"employee_salary"`
	Age          int        `json:"employee_age"`
	ProfileImage string     `json:"profile_image"`
}

// UnmarshalJSON decodes an upstream record. Salary and age are accepted both as
// numbers and as numeric strings. The create endpoint answers with short keys
// (name, salary, age), those are used when the employee_* keys are absent.
func (e *Employee) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           EmployeeID `json:"id"`
		Name         *string    `json:"employee_name"`
		Salary       *flexInt   `json:"employee_salary"`
		Age          *flexInt   `json:"employee_age"`
		ProfileImage string     `json:"profile_image"`

		ShortName   string  `json:"name"`
		ShortSalary flexInt `json:"salary"`
		ShortAge    flexInt `json:"age"`
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNullEmployee
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Employee{
		ID:           raw.ID,
		Name:         raw.ShortName,
		Salary:       int(raw.ShortSalary),
		Age:          int(raw.ShortAge),
		ProfileImage: raw.ProfileImage,
	}
	if raw.Name != nil {
		e.Name = *raw.Name
	}
	if raw.Salary != nil {
		e.Salary = int(*raw.Salary)
	}
	if raw.Age != nil {
		e.Age = int(*raw.Age)
	}

	if e.Salary < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeSalary, e.Salary)
	}

	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("failed to decode number: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*f = 0
			return nil
		}
	}

	value, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("failed to decode number %q: %w", text, err)
	}
	*f = flexInt(value)

	return nil
}
