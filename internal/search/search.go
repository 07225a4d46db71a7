// Package search holds the in-memory filtering and ranking applied to fetched employees.
package search

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/Houeta/employee-gateway/internal/models"
)

// ErrEmptyCollection is returned by MaxSalary when there is nothing to compare.
var ErrEmptyCollection = errors.New("employee collection is empty")

// FilterByName returns the employees whose name contains substring, ignoring case.
// Order is preserved and the result is never nil. An empty substring matches everything.
func FilterByName(employees []models.Employee, substring string) []models.Employee {
	needle := strings.ToLower(substring)
	matched := make([]models.Employee, 0, len(employees))

	for _, employee := range employees {
		if strings.Contains(strings.ToLower(employee.Name), needle) {
			matched = append(matched, employee)
		}
	}

	return matched
}

// TopNBySalary returns the names of the n best paid employees, highest first.
// Employees with equal salaries keep their input order. The input is not modified.
func TopNBySalary(employees []models.Employee, n int) []string {
	if n <= 0 {
		return []string{}
	}

	ranked := slices.Clone(employees)
	slices.SortStableFunc(ranked, func(a, b models.Employee) int {
		return cmp.Compare(b.Salary, a.Salary)
	})

	n = min(n, len(ranked))
	names := make([]string, 0, n)
	for _, employee := range ranked[:n] {
		names = append(names, employee.Name)
	}

	return names
}

// MaxSalary returns the highest salary in employees.
func MaxSalary(employees []models.Employee) (int, error) {
	if len(employees) == 0 {
		return 0, ErrEmptyCollection
	}

	highest := employees[0].Salary
	for _, employee := range employees[1:] {
		highest = max(highest, employee.Salary)
	}

	return highest, nil
}
