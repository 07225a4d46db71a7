package models_test

import (
	"encoding/json"
	"testing"

	"github.com/Houeta/employee-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployee_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected models.Employee
		wantErr  bool
	}{
		{
			name:  "numeric fields",
			input: `{"id":2,"employee_name":"Garrett Winters","employee_salary":170750,"employee_age":63,"profile_image":""}`,
			expected: models.Employee{
				ID: "2", Name: "Garrett Winters", Salary: 170750, Age: 63,
			},
		},
		{
			name:  "string fields",
			input: `{"id":"1","employee_name":"Tiger Nixon","employee_salary":"320800","employee_age":"61","profile_image":"x.png"}`,
			expected: models.Employee{
				ID: "1", Name: "Tiger Nixon", Salary: 320800, Age: 61, ProfileImage: "x.png",
			},
		},
		{
			name:     "missing and null fields",
			input:    `{"employee_name":"Garrett cox","employee_salary":null}`,
			expected: models.Employee{Name: "Garrett cox"},
		},
		{
			name:     "create response keys",
			input:    `{"name":"test","salary":"123","age":"23","id":25}`,
			expected: models.Employee{ID: "25", Name: "test", Salary: 123, Age: 23},
		},
		{
			name:     "long keys win over short keys",
			input:    `{"employee_name":"Ashton Cox","name":"ignored","employee_salary":86000,"salary":1}`,
			expected: models.Employee{Name: "Ashton Cox", Salary: 86000},
		},
		{
			name:    "non numeric salary",
			input:   `{"id":1,"employee_salary":"a lot"}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			input:   `[1,2,3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var employee models.Employee
			err := json.Unmarshal([]byte(tt.input), &employee)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, employee)
		})
	}
}

func TestEmployeeID_MarshalJSON(t *testing.T) {
	t.Parallel()

	numeric, err := json.Marshal(models.EmployeeID("24"))
	require.NoError(t, err)
	assert.JSONEq(t, `24`, string(numeric))

	textual, err := json.Marshal(models.EmployeeID("emp-24"))
	require.NoError(t, err)
	assert.JSONEq(t, `"emp-24"`, string(textual))

	empty, err := json.Marshal(models.EmployeeID(""))
	require.NoError(t, err)
	assert.JSONEq(t, `""`, string(empty))

	zero, err := json.Marshal(models.EmployeeID("0"))
	require.NoError(t, err)
	assert.JSONEq(t, `0`, string(zero))

	leadingZero, err := json.Marshal(models.EmployeeID("007"))
	require.NoError(t, err)
	assert.JSONEq(t, `"007"`, string(leadingZero))
}

func TestEmployee_LeadingZeroIDRoundTrip(t *testing.T) {
	t.Parallel()

	var employees []models.Employee
	require.NoError(t, json.Unmarshal([]byte(`[{"id":"007","employee_name":"James Bond"},{"id":7}]`), &employees))

	data, err := json.Marshal(employees)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"007","employee_name":"James Bond","employee_salary":0,"employee_age":0,"profile_image":""},`+
			`{"id":7,"employee_name":"","employee_salary":0,"employee_age":0,"profile_image":""}]`,
		string(data))
}

func TestEmployee_UnmarshalJSON_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"null element", `[{"id":1,"employee_name":"Tiger Nixon"},null]`, models.ErrNullEmployee},
		{"negative salary", `[{"id":1,"employee_salary":-5}]`, models.ErrNegativeSalary},
		{"negative short salary", `[{"id":1,"salary":"-5"}]`, models.ErrNegativeSalary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var employees []models.Employee
			err := json.Unmarshal([]byte(tt.input), &employees)

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEmployee_RoundTrip(t *testing.T) {
	t.Parallel()

	employee := models.Employee{ID: "4", Name: "Cedric Kelly", Salary: 433060, Age: 22}

	data, err := json.Marshal(employee)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"id":4,"employee_name":"Cedric Kelly","employee_salary":433060,"employee_age":22,"profile_image":""}`,
		string(data))
}
