package envelope_test

import (
	"testing"

	"github.com/Houeta/employee-gateway/internal/envelope"
	"github.com/Houeta/employee-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `{
	"status": "success",
	"data": [
		{"id": 1, "employee_name": "Tiger Nixon", "employee_salary": 320800, "employee_age": 61, "profile_image": ""},
		{"id": "2", "employee_name": "Garrett Winters", "employee_salary": "170750", "employee_age": "63", "profile_image": ""}
	],
	"message": "Successfully! All records has been fetched."
}`

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        string
		wantErr    error
		wantStatus string
		wantMsg    string
	}{
		{name: "valid envelope", raw: listBody, wantStatus: "success"},
		{name: "status and message only", raw: `{"status":"failed","message":"Too many requests"}`, wantStatus: "failed"},
		{name: "empty body", raw: "   ", wantErr: envelope.ErrMalformedResponse},
		{name: "invalid json", raw: `{"data": [`, wantErr: envelope.ErrMalformedResponse},
		{name: "json array", raw: `[1,2,3]`, wantErr: envelope.ErrMalformedResponse},
		{name: "json null", raw: `null`, wantErr: envelope.ErrMalformedResponse},
		{name: "status of wrong type", raw: `{"status": 5, "data": []}`, wantErr: envelope.ErrMalformedResponse},
		{
			name:    "html error page",
			raw:     `<!DOCTYPE html><html><head><title>Too Many Requests</title></head><body>429</body></html>`,
			wantErr: envelope.ErrMalformedResponse,
			wantMsg: "Too Many Requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := envelope.Parse([]byte(tt.raw))

			if tt.wantErr != nil {
				require.ErrorIs(t, result.Err, tt.wantErr)
				assert.False(t, result.OK())
				if tt.wantMsg != "" {
					assert.ErrorContains(t, result.Err, tt.wantMsg)
				}
				return
			}

			require.NoError(t, result.Err)
			assert.True(t, result.OK())
			assert.Equal(t, tt.wantStatus, result.Envelope.Status)
		})
	}
}

func TestResult_Data(t *testing.T) {
	t.Parallel()

	t.Run("missing data is malformed", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.Parse([]byte(`{"status":"success"}`)).Data()
		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
	})

	t.Run("null data", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.Parse([]byte(`{"status":"success","data":null}`)).Data()
		require.ErrorIs(t, err, envelope.ErrNoData)
	})

	t.Run("double encoded data is unwrapped", func(t *testing.T) {
		t.Parallel()

		data, err := envelope.Parse([]byte(`{"data":"{\"id\":7,\"employee_name\":\"Ashton Cox\"}"}`)).Data()
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":7,"employee_name":"Ashton Cox"}`, string(data))
	})

	t.Run("plain string data stays a string", func(t *testing.T) {
		t.Parallel()

		data, err := envelope.Parse([]byte(`{"data":"deleted"}`)).Data()
		require.NoError(t, err)
		assert.JSONEq(t, `"deleted"`, string(data))
	})

	t.Run("parse error is propagated", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.Parse([]byte(`oops`)).Data()
		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
	})
}

func TestDecodeOne(t *testing.T) {
	t.Parallel()

	t.Run("single record", func(t *testing.T) {
		t.Parallel()

		raw := `{"status":"success","data":{"id":1,"employee_name":"Tiger Nixon","employee_salary":320800,` +
			`"employee_age":61,"profile_image":""},"message":"Successfully! Record has been fetched."}`

		employee, err := envelope.DecodeOne([]byte(raw))

		require.NoError(t, err)
		assert.Equal(t, models.Employee{ID: "1", Name: "Tiger Nixon", Salary: 320800, Age: 61}, employee)
	})

	t.Run("double encoded record", func(t *testing.T) {
		t.Parallel()

		raw := `{"data":"{\"id\":\"5\",\"employee_name\":\"Airi Satou\",\"employee_salary\":\"162700\"}"}`

		employee, err := envelope.DecodeOne([]byte(raw))

		require.NoError(t, err)
		assert.Equal(t, "Airi Satou", employee.Name)
		assert.Equal(t, 162700, employee.Salary)
		assert.Equal(t, models.EmployeeID("5"), employee.ID)
	})

	t.Run("null data", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.DecodeOne([]byte(`{"status":"success","data":null}`))
		require.ErrorIs(t, err, envelope.ErrNoData)
	})

	t.Run("list instead of record", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.DecodeOne([]byte(listBody))
		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
	})

	t.Run("non numeric salary", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.DecodeOne([]byte(`{"data":{"id":1,"employee_salary":"a lot"}}`))
		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
	})
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	t.Run("mixed number shapes", func(t *testing.T) {
		t.Parallel()

		employees, err := envelope.DecodeList([]byte(listBody))

		require.NoError(t, err)
		require.Len(t, employees, 2)
		assert.Equal(t, models.EmployeeID("1"), employees[0].ID)
		assert.Equal(t, 320800, employees[0].Salary)
		assert.Equal(t, models.EmployeeID("2"), employees[1].ID)
		assert.Equal(t, 170750, employees[1].Salary)
		assert.Equal(t, 63, employees[1].Age)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		employees, err := envelope.DecodeList([]byte(`{"status":"success","data":[]}`))

		require.NoError(t, err)
		assert.NotNil(t, employees)
		assert.Empty(t, employees)
	})

	t.Run("null data is not an empty list", func(t *testing.T) {
		t.Parallel()

		employees, err := envelope.DecodeList([]byte(`{"status":"success","data":null}`))

		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
		assert.Nil(t, employees)
	})

	t.Run("null element is not a record", func(t *testing.T) {
		t.Parallel()

		employees, err := envelope.DecodeList([]byte(`{"data":[{"id":1,"employee_name":"Tiger Nixon"},null]}`))

		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
		require.ErrorIs(t, err, models.ErrNullEmployee)
		assert.Nil(t, employees)
	})

	t.Run("negative salary", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.DecodeList([]byte(`{"data":[{"id":1,"employee_salary":-5}]}`))

		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
		require.ErrorIs(t, err, models.ErrNegativeSalary)
	})

	t.Run("object instead of list", func(t *testing.T) {
		t.Parallel()

		_, err := envelope.DecodeList([]byte(`{"data":{"id":1}}`))
		require.ErrorIs(t, err, envelope.ErrMalformedResponse)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, envelope.Validate([]byte(`{"status":"success","data":"1","message":"Successfully! Record has been deleted"}`)))
	require.NoError(t, envelope.Validate([]byte(`{}`)))
	require.ErrorIs(t, envelope.Validate([]byte(`Too Many Attempts.`)), envelope.ErrMalformedResponse)
}
