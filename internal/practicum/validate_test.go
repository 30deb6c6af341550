package practicum

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateRejections(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "empty object",
			payload: `{}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrEmptyResponse) {
					t.Fatalf("err = %v, want ErrEmptyResponse", err)
				}
			},
		},
		{
			name:    "null payload",
			payload: `null`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrEmptyResponse) {
					t.Fatalf("err = %v, want ErrEmptyResponse", err)
				}
			},
		},
		{
			name:    "not an object",
			payload: `[1, 2, 3]`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotAnObject) {
					t.Fatalf("err = %v, want ErrNotAnObject", err)
				}
			},
		},
		{
			name:    "missing homeworks",
			payload: `{"current_date": 1}`,
			check: func(t *testing.T, err error) {
				var mf *MissingFieldError
				if !errors.As(err, &mf) || mf.Field != "homeworks" {
					t.Fatalf("err = %v, want MissingFieldError(homeworks)", err)
				}
			},
		},
		{
			name:    "homeworks not a list",
			payload: `{"homeworks": "not-a-list", "current_date": 1}`,
			check: func(t *testing.T, err error) {
				var wt *WrongTypeError
				if !errors.As(err, &wt) || wt.Field != "homeworks" {
					t.Fatalf("err = %v, want WrongTypeError(homeworks)", err)
				}
			},
		},
		{
			name:    "homeworks null",
			payload: `{"homeworks": null}`,
			check: func(t *testing.T, err error) {
				var wt *WrongTypeError
				if !errors.As(err, &wt) {
					t.Fatalf("err = %v, want WrongTypeError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Validate(json.RawMessage(tt.payload))
			if err == nil {
				t.Fatal("expected validation error")
			}
			tt.check(t, err)
		})
	}
}

func TestValidateOK(t *testing.T) {
	t.Parallel()
	payload := `{"homeworks":[{"homework_name":"hw1","status":"approved"},{"homework_name":"hw2","status":"reviewing"}],"current_date":1000}`
	report, err := Validate(json.RawMessage(payload))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(report.Items))
	}
	if report.Items[0].Name != "hw1" || report.Items[0].Status != "approved" {
		t.Fatalf("item[0] = %+v", report.Items[0])
	}
	if !report.HasDate || report.CurrentDate != 1000 {
		t.Fatalf("date = %d (has=%v), want 1000", report.CurrentDate, report.HasDate)
	}
}

func TestValidateEmptyListIsSuccess(t *testing.T) {
	t.Parallel()
	report, err := Validate(json.RawMessage(`{"homeworks":[],"current_date":42}`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(report.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(report.Items))
	}
	if !report.HasDate || report.CurrentDate != 42 {
		t.Fatalf("date = %d (has=%v)", report.CurrentDate, report.HasDate)
	}
}

func TestValidateDateVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		payload string
		hasDate bool
		date    int64
	}{
		{name: "integer", payload: `{"homeworks":[],"current_date":7}`, hasDate: true, date: 7},
		{name: "missing", payload: `{"homeworks":[]}`, hasDate: false},
		{name: "null", payload: `{"homeworks":[],"current_date":null}`, hasDate: false},
		{name: "string", payload: `{"homeworks":[],"current_date":"soon"}`, hasDate: false},
		{name: "fractional", payload: `{"homeworks":[],"current_date":10.5}`, hasDate: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			report, err := Validate(json.RawMessage(tt.payload))
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if report.HasDate != tt.hasDate {
				t.Fatalf("HasDate = %v, want %v", report.HasDate, tt.hasDate)
			}
			if tt.hasDate && report.CurrentDate != tt.date {
				t.Fatalf("CurrentDate = %d, want %d", report.CurrentDate, tt.date)
			}
		})
	}
}
