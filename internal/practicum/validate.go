package practicum

import (
	"bytes"
	"encoding/json"
)

// Validate checks the raw payload shape and produces a typed Report.
//
// Per-item shape (name/status) is deliberately NOT checked here; that is the
// translator's job, so the policy of what to do with one bad item stays in
// the scheduling loop.
func Validate(payload json.RawMessage) (Report, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Report{}, ErrEmptyResponse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Report{}, ErrNotAnObject
	}
	if len(fields) == 0 {
		return Report{}, ErrEmptyResponse
	}

	rawItems, ok := fields["homeworks"]
	if !ok {
		return Report{}, &MissingFieldError{Field: "homeworks"}
	}

	var items []WorkItem
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return Report{}, &WrongTypeError{Field: "homeworks", Want: "list"}
	}
	if items == nil {
		// JSON null: present but not a sequence.
		return Report{}, &WrongTypeError{Field: "homeworks", Want: "list"}
	}

	report := Report{Items: items}

	// current_date is advisory: a missing or non-integer value blocks the
	// cursor advance downstream but does not fail validation.
	if rawDate, ok := fields["current_date"]; ok {
		var date int64
		if err := json.Unmarshal(rawDate, &date); err == nil {
			report.CurrentDate = date
			report.HasDate = true
		}
	}

	return report, nil
}
