package schedule

import (
	"testing"
	"time"
)

func TestParseVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		raw    string
		kind   Kind
		source string
		every  time.Duration
	}{
		{name: "duration", raw: "10m", kind: KindInterval, source: "duration", every: 10 * time.Minute},
		{name: "prefixed interval", raw: "interval:45s", kind: KindInterval, source: "duration", every: 45 * time.Second},
		{name: "hhmm", raw: "01:30", kind: KindInterval, source: "hhmm", every: 90 * time.Minute},
		{name: "cron", raw: "*/10 * * * *", kind: KindCron, source: "cron"},
		{name: "prefixed cron", raw: "cron:0 9 * * *", kind: KindCron, source: "cron"},
		{name: "descriptor", raw: "@hourly", kind: KindCron, source: "cron"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.raw, err)
			}
			if got.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", got.Kind, tt.kind)
			}
			if got.Source != tt.source {
				t.Fatalf("Source = %s, want %s", got.Source, tt.source)
			}
			if tt.kind == KindInterval && got.Every != tt.every {
				t.Fatalf("Every = %v, want %v", got.Every, tt.every)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-schedule", "-5m", "cron:", "12:75", "cron:whenever"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("Parse(%q): expected error", raw)
		}
	}
}

func TestNextInterval(t *testing.T) {
	t.Parallel()
	spec, err := Parse("10m")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if got := spec.Next(at); got != at.Add(10*time.Minute) {
		t.Fatalf("Next = %v", got)
	}
}

func TestNextCron(t *testing.T) {
	t.Parallel()
	spec, err := Parse("0 * * * *")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	want := time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC)
	if got := spec.Next(at); !got.Equal(want) {
		t.Fatalf("Next = %v, want %v", got, want)
	}
}
