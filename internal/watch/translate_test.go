package watch

import (
	"errors"
	"strings"
	"testing"

	"reviewbot/internal/practicum"
)

func TestTranslateTotality(t *testing.T) {
	t.Parallel()
	verdicts := DefaultVerdicts()
	for _, status := range []string{StatusApproved, StatusReviewing, StatusRejected} {
		item := practicum.WorkItem{Name: "hw", Status: status}
		text, err := Translate(item, verdicts)
		if err != nil {
			t.Fatalf("Translate(%s): %v", status, err)
		}
		if !strings.Contains(text, `"hw"`) {
			t.Fatalf("text lacks work name: %q", text)
		}
		if !strings.Contains(text, verdicts[status]) {
			t.Fatalf("text lacks verdict for %s: %q", status, text)
		}
	}
}

func TestTranslateExactFormat(t *testing.T) {
	t.Parallel()
	text, err := Translate(practicum.WorkItem{Name: "hw1", Status: StatusApproved}, DefaultVerdicts())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	want := `Изменился статус проверки работы "hw1". Работа проверена: ревьюеру всё понравилось. Ура!`
	if text != want {
		t.Fatalf("text = %q, want %q", text, want)
	}
}

func TestTranslateUnknownStatus(t *testing.T) {
	t.Parallel()
	_, err := Translate(practicum.WorkItem{Name: "X", Status: "archived"}, DefaultVerdicts())
	var us *UnknownStatusError
	if !errors.As(err, &us) {
		t.Fatalf("err = %v, want *UnknownStatusError", err)
	}
	if us.Status != "archived" {
		t.Fatalf("Status = %q", us.Status)
	}
}

func TestTranslateIncompleteItem(t *testing.T) {
	t.Parallel()
	for _, item := range []practicum.WorkItem{
		{Name: "", Status: StatusApproved},
		{Name: "hw", Status: ""},
		{Name: "  ", Status: StatusApproved},
		{},
	} {
		if _, err := Translate(item, DefaultVerdicts()); !errors.Is(err, ErrIncompleteItem) {
			t.Fatalf("Translate(%+v) err = %v, want ErrIncompleteItem", item, err)
		}
	}
}
