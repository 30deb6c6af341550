package watch

import (
	"errors"
	"fmt"
	"strings"

	"reviewbot/internal/practicum"
)

// ErrIncompleteItem means a work item arrived without a name or status.
var ErrIncompleteItem = errors.New("work item is missing name or status")

// UnknownStatusError means the server sent a status code absent from the
// verdict catalog. Deliberately loud: a silent skip would lose a status
// change forever.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("undocumented review status %q", e.Status)
}

// Translate renders one work item into its notification text.
func Translate(item practicum.WorkItem, verdicts Verdicts) (string, error) {
	if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Status) == "" {
		return "", ErrIncompleteItem
	}
	verdict, ok := verdicts.Text(item.Status)
	if !ok {
		return "", &UnknownStatusError{Status: item.Status}
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", item.Name, verdict), nil
}
