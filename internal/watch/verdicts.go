// Package watch runs the poll-validate-translate-notify cycle.
package watch

// Verdicts maps a review status code to its display text.
// Fixed at process start; an unknown code is a data error, not a no-op.
type Verdicts map[string]string

// Review status codes the API is known to emit.
const (
	StatusApproved  = "approved"
	StatusReviewing = "reviewing"
	StatusRejected  = "rejected"
)

// DefaultVerdicts returns the catalog of known review verdicts.
func DefaultVerdicts() Verdicts {
	return Verdicts{
		StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
		StatusReviewing: "Работа взята на проверку ревьюером.",
		StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
	}
}

// Text looks up the verdict for a status code.
func (v Verdicts) Text(status string) (string, bool) {
	text, ok := v[status]
	return text, ok
}
