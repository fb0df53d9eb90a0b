package flow

import (
	"fmt"

	"github.com/gosuda/intake/internal/domain"
)

// Summary projects a session into the sentence read back to the caller during
// playback confirmation. Unset fields get literal placeholders so the sentence
// shape is deterministic. The session is not mutated.
func Summary(s *domain.Session) string {
	name := orPlaceholder(s.CallerName, "[unknown]")
	batch := orPlaceholder(s.BatchNumber, "[unknown]")
	ctype := orPlaceholder(s.ComplaintType, "[unknown]")
	snippet := orPlaceholder(s.Description, "[no description]")

	return fmt.Sprintf("You are %s. Batch %s. Complaint type %s. Summary: %s.", name, batch, ctype, snippet)
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
