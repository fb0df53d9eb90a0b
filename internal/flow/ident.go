package flow

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// complaintIDPrefix is the fixed textual prefix of every complaint identifier.
const complaintIDPrefix = "CMP-"

// NewComplaintID produces a short human-readable identifier of the form
// CMP-XXXXXXXX with 32 bits of random entropy in the suffix. Callers must
// invoke it at most once per session; the controller's finalization check
// enforces that, not the generator.
func NewComplaintID() string {
	u := uuid.New()
	return complaintIDPrefix + strings.ToUpper(hex.EncodeToString(u[:4]))
}
