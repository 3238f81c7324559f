package guid

import (
	"strings"

	"github.com/google/uuid"
)

// Length is the fixed length of every ledger identifier.
const Length = 32

// New returns a globally unique 32-character lowercase hexadecimal
// identifier, used as the primary key for every ledger row.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s is a well-formed ledger identifier.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
