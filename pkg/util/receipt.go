package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReceiptNumber builds a human-readable receipt number for a payment,
// e.g. "RCP-20260901-1A2B3C4D". Uniqueness comes from the uuid fragment.
func GenerateReceiptNumber(at time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("RCP-%s-%s", at.Format("20060102"), fragment)
}
