package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateBookingCode produces a guest-facing reservation code such as
// "RES-3FA2B1". Every booking row gets its own code, even within one
// multi-room request.
func GenerateBookingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RES-" + strings.ToUpper(raw[:6])
}

// TruncateDetails caps audit detail text at the column size: anything over
// 500 characters keeps the first 495 plus a ".." marker.
func TruncateDetails(details string) string {
	if len(details) > 500 {
		return details[:495] + ".."
	}
	return details
}

// FormatUnitDetail renders the unit part of a booking audit line; rows that
// ended up without a physical unit are called out explicitly.
func FormatUnitDetail(guestName, unitLabel string) string {
	if unitLabel == "" {
		unitLabel = "UNASSIGNED (Fragmentation)"
	}
	return fmt.Sprintf("%s booked %s", guestName, unitLabel)
}
