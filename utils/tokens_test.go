package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code := GenerateBookingCode()
		assert.True(t, strings.HasPrefix(code, "RES-"))
		assert.Len(t, code, 10)
		assert.Equal(t, strings.ToUpper(code), code)
		seen[code] = true
	}
	// Hex-derived six-character suffixes collide rarely enough that a batch of
	// 200 should stay almost entirely distinct.
	assert.Greater(t, len(seen), 190)
}

func TestTruncateDetails(t *testing.T) {
	short := strings.Repeat("a", 500)
	assert.Equal(t, short, TruncateDetails(short))

	long := strings.Repeat("a", 501)
	got := TruncateDetails(long)
	assert.Len(t, got, 497)
	assert.True(t, strings.HasSuffix(got, ".."))
}

func TestFormatUnitDetail(t *testing.T) {
	assert.Equal(t, "Lina booked Room 101", FormatUnitDetail("Lina", "Room 101"))
	assert.Equal(t, "Lina booked UNASSIGNED (Fragmentation)", FormatUnitDetail("Lina", ""))
}
