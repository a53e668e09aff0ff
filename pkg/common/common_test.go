package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "₹85", Truncate("₹850", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "", Truncate("abc", 0))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Home decor", Capitalize("home decor"))
	assert.Equal(t, "", Capitalize(""))
}

func TestIDs(t *testing.T) {
	a, b := UUIDint64(), UUIDint64()
	assert.NotEqual(t, a, b)
	assert.Len(t, UUID(), 36)
	assert.Equal(t, NA, IfEmptyStr("  ", NA))
}
