package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(12), MustParseUint("12"))
	assert.Equal(t, uint(0), MustParseUint("abc"))
	assert.Equal(t, uint(0), MustParseUint(""))
	assert.Equal(t, uint(0), MustParseUint("-3"))
}

func TestParsePagination(t *testing.T) {
	page, limit := ParsePagination("2", "50")
	assert.Equal(t, 2, page)
	assert.Equal(t, 50, limit)

	// Defaults on missing or invalid input.
	page, limit = ParsePagination("", "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	page, limit = ParsePagination("0", "-5")
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	// Cap on oversized page size.
	_, limit = ParsePagination("1", "5000")
	assert.Equal(t, 100, limit)
}
