package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUintSlice_ValueAndScan(t *testing.T) {
	s := UintSlice{1, 2, 3}

	v, err := s.Value()
	assert.NoError(t, err)
	assert.Equal(t, "[1,2,3]", v)

	var out UintSlice
	assert.NoError(t, out.Scan("[1,2,3]"))
	assert.Equal(t, s, out)

	var fromBytes UintSlice
	assert.NoError(t, fromBytes.Scan([]byte("[7]")))
	assert.Equal(t, UintSlice{7}, fromBytes)
}

func TestUintSlice_NilAndNull(t *testing.T) {
	var s UintSlice

	v, err := s.Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", v)

	var out UintSlice
	assert.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}

func TestUintSlice_ScanRejectsUnknownType(t *testing.T) {
	var s UintSlice
	assert.Error(t, s.Scan(42))
}

func TestUintSlice_Contains(t *testing.T) {
	s := UintSlice{3, 5, 9}

	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(4))
	assert.False(t, UintSlice{}.Contains(1))
}
