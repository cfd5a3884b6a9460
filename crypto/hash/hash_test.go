package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum256Deterministic(t *testing.T) {
	a := Sum256([]byte("device-secret"))
	b := Sum256([]byte("device-secret"))
	assert.Equal(t, a, b)
}

func TestSum256DiffersByInput(t *testing.T) {
	a := Sum256([]byte("one"))
	b := Sum256([]byte("two"))
	assert.NotEqual(t, a, b)
}

func TestStringIsRedacted(t *testing.T) {
	out := Sum256([]byte("device-secret"))
	s := out.String()
	assert.NotContains(t, s, out.Hex())
	assert.True(t, strings.Contains(s, "redacted"))
}

func TestTruncate64Consistent(t *testing.T) {
	out := Sum256([]byte("device-secret"))
	assert.Equal(t, out.Truncate64(), out.Truncate64())
}
