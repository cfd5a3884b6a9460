package aad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChunkRoundTrip(t *testing.T) {
	b := FileChunk(42, 7, 3)
	assert.Len(t, b, FileChunkSize)

	fileID, chunk, cloudID, err := ParseFileChunk(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), fileID)
	assert.Equal(t, uint32(7), chunk)
	assert.Equal(t, uint16(3), cloudID)
}

func TestParseFileChunkRejectsWrongSize(t *testing.T) {
	_, _, _, err := ParseFileChunk(make([]byte, 10))
	assert.Error(t, err)
}

func TestParseFileChunkRejectsWrongVersion(t *testing.T) {
	b := FileChunk(1, 1, 1)
	b[14] = 2
	_, _, _, err := ParseFileChunk(b)
	assert.Error(t, err)
}

func TestKillRoundTrip(t *testing.T) {
	b := Kill(0xDEADBEEF)
	assert.Len(t, b, KillSize)

	fp, err := ParseKill(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), fp)
}

func TestParseKillRejectsWrongLabel(t *testing.T) {
	b := Kill(1)
	b[0] ^= 0xFF
	_, err := ParseKill(b)
	assert.Error(t, err)
}
