package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintFromMaterialIsDeterministic(t *testing.T) {
	a := FingerprintFromMaterial([]byte("device-one"))
	b := FingerprintFromMaterial([]byte("device-one"))
	c := FingerprintFromMaterial([]byte("device-two"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestToBigEndianBytesRoundTrips(t *testing.T) {
	fp := Fingerprint(0x0102030405060708)
	bytes := fp.ToBigEndianBytes()
	assert.Equal(t, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, bytes)
}

func TestDisplayIsNonEmptyAndStable(t *testing.T) {
	fp := FingerprintFromMaterial([]byte("device-material"))
	a := fp.Display()
	b := fp.Display()
	assert.NotEmpty(t, a)
	assert.Equal(t, a, b)
}
