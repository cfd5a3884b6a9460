package keystore

// This file trips the process-lifetime kill fuse, which can never be
// reset. It is named to sort last so it runs after every other test in
// this package's test binary.

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyVerifiedKillTripsFuseAndLocks(t *testing.T) {
	ks := unlockedStore(t)
	assert.True(t, ks.IsActive())

	ks.ApplyVerifiedKill()

	assert.False(t, ks.IsActive())

	err := ks.WithSession(func(s *Session) error { return nil })
	assert.ErrorIs(t, err, ErrKilled)
}

func TestUnlockFailsAfterKill(t *testing.T) {
	ks := New(nil)
	auth, err := RecoverFromPhrase([]byte("phrase"), make([]byte, 16), fastArgon2Params())
	assert.NoError(t, err)
	assert.ErrorIs(t, ks.Unlock(auth), ErrKilled)
}
