package kill

import (
	"testing"

	"github.com/sage-x-project/securecore/config"
	"github.com/sage-x-project/securecore/crypto/kdf"
	"github.com/sage-x-project/securecore/keystore"
	"github.com/stretchr/testify/require"
)

func fastArgon2Params() kdf.Argon2Params {
	return kdf.Argon2Params{MemoryKiB: 8 * 1024, TimeCost: 1, Parallelism: 1}
}

// testExecutor builds an Executor and its KeyStore sharing a single
// process-wide storage root (testRegistry already calls storage.InitRoot).
func testExecutor(t *testing.T) (*Executor, *keystore.KeyStore, [32]byte) {
	t.Helper()
	reg := testRegistry(t)

	ks := keystore.New(nil)
	auth, err := keystore.RecoverFromPhrase([]byte("recovery phrase"), make([]byte, 16), fastArgon2Params())
	require.NoError(t, err)
	require.NoError(t, ks.Unlock(auth))

	replay := NewReplayLog(config.StorageConfig{ReplayLogFile: "kill.replay"})
	return NewExecutor(reg, ks, replay, nil), ks, reg.DeviceID()
}
