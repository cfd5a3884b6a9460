package kill

import (
	"fmt"

	"github.com/sage-x-project/securecore/device"
	"github.com/sage-x-project/securecore/internal/logger"
	"github.com/sage-x-project/securecore/keystore"
)

// Executor is the sole authority that turns a verified kill blob into an
// irreversible process kill. Its ordering is mandatory and is not an
// implementation detail: persist the replay commitment BEFORE tripping
// anything, trip the fuse and wipe the keystore, THEN best-effort persist
// the device's own kill marker. If a crash happens between any two steps,
// re-running Execute with the same blob is safe (VerifyBlob is pure, the
// replay log rejects the already-committed token) and the fuse — once
// tripped in this process — already prevents any further crypto operation
// regardless of what the device registry's marker says.
type Executor struct {
	registry *device.Registry
	keystore *keystore.KeyStore
	replay   *ReplayLog
	log      logger.Logger
}

// NewExecutor wires a registry, keystore, and replay log into one
// executor. All three must refer to the same process's storage root.
func NewExecutor(reg *device.Registry, ks *keystore.KeyStore, replay *ReplayLog, log logger.Logger) *Executor {
	return &Executor{registry: reg, keystore: ks, replay: replay, log: log}
}

// Execute verifies blob against the keystore's active root key, checks
// and commits its replay token, and — only if both succeed — trips the
// kill fuse and tears down the keystore. Any non-nil error means the kill
// did NOT happen; a nil error means it is permanent and irreversible for
// the life of this process. Callers must treat a nil return as a signal
// to halt whatever larger operation they were in the middle of.
func (e *Executor) Execute(blob []byte) error {
	var decision Decision
	err := e.keystore.WithRootKey(func(rootKey []byte) error {
		var verr error
		decision, verr = VerifyBlob(e.registry, rootKey, blob)
		return verr
	})
	if err != nil {
		return fmt.Errorf("kill: verification failed: %w", err)
	}

	accepted, err := e.replay.CheckAndAdvance(decision.ReplayToken)
	if err != nil {
		return fmt.Errorf("kill: replay check failed: %w", err)
	}
	if !accepted {
		return fmt.Errorf("kill: replay token %d already used", decision.ReplayToken)
	}

	// From here on the kill is committed: the replay token is already
	// persisted, so there is no going back regardless of what happens
	// next. Fuse and keystore teardown happen unconditionally.
	e.keystore.ApplyVerifiedKill()

	if err := e.registry.MarkThisDeviceKilled(); err != nil {
		if e.log != nil {
			e.log.Error("kill: failed to persist device kill marker after fuse trip",
				logger.Field{Key: "error", Value: err.Error()})
		}
		// Best-effort only: the fuse is already tripped and the keystore
		// already torn down for this process, which is what actually
		// matters. A future process will see IsKilled() fail closed on
		// any storage error anyway.
	}

	return nil
}
