package kill

import (
	"fmt"

	"github.com/sage-x-project/securecore/config"
	"github.com/sage-x-project/securecore/internal/metrics"
	"github.com/sage-x-project/securecore/storage"
)

// ReplayLog tracks the highest replay token ever accepted, persisted as an
// append-only sequence of raw uint64 records. A token is valid only if it
// is strictly greater than every token seen before it; CheckAndAdvance
// both makes that decision and durably commits it in one call, so a crash
// between the check and the commit can never leave the log in a state
// that would accept the same token twice.
type ReplayLog struct {
	cfg config.StorageConfig
}

// NewReplayLog returns a ReplayLog rooted at cfg.ReplayLogFile under the
// process's storage root.
func NewReplayLog(cfg config.StorageConfig) *ReplayLog {
	return &ReplayLog{cfg: cfg}
}

// CheckAndAdvance reports whether token is newer than every previously
// accepted token, and if so appends it before returning true. A false
// result means the blob this token came from is a replay and must be
// rejected; the caller must not proceed to execute the kill.
func (r *ReplayLog) CheckAndAdvance(token uint64) (bool, error) {
	log, err := storage.Open(r.cfg.ReplayLogFile, storage.ModeAppend)
	if err != nil {
		return false, fmt.Errorf("kill: open replay log: %w", err)
	}
	defer log.Close()

	seen, err := log.ReadAllU64()
	if err != nil {
		return false, fmt.Errorf("kill: read replay log: %w", err)
	}

	var last uint64
	for _, v := range seen {
		if v > last {
			last = v
		}
	}

	if token <= last {
		metrics.KillBlobsVerified.WithLabelValues("replayed").Inc()
		metrics.GetGlobalCollector().RecordReplayRejected()
		return false, nil
	}

	if err := log.AppendU64(token); err != nil {
		return false, fmt.Errorf("kill: persist replay token: %w", err)
	}
	return true, nil
}

// LastCommittedReplay returns the highest replay token committed so far,
// or 0 if none has ever been accepted. It is read-only diagnostics for
// admin introspection (e.g. "what token must my next kill blob exceed") —
// it never participates in a CheckAndAdvance decision itself.
func (r *ReplayLog) LastCommittedReplay() (uint64, error) {
	log, err := storage.Open(r.cfg.ReplayLogFile, storage.ModeAppend)
	if err != nil {
		return 0, fmt.Errorf("kill: open replay log: %w", err)
	}
	defer log.Close()

	seen, err := log.ReadAllU64()
	if err != nil {
		return 0, fmt.Errorf("kill: read replay log: %w", err)
	}

	var last uint64
	for _, v := range seen {
		if v > last {
			last = v
		}
	}
	return last, nil
}
