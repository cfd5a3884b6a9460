package device

import (
	"bytes"
	"fmt"

	"github.com/sage-x-project/securecore/config"
	"github.com/sage-x-project/securecore/crypto/hash"
	"github.com/sage-x-project/securecore/storage"
)

// identityRecordSize is the fixed width of the persisted identity record:
// a 32-byte device ID hash plus an 8-byte big-endian fingerprint.
const identityRecordSize = 32 + 8

// Registry holds this process's device identity: a stable ID and
// fingerprint, loaded once at startup and never recomputed afterward. Kill
// state is NOT cached on the struct — IsKilled re-checks the kill marker
// log on every call, because the fuse can trip at any point during the
// process's life and a cached "not killed" would be a lie by the time a
// caller reads it.
type Registry struct {
	deviceID    [32]byte
	fingerprint Fingerprint
	cfg         config.StorageConfig
}

// LoadOrInit loads the persisted device identity, or derives and persists
// one from deviceMaterial if none exists yet. Must be called exactly once
// per process at startup, after storage.InitRoot.
//
// Kill semantics are authoritative and existence-based: a device is killed
// if and only if its kill marker log holds any content at all. Any storage
// error while checking that is treated as killed — uncertainty about kill
// state must never be read as "safe to proceed".
func LoadOrInit(cfg config.StorageConfig, deviceMaterial []byte) (*Registry, error) {
	idLog, err := storage.Open(cfg.DeviceRegistryFile, storage.ModeOverwrite)
	if err != nil {
		return nil, fmt.Errorf("device: open identity log: %w", err)
	}
	defer idLog.Close()

	if buf, err := idLog.ReadFixed(); err != nil {
		return nil, fmt.Errorf("device: read identity: %w", err)
	} else if buf != nil {
		return decodeIdentity(buf, cfg)
	}

	digest := hash.Sum256(deviceMaterial)
	fp := FingerprintFromMaterial(deviceMaterial)

	buf := make([]byte, 0, identityRecordSize)
	buf = append(buf, digest[:]...)
	fpBytes := fp.ToBigEndianBytes()
	buf = append(buf, fpBytes[:]...)

	if err := idLog.WriteFixed(buf); err != nil {
		return nil, fmt.Errorf("device: persist identity: %w", err)
	}

	var id [32]byte
	copy(id[:], digest[:])
	return &Registry{deviceID: id, fingerprint: fp, cfg: cfg}, nil
}

func decodeIdentity(buf []byte, cfg config.StorageConfig) (*Registry, error) {
	if len(buf) != identityRecordSize {
		return nil, fmt.Errorf("device: corrupt identity record: expected %d bytes, got %d", identityRecordSize, len(buf))
	}
	var id [32]byte
	copy(id[:], buf[:32])

	var fp uint64
	for i := 0; i < 8; i++ {
		fp = fp<<8 | uint64(buf[32+i])
	}
	return &Registry{deviceID: id, fingerprint: Fingerprint(fp), cfg: cfg}, nil
}

// DeviceID returns this process's stable, non-secret device ID.
func (r *Registry) DeviceID() [32]byte {
	return r.deviceID
}

// DeviceFingerprint returns this process's stable, non-secret fingerprint.
func (r *Registry) DeviceFingerprint() Fingerprint {
	return r.fingerprint
}

// IsKilled reports whether this device has ever been marked killed. It
// fails closed: any error opening or inspecting the kill marker log is
// reported as killed.
func (r *Registry) IsKilled() bool {
	log, err := storage.Open(r.cfg.KillMarkerFile, storage.ModeAppend)
	if err != nil {
		return true
	}
	defer log.Close()
	return log.HasAnyContent()
}

// killMarkerPayload is the fixed record body written to the kill marker
// log. Its exact bytes carry no meaning beyond existence — the presence of
// any record in the log is what IsKilled checks — but a recognizable
// payload helps a human auditing the raw file.
var killMarkerPayload = []byte("KILLED")

// MarkThisDeviceKilled appends an irreversible kill record for this
// device. It is append-only and idempotent in effect: calling it again
// after the device is already killed just appends a second record, which
// IsKilled still reports as killed either way.
func (r *Registry) MarkThisDeviceKilled() error {
	log, err := storage.Open(r.cfg.KillMarkerFile, storage.ModeAppend)
	if err != nil {
		return fmt.Errorf("device: open kill marker log: %w", err)
	}
	defer log.Close()

	if err := log.AppendRecord(killMarkerPayload); err != nil {
		return fmt.Errorf("device: append kill marker: %w", err)
	}
	return nil
}

// isKillMarker reports whether a record read back from the kill marker log
// is the canonical payload. Exposed for tests that read the raw log rather
// than going through IsKilled.
func isKillMarker(record []byte) bool {
	return bytes.Equal(record, killMarkerPayload)
}
