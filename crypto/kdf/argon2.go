package kdf

import (
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/sage-x-project/securecore/memguard"
)

// Argon2Params bounds the memory/time/parallelism knobs accepted for
// recovery-phrase stretching. Bounds mirror config.KDFConfig's validation
// and exist so a corrupted or malicious config can never force a
// pathologically slow (DoS) or pathologically weak derivation.
type Argon2Params struct {
	MemoryKiB   uint32
	TimeCost    uint32
	Parallelism uint8
}

const (
	minMemoryKiB = 8 * 1024
	maxMemoryKiB = 512 * 1024
	minTimeCost  = 1
	maxTimeCost  = 10
	minLanes     = 1
	maxLanes     = 4
)

func (p Argon2Params) validate() error {
	if p.MemoryKiB < minMemoryKiB || p.MemoryKiB > maxMemoryKiB {
		return fmt.Errorf("kdf: argon2 memory %d KiB out of bounds [%d, %d]", p.MemoryKiB, minMemoryKiB, maxMemoryKiB)
	}
	if p.TimeCost < minTimeCost || p.TimeCost > maxTimeCost {
		return fmt.Errorf("kdf: argon2 time cost %d out of bounds [%d, %d]", p.TimeCost, minTimeCost, maxTimeCost)
	}
	if p.Parallelism < minLanes || p.Parallelism > maxLanes {
		return fmt.Errorf("kdf: argon2 parallelism %d out of bounds [%d, %d]", p.Parallelism, minLanes, maxLanes)
	}
	return nil
}

// DeriveFromPassphrase stretches a low-entropy recovery phrase into 32
// bytes of guarded root material via Argon2id. This is root material only
// — the recovery session key is derived from it afterward via DeriveKey
// under PurposeRecovery; see keystore.RecoverFromPhrase.
func DeriveFromPassphrase(phrase, salt []byte, params Argon2Params) (*memguard.Key32, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if len(salt) < 16 {
		return nil, fmt.Errorf("kdf: argon2 salt must be at least 16 bytes, got %d", len(salt))
	}

	raw := argon2.IDKey(phrase, salt, params.TimeCost, params.MemoryKiB, params.Parallelism, 32)
	defer zero(raw)

	var out [32]byte
	copy(out[:], raw)
	defer zero(out[:])
	return memguard.NewKey32(out)
}
