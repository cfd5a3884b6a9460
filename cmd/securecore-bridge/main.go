// Package main provides the C-compatible shared-library exports for
// Secure Core. Build with -buildmode=c-shared (or c-archive) to produce a
// library other languages can link against.
package main

import "C"

import (
	"unsafe"

	"github.com/sage-x-project/securecore/bridge"
	"github.com/sage-x-project/securecore/config"
	"github.com/sage-x-project/securecore/crypto/kdf"
)

// SecureCoreVersion returns the library version.
//
//export SecureCoreVersion
func SecureCoreVersion() *C.char {
	return C.CString("1.0.0")
}

// SecureCoreOpen constructs a Core over a storage root and device
// material and returns a non-zero handle, or 0 on failure with *outErr
// set to the BridgeError code.
//
//export SecureCoreOpen
func SecureCoreOpen(logRoot *C.char, registryFile, killMarkerFile, replayLogFile *C.char, deviceMaterial unsafe.Pointer, deviceMaterialLen C.int, outErr *C.int) C.ulonglong {
	cfg := config.StorageConfig{
		LogRoot:            C.GoString(logRoot),
		DeviceRegistryFile: C.GoString(registryFile),
		KillMarkerFile:     C.GoString(killMarkerFile),
		ReplayLogFile:      C.GoString(replayLogFile),
	}
	material := C.GoBytes(deviceMaterial, deviceMaterialLen)

	h, be := bridge.Open(cfg, material, nil)
	if outErr != nil {
		*outErr = C.int(be)
	}
	return C.ulonglong(h)
}

// SecureCoreClose releases a handle. Safe to call on an unknown or
// already-closed handle.
//
//export SecureCoreClose
func SecureCoreClose(handle C.ulonglong) {
	bridge.Close(bridge.Handle(handle))
}

// SecureCoreUnlock unlocks a handle's keystore from a recovery phrase and
// a salt, using fixed, conservative Argon2id parameters. Returns a
// BridgeError code.
//
//export SecureCoreUnlock
func SecureCoreUnlock(handle C.ulonglong, phrase unsafe.Pointer, phraseLen C.int, salt unsafe.Pointer, saltLen C.int) C.int {
	phraseBytes := C.GoBytes(phrase, phraseLen)
	saltBytes := C.GoBytes(salt, saltLen)

	params := kdf.Argon2Params{MemoryKiB: 64 * 1024, TimeCost: 3, Parallelism: 4}
	be := bridge.Unlock(bridge.Handle(handle), phraseBytes, saltBytes, params)
	return C.int(be)
}

// SecureCoreEncryptChunk seals plaintext into a caller-supplied output
// buffer that must be exactly len(plaintext)+16 bytes. Returns a
// BridgeError code.
//
//export SecureCoreEncryptChunk
func SecureCoreEncryptChunk(handle C.ulonglong, fileID C.ulonglong, chunk C.uint, cloudID C.ushort, plaintext unsafe.Pointer, plaintextLen C.int, out unsafe.Pointer, outLen C.int) C.int {
	ptBytes := C.GoBytes(plaintext, plaintextLen)
	outBytes := unsafe.Slice((*byte)(out), int(outLen))

	be := bridge.EncryptChunk(bridge.Handle(handle), uint64(fileID), uint32(chunk), uint16(cloudID), ptBytes, outBytes)
	return C.int(be)
}

// SecureCoreDecryptVerifyChunk authenticates and decrypts ciphertext into
// a caller-supplied output buffer that must be exactly
// len(ciphertext)-16 bytes. Returns a BridgeError code.
//
//export SecureCoreDecryptVerifyChunk
func SecureCoreDecryptVerifyChunk(handle C.ulonglong, fileID C.ulonglong, chunk C.uint, cloudID C.ushort, ciphertext unsafe.Pointer, ciphertextLen C.int, out unsafe.Pointer, outLen C.int) C.int {
	ctBytes := C.GoBytes(ciphertext, ciphertextLen)
	outBytes := unsafe.Slice((*byte)(out), int(outLen))

	be := bridge.DecryptVerifyChunk(bridge.Handle(handle), uint64(fileID), uint32(chunk), uint16(cloudID), ctBytes, outBytes)
	return C.int(be)
}

// SecureCoreLock locks a handle's keystore, wiping its active session.
//
//export SecureCoreLock
func SecureCoreLock(handle C.ulonglong) C.int {
	return C.int(bridge.Lock(bridge.Handle(handle)))
}

// SecureCoreIsActive reports whether a handle's keystore currently holds
// an active session. Returns 1/0 via the return value; *outErr carries
// the BridgeError code.
//
//export SecureCoreIsActive
func SecureCoreIsActive(handle C.ulonglong, outErr *C.int) C.int {
	active, be := bridge.IsActive(bridge.Handle(handle))
	if outErr != nil {
		*outErr = C.int(be)
	}
	if active {
		return 1
	}
	return 0
}

func main() {
	// Required for buildmode=c-shared/c-archive.
}
