// Package storage provides the append-only, fail-closed log primitive that
// backs the device registry, the device kill marker, and the kill replay
// log. It knows nothing about encryption — callers
// write whatever bytes they have already sealed — and it refuses every
// mutating operation once the process kill fuse has tripped.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sage-x-project/securecore/fuse"
)

var (
	rootMu sync.Mutex
	root   string
)

// InitRoot sets the process-wide log root directory. It must be called
// exactly once at startup, before any Log is opened. Calling it again with
// a different path after logs have been opened produces inconsistent
// behavior by construction — this is a startup-only knob, not a runtime
// one.
func InitRoot(path string) {
	rootMu.Lock()
	defer rootMu.Unlock()
	root = path
}

func logRoot() (string, error) {
	rootMu.Lock()
	defer rootMu.Unlock()
	if root == "" {
		return "", fmt.Errorf("storage: log root not initialized")
	}
	return root, nil
}

// Mode selects how a Log interprets Append/Read calls.
type Mode int

const (
	// ModeAppend opens the file for append-only writes and arbitrary reads.
	ModeAppend Mode = iota
	// ModeOverwrite opens the file for whole-content replacement, used only
	// by the device identity record.
	ModeOverwrite
)

// Log is an open handle onto one file under the log root.
type Log struct {
	file *os.File
	mode Mode
}

// Open opens (creating if necessary) the named file under the log root in
// the given mode. It fails closed if the fuse has already tripped.
func Open(name string, mode Mode) (*Log, error) {
	if fuse.Blown() {
		return nil, fmt.Errorf("storage: kill fuse is blown")
	}
	dir, err := logRoot()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create log root: %w", err)
	}
	path := filepath.Join(dir, name)

	flags := os.O_CREATE | os.O_RDWR
	if mode == ModeAppend {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", name, err)
	}
	return &Log{file: f, mode: mode}, nil
}

// Close releases the underlying file handle.
func (l *Log) Close() error {
	return l.file.Close()
}

// AppendRecord appends a length-prefixed record. Used for kill flags and
// audit-style entries where record boundaries matter.
func (l *Log) AppendRecord(data []byte) error {
	if fuse.Blown() {
		return fmt.Errorf("storage: kill fuse is blown")
	}
	if l.mode != ModeAppend {
		return fmt.Errorf("storage: AppendRecord requires append mode")
	}
	length := uint32(len(data))
	prefix := []byte{byte(length >> 24), byte(length >> 16), byte(length >> 8), byte(length)}
	if _, err := l.file.Write(prefix); err != nil {
		return fmt.Errorf("storage: write length prefix: %w", err)
	}
	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("storage: write record: %w", err)
	}
	return l.file.Sync()
}

// HasAnyContent reports whether the file holds any bytes at all. It fails
// closed: any stat error is reported as content present, since the only
// callers of this method are kill-state checks for which "unsure" must mean
// "killed".
func (l *Log) HasAnyContent() bool {
	info, err := l.file.Stat()
	if err != nil {
		return true
	}
	return info.Size() > 0
}

// AppendU64 appends a raw big-endian uint64 with no length prefix. Strictly
// for logs that are defined to consist only of 8-byte records, such as the
// kill-blob replay log.
func (l *Log) AppendU64(value uint64) error {
	if fuse.Blown() {
		return fmt.Errorf("storage: kill fuse is blown")
	}
	if l.mode != ModeAppend {
		return fmt.Errorf("storage: AppendU64 requires append mode")
	}
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(value >> (8 * i))
	}
	if _, err := l.file.Seek(0, os.SEEK_END); err != nil {
		return fmt.Errorf("storage: seek to end: %w", err)
	}
	if _, err := l.file.Write(buf); err != nil {
		return fmt.Errorf("storage: write u64 record: %w", err)
	}
	return l.file.Sync()
}

// ReadAllU64 reads every 8-byte record in the file, in order. It returns an
// error if the file size is not a multiple of 8 — a corrupt tail must never
// be silently truncated and read as if nothing were wrong.
func (l *Log) ReadAllU64() ([]uint64, error) {
	info, err := l.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("storage: stat: %w", err)
	}
	size := info.Size()
	if size%8 != 0 {
		return nil, fmt.Errorf("storage: corrupt replay log: size %d is not a multiple of 8", size)
	}
	if size == 0 {
		return nil, nil
	}
	if _, err := l.file.Seek(0, os.SEEK_SET); err != nil {
		return nil, fmt.Errorf("storage: seek to start: %w", err)
	}
	buf := make([]byte, size)
	if _, err := l.file.Read(buf); err != nil {
		return nil, fmt.Errorf("storage: read: %w", err)
	}
	out := make([]uint64, 0, size/8)
	for i := 0; i < len(buf); i += 8 {
		var v uint64
		for j := 0; j < 8; j++ {
			v = v<<8 | uint64(buf[i+j])
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteFixed replaces the entire file contents. Not append-only: restricted
// to the device identity record, which is the one piece of state this
// library overwrites rather than appends to.
func (l *Log) WriteFixed(data []byte) error {
	if fuse.Blown() {
		return fmt.Errorf("storage: kill fuse is blown")
	}
	if l.mode != ModeOverwrite {
		return fmt.Errorf("storage: WriteFixed requires overwrite mode")
	}
	if err := l.file.Truncate(0); err != nil {
		return fmt.Errorf("storage: truncate: %w", err)
	}
	if _, err := l.file.Seek(0, os.SEEK_SET); err != nil {
		return fmt.Errorf("storage: seek to start: %w", err)
	}
	if _, err := l.file.Write(data); err != nil {
		return fmt.Errorf("storage: write: %w", err)
	}
	return l.file.Sync()
}

// ReadFixed reads the whole file. It returns (nil, nil) for an empty file,
// distinguishing "never written" from "corrupt".
func (l *Log) ReadFixed() ([]byte, error) {
	if _, err := l.file.Seek(0, os.SEEK_SET); err != nil {
		return nil, fmt.Errorf("storage: seek to start: %w", err)
	}
	info, err := l.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("storage: stat: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil
	}
	buf := make([]byte, info.Size())
	if _, err := l.file.Read(buf); err != nil {
		return nil, fmt.Errorf("storage: read: %w", err)
	}
	return buf, nil
}
