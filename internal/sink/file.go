package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/seclog/seclog/internal/model"
)

// ErrSinkClosed is returned by Write after the sink has been closed.
var ErrSinkClosed = errors.New("sink is closed")

// FileSink appends serialized records to a file, rotating it when the
// next write would cross the configured size threshold.
//
// Rotation uses an incrementing suffix scheme: the active file app.log is
// renamed to app.log.1, existing archives shift to app.log.2 and so on,
// and the archive beyond the backup count is deleted. At most backupCount
// archives plus the active file exist at any time.
//
// Design decision: The rotation check and the write are one critical
// section under a per-sink mutex. Two concurrent writers must never both
// observe "under threshold" and both append; serializing check+write is
// the only way to make the rotation decision atomic without file locks.
type FileSink struct {
	mu sync.Mutex

	// path is the active log file path. Archives live at path.1..path.N.
	path string

	// maxSize is the rotation threshold in bytes.
	maxSize int64

	// backupCount is the number of archives retained. Zero means rotate
	// by truncating the active file in place, keeping no archives.
	backupCount int

	// minLevel gates which records this sink receives.
	minLevel model.Level

	// name identifies the sink in failure reports.
	name string

	file   *os.File
	size   int64
	closed bool
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithFileMinLevel sets the sink's level threshold.
func WithFileMinLevel(level model.Level) FileSinkOption {
	return func(s *FileSink) {
		s.minLevel = level
	}
}

// WithRotation sets the rotation threshold and archive count.
func WithRotation(maxSize int64, backupCount int) FileSinkOption {
	return func(s *FileSink) {
		if maxSize > 0 {
			s.maxSize = maxSize
		}
		if backupCount >= 0 {
			s.backupCount = backupCount
		}
	}
}

// DefaultMaxLogSize is the default rotation threshold (10 MiB).
const DefaultMaxLogSize = 10 * 1024 * 1024

// DefaultBackupCount is the default number of rotated archives retained.
const DefaultBackupCount = 5

// NewFileSink opens (or creates) the log file at path for appending.
// The current file size is captured so rotation decisions account for
// records persisted by earlier processes.
func NewFileSink(name, path string, opts ...FileSinkOption) (*FileSink, error) {
	s := &FileSink{
		name:        name,
		path:        path,
		maxSize:     DefaultMaxLogSize,
		backupCount: DefaultBackupCount,
		minLevel:    model.LevelDebug,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

// open opens the active file for appending and records its size.
// Callers must hold mu (or be the constructor).
func (s *FileSink) open() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file %s: %w", s.path, err)
	}
	s.file = f
	s.size = info.Size()
	return nil
}

// Name returns the sink name.
func (s *FileSink) Name() string {
	return s.name
}

// MinLevel returns the sink's level threshold.
func (s *FileSink) MinLevel() model.Level {
	return s.minLevel
}

// Path returns the active log file path.
func (s *FileSink) Path() string {
	return s.path
}

// Write serializes the record and appends it as one line, rotating first
// when the write would cross the size threshold.
func (s *FileSink) Write(rec *model.Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	// Check-before-write: rotate when this record would cross the
	// threshold, so the active file never exceeds maxSize by more than
	// a single record.
	if s.size > 0 && s.size+int64(len(line)) > s.maxSize {
		if err := s.rotate(); err != nil {
			return fmt.Errorf("failed to rotate %s: %w", s.path, err)
		}
	}

	n, err := s.file.Write(line)
	s.size += int64(n)
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}
	return nil
}

// rotate archives the active file. Callers must hold mu.
func (s *FileSink) rotate() error {
	if err := s.file.Close(); err != nil {
		return err
	}

	if s.backupCount == 0 {
		// No archives requested: truncate in place.
		f, err := os.Create(s.path)
		if err != nil {
			return err
		}
		s.file = f
		s.size = 0
		return nil
	}

	// Drop the oldest archive, then shift the rest up by one.
	oldest := s.archivePath(s.backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return err
	}
	for i := s.backupCount - 1; i >= 1; i-- {
		from := s.archivePath(i)
		if _, err := os.Stat(from); os.IsNotExist(err) {
			continue
		}
		if err := os.Rename(from, s.archivePath(i+1)); err != nil {
			return err
		}
	}
	if err := os.Rename(s.path, s.archivePath(1)); err != nil {
		return err
	}

	return s.open()
}

// archivePath returns the path of the i-th archive (1 is newest).
func (s *FileSink) archivePath(i int) string {
	return s.path + "." + strconv.Itoa(i)
}

// Close closes the active file. Further writes fail with ErrSinkClosed.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.file.Close()
}
