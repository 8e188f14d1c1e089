package upload

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// MaxFileBytes is the largest batch the client will send (200 MiB).
const MaxFileBytes = 200 << 20

var allowedExtensions = map[string]struct{}{
	".xlsx": {},
	".xls":  {},
	".csv":  {},
}

var (
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = fmt.Errorf("file size must be less than 200MB")
	ErrBadExtension = errors.New("only Excel files (.xlsx, .xls) and CSV files (.csv) are allowed")
)

// ValidateLocal rejects a batch before any network call. Rejections here are
// local validation errors and never reach the server.
func ValidateLocal(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrBadExtension
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxFileBytes {
		return fmt.Errorf("%w (current size: %.2fMB)", ErrFileTooLarge, float64(size)/(1024*1024))
	}
	return nil
}

// Checksum streams the file content through xxhash. The digest is used to
// spot a batch re-submitted within the same session.
func Checksum(r io.Reader) (uint64, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// ChecksumIndex remembers digests of batches already sent this session.
type ChecksumIndex struct {
	mu   sync.Mutex
	seen map[uint64]string // digest -> filename first seen under
}

func NewChecksumIndex() *ChecksumIndex {
	return &ChecksumIndex{seen: make(map[uint64]string)}
}

// Remember records digest under filename. If the digest was already recorded
// it returns the original filename and false.
func (ci *ChecksumIndex) Remember(digest uint64, filename string) (string, bool) {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	if prior, ok := ci.seen[digest]; ok {
		return prior, false
	}
	ci.seen[digest] = filename
	return filename, true
}

// Forget drops digest so the same content can be submitted again, used when
// the upload it was recorded for did not go through.
func (ci *ChecksumIndex) Forget(digest uint64) {
	ci.mu.Lock()
	defer ci.mu.Unlock()
	delete(ci.seen, digest)
}
