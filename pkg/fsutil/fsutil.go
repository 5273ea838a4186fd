// Package fsutil provides the file system primitives of the render
// pipeline: reading inputs with their content hash and writing outputs
// atomically.
package fsutil

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// Hash is a BLAKE3-256 content digest.
type Hash [32]byte

// HashContent returns the digest of content.
func HashContent(content []byte) Hash {
	return blake3.Sum256(content)
}

// String returns the digest in hex.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 12 hex digits, for display.
func (h Hash) Short() string {
	return h.String()[:12]
}

// FileInfo captures the state of a file at the time it was read.
type FileInfo struct {
	// Path is the absolute or relative path to the file.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// ModTime is the file's modification time.
	ModTime time.Time

	// Size is the file size in bytes.
	Size int64

	// Hash is the digest of the file content.
	Hash Hash
}

// ReadFile reads a file and returns its content along with metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, "stat", err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, "read", err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    HashContent(content),
	}
	return content, info, nil
}

// ReadAll reads a stream such as stdin. The returned FileInfo has no path
// and no mode.
func ReadAll(ctx context.Context, r io.Reader) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	return content, &FileInfo{
		ModTime: time.Now(),
		Size:    int64(len(content)),
		Hash:    HashContent(content),
	}, nil
}

// HashFile streams the file at path through the hasher.
func HashFile(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return Hash{}, classify(path, "open", err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return Hash{}, fmt.Errorf("hash %s: %w", path, err)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out, nil
}

// OutputPath maps an input file to its rendered counterpart. The path of
// input relative to root is kept under dir; an empty dir writes next to
// the input. The extension is replaced by ext.
func OutputPath(input, root, dir, ext string) (string, error) {
	target := input
	if dir != "" {
		rel, err := filepath.Rel(root, input)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			rel = filepath.Base(input)
		}
		target = filepath.Join(dir, rel)
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	out := strings.TrimSuffix(target, filepath.Ext(target)) + ext
	if filepath.Clean(out) == filepath.Clean(input) {
		return "", fmt.Errorf("output %s would overwrite its input", out)
	}
	return out, nil
}

func classify(path, op string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s %s: %w", op, path, err)
	}
}
