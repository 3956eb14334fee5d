package order

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrArtifactUnavailable reports that no compiled artifact exists for a
// class. It is a normal outcome, not an environment failure: the recovery
// coordinator degrades to unresolved positions instead of returning an
// error. Any other error from an ArtifactSource is treated as a real I/O
// problem and surfaced.
var ErrArtifactUnavailable = errors.New("artifact unavailable")

// ArtifactSource supplies the compiled bytes of the binary artifact that
// contains a class. Implementations return ErrArtifactUnavailable (possibly
// wrapped) when they have nothing for the class.
type ArtifactSource interface {
	Bytes(c Class) ([]byte, error)
}

// ExecutableSource reads the running executable, which in a standard Go
// build contains the compiled code of every linked type. The file is read
// once on first use and the bytes are shared by all classes. This is the
// default ArtifactSource.
type ExecutableSource struct {
	once sync.Once
	data []byte
	err  error
}

// NewExecutableSource creates an ExecutableSource. Nothing is read until the
// first Bytes call.
func NewExecutableSource() *ExecutableSource {
	return &ExecutableSource{}
}

// Bytes returns the raw bytes of the running executable.
func (s *ExecutableSource) Bytes(Class) ([]byte, error) {
	s.once.Do(func() {
		path, err := os.Executable()
		if err != nil {
			s.err = fmt.Errorf("failed to locate executable: %w", err)
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			s.err = fmt.Errorf("failed to read executable: %w", err)
			return
		}
		s.data = data
	})
	return s.data, s.err
}

// DirSource looks artifacts up under a root directory, deriving the file
// path from the class's import path with the separators translated to the
// local filesystem convention plus a fixed extension. Go archives are laid
// out per package, so the type name does not participate in the path.
type DirSource struct {
	Root string
	Ext  string // defaults to ".a"
}

// Bytes reads the archive for the class's package. A missing file maps to
// ErrArtifactUnavailable; other read failures are returned as I/O errors.
func (s DirSource) Bytes(c Class) ([]byte, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("%w: class %q has no import path", ErrArtifactUnavailable, c)
	}
	ext := s.Ext
	if ext == "" {
		ext = ".a"
	}
	path := filepath.Join(s.Root, filepath.FromSlash(c.Path)+ext)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return data, nil
}

// FallbackSource consults Primary first and, only when Primary reports
// ErrArtifactUnavailable, retries with Fallback. Real I/O errors from
// Primary are returned without consulting Fallback. This mirrors the
// defining-lookup-then-bootstrap pairing used by hosted class loading.
type FallbackSource struct {
	Primary  ArtifactSource
	Fallback ArtifactSource
}

// Bytes implements ArtifactSource.
func (s FallbackSource) Bytes(c Class) ([]byte, error) {
	if s.Primary == nil {
		if s.Fallback == nil {
			return nil, ErrArtifactUnavailable
		}
		return s.Fallback.Bytes(c)
	}
	data, err := s.Primary.Bytes(c)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, ErrArtifactUnavailable) && s.Fallback != nil {
		return s.Fallback.Bytes(c)
	}
	return nil, err
}
