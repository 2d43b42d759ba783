package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Names of the artifacts a build leaves under a package's output directory.
const (
	artifactDir        = "protogen"
	specFileName       = "package_spec.json"
	descriptorFileName = "descriptor.binpb"
)

// ErrNotExist is returned by LoadPackageSpec when the package has no
// published spec, which usually means it has not been built yet.
var ErrNotExist = errors.New("package spec does not exist")

// Store reads and writes per-package build artifacts under each package's
// output directory.
type Store struct {
	fs afero.Fs
}

// NewStore returns a store backed by the given filesystem.
func NewStore(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// SpecPath returns the location of a package's published spec, given the
// package's output directory.
func (s *Store) SpecPath(pkgPath string) string {
	return filepath.Join(pkgPath, artifactDir, specFileName)
}

// DescriptorPath returns the location of a package's persisted descriptor
// set.
func (s *Store) DescriptorPath(pkgPath string) string {
	return filepath.Join(pkgPath, artifactDir, descriptorFileName)
}

// LoadPackageSpec reads a previously published spec. A missing spec file
// is reported as ErrNotExist.
func (s *Store) LoadPackageSpec(pkgPath string) (*ProtoPackageSpec, error) {
	path := s.SpecPath(pkgPath)
	ok, err := afero.Exists(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading package spec %s: %w", path, err)
	}
	var p ProtoPackageSpec
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding package spec %s: %w", path, err)
	}
	return &p, nil
}

// WritePackageSpec publishes a package's spec. The write is atomic from a
// reader's perspective: the encoded spec lands in a temporary file in the
// destination directory and is renamed into place, so a concurrent
// dependent build never observes a partial spec.
func (s *Store) WritePackageSpec(pkgPath string, p *ProtoPackageSpec) error {
	data, err := p.Encode()
	if err != nil {
		return fmt.Errorf("encoding package spec for %s: %w", p.Name, err)
	}
	return s.writeAtomic(s.SpecPath(pkgPath), data)
}

// WriteDescriptorSet persists a package's serialized descriptor set beside
// its spec.
func (s *Store) WriteDescriptorSet(pkgPath string, data []byte) error {
	return s.writeAtomic(s.DescriptorPath(pkgPath), data)
}

// RemoveDescriptorSet deletes a package's persisted descriptor set.
func (s *Store) RemoveDescriptorSet(pkgPath string) error {
	return s.fs.Remove(s.DescriptorPath(pkgPath))
}

func (s *Store) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("renaming %s to %s: %w", tmpName, path, err)
	}
	return nil
}
