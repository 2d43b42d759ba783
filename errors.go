package protogen

import (
	"fmt"
	"strings"
)

// ConfigError reports a generation config that cannot be satisfied: an
// unknown package name, a non-relative output path, an unknown or cyclic
// dependency declaration.
type ConfigError struct {
	Package string
	Reason  string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Package == "" {
		return fmt.Sprintf("invalid protogen config: %s", e.Reason)
	}
	return fmt.Sprintf("package %q: %s", e.Package, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// MissingDependencySpecError reports a declared dependency whose published
// spec is not on disk. Packages must build in dependency order; hitting
// this error means a dependency has not been built yet.
type MissingDependencySpecError struct {
	Package    string
	Dependency string
	Path       string
	Err        error
}

func (e *MissingDependencySpecError) Error() string {
	return fmt.Sprintf("package %q: no spec for dependency %q at %s (build it first)",
		e.Package, e.Dependency, e.Path)
}

func (e *MissingDependencySpecError) Unwrap() error { return e.Err }

// CompilationError wraps a compiler frontend failure verbatim.
type CompilationError struct {
	Package string
	Err     error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("package %q: %v", e.Package, e.Err)
}

func (e *CompilationError) Unwrap() error { return e.Err }

// EmptyPackageOutputError reports that none of a package's declared proto
// sources survived descriptor filtering, which means the declared file
// names or the declared proto package do not match what was compiled.
type EmptyPackageOutputError struct {
	Package      string
	ProtoPackage string
	Declared     []string
}

func (e *EmptyPackageOutputError) Error() string {
	return fmt.Sprintf("package %q: no compiled descriptors matched proto package %q and declared files [%s]",
		e.Package, e.ProtoPackage, strings.Join(e.Declared, ", "))
}

// SpecWriteError reports a failure to persist a package's spec or
// descriptor artifacts. It is always fatal: a partial or missing spec
// corrupts every transitive dependent's next build.
type SpecWriteError struct {
	Package string
	Path    string
	Err     error
}

func (e *SpecWriteError) Error() string {
	return fmt.Sprintf("package %q: writing %s: %v", e.Package, e.Path, e.Err)
}

func (e *SpecWriteError) Unwrap() error { return e.Err }

// IOError annotates a read, write, or create failure with the operation
// and path it happened on.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
