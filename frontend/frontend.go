// Package frontend defines the boundary to the protobuf compiler: the core
// pipeline hands a frontend its include directories, file list, and
// aggregated rewrite set, and gets back a compiled descriptor set. What
// source the frontend emits alongside the descriptors is its own business.
package frontend

import (
	"context"
	"io"
	"os"

	"github.com/spf13/afero"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protogenhq/protogen/spec"
)

// Request describes one compiler invocation for a single package build.
type Request struct {
	// ImportPaths are the include directories proto imports resolve
	// against.
	ImportPaths []string
	// Files are the package's proto sources, named relative to one of the
	// import paths. Descriptor file names in the result match these.
	Files []string
	// ExternPaths is the aggregated rewrite set: types the frontend must
	// treat as already compiled when emitting source. It does not affect
	// the descriptor output.
	ExternPaths []spec.ExternPath
	// CompileWellKnownTypes asks the frontend to emit source for the
	// google.protobuf standard types instead of binding them externally.
	CompileWellKnownTypes bool
}

// Frontend compiles proto sources into a descriptor set. A frontend
// invocation is an opaque unit of work: it either returns a complete set
// or an error, and its failure fails the whole package build.
type Frontend interface {
	Compile(ctx context.Context, req Request) (*descriptorpb.FileDescriptorSet, error)
}

// FsAccessor adapts a filesystem to the source accessor contract used by
// the in-process frontend, reporting missing files in a way the resolver's
// import-path search recognizes.
func FsAccessor(fsys afero.Fs) func(string) (io.ReadCloser, error) {
	return func(name string) (io.ReadCloser, error) {
		ok, err := afero.Exists(fsys, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
		}
		return fsys.Open(name)
	}
}
