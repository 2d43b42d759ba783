package frontend

import (
	"context"
	"fmt"
	"io"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/protoutil"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Protocompile compiles in-process with the bufbuild/protocompile compiler.
// It needs no protoc binary and resolves the google.protobuf standard
// imports from compiled-in descriptors, mirroring how protoc ships its own
// copies.
type Protocompile struct {
	// MaxParallelism caps the compiler's internal parallelism. Zero means
	// the compiler's default.
	MaxParallelism int
	// Accessor opens proto sources by path. Nil means reading from the
	// operating system's filesystem.
	Accessor func(path string) (io.ReadCloser, error)
}

var _ Frontend = (*Protocompile)(nil)

// Compile compiles req.Files and returns a descriptor set containing the
// compiled files and, like protoc's --include_imports, every transitive
// import, dependencies first.
func (p *Protocompile) Compile(ctx context.Context, req Request) (*descriptorpb.FileDescriptorSet, error) {
	resolver := &protocompile.SourceResolver{
		ImportPaths: req.ImportPaths,
		Accessor:    p.Accessor,
	}
	compiler := protocompile.Compiler{
		Resolver:       protocompile.WithStandardImports(resolver),
		MaxParallelism: p.MaxParallelism,
	}
	files, err := compiler.Compile(ctx, req.Files...)
	if err != nil {
		return nil, fmt.Errorf("compiling protos: %w", err)
	}

	set := &descriptorpb.FileDescriptorSet{}
	seen := make(map[string]bool, len(files))
	for _, fd := range files {
		appendFileWithImports(set, fd, seen)
	}
	return set, nil
}

func appendFileWithImports(set *descriptorpb.FileDescriptorSet, fd protoreflect.FileDescriptor, seen map[string]bool) {
	if seen[fd.Path()] {
		return
	}
	seen[fd.Path()] = true
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		appendFileWithImports(set, imports.Get(i).FileDescriptor, seen)
	}
	set.File = append(set.File, protoutil.ProtoFromFileDescriptor(fd))
}
