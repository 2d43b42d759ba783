package protogen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protogenhq/protogen/frontend"
	"github.com/protogenhq/protogen/spec"
	"github.com/protogenhq/protogen/walk"
)

// Builder runs package builds against a loaded protogen config. A single
// package build is a synchronous pipeline: load dependency specs,
// aggregate the rewrite set, invoke the compiler frontend, walk the
// filtered descriptors, and publish the package's own spec. Builds of
// packages sharing no dependency edge may run concurrently; each build
// only reads already-published dependency specs and writes under its own
// output directory.
type Builder struct {
	// Spec is the loaded generation config. Required.
	Spec *spec.ProtogenSpec
	// Fs is the filesystem artifacts are read from and written to.
	// Defaults to the operating system's filesystem.
	Fs afero.Fs
	// Frontend compiles proto sources into descriptor sets. Defaults to
	// the in-process compiler.
	Frontend frontend.Frontend
	// Logger receives build progress. Defaults to the standard logger.
	Logger logrus.FieldLogger
	// Caser controls how parent type names are cased when they become
	// module segments of nested target paths. Nil means unchanged.
	Caser walk.Caser
	// DryRun skips publishing and writes a unified diff of the would-be
	// spec against the existing one to Out instead.
	DryRun bool
	// Out is the dry-run diff destination. Defaults to standard output.
	// Out need not be safe for concurrent use: diff writes are serialized
	// even when BuildAll runs a level's packages in parallel.
	Out io.Writer

	once  sync.Once
	store *spec.Store
	outMu sync.Mutex
}

func (b *Builder) init() {
	b.once.Do(func() {
		if b.Fs == nil {
			b.Fs = afero.NewOsFs()
		}
		if b.Frontend == nil {
			b.Frontend = &frontend.Protocompile{Accessor: frontend.FsAccessor(b.Fs)}
		}
		if b.Logger == nil {
			b.Logger = logrus.StandardLogger()
		}
		if b.Out == nil {
			b.Out = os.Stdout
		}
		b.store = spec.NewStore(b.Fs)
	})
}

// BuildPackage builds the named package. The aggregated rewrite set is
// computed before the frontend runs, so a missing dependency spec fails
// the build without invoking the compiler. No artifacts are retained for
// a failed build.
func (b *Builder) BuildPackage(ctx context.Context, name string) error {
	b.init()

	pkg, ok := b.Spec.Find(name)
	if !ok {
		return &ConfigError{Package: name, Reason: "not declared in protogen config"}
	}
	if filepath.IsAbs(pkg.Path) {
		return &ConfigError{Package: name, Reason: fmt.Sprintf("output path %q is not relative", pkg.Path)}
	}
	logger := b.Logger.WithFields(logrus.Fields{"package": name, "path": pkg.Path})

	rewrite, err := b.aggregate(pkg)
	if err != nil {
		return err
	}

	importPaths, files, err := b.protoSources(pkg)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"files":       len(files),
		"externPaths": rewrite.Len(),
	}).Debug("invoking compiler frontend")
	fdset, err := b.Frontend.Compile(ctx, frontend.Request{
		ImportPaths:           importPaths,
		Files:                 files,
		ExternPaths:           rewrite.Paths(),
		CompileWellKnownTypes: pkg.CompileWellKnownTypes,
	})
	if err != nil {
		return &CompilationError{Package: name, Err: err}
	}

	own := walk.Filter(fdset, files, pkg.ProtoPackage)
	if len(own) == 0 && declaresSources(pkg) {
		return &EmptyPackageOutputError{
			Package:      name,
			ProtoPackage: pkg.ProtoPackage,
			Declared:     files,
		}
	}

	module := pkg.Module
	if module == "" {
		module = pkg.Name
	}
	paths, err := walk.ExternPaths(own, walk.Options{Module: module, Caser: b.Caser})
	if err != nil {
		return fmt.Errorf("package %q: %w", name, err)
	}

	pkgSpec := &spec.ProtoPackageSpec{Name: pkg.Name, ExternPaths: paths.Paths()}
	if b.DryRun {
		return b.writeDiff(pkg, pkgSpec)
	}

	descriptor, err := proto.Marshal(&descriptorpb.FileDescriptorSet{File: own})
	if err != nil {
		return &SpecWriteError{Package: name, Path: b.store.DescriptorPath(pkg.Path), Err: err}
	}
	if err := b.store.WriteDescriptorSet(pkg.Path, descriptor); err != nil {
		return &SpecWriteError{Package: name, Path: b.store.DescriptorPath(pkg.Path), Err: err}
	}
	if err := b.store.WritePackageSpec(pkg.Path, pkgSpec); err != nil {
		// A failed build retains no artifacts, including the descriptor
		// set written a moment ago.
		_ = b.store.RemoveDescriptorSet(pkg.Path)
		return &SpecWriteError{Package: name, Path: b.store.SpecPath(pkg.Path), Err: err}
	}
	logger.WithField("externPaths", len(pkgSpec.ExternPaths)).Info("published package spec")
	return nil
}

// BuildAll builds every declared package, level by level in dependency
// order, packages within a level in parallel. The first failure stops the
// run after the current level drains.
func (b *Builder) BuildAll(ctx context.Context) error {
	b.init()

	levels, err := b.Spec.BuildLevels()
	if err != nil {
		return &ConfigError{Reason: err.Error(), Err: err}
	}
	for _, level := range levels {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for _, name := range level {
			g.Go(func() error {
				return b.BuildPackage(ctx, name)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}

// protoSources flattens a package's source groups into the frontend's
// include directories and relative file names, expanding glob patterns
// against each group's directory.
func (b *Builder) protoSources(pkg *spec.Package) (importPaths, files []string, err error) {
	for _, src := range pkg.Protos {
		importPaths = append(importPaths, src.Dir)
		expanded, err := b.expandFiles(src.Dir, src.Files)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, expanded...)
	}
	return importPaths, files, nil
}

func (b *Builder) expandFiles(dir string, patterns []string) ([]string, error) {
	var out []string
	for _, pat := range patterns {
		if !strings.ContainsAny(pat, "*?[{") {
			out = append(out, pat)
			continue
		}
		matches, err := doublestar.Glob(afero.NewIOFS(afero.NewBasePathFs(b.Fs, dir)), pat)
		if err != nil {
			return nil, &IOError{Op: "glob", Path: filepath.Join(dir, pat), Err: err}
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func declaresSources(pkg *spec.Package) bool {
	for _, src := range pkg.Protos {
		if len(src.Files) > 0 {
			return true
		}
	}
	return false
}

func (b *Builder) writeDiff(pkg *spec.Package, pkgSpec *spec.ProtoPackageSpec) error {
	data, err := pkgSpec.Encode()
	if err != nil {
		return fmt.Errorf("package %q: encoding spec: %w", pkg.Name, err)
	}
	path := b.store.SpecPath(pkg.Path)
	var existing []byte
	if ok, _ := afero.Exists(b.Fs, path); ok {
		existing, err = afero.ReadFile(b.Fs, path)
		if err != nil {
			return &IOError{Op: "read", Path: path, Err: err}
		}
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(data)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return fmt.Errorf("package %q: diffing spec: %w", pkg.Name, err)
	}
	if diff == "" {
		return nil
	}
	b.outMu.Lock()
	defer b.outMu.Unlock()
	if _, err := io.WriteString(b.Out, diff); err != nil {
		return fmt.Errorf("package %q: writing dry-run diff: %w", pkg.Name, err)
	}
	return nil
}
