package protogen

import (
	"errors"
	"fmt"

	"github.com/protogenhq/protogen/spec"
	"github.com/protogenhq/protogen/wellknown"
)

// aggregate computes the rewrite set bound into the compiler frontend for
// one package: the full well-known type table, every declared dependency's
// published extern paths, and the package's own configured overrides. The
// three sources are disjoint by construction; a collision means two
// packages claim the same proto path and fails the build.
func (b *Builder) aggregate(pkg *spec.Package) (*spec.PathSet, error) {
	set := spec.NewPathSet()
	if err := set.AddAll(wellknown.Paths()...); err != nil {
		return nil, err
	}

	for _, dep := range pkg.Dependencies {
		depPkg, ok := b.Spec.Find(dep)
		if !ok {
			return nil, &ConfigError{
				Package: pkg.Name,
				Reason:  fmt.Sprintf("unknown dependency %q", dep),
			}
		}
		depSpec, err := b.store.LoadPackageSpec(depPkg.Path)
		if err != nil {
			if errors.Is(err, spec.ErrNotExist) {
				return nil, &MissingDependencySpecError{
					Package:    pkg.Name,
					Dependency: dep,
					Path:       b.store.SpecPath(depPkg.Path),
					Err:        err,
				}
			}
			return nil, fmt.Errorf("package %q: loading dependency %q: %w", pkg.Name, dep, err)
		}
		if err := set.AddAll(depSpec.ExternPaths...); err != nil {
			return nil, fmt.Errorf("package %q: merging dependency %q: %w", pkg.Name, dep, err)
		}
	}

	if err := set.AddAll(pkg.ExternPaths...); err != nil {
		return nil, fmt.Errorf("package %q: applying extern path overrides: %w", pkg.Name, err)
	}
	return set, nil
}
