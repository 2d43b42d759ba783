// Package spec holds the data model for protogen builds: the top-level
// generation config (ProtogenSpec), the per-package artifact a build
// publishes for its dependents (ProtoPackageSpec), and the extern-path
// bindings both are made of.
package spec

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// ProtogenSpec is the top-level generation config: an ordered list of
// package declarations. It is loaded once and treated as read-only for the
// rest of the build.
type ProtogenSpec struct {
	Packages []Package `json:"packages" yaml:"packages"`
}

// Package declares one generated package: where its proto sources live,
// where generated output goes, and which other declared packages it
// depends on.
type Package struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	// Path is the package's output directory, relative to the directory
	// the build runs in.
	Path string `json:"path" yaml:"path"`
	// ProtoPackage is the protobuf package name the package's own files
	// must declare. Files the compiler pulls in with any other package
	// name are treated as dependencies, not as this package's output.
	ProtoPackage string `json:"proto_package" yaml:"proto_package"`
	// Module is the root segment of every generated target path. Defaults
	// to Name.
	Module                string     `json:"module,omitempty" yaml:"module,omitempty"`
	CompileWellKnownTypes bool       `json:"compile_well_known_types,omitempty" yaml:"compile_well_known_types,omitempty"`
	Protos                []ProtoSrc `json:"protos,omitempty" yaml:"protos,omitempty"`
	// Dependencies names other packages in the same config whose published
	// specs must be folded into this package's rewrite set.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	// ExternPaths are extra bindings applied on top of the dependency and
	// well-known sets, for types generated outside protogen's control.
	ExternPaths []ExternPath `json:"extern_paths,omitempty" yaml:"extern_paths,omitempty"`
}

// ProtoSrc is one group of proto sources: an include directory and file
// names relative to it. File entries may be doublestar glob patterns.
type ProtoSrc struct {
	Dir   string   `json:"dir" yaml:"dir"`
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`
}

// Find returns the declared package with the given name.
func (s *ProtogenSpec) Find(name string) (*Package, bool) {
	for i := range s.Packages {
		if s.Packages[i].Name == name {
			return &s.Packages[i], true
		}
	}
	return nil, false
}

// Load reads and decodes a protogen config file. Files with a .yaml or
// .yml extension are decoded as YAML, everything else as JSON.
func Load(fsys afero.Fs, path string) (*ProtogenSpec, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading protogen config %s: %w", path, err)
	}
	var s ProtogenSpec
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding protogen config %s: %w", path, err)
	}
	return &s, nil
}
