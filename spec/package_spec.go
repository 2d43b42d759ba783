package spec

import "encoding/json"

// ProtoPackageSpec is the artifact one package build publishes for its
// dependents: the closed set of extern-path bindings covering every type
// the package declares. It is written once per build and read-only
// afterward.
type ProtoPackageSpec struct {
	Name        string       `json:"name"`
	ExternPaths []ExternPath `json:"extern_paths,omitempty"`
}

// Encode serializes the spec as indented JSON with a trailing newline.
// ExternPaths must already be in (proto_path, target_path) order; Encode
// does not sort, so equal specs always encode to identical bytes.
func (p *ProtoPackageSpec) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
