package spec

import (
	"fmt"

	"github.com/tidwall/btree"
)

// ExternPath binds one fully-qualified protobuf type name to its location
// in generated code, instructing the compiler frontend to treat the type as
// already compiled rather than regenerating it.
type ExternPath struct {
	// ProtoPath is the dot-separated, leading-dot-prefixed protobuf type
	// name, e.g. ".geo.v1.Circle.Point".
	ProtoPath string `json:"proto_path" yaml:"proto_path"`
	// TargetPath is the "::"-separated module path of the generated type,
	// e.g. "geo::Circle::Point".
	TargetPath string `json:"target_path" yaml:"target_path"`
}

// Compare orders extern paths by (ProtoPath, TargetPath).
func (p ExternPath) Compare(o ExternPath) int {
	if p.ProtoPath != o.ProtoPath {
		if p.ProtoPath < o.ProtoPath {
			return -1
		}
		return 1
	}
	switch {
	case p.TargetPath < o.TargetPath:
		return -1
	case p.TargetPath > o.TargetPath:
		return 1
	}
	return 0
}

// ConflictError reports an attempt to bind a proto path that is already
// bound to a different target path. Within one rewrite set a proto path
// must resolve to exactly one location.
type ConflictError struct {
	ProtoPath string
	Existing  string
	Proposed  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting extern paths for %s: %s vs %s",
		e.ProtoPath, e.Existing, e.Proposed)
}

// PathSet is a set of extern paths keyed by proto path, kept in
// serialization order. The zero value is not usable; use NewPathSet.
type PathSet struct {
	tr *btree.BTreeG[ExternPath]
}

// NewPathSet returns an empty set.
func NewPathSet() *PathSet {
	return &PathSet{
		tr: btree.NewBTreeG(func(a, b ExternPath) bool {
			return a.ProtoPath < b.ProtoPath
		}),
	}
}

// Add inserts a binding. Re-adding an identical binding is a no-op; adding
// a different target for an already-bound proto path returns a
// *ConflictError.
func (s *PathSet) Add(p ExternPath) error {
	if prev, ok := s.tr.Get(p); ok {
		if prev.TargetPath != p.TargetPath {
			return &ConflictError{
				ProtoPath: p.ProtoPath,
				Existing:  prev.TargetPath,
				Proposed:  p.TargetPath,
			}
		}
		return nil
	}
	s.tr.Set(p)
	return nil
}

// AddAll inserts every given binding, stopping at the first conflict.
func (s *PathSet) AddAll(paths ...ExternPath) error {
	for _, p := range paths {
		if err := s.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether the proto path is bound.
func (s *PathSet) Contains(protoPath string) bool {
	_, ok := s.tr.Get(ExternPath{ProtoPath: protoPath})
	return ok
}

// Get returns the binding for the proto path, if any.
func (s *PathSet) Get(protoPath string) (ExternPath, bool) {
	return s.tr.Get(ExternPath{ProtoPath: protoPath})
}

// Len returns the number of bindings.
func (s *PathSet) Len() int {
	return s.tr.Len()
}

// Paths returns the bindings in ascending order.
func (s *PathSet) Paths() []ExternPath {
	out := make([]ExternPath, 0, s.tr.Len())
	s.tr.Scan(func(p ExternPath) bool {
		out = append(out, p)
		return true
	})
	return out
}
