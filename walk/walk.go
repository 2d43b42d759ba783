// Package walk traverses compiled descriptor sets and produces the
// extern-path binding for every message and enum a package declares,
// including nested ones at arbitrary depth.
package walk

import (
	"github.com/serenize/snaker"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protogenhq/protogen/spec"
)

// Caser rewrites a parent type name when it becomes a module segment of a
// nested type's target path. The emitted type's own final segment is never
// cased; only the ancestry is. Which casing is idiomatic depends on the
// target language, so it is configurable.
type Caser func(string) string

// Identity leaves segments unchanged.
func Identity(s string) string { return s }

// Snake converts segments to snake_case.
func Snake(s string) string { return snaker.CamelToSnake(s) }

// Filter returns the files of set whose name is among the declared file
// names and whose protobuf package matches protoPackage exactly. Files the
// compiler pulled in transitively fail one of the two checks and are
// dropped; their types already have bindings from the aggregated rewrite
// set.
func Filter(set *descriptorpb.FileDescriptorSet, files []string, protoPackage string) []*descriptorpb.FileDescriptorProto {
	declared := make(map[string]bool, len(files))
	for _, f := range files {
		declared[f] = true
	}
	var out []*descriptorpb.FileDescriptorProto
	for _, fd := range set.GetFile() {
		if declared[fd.GetName()] && fd.GetPackage() == protoPackage {
			out = append(out, fd)
		}
	}
	return out
}

// Options configures a traversal.
type Options struct {
	// Module is the root segment of every emitted target path.
	Module string
	// Caser rewrites ancestor segments of nested target paths. Nil means
	// Identity.
	Caser Caser
}

// entry is one pending descriptor on the worklist, tagged with the
// accumulated ancestry of both path forms. Exactly one of msg and enum is
// set.
type entry struct {
	protoPrefix  string
	targetPrefix string
	msg          *descriptorpb.DescriptorProto
	enum         *descriptorpb.EnumDescriptorProto
}

// ExternPaths walks the given files and returns one binding per declared
// message and enum. The traversal is an explicit breadth-first worklist,
// so nesting depth is bounded only by memory, and every binding is keyed
// by its full ancestry, making the result independent of traversal order.
// Two declarations resolving to the same proto path is a
// *spec.ConflictError.
func ExternPaths(files []*descriptorpb.FileDescriptorProto, opts Options) (*spec.PathSet, error) {
	caser := opts.Caser
	if caser == nil {
		caser = Identity
	}

	var queue []entry
	for _, fd := range files {
		protoPrefix := ""
		if pkg := fd.GetPackage(); pkg != "" {
			protoPrefix = "." + pkg
		}
		for _, msg := range fd.GetMessageType() {
			queue = append(queue, entry{protoPrefix, opts.Module, msg, nil})
		}
		for _, en := range fd.GetEnumType() {
			queue = append(queue, entry{protoPrefix, opts.Module, nil, en})
		}
	}

	set := spec.NewPathSet()
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		var name string
		switch {
		case e.msg != nil:
			name = e.msg.GetName()
			childProto := e.protoPrefix + "." + name
			childTarget := e.targetPrefix + "::" + caser(name)
			for _, nested := range e.msg.GetNestedType() {
				queue = append(queue, entry{childProto, childTarget, nested, nil})
			}
			for _, en := range e.msg.GetEnumType() {
				queue = append(queue, entry{childProto, childTarget, nil, en})
			}
		default:
			// Enums carry no nested declarations, so they emit without
			// extending the worklist.
			name = e.enum.GetName()
		}

		err := set.Add(spec.ExternPath{
			ProtoPath:  e.protoPrefix + "." + name,
			TargetPath: e.targetPrefix + "::" + name,
		})
		if err != nil {
			return nil, err
		}
	}
	return set, nil
}
