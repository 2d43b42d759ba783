// Package protogen orchestrates protobuf code generation across a
// repository of independently versioned packages. Each package's build
// compiles only that package's own proto sources; every type it references
// from another package is bound through an extern path — a mapping from
// the type's fully-qualified protobuf name to its location in already
// generated code — so dependents never regenerate or re-parse what a
// dependency has published.
//
// A build is a synchronous pipeline. The aggregator unions the published
// specs of the package's declared dependencies with the fixed well-known
// type table into one rewrite set. The compiler frontend (in-process by
// default, or an external protoc) compiles the package's sources with that
// rewrite set in force and returns a descriptor set. The walker filters
// the set down to the package's own files and emits one extern path per
// declared message and enum, nested ones included. Finally the package's
// own spec is published atomically under its output directory, where
// dependent builds will find it.
//
// The sub-packages hold the moving parts: spec (config and artifact data
// model), wellknown (the embedded standard-type binding table), walk
// (descriptor filtering and traversal), and frontend (the compiler
// boundary). cmd/protogen wraps it all in a CLI.
package protogen
