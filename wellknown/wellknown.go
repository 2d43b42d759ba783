// Package wellknown carries the fixed extern-path bindings for protobuf's
// standard library types. Every build folds these into its rewrite set so
// the compiler frontend is never asked to regenerate a well-known type
// locally.
package wellknown

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/protogenhq/protogen/spec"
)

//go:embed extern_paths.json
var rawPaths []byte

var load = sync.OnceValue(func() []spec.ExternPath {
	var entries []spec.ExternPath
	if err := json.Unmarshal(rawPaths, &entries); err != nil {
		panic(fmt.Sprintf("wellknown: malformed embedded extern path table: %v", err))
	}
	return entries
})

// Paths returns the full well-known binding table. The table is parsed
// from its embedded definition on first use and cached for the life of the
// process; first use is safe under concurrent builds. A malformed embedded
// definition panics, since no package build can proceed without the table.
func Paths() []spec.ExternPath {
	entries := load()
	out := make([]spec.ExternPath, len(entries))
	copy(out, entries)
	return out
}
