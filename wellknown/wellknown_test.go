package wellknown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protogenhq/protogen/spec"
)

func TestPathsCoverStandardTypes(t *testing.T) {
	paths := Paths()
	require.NotEmpty(t, paths)

	byProto := make(map[string]string, len(paths))
	for _, p := range paths {
		byProto[p.ProtoPath] = p.TargetPath
	}
	assert.Equal(t, "wkt::Timestamp", byProto[".google.protobuf.Timestamp"])
	assert.Equal(t, "wkt::Duration", byProto[".google.protobuf.Duration"])
	assert.Equal(t, "wkt::Any", byProto[".google.protobuf.Any"])
	assert.Equal(t, "wkt::StringValue", byProto[".google.protobuf.StringValue"])
}

func TestPathsAllUnderGoogleProtobuf(t *testing.T) {
	for _, p := range Paths() {
		assert.True(t, strings.HasPrefix(p.ProtoPath, ".google.protobuf."), p.ProtoPath)
	}
}

func TestPathsCachedAndIsolated(t *testing.T) {
	first := Paths()
	first[0] = spec.ExternPath{ProtoPath: ".mutated", TargetPath: "mutated"}

	second := Paths()
	assert.NotEqual(t, ".mutated", second[0].ProtoPath)
	assert.Equal(t, Paths(), second)
}

func TestPathsDisjointFromUserNamespaces(t *testing.T) {
	set := spec.NewPathSet()
	require.NoError(t, set.AddAll(Paths()...))

	// A walker binding for a user package can never collide with the table.
	require.NoError(t, set.Add(spec.ExternPath{
		ProtoPath:  ".geo.v1.Circle",
		TargetPath: "geo::Circle",
	}))
	assert.Equal(t, len(Paths())+1, set.Len())
}
