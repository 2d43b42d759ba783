package spec

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonConfig = `{
  "packages": [
    {
      "name": "geo",
      "version": "0.1.0",
      "path": "gen/geo",
      "proto_package": "geo.v1",
      "protos": [{"dir": "proto/geo", "files": ["shapes.proto"]}]
    },
    {
      "name": "routes",
      "version": "0.1.0",
      "path": "gen/routes",
      "proto_package": "routes.v1",
      "protos": [{"dir": "proto/routes", "files": ["routes.proto"]}],
      "dependencies": ["geo"]
    }
  ]
}`

const yamlConfig = `packages:
  - name: geo
    version: 0.1.0
    path: gen/geo
    proto_package: geo.v1
    protos:
      - dir: proto/geo
        files: [shapes.proto]
`

func TestLoadJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "protogen.json", []byte(jsonConfig), 0o644))

	s, err := Load(fsys, "protogen.json")
	require.NoError(t, err)
	require.Len(t, s.Packages, 2)

	geo, ok := s.Find("geo")
	require.True(t, ok)
	assert.Equal(t, "0.1.0", geo.Version)
	assert.Equal(t, "gen/geo", geo.Path)
	assert.Equal(t, "geo.v1", geo.ProtoPackage)
	require.Len(t, geo.Protos, 1)
	assert.Equal(t, "proto/geo", geo.Protos[0].Dir)
	assert.Equal(t, []string{"shapes.proto"}, geo.Protos[0].Files)

	routes, ok := s.Find("routes")
	require.True(t, ok)
	assert.Equal(t, []string{"geo"}, routes.Dependencies)
}

func TestLoadYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "protogen.yaml", []byte(yamlConfig), 0o644))

	s, err := Load(fsys, "protogen.yaml")
	require.NoError(t, err)
	require.Len(t, s.Packages, 1)
	assert.Equal(t, "geo.v1", s.Packages[0].ProtoPackage)
}

func TestLoadMissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, err := Load(fsys, "protogen.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "protogen.json")
}

func TestLoadMalformed(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "protogen.json", []byte("{"), 0o644))
	_, err := Load(fsys, "protogen.json")
	require.Error(t, err)
}

func TestFindUnknown(t *testing.T) {
	s := &ProtogenSpec{Packages: []Package{{Name: "geo"}}}
	_, ok := s.Find("routes")
	assert.False(t, ok)
}

func TestBuildLevelsChain(t *testing.T) {
	s := &ProtogenSpec{Packages: []Package{
		{Name: "a"},
		{Name: "b", Dependencies: []string{"a"}},
		{Name: "c", Dependencies: []string{"b"}},
	}}
	levels, err := s.BuildLevels()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, levels)
}

func TestBuildLevelsDiamond(t *testing.T) {
	s := &ProtogenSpec{Packages: []Package{
		{Name: "base"},
		{Name: "left", Dependencies: []string{"base"}},
		{Name: "right", Dependencies: []string{"base"}},
		{Name: "top", Dependencies: []string{"left", "right"}},
	}}
	levels, err := s.BuildLevels()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"base"}, {"left", "right"}, {"top"}}, levels)
}

func TestBuildLevelsCycle(t *testing.T) {
	s := &ProtogenSpec{Packages: []Package{
		{Name: "a", Dependencies: []string{"b"}},
		{Name: "b", Dependencies: []string{"a"}},
	}}
	_, err := s.BuildLevels()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuildLevelsUnknownDependency(t *testing.T) {
	s := &ProtogenSpec{Packages: []Package{
		{Name: "a", Dependencies: []string{"ghost"}},
	}}
	_, err := s.BuildLevels()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
