package protogen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/protogenhq/protogen/spec"
)

func TestErrorMessagesCarryContext(t *testing.T) {
	missing := &MissingDependencySpecError{
		Package:    "routes",
		Dependency: "geo",
		Path:       "gen/geo/protogen/package_spec.json",
		Err:        spec.ErrNotExist,
	}
	assert.Contains(t, missing.Error(), "routes")
	assert.Contains(t, missing.Error(), "geo")
	assert.Contains(t, missing.Error(), "gen/geo/protogen/package_spec.json")
	assert.True(t, errors.Is(missing, spec.ErrNotExist))

	empty := &EmptyPackageOutputError{
		Package:      "geo",
		ProtoPackage: "geo.v1",
		Declared:     []string{"shapes.proto", "more.proto"},
	}
	assert.Contains(t, empty.Error(), "geo.v1")
	assert.Contains(t, empty.Error(), "shapes.proto, more.proto")

	cause := errors.New("disk full")
	write := &SpecWriteError{Package: "geo", Path: "gen/geo/protogen/package_spec.json", Err: cause}
	assert.True(t, errors.Is(write, cause))
	assert.Contains(t, write.Error(), "disk full")

	ioErr := &IOError{Op: "glob", Path: "proto/geo/**", Err: cause}
	assert.True(t, errors.Is(ioErr, cause))
	assert.Contains(t, ioErr.Error(), "glob proto/geo/**")
}
