//go:build !tinygo

package cpu

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	gotArgc  int32
	gotArgv  uintptr
	gotCalls int
)

func fakeEntry(argc int32, argv uintptr) {
	gotArgc, gotArgv = argc, argv
	gotCalls++
}

func TestJump(t *testing.T) {
	defer func() { gotArgc, gotArgv, gotCalls = 0, 0, 0 }()

	specs := []struct {
		argc int32
		argv uintptr
	}{
		{0, 0},
		{7, 0x1234},
		{-1, 0x40700000},
	}

	entry := reflect.ValueOf(fakeEntry).Pointer()
	for specIndex, spec := range specs {
		Jump(entry, spec.argc, spec.argv)

		assert.Equal(t, specIndex+1, gotCalls, "[spec %d] expected entry to be called once", specIndex)
		assert.Equal(t, spec.argc, gotArgc, "[spec %d] argc mismatch", specIndex)
		assert.Equal(t, spec.argv, gotArgv, "[spec %d] argv mismatch", specIndex)
	}
}
