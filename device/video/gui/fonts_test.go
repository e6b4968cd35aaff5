package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByName(t *testing.T) {
	for _, f := range availableFonts {
		if got := FindByName(f.Name); got != f {
			t.Errorf("expected FindByName(%q) to return %v; got %v", f.Name, f, got)
		}
	}

	if f := FindByName("totally-unknown"); f != nil {
		t.Errorf("expected FindByName to return nil; got %v", f)
	}
}

func TestBestFit(t *testing.T) {
	specs := []struct {
		w, h int
		exp  string
	}{
		{480, 320, "mono16"},
		{320, 240, "7x13"},
		{128, 64, "7x13"},
		{1024, 768, "mono16"},
		// equal distance: priority wins
		{400, 280, "mono16"},
	}

	for specIndex, spec := range specs {
		if got := BestFit(spec.w, spec.h); got.Name != spec.exp {
			t.Errorf("[spec %d] expected to get font %q; got %q", specIndex, spec.exp, got.Name)
		}
	}
}

func TestFaceIsCached(t *testing.T) {
	f := FindByName("mono16")
	require.NotNil(t, f)

	face1, err := f.Face()
	require.NoError(t, err)
	face2, err := f.Face()
	require.NoError(t, err)
	assert.True(t, face1 == face2)

	adv, ok := face1.GlyphAdvance('0')
	assert.True(t, ok)
	assert.True(t, adv.Ceil() > 0)
}
