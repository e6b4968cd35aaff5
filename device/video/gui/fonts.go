package gui

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
)

// Font describes a fixed-width font that can be selected for text output.
type Font struct {
	// The name of the font
	Name string

	// The recommended screen resolution for this font.
	RecommendedWidth  int
	RecommendedHeight int

	// Font priority (lower is better). When auto-detecting a font to use,
	// the font with the lowest priority will be preferred
	Priority int

	load func() (font.Face, error)
	face font.Face
}

// Face returns the font face, loading it on first use.
func (f *Font) Face() (font.Face, error) {
	if f.face != nil {
		return f.face, nil
	}

	face, err := f.load()
	if err != nil {
		return nil, err
	}

	f.face = face
	return face, nil
}

var availableFonts = []*Font{
	{
		Name:              "7x13",
		RecommendedWidth:  320,
		RecommendedHeight: 240,
		Priority:          1,
		load: func() (font.Face, error) {
			return basicfont.Face7x13, nil
		},
	},
	{
		Name:              "mono16",
		RecommendedWidth:  480,
		RecommendedHeight: 320,
		Priority:          0,
		load: func() (font.Face, error) {
			f, err := opentype.Parse(gomono.TTF)
			if err != nil {
				return nil, err
			}

			return opentype.NewFace(f, &opentype.FaceOptions{
				Size:    16,
				DPI:     72,
				Hinting: font.HintingFull,
			})
		},
	},
}

// FindByName looks up a font instance by name. If the font is not found then
// the function returns nil.
func FindByName(name string) *Font {
	for _, f := range availableFonts {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// BestFit returns the font whose recommended resolution is closest to the
// specified screen dimensions. Ties are broken by font priority.
func BestFit(screenWidth, screenHeight int) *Font {
	var (
		best      *Font
		bestDelta int
	)

	for _, f := range availableFonts {
		delta := abs(f.RecommendedWidth-screenWidth) + abs(f.RecommendedHeight-screenHeight)

		if best == nil || delta < bestDelta || (delta == bestDelta && f.Priority < best.Priority) {
			best, bestDelta = f, delta
		}
	}

	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
