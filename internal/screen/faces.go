package screen

import (
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Faces caches one font face per pixel size.
type Faces struct {
	font  *opentype.Font
	faces map[float64]font.Face
}

// NewFaces parses the embedded Go Regular font. If parsing fails every size
// falls back to basicfont.Face7x13.
func NewFaces() *Faces {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("screen: font parse failed, using basicfont: %v", err)
	}
	return &Faces{font: f, faces: make(map[float64]font.Face)}
}

// Face returns the face for size pixels.
func (f *Faces) Face(size float64) font.Face {
	if face, ok := f.faces[size]; ok {
		return face
	}

	var face font.Face = basicfont.Face7x13
	if f.font != nil {
		// At 72 DPI one point is one pixel.
		ff, err := opentype.NewFace(f.font, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			log.Printf("screen: font face %.0fpx failed, using basicfont: %v", size, err)
		} else {
			face = ff
		}
	}
	f.faces[size] = face
	return face
}

// Ascent returns the distance from the top of a text line to its baseline.
func (f *Faces) Ascent(size float64) float64 {
	return float64(f.Face(size).Metrics().Ascent.Ceil())
}
