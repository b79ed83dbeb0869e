package game

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/Garsondee/Board-Sense/internal/board"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
)

// ErrMissingAsset is returned when an occupant's image cannot be read.
var ErrMissingAsset = errors.New("missing asset")

// assetPath is where the image for an occupant id lives under dir.
func assetPath(dir, id string) string {
	return filepath.Join(dir, id+".png")
}

// loadScaled decodes the PNG at path and resamples it to size x size.
func loadScaled(path string, size int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingAsset, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMissingAsset, path, err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst, nil
}

// Sprites holds one scaled image per occupant id. Missing entries draw nothing.
type Sprites map[string]*ebiten.Image

// LoadSprites loads every catalog occupant from dir. Failures are logged and
// skipped so a partial asset set still gives a playable board.
func LoadSprites(dir string, size int, log zerolog.Logger) Sprites {
	out := make(Sprites, 12)
	for _, o := range board.Catalog() {
		img, err := loadScaled(assetPath(dir, o.ID()), size)
		if err != nil {
			log.Warn().Err(err).Str("occupant", o.ID()).Msg("sprite not loaded")
			continue
		}
		out[o.ID()] = ebiten.NewImageFromImage(img)
	}
	return out
}

// For returns the sprite for o, or nil.
func (s Sprites) For(o board.Occupant) *ebiten.Image {
	if !o.Present() {
		return nil
	}
	return s[o.ID()]
}
