// Package palette holds the color collaborators behind the dye commands:
// hex parsing, swatch rendering, and nearest-dye matching. The math here is
// deliberately simple; the commands consume it through narrow interfaces.
package palette

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/db"
)

// swatch dimensions in pixels.
const (
	swatchWidth  = 256
	swatchHeight = 64
)

// ParseHex parses "#rrggbb" or "rrggbb" into an RGBA color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color must be 6 hex digits, got %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Service implements the renderer and matcher collaborators over the dye
// catalog.
type Service struct {
	catalog DyeLister
}

// DyeLister is the catalog slice the service needs.
type DyeLister interface {
	ListDyes(ctx context.Context) ([]*db.DyeItem, error)
}

// NewService creates a palette service over the given catalog.
func NewService(catalog DyeLister) *Service {
	return &Service{catalog: catalog}
}

// Swatch renders a flat color block as a PNG.
func (s *Service) Swatch(hex string) ([]byte, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, swatchWidth, swatchHeight))
	for y := 0; y < swatchHeight; y++ {
		for x := 0; x < swatchWidth; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding swatch: %w", err)
	}
	return buf.Bytes(), nil
}

// Match is a dye ranked by distance from a target color.
type Match struct {
	Item     *db.DyeItem
	Distance float64
}

// Nearest returns the n dyes closest to the given hex color, by squared
// RGB distance. Good enough for suggestions; perceptual color spaces are a
// different project.
func (s *Service) Nearest(ctx context.Context, hex string, n int) ([]Match, error) {
	target, err := ParseHex(hex)
	if err != nil {
		return nil, err
	}

	items, err := s.catalog.ListDyes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing dyes: %w", err)
	}

	matches := make([]Match, 0, len(items))
	for _, item := range items {
		c, err := ParseHex(item.Hex)
		if err != nil {
			continue
		}
		matches = append(matches, Match{Item: item, Distance: distance(target, c)})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

func distance(a, b color.RGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return dr*dr + dg*dg + db*db
}
