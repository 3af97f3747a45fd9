// Package wordcloud renders a frequency table as a word-cloud image.
// Layout and drawing are delegated to github.com/psykhi/wordclouds.
package wordcloud

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/psykhi/wordclouds"
	"go.uber.org/zap"

	"github.com/Pabandres85/Proyecto-LLM-deepseek/pkg/logger"
)

// ErrNoTerms is returned when the frequency table is empty.
var ErrNoTerms = errors.New("no terms to render")

var defaultColors = []color.Color{
	color.RGBA{0x1f, 0x77, 0xb4, 0xff},
	color.RGBA{0xff, 0x7f, 0x0e, 0xff},
	color.RGBA{0x2c, 0xa0, 0x2c, 0xff},
	color.RGBA{0xd6, 0x27, 0x28, 0xff},
	color.RGBA{0x94, 0x67, 0xbd, 0xff},
}

type Renderer struct {
	fontPath string
	width    int
	height   int
	colors   []color.Color
}

func NewRenderer(fontPath string, width, height int) *Renderer {
	return &Renderer{
		fontPath: fontPath,
		width:    width,
		height:   height,
		colors:   defaultColors,
	}
}

// Render lays out the weighted terms and draws them. The font file is
// checked up front so a misconfigured path fails with a clear error
// instead of inside the drawing library.
func (r *Renderer) Render(frequencies map[string]int) (image.Image, error) {
	if len(frequencies) == 0 {
		return nil, ErrNoTerms
	}

	if _, err := os.Stat(r.fontPath); err != nil {
		return nil, fmt.Errorf("word-cloud font not available at %s: %w", r.fontPath, err)
	}

	cloud := wordclouds.NewWordcloud(
		frequencies,
		wordclouds.FontFile(r.fontPath),
		wordclouds.FontMaxSize(96),
		wordclouds.FontMinSize(14),
		wordclouds.Width(r.width),
		wordclouds.Height(r.height),
		wordclouds.Colors(r.colors),
		wordclouds.BackgroundColor(color.White),
	)

	img := cloud.Draw()

	logger.Debug("Word cloud rendered",
		zap.Int("terms", len(frequencies)),
		zap.Int("width", r.width),
		zap.Int("height", r.height),
	)
	return img, nil
}

// RenderPNG renders and PNG-encodes the cloud to w.
func (r *Renderer) RenderPNG(w io.Writer, frequencies map[string]int) error {
	img, err := r.Render(frequencies)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
