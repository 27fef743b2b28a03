package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/sophialilleengen/mwlmc/internal/viz"
)

var ErrNoFrames = errors.New("export: no frames to encode")

// RasterizeCanvas expands a braille canvas into a two-colour image,
// one raster block per subpixel dot.
func RasterizeCanvas(c *viz.Canvas) *image.Paletted {
	const charW, charH = 8, 16
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH),
		color.Palette{color.Black, color.White})

	pixelMap := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotW, dotH := charW/2, charH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Grid[row][col] - 0x2800
			if pattern == 0 {
				continue
			}
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	return img
}

// WriteGIF encodes recorded frames into a looping animation.
// delay is per frame in hundredths of a second.
func WriteGIF(path string, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}
