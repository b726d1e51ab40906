package app

import (
	"fmt"
	"image/color"

	"ember/app/tetris"
	"ember/hal"

	"tinygo.org/x/tinyfont"
)

// The board is drawn rotated: board rows run along the display's x axis,
// so the 16x8 board fills the 84x48 LCD sideways.
const (
	displayOffsetX = 2
	displayOffsetY = 2

	// Side length of one square in pixels.
	squareSide = 84 / tetris.BoardRows
)

var pixelOn = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// drawPlayfieldFrame draws the border around the playing area, leaving a
// strip at the bottom for the score line.
func drawPlayfieldFrame(fb hal.Framebuffer) {
	w, h := fb.Size()
	drawRect(fb, displayOffsetX, displayOffsetY, w-4, h-7)
}

func drawRect(fb hal.Framebuffer, x, y, w, h int16) {
	for i := x; i < x+w; i++ {
		fb.SetPixel(i, y, pixelOn)
		fb.SetPixel(i, y+h-1, pixelOn)
	}
	for i := y; i < y+h; i++ {
		fb.SetPixel(x, i, pixelOn)
		fb.SetPixel(x+w-1, i, pixelOn)
	}
}

// drawBoard renders every settled and falling square as a filled block.
func drawBoard(fb hal.Framebuffer, board *[tetris.BoardRows]uint8) {
	for row := 0; row < tetris.BoardRows; row++ {
		for col := 0; col < tetris.BoardColumns; col++ {
			if board[row]&(1<<uint(col)) == 0 {
				continue
			}
			for dx := int16(0); dx < squareSide; dx++ {
				for dy := int16(0); dy < squareSide; dy++ {
					fb.SetPixel(displayOffsetX+int16(row)*squareSide+dx,
						displayOffsetY+int16(col)*squareSide+dy,
						pixelOn)
				}
			}
		}
	}
}

// drawScore writes the score into the strip below the playing area.
func drawScore(fb hal.Framebuffer, score uint8) {
	_, h := fb.Size()
	tinyfont.WriteLine(fb, &tinyfont.TomThumb, displayOffsetX+1, h-1,
		fmt.Sprintf("SCORE %d", score), pixelOn)
}
