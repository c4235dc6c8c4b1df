package board

import (
	"image/color"
)

type nullDisplay struct{}

func (nullDisplay) Size() (int16, int16) { return 96, 64 }

func (nullDisplay) SetPixel(int16, int16, color.RGBA) {}

func (nullDisplay) Display() error { return nil }
