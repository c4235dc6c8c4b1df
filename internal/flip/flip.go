// Package flip turns a display upside down, for panels mounted with the ribbon cable at the top.
package flip

import (
	"image/color"

	"tinygo.org/x/drivers"
)

type Flip struct {
	d    drivers.Displayer
	w, h int16
}

func New(d drivers.Displayer) *Flip {
	w, h := d.Size()
	return &Flip{
		d: d,
		w: w,
		h: h,
	}
}

func (f *Flip) Size() (x, y int16) {
	return f.w, f.h
}

func (f *Flip) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.d.SetPixel(f.w-x-1, f.h-y-1, c)
}

func (f *Flip) Display() error {
	return f.d.Display()
}
