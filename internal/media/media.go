package media

import (
	"embed"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"tinygo.org/x/drivers"
)

//go:embed media/*/*.bmp
var imgs embed.FS

// LoadImage loads the specified image of the specified type.
func LoadImage(typ Type, name string) (image.Image, error) {
	w, h := typ.Size()
	if w == 0 || h == 0 {
		return nil, errors.Errorf("invalid media type %q", typ)
	}

	r, err := imgs.Open("media/" + string(typ) + "/" + name + ".bmp")
	if err != nil {
		return nil, errors.Wrapf(err, "open %s/%s", typ, name)
	}
	defer r.Close()

	fi, err := r.Stat()
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, errors.New("cannot open directory")
	}

	img, err := bmp.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s/%s", typ, name)
	}

	b := img.Bounds()
	if int(w) != b.Dx() || int(h) != b.Dy() {
		return nil, errors.Errorf("invalid image size %dx%d for type %s", b.Dx(), b.Dy(), typ)
	}

	return img, nil
}

// DrawImage draws img on disp with its top left corner at offX, offY. Pixels that fall off the display are clipped.
// Colours are reduced to RGB565, which is what the panel can show.
func DrawImage(disp drivers.Displayer, offX, offY int16, img image.Image) {
	w, h := disp.Size()
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		xx := int16(x-b.Min.X) + offX
		if xx < 0 || xx >= w {
			continue
		}
		for y := b.Min.Y; y < b.Max.Y; y++ {
			yy := int16(y-b.Min.Y) + offY
			if yy < 0 || yy >= h {
				continue
			}
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			disp.SetPixel(xx, yy, FromRGBA(c).RGBA())
		}
	}
}
