package blinkmenu

import (
	"github.com/ajanata/textbuf"
	"github.com/pkg/errors"
	"tinygo.org/x/drivers"
)

// Presenter puts the menu on a screen.
type Presenter interface {
	Present(m *Menu) error
}

// TextPresenter renders menus as text lines on a pixel display.
type TextPresenter struct {
	buf *textbuf.Buffer
}

func NewTextPresenter(disp drivers.Displayer) (*TextPresenter, error) {
	if disp == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "no display")
	}
	buf, err := textbuf.New(disp, textbuf.FontSize6x8)
	if err != nil {
		return nil, errors.Wrap(err, "text buffer")
	}
	w, h := buf.Size()
	if w < 10 || h < 3 {
		return nil, errors.New("unusably small menu display")
	}
	return &TextPresenter{buf: buf}, nil
}

// Buffer exposes the underlying text buffer for boot messages.
func (p *TextPresenter) Buffer() *textbuf.Buffer {
	return p.buf
}

func (p *TextPresenter) Present(m *Menu) error {
	m.Render(p.buf)
	return errors.Wrap(p.buf.Display(), "display menu")
}
