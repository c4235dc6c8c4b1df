package blinkmenu

import (
	"github.com/ajanata/textbuf"
	"github.com/pkg/errors"
)

// ActionItem is a menu line that runs an Action when selected.
type ActionItem struct {
	Name   string
	Action Action
}

// Menu is a flat list of items with one highlighted. Navigation clamps at both ends: Up on the first item and
// Down on the last item do nothing.
type Menu struct {
	Name  string
	Items []*ActionItem
	// Status is shown on the bottom line when the display has room for it.
	Status string

	selected int
	top      int
}

func NewMenu(name string, items ...*ActionItem) (*Menu, error) {
	if len(items) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "menu needs at least one item")
	}
	for i, item := range items {
		if item == nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "menu item %d is nil", i)
		}
	}
	return &Menu{
		Name:  name,
		Items: items,
	}, nil
}

func (m *Menu) Len() int { return len(m.Items) }

func (m *Menu) Selected() int { return m.selected }

func (m *Menu) Top() int { return m.top }

func (m *Menu) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

func (m *Menu) MoveDown() {
	if m.selected < len(m.Items)-1 {
		m.selected++
	}
}

// Select returns the highlighted index. It does not change the menu.
func (m *Menu) Select() int {
	return m.selected
}

// Item returns the item at index i, or nil if there is none.
func (m *Menu) Item(i int) *ActionItem {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	return m.Items[i]
}

// scroll moves the window of visible items so the highlighted one is inside it.
func (m *Menu) scroll(visible int) {
	if visible < 1 {
		visible = 1
	}
	if m.selected < m.top {
		m.top = m.selected
	}
	if m.selected > m.top+visible-1 {
		m.top = m.selected - visible + 1
	}
}

// Render draws the menu into buf: the name inverted on the first line, then as many items as fit, then the
// status line if there is one.
func (m *Menu) Render(buf *textbuf.Buffer) {
	buf.Clear()
	_, h := buf.Size()
	rows := int(h) - 1
	if m.Status != "" && rows > 1 {
		rows--
		_ = buf.SetLine(int16(rows+1), m.Status)
	}
	m.scroll(rows)

	_ = buf.SetLineInverse(0, m.Name)
	for i := 0; i+m.top < len(m.Items) && i < rows; i++ {
		item := m.Items[i+m.top]
		if i+m.top == m.selected {
			_ = buf.SetLineInverse(int16(i+1), "*"+item.Name)
		} else {
			_ = buf.SetLine(int16(i+1), " "+item.Name)
		}
	}
}
