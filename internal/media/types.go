package media

type Type string

const (
	// TypeSplash is a full-screen image for the 96x64 menu panel.
	TypeSplash Type = "splash"
)

func (t Type) Size() (w int16, h int16) {
	switch t {
	case TypeSplash:
		return 96, 64
	default:
		return 0, 0
	}
}
