package footer

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Footer puts build info on the left and arbitrary content, usually the icon
// list, on the right.
type Footer struct {
	right   string
	width   int
	padding int
}

func New(right string, width int) Footer {
	return Footer{
		right:   right,
		width:   width,
		padding: 2,
	}
}

func (f Footer) Render() string {
	left := f.leftContent()
	gap := max(f.width-lipgloss.Width(left)-lipgloss.Width(f.right)-f.padding*2, 1)

	return lipgloss.NewStyle().
		PaddingLeft(f.padding).
		PaddingRight(f.padding).
		PaddingBottom(1).
		Render(left + strings.Repeat(" ", gap) + f.right)
}
