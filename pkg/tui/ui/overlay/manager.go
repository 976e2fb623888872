package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/neodash/pkg/tui/uiutil"
)

// Start pins an overlay to the left or top edge. A zero Position centers the
// overlay, so lipgloss.Left and lipgloss.Top behave like lipgloss.Center here.
const Start lipgloss.Position = -1

// Placement controls overlay alignment and sizing.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Width      int
	Height     int
}

// Compose overlays the foreground view atop the background while preserving
// styled background content on both sides of the overlay.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bgLines := normalizeBackground(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bgLines, "\n")
	}

	fgLines := strings.Split(foreground, "\n")
	overlayWidth := placement.Width
	if overlayWidth <= 0 {
		for _, line := range fgLines {
			if w := ansi.StringWidth(line); w > overlayWidth {
				overlayWidth = w
			}
		}
	}
	if overlayWidth <= 0 {
		return strings.Join(bgLines, "\n")
	}
	overlayWidth = min(overlayWidth, width)

	overlayHeight := placement.Height
	if overlayHeight <= 0 {
		overlayHeight = len(fgLines)
	}
	overlayHeight = min(overlayHeight, height)

	offsetX, offsetY := Offsets(width, height, overlayWidth, overlayHeight, placement)
	for row := 0; row < overlayHeight; row++ {
		destY := offsetY + row
		if destY < 0 || destY >= len(bgLines) {
			continue
		}
		fgLine := ""
		if row < len(fgLines) {
			fgLine = fgLines[row]
		}
		fgLine = uiutil.FitWidth(fgLine, overlayWidth)

		base := bgLines[destY]
		left := ansi.Truncate(base, offsetX, "")
		right := ansi.TruncateLeft(base, offsetX+overlayWidth, "")
		bgLines[destY] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

// Offsets resolves the top-left corner of an overlay of the given size.
func Offsets(width, height, overlayWidth, overlayHeight int, placement Placement) (int, int) {
	h := placement.Horizontal
	if h == 0 {
		h = lipgloss.Center
	}
	v := placement.Vertical
	if v == 0 {
		v = lipgloss.Center
	}

	offsetX := placement.MarginX
	switch h {
	case lipgloss.Right:
		offsetX = width - overlayWidth - placement.MarginX
	case lipgloss.Center:
		offsetX = (width - overlayWidth) / 2
	}
	offsetX = uiutil.Clamp(offsetX, 0, width-overlayWidth)

	offsetY := placement.MarginY
	switch v {
	case lipgloss.Bottom:
		offsetY = height - overlayHeight - placement.MarginY
	case lipgloss.Center:
		offsetY = (height - overlayHeight) / 2
	}
	offsetY = uiutil.Clamp(offsetY, 0, height-overlayHeight)

	return offsetX, offsetY
}

func normalizeBackground(view string, width, height int) []string {
	lines := strings.Split(uiutil.FitHeight(view, height), "\n")
	for i := range lines {
		lines[i] = uiutil.FitWidth(lines[i], width)
	}
	return lines
}
