package output

import (
	"fmt"
	"image/color"

	"github.com/forest-guardian/burn-recovery-cli/internal/recovery"
)

type classStyle struct {
	label string
	color color.NRGBA
}

var classStyles = map[uint8]classStyle{
	recovery.ClassLow:      {label: "No recovery", color: color.NRGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xCC}},
	recovery.ClassModerate: {label: "Moderate recovery", color: color.NRGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xCC}},
	recovery.ClassHigh:     {label: "High recovery", color: color.NRGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xCC}},
}

var burnColor = color.NRGBA{R: 0x8B, G: 0x1A, B: 0x00, A: 0xFF}

// ClassLabel is the human readable name of a recovery class.
func ClassLabel(class uint8) string {
	if style, ok := classStyles[class]; ok {
		return style.label
	}
	return fmt.Sprintf("Class %d", class)
}

// ClassColor is the map color of a recovery class; unknown classes are transparent.
func ClassColor(class uint8) color.NRGBA {
	return classStyles[class].color
}
