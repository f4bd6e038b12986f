package outwriter

import (
	"os"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"golang.org/x/term"
)

// Bounds for the ingredient name column.
const (
	minNameWidth = 12
	maxNameWidth = 48
)

// getMaxTableNameWidth calculates the maximum width for ingredient names in table output
// based on terminal width and the fixed columns of the widest table.
func getMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Position + Quantity + Share + Cost columns, plus borders and padding
	baseWidth := 50

	available := termWidth - baseWidth
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
