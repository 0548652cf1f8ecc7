package outwriter

import (
	"os"

	"github.com/huangsam/scholar/internal/contract"
	"golang.org/x/term"
)

// getMaxTableIDWidth calculates the maximum width for applicant IDs in table output
// based on terminal width and table configuration.
func getMaxTableIDWidth(cfg *contract.Config) int {
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

	// Rank + Score + Tier + Award with borders/padding
	baseWidth := 50

	if cfg.Detail {
		baseWidth += 36 // Academic + Financial + Engagement
	}
	if cfg.Explain {
		baseWidth += 40 // Top factors
	}

	// Table borders, separators and padding
	baseWidth += 12

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}
