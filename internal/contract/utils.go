package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/scholar/schema"
)

// Color variables for console output.
var (
	FullColor        = color.New(color.FgGreen, color.Bold) // FullColor marks the top award tier.
	PartialColor     = color.New(color.FgYellow)            // PartialColor marks the middle tier, not bold.
	NotEligibleColor = color.New(color.FgRed)               // NotEligibleColor marks applicants without an award.
	SynthesizedColor = color.New(color.FgCyan)              // SynthesizedColor marks values drawn by the enhancer.
)

// GetColorTier returns a colored tier label for console output (table).
func GetColorTier(tier schema.Tier) string {
	text := string(tier)
	switch tier {
	case schema.FullTier:
		return FullColor.Sprint(text)
	case schema.PartialTier:
		return PartialColor.Sprint(text)
	default:
		return NotEligibleColor.Sprint(text)
	}
}

// FormatScore renders a score with the given number of decimals.
func FormatScore(score float64, precision int) string {
	return strconv.FormatFloat(score, 'f', precision, 64)
}

// FormatAward renders an award amount as whole currency units with thousands separators.
func FormatAward(amount float64) string {
	n := int64(amount + 0.5)
	neg := n < 0
	if neg {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the dataset cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scholar_cache.db"
	}
	return filepath.Join(homeDir, ".scholar_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".scholar_history.db"
	}
	return filepath.Join(homeDir, ".scholar_history.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
