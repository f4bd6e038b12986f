package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

// Color variables for console output.
var (
	ShortColor   = color.New(color.FgRed, color.Bold) // ShortColor marks a requirement that is not met.
	BindingColor = color.New(color.FgYellow)          // BindingColor marks a requirement met exactly.
	SurplusColor = color.New(color.FgCyan)            // SurplusColor marks a requirement exceeded.
	ErrorColor   = color.New(color.FgRed)             // ErrorColor marks a failed batch entry.
)

// GetColorLabel returns a colored nutrient status label for console output (table).
// It uses schema.GetNutrientLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(level schema.NutrientLevel) string {
	text := schema.GetNutrientLabel(level)

	switch text {
	case schema.ShortLabel:
		return ShortColor.Sprint(text)
	case schema.BindingLabel:
		return BindingColor.Sprint(text)
	default:
		return SurplusColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path means os.Stdout.
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

// GetHistoryDBFilePath returns the path to the SQLite DB file for formulation history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ration_history.db"
	}
	return filepath.Join(homeDir, ".ration_history.db")
}

// TruncateName truncates an ingredient name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so at least one character of the name remains.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
