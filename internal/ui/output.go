// Package ui provides colored console output for startup and
// operational messages.
package ui

import (
	"strings"

	"github.com/fatih/color"
)

const headerWidth = 60

// Header prints a boxed section title.
func Header(title string) {
	banner := color.New(color.FgCyan, color.Bold)
	line := strings.Repeat("=", headerWidth)
	banner.Println(line)
	banner.Println(center(title, headerWidth))
	banner.Println(line)
}

// Step prints a numbered progress line.
func Step(current, total int, message string) {
	color.New(color.FgBlue).Printf("[%d/%d] %s\n", current, total, message)
}

// Success prints a green confirmation line.
func Success(message string) {
	color.New(color.FgGreen).Printf("✓ %s\n", message)
}

// Info prints a neutral informational line.
func Info(message string) {
	color.New(color.FgCyan).Println(message)
}

// Warning prints a yellow warning line.
func Warning(message string) {
	color.New(color.FgYellow).Printf("⚠ %s\n", message)
}

// Error prints a red error line.
func Error(message string) {
	color.New(color.FgRed).Printf("✗ %s\n", message)
}

// BlueText returns the text colored blue for inline use.
func BlueText(text string) string {
	return color.New(color.FgBlue).Sprint(text)
}

// YellowText returns the text colored yellow for inline use.
func YellowText(text string) string {
	return color.New(color.FgYellow).Sprint(text)
}

// center left-pads the text toward the middle of the width. Text wider
// than the target is returned unchanged.
func center(text string, width int) string {
	padding := (width - len(text)) / 2
	if padding <= 0 {
		return text
	}
	return strings.Repeat(" ", padding) + text
}
