// Package prompt provides interactive terminal input for lookup fix-ups.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
)

// ErrCancelled is returned when the operator aborts a prompt
var ErrCancelled = errors.New("cancelled by user")

// Prompter interface wraps basic prompting functionality for testability
type Prompter interface {
	Prompt(string) (string, error)
	Close() error
}

// LinerPrompter wraps liner.State to implement Prompter
type LinerPrompter struct {
	*liner.State
}

// NewLinerPrompter creates a new liner-based prompter
func NewLinerPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &LinerPrompter{State: line}
}

// TextInput reads one line with a colored prompt, offering a default value
func TextInput(prompter Prompter, prompt, defaultValue string) (string, error) {
	display := prompt
	if defaultValue != "" {
		display = fmt.Sprintf("%s [%s]", prompt, defaultValue)
	}

	result, err := prompter.Prompt(color.CyanString(display + " "))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("text input failed: %w", err)
	}

	result = strings.TrimSpace(result)
	if result == "" {
		return defaultValue, nil
	}
	return result, nil
}

// SelectIndex asks the operator to pick an entry between 1 and count, or
// nothing to skip. Returns -1 when skipped.
func SelectIndex(prompter Prompter, prompt string, count int) (int, error) {
	display := color.CyanString("%s (1-%d, empty to skip): ", prompt, count)

	for {
		result, err := prompter.Prompt(display)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return -1, ErrCancelled
			}
			return -1, fmt.Errorf("selection input failed: %w", err)
		}

		result = strings.TrimSpace(result)
		if result == "" {
			return -1, nil
		}

		choice, err := strconv.Atoi(result)
		if err != nil || choice < 1 || choice > count {
			color.Yellow("Enter a number between 1 and %d, or leave empty to skip", count)
			continue
		}
		return choice - 1, nil
	}
}
