package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

var symbolListPattern = regexp.MustCompile(`^[A-Z0-9.,\- ]+$`)

// PromptForSymbols asks for a comma-separated symbol list. An empty
// answer keeps the built-in default universe.
func PromptForSymbols(defaults []string) (string, error) {
	var symbols string
	prompt := &survey.Input{
		Message: "Symbols to scan (comma-separated), or press Enter for the default list:",
		Help:    fmt.Sprintf("Default universe: %s", strings.Join(defaults, ", ")),
	}

	err := survey.AskOne(prompt, &symbols, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if str == "" {
			return nil // keep the defaults
		}
		if !symbolListPattern.MatchString(str) {
			return fmt.Errorf("invalid symbol list (use letters, numbers, dots, hyphens and commas)")
		}
		return nil
	}))

	if err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.ToUpper(symbols)), nil
}
