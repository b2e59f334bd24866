package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForMarketID prompts the user to enter a market id.
func PromptForMarketID() (string, error) {
	var marketID string
	prompt := &survey.Input{
		Message: "Enter the market id to research:",
		Help:    "The market id from the configured catalog, e.g. mkt-btc-100k",
	}

	err := survey.AskOne(prompt, &marketID, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return fmt.Errorf("market id cannot be empty")
		}
		if strings.ContainsAny(str, " \t") {
			return fmt.Errorf("market id cannot contain whitespace")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(marketID), nil
}

// PromptForRefresh asks whether to bypass a cached result.
func PromptForRefresh() (bool, error) {
	refresh := false
	prompt := &survey.Confirm{
		Message: "Bypass the cached result and research fresh?",
		Default: false,
	}
	if err := survey.AskOne(prompt, &refresh); err != nil {
		return false, err
	}
	return refresh, nil
}

// PromptForIntermediate asks whether to show per-pass analysis outputs.
func PromptForIntermediate() (bool, error) {
	include := false
	prompt := &survey.Confirm{
		Message: "Show per-pass analysis outputs?",
		Default: false,
	}
	if err := survey.AskOne(prompt, &include); err != nil {
		return false, err
	}
	return include, nil
}

// PromptForAnotherRun asks whether to research another market.
func PromptForAnotherRun() (bool, error) {
	again := true
	prompt := &survey.Confirm{
		Message: "Research another market?",
		Default: true,
	}
	if err := survey.AskOne(prompt, &again); err != nil {
		return false, err
	}
	return again, nil
}
