package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/ai-assistant/internal/source"
)

// RunWizard runs an interactive configuration wizard and saves the
// result to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to aiassist! Let's point it at your summarization backend.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend address.
	urlPrompt := promptui.Prompt{
		Label:    "Backend base URL",
		Default:  cfg.Backend.BaseURL,
		Validate: validateBaseURL,
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.Backend.BaseURL = baseURL

	// 2. Starting mode.
	items := make([]string, len(source.Modes))
	for i, m := range source.Modes {
		items[i] = fmt.Sprintf("%-10s - %s", m, m.Label())
	}
	modePrompt := promptui.Select{
		Label: "Default source mode",
		Items: items,
	}
	modeIdx, _, err := modePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mode selection: %w", err)
	}
	cfg.Mode = string(source.Modes[modeIdx])

	// 3. Request timeout.
	timeoutPrompt := promptui.Prompt{
		Label:   "Request timeout in seconds (0 for none)",
		Default: strconv.Itoa(cfg.Backend.TimeoutSeconds),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return fmt.Errorf("enter a non-negative number")
			}
			return nil
		},
	}
	timeoutStr, err := timeoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}
	cfg.Backend.TimeoutSeconds, _ = strconv.Atoi(timeoutStr)

	// 4. History journal.
	historyPrompt := promptui.Prompt{
		Label:     "Keep a local history of summaries and answers",
		IsConfirm: true,
	}
	if _, err := historyPrompt.Run(); err == nil {
		cfg.History.Enabled = true
	} else if err != promptui.ErrAbort {
		return nil, fmt.Errorf("history: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateBaseURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("enter an absolute http(s) URL")
	}
	return nil
}
