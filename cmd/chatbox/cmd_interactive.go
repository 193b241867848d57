package main

import (
	"context"
	"errors"
	"fmt"

	"chatbox/cmd/chatbox/chat"
	"chatbox/cmd/chatbox/ui"
	"chatbox/internal/chatclient"
	"chatbox/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runInteractiveChat starts the full-screen chat box.
func runInteractiveChat(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cfg == nil {
		return errNoConfig
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	// Outstanding requests are abandoned when the UI exits.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	client := chatclient.New(chatclient.Config{
		BaseURL: cfg.Endpoint.BaseURL,
		Timeout: cfg.GetTimeout(),
	})
	logging.Boot("interactive chat against %s (timeout=%v)", client.Endpoint(), cfg.GetTimeout())

	m := chat.New(chat.Config{
		Client:      client,
		Context:     ctx,
		Styles:      ui.NewStyles(ui.ThemeByName(cfg.UI.Theme)),
		Endpoint:    client.Endpoint(),
		Markdown:    cfg.UI.Markdown,
		Placeholder: cfg.UI.Placeholder,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		logging.BootError("chat UI failed: %v", err)
		return fmt.Errorf("chat UI failed: %w", err)
	}
	return nil
}
