package main

import (
	"context"
	"fmt"

	"chatbox/cmd/chatbox/chat"
	"chatbox/internal/chatclient"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runSend performs one exchange through the same widget core the UI uses.
func runSend(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cfg == nil {
		return errNoConfig
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := chatclient.New(chatclient.Config{
		BaseURL: cfg.Endpoint.BaseURL,
		Timeout: cfg.GetTimeout(),
	})

	if logger == nil {
		logger = zap.NewNop()
	}
	message := joinArgs(args)
	logger.Debug("Sending message", zap.String("endpoint", client.Endpoint()), zap.Int("chars", len(message)))

	state, err := chat.SendOnce(ctx, client, message)
	fmt.Fprint(cmd.OutOrStdout(), state.Transcript())
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}
