package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"chatbox/internal/config"
	"chatbox/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	endpoint   string
	timeout    time.Duration

	// Logger for non-interactive commands (stderr)
	logger *zap.Logger

	// appConfig is resolved once per invocation in PersistentPreRunE
	appConfig *config.Config
)

var errNoConfig = errors.New("configuration not resolved")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chatbox",
	Short: "chatbox - a terminal chat box for a remote chat service",
	Long: `chatbox collects your text, posts it to a chat service and shows the
conversation. Each message is sent as POST <endpoint>/chat with body
{"message": "..."}; the service answers {"response": "..."}.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		if err := initLogging(cfg); err != nil {
			// Diagnostics are best effort; the chat still works without them.
			fmt.Fprintf(os.Stderr, "[logging] Warning: %v\n", err)
		}
		logging.BootDebug("config resolved: endpoint=%s timeout=%q theme=%s markdown=%v",
			cfg.Endpoint.BaseURL, cfg.Endpoint.Timeout, cfg.UI.Theme, cfg.UI.Markdown)

		// Interactive mode owns the terminal; only other commands get a
		// console logger.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	RunE: runInteractiveChat,
}

// sendCmd sends one message without the UI
var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a single message and print the exchange",
	Long: `Sends one message to the chat service and prints the transcript:

  You: <message>
  Bot: <reply>

Exits non-zero when the request fails.

Example:
  chatbox send "Hello"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "Chat service base URL (or set CHATBOX_ENDPOINT)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (0 = none)")

	rootCmd.AddCommand(sendCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs the command tree and always flushes logs afterwards.
// cobra skips PersistentPostRun when RunE fails, so cleanup lives here.
func execute(ctx context.Context) error {
	defer shutdown()
	return rootCmd.ExecuteContext(ctx)
}

func shutdown() {
	if logger != nil {
		_ = logger.Sync()
	}
	logging.CloseAll()
	appConfig = nil
}

// resolveConfig loads the config file and applies flag overrides.
// Precedence: flags > env > file > defaults.
func resolveConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if endpoint != "" {
		cfg.Endpoint.BaseURL = endpoint
	}
	if timeout > 0 {
		cfg.Endpoint.Timeout = timeout.String()
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// initLogging points the diagnostic channel at the configured log file.
func initLogging(cfg *config.Config) error {
	dir := config.DefaultConfigDir()
	if configPath != "" {
		dir = filepath.Dir(configPath)
	}
	return logging.Initialize(logging.Options{
		Path:       cfg.LogPath(dir),
		Level:      cfg.Logging.Level,
		JSON:       cfg.Logging.Format == "json",
		Categories: cfg.Logging.Categories,
	})
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
