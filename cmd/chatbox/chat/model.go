// Package chat provides the interactive TUI chat box.
// The Model owns a widget.State and routes every change through
// widget.Dispatch; the effects it gets back are turned into tea.Cmds.
package chat

import (
	"context"

	"chatbox/cmd/chatbox/ui"
	"chatbox/internal/widget"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	headerHeight  = 1
	footerHeight  = 1
	inputHeight   = 3 // bordered single line
	paddingHeight = 1
	sendWidth     = 16

	renderCacheSize = 256
)

// Sender delivers one message to the chat service and returns the reply.
// *chatclient.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, message string) (string, error)
}

// Config holds configuration for initializing the chat interface.
type Config struct {
	Client Sender
	// Context bounds outstanding requests; cancelled when the program exits.
	Context context.Context
	Styles  ui.Styles
	// Endpoint is shown in the header.
	Endpoint    string
	Markdown    bool
	Placeholder string
}

// Model is the bubbletea model for the chat box
type Model struct {
	// UI Components
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer
	cache    *ui.RenderCache

	// State
	state    widget.State
	width    int
	height   int
	ready    bool
	markdown bool
	wrap     int // renderer word-wrap width
	endpoint string

	// Backend
	client Sender
	ctx    context.Context
}

// replyMsg carries a successful chat service answer back into Update.
type replyMsg struct {
	id   string
	text string
}

// failureMsg carries a failed request back into Update.
type failureMsg struct {
	id  string
	err error
}

// New creates the chat model
func New(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.Focus()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.PromptStyle = cfg.Styles.Prompt
	ti.TextStyle = cfg.Styles.UserText

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Styles.Spinner

	m := Model{
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   cfg.Styles,
		cache:    ui.NewRenderCache(renderCacheSize),
		markdown: cfg.Markdown,
		wrap:     80,
		endpoint: cfg.Endpoint,
		client:   cfg.Client,
		ctx:      ctx,
	}
	if m.markdown {
		m.renderer = newRenderer(cfg.Styles.Theme.IsDark, m.wrap)
	}
	m.viewport.SetContent(m.renderHistory())
	return m
}

// newRenderer builds a glamour renderer with a fixed style so no terminal
// query is needed.
func newRenderer(dark bool, width int) *glamour.TermRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current widget state snapshot.
func (m Model) State() widget.State {
	return m.state
}

// SendEnabled reports whether the send control can be triggered.
func (m Model) SendEnabled() bool {
	return m.state.CanSend()
}
