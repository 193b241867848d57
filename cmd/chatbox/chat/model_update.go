package chat

import (
	"chatbox/internal/logging"
	"chatbox/internal/widget"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case replyMsg:
		return m.dispatch(widget.ReplyReceived{ID: msg.id, Text: msg.text})

	case failureMsg:
		return m.dispatch(widget.RequestFailed{ID: msg.id, Err: msg.err})

	case spinner.TickMsg:
		if !m.state.InFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		logging.UI("chat closed with %d messages (in flight: %v)", len(m.state.History), m.state.InFlight)
		return m, tea.Quit

	case tea.KeyEnter:
		// The send control is disabled while a request is in flight.
		if !m.state.CanSend() {
			return m, nil
		}
		return m.dispatch(widget.Send{})

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		next, _ := m.dispatch(widget.UpdateDraft{Text: after})
		m = next
	}
	return m, cmd
}

// dispatch runs cmd through the widget and turns the resulting effect into
// a tea.Cmd.
func (m Model) dispatch(cmd widget.Command) (Model, tea.Cmd) {
	next, eff := widget.Dispatch(m.state, cmd)
	historyChanged := len(next.History) != len(m.state.History)
	m.state = next

	if m.input.Value() != m.state.Draft {
		m.input.SetValue(m.state.Draft)
	}
	if historyChanged {
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
	}

	return m, m.runEffect(eff)
}

func (m Model) runEffect(eff widget.Effect) tea.Cmd {
	switch e := eff.(type) {
	case widget.PostMessage:
		logging.UIDebug("send %s: %d chars", e.ID, len(e.Text))
		return tea.Batch(m.postCmd(e), m.spinner.Tick)
	case widget.LogFailure:
		logFailure(e)
	}
	return nil
}

// postCmd performs the chat service call off the update loop.
func (m Model) postCmd(e widget.PostMessage) tea.Cmd {
	client, ctx := m.client, m.ctx
	return func() tea.Msg {
		if client == nil {
			return failureMsg{id: e.ID, err: errNoClient}
		}
		text, err := client.Send(ctx, e.Text)
		if err != nil {
			return failureMsg{id: e.ID, err: err}
		}
		return replyMsg{id: e.ID, text: text}
	}
}

// logFailure writes the single diagnostic entry for a failed request.
func logFailure(e widget.LogFailure) {
	logging.WithRequestID(logging.CategoryAPI, e.ID).Error("Error sending message: %v", e.Err)
}

func (m *Model) resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	m.width = width
	m.height = height

	chatWidth := width - 2
	if chatWidth < 1 {
		chatWidth = 1
	}
	vpHeight := height - headerHeight - footerHeight - inputHeight - paddingHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	m.viewport.Width = chatWidth
	m.viewport.Height = vpHeight

	// border (2) + padding (2) + prompt (2)
	inputWidth := chatWidth - sendWidth - 6
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.Width = inputWidth

	if m.markdown && chatWidth-4 != m.wrap {
		m.wrap = chatWidth - 4
		m.renderer = newRenderer(m.styles.Theme.IsDark, m.wrap)
	}
	m.ready = true

	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}
