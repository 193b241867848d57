package chat

import (
	"strings"

	"chatbox/cmd/chatbox/ui"
	"chatbox/internal/widget"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

func (m Model) renderHistory() string {
	if len(m.state.History) == 0 {
		return m.styles.Muted.Render("No messages yet. Type below and press Enter.")
	}

	var sb strings.Builder
	for _, msg := range m.state.History {
		switch msg.Sender {
		case widget.SenderUser:
			sb.WriteString(m.styles.UserLabel.Render(msg.Sender.Label()) + "\n")
			sb.WriteString(m.styles.UserText.Render(msg.Text))
			sb.WriteString("\n")

		default:
			sb.WriteString(m.styles.BotLabel.Render(msg.Sender.Label()) + "\n")
			if m.markdown {
				sb.WriteString(m.renderReply(msg.Text))
			} else {
				sb.WriteString(m.styles.BotText.Render(msg.Text))
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

// renderReply renders one bot reply as markdown, reusing earlier renders of
// the same text at the same width.
func (m Model) renderReply(content string) string {
	if m.cache == nil {
		return m.safeRenderMarkdown(content)
	}
	key := ui.ComputeKey(content, m.wrap, m.styles.Theme.IsDark)
	return m.cache.GetOrCompute(key, func() string {
		return m.safeRenderMarkdown(content)
	})
}

// safeRenderMarkdown renders markdown with panic recovery
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content + "\n"
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
	}
	return content + "\n"
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	inputStyle := m.styles.Input
	if !m.state.CanSend() {
		inputStyle = m.styles.InputDisabled
	}
	composer := lipgloss.JoinHorizontal(
		lipgloss.Center,
		inputStyle.Render(m.input.View()),
		" ",
		m.renderSendControl(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.styles.Content.Render(m.viewport.View()),
		composer,
		m.renderFooter(),
	)
}

// renderSendControl draws the send button; it reads "Sending..." and is
// greyed out while a request is in flight.
func (m Model) renderSendControl() string {
	if m.state.InFlight {
		return m.styles.SendDisabled.Render(m.spinner.View() + " Sending...")
	}
	return m.styles.SendButton.Render("Send")
}

func (m Model) renderHeader() string {
	title := m.styles.Header.Render(" chatbox ")
	if m.endpoint == "" {
		return title
	}
	return title + m.styles.Muted.Render(" "+m.endpoint)
}

func (m Model) renderFooter() string {
	return m.styles.Footer.Render("Enter: send | PgUp/PgDn: scroll | Esc: quit")
}
