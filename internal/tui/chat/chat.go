// ABOUTME: Chat view: session start, transcript, input and usage counter
// ABOUTME: One send in flight at a time; replies land against the instance that asked

package chat

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/markup"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/session"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/banner"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/icons"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/styles"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/view"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/widgets"
)

// Backend is the slice of the API client the chat view needs.
type Backend interface {
	StartChat(ctx context.Context) (string, error)
	SendMessage(ctx context.Context, sessionID, pregunta string) (string, error)
}

// State is the connection state shown in the status line.
type State int

const (
	StateConnecting State = iota
	StateConnected
	StateError
)

// Sender identifies who wrote a transcript message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one transcript entry. Pending marks the assistant placeholder
// shown while a reply is in flight.
type Message struct {
	Sender  Sender
	Text    string
	Pending bool
}

var nextID atomic.Int64

// Model is the chat view. Each navigation to the root creates a fresh
// instance with its own chat session.
type Model struct {
	id      int64
	backend Backend
	store   *session.Store
	banners *banner.Presenter

	input   textinput.Model
	vp      viewport.Model
	spin    spinner.Model
	quota  widgets.QuotaBarConfig
	maxLen int

	state      State
	sessionID  string
	sending    bool
	loggingOut bool
	disposed   bool

	transcript []Message

	width  int
	height int
	ready  bool
}

type sessionStartedMsg struct {
	id        int64
	sessionID string
	err       error
}

type replyMsg struct {
	id    int64
	reply string
	err   error
}

type profileMsg struct {
	id      int64
	profile *client.Profile
}

type loggedOutMsg struct {
	id int64
}

type exportDoneMsg struct {
	id   int64
	path string
	err  error
}

// New creates the chat view. maxLen caps the question length in runes.
func New(backend Backend, store *session.Store, banners *banner.Presenter, maxLen int) *Model {
	ti := textinput.New()
	ti.Placeholder = "Escribe tu pregunta..."
	ti.Prompt = icons.Send.String() + " "
	ti.PromptStyle = styles.KeyStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusConnecting

	return &Model{
		id:      nextID.Add(1),
		backend: backend,
		store:   store,
		banners: banners,
		input:   ti,
		spin:    sp,
		quota:   widgets.DefaultQuotaBarConfig(),
		maxLen:  maxLen,
		state:   StateConnecting,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startSession(),
		m.fetchProfile(),
		m.spin.Tick,
		textinput.Blink,
	)
}

func (m *Model) startSession() tea.Cmd {
	id := m.id
	backend := m.backend
	return func() tea.Msg {
		sessionID, err := backend.StartChat(context.Background())
		return sessionStartedMsg{id: id, sessionID: sessionID, err: err}
	}
}

func (m *Model) fetchProfile() tea.Cmd {
	id := m.id
	store := m.store
	return func() tea.Msg {
		return profileMsg{id: id, profile: store.FetchProfile(context.Background())}
	}
}

func (m *Model) Update(msg tea.Msg) (view.Model, tea.Cmd) {
	if m.disposed {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.state == StateConnecting || m.sending {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			if m.sending {
				m.refreshTranscript()
			}
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionStartedMsg:
		if msg.id != m.id {
			return m, nil
		}
		if msg.err != nil {
			m.state = StateError
			m.banners.Error(m.banners.Describe(msg.err, "chat.start"))
			if !m.store.IsAuthenticated() {
				return m, view.Navigate("/login")
			}
			return m, nil
		}
		m.state = StateConnected
		m.sessionID = msg.sessionID
		m.input.Focus()
		return m, nil

	case profileMsg:
		if msg.id != m.id {
			return m, nil
		}
		if msg.profile == nil && !m.store.IsAuthenticated() {
			return m, view.Navigate("/login")
		}
		return m, nil

	case replyMsg:
		if msg.id != m.id {
			return m, nil
		}
		return m.handleReply(msg)

	case loggedOutMsg:
		if msg.id != m.id {
			return m, nil
		}
		return m, view.Navigate("/login")

	case exportDoneMsg:
		if msg.id != m.id {
			return m, nil
		}
		if msg.err != nil {
			m.banners.Error(m.banners.Describe(msg.err, "chat.export"))
		} else {
			m.banners.ShowSuccess("Conversación guardada en "+msg.path, banner.SlotSuccess, 0)
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.vp, cmd = m.vp.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (view.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.send()

	case "ctrl+s":
		return m, m.export()

	case "ctrl+l":
		if m.loggingOut {
			return m, nil
		}
		m.loggingOut = true
		m.banners.ShowLoading("Cerrando sesión...", banner.SlotLoading)
		id := m.id
		store := m.store
		return m, func() tea.Msg {
			store.Logout(context.Background())
			return loggedOutMsg{id: id}
		}

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.clampInput()
	return m, cmd
}

// clampInput truncates the question to maxLen runes. Every offending
// keystroke re-shows the too-long notice, which also resets its auto-hide
// timer, so the banner stays up while the user keeps typing at the limit.
func (m *Model) clampInput() {
	if m.maxLen <= 0 {
		return
	}
	runes := []rune(m.input.Value())
	if len(runes) > m.maxLen {
		m.input.SetValue(string(runes[:m.maxLen]))
		m.banners.ShowError(banner.MsgMessageTooLong, banner.SlotError, 0)
	}
}

// send submits the current question. Empty input, a send already in flight or
// a missing session all make it a no-op.
func (m *Model) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.sending || m.sessionID == "" {
		return nil
	}

	m.transcript = append(m.transcript,
		Message{Sender: SenderUser, Text: text},
		Message{Sender: SenderAssistant, Pending: true},
	)
	m.input.SetValue("")
	m.sending = true
	m.refreshTranscript()

	id := m.id
	sessionID := m.sessionID
	backend := m.backend
	return tea.Batch(
		func() tea.Msg {
			reply, err := backend.SendMessage(context.Background(), sessionID, text)
			return replyMsg{id: id, reply: reply, err: err}
		},
		m.spin.Tick,
	)
}

func (m *Model) handleReply(msg replyMsg) (view.Model, tea.Cmd) {
	m.sending = false
	m.dropPending()

	if msg.err != nil {
		m.banners.Error(m.banners.Describe(msg.err, "chat.send"))
		m.refreshTranscript()
		if !m.store.IsAuthenticated() {
			return m, view.Navigate("/login")
		}
		return m, nil
	}

	m.transcript = append(m.transcript, Message{Sender: SenderAssistant, Text: msg.reply})
	m.store.IncrementUsage()
	m.refreshTranscript()
	m.input.Focus()
	return m, nil
}

func (m *Model) dropPending() {
	for i := len(m.transcript) - 1; i >= 0; i-- {
		if m.transcript[i].Pending {
			m.transcript = append(m.transcript[:i], m.transcript[i+1:]...)
			return
		}
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - 7
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.vp = viewport.New(width-4, vpHeight)
		m.ready = true
	} else {
		m.vp.Width = width - 4
		m.vp.Height = vpHeight
	}
	m.input.Width = width - 8
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.vp.SetContent(m.renderTranscript())
	m.vp.GotoBottom()
}

func (m *Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return styles.Subtitle.Render("Haz una pregunta para comenzar la conversación.")
	}

	var b strings.Builder
	for i, msg := range m.transcript {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch {
		case msg.Pending:
			b.WriteString(styles.AssistantLabel.Render(icons.App.String() + " Asistente"))
			b.WriteString("\n")
			b.WriteString(m.spin.View())
			b.WriteString(styles.PendingMessage.Render(" El asistente está pensando..."))
		case msg.Sender == SenderUser:
			b.WriteString(styles.UserLabel.Render(icons.User.String() + " Tú"))
			b.WriteString("\n")
			b.WriteString(msg.Text)
		default:
			b.WriteString(styles.AssistantLabel.Render(icons.App.String() + " Asistente"))
			b.WriteString("\n")
			b.WriteString(markup.RenderText(msg.Text))
		}
	}
	return b.String()
}

func (m *Model) statusLine() string {
	switch m.state {
	case StateConnected:
		return styles.StatusConnected.Render(icons.Connected.String() + " Conectado al asistente")
	case StateError:
		return styles.StatusError.Render(icons.Error.String() + " Error de conexión con el asistente")
	default:
		return styles.StatusConnecting.Render(m.spin.View() + " Conectando con el asistente...")
	}
}

func (m *Model) usageLine() string {
	profile := m.store.Profile()
	if profile == nil {
		return ""
	}
	return styles.UsageStyle.Render(
		fmt.Sprintf("%s %s", icons.Usage.String(),
			widgets.UsageDisplay(profile.UsageCount, profile.MaxUses, m.quota)))
}

func (m *Model) View() string {
	if !m.ready {
		return "Cargando..."
	}

	status := m.statusLine()
	if usage := m.usageLine(); usage != "" {
		gap := m.width - lipgloss.Width(status) - lipgloss.Width(usage) - 4
		if gap > 0 {
			status = status + strings.Repeat(" ", gap) + usage
		} else {
			status = status + "  " + usage
		}
	}

	help := styles.Help.Render(fmt.Sprintf(
		"%s enviar  %s guardar  %s cerrar sesión  %s salir",
		styles.KeyStyle.Render("enter"),
		styles.KeyStyle.Render("ctrl+s"),
		styles.KeyStyle.Render("ctrl+l"),
		styles.KeyStyle.Render("ctrl+c"),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		styles.Panel.Width(m.width-2).Render(m.vp.View()),
		m.input.View(),
		help,
	)
}

// Dispose marks the view dead so late session, reply and export results are
// discarded.
func (m *Model) Dispose() {
	m.disposed = true
}

// Transcript returns the current transcript entries.
func (m *Model) Transcript() []Message {
	return m.transcript
}

// Sending reports whether a question is in flight.
func (m *Model) Sending() bool {
	return m.sending
}

// SessionID returns the active chat session id, or "".
func (m *Model) SessionID() string {
	return m.sessionID
}

// ConnectionState returns the current connection state.
func (m *Model) ConnectionState() State {
	return m.state
}

// SetInput replaces the input text, applying the length clamp.
func (m *Model) SetInput(text string) {
	m.input.SetValue(text)
	m.clampInput()
}

// Input returns the current input text.
func (m *Model) Input() string {
	return m.input.Value()
}
