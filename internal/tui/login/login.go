// ABOUTME: Login view with a masked access-key form
// ABOUTME: A successful login marks the session authenticated and navigates home

package login

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/debuglog"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/session"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/banner"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/icons"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/styles"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/view"
)

// Backend is the slice of the API client the login view needs.
type Backend interface {
	Login(ctx context.Context, key string) error
}

var nextID atomic.Int64

// Model is the login view. Each navigation to /login creates a fresh instance.
type Model struct {
	id      int64
	backend Backend
	store   *session.Store
	banners *banner.Presenter

	form       *huh.Form
	key        string
	submitting bool
	disposed   bool

	width  int
	height int
}

type loginResultMsg struct {
	id  int64
	key string
	err error
}

// New creates the login view.
func New(backend Backend, store *session.Store, banners *banner.Presenter) *Model {
	m := &Model{
		id:      nextID.Add(1),
		backend: backend,
		store:   store,
		banners: banners,
	}
	m.form = m.newForm()
	return m
}

func (m *Model) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("key").
				Title("Clave de acceso").
				Description("Introduce tu clave API para comenzar").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("la clave no puede estar vacía")
					}
					return nil
				}).
				Value(&m.key),
		),
	).WithShowHelp(true)
}

func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

func (m *Model) Update(msg tea.Msg) (view.Model, tea.Cmd) {
	if m.disposed {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loginResultMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			m.banners.Error(describeLoginError(msg.err))
			// The completed form will not accept input again; rebuild it
			// so the user can retry.
			m.key = ""
			m.form = m.newForm()
			return m, m.form.Init()
		}
		m.store.SetAuthenticated(true, msg.key)
		m.banners.HideLoading()
		return m, view.Navigate("/")
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted && !m.submitting {
		m.submitting = true
		m.banners.ShowLoading("Verificando clave...", banner.SlotLoading)
		return m, tea.Batch(cmd, m.submit())
	}

	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	id := m.id
	key := strings.TrimSpace(m.key)
	backend := m.backend
	return func() tea.Msg {
		err := backend.Login(context.Background(), key)
		return loginResultMsg{id: id, key: key, err: err}
	}
}

func (m *Model) View() string {
	title := styles.Title.Render(icons.Key.String() + " Iniciar sesión")
	subtitle := styles.Subtitle.Render("Asistente NEAE")

	body := m.form.View()
	if m.submitting {
		body = styles.Subtitle.Render("Verificando clave...")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, body)
	panel := styles.ActivePanel.Render(content)
	if m.width > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
	}
	return panel
}

// Dispose marks the view dead so late login results are discarded.
func (m *Model) Dispose() {
	m.disposed = true
}

// Submitting reports whether a login request is in flight.
func (m *Model) Submitting() bool {
	return m.submitting
}

// describeLoginError maps a failed login to its user-facing message. A 401
// here is a bad key, not an expired session, so the shared mapping does not
// apply.
func describeLoginError(err error) string {
	debuglog.Error("login", err)

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return banner.MsgInvalidKey
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return banner.MsgNetworkError
	}

	return banner.MsgUnknown
}
