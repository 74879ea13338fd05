// ABOUTME: Root TUI model: navigation, view loading and the shared frame
// ABOUTME: A generation counter discards view loads superseded by later navigations

package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/config"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/debuglog"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/session"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/banner"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/chat"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/icons"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/login"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/styles"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/view"
)

const loadErrorText = "Error al cargar el contenido de la página."

// fragmentMsg carries a fetched view fragment back to the router. gen ties it
// to the navigation that requested it.
type fragmentMsg struct {
	gen      int
	route    Route
	fragment string
	err      error
}

// App is the root model. It owns the current view, the navigation state and
// the shared banner presenter.
type App struct {
	cli     *client.Client
	store   *session.Store
	banners *banner.Presenter
	cfg     config.Config

	current      view.Model
	currentRoute Route
	title        string

	loadGen    int
	loading    bool
	loadFailed bool

	width  int
	height int
}

// NewApp wires the root model. Describing a 401 anywhere in the TUI
// invalidates the session locally; the views then notice and navigate to
// login. The hook runs on the UI goroutine, so it must not touch the network.
func NewApp(cli *client.Client, store *session.Store, cfg config.Config) *App {
	a := &App{cli: cli, store: store, cfg: cfg}
	a.banners = banner.New(store.Invalidate)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(view.Navigate(TokenRoot), banner.TickCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.forward(msg)

	case view.NavigateMsg:
		return a, a.navigate(msg.Token)

	case fragmentMsg:
		return a.handleFragment(msg)

	case banner.TickMsg:
		a.banners.Tick(msg.Time)
		return a, banner.TickCmd()
	}

	return a.forward(msg)
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.current == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.current, cmd = a.current.Update(msg)
	return a, cmd
}

// navigate runs the navigation algorithm for a token: resolve the route,
// apply the auth gates (redirects re-enter the algorithm), then start an
// asynchronous view load tagged with a fresh generation.
func (a *App) navigate(token string) tea.Cmd {
	r := resolveRoute(token)

	if r.RequiresAuth && !a.store.IsAuthenticated() {
		return view.Navigate(TokenLogin)
	}
	if r.View == ViewLogin && a.store.IsAuthenticated() {
		return view.Navigate(TokenRoot)
	}

	a.loadGen++
	gen := a.loadGen
	a.loading = true
	a.loadFailed = false

	cli := a.cli
	return func() tea.Msg {
		fragment, err := cli.ViewFragment(context.Background(), r.View)
		return fragmentMsg{gen: gen, route: r, fragment: fragment, err: err}
	}
}

// handleFragment finishes a view load. Results from a superseded generation
// are dropped without touching the live view.
func (a *App) handleFragment(msg fragmentMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.loadGen {
		return a, nil
	}
	a.loading = false

	if a.current != nil {
		a.current.Dispose()
		a.current = nil
	}

	if msg.err != nil {
		a.loadFailed = true
		debuglog.Error("view.load "+msg.route.View, msg.err)
		return a, nil
	}

	a.currentRoute = msg.route
	a.title = fragmentTitle(msg.fragment, msg.route.View)

	switch msg.route.View {
	case ViewLogin:
		a.current = login.New(a.cli, a.store, a.banners)
	default:
		a.current = chat.New(a.cli, a.store, a.banners, a.cfg.MaxMessageLength)
	}

	cmds := []tea.Cmd{a.current.Init()}
	if a.width > 0 {
		var cmd tea.Cmd
		a.current, cmd = a.current.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - 3})
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

var headingRe = regexp.MustCompile(`<h[1-3][^>]*>(.*?)</h[1-3]>`)
var tagRe = regexp.MustCompile(`<[^>]+>`)

// fragmentTitle pulls the first heading out of a served view fragment, so the
// header reflects what the backend calls the page.
func fragmentTitle(fragment, fallback string) string {
	if m := headingRe.FindStringSubmatch(fragment); m != nil {
		title := strings.TrimSpace(tagRe.ReplaceAllString(m[1], ""))
		if title != "" {
			return title
		}
	}
	if fallback == ViewLogin {
		return "Iniciar sesión"
	}
	return "Asistente NEAE"
}

func (a *App) renderHeader() string {
	left := styles.Title.MarginBottom(0).Render(
		fmt.Sprintf("%s %s", icons.App.String(), a.title))
	return left
}

func (a *App) View() string {
	header := a.renderHeader()

	var content string
	switch {
	case a.loadFailed:
		content = styles.StatusError.Render(loadErrorText)
	case a.loading || a.current == nil:
		content = styles.Subtitle.Render("Cargando...")
	default:
		content = a.current.View()
	}

	sections := []string{header}
	if banners := a.banners.View(a.width); banners != "" {
		sections = append(sections, banners)
	}
	sections = append(sections, content)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Run starts the TUI program.
func Run(cli *client.Client, store *session.Store, cfg config.Config) error {
	p := tea.NewProgram(NewApp(cli, store, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
