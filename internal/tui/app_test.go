// ABOUTME: Tests for the root model's navigation and view loading
// ABOUTME: Covers auth redirects and the superseded-load generation guard

package tui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/config"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/session"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/banner"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/view"
)

func fragmentHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/static/views/login/login.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<h2>Iniciar sesión</h2>"))
	})
	mux.HandleFunc("/static/views/chat/chat.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<h2>Chat</h2>"))
	})
	return mux
}

func newTestApp(t *testing.T, handler http.Handler, authenticated bool) *App {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	jar := client.NewJar(filepath.Join(dir, "cookies.json"))
	cli := client.New(srv.URL, jar, 5*time.Second)
	store := session.NewStore(dir, cli)

	if authenticated {
		jar.SetCookies(nil, []*http.Cookie{{Name: session.AuthCookieName, Value: "sesion"}})
		store.SetAuthenticated(true, "clave")
	}

	return NewApp(cli, store, config.Default())
}

// step runs one returned command and feeds its message back into the model.
func step(t *testing.T, a *App, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	_, next := a.Update(msg)
	return next
}

func TestNavigateUnauthenticatedRedirectsToLogin(t *testing.T) {
	a := newTestApp(t, fragmentHandler(), false)

	cmd := a.navigate(TokenRoot)
	msg := cmd()

	nav, ok := msg.(view.NavigateMsg)
	if !ok {
		t.Fatalf("expected a redirect, got %T", msg)
	}
	if nav.Token != TokenLogin {
		t.Errorf("redirect token = %q, want %q", nav.Token, TokenLogin)
	}
}

func TestNavigateLoginWhileAuthenticatedBouncesHome(t *testing.T) {
	a := newTestApp(t, fragmentHandler(), true)

	msg := a.navigate(TokenLogin)()
	nav, ok := msg.(view.NavigateMsg)
	if !ok {
		t.Fatalf("expected a redirect, got %T", msg)
	}
	if nav.Token != TokenRoot {
		t.Errorf("redirect token = %q, want %q", nav.Token, TokenRoot)
	}
}

func TestNavigationLoadsLoginView(t *testing.T) {
	a := newTestApp(t, fragmentHandler(), false)

	// Unauthenticated root navigation: redirect, then a login view load
	_, cmd := a.Update(view.NavigateMsg{Token: TokenRoot})
	cmd = step(t, a, cmd) // redirect NavigateMsg -> fragment fetch
	step(t, a, cmd)       // fragmentMsg -> view constructed

	if a.current == nil {
		t.Fatal("expected a live view")
	}
	if a.currentRoute.View != ViewLogin {
		t.Errorf("current view = %q, want %q", a.currentRoute.View, ViewLogin)
	}
	if a.title != "Iniciar sesión" {
		t.Errorf("title = %q", a.title)
	}
}

func TestNavigationLoadsChatViewWhenAuthenticated(t *testing.T) {
	a := newTestApp(t, fragmentHandler(), true)

	_, cmd := a.Update(view.NavigateMsg{Token: TokenRoot})
	step(t, a, cmd)

	if a.currentRoute.View != ViewChat {
		t.Errorf("current view = %q, want %q", a.currentRoute.View, ViewChat)
	}
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	a := newTestApp(t, fragmentHandler(), true)

	first := a.navigate(TokenRoot)
	firstMsg := first() // gen 1 result, held back

	second := a.navigate(TokenRoot)
	secondMsg := second() // gen 2 result lands first
	a.Update(secondMsg)
	liveView := a.current
	if liveView == nil {
		t.Fatal("expected a live view after the second load")
	}

	a.Update(firstMsg) // stale gen 1 result arrives late
	if a.current != liveView {
		t.Error("a superseded load must not replace the live view")
	}
}

func TestFailedLoadShowsErrorState(t *testing.T) {
	a := newTestApp(t, http.NotFoundHandler(), true)
	a.width, a.height = 80, 24

	_, cmd := a.Update(view.NavigateMsg{Token: TokenRoot})
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	a.Update(cmd())

	if !a.loadFailed {
		t.Fatal("expected the load to be marked failed")
	}
	if a.current != nil {
		t.Error("expected no live view after a failed load")
	}
	if !strings.Contains(a.View(), loadErrorText) {
		t.Error("expected the error text in the rendered view")
	}
}

func TestUnauthorizedHookInvalidatesLocallyWithoutRemoteLogout(t *testing.T) {
	var logoutHits int32
	mux := http.NewServeMux()
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&logoutHits, 1)
	})

	a := newTestApp(t, mux, true)
	if !a.store.IsAuthenticated() {
		t.Fatal("expected an authenticated session to start from")
	}

	// Describing a 401 runs on the UI goroutine; it must clear the session
	// without a network round trip.
	got := a.banners.Describe(&client.APIError{Status: http.StatusUnauthorized}, "test")
	if got != banner.MsgSessionExpired {
		t.Errorf("message = %q", got)
	}
	if a.store.IsAuthenticated() {
		t.Error("expected the session to be invalidated")
	}
	if n := atomic.LoadInt32(&logoutHits); n != 0 {
		t.Errorf("server /logout hits = %d, the hook must not call the network", n)
	}
}

func TestFragmentTitle(t *testing.T) {
	if got := fragmentTitle("<div><h1 class=\"t\">Hola</h1></div>", ViewChat); got != "Hola" {
		t.Errorf("title = %q, want %q", got, "Hola")
	}
	if got := fragmentTitle("sin encabezado", ViewLogin); got != "Iniciar sesión" {
		t.Errorf("fallback title = %q", got)
	}
	if got := fragmentTitle("", ViewChat); got != "Asistente NEAE" {
		t.Errorf("fallback title = %q", got)
	}
}
