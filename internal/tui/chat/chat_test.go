// ABOUTME: Tests for the chat view model
// ABOUTME: Covers send guards, transcript updates, length clamp and liveness

package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/client"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/session"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/banner"
	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/view"
)

type fakeChatBackend struct {
	sessionID string
	startErr  error
	reply     string
	sendErr   error
	sent      []string
}

func (f *fakeChatBackend) StartChat(ctx context.Context) (string, error) {
	if f.startErr != nil {
		return "", f.startErr
	}
	return f.sessionID, nil
}

func (f *fakeChatBackend) SendMessage(ctx context.Context, sessionID, pregunta string) (string, error) {
	f.sent = append(f.sent, pregunta)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.reply, nil
}

type fakeSessionBackend struct {
	cookie  *http.Cookie
	profile *client.Profile
}

func (f *fakeSessionBackend) Logout(ctx context.Context) error { return nil }

func (f *fakeSessionBackend) UserData(ctx context.Context) (*client.Profile, error) {
	if f.profile == nil {
		return nil, errors.New("no profile")
	}
	return f.profile, nil
}

func (f *fakeSessionBackend) AuthCookie(name string) *http.Cookie {
	if f.cookie != nil && f.cookie.Name == name {
		return f.cookie
	}
	return nil
}

func (f *fakeSessionBackend) ClearCookies() { f.cookie = nil }

func newTestModel(t *testing.T, backend *fakeChatBackend) (*Model, *session.Store) {
	t.Helper()
	sb := &fakeSessionBackend{
		cookie:  &http.Cookie{Name: session.AuthCookieName, Value: "sesion"},
		profile: &client.Profile{UsageCount: 1, MaxUses: 50},
	}
	store := session.NewStore(t.TempDir(), sb)
	store.SetAuthenticated(true, "clave")
	store.FetchProfile(context.Background())

	banners := banner.New(store.Invalidate)
	m := New(backend, store, banners, 1000)
	return m, store
}

func connect(m *Model) {
	m.Update(sessionStartedMsg{id: m.id, sessionID: "abc-123"})
}

func TestSessionStartConnects(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})

	connect(m)
	if m.ConnectionState() != StateConnected {
		t.Errorf("state = %v, want connected", m.ConnectionState())
	}
	if m.SessionID() != "abc-123" {
		t.Errorf("session id = %q", m.SessionID())
	}
}

func TestSessionStartFailureShowsError(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{})

	m.Update(sessionStartedMsg{id: m.id, err: errors.New("boom")})
	if m.ConnectionState() != StateError {
		t.Errorf("state = %v, want error", m.ConnectionState())
	}
}

func TestSendEmptyInputIsNoop(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	m.SetInput("   ")
	if cmd := m.send(); cmd != nil {
		t.Error("expected no command for whitespace input")
	}
	if len(m.Transcript()) != 0 {
		t.Errorf("transcript length = %d, want 0", len(m.Transcript()))
	}
}

func TestSendWithoutSessionIsNoop(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{})

	m.SetInput("hola")
	if cmd := m.send(); cmd != nil {
		t.Error("expected no command before the session starts")
	}
}

func TestSendAppendsUserMessageAndPending(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	m.SetInput("¿Qué es NEAE?")
	if cmd := m.send(); cmd == nil {
		t.Fatal("expected a send command")
	}

	transcript := m.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[0].Sender != SenderUser || transcript[0].Text != "¿Qué es NEAE?" {
		t.Errorf("first entry = %+v", transcript[0])
	}
	if !transcript[1].Pending {
		t.Error("expected a pending assistant placeholder")
	}
	if !m.Sending() {
		t.Error("expected the sending flag to be set")
	}
	if m.Input() != "" {
		t.Errorf("input = %q, want cleared", m.Input())
	}
}

func TestSendWhileSendingIsNoop(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	m.SetInput("primera")
	m.send()
	m.SetInput("segunda")
	if cmd := m.send(); cmd != nil {
		t.Error("expected no command while a send is in flight")
	}
	if len(m.Transcript()) != 2 {
		t.Errorf("transcript length = %d, want 2", len(m.Transcript()))
	}
}

func TestReplySuccessGrowsTranscriptAndUsage(t *testing.T) {
	m, store := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	m.SetInput("hola")
	m.send()
	m.Update(replyMsg{id: m.id, reply: "**Hola**, soy el asistente."})

	transcript := m.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[1].Pending {
		t.Error("pending placeholder should be gone")
	}
	if transcript[1].Sender != SenderAssistant {
		t.Errorf("second entry sender = %q", transcript[1].Sender)
	}
	if m.Sending() {
		t.Error("sending flag should be cleared")
	}
	if store.Profile().UsageCount != 2 {
		t.Errorf("usage = %d, want 2 after the optimistic bump", store.Profile().UsageCount)
	}
}

func TestReplyFailureKeepsUserMessageOnly(t *testing.T) {
	m, store := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	m.SetInput("hola")
	m.send()
	m.Update(replyMsg{id: m.id, err: &client.APIError{Status: http.StatusForbidden}})

	transcript := m.Transcript()
	if len(transcript) != 1 {
		t.Fatalf("transcript length = %d, want the user message only", len(transcript))
	}
	if m.Sending() {
		t.Error("sending flag should be cleared")
	}
	if store.Profile().UsageCount != 1 {
		t.Errorf("usage = %d, a failed send must not count", store.Profile().UsageCount)
	}
	if !m.banners.Visible(banner.SlotError) {
		t.Error("expected an error banner")
	}
	if !store.IsAuthenticated() {
		t.Error("a 403 must not end the session")
	}
}

func TestReplyUnauthorizedNavigatesToLogin(t *testing.T) {
	m, store := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	m.SetInput("hola")
	m.send()
	_, cmd := m.Update(replyMsg{id: m.id, err: &client.APIError{Status: http.StatusUnauthorized}})

	if store.IsAuthenticated() {
		t.Fatal("expected the 401 to log the session out")
	}
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	if nav, ok := cmd().(view.NavigateMsg); !ok || nav.Token != "/login" {
		t.Errorf("expected a /login navigation, got %v", nav)
	}
}

func TestStaleReplyIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	m.SetInput("hola")
	m.send()
	m.Update(replyMsg{id: m.id - 1, reply: "respuesta de otra instancia"})

	if !m.Sending() {
		t.Error("a reply for another instance must not clear the sending flag")
	}
	if len(m.Transcript()) != 2 {
		t.Errorf("transcript length = %d, want unchanged 2", len(m.Transcript()))
	}
}

func TestDisposedModelIgnoresMessages(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})

	m.Dispose()
	m.Update(sessionStartedMsg{id: m.id, sessionID: "abc-123"})
	if m.ConnectionState() != StateConnecting {
		t.Error("a disposed view must ignore late results")
	}
}

func TestInputClampNoticeOnEveryOffendingKeystroke(t *testing.T) {
	m, _ := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	long := strings.Repeat("a", 1001)
	m.SetInput(long)

	if got := len([]rune(m.Input())); got != 1000 {
		t.Errorf("input length = %d, want clamped to 1000", got)
	}
	if m.banners.Text(banner.SlotError) != banner.MsgMessageTooLong {
		t.Errorf("banner = %q", m.banners.Text(banner.SlotError))
	}

	// Typing at the limit after the banner auto-hid must show it again:
	// every offending keystroke re-shows the notice and resets its timer.
	m.banners.Hide(banner.SlotError)
	m.SetInput(long)
	if !m.banners.Visible(banner.SlotError) {
		t.Error("expected the notice on every offending keystroke")
	}

	// Input within the limit shows nothing
	m.banners.Hide(banner.SlotError)
	m.SetInput(strings.Repeat("a", 1000))
	if m.banners.Visible(banner.SlotError) {
		t.Error("input at the limit must not trigger the notice")
	}
}

func TestLogoutKeyNavigatesToLogin(t *testing.T) {
	m, store := newTestModel(t, &fakeChatBackend{sessionID: "abc-123"})
	connect(m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd == nil {
		t.Fatal("expected a logout command")
	}
	msg := cmd()
	if _, ok := msg.(loggedOutMsg); !ok {
		t.Fatalf("expected loggedOutMsg, got %T", msg)
	}
	if store.IsAuthenticated() {
		t.Error("expected the session to be cleared")
	}

	_, cmd = m.Update(msg)
	if nav, ok := cmd().(view.NavigateMsg); !ok || nav.Token != "/login" {
		t.Errorf("expected a /login navigation, got %v", nav)
	}
}

func TestFormatTranscriptSkipsPending(t *testing.T) {
	out := formatTranscript([]Message{
		{Sender: SenderUser, Text: "hola"},
		{Sender: SenderAssistant, Pending: true},
	})
	if !strings.Contains(out, "Tú:\nhola") {
		t.Errorf("missing user entry in %q", out)
	}
	if strings.Contains(out, "Asistente:") {
		t.Errorf("pending entries must not be exported: %q", out)
	}
}
