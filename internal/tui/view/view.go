// ABOUTME: Contract between the router and the per-route view models
// ABOUTME: Views are disposable bubbletea child models created per navigation

package view

import tea "github.com/charmbracelet/bubbletea"

// Model is one routed view. Exactly one live view owns the content area at a
// time; Dispose marks an instance dead so late async results against a torn
// down view become no-ops.
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Model, tea.Cmd)
	View() string
	Dispose()
}

// NavigateMsg asks the router to run its full navigation algorithm for the
// given token. Redirects re-dispatch this message instead of loading a view
// directly, so every path passes the authentication checks.
type NavigateMsg struct {
	Token string
}

// Navigate returns a command that dispatches a NavigateMsg.
func Navigate(token string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Token: token}
	}
}
