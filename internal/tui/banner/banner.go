// ABOUTME: Transient status banners for the TUI (error, success, loading)
// ABOUTME: Named slots with auto-hide timers, re-show replaces text and resets the timer

package banner

import (
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ignacio-serrano-rodriguez/asistente-neae/internal/tui/styles"
)

// Kind classifies a banner for styling.
type Kind int

const (
	KindError Kind = iota
	KindSuccess
	KindLoading
)

// Default slots used when callers do not name one.
const (
	SlotError   = "error"
	SlotSuccess = "success"
	SlotLoading = "loading"
)

// Default auto-hide durations. Zero means sticky.
const (
	ErrorDuration   = 5 * time.Second
	SuccessDuration = 3 * time.Second
	LoadingDuration = 0
)

// TickInterval is how often expired banners are swept.
const TickInterval = 250 * time.Millisecond

type banner struct {
	text     string
	kind     Kind
	deadline time.Time // zero = sticky
}

// Presenter manages banner slots. One Presenter is shared by the whole TUI.
type Presenter struct {
	slots map[string]*banner

	// onUnauthorized runs when Describe maps a 401, so an expired session
	// forces a logout as a side effect of describing it.
	onUnauthorized func()
}

// New creates an empty presenter. onUnauthorized may be nil.
func New(onUnauthorized func()) *Presenter {
	return &Presenter{
		slots:          map[string]*banner{},
		onUnauthorized: onUnauthorized,
	}
}

// TickMsg drives banner expiry.
type TickMsg struct {
	Time time.Time
}

// TickCmd schedules the next expiry sweep.
func TickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// ShowError shows an error banner at slot. duration <= 0 keeps the default.
func (p *Presenter) ShowError(message, slot string, duration time.Duration) {
	if slot == "" {
		slot = SlotError
	}
	if duration <= 0 {
		duration = ErrorDuration
	}
	p.show(slot, message, KindError, duration)
}

// ShowSuccess shows a success banner at slot.
func (p *Presenter) ShowSuccess(message, slot string, duration time.Duration) {
	if slot == "" {
		slot = SlotSuccess
	}
	if duration <= 0 {
		duration = SuccessDuration
	}
	p.show(slot, message, KindSuccess, duration)
}

// ShowLoading shows a sticky loading banner at slot; it stays until hidden.
func (p *Presenter) ShowLoading(message, slot string) {
	if slot == "" {
		slot = SlotLoading
	}
	p.slots[slot] = &banner{text: message, kind: KindLoading}
}

// Error is ShowError on the default slot with the default duration.
func (p *Presenter) Error(message string) {
	p.ShowError(message, SlotError, ErrorDuration)
}

// Hide removes the banner at slot, if any.
func (p *Presenter) Hide(slot string) {
	delete(p.slots, slot)
}

// HideLoading removes the default loading banner.
func (p *Presenter) HideLoading() {
	p.Hide(SlotLoading)
}

// Visible reports whether slot currently shows a banner.
func (p *Presenter) Visible(slot string) bool {
	_, ok := p.slots[slot]
	return ok
}

// Text returns the banner text at slot, or "".
func (p *Presenter) Text(slot string) string {
	if b, ok := p.slots[slot]; ok {
		return b.text
	}
	return ""
}

// Tick sweeps expired banners and reports whether anything is still visible,
// so the caller knows to keep ticking.
func (p *Presenter) Tick(now time.Time) bool {
	for slot, b := range p.slots {
		if !b.deadline.IsZero() && b.deadline.Before(now) {
			delete(p.slots, slot)
		}
	}
	return len(p.slots) > 0
}

// View renders every visible banner, one per line, in stable slot order.
func (p *Presenter) View(width int) string {
	if len(p.slots) == 0 {
		return ""
	}

	names := make([]string, 0, len(p.slots))
	for slot := range p.slots {
		names = append(names, slot)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, slot := range names {
		b := p.slots[slot]
		var style lipgloss.Style
		switch b.kind {
		case KindSuccess:
			style = styles.BannerSuccess
		case KindLoading:
			style = styles.BannerLoading
		default:
			style = styles.BannerError
		}
		if width > 4 {
			style = style.MaxWidth(width)
		}
		lines = append(lines, style.Render(b.text))
	}
	return strings.Join(lines, "\n")
}

// show replaces the slot's content and resets its auto-hide timer.
func (p *Presenter) show(slot, message string, kind Kind, duration time.Duration) {
	b := &banner{text: message, kind: kind}
	if duration > 0 {
		b.deadline = time.Now().Add(duration)
	}
	p.slots[slot] = b
}
