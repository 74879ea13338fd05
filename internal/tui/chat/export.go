// ABOUTME: Transcript export to a plain-text file
// ABOUTME: Writes conversacion-<id>.txt in the working directory

package chat

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// export writes the transcript to a text file. Pending placeholders are
// skipped; an empty transcript shows an error banner instead of writing.
func (m *Model) export() tea.Cmd {
	if len(m.transcript) == 0 {
		m.banners.Error("No hay conversación que guardar.")
		return nil
	}

	id := m.id
	content := formatTranscript(m.transcript)
	return func() tea.Msg {
		name := fmt.Sprintf("conversacion-%s.txt", uuid.NewString()[:8])
		if err := os.WriteFile(name, []byte(content), 0644); err != nil {
			return exportDoneMsg{id: id, err: err}
		}
		return exportDoneMsg{id: id, path: name}
	}
}

func formatTranscript(transcript []Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Conversación con el Asistente NEAE\n")
	fmt.Fprintf(&b, "Guardada el %s\n\n", time.Now().Format("02/01/2006 15:04"))

	for _, msg := range transcript {
		if msg.Pending {
			continue
		}
		label := "Asistente"
		if msg.Sender == SenderUser {
			label = "Tú"
		}
		fmt.Fprintf(&b, "%s:\n%s\n\n", label, msg.Text)
	}
	return b.String()
}
