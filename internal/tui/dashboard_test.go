package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this one is too long", 10, "this one …"},
		{"日本語のテキスト", 5, "日本語の…"},
		{"x", 1, "x"},
		{"xy", 1, "…"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.width); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestConfirmModal_Keys(t *testing.T) {
	var m confirmModal
	if _, handled := m.handleKey(keyPress("y")); handled {
		t.Fatal("closed modal should not consume keys")
	}

	m.show("Delete", "sure?")
	confirmed, handled := m.handleKey(keyPress("n"))
	if !handled || confirmed {
		t.Fatalf("n: confirmed=%v handled=%v", confirmed, handled)
	}
	if m.open {
		t.Fatal("modal still open after cancel")
	}

	m.show("Delete", "sure?")
	confirmed, handled = m.handleKey(keyPress("y"))
	if !handled || !confirmed {
		t.Fatalf("y: confirmed=%v handled=%v", confirmed, handled)
	}

	m.show("Delete", "sure?")
	if confirmed, _ := m.handleKey(keyPress("q")); confirmed {
		t.Fatal("unrelated key must not confirm a delete")
	}
	if !m.open {
		t.Fatal("unrelated key closed the modal")
	}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
