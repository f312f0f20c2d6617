package picker

import "fmt"

// model holds the selector state: cursor position, scroll offset, and the
// chosen set. It is independent of terminal I/O so the key handling can be
// exercised directly in tests.
type model struct {
	candidates []string
	selected   map[string]bool
	cursor     int
	offset     int
	pageSize   int
}

func newModel(candidates []string, pageSize int) *model {
	if pageSize <= 0 {
		pageSize = 15
	}
	return &model{
		candidates: candidates,
		selected:   make(map[string]bool),
		pageSize:   pageSize,
	}
}

// handle applies one key to the state. done reports a confirmed selection,
// canceled a user abort; both end the loop.
func (m *model) handle(k key) (done, canceled bool) {
	switch k {
	case keyDown:
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
			if m.cursor >= m.offset+m.pageSize {
				m.offset++
			}
		}
	case keyUp:
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset--
			}
		}
	case keySpace:
		path := m.candidates[m.cursor]
		if m.selected[path] {
			delete(m.selected, path)
		} else {
			m.selected[path] = true
		}
	case keyToggleAll:
		if len(m.selected) < len(m.candidates) {
			for _, path := range m.candidates {
				m.selected[path] = true
			}
		} else {
			m.selected = make(map[string]bool)
		}
	case keyEnter:
		return true, false
	case keyCancel:
		return false, true
	}
	return false, false
}

// renderRow formats one candidate row with its checkbox, truncated to keep
// the line within a conventional 80-column screen.
func (m *model) renderRow(idx int) string {
	path := m.candidates[idx]
	if runes := []rune(path); len(runes) > 70 {
		path = string(runes[:70])
	}
	checkbox := "[ ]"
	if m.selected[m.candidates[idx]] {
		checkbox = "[x]"
	}
	return fmt.Sprintf("%s %s", checkbox, path)
}
