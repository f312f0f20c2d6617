// Package picker implements the interactive terminal file selector. It
// satisfies the engine's FileSelector interface; the engine itself never
// touches the terminal.
package picker

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"contextree/pkg/tree"
)

// Picker is a full-screen checkbox selector over the eligible-file list.
type Picker struct {
	in       *os.File
	out      *os.File
	pageSize int
}

// New returns a Picker bound to the process terminal.
func New() *Picker {
	return &Picker{in: os.Stdin, out: os.Stdout, pageSize: 15}
}

// SelectFiles runs the selection loop in raw mode and returns the chosen
// set of absolute paths. Cancellation (esc or q) returns tree.ErrCanceled.
func (p *Picker) SelectFiles(candidates []string) (map[string]bool, error) {
	if len(candidates) == 0 {
		return map[string]bool{}, nil
	}

	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("interactive selection requires a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	m := newModel(candidates, p.pageSize)
	reader := bufio.NewReader(p.in)

	for {
		p.draw(m)

		key, err := readKey(reader)
		if err != nil {
			return nil, fmt.Errorf("read key: %w", err)
		}

		done, canceled := m.handle(key)
		if canceled {
			p.clear()
			return nil, tree.ErrCanceled
		}
		if done {
			p.clear()
			return m.selected, nil
		}
	}
}

func (p *Picker) clear() {
	fmt.Fprint(p.out, "\x1b[2J\x1b[H")
}

// draw repaints the whole screen. Raw mode needs explicit \r\n endings.
func (p *Picker) draw(m *model) {
	p.clear()
	fmt.Fprint(p.out, "Use ↑/↓/j/k to scroll, SPACE to toggle, 'a' to toggle all, ENTER to confirm, ESC to cancel\r\n")
	fmt.Fprint(p.out, dividerLine+"\r\n")

	for idx := 0; idx < m.pageSize; idx++ {
		fileIdx := m.offset + idx
		if fileIdx >= len(m.candidates) {
			break
		}
		line := m.renderRow(fileIdx)
		if fileIdx == m.cursor {
			fmt.Fprintf(p.out, "\x1b[7m%s\x1b[0m\r\n", line)
		} else {
			fmt.Fprintf(p.out, "%s\r\n", line)
		}
	}

	fmt.Fprint(p.out, dividerLine+"\r\n")
	fmt.Fprintf(p.out, "Selected: %d / %d\r\n", len(m.selected), len(m.candidates))
}

const dividerLine = "--------------------------------------------------------------------------------"

// key is one decoded input event.
type key int

const (
	keyNone key = iota
	keyUp
	keyDown
	keySpace
	keyToggleAll
	keyEnter
	keyCancel
)

// readKey decodes one key press, translating the arrow-key escape
// sequences and treating a bare escape as cancel.
func readKey(reader *bufio.Reader) (key, error) {
	b, err := reader.ReadByte()
	if err != nil {
		return keyNone, err
	}

	switch b {
	case 0x1b:
		if reader.Buffered() == 0 {
			return keyCancel, nil
		}
		next, err := reader.ReadByte()
		if err != nil {
			return keyNone, err
		}
		if next != '[' {
			return keyCancel, nil
		}
		final, err := reader.ReadByte()
		if err != nil {
			return keyNone, err
		}
		switch final {
		case 'A':
			return keyUp, nil
		case 'B':
			return keyDown, nil
		}
		return keyNone, nil
	case ' ':
		return keySpace, nil
	case 'a':
		return keyToggleAll, nil
	case 'j':
		return keyDown, nil
	case 'k':
		return keyUp, nil
	case 'q':
		return keyCancel, nil
	case '\r', '\n':
		return keyEnter, nil
	case 0x03: // ctrl-c
		return keyCancel, nil
	}
	return keyNone, nil
}
