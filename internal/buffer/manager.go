package buffer

import "fmt"

// Manager is a ring of Buffers with "current" and "previous" indices,
// generalizing BreachLine's tab map (app/app.go's
// `tabs map[string]*FileTab` + activeTabID) from an unordered map to an
// ordered ring, needed here for quick-switching between the two most
// recently active buffers.
type Manager struct {
	buffers  []*Buffer
	current  int
	previous int
}

func NewManager() *Manager {
	return &Manager{current: -1, previous: -1}
}

// Add appends buf, making it current and the previously-current buffer
// becomes previous.
func (m *Manager) Add(buf *Buffer) {
	m.buffers = append(m.buffers, buf)
	if m.current >= 0 {
		m.previous = m.current
	}
	m.current = len(m.buffers) - 1
}

// Close removes the buffer at index i, refused if only one remains.
func (m *Manager) Close(i int) error {
	if len(m.buffers) <= 1 {
		return fmt.Errorf("buffer: refusing to close the last buffer")
	}
	if i < 0 || i >= len(m.buffers) {
		return fmt.Errorf("buffer: index %d out of range", i)
	}
	m.buffers = append(m.buffers[:i], m.buffers[i+1:]...)
	if m.current >= len(m.buffers) {
		m.current = len(m.buffers) - 1
	} else if m.current > i {
		m.current--
	}
	if m.previous >= len(m.buffers) {
		m.previous = m.current
	} else if m.previous > i {
		m.previous--
	}
	return nil
}

// Current returns the active buffer, or nil if the manager is empty.
func (m *Manager) Current() *Buffer {
	if m.current < 0 || m.current >= len(m.buffers) {
		return nil
	}
	return m.buffers[m.current]
}

func (m *Manager) CurrentIndex() int { return m.current }

func (m *Manager) Len() int { return len(m.buffers) }

func (m *Manager) At(i int) *Buffer {
	if i < 0 || i >= len(m.buffers) {
		return nil
	}
	return m.buffers[i]
}

// SwitchTo makes buffer i current, the prior current becomes previous.
func (m *Manager) SwitchTo(i int) error {
	if i < 0 || i >= len(m.buffers) {
		return fmt.Errorf("buffer: index %d out of range", i)
	}
	if i == m.current {
		return nil
	}
	m.previous = m.current
	m.current = i
	return nil
}

// Next switches to the buffer following current, wrapping around.
func (m *Manager) Next() error {
	if len(m.buffers) == 0 {
		return fmt.Errorf("buffer: manager is empty")
	}
	return m.SwitchTo((m.current + 1) % len(m.buffers))
}

// Previous switches to the buffer before current, wrapping around.
func (m *Manager) Previous() error {
	if len(m.buffers) == 0 {
		return fmt.Errorf("buffer: manager is empty")
	}
	return m.SwitchTo((m.current - 1 + len(m.buffers)) % len(m.buffers))
}

// QuickSwitch swaps current and previous.
func (m *Manager) QuickSwitch() error {
	if m.previous < 0 || m.previous >= len(m.buffers) {
		return fmt.Errorf("buffer: no previous buffer to switch to")
	}
	return m.SwitchTo(m.previous)
}
