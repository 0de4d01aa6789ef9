// Package clipboard provides the text clipboard used by cut, copy and paste.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	sysclip "github.com/atotto/clipboard"
)

// ErrUnavailable is returned when the system clipboard cannot be reached.
var ErrUnavailable = errors.New("clipboard: unavailable")

// Clipboard reads and writes plain text.
type Clipboard interface {
	Text() (string, error)
	SetText(text string) error
}

// Memory is an in-process clipboard. The zero value is empty and ready to
// use.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory creates an in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// Text returns the stored text.
func (m *Memory) Text() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// SetText stores text.
func (m *Memory) SetText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// System is the operating system clipboard.
type System struct{}

// Text reads the system clipboard.
func (System) Text() (string, error) {
	if sysclip.Unsupported {
		return "", ErrUnavailable
	}
	s, err := sysclip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s, nil
}

// SetText writes the system clipboard.
func (System) SetText(text string) error {
	if sysclip.Unsupported {
		return ErrUnavailable
	}
	if err := sysclip.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Fallback writes to both Primary and Secondary and reads from Primary,
// falling back to Secondary when Primary fails. It lets an editor keep a
// working clipboard on headless machines.
type Fallback struct {
	Primary   Clipboard
	Secondary Clipboard
}

// NewSystem returns the system clipboard backed by an in-process copy.
func NewSystem() *Fallback {
	return &Fallback{Primary: System{}, Secondary: NewMemory()}
}

// Text reads Primary, or Secondary if Primary fails.
func (f *Fallback) Text() (string, error) {
	if s, err := f.Primary.Text(); err == nil {
		return s, nil
	}
	return f.Secondary.Text()
}

// SetText writes both clipboards. It only fails if both fail.
func (f *Fallback) SetText(text string) error {
	errPrimary := f.Primary.SetText(text)
	errSecondary := f.Secondary.SetText(text)
	if errPrimary != nil && errSecondary != nil {
		return errors.Join(errPrimary, errSecondary)
	}
	return nil
}
