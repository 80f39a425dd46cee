package refresh

import "sync"

// Navigator redirects the user, e.g. to the login page.
type Navigator interface {
	// Location returns the current path.
	Location() string
	// Navigate moves to path.
	Navigate(path string)
}

// MemoryNavigator records the current location in memory.
type MemoryNavigator struct {
	mu      sync.Mutex
	current string
	visits  []string
	// OnNavigate, if set, is called after every navigation.
	OnNavigate func(path string)
}

// NewMemoryNavigator returns a navigator positioned at start.
func NewMemoryNavigator(start string) *MemoryNavigator {
	return &MemoryNavigator{current: start}
}

func (n *MemoryNavigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *MemoryNavigator) Navigate(path string) {
	n.mu.Lock()
	n.current = path
	n.visits = append(n.visits, path)
	hook := n.OnNavigate
	n.mu.Unlock()
	if hook != nil {
		hook(path)
	}
}

// Visits returns every path navigated to, in order.
func (n *MemoryNavigator) Visits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visits...)
}
