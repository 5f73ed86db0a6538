package extension

import "sync"

// TabRegistry tracks whether the extension UI is showing in each browser tab. There is one per
// process; entries are dropped when the tab closes.
type TabRegistry struct {
	mu      sync.RWMutex
	visible map[int]bool
}

// NewTabRegistry returns an empty registry.
func NewTabRegistry() *TabRegistry {
	return &TabRegistry{visible: make(map[int]bool)}
}

// Visible reports the tab's state; unknown tabs are hidden.
func (r *TabRegistry) Visible(tabID int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.visible[tabID]
}

// SetVisible records the tab's state.
func (r *TabRegistry) SetVisible(tabID int, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible[tabID] = visible
}

// Toggle flips the tab's state and returns the new value.
func (r *TabRegistry) Toggle(tabID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := !r.visible[tabID]
	r.visible[tabID] = v
	return v
}

// Remove forgets a closed tab.
func (r *TabRegistry) Remove(tabID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.visible, tabID)
}

// Len returns the number of tracked tabs.
func (r *TabRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.visible)
}

// Apply updates the registry for visibility messages and reports the tab's resulting state.
// Other messages leave it unchanged.
func (r *TabRegistry) Apply(msg RuntimeMessage) bool {
	tab := msg.Tab()
	switch msg.(type) {
	case *ShowExtension:
		return r.Toggle(tab)
	case *ExtensionUIShown:
		r.SetVisible(tab, true)
		return true
	case *ExtensionUIClosed:
		r.SetVisible(tab, false)
		return false
	case *TabClosed:
		r.Remove(tab)
		return false
	default:
		return r.Visible(tab)
	}
}
