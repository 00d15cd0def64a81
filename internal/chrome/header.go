// Package chrome holds the page chrome state around the catalog: header toggles and the
// footer newsletter form.
package chrome

import "sync"

// HeaderState is a snapshot of the header toggles.
type HeaderState struct {
	MenuOpen   bool
	SearchOpen bool
	LoggedIn   bool
}

// Header tracks the mobile menu, the search panel and the cosmetic login toggle.
type Header struct {
	mu    sync.Mutex
	state HeaderState
}

// NewHeader returns a header with everything closed and logged out.
func NewHeader() *Header {
	return &Header{}
}

// ToggleMenu flips the mobile menu.
func (h *Header) ToggleMenu() HeaderState {
	return h.update(func(s *HeaderState) { s.MenuOpen = !s.MenuOpen })
}

// CloseMenu closes the mobile menu.
func (h *Header) CloseMenu() HeaderState {
	return h.update(func(s *HeaderState) { s.MenuOpen = false })
}

// ToggleSearch flips the compact search panel.
func (h *Header) ToggleSearch() HeaderState {
	return h.update(func(s *HeaderState) { s.SearchOpen = !s.SearchOpen })
}

// ToggleLogin flips the login label. No credentials are involved.
func (h *Header) ToggleLogin() HeaderState {
	return h.update(func(s *HeaderState) { s.LoggedIn = !s.LoggedIn })
}

// State returns the current toggles.
func (h *Header) State() HeaderState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Header) update(fn func(*HeaderState)) HeaderState {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.state)
	return h.state
}
