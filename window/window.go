// Package window holds the window-facing types the menu proxies reference.
// Window management itself lives in the host; this package only names
// windows and positions so operations like popup can target them.
package window

// Label identifies a host window. Empty means the host's current window.
type Label string

// Position is a point relative to a window's top-left corner.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}
