// Package tauri provides typed frontend bindings for host-resident
// resources reached through an invoke transport.
//
// The module is organized by concern:
//
//   - core: the transport contract, typed invoke helpers, event channels
//     and their registry, and the channel reference wire marker
//   - menu: proxies for host menus and menu items
//   - window: window labels and positions used as popup targets
//   - bridge: a concrete transport speaking length-prefixed CBOR frames
//     over a byte stream, with handshake, limits, and ordered event
//     delivery
//
// Applications embed the host side; this package is the frontend half of
// the conversation.
package tauri
