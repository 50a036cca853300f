package menu

import (
	"context"

	"github.com/Hodkinson/tauri-sys/core"
	"github.com/Hodkinson/tauri-sys/window"
)

// Menu is a frontend proxy for a host-resident menu. It holds the opaque
// resource handle returned at creation, the entity id, and (unless created
// as the default menu) an event channel for host-originated notifications.
// The handle and id never change for the life of the proxy.
type Menu struct {
	tx      core.Transport
	rid     core.ResourceID
	id      ID
	channel *core.Channel[string]
}

// New creates a menu on the host with the given options. The freshly
// allocated event channel is registered atomically with the creation call:
// its marker rides inside the request, and on failure the channel is torn
// down and no proxy is returned.
func New(ctx context.Context, tx core.Transport, options MenuOptions) (*Menu, error) {
	channel := core.NewChannel[string]()

	response, err := core.Invoke[createResponse](ctx, tx, opNew, createArgs{
		Kind:    KindMenu,
		Options: options,
		Handler: channel.Ref(),
	})
	if err != nil {
		channel.Close()
		return nil, err
	}

	return &Menu{tx: tx, rid: response.RID, id: response.ID, channel: channel}, nil
}

// NewWithID creates a menu with an application-chosen id.
func NewWithID(ctx context.Context, tx core.Transport, id ID) (*Menu, error) {
	options := NewMenuOptions()
	options.SetID(id)
	return New(ctx, tx, options)
}

// Default returns a proxy for the host's default menu. Default menus emit
// no events, so no channel is allocated and Listen returns nil.
func Default(ctx context.Context, tx core.Transport) (*Menu, error) {
	response, err := core.Invoke[createResponse](ctx, tx, opCreateDefault, nil)
	if err != nil {
		return nil, err
	}
	return &Menu{tx: tx, rid: response.RID, id: response.ID}, nil
}

// RID returns the menu's resource handle. Pure accessor, no transport.
func (m *Menu) RID() core.ResourceID {
	return m.rid
}

// ID returns the menu's entity id as assigned by the create response.
func (m *Menu) ID() ID {
	return m.id
}

// Kind returns the static kind tag used as the request discriminator.
func (m *Menu) Kind() ItemKind {
	return KindMenu
}

// AppendItems appends items to the menu in one request, sending each as a
// (handle, kind) pair. The host may refuse — an invalid child, or one
// already attached elsewhere — in which case ErrHostRejected is returned
// with no further detail and the mutation did not take effect.
func (m *Menu) AppendItems(ctx context.Context, items ...*MenuItem) error {
	entries := make([]appendEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, appendEntry{rid: item.RID(), kind: item.Kind()})
	}
	return core.InvokeResult(ctx, m.tx, opAppend, appendArgs{
		RID:   m.rid,
		Kind:  m.Kind(),
		Items: entries,
	})
}

// PopupOptions targets a popup. The zero value means "current window,
// default location".
type PopupOptions struct {
	// Window to pop up on. Nil targets the current window.
	Window *window.Label

	// At is the anchor position relative to the window's top-left corner.
	// Nil lets the host pick the location.
	At *window.Position
}

// Popup shows this menu as a context menu.
func (m *Menu) Popup(ctx context.Context, options PopupOptions) error {
	return core.InvokeResult(ctx, m.tx, opPopup, popupArgs{
		RID:    m.rid,
		Kind:   m.Kind(),
		Window: options.Window,
		At:     options.At,
	})
}

// Listen returns the menu's event channel for draining incoming envelopes.
// No transport call is made. Returns nil for menus created with Default.
func (m *Menu) Listen() *core.Channel[string] {
	return m.channel
}

// Close releases the proxy's frontend resources. The current host protocol
// defines no disposal call, so the host-side menu outlives the proxy; this
// method exists so a future host that supports release can be integrated
// without an interface break.
func (m *Menu) Close() error {
	if m.channel != nil {
		m.channel.Close()
	}
	return nil
}
