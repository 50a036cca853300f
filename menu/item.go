package menu

import (
	"context"

	"github.com/Hodkinson/tauri-sys/core"
)

// MenuItem is a frontend proxy for a host-resident menu item. Items always
// own an event channel: the host emits an envelope on it when the item is
// activated.
type MenuItem struct {
	tx      core.Transport
	rid     core.ResourceID
	id      ID
	channel *core.Channel[string]
}

// NewItem creates a menu item on the host. Text is required; unset optional
// fields are sent as null so the host applies its own defaults. On failure
// the channel is torn down and no proxy is returned.
func NewItem(ctx context.Context, tx core.Transport, options ItemOptions) (*MenuItem, error) {
	channel := core.NewChannel[string]()

	response, err := core.Invoke[createResponse](ctx, tx, opNew, createArgs{
		Kind:    KindMenuItem,
		Options: options,
		Handler: channel.Ref(),
	})
	if err != nil {
		channel.Close()
		return nil, err
	}

	return &MenuItem{tx: tx, rid: response.RID, id: response.ID, channel: channel}, nil
}

// NewItemWithID creates a menu item with the given text and an
// application-chosen id.
func NewItemWithID(ctx context.Context, tx core.Transport, text string, id ID) (*MenuItem, error) {
	options := NewItemOptions(text)
	options.SetID(id)
	return NewItem(ctx, tx, options)
}

// RID returns the item's resource handle. Pure accessor, no transport.
func (i *MenuItem) RID() core.ResourceID {
	return i.rid
}

// ID returns the item's entity id as assigned by the create response.
func (i *MenuItem) ID() ID {
	return i.id
}

// Kind returns the static kind tag used as the request discriminator.
func (i *MenuItem) Kind() ItemKind {
	return KindMenuItem
}

// Listen returns the item's event channel. Activation envelopes may arrive
// any time after creation succeeded, independent of pending requests.
func (i *MenuItem) Listen() *core.Channel[string] {
	return i.channel
}

// Close releases the proxy's frontend resources. See Menu.Close for the
// protocol asymmetry note.
func (i *MenuItem) Close() error {
	i.channel.Close()
	return nil
}
