package menu

// ID is an application-chosen or host-generated identifier for an entity,
// stable across its lifetime and independent of its resource handle.
type ID string

// MenuOptions configures a new Menu. All fields are optional; nil pointers
// serialize as null so the host decides the default.
type MenuOptions struct {
	// ID to use for the new menu.
	ID *ID `json:"id"`
}

// NewMenuOptions returns empty menu options.
func NewMenuOptions() MenuOptions {
	return MenuOptions{}
}

// SetID specifies an id for the new menu.
func (o *MenuOptions) SetID(id ID) *MenuOptions {
	o.ID = &id
	return o
}

// ItemOptions configures a new MenuItem. Text is required; every other
// field is optional and serializes as null when unset — absent means "let
// the host decide", never a client-side default guess.
type ItemOptions struct {
	// ID to use for the new menu item.
	ID *ID `json:"id"`

	// Text of the new menu item.
	Text string `json:"text"`

	// Enabled controls whether the new menu item is enabled.
	Enabled *bool `json:"enabled"`

	// Accelerator for the new menu item, in the host platform's format.
	// Not validated on this side.
	Accelerator *string `json:"accelerator"`
}

// NewItemOptions returns item options with the required text set.
func NewItemOptions(text string) ItemOptions {
	return ItemOptions{Text: text}
}

// SetID specifies an id for the new menu item.
func (o *ItemOptions) SetID(id ID) *ItemOptions {
	o.ID = &id
	return o
}

// SetEnabled specifies whether the new menu item is enabled.
func (o *ItemOptions) SetEnabled(enabled bool) *ItemOptions {
	o.Enabled = &enabled
	return o
}

// SetAccelerator specifies an accelerator for the new menu item.
func (o *ItemOptions) SetAccelerator(accelerator string) *ItemOptions {
	o.Accelerator = &accelerator
	return o
}
