package menu

// ItemKind disambiguates which concrete resource type a handle refers to.
// Handles are type-erased on the host side, so every operation that could
// apply to multiple kinds carries one of these tags alongside the handle —
// the kind is never inferred from the handle's numeric value.
type ItemKind string

const (
	KindMenu       ItemKind = "Menu"
	KindMenuItem   ItemKind = "MenuItem"
	KindPredefined ItemKind = "Predefined"
	KindCheck      ItemKind = "Check"
	KindIcon       ItemKind = "Icon"
	KindSubmenu    ItemKind = "Submenu"
)

// Valid reports whether k is one of the closed set of kinds.
func (k ItemKind) Valid() bool {
	switch k {
	case KindMenu, KindMenuItem, KindPredefined, KindCheck, KindIcon, KindSubmenu:
		return true
	}
	return false
}
