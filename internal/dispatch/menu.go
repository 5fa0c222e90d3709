package dispatch

import (
	"fmt"

	"github.com/spaceagetv/electron-playwright-example/internal/ops"
)

// MenuItem is one entry in the application menu tree.
type MenuItem struct {
	// ID is the identifier menu operations look up. Items without an
	// id cannot be targeted but may still carry a submenu.
	ID string

	// Label is the human-readable text.
	Label string

	// Enabled and Checked mirror the framework's menu item state.
	Enabled bool
	Checked bool

	// Click is the item's activation action. May be nil for items that
	// only open a submenu.
	Click func()

	// Submenu holds nested items.
	Submenu []*MenuItem
}

// Attribute returns the named attribute's value.
func (item *MenuItem) Attribute(name string) (any, error) {
	switch name {
	case "id":
		return item.ID, nil
	case "label":
		return item.Label, nil
	case "enabled":
		return item.Enabled, nil
	case "checked":
		return item.Checked, nil
	default:
		return nil, &ops.Error{Code: ops.ErrCodeBadArgs, Message: fmt.Sprintf("unknown menu item attribute %q", name)}
	}
}

// Menu is the application's current menu tree.
type Menu struct {
	Items []*MenuItem
}

// FindByID returns the first item with the given id in depth-first
// order, or nil.
func (m *Menu) FindByID(id string) *MenuItem {
	if m == nil {
		return nil
	}
	return findByID(m.Items, id)
}

func findByID(items []*MenuItem, id string) *MenuItem {
	for _, item := range items {
		if item.ID == id {
			return item
		}
		if found := findByID(item.Submenu, id); found != nil {
			return found
		}
	}
	return nil
}

// ClickByID locates the item with the given id and invokes its
// activation action exactly once. Fails with MENU_ITEM_NOT_FOUND when
// the id is absent from the tree.
func (m *Menu) ClickByID(id string) error {
	item := m.FindByID(id)
	if item == nil {
		return &ops.Error{Code: ops.ErrCodeMenuItemNotFound, Message: fmt.Sprintf("no menu item with id %q", id)}
	}
	if item.Click != nil {
		item.Click()
	}
	return nil
}
