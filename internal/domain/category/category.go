// Package category resolves storefront categories and the fixed Kids Clothing
// subcategory taxonomy layered over them.
package category

import (
	"slices"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no category matches a lookup.
var ErrNotFound = errors.New("category not found")

// KidsClothing is the only category carrying subcategories.
const KidsClothing = "Kids Clothing"

// DefaultIcon is used for names missing from the icon table.
const DefaultIcon = "Tag"

// Subcategory is an age band below a category.
type Subcategory struct {
	ID   int64
	Key  string
	Name string
	Icon string
}

// Category is a storefront category. Subcategories is never nil.
type Category struct {
	ID            int64
	Key           string
	Name          string
	Icon          string
	Subcategories []Subcategory
}

// HasChildren reports whether the category has subcategories.
func (c Category) HasChildren() bool {
	return len(c.Subcategories) > 0
}

var kidsClothingSubcategories = []Subcategory{
	{ID: 31, Key: "baby", Name: "Baby (0-2)", Icon: "Baby"},
	{ID: 32, Key: "toddler", Name: "Toddler (2-4)", Icon: "Smile"},
	{ID: 33, Key: "kids", Name: "Kids (4-8)", Icon: "User"},
	{ID: 34, Key: "teen", Name: "Teen (8+)", Icon: "UserCircle"},
}

var icons = map[string]string{
	"Flash Sales":  "Flame",
	KidsClothing:   "Shirt",
	"Accessories":  "Watch",
	"Toys":         "Gamepad2",
	"Home Goods":   "Home",
	"Mom & Dad":    "Users",
	"All Products": "Grid3x3",
}

// Subcategories returns the subcategories of the named category. Only Kids
// Clothing has any; every other name yields an empty list.
func Subcategories(name string) []Subcategory {
	if !HasSubcategories(name) {
		return []Subcategory{}
	}
	return slices.Clone(kidsClothingSubcategories)
}

// HasSubcategories reports whether the named category has subcategories.
func HasSubcategories(name string) bool {
	return name == KidsClothing
}

// ParentOf returns the name of the category owning the subcategory.
func ParentOf(subcategory string) (string, bool) {
	for _, s := range kidsClothingSubcategories {
		if s.Name == subcategory || s.Key == subcategory {
			return KidsClothing, true
		}
	}
	return "", false
}

// Icon resolves a category or subcategory name to its icon, falling back to
// DefaultIcon.
func Icon(name string) string {
	if icon, ok := icons[name]; ok {
		return icon
	}
	for _, s := range kidsClothingSubcategories {
		if s.Name == name {
			return s.Icon
		}
	}
	return DefaultIcon
}

// overlay applies the fixed taxonomy. Backend-supplied subcategories are
// ignored.
func overlay(c Category, backendName string) Category {
	if c.Name == KidsClothing || backendName == KidsClothing {
		c.Subcategories = slices.Clone(kidsClothingSubcategories)
	} else {
		c.Subcategories = []Subcategory{}
	}
	if c.Icon == "" {
		c.Icon = Icon(c.Name)
	}
	return c
}
