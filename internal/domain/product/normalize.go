package product

import (
	"fmt"
	"slices"
	"strings"
)

// imageVariantSuffixes are inserted before the ".jpg" extension of the
// primary image to address the alternate shots of a product.
var imageVariantSuffixes = []string{"-2", "-3", "-lifestyle", "-detail"}

// clothingSizes are offered for every Kids Clothing product.
var clothingSizes = []string{"XS", "S", "M", "L", "XL"}

const descriptionTemplate = "This high-quality %s item is perfect for kids and families. " +
	"Made with care and attention to detail, it offers great value and lasting durability. " +
	"Ideal for everyday use or special occasions, this product combines style, comfort, " +
	"and functionality in one package."

// Normalize builds the view model of a product record. It never fails:
// missing fields fall back to defaults and empty collections.
func Normalize(raw RawProduct) Product {
	category := raw.Category.Name
	if category == "" {
		category = CategoryKidsClothing
	}

	p := Product{
		ID:                 raw.ID,
		Name:               raw.Name,
		Title:              raw.Title,
		Price:              raw.Price,
		SalePrice:          raw.SalePrice,
		Image:              raw.Image,
		CategoryID:         raw.Category.ID,
		Category:           category,
		Subcategory:        raw.Subcategory,
		Description:        raw.Description,
		SizeRecommendation: raw.SizeRecommendation,
		InStock:            raw.InStock,
		StockLevel:         raw.StockLevel,
		SizeStock:          raw.SizeStock.Map(),

		StockStatus:     Classify(raw.StockLevel),
		Images:          imageSet(raw.Image),
		FullDescription: fullDescription(raw.Description, category),
		AgeRange:        ageRange(raw.Subcategory, category),
	}
	if category == CategoryKidsClothing {
		p.Sizes = slices.Clone(clothingSizes)
	}
	return p
}

// imageSet returns the primary image followed by its variants. A reference
// without a ".jpg" extension yields the primary for every variant.
func imageSet(primary string) []string {
	if primary == "" {
		return []string{}
	}
	images := make([]string, 0, len(imageVariantSuffixes)+1)
	images = append(images, primary)
	for _, suffix := range imageVariantSuffixes {
		images = append(images, imageVariant(primary, suffix))
	}
	return images
}

func imageVariant(primary, suffix string) string {
	const ext = ".jpg"
	if !strings.Contains(primary, ext) {
		return primary
	}
	return strings.Replace(primary, ext, suffix+ext, 1)
}

func fullDescription(description, category string) string {
	tail := fmt.Sprintf(descriptionTemplate, strings.ToLower(category))
	if description == "" {
		return tail
	}
	return description + " " + tail
}

// ageRange prefers the subcategory label, then a category default.
func ageRange(subcategory, category string) string {
	switch {
	case subcategory != "":
		return subcategory
	case category == CategoryToys:
		return "3-8 years"
	case category == CategoryKidsClothing:
		return "2-12 years"
	default:
		return "All ages"
	}
}
