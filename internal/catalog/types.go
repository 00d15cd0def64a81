// Package catalog holds the immutable storefront records and the catalog filter.
package catalog

// Category labels a catalog item. CategoryAll is the wildcard.
type Category string

// CategoryAll matches every item.
const CategoryAll Category = "All"

// Categories is the default category bar, wildcard first.
var Categories = []Category{CategoryAll, "Wedding", "Visiting", "Logo", "Brochure", "Business", "Social"}

// CatalogItem is a service offered by the studio.
type CatalogItem struct {
	ID          int
	Name        string
	Description string
	Price       string
	Category    Category
	ImageRef    string
	Icon        string
}

// GalleryImage is a portfolio image shown in the gallery and the lightbox.
type GalleryImage struct {
	ID       int
	Src      string
	Category string
	Title    string
}

// Slide is a promotional banner slide.
type Slide struct {
	ID       int
	Title    string
	Subtitle string
	Image    string
	Tone     string
}

// FindItem returns the item with the given id.
func FindItem(items []CatalogItem, id int) (CatalogItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// FindImage returns the gallery image with the given id.
func FindImage(images []GalleryImage, id int) (GalleryImage, bool) {
	for _, img := range images {
		if img.ID == id {
			return img, true
		}
	}
	return GalleryImage{}, false
}
