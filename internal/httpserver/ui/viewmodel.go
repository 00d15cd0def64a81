package ui

import (
	"html/template"
	"time"

	"github.com/Gowri0016/Creator/internal/catalog"
	"github.com/Gowri0016/Creator/internal/chrome"
	"github.com/Gowri0016/Creator/internal/ledger"
	"github.com/Gowri0016/Creator/internal/view"
)

// PageData is the full-page model.
type PageData struct {
	ViewID     string
	Brand      string
	Tagline    string
	Year       int
	Header     HeaderVM
	Carousel   CarouselVM
	Services   ServicesVM
	Cart       CartVM
	Gallery    []GalleryVM
	Lightbox   LightboxVM
	Newsletter NewsletterVM
}

// HeaderVM drives the header fragment, including the cart and wishlist badges.
type HeaderVM struct {
	ViewID        string
	Brand         string
	State         chrome.HeaderState
	Categories    []CategoryVM
	Search        string
	CartCount     int
	WishlistCount int
	OOB           bool
}

// CategoryVM is one category button.
type CategoryVM struct {
	Name   string
	Active bool
}

// CarouselVM drives the banner.
type CarouselVM struct {
	ViewID  string
	Current int
	Slides  []SlideVM
}

// SlideVM is one banner slide.
type SlideVM struct {
	Index    int
	Title    string
	Subtitle string
	Image    string
	Tone     string
	Active   bool
}

// ServicesVM is the filtered services grid.
type ServicesVM struct {
	ViewID string
	Search string
	Items  []ServiceVM
}

// ServiceVM is one service card.
type ServiceVM struct {
	ViewID      string
	ID          int
	Name        string
	Description template.HTML
	Price       string
	Category    string
	Image       string
	Icon        string
	AddAnchor   string
	InCart      bool
	Wishlisted  bool
	OOB         bool
}

// CartVM is the cart summary.
type CartVM struct {
	ViewID string
	Count  int
	Lines  []ServiceVM
	Anchor string
}

// GalleryVM is one portfolio tile.
type GalleryVM struct {
	ViewID   string
	ID       int
	Src      string
	Title    string
	Category string
}

// LightboxVM is the overlay. Closing is set while the grace delay keeps the last
// selection drawable.
type LightboxVM struct {
	ViewID   string
	Open     bool
	Closing  bool
	Selected *GalleryVM
}

// NewsletterVM is the footer form.
type NewsletterVM struct {
	ViewID     string
	Subscribed bool
	Error      string
	Email      string
}

func buildPage(v *view.View, now time.Time) PageData {
	return PageData{
		ViewID:     v.ID,
		Brand:      v.Content.Brand,
		Tagline:    v.Content.Tagline,
		Year:       now.Year(),
		Header:     buildHeader(v),
		Carousel:   buildCarousel(v),
		Services:   buildServices(v),
		Cart:       buildCart(v),
		Gallery:    buildGallery(v),
		Lightbox:   buildLightbox(v),
		Newsletter: NewsletterVM{ViewID: v.ID, Subscribed: v.Newsletter.Subscribed()},
	}
}

func buildCategories(v *view.View) []CategoryVM {
	active := v.Browser.Criteria().Category
	out := make([]CategoryVM, 0, len(v.Content.Categories))
	for _, c := range v.Content.Categories {
		out = append(out, CategoryVM{Name: string(c), Active: c == active})
	}
	return out
}

func buildHeader(v *view.View) HeaderVM {
	return HeaderVM{
		ViewID:        v.ID,
		Brand:         v.Content.Brand,
		State:         v.Header.State(),
		Categories:    buildCategories(v),
		Search:        v.Browser.Criteria().SearchText,
		CartCount:     v.Cart.Count(),
		WishlistCount: v.Wishlist.Count(),
	}
}

func buildCarousel(v *view.View) CarouselVM {
	current := v.Carousel.Current()
	slides := make([]SlideVM, 0, len(v.Content.Slides))
	for i, s := range v.Content.Slides {
		slides = append(slides, SlideVM{
			Index:    i,
			Title:    s.Title,
			Subtitle: s.Subtitle,
			Image:    s.Image,
			Tone:     s.Tone,
			Active:   i == current,
		})
	}
	return CarouselVM{ViewID: v.ID, Current: current, Slides: slides}
}

func buildServices(v *view.View) ServicesVM {
	visible := v.Visible()
	items := make([]ServiceVM, 0, len(visible))
	for _, item := range visible {
		items = append(items, buildService(v, item))
	}
	return ServicesVM{
		ViewID: v.ID,
		Search: v.Browser.Criteria().SearchText,
		Items:  items,
	}
}

func buildService(v *view.View, item catalog.CatalogItem) ServiceVM {
	return ServiceVM{
		ViewID:      v.ID,
		ID:          item.ID,
		Name:        item.Name,
		Description: v.Content.DescriptionHTML(item.ID),
		Price:       item.Price,
		Category:    string(item.Category),
		Image:       item.ImageRef,
		Icon:        item.Icon,
		AddAnchor:   ledger.AddButtonAnchor(item.ID),
		InCart:      v.Cart.Contains(item.ID),
		Wishlisted:  v.Wishlist.Contains(item.ID),
	}
}

func buildCart(v *view.View) CartVM {
	lines := v.Cart.Lines(v.Content.Services)
	out := make([]ServiceVM, 0, len(lines))
	for _, item := range lines {
		out = append(out, buildService(v, item))
	}
	return CartVM{ViewID: v.ID, Count: v.Cart.Count(), Lines: out, Anchor: ledger.CartAnchor}
}

func buildGallery(v *view.View) []GalleryVM {
	out := make([]GalleryVM, 0, len(v.Content.Gallery))
	for _, img := range v.Content.Gallery {
		out = append(out, galleryVM(v.ID, img))
	}
	return out
}

func galleryVM(viewID string, img catalog.GalleryImage) GalleryVM {
	return GalleryVM{ViewID: viewID, ID: img.ID, Src: img.Src, Title: img.Title, Category: img.Category}
}

func buildLightbox(v *view.View) LightboxVM {
	state := v.Lightbox.State()
	vm := LightboxVM{ViewID: v.ID, Open: state.Open}
	if state.Selected != nil {
		sel := galleryVM(v.ID, *state.Selected)
		vm.Selected = &sel
		vm.Closing = !state.Open
	}
	return vm
}
