package ui

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Gowri0016/Creator/internal/carousel"
	"github.com/Gowri0016/Creator/internal/catalog"
	"github.com/Gowri0016/Creator/internal/chrome"
	"github.com/Gowri0016/Creator/internal/events"
	custommw "github.com/Gowri0016/Creator/internal/httpserver/middleware"
	"github.com/Gowri0016/Creator/internal/observability"
	"github.com/Gowri0016/Creator/internal/view"
)

const defaultKeepAlive = 25 * time.Second

// ViewStore mounts and unmounts views. *view.Registry satisfies it.
type ViewStore interface {
	Mount(ctx context.Context) (*view.View, error)
	Unmount(id string) bool
}

// Subscriber opens per-view event streams. *events.Hub satisfies it.
type Subscriber interface {
	Subscribe(viewID string) (<-chan events.Event, func())
}

// Dependencies collects the collaborators of the UI handlers.
type Dependencies struct {
	Views     ViewStore
	Events    Subscriber
	Renderer  *Renderer
	KeepAlive time.Duration
	Clock     func() time.Time
}

// Handlers exposes the storefront page and its htmx fragments.
type Handlers struct {
	views     ViewStore
	events    Subscriber
	renderer  *Renderer
	keepAlive time.Duration
	clock     func() time.Time
}

// NewHandlers wires the UI handler set.
func NewHandlers(deps Dependencies) *Handlers {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	keepAlive := deps.KeepAlive
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &Handlers{
		views:     deps.Views,
		events:    deps.Events,
		renderer:  deps.Renderer,
		keepAlive: keepAlive,
		clock:     clock,
	}
}

// Home mounts a fresh view and renders the full page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	v, err := h.views.Mount(r.Context())
	if errors.Is(err, view.ErrTooManyViews) {
		w.Header().Set("Retry-After", "30")
		custommw.WriteError(w, r, http.StatusServiceUnavailable, "storefront is busy, try again shortly")
		return
	}
	if err != nil {
		custommw.WriteError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	observability.FromContext(r.Context()).Debug("page mounted", zap.String("view_id", v.ID))

	w.Header().Set("Cache-Control", "no-store")
	h.render(w, r, http.StatusOK, Part{Name: "base", Data: buildPage(v, h.clock())})
}

// FilterCategory sets the active category. Choosing a category also closes the mobile menu.
func (h *Handlers) FilterCategory(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	if err := r.ParseForm(); err != nil {
		custommw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	v.Browser.SetCategory(catalog.Category(r.PostForm.Get("category")))
	v.Header.CloseMenu()

	header := buildHeader(v)
	header.OOB = true
	h.render(w, r, http.StatusOK,
		Part{Name: "services", Data: buildServices(v)},
		Part{Name: "header", Data: header},
	)
}

// FilterSearch sets the search text.
func (h *Handlers) FilterSearch(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	if err := r.ParseForm(); err != nil {
		custommw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	v.Browser.SetSearchText(r.PostForm.Get("q"))
	h.render(w, r, http.StatusOK, Part{Name: "services", Data: buildServices(v)})
}

// CartAdd adds an item to the cart. Adding an item already in the cart changes nothing.
func (h *Handlers) CartAdd(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	id, ok := intParam(w, r, "itemID")
	if !ok {
		return
	}
	v.Cart.Add(r.Context(), id)
	h.renderCardWithHeader(w, r, v, id)
}

// CartToggle flips cart membership from the cart summary.
func (h *Handlers) CartToggle(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	id, ok := intParam(w, r, "itemID")
	if !ok {
		return
	}
	v.Cart.Toggle(id)

	header := buildHeader(v)
	header.OOB = true
	parts := []Part{
		{Name: "cart", Data: buildCart(v)},
		{Name: "header", Data: header},
	}
	if card, visible := visibleCard(v, id); visible {
		card.OOB = true
		parts = append(parts, Part{Name: "service_card", Data: card})
	}
	h.render(w, r, http.StatusOK, parts...)
}

// CartSummary renders the cart lines.
func (h *Handlers) CartSummary(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	h.render(w, r, http.StatusOK, Part{Name: "cart", Data: buildCart(v)})
}

// WishlistToggle flips wishlist membership.
func (h *Handlers) WishlistToggle(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	id, ok := intParam(w, r, "itemID")
	if !ok {
		return
	}
	v.Wishlist.Toggle(id)
	h.renderCardWithHeader(w, r, v, id)
}

// renderCardWithHeader answers a card action with the updated card and the header badges.
// A card hidden by the filter only refreshes the header.
func (h *Handlers) renderCardWithHeader(w http.ResponseWriter, r *http.Request, v *view.View, id int) {
	header := buildHeader(v)
	header.OOB = true
	parts := make([]Part, 0, 2)
	if card, visible := visibleCard(v, id); visible {
		parts = append(parts, Part{Name: "service_card", Data: card})
	} else {
		w.Header().Set("HX-Reswap", "none")
	}
	parts = append(parts, Part{Name: "header", Data: header})
	h.render(w, r, http.StatusOK, parts...)
}

// Carousel renders the banner at its current index.
func (h *Handlers) Carousel(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	h.render(w, r, http.StatusOK, Part{Name: "carousel", Data: buildCarousel(v)})
}

// CarouselSelect jumps to a slide without resetting the advance timer.
func (h *Handlers) CarouselSelect(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	index, ok := intParam(w, r, "index")
	if !ok {
		return
	}
	if err := v.Carousel.SelectIndex(index); err != nil {
		if errors.Is(err, carousel.ErrIndexOutOfRange) {
			custommw.WriteError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		custommw.WriteError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	h.render(w, r, http.StatusOK, Part{Name: "carousel", Data: buildCarousel(v)})
}

// LightboxOpen opens the viewer on a gallery image.
func (h *Handlers) LightboxOpen(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	id, ok := intParam(w, r, "imageID")
	if !ok {
		return
	}
	img, found := catalog.FindImage(v.Lightbox.Gallery(), id)
	if !found {
		custommw.WriteError(w, r, http.StatusNotFound, "image not found")
		return
	}
	v.Lightbox.Open(img)
	h.Lightbox(w, r)
}

// LightboxNext steps forward with wraparound.
func (h *Handlers) LightboxNext(w http.ResponseWriter, r *http.Request) {
	mustView(r).Lightbox.Next()
	h.Lightbox(w, r)
}

// LightboxPrev steps backward with wraparound.
func (h *Handlers) LightboxPrev(w http.ResponseWriter, r *http.Request) {
	mustView(r).Lightbox.Prev()
	h.Lightbox(w, r)
}

// LightboxClose hides the viewer; the selection clears after the grace delay.
func (h *Handlers) LightboxClose(w http.ResponseWriter, r *http.Request) {
	mustView(r).Lightbox.Close()
	h.Lightbox(w, r)
}

// Lightbox renders the overlay state.
func (h *Handlers) Lightbox(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	h.render(w, r, http.StatusOK, Part{Name: "lightbox", Data: buildLightbox(v)})
}

// HeaderToggle flips one of the header panels: menu, search or login.
func (h *Handlers) HeaderToggle(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	switch chi.URLParam(r, "panel") {
	case "menu":
		v.Header.ToggleMenu()
	case "search":
		v.Header.ToggleSearch()
	case "login":
		v.Header.ToggleLogin()
	default:
		custommw.WriteError(w, r, http.StatusNotFound, "unknown header panel")
		return
	}
	h.render(w, r, http.StatusOK, Part{Name: "header", Data: buildHeader(v)})
}

// Newsletter handles the footer subscription form.
func (h *Handlers) Newsletter(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	if err := r.ParseForm(); err != nil {
		custommw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	email := r.PostForm.Get("email")
	vm := NewsletterVM{ViewID: v.ID}
	status := http.StatusOK
	if err := v.Newsletter.Subscribe(email); err != nil {
		if !errors.Is(err, chrome.ErrInvalidEmail) {
			custommw.WriteError(w, r, http.StatusInternalServerError, err.Error())
			return
		}
		vm.Error = "Please enter a valid email address."
		vm.Email = email
		status = http.StatusUnprocessableEntity
	}
	vm.Subscribed = v.Newsletter.Subscribed()
	h.render(w, r, status, Part{Name: "newsletter", Data: vm})
}

// Events streams the view's flight and carousel events as Server-Sent Events.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	ch, cancel := h.events.Subscribe(v.ID)
	defer cancel()
	events.ServeSSE(w, r, ch, h.keepAlive)
}

// Unmount ends the view; its timers stop and its event streams close.
func (h *Handlers) Unmount(w http.ResponseWriter, r *http.Request) {
	v := mustView(r)
	h.views.Unmount(v.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, parts ...Part) {
	if err := h.renderer.Render(w, status, parts...); err != nil {
		custommw.WriteError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func mustView(r *http.Request) *view.View {
	v, ok := custommw.ViewFromContext(r.Context())
	if !ok {
		panic("ui: view handler mounted without LoadView")
	}
	return v
}

func visibleCard(v *view.View, id int) (ServiceVM, bool) {
	for _, item := range v.Visible() {
		if item.ID == id {
			return buildService(v, item), true
		}
	}
	return ServiceVM{}, false
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		custommw.WriteError(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return n, true
}
