package httpserver_test

import (
	"bufio"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/Gowri0016/Creator/internal/testutil"
)

type response struct {
	status int
	header http.Header
	body   []byte
}

func do(t *testing.T, method, target string, form url.Values) response {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: payload}
}

func (r response) doc(t *testing.T) *goquery.Document {
	t.Helper()
	return testutil.ParseHTML(t, r.body)
}

// mount loads the page and returns the view base path.
func mount(t *testing.T, sf *testutil.Storefront) (string, *goquery.Document) {
	t.Helper()

	resp, err := http.Get(sf.Server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	doc := testutil.ParseHTML(t, body)

	return sf.Server.URL + "/v/" + testutil.ViewID(t, doc), doc
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	resp := do(t, http.MethodGet, sf.Server.URL+"/healthz", nil)
	require.Equal(t, http.StatusOK, resp.status)
	require.Equal(t, "ok", string(resp.body))
}

func TestHomeRendersFreshView(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	_, doc := mount(t, sf)

	require.Equal(t, 1, sf.Registry.Len())
	require.Contains(t, doc.Find("title").Text(), "Creato.in")
	require.Equal(t, len(sf.Content.Slides), doc.Find("#carousel .slide").Length())
	require.Equal(t, "0", doc.Find("#carousel .slide.active").AttrOr("data-index", ""))
	require.Equal(t, len(sf.Content.Services), doc.Find("#services article.card").Length())
	require.Equal(t, len(sf.Content.Gallery), doc.Find("#gallery .tile").Length())
	require.Equal(t, "0", doc.Find("#cart-count").Text())
	require.Contains(t, doc.Find("#service-1 .description").Text(), "premium")
	require.Equal(t, 1, doc.Find("#service-1 .description strong").Length(), "markdown renders to html")

	_, second := mount(t, sf)
	require.NotEqual(t, testutil.ViewID(t, doc), testutil.ViewID(t, second), "every page load mounts its own view")
}

func TestFilterNarrowsServices(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	resp := do(t, http.MethodPost, base+"/filter/category", url.Values{"category": {"Wedding"}})
	require.Equal(t, http.StatusOK, resp.status)
	doc := resp.doc(t)
	require.Equal(t, 1, doc.Find("#services article.card").Length())
	require.Equal(t, "Wedding", testutil.Text(doc, "#site-header .categories.desktop .category.active"))

	resp = do(t, http.MethodPost, base+"/filter/search", url.Values{"q": {"LUX"}})
	doc = resp.doc(t)
	require.Equal(t, []string{"service-1"}, testutil.CardIDs(doc))
	require.Contains(t, testutil.Text(doc, "#services .search-note"), "LUX")

	resp = do(t, http.MethodPost, base+"/filter/search", url.Values{"q": {"logo"}})
	doc = resp.doc(t)
	require.Zero(t, doc.Find("#services article.card").Length())
	require.Equal(t, 1, doc.Find("#services .empty").Length())

	resp = do(t, http.MethodPost, base+"/filter/category", url.Values{"category": {"All"}})
	doc = resp.doc(t)
	require.Equal(t, 1, doc.Find("#services article.card").Length(), "search text survives a category change")
}

func TestCategoryChoiceClosesMenu(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	doc := do(t, http.MethodPost, base+"/header/menu", nil).doc(t)
	require.Equal(t, 1, doc.Find(".categories.mobile").Length())

	doc = do(t, http.MethodPost, base+"/filter/category", url.Values{"category": {"Logo"}}).doc(t)
	header := doc.Find("#site-header")
	require.Equal(t, "true", header.AttrOr("hx-swap-oob", ""))
	require.Zero(t, header.Find(".categories.mobile").Length())
}

func TestCartAddIsIdempotentAndAnnouncesFlight(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)
	viewID := base[strings.LastIndex(base, "/")+1:]
	flights, cancel := sf.Hub.Subscribe(viewID)
	defer cancel()

	resp := do(t, http.MethodPost, base+"/cart/2", nil)
	require.Equal(t, http.StatusOK, resp.status)
	doc := resp.doc(t)
	require.Equal(t, "In cart", testutil.Text(doc, "#add-to-cart-2"))
	require.Equal(t, "1", doc.Find("#cart-count").Text())

	doc = do(t, http.MethodPost, base+"/cart/2", nil).doc(t)
	require.Equal(t, "1", doc.Find("#cart-count").Text())

	select {
	case ev := <-flights:
		require.Equal(t, "cart:flight", string(ev.Kind))
	case <-time.After(time.Second):
		t.Fatal("no flight announced")
	}
	select {
	case ev := <-flights:
		t.Fatalf("duplicate add announced %v", ev.Kind)
	default:
	}

	doc = do(t, http.MethodGet, base+"/cart", nil).doc(t)
	require.Equal(t, 1, doc.Find("#cart .line").Length())

	doc = do(t, http.MethodPost, base+"/cart/2/toggle", nil).doc(t)
	require.Zero(t, doc.Find("#cart .line").Length())
	require.Equal(t, "0", doc.Find("#cart-count").Text())
	require.Equal(t, "Add to cart", testutil.Text(doc, "#add-to-cart-2"))
}

func TestWishlistToggleIsSymmetric(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	doc := do(t, http.MethodPost, base+"/wishlist/3", nil).doc(t)
	require.Equal(t, "1", doc.Find("#wishlist-count").Text())
	require.Equal(t, "true", doc.Find("#service-3 .wish").AttrOr("aria-pressed", ""))

	doc = do(t, http.MethodPost, base+"/wishlist/3", nil).doc(t)
	require.Equal(t, "0", doc.Find("#wishlist-count").Text())
	require.Equal(t, "false", doc.Find("#service-3 .wish").AttrOr("aria-pressed", ""))
}

func TestCarouselAdvancesAndSelects(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	sf.Clock.Advance(5 * time.Second)
	doc := do(t, http.MethodGet, base+"/carousel", nil).doc(t)
	require.Equal(t, "1", doc.Find("#carousel").AttrOr("data-current", ""))

	doc = do(t, http.MethodPost, base+"/carousel/3", nil).doc(t)
	require.Equal(t, "3", doc.Find("#carousel").AttrOr("data-current", ""))

	sf.Clock.Advance(5 * time.Second)
	doc = do(t, http.MethodGet, base+"/carousel", nil).doc(t)
	require.Equal(t, "0", doc.Find("#carousel").AttrOr("data-current", ""), "wraps after the last slide")

	require.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, base+"/carousel/9", nil).status)
	require.Equal(t, http.StatusBadRequest, do(t, http.MethodPost, base+"/carousel/x", nil).status)
}

func TestLightboxNavigationAndGraceClear(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	doc := do(t, http.MethodPost, base+"/lightbox/open/8", nil).doc(t)
	require.True(t, doc.Find("#lightbox").HasClass("open"))
	require.Equal(t, "8", doc.Find("#lightbox figure").AttrOr("data-id", ""))

	doc = do(t, http.MethodPost, base+"/lightbox/next", nil).doc(t)
	require.Equal(t, "1", doc.Find("#lightbox figure").AttrOr("data-id", ""))

	doc = do(t, http.MethodPost, base+"/lightbox/prev", nil).doc(t)
	require.Equal(t, "8", doc.Find("#lightbox figure").AttrOr("data-id", ""))

	doc = do(t, http.MethodPost, base+"/lightbox/close", nil).doc(t)
	box := doc.Find("#lightbox")
	require.False(t, box.HasClass("open"))
	require.True(t, box.HasClass("closing"))
	require.Equal(t, 1, box.Find("figure").Length(), "selection survives the grace delay")

	sf.Clock.Advance(300 * time.Millisecond)
	doc = do(t, http.MethodGet, base+"/lightbox", nil).doc(t)
	require.Zero(t, doc.Find("#lightbox figure").Length())

	doc = do(t, http.MethodPost, base+"/lightbox/next", nil).doc(t)
	require.Zero(t, doc.Find("#lightbox figure").Length(), "navigation is ignored while closed")

	require.Equal(t, http.StatusNotFound, do(t, http.MethodPost, base+"/lightbox/open/99", nil).status)
}

func TestLightboxReopenBeatsPendingClear(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	do(t, http.MethodPost, base+"/lightbox/open/2", nil)
	do(t, http.MethodPost, base+"/lightbox/close", nil)
	sf.Clock.Advance(100 * time.Millisecond)
	do(t, http.MethodPost, base+"/lightbox/open/5", nil)
	sf.Clock.Advance(time.Second)

	doc := do(t, http.MethodGet, base+"/lightbox", nil).doc(t)
	require.True(t, doc.Find("#lightbox").HasClass("open"))
	require.Equal(t, "5", doc.Find("#lightbox figure").AttrOr("data-id", ""))
}

func TestHeaderToggles(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	doc := do(t, http.MethodPost, base+"/header/search", nil).doc(t)
	require.Equal(t, 1, doc.Find(".search-panel input[name=q]").Length())

	doc = do(t, http.MethodPost, base+"/header/login", nil).doc(t)
	require.Equal(t, "Logout", testutil.Text(doc, ".login"))

	require.Equal(t, http.StatusNotFound, do(t, http.MethodPost, base+"/header/profile", nil).status)
}

func TestNewsletterFlash(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)
	v, err := sf.Registry.Get(base[strings.LastIndex(base, "/")+1:])
	require.NoError(t, err)

	resp := do(t, http.MethodPost, base+"/newsletter", url.Values{"email": {"not-an-email"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.status)
	doc := resp.doc(t)
	require.Equal(t, 1, doc.Find("#newsletter .error").Length())
	require.Equal(t, "not-an-email", doc.Find("#newsletter-email").AttrOr("value", ""))

	resp = do(t, http.MethodPost, base+"/newsletter", url.Values{"email": {"reader@example.com"}})
	require.Equal(t, http.StatusOK, resp.status)
	require.Equal(t, 1, resp.doc(t).Find("#newsletter .flash").Length())

	require.True(t, v.Newsletter.Subscribed())

	sf.Clock.Advance(3 * time.Second)
	require.False(t, v.Newsletter.Subscribed(), "flash resets")
}

func TestUnmountStopsTimersAndExpiresView(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)
	do(t, http.MethodPost, base+"/lightbox/open/1", nil)
	do(t, http.MethodPost, base+"/lightbox/close", nil)
	require.NotZero(t, sf.Clock.Pending())

	require.Equal(t, http.StatusNoContent, do(t, http.MethodPost, base+"/unmount", nil).status)
	require.Zero(t, sf.Registry.Len())
	require.Zero(t, sf.Clock.Pending(), "no timer outlives its view")

	resp := do(t, http.MethodGet, base+"/carousel", nil)
	require.Equal(t, http.StatusGone, resp.status)
	require.Equal(t, "true", resp.header.Get("HX-Refresh"))

	other, _ := mount(t, sf)
	require.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, other, nil).status)
	require.Equal(t, http.StatusGone, do(t, http.MethodDelete, other, nil).status)
}

func TestMalformedViewID(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	require.Equal(t, http.StatusBadRequest, do(t, http.MethodGet, sf.Server.URL+"/v/nope/carousel", nil).status)
}

func TestTooManyViews(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t, testutil.WithMaxViews(1))
	mount(t, sf)

	resp, err := http.Get(sf.Server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, "30", resp.Header.Get("Retry-After"))
}

func TestEventsStreamFlights(t *testing.T) {
	t.Parallel()

	sf := testutil.NewServer(t)
	base, _ := mount(t, sf)

	resp, err := http.Get(base + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 32)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream ended before %q", want)
				if line == want {
					return
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %q", want)
			}
		}
	}

	waitFor("event: connected")
	do(t, http.MethodPost, base+"/cart/4", nil)
	waitFor("event: cart:flight")
	sf.Clock.Advance(5 * time.Second)
	waitFor("event: carousel:advance")

	require.Equal(t, http.StatusNoContent, do(t, http.MethodPost, base+"/unmount", nil).status)
	for range lines {
	}
}
