package display

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-gateway/internal/client"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page is the data the index template renders.
type Page struct {
	City  string
	State State
	Error string
	View  *View
}

type Handler struct {
	fetcher client.Fetcher
	logger  *zap.SugaredLogger
	now     func() time.Time
}

func NewHandler(f client.Fetcher, logger *zap.SugaredLogger) *Handler {
	return &Handler{fetcher: f, logger: logger, now: time.Now}
}

// ServeHTTP renders the search page. A city query parameter, even an empty
// one, counts as a submit.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	page := Page{City: query.Get("city")}
	if query.Has("city") {
		session := NewSession(h.fetcher)
		session.Submit(r.Context(), page.City)
		page = h.page(page.City, session.Snapshot())
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.logger.Errorw("Could not render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) page(city string, snap Snapshot) Page {
	p := Page{City: city, State: snap.State, Error: snap.Error}
	if snap.State == StateSuccess && snap.Weather != nil {
		v := NewView(snap.Weather, h.now())
		p.View = &v
	}
	return p
}
