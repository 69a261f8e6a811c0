package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"taskflow/internal/docs"
	"taskflow/internal/model"
	"taskflow/internal/store"
	"taskflow/internal/view"

	"github.com/CAFxX/httpcompression"
	"github.com/rs/zerolog"
	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html
var assetsFS embed.FS

const (
	mainSelector = "#taskflow-main"

	datastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
)

type ServerConfig struct {
	Addr  string
	Tasks *store.TaskList
	// Theme is the initial page theme; empty means light.
	Theme  model.Theme
	Logger zerolog.Logger
}

type Server struct {
	mu    sync.RWMutex
	cfg   ServerConfig
	theme model.Theme

	tmpl *template.Template
	hub  *resourceHub
	help *helpPages
	log  zerolog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Tasks == nil {
		return nil, errors.New("web: no task list")
	}
	theme := cfg.Theme
	if theme == "" {
		theme = model.ThemeLight
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:   cfg,
		theme: theme,
		tmpl:  tmpl,
		hub:   newResourceHub(),
		help:  newHelpPages(),
		log:   cfg.Logger.With().Str("component", "web").Logger(),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) currentTheme() model.Theme {
	s.mu.RLock()
	t := s.theme
	s.mu.RUnlock()
	return t
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.Handle("GET /{$}", s.compressed(http.HandlerFunc(s.handleHome)))
	mux.Handle("GET /api/tasks", s.compressed(http.HandlerFunc(s.handleAPITasks)))
	mux.Handle("GET /help", s.compressed(http.HandlerFunc(s.handleHelp)))
	mux.Handle("GET /help/{topic}", s.compressed(http.HandlerFunc(s.handleHelp)))
	mux.HandleFunc("POST /tasks", s.handleTaskCreate)
	mux.HandleFunc("POST /tasks/clear-completed", s.handleClearCompleted)
	mux.HandleFunc("POST /tasks/{id}/toggle", s.handleTaskToggle)
	mux.HandleFunc("POST /tasks/{id}/delete", s.handleTaskDelete)
	mux.HandleFunc("POST /theme", s.handleTheme)
	return mux
}

// compressed wraps the plain page and JSON routes. SSE responses stay uncompressed so
// patches flush immediately.
func (s *Server) compressed(h http.Handler) http.Handler {
	adapter, err := httpcompression.DefaultAdapter()
	if err != nil {
		s.log.Warn().Err(err).Msg("compression disabled")
		return h
	}
	return adapter(h)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := hs.Shutdown(shutdownCtx)
		if e := <-errc; e != nil && !errors.Is(e, http.ErrServerClosed) {
			return e
		}
		return err
	}
}

type filterVM struct {
	Value  string
	Label  string
	Active bool
}

type taskRowVM struct {
	ID        string
	Text      string
	Completed bool
	Added     string
}

type pageVM struct {
	Theme       string
	ThemeToggle string
	Filter      string
	Filters     []filterVM
	Rows        []taskRowVM
	Progress    int
	ProgressTxt string
	Summary     string
	Empty       string
	CanClear    bool
	StreamURL   string
	DatastarURL string
}

type helpVM struct {
	Theme       string
	Topic       string
	Topics      []string
	Body        template.HTML
	DatastarURL string
}

func requestFilter(r *http.Request) view.Filter {
	raw := r.URL.Query().Get("filter")
	if raw == "" {
		raw = r.FormValue("filter")
	}
	f, err := view.ParseFilter(raw)
	if err != nil {
		return view.FilterAll
	}
	return f
}

func (s *Server) pageVM(f view.Filter) pageVM {
	snap := view.Compute(s.cfg.Tasks.Tasks(), f)
	theme := s.currentTheme()

	toggle := "Switch to dark mode"
	if theme == model.ThemeDark {
		toggle = "Switch to light mode"
	}

	filters := make([]filterVM, 0, len(view.Filters()))
	for _, vf := range view.Filters() {
		filters = append(filters, filterVM{Value: string(vf), Label: vf.Label(), Active: vf == f})
	}

	rows := make([]taskRowVM, 0, len(snap.Visible))
	for _, t := range snap.Visible {
		rows = append(rows, taskRowVM{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Added:     "Added " + t.Created().Local().Format("15:04"),
		})
	}

	return pageVM{
		Theme:       string(theme),
		ThemeToggle: toggle,
		Filter:      string(f),
		Filters:     filters,
		Rows:        rows,
		Progress:    snap.Progress,
		ProgressTxt: snap.ProgressLabel(),
		Summary:     snap.Summary(),
		Empty:       snap.EmptyMessage(),
		CanClear:    snap.CanClearCompleted(),
		StreamURL:   "/events?filter=" + url.QueryEscape(string(f)),
		DatastarURL: datastarScriptURL,
	}
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "index.html", s.pageVM(requestFilter(r)))
}

func (s *Server) handleAPITasks(w http.ResponseWriter, r *http.Request) {
	snap := view.Compute(s.cfg.Tasks.Tasks(), requestFilter(r))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{
		"data": snap,
		"meta": map[string]any{
			"summary": snap.Summary(),
			"theme":   s.currentTheme(),
		},
	})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	topic := strings.TrimSpace(r.PathValue("topic"))
	if topic == "" {
		topic = "keys"
	}
	body, ok := s.help.page(topic)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, "help.html", helpVM{
		Theme:       string(s.currentTheme()),
		Topic:       topic,
		Topics:      docs.Topics(),
		Body:        body,
		DatastarURL: datastarScriptURL,
	})
}

// handleEvents keeps a Datastar stream open and re-patches the main region whenever any
// client changes the list.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	f := requestFilter(r)
	sse := datastar.NewSSE(w, r)

	ch, cancel := s.hub.subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			html, err := s.renderTemplate("taskflow_main", s.pageVM(f))
			if err != nil {
				s.log.Warn().Err(err).Msg("render main")
				continue
			}
			_ = sse.PatchElements(html, datastar.WithSelector(mainSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
		}
	}
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if t, ok := s.cfg.Tasks.Add(r.Context(), r.Form.Get("text")); ok {
		s.log.Debug().Str("id", t.ID).Msg("task added")
		s.hub.broadcast()
	}
	s.respondMain(w, r)
}

func (s *Server) handleTaskToggle(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	id := r.PathValue("id")
	if s.cfg.Tasks.Toggle(r.Context(), id) {
		s.hub.broadcast()
	} else {
		s.log.Debug().Str("id", id).Msg("toggle: unknown task")
	}
	s.respondMain(w, r)
}

func (s *Server) handleTaskDelete(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	id := r.PathValue("id")
	if s.cfg.Tasks.Remove(r.Context(), id) {
		s.hub.broadcast()
	} else {
		s.log.Debug().Str("id", id).Msg("delete: unknown task")
	}
	s.respondMain(w, r)
}

func (s *Server) handleClearCompleted(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if n := s.cfg.Tasks.ClearCompleted(r.Context()); n > 0 {
		s.hub.broadcast()
	}
	s.respondMain(w, r)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mu.Lock()
	if t, ok := model.ParseTheme(r.Form.Get("theme")); ok {
		s.theme = t
	} else {
		s.theme = s.theme.Toggle()
	}
	s.mu.Unlock()
	s.hub.broadcast()
	s.respondMain(w, r)
}

func isDatastarRequest(r *http.Request) bool {
	return strings.TrimSpace(r.Header.Get("Datastar-Request")) != ""
}

// respondMain answers a mutation: a Datastar patch of the main region for enhanced clients,
// otherwise a redirect back to the page with the current filter.
func (s *Server) respondMain(w http.ResponseWriter, r *http.Request) {
	f := requestFilter(r)
	if !isDatastarRequest(r) {
		http.Redirect(w, r, "/?filter="+url.QueryEscape(string(f)), http.StatusSeeOther)
		return
	}
	html, err := s.renderTemplate("taskflow_main", s.pageVM(f))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElements(html, datastar.WithSelector(mainSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
}
