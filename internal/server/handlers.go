package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/treemenu/pkg/diagram"
	errs "github.com/matzehuels/treemenu/pkg/errors"
	"github.com/matzehuels/treemenu/pkg/io"
	"github.com/matzehuels/treemenu/pkg/menu"
	"github.com/matzehuels/treemenu/pkg/render"
)

// queryOptions maps query parameters to render option keys. Parameters not
// listed here are ignored.
var queryOptions = map[string]string{
	"split":    render.KeySplit,
	"dropdown": render.KeyDropdown,
	"beautify": render.KeyBeautify,
	"class":    "class",
	"id":       "id",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	q := r.URL.Query()

	raw := make(map[string]any)
	for param, key := range queryOptions {
		if q.Has(param) {
			raw[key] = q.Get(param)
		}
	}
	opts, err := render.ParseOptions(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Resolver = s.resolver(q.Get("path"), splitList(q.Get("breadcrumb")))

	tree, err := s.load(r, ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out, err := s.renderer.Render(r.Context(), render.Items(tree), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	tree, err := s.load(r, ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc := io.Document{Items: tree}
	if in, ok := render.ParseRef(ref).(render.ID); ok {
		doc.ID = int64(in)
	} else {
		doc.Slug = ref
	}

	var buf bytes.Buffer
	if err := io.Write(&buf, &doc, io.FormatJSON); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	tree, err := s.load(r, ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	dot := diagram.ToDOT(tree, diagram.Options{
		Title:     ref,
		Detailed:  r.URL.Query().Has("detailed"),
		Collapsed: r.URL.Query().Has("collapsed"),
	})
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(dot))
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	if s.opts.Cache == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeUnsupported, "no cache configured"))
		return
	}
	if err := s.opts.Cache.Invalidate(r.Context(), chi.URLParam(r, "ref")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// load resolves ref to a non-empty tree. Unknown menus load as empty trees
// and are reported as MENU_NOT_FOUND.
func (s *Server) load(r *http.Request, ref string) (menu.Tree, error) {
	tree, err := s.renderer.Load(r.Context(), render.ParseRef(ref))
	if err != nil {
		return nil, err
	}
	if tree.Empty() {
		return nil, errs.New(errs.ErrCodeMenuNotFound, "menu %q not found", ref)
	}
	return tree, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "error", err)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if code := errs.GetCode(err); code != "" {
		w.Header().Set("X-Error-Code", string(code))
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(errs.UserMessage(err) + "\n"))
}

// statusCode maps error codes to HTTP status codes.
func statusCode(err error) int {
	switch {
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrCodeMenuNotFound), errs.Is(err, errs.ErrCodeNotFound):
		return http.StatusNotFound
	case errs.Is(err, errs.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
