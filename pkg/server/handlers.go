package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/semtree/pkg/buildinfo"
	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/feature"
	"github.com/matzehuels/semtree/pkg/provider"
	"github.com/matzehuels/semtree/pkg/render/dot"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/treeio"
)

// Output formats of the tree endpoint.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// configKeys are the query parameters forwarded to the provider config.
var configKeys = []string{
	"variant", "features", "maxRecurse", "maxLinks", "branchThreshold", "relations",
	"fontSizeFactor", "expansion", "sweep", "orientation", "scheme",
}

type featureInfo struct {
	Name        string `json:"name"`
	Bit         uint32 `json:"bit"`
	Description string `json:"description"`
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"source":  s.provider.Name(),
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleFeatures(w http.ResponseWriter, r *http.Request) {
	rules := feature.Rules()
	out := make([]featureInfo, len(rules))
	for i, rule := range rules {
		out[i] = featureInfo{Name: rule.Name, Bit: uint32(rule.Flag), Description: rule.Description}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.Registry().All())
}

func (s *Server) handleConcept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateConceptID(id); err != nil {
		writeError(w, err)
		return
	}
	c, err := s.provider.Source().Lookup(r.Context(), id)
	switch {
	case stderrors.Is(err, semantic.ErrNotFound):
		writeError(w, errors.Wrap(errors.ErrCodeNotFound, err, "concept %s", id))
	case err != nil:
		writeError(w, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "lookup %s", id))
	default:
		writeJSON(w, http.StatusOK, c)
	}
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	root := chi.URLParam(r, "root")
	q := r.URL.Query()

	format := q.Get("format")
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatDOT && format != FormatSVG {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (use json, dot or svg)", format))
		return
	}
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	raw := make(map[string]any)
	for _, k := range configKeys {
		if q.Has(k) {
			raw[k] = q.Get(k)
		}
	}
	cfg, _, err := provider.DecodeConfig(raw, s.provider.Registry())
	if err != nil {
		writeError(w, err)
		return
	}

	res := s.runner.Convert(r.Context(), s.provider, root, cfg, refresh)
	if !res.OK() {
		writeError(w, res.Err)
		return
	}

	h := w.Header()
	h.Set("X-Conversion-ID", res.ID)
	h.Set("X-Conversion-Status", res.Status.String())
	if res.CacheHit {
		h.Set("X-Cache", "hit")
	} else {
		h.Set("X-Cache", "miss")
	}

	switch format {
	case FormatDOT:
		h.Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(dot.ToDOT(res.Tree, dot.Options{Settings: res.Settings, Images: res.Images})))
	case FormatSVG:
		svg, err := dot.RenderSVG(r.Context(), dot.ToDOT(res.Tree, dot.Options{Settings: res.Settings, Images: res.Images}))
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		h.Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(svg)
	default:
		data, err := treeio.Marshal(res.Document())
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode tree"))
			return
		}
		h.Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func errNoRoute(r *http.Request) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, errors.HTTPStatus(err), body)
}
