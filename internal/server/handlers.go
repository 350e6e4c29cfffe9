package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bitfield/pkg/buildinfo"
	"github.com/matzehuels/bitfield/pkg/errors"
	"github.com/matzehuels/bitfield/pkg/pipeline"
)

// Response headers set by /render.
const (
	HeaderLanes = "X-Bitfield-Lanes"
	HeaderCache = "X-Bitfield-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := req.Formats[0]
	cacheState := "miss"
	if result.CacheInfo.AllHit(req.Formats) {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set(HeaderLanes, strconv.Itoa(result.Stats.Lanes))
	w.Header().Set(HeaderCache, cacheState)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// decodeRequest builds a pipeline request from the body and query string.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	q := r.URL.Query()

	formats := pipeline.ParseFormats(q.Get("format"))
	if len(formats) != 1 {
		return pipeline.Request{}, errors.New(errors.ErrCodeInvalidFormat, "exactly one output format per request, got %d", len(formats))
	}

	input := q.Get("input")
	if input == "" {
		input = inputFromContentType(r.Header.Get("Content-Type"))
	}

	overrides, err := overridesFromQuery(q)
	if err != nil {
		return pipeline.Request{}, err
	}

	var scale float64
	if v := q.Get("scale"); v != "" {
		if scale, err = strconv.ParseFloat(v, 64); err != nil {
			return pipeline.Request{}, errors.New(errors.ErrCodeInvalidConfig, "scale: invalid number %q", v)
		}
	}
	refresh, err := queryBool(q, "refresh")
	if err != nil {
		return pipeline.Request{}, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return pipeline.Request{}, &bodyTooLargeError{limit: tooLarge.Limit}
		}
		return pipeline.Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(body) == 0 {
		return pipeline.Request{}, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}

	return pipeline.Request{
		Source:      body,
		InputFormat: input,
		Formats:     formats,
		Overrides:   overrides,
		Scale:       scale,
		Refresh:     refresh,
	}, nil
}

// inputFromContentType maps a media type to an input format. Unknown or
// missing types fall back to JSON.
func inputFromContentType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return pipeline.InputJSON
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return pipeline.InputYAML
	case "application/toml", "text/toml":
		return pipeline.InputTOML
	case "text/plain":
		return pipeline.InputText
	}
	return pipeline.InputJSON
}

// overridesFromQuery reads layout overrides. Absent parameters stay nil.
func overridesFromQuery(q url.Values) (pipeline.Overrides, error) {
	var o pipeline.Overrides

	floats := []struct {
		name string
		dst  **float64
	}{
		{"vspace", &o.VSpace},
		{"hspace", &o.HSpace},
		{"fontsize", &o.FontSize},
		{"strokewidth", &o.StrokeWidth},
		{"trim", &o.Trim},
	}
	for _, f := range floats {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return o, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid number %q", f.name, v)
		}
		*f.dst = &n
	}

	ints := []struct {
		name string
		dst  **int
	}{
		{"bits", &o.Bits},
		{"lanes", &o.Lanes},
	}
	for _, f := range ints {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			return o, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid integer %q", f.name, v)
		}
		*f.dst = &n
	}

	if v := q.Get("fontfamily"); v != "" {
		o.FontFamily = &v
	}
	if v := q.Get("fontweight"); v != "" {
		o.FontWeight = &v
	}

	bools := []struct {
		name string
		dst  **bool
	}{
		{"compact", &o.Compact},
		{"hflip", &o.HFlip},
		{"vflip", &o.VFlip},
		{"uneven", &o.Uneven},
		{"grid", &o.GridDraw},
		{"numbers", &o.NumberDraw},
	}
	for _, f := range bools {
		if !q.Has(f.name) {
			continue
		}
		b, berr := queryBool(q, f.name)
		if berr != nil {
			return o, berr
		}
		*f.dst = &b
	}
	return o, nil
}

// queryBool reads a boolean parameter. A bare "?name" counts as true.
func queryBool(q url.Values, name string) (bool, error) {
	if !q.Has(name) {
		return false, nil
	}
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidConfig, "%s: invalid boolean %q", name, v)
	}
	return b, nil
}

// =============================================================================
// Responses
// =============================================================================

type bodyTooLargeError struct {
	limit int64
}

func (e *bodyTooLargeError) Error() string {
	return "request body exceeds " + strconv.FormatInt(e.limit, 10) + " bytes"
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	var tooLarge *bodyTooLargeError
	switch {
	case stderrors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.IsConfig(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	switch {
	case status == http.StatusRequestEntityTooLarge:
		code = string(errors.ErrCodeInvalidInput)
	case code == "":
		code = string(errors.ErrCodeInternal)
	}
	if status >= http.StatusInternalServerError {
		s.cfg.Logger.Error("render failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
