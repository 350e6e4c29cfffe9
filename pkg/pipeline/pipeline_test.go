package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bitfield/pkg/bitfield"
	"github.com/matzehuels/bitfield/pkg/cache"
	"github.com/matzehuels/bitfield/pkg/errors"
	"github.com/matzehuels/bitfield/pkg/observability"
	"github.com/matzehuels/bitfield/pkg/render"
)

const register = `[
  {"name": "IPO", "bits": 8, "attr": "RO"},
  {"bits": 7},
  {"name": "BRK", "bits": 5, "type": 4},
  {"bits": 12}
]`

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg, PNG,,svg", []string{"svg", "png"}},
		{"json,pdf", []string{"json", "pdf"}},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInputFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"json", InputJSON, true},
		{"yml", InputYAML, true},
		{"TOML", InputTOML, true},
		{"txt", InputText, true},
		{"text", InputText, true},
		{"xml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseInputFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseInputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	paths := map[string]string{
		"reg.json": InputJSON,
		"reg.yaml": InputYAML,
		"reg.toml": InputTOML,
		"reg.bf":   InputText,
		"reg.TXT":  InputText,
	}
	for path, want := range paths {
		if got, ok := InputFormatFromPath(path); !ok || got != want {
			t.Errorf("InputFormatFromPath(%q) = %q, %v", path, got, ok)
		}
	}
	if _, ok := InputFormatFromPath("register"); ok {
		t.Error("InputFormatFromPath without extension should fail")
	}
}

func TestOverridesApply(t *testing.T) {
	bits, compact, family := 16, true, "monospace"
	opts := bitfield.DefaultOptions()
	Overrides{Bits: &bits, Compact: &compact, FontFamily: &family}.Apply(&opts)
	if opts.Bits != 16 || !opts.Compact || opts.FontFamily != "monospace" {
		t.Errorf("overrides not applied: %+v", opts)
	}
	if opts.HSpace != bitfield.DefaultHSpace || !opts.GridDraw {
		t.Error("unset overrides changed other options")
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	bits := 16
	res, err := r.Execute(context.Background(), Request{
		Source:    []byte(register),
		Formats:   []string{FormatSVG, FormatJSON},
		Overrides: Overrides{Bits: &bits},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Scene == nil || res.Scene.Tag != "svg" {
		t.Fatalf("Scene = %v", res.Scene)
	}
	svg := res.Artifacts[FormatSVG]
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.Contains(svg, []byte(">IPO<")) {
		t.Errorf("svg artifact = %.80s", svg)
	}
	var jsonml []any
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &jsonml); err != nil {
		t.Fatalf("json artifact does not decode: %v", err)
	}
	if len(jsonml) == 0 || jsonml[0] != "svg" {
		t.Errorf("json artifact = %v", jsonml)
	}

	want := Stats{Fields: 4, Lanes: 2, TotalBits: 32}
	got := res.Stats
	got.RenderTime = 0
	if got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
	if len(res.CacheInfo.Hits) != 0 {
		t.Errorf("null cache produced hits: %v", res.CacheInfo.Hits)
	}
}

func TestExecuteCaches(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	ctx := context.Background()
	req := Request{Source: []byte(register), Formats: []string{FormatSVG, FormatJSON}}

	first, err := r.Execute(ctx, req)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run hits = %v", first.CacheInfo.Hits)
	}

	second, err := r.Execute(ctx, req)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.AllHit(req.Formats) {
		t.Errorf("second run hits = %v, want all", second.CacheInfo.Hits)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}

	bits := 8
	other := req
	other.Overrides = Overrides{Bits: &bits}
	third, err := r.Execute(ctx, other)
	if err != nil {
		t.Fatalf("override Execute() error = %v", err)
	}
	if len(third.CacheInfo.Hits) != 0 {
		t.Errorf("overrides should change the cache key, got hits %v", third.CacheInfo.Hits)
	}
	if bytes.Equal(third.Artifacts[FormatSVG], first.Artifacts[FormatSVG]) {
		t.Error("bits override did not change the svg")
	}

	refresh := req
	refresh.Refresh = true
	fourth, err := r.Execute(ctx, refresh)
	if err != nil {
		t.Fatal(err)
	}
	if len(fourth.CacheInfo.Hits) != 0 {
		t.Errorf("refresh should bypass the cache, got hits %v", fourth.CacheInfo.Hits)
	}
}

func TestExecuteInputFormats(t *testing.T) {
	sources := []Request{
		{InputFormat: InputYAML, Source: []byte("- {name: A, bits: 8}\n- {name: B, bits: 8}\n")},
		{InputFormat: InputTOML, Source: []byte("[[payload]]\nname = \"A\"\nbits = 8\n\n[[payload]]\nname = \"B\"\nbits = 8\n")},
		{InputFormat: InputText, Source: []byte("field \"A\" 8\nfield \"B\" 8\n")},
	}
	r := NewRunner(nil, nil, quietLogger())
	for _, req := range sources {
		t.Run(req.InputFormat, func(t *testing.T) {
			res, err := r.Execute(context.Background(), req)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if res.Stats.Fields != 2 || res.Stats.TotalBits != 16 || res.Stats.Lanes != 1 {
				t.Errorf("Stats = %+v", res.Stats)
			}
			if !bytes.Contains(res.Artifacts[FormatSVG], []byte(">B<")) {
				t.Error("svg is missing field B")
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"bad output format", Request{Source: []byte(register), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad input format", Request{Source: []byte(register), InputFormat: "xml"}, errors.ErrCodeInvalidFormat},
		{"malformed source", Request{Source: []byte(`[{"bits": 8`)}, errors.ErrCodeInvalidInput},
		{"bad field", Request{Source: []byte(`[{"bits": 0}]`)}, errors.ErrCodeInvalidField},
		{"bad option", Request{Source: []byte(`{"payload": [{"bits": 4}], "config": {"bits": 2}}`)}, errors.ErrCodeInvalidConfig},
		{"notation syntax", Request{Source: []byte("field"), InputFormat: InputText}, errors.ErrCodeInvalidInput},
		{"negative scale", Request{Source: []byte(register), Scale: -1}, errors.ErrCodeInvalidConfig},
	}
	r := NewRunner(nil, nil, quietLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteRaster(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Request{
		Source:  []byte(register),
		Formats: []string{FormatPNG, FormatPDF},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact has no PNG signature")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPDF], []byte("%PDF")) {
		t.Error("pdf artifact has no PDF signature")
	}
}

type countingHooks struct {
	observability.NoopRenderHooks
	observability.NoopCacheHooks
	starts, completes, hits, misses, sets atomic.Int32
	lanes                                 atomic.Int32
}

func (h *countingHooks) OnRenderStart(context.Context, string, []string) { h.starts.Add(1) }
func (h *countingHooks) OnRenderComplete(_ context.Context, _ []string, lanes int, _ time.Duration, _ error) {
	h.completes.Add(1)
	h.lanes.Store(int32(lanes))
}
func (h *countingHooks) OnCacheHit(context.Context, string)      { h.hits.Add(1) }
func (h *countingHooks) OnCacheMiss(context.Context, string)     { h.misses.Add(1) }
func (h *countingHooks) OnCacheSet(context.Context, string, int) { h.sets.Add(1) }

func TestExecuteHooks(t *testing.T) {
	h := &countingHooks{}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, quietLogger())
	req := Request{Source: []byte(register), Formats: []string{FormatSVG, FormatJSON}}
	for range 2 {
		if _, err := r.Execute(context.Background(), req); err != nil {
			t.Fatal(err)
		}
	}

	if h.starts.Load() != 2 || h.completes.Load() != 2 {
		t.Errorf("render hooks: %d starts, %d completes", h.starts.Load(), h.completes.Load())
	}
	if h.lanes.Load() != 1 {
		t.Errorf("reported lanes = %d, want 1", h.lanes.Load())
	}
	if h.misses.Load() != 2 || h.sets.Load() != 2 || h.hits.Load() != 2 {
		t.Errorf("cache hooks: %d misses, %d sets, %d hits", h.misses.Load(), h.sets.Load(), h.hits.Load())
	}
}

func TestExamples(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example documents")
	}
	r := NewRunner(nil, nil, quietLogger())
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			input, ok := InputFormatFromPath(path)
			if !ok {
				t.Fatalf("no input format for %s", path)
			}
			src, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			res, err := r.Execute(context.Background(), Request{Source: src, InputFormat: input})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if res.Stats.Fields == 0 || !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
				t.Errorf("stats = %+v", res.Stats)
			}
		})
	}
}
