package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bitfield/pkg/errors"
	"github.com/matzehuels/bitfield/pkg/pipeline"
)

const register = `[
  {"name": "IPO", "bits": 8, "attr": "RO"},
  {"bits": 7},
  {"name": "BRK", "bits": 5, "type": 4},
  {"bits": 12}
]`

// execute runs the root command with args, reading stdin from in.
func execute(t *testing.T, in io.Reader, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	if in != nil {
		root.SetIn(in)
	}
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "reg.json", "reg"},
		{"", "dir/reg.yaml", "dir/reg"},
		{"", "", appName},
		{"", "-", appName},
		{"out.svg", "reg.json", "out"},
		{"out.png", "reg.json", "out"},
		{"out/diagram", "reg.json", "out/diagram"},
		{"out.v2", "reg.json", "out.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		input   string
		formats []string
		want    []string
		wantErr bool
	}{
		{"derived from input", "", "reg.yaml", []string{"svg"}, []string{"reg.svg"}, false},
		{"explicit single", "diagram.out", "reg.yaml", []string{"svg"}, []string{"diagram.out"}, false},
		{"several formats", "out/reg.svg", "reg.yaml", []string{"svg", "png"}, []string{"out/reg.svg", "out/reg.png"}, false},
		{"stdin to stdout", "", "", []string{"svg"}, []string{"-"}, false},
		{"explicit stdout", "-", "reg.yaml", []string{"json"}, []string{"-"}, false},
		{"stdin several formats", "", "-", []string{"svg", "json"}, []string{"bitfield.svg", "bitfield.json"}, false},
		{"several formats to stdout", "-", "reg.yaml", []string{"svg", "json"}, nil, true},
		{"would overwrite input", "", "reg.json", []string{"json"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.output, tt.input, tt.formats)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outputPaths() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveInputFormat(t *testing.T) {
	tests := []struct {
		flag, input, want string
		wantErr           bool
	}{
		{"", "reg.json", pipeline.InputJSON, false},
		{"", "reg.yml", pipeline.InputYAML, false},
		{"", "reg.toml", pipeline.InputTOML, false},
		{"", "reg.bf", pipeline.InputText, false},
		{"", "reg", pipeline.InputJSON, false},
		{"", "", pipeline.InputJSON, false},
		{"yaml", "reg.json", pipeline.InputYAML, false},
		{"xml", "reg.json", "", true},
	}
	for _, tt := range tests {
		got, err := resolveInputFormat(tt.flag, tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveInputFormat(%q, %q) error = %v", tt.flag, tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveInputFormat(%q, %q) = %q, want %q", tt.flag, tt.input, got, tt.want)
		}
	}
}

func TestLayoutOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "render"}
	var f layoutFlags
	f.register(cmd)
	if err := cmd.Flags().Parse([]string{"--bits", "16", "--compact", "--numbers=false", "--fontfamily", "mono"}); err != nil {
		t.Fatal(err)
	}
	o := f.overrides(cmd)

	if o.Bits == nil || *o.Bits != 16 {
		t.Errorf("Bits = %v, want 16", o.Bits)
	}
	if o.Compact == nil || !*o.Compact {
		t.Error("Compact should be set to true")
	}
	if o.NumberDraw == nil || *o.NumberDraw {
		t.Error("NumberDraw should be set to false")
	}
	if o.FontFamily == nil || *o.FontFamily != "mono" {
		t.Errorf("FontFamily = %v", o.FontFamily)
	}
	if o.Lanes != nil || o.VSpace != nil || o.GridDraw != nil || o.HFlip != nil {
		t.Error("unchanged flags should not become overrides")
	}
}

func TestRenderCommand(t *testing.T) {
	in := writeInput(t, "reg.json", register)
	base := filepath.Join(t.TempDir(), "out", "reg")
	if err := execute(t, nil, "render", in, "-f", "svg,json", "-o", base, "--no-cache", "--bits", "16"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("svg output missing: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.Contains(svg, []byte(">IPO<")) {
		t.Errorf("svg = %.80s", svg)
	}
	jsonml, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("json output missing: %v", err)
	}
	var doc []any
	if err := json.Unmarshal(jsonml, &doc); err != nil {
		t.Fatalf("json output does not decode: %v", err)
	}
	if len(doc) == 0 || doc[0] != "svg" {
		t.Errorf("json = %.80s", jsonml)
	}
}

func TestRenderCommandInputs(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		args    []string
	}{
		{"yaml by extension", "reg.yaml", "- {name: A, bits: 8}\n- {name: B, bits: 8}\n", nil},
		{"toml by extension", "reg.toml", "[[payload]]\nname = \"A\"\nbits = 8\n\n[[payload]]\nname = \"B\"\nbits = 8\n", nil},
		{"text by extension", "reg.bf", "field \"A\" 8\nfield \"B\" 8\n", nil},
		{"text by flag", "reg.def", "field \"A\" 8\nfield \"B\" 8\n", []string{"-i", "text"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := writeInput(t, tt.file, tt.content)
			out := filepath.Join(filepath.Dir(in), "out.svg")
			args := append([]string{"render", in, "--no-cache", "-o", out}, tt.args...)
			if err := execute(t, nil, args...); err != nil {
				t.Fatalf("render: %v", err)
			}
			svg, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Contains(svg, []byte(">B<")) {
				t.Error("svg is missing field B")
			}
		})
	}
}

func TestRenderCommandStdout(t *testing.T) {
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetIn(strings.NewReader(register))
	root.SetOut(&out)
	root.SetArgs([]string{"render", "--no-cache"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("<svg")) {
		t.Errorf("stdout = %.80s", out.String())
	}
}

func TestRenderCommandErrors(t *testing.T) {
	in := writeInput(t, "reg.json", register)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"render", in, "-f", "gif", "--no-cache"}, errors.ErrCodeInvalidFormat},
		{"unknown input", []string{"render", in, "-i", "xml", "--no-cache"}, errors.ErrCodeInvalidFormat},
		{"bad option", []string{"render", in, "--bits", "2", "--no-cache", "-o", filepath.Join(t.TempDir(), "x.svg")}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, nil, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	if err := execute(t, nil, "render", filepath.Join(t.TempDir(), "missing.json"), "--no-cache"); err == nil {
		t.Error("missing input file should fail")
	}
}

func TestVersionFlag(t *testing.T) {
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), appName+" version ") {
		t.Errorf("version output = %q", out.String())
	}
}
