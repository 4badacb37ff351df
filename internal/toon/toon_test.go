package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/backbonelint/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "app/views/list.js", "app/views/list.js"},
		{"dotted name", "Backbone.View", "Backbone.View"},
		{"message", "render should return this", "render should return this"},
		{"message with dollar", "Use this.view.$ instead", "Use this.view.$ instead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	r := &model.Report{
		Name: "myapp",
		Files: []model.FileReport{
			{
				Path:     "app/views/list.js",
				Language: "javascript",
				Diagnostics: []model.Diagnostic{
					{Rule: "render-return", Severity: model.Error, Message: "render should return this", Line: 2, Column: 3},
					{Rule: "events-on-top", Severity: model.Warning, Message: "events should be declared first, after tagName, className", Line: 7, Column: 3},
				},
				Definitions: []model.Definition{
					{Line: 1, Role: "View", Name: "ListView", Base: "Backbone.View"},
				},
			},
			{
				Path:     "app/models/item.js",
				Language: "javascript",
				Definitions: []model.Definition{
					{Line: 1, Role: "Model", Base: "Backbone.Model"},
				},
			},
		},
	}

	got := Encode(r)
	want := []string{
		"report: myapp",
		"summary{files,errors,warnings}: 2,1,1",
		"diagnostics[2]{file,line,column,severity,rule,message}:",
		"  app/views/list.js,2,3,error,render-return,render should return this",
		`  app/views/list.js,7,3,warn,events-on-top,"events should be declared first, after tagName, className"`,
		"definitions[2]{file,line,role,name,base}:",
		"  app/views/list.js,1,View,ListView,Backbone.View",
		`  app/models/item.js,1,Model,"",Backbone.Model`,
	}

	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Report{Name: "empty"})
	if !strings.Contains(got, "summary{files,errors,warnings}: 0,0,0") {
		t.Errorf("expected zero summary, got:\n%s", got)
	}
	if !strings.Contains(got, "diagnostics[0]{file,line,column,severity,rule,message}:") {
		t.Errorf("expected empty diagnostics section, got:\n%s", got)
	}
	if !strings.Contains(got, "definitions[0]{file,line,role,name,base}:") {
		t.Errorf("expected empty definitions section, got:\n%s", got)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	r := &model.Report{
		Name: "app",
		Files: []model.FileReport{
			{Path: "a.js", Diagnostics: []model.Diagnostic{{Severity: model.Error}, {Severity: model.Warning}}},
			{Path: "b.js", Diagnostics: []model.Diagnostic{{Severity: model.Error}}},
			{Path: "c.js"},
		},
	}
	files, errs, warns, ok := Summary(Encode(r) + "\n")
	if !ok {
		t.Fatal("Summary: no summary line found")
	}
	if files != 3 || errs != 2 || warns != 1 {
		t.Errorf("Summary = %d,%d,%d, want 3,2,1", files, errs, warns)
	}

	if _, _, _, ok := Summary("report: x\n"); ok {
		t.Error("Summary should fail without a summary line")
	}
	if _, _, _, ok := Summary("summary{files,errors,warnings}: 1,x,0"); ok {
		t.Error("Summary should fail on a malformed count")
	}
}
