package ranking

import (
	"testing"

	"github.com/phobologic/backbonelint/internal/model"
)

func diags(sevs ...model.Severity) []model.Diagnostic {
	out := make([]model.Diagnostic, len(sevs))
	for i, s := range sevs {
		out[i] = model.Diagnostic{Rule: "r", Severity: s}
	}
	return out
}

func makeReport() *model.Report {
	return &model.Report{
		Name: "test",
		Files: []model.FileReport{
			{Path: "clean.js"},
			{Path: "b.js", Diagnostics: diags(model.Warning, model.Warning)},
			{Path: "a.js", Diagnostics: diags(model.Warning)},
			{Path: "z.js", Diagnostics: diags(model.Error)},
			{Path: "y.js", Diagnostics: diags(model.Error, model.Error, model.Warning)},
			{Path: "m.js", Diagnostics: diags(model.Error)},
		},
	}
}

func paths(files []model.FileReport) []string {
	out := make([]string, len(files))
	for i := range files {
		out[i] = files[i].Path
	}
	return out
}

func TestSort(t *testing.T) {
	t.Parallel()

	r := makeReport()
	Sort(r.Files)

	want := []string{"y.js", "m.js", "z.js", "b.js", "a.js", "clean.js"}
	got := paths(r.Files)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %q, want %q (order %v)", i, got[i], want[i], got)
		}
	}
}

func TestSelectFilesAll(t *testing.T) {
	t.Parallel()

	r := makeReport()
	if got := SelectFiles(r, 0); got != r {
		t.Error("maxFiles=0 should return original")
	}
	if got := SelectFiles(r, 10); got != r {
		t.Error("maxFiles > len should return original")
	}
	if got := SelectFiles(r, len(r.Files)); got != r {
		t.Error("maxFiles == len should return original")
	}
}

func TestSelectFilesSubset(t *testing.T) {
	t.Parallel()

	r := makeReport()
	Sort(r.Files)
	got := SelectFiles(r, 2)

	if got.Name != "test" {
		t.Errorf("Name = %q, want test", got.Name)
	}
	if len(got.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(got.Files))
	}
	if got.Files[0].Path != "y.js" || got.Files[1].Path != "m.js" {
		t.Errorf("expected y.js, m.js; got %v", paths(got.Files))
	}
	if len(r.Files) != 6 {
		t.Errorf("original report modified: %d files", len(r.Files))
	}
}
