// Package ranking orders lint results so the most severe files come first.
package ranking

import (
	"sort"

	"github.com/phobologic/backbonelint/internal/model"
)

// Sort orders files in place: files with errors first (most errors first),
// then files with warnings (most warnings first), then clean files, with
// ties broken by path.
func Sort(files []model.FileReport) {
	sort.SliceStable(files, func(i, j int) bool {
		a, b := &files[i], &files[j]
		if ae, be := a.Count(model.Error), b.Count(model.Error); ae != be {
			return ae > be
		}
		if aw, bw := a.Count(model.Warning), b.Count(model.Warning); aw != bw {
			return aw > bw
		}
		return a.Path < b.Path
	})
}

// SelectFiles returns a new Report with only the top-ranked files.
// If maxFiles is <= 0 or >= len(files), the report is returned unchanged.
func SelectFiles(r *model.Report, maxFiles int) *model.Report {
	if maxFiles <= 0 || maxFiles >= len(r.Files) {
		return r
	}
	return &model.Report{
		Name:  r.Name,
		Files: r.Files[:maxFiles],
	}
}
