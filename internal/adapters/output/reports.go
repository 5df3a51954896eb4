// internal/adapters/output/reports.go
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thomsbe/slubjsonlinkcheck/internal/core/domain"
	"github.com/thomsbe/slubjsonlinkcheck/internal/platform/errors"
)

// DefaultSuffix is appended to the input stem when no explicit output path
// is given. "data.jsonl" becomes "data_cleaned.jsonl".
const DefaultSuffix = "_cleaned"

// DerivePath builds the output path from the input path and a suffix.
// The suffix goes between the file stem and the extension.
func DerivePath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+suffix+ext)
}

// WriteTimeoutReport writes the unreachable URLs to path, one per line,
// sorted and deduplicated.
func WriteTimeoutReport(path string, urls []string) error {
	unique := dedupeSorted(urls)
	return writeLines(path, unique)
}

// WriteRedirectReport writes the observed redirects to path as
// "source;target" lines, sorted and deduplicated.
func WriteRedirectReport(path string, redirects []domain.Redirect) error {
	lines := make([]string, 0, len(redirects))
	for _, r := range redirects {
		lines = append(lines, fmt.Sprintf("%s;%s", r.Source, r.Target))
	}
	return writeLines(path, dedupeSorted(lines))
}

func dedupeSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.Join(errors.ErrIO, err), "creating report %s", path)
	}
	buf := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := fmt.Fprintln(buf, line); err != nil {
			f.Close()
			return errors.Wrapf(errors.Join(errors.ErrIO, err), "writing report %s", path)
		}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(errors.Join(errors.ErrIO, err), "writing report %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(errors.Join(errors.ErrIO, err), "closing report %s", path)
	}
	return nil
}
