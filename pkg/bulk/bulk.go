/*
Package bulk loads keywords from a plain-text file, one per line,
calling Instance.Add for each. It is a supplemented feature: the
teacher's pkg/dictionary read a binary, chunked, frequency-ranked
format with its own header layout; that has no analog here, since a
keyword in this domain carries no frequency, only set membership. What
survives from the teacher's loader is the file-scanning idiom itself —
open, buffer, iterate lines, skip what doesn't belong — trimmed to
plain text.
*/
package bulk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nilcrux/ahokeep/pkg/keywords"
)

// Result summarizes one Load call.
type Result struct {
	Added   int
	Skipped int
}

// Load reads path line by line, calling inst.Add on every non-blank,
// non-comment line. A line beginning with "#" (after surrounding
// whitespace is stripped) is a comment and is skipped, not added.
func Load(ctx context.Context, inst *keywords.Instance, path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("bulk: opening %s: %w", path, err)
	}
	defer file.Close()

	return LoadFrom(ctx, inst, file)
}

// LoadFrom is Load against an already-open reader, so callers (and
// tests) don't need a file on disk.
func LoadFrom(ctx context.Context, inst *keywords.Instance, r io.Reader) (Result, error) {
	var result Result
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			result.Skipped++
			continue
		}
		if _, err := inst.Add(ctx, line); err != nil {
			return result, fmt.Errorf("bulk: line %d (%q): %w", lineNo, line, err)
		}
		result.Added++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("bulk: scanning: %w", err)
	}
	log.Debugf("bulk load: added %d, skipped %d", result.Added, result.Skipped)
	return result, nil
}
