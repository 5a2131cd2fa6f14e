package usecase

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/V4T54L/send-event/internal/domain"
)

// maxBreadcrumbs is how many trailing logfile lines are kept.
const maxBreadcrumbs = 100

var categoryLevels = map[string]domain.Level{
	"debug":    domain.LevelDebug,
	"info":     domain.LevelInfo,
	"warning":  domain.LevelWarning,
	"warn":     domain.LevelWarning,
	"error":    domain.LevelError,
	"fatal":    domain.LevelFatal,
	"critical": domain.LevelFatal,
}

// ReadBreadcrumbs turns the last lines of a logfile into breadcrumbs, oldest
// first. With withCategories, a leading "LEVEL: " prefix sets the level.
func ReadBreadcrumbs(path string, withCategories bool, now time.Time) (domain.Breadcrumbs, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open logfile: %w", domain.ErrIO, err)
	}
	defer f.Close()

	lines, err := tailLines(f, maxBreadcrumbs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read logfile %s: %w", domain.ErrIO, path, err)
	}

	ts := domain.Timestamp{Time: now.UTC()}
	crumbs := make(domain.Breadcrumbs, 0, len(lines))
	for _, line := range lines {
		crumbs = append(crumbs, parseBreadcrumb(line, withCategories, ts))
	}
	return crumbs, nil
}

// tailLines returns the last n lines of r in their original order.
func tailLines(r io.Reader, n int) ([]string, error) {
	ring := make([]string, 0, n)
	next := 0

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if len(ring) < n {
				ring = append(ring, line)
			} else {
				ring[next] = line
				next = (next + 1) % n
			}
		}
		if err == io.EOF {
			break
		}
	}

	out := make([]string, 0, len(ring))
	out = append(out, ring[next:]...)
	return append(out, ring[:next]...), nil
}

func parseBreadcrumb(line string, withCategories bool, ts domain.Timestamp) domain.Breadcrumb {
	crumb := domain.Breadcrumb{Timestamp: ts, Message: line}
	if !withCategories {
		return crumb
	}

	category, rest, ok := strings.Cut(line, ": ")
	if !ok {
		return crumb
	}
	if level, ok := categoryLevels[strings.ToLower(category)]; ok {
		crumb.Level = level
		crumb.Message = rest
	}
	return crumb
}
