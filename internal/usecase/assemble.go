package usecase

import (
	"strings"
	"time"

	"github.com/V4T54L/send-event/internal/adapter/pii"
	"github.com/V4T54L/send-event/internal/domain"
)

// environKey is the extra entry holding the process environment snapshot.
const environKey = "environ"

// ManualInput carries the discrete command-line values used to build an
// event. Empty strings and nil slices mean "not supplied".
type ManualInput struct {
	Level          string
	Timestamp      string
	Release        string
	Dist           string
	Environment    string
	Platform       string
	NoEnviron      bool
	Messages       []string
	MessageArgs    []string
	Tags           []string
	Extra          []string
	User           []string
	Fingerprint    []string
	Logfile        string
	WithCategories bool
}

// Assembler derives an event from ManualInput.
type Assembler struct {
	releases domain.ReleaseDetector
	users    domain.UserNameSource
	environ  domain.EnvironSource
	redactor *pii.Redactor
	sdk      domain.SdkInfo
	now      func() time.Time
}

// NewAssembler creates a new Assembler. redactor may be nil.
func NewAssembler(releases domain.ReleaseDetector, users domain.UserNameSource, environ domain.EnvironSource, redactor *pii.Redactor, sdk domain.SdkInfo) *Assembler {
	return &Assembler{
		releases: releases,
		users:    users,
		environ:  environ,
		redactor: redactor,
		sdk:      sdk,
		now:      time.Now,
	}
}

// Assemble builds the event. Any validation or logfile error aborts
// assembly and nothing is returned.
func (a *Assembler) Assemble(in ManualInput) (*domain.Event, error) {
	sdk := a.sdk
	event := &domain.Event{
		Sdk:         &sdk,
		Level:       resolveLevel(in.Level),
		Dist:        in.Dist,
		Environment: in.Environment,
		Platform:    resolvePlatform(in.Platform),
	}

	if release, ok := resolveRelease(in.Release, a.releases); ok {
		event.Release = release
	}

	if len(in.Messages) > 0 {
		event.LogEntry = &domain.LogEntry{
			Message: strings.Join(in.Messages, "\n"),
			Params:  append([]string(nil), in.MessageArgs...),
		}
	}

	if in.Timestamp != "" {
		ts, err := ParseTimestamp(in.Timestamp)
		if err != nil {
			return nil, err
		}
		event.Timestamp = domain.NewTimestamp(ts)
	}

	tags, err := ParseTags(in.Tags)
	if err != nil {
		return nil, err
	}
	event.Tags = tags

	// The environment goes in first so an explicit "environ" extra replaces it.
	extra := domain.Extra{}
	if !in.NoEnviron && a.environ != nil {
		extra[environKey] = a.environSnapshot()
	}
	if err := MergeExtra(extra, in.Extra); err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		event.Extra = extra
	}

	user, err := resolveUser(in.User, a.users)
	if err != nil {
		return nil, err
	}
	event.User = user

	if len(in.Fingerprint) > 0 {
		event.Fingerprint = append([]string(nil), in.Fingerprint...)
	}

	if in.Logfile != "" {
		crumbs, err := ReadBreadcrumbs(in.Logfile, in.WithCategories, a.now())
		if err != nil {
			return nil, err
		}
		event.Breadcrumbs = crumbs
	}

	return event, nil
}

// environSnapshot returns the environment as a JSON object of strings.
func (a *Assembler) environSnapshot() map[string]any {
	vars := a.environ.Environ()
	a.redactor.Redact(vars)

	out := make(map[string]any, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out
}
