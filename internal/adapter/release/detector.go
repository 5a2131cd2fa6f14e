package release

import (
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// envCandidates are checked in order before falling back to git.
var envCandidates = []string{"SENTRY_RELEASE", "SOURCE_VERSION", "HEROKU_SLUG_COMMIT"}

// Detector guesses a release name from well-known environment variables
// and the HEAD commit of the working directory's git repository.
type Detector struct {
	lookupEnv func(string) (string, bool)
	gitHead   func() (string, error)
	logger    *slog.Logger
}

// NewDetector creates a Detector bound to the real environment.
func NewDetector(logger *slog.Logger) *Detector {
	return &Detector{
		lookupEnv: os.LookupEnv,
		gitHead:   gitRevParseHead,
		logger:    logger.With("component", "release_detector"),
	}
}

// DetectRelease returns the first non-empty candidate.
func (d *Detector) DetectRelease() (string, bool) {
	for _, name := range envCandidates {
		if v, ok := d.lookupEnv(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}

	head, err := d.gitHead()
	if err != nil {
		d.logger.Debug("could not detect release from git", "error", err)
		return "", false
	}
	if head = strings.TrimSpace(head); head == "" {
		return "", false
	}
	return head, true
}

func gitRevParseHead() (string, error) {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
