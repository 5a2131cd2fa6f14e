package osenv

import (
	"os"
	"os/user"
	"strings"
)

// Environ snapshots the real process environment.
type Environ struct{}

// Environ returns every variable with a non-empty name.
func (Environ) Environ() map[string]string {
	vars := os.Environ()
	out := make(map[string]string, len(vars))
	for _, kv := range vars {
		k, v, _ := strings.Cut(kv, "=")
		if k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// UserName reports the OS user running the process.
type UserName struct{}

func (UserName) CurrentUserName() (string, bool) {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "", false
	}
	return u.Username, true
}
