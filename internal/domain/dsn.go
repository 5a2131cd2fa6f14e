package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// DSN is the destination credential: ingestion endpoint plus auth keys.
type DSN struct {
	Scheme    string
	PublicKey string
	SecretKey string
	Host      string
	Path      string
	ProjectID string
}

// ParseDSN parses {scheme}://{public}[:{secret}]@{host}[:{port}]{/path}/{project}.
func ParseDSN(raw string) (DSN, error) {
	if strings.TrimSpace(raw) == "" {
		return DSN{}, fmt.Errorf("%w: no DSN configured", ErrConfiguration)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return DSN{}, fmt.Errorf("%w: invalid DSN: %v", ErrConfiguration, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return DSN{}, fmt.Errorf("%w: unsupported DSN scheme %q", ErrConfiguration, u.Scheme)
	}
	if u.User == nil || u.User.Username() == "" {
		return DSN{}, fmt.Errorf("%w: DSN is missing the public key", ErrConfiguration)
	}
	if u.Host == "" {
		return DSN{}, fmt.Errorf("%w: DSN is missing the host", ErrConfiguration)
	}

	path := strings.TrimSuffix(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 || idx == len(path)-1 {
		return DSN{}, fmt.Errorf("%w: DSN is missing the project id", ErrConfiguration)
	}

	secret, _ := u.User.Password()
	return DSN{
		Scheme:    u.Scheme,
		PublicKey: u.User.Username(),
		SecretKey: secret,
		Host:      u.Host,
		Path:      path[:idx],
		ProjectID: path[idx+1:],
	}, nil
}

// StoreURL is the endpoint events are posted to.
func (d DSN) StoreURL() string {
	return fmt.Sprintf("%s://%s%s/api/%s/store/", d.Scheme, d.Host, d.Path, d.ProjectID)
}

// AuthHeader builds the X-Sentry-Auth header value for the given client.
func (d DSN) AuthHeader(client string) string {
	parts := []string{
		"sentry_version=7",
		"sentry_client=" + client,
		"sentry_key=" + d.PublicKey,
	}
	if d.SecretKey != "" {
		parts = append(parts, "sentry_secret="+d.SecretKey)
	}
	return "Sentry " + strings.Join(parts, ", ")
}

// String renders the DSN without the secret key.
func (d DSN) String() string {
	return fmt.Sprintf("%s://%s@%s%s/%s", d.Scheme, d.PublicKey, d.Host, d.Path, d.ProjectID)
}
