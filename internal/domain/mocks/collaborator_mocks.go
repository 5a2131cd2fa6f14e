package mocks

import (
	"context"
	"sync"

	"github.com/V4T54L/send-event/internal/domain"
)

// MockTransport is a mock implementation of domain.Transport for testing.
type MockTransport struct {
	mu         sync.Mutex
	SentEvents []domain.Event
	SentDSNs   []domain.DSN
	SendErr    error
}

func (m *MockTransport) Send(ctx context.Context, event *domain.Event, dsn domain.DSN) (domain.EventID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEvents = append(m.SentEvents, *event)
	m.SentDSNs = append(m.SentDSNs, dsn)
	return event.ID, m.SendErr
}

// Calls returns the number of Send invocations.
func (m *MockTransport) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEvents)
}

// MockCredentialSource is a mock implementation of domain.CredentialSource.
type MockCredentialSource struct {
	Value domain.DSN
	Err   error
}

func (m *MockCredentialSource) DSN() (domain.DSN, error) {
	return m.Value, m.Err
}

// MockReleaseDetector is a mock implementation of domain.ReleaseDetector.
type MockReleaseDetector struct {
	Release string
}

func (m *MockReleaseDetector) DetectRelease() (string, bool) {
	return m.Release, m.Release != ""
}

// MockUserNameSource is a mock implementation of domain.UserNameSource.
type MockUserNameSource struct {
	Name string
}

func (m *MockUserNameSource) CurrentUserName() (string, bool) {
	return m.Name, m.Name != ""
}

// StaticEnviron is a fixed domain.EnvironSource.
type StaticEnviron map[string]string

func (e StaticEnviron) Environ() map[string]string {
	out := make(map[string]string, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}
