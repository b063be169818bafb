package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"graspctl/internal/candidates"
	"graspctl/internal/config"
)

// MockPhaseRunner is a phase runner for testing.
type MockPhaseRunner struct {
	// ExecutedPhases records all phase runs in order.
	ExecutedPhases []string
	// FailOnPhase specifies which phase should fail.
	FailOnPhase string
}

func (m *MockPhaseRunner) RunPhase(ctx context.Context, name string) error {
	m.ExecutedPhases = append(m.ExecutedPhases, name)
	if m.FailOnPhase == name {
		return NewExitError(ExitFailure)
	}
	return nil
}

// Message is a publish recorded by [MockPublisher].
type Message struct {
	Subject string
	Data    []byte
}

// MockPublisher records published intents.
type MockPublisher struct {
	Messages []Message
}

func (m *MockPublisher) Publish(subject string, data []byte) error {
	m.Messages = append(m.Messages, Message{Subject: subject, Data: data})
	return nil
}

// Subjects returns the subjects published so far, in order.
func (m *MockPublisher) Subjects() []string {
	var out []string
	for _, msg := range m.Messages {
		out = append(out, msg.Subject)
	}
	return out
}

// testApp bundles an App with its captured output and mocks.
type testApp struct {
	*App
	out       *bytes.Buffer
	err       *bytes.Buffer
	runner    *MockPhaseRunner
	publisher *MockPublisher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv(candidates.EnvPath, "")

	ta := &testApp{
		out:       &bytes.Buffer{},
		err:       &bytes.Buffer{},
		runner:    &MockPhaseRunner{},
		publisher: &MockPublisher{},
	}
	ta.App = &App{
		Config:    config.DefaultConfig(),
		Session:   "test-session",
		Out:       ta.out,
		Err:       ta.err,
		Runner:    ta.runner,
		Publisher: ta.publisher,
	}
	return ta
}

// writeFile creates a file with content in a temporary directory and
// returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const testCandidates = `candidates:
  - name: G1
    reachable: false
  - name: G2
    reachable: true
`
