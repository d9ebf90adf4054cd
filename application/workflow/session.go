package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	apperrors "dialysis_autofill/domain/errors"
	"dialysis_autofill/domain/interfaces"
)

// ManagedSession guards a session so it is closed at most once
type ManagedSession struct {
	interfaces.Session
	once     sync.Once
	closeErr error
}

// Close - closes the underlying session the first time, later calls are no-ops
func (s *ManagedSession) Close() error {
	s.once.Do(func() {
		s.closeErr = s.Session.Close()
	})
	return s.closeErr
}

// SessionManager owns the lifecycle of browser sessions
type SessionManager struct {
	factory        interfaces.SessionFactory
	opts           interfaces.SessionOptions
	diagnosticsDir string
	logger         *logrus.Logger
}

// NewSessionManager - creates a manager; an empty diagnosticsDir disables screenshots
func NewSessionManager(factory interfaces.SessionFactory, opts interfaces.SessionOptions, diagnosticsDir string, logger *logrus.Logger) *SessionManager {
	return &SessionManager{
		factory:        factory,
		opts:           opts,
		diagnosticsDir: diagnosticsDir,
		logger:         logger,
	}
}

// Open - starts a session with the configured headless flag and bounded wait
func (m *SessionManager) Open(ctx context.Context) (*ManagedSession, error) {
	sess, err := m.factory.Open(ctx, m.opts)
	if err == nil && sess == nil {
		err = errors.New("factory returned no session")
	}
	if err != nil {
		if apperrors.IsSessionInit(err) {
			return nil, err
		}
		return nil, apperrors.NewSessionInitError(err)
	}
	return &ManagedSession{Session: sess}, nil
}

// Close - idempotent close
func (m *SessionManager) Close(sess *ManagedSession) error {
	if sess == nil {
		return nil
	}
	return sess.Close()
}

// CaptureDiagnostic - saves a screenshot named after label; failures are only logged
func (m *SessionManager) CaptureDiagnostic(ctx context.Context, sess interfaces.Session, runID, label string) string {
	if m.diagnosticsDir == "" || sess == nil {
		return ""
	}
	if err := os.MkdirAll(m.diagnosticsDir, 0755); err != nil {
		m.logger.Warnf("Could not create diagnostics directory: %v", err)
		return ""
	}

	path := filepath.Join(m.diagnosticsDir, fmt.Sprintf("%s_%s.png", shortID(runID), label))
	if err := sess.Screenshot(ctx, path); err != nil {
		m.logger.WithField("label", label).Warnf("Screenshot failed: %v", err)
		return ""
	}
	m.logger.Infof("Screenshot: %s", path)
	return path
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
