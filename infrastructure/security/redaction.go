package security

import (
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const mask = "****"

// RedactionHook masks registered secrets in log messages and string fields
type RedactionHook struct {
	mu      sync.RWMutex
	secrets []string
}

// NewRedactionHook - creates a hook masking the given secrets
func NewRedactionHook(secrets ...string) *RedactionHook {
	h := &RedactionHook{}
	h.Add(secrets...)
	return h
}

// Install - attaches a new hook to logger
func Install(logger *logrus.Logger, secrets ...string) *RedactionHook {
	h := NewRedactionHook(secrets...)
	logger.AddHook(h)
	return h
}

// Add - registers more secrets; empty strings are ignored
func (h *RedactionHook) Add(secrets ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range secrets {
		if s == "" {
			continue
		}
		h.secrets = append(h.secrets, s)
	}
}

func (h *RedactionHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RedactionHook) Fire(entry *logrus.Entry) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.secrets) == 0 {
		return nil
	}

	entry.Message = h.redact(entry.Message)

	for key, value := range entry.Data {
		switch v := value.(type) {
		case string:
			entry.Data[key] = h.redact(v)
		case error:
			if redacted := h.redact(v.Error()); redacted != v.Error() {
				entry.Data[key] = redacted
			}
		}
	}
	return nil
}

// Redact - masks every registered secret in s
func (h *RedactionHook) Redact(s string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.redact(s)
}

func (h *RedactionHook) redact(s string) string {
	for _, secret := range h.secrets {
		if strings.Contains(s, secret) {
			s = strings.ReplaceAll(s, secret, mask)
		}
	}
	return s
}
