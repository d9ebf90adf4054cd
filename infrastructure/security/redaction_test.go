package security

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, &buf
}

func TestRedactionHook_MasksMessageAndFields(t *testing.T) {
	logger, buf := newLogger()
	Install(logger, "s3cret!")

	logger.WithFields(logrus.Fields{
		"value": "typed s3cret! into box",
		"error": errors.New("login rejected for s3cret!"),
		"count": 3,
	}).Info("password s3cret! was sent")

	out := buf.String()
	assert.NotContains(t, out, "s3cret!")
	assert.Contains(t, out, "password **** was sent")
	assert.Contains(t, out, "typed **** into box")
	assert.Contains(t, out, "login rejected for ****")
	assert.Contains(t, out, "count=3")
}

func TestRedactionHook_AddLater(t *testing.T) {
	logger, buf := newLogger()
	hook := Install(logger)

	logger.Info("before hunter2")
	hook.Add("hunter2", "")
	logger.Info("after hunter2")

	out := buf.String()
	assert.Contains(t, out, "before hunter2")
	assert.Contains(t, out, "after ****")
}

func TestRedactionHook_Redact(t *testing.T) {
	hook := NewRedactionHook("abc", "xyz")
	assert.Equal(t, "**** and ****", hook.Redact("abc and xyz"))
	assert.Equal(t, "nothing here", hook.Redact("nothing here"))
}
