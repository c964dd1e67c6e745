package resolver

import (
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type capturedHook struct {
	*logtest.Hook
}

func newCapturedLogger() (*logrus.Logger, *capturedHook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, &capturedHook{hook}
}

func (h *capturedHook) count(message string) int {
	n := 0
	for _, entry := range h.AllEntries() {
		if entry.Message == message {
			n++
		}
	}
	return n
}
