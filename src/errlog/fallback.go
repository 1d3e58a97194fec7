package errlog

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"

	"schoolapi/src/model"
)

// FallbackLog is the last line of defense when the durable store cannot
// take a record: one line per failure, append-only, never propagates
// errors to the caller.
type FallbackLog struct {
	path string
	mu   sync.Mutex
}

func NewFallbackLog(path string) *FallbackLog {
	return &FallbackLog{path: path}
}

func (f *FallbackLog) Write(persistErr error, rec *model.ErrorLog) {
	f.mu.Lock()
	defer f.mu.Unlock()

	line := fmt.Sprintf(
		"%s | persist failed: %v | tracingId: %s | message: %s | stack: %s\n",
		time.Now().UTC().Format(time.RFC3339),
		persistErr,
		rec.TracingID,
		oneLine(rec.LogMessage),
		oneLine(rec.LogStackTrace),
	)

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		logger.WithError(err).Error("failed to open fallback error log")
		return
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		logger.WithError(err).Error("failed to append to fallback error log")
	}
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r", " "), "\n", " ")
}
