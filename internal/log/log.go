// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// PUMLCACHE_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("PUMLCACHE_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&CustomHandler{Writer: os.Stderr})
	log.SetLevelFromString(level)
}

// CustomHandler formats log messages as a single line. It writes to stderr by
// default so that images piped to stdout stay intact.
type CustomHandler struct {
	Writer io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	w := h.Writer
	if w == nil {
		w = os.Stderr
	}
	timestamp := e.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	level := strings.ToUpper(e.Level.String())
	message := e.Message
	if err, ok := e.Fields["error"]; ok {
		message = fmt.Sprintf("%s: %v", message, err)
	}
	_, err := fmt.Fprintf(w, "%s %.1s %s\n", timestamp.Format("2006-01-02 15:04:05"), level, message)
	return err
}
