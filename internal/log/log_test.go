// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLoggerTo(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		emit     func()
		contains string
		empty    bool
	}{
		{
			name:  "default level hides debug",
			level: "",
			emit:  func() { Debugf("hidden %d", 1) },
			empty: true,
		},
		{
			name:     "error shown at default level",
			level:    "",
			emit:     func() { Errorf("boom %s", "here") },
			contains: " E boom here",
		},
		{
			name:     "debug level",
			level:    "DEBUG",
			emit:     func() { Debug("visible") },
			contains: " D visible",
		},
		{
			name:  "trace gated off at debug",
			level: "debug",
			emit:  func() { Tracef("nope") },
			empty: true,
		},
		{
			name:     "trace level",
			level:    "trace",
			emit:     func() { Tracef("rows=%d", 3) },
			contains: " T rows=3",
		},
		{
			name:     "warn",
			level:    "warn",
			emit:     func() { Warnf("careful %s", "now") },
			contains: " W careful now",
		},
		{
			name:     "error field appended",
			level:    "info",
			emit:     func() { WithError(errors.New("bad")).Info("upload") },
			contains: " I upload: error=bad",
		},
		{
			name:  "unknown level falls back to error",
			level: "chatty",
			emit:  func() { Infof("quiet") },
			empty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			InitLoggerTo(&buf, tt.level)
			tt.emit()
			if tt.empty {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}
