// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

var Logger *UserLog

type UserLog struct {
	log    *zap.SugaredLogger
	writer io.Writer
}

func NewUserLog(log *zap.SugaredLogger, userwriter io.Writer) {
	if Logger == nil {
		Logger = &UserLog{
			log:    log,
			writer: userwriter,
		}
	}
}

// PrintToUser prints msg directly to stdout (command output)
func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
	ul.log.Info(formattedMsg)
}

// Info logs an info message to the log file only
func (ul *UserLog) Info(msg string, args ...interface{}) {
	ul.log.Infof(msg, args...)
}

// Error logs an error message to the log file only
func (ul *UserLog) Error(msg string, args ...interface{}) {
	ul.log.Errorf(msg, args...)
}

// GreenCheckmarkToUser prints a success line to the user
func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf("✓ %s", fmt.Sprintf(msg, args...))
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
	ul.log.Info(formattedMsg)
}

// RedXToUser prints an error line to the user
func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf("✗ %s", fmt.Sprintf(msg, args...))
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
	ul.log.Error(formattedMsg)
}

// PrintError prints a visible, timestamped error with remediation text.
// Every fatal path goes through here so the operator never sees a bare error.
func (ul *UserLog) PrintError(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintf(ul.writer, "\n[%s] ERROR: %s\n", time.Now().Format(time.RFC3339), formattedMsg)
	ul.log.Error(formattedMsg)
}

// PrintLineSeparator prints a line separator
func (ul *UserLog) PrintLineSeparator(msg ...string) {
	separator := "=========================================="
	if len(msg) > 0 && msg[0] != "" {
		separator = msg[0]
	}
	_, _ = fmt.Fprintln(ul.writer, separator)
	ul.log.Info(separator)
}
