// Copyright 2018, RadiantBlue Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Severity indicates the importance of an audit log message
type Severity int

// Log severities, in increasing order of importance
const (
	DEBUG Severity = iota
	INFO
	NOTICE
	WARNING
	ERROR
	CRITICAL
)

func (s Severity) String() string {
	switch s {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case NOTICE:
		return "NOTICE"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case CRITICAL:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// LogContext provides metadata identifying the session a log message belongs to
type LogContext interface {
	AppName() string
	SessionID() string
	LogRootDir() string
}

// BasicLogContext is a LogContext for processes that have no richer context
// available; it lazily assigns itself a session ID
type BasicLogContext struct {
	sessionID string
}

// AppName implements the LogContext interface
func (ctx *BasicLogContext) AppName() string { return "hls-vi-historical" }

// SessionID implements the LogContext interface
func (ctx *BasicLogContext) SessionID() string {
	if ctx.sessionID == "" {
		ctx.sessionID = uuid.NewString()
	}
	return ctx.sessionID
}

// LogRootDir implements the LogContext interface
func (ctx *BasicLogContext) LogRootDir() string { return "" }

// JobLogContext is a LogContext correlated with an externally assigned job or
// run identifier (e.g. a batch job ID or queue message ID)
type JobLogContext struct {
	JobID string
}

// AppName implements the LogContext interface
func (ctx JobLogContext) AppName() string { return "hls-vi-historical" }

// SessionID implements the LogContext interface
func (ctx JobLogContext) SessionID() string { return ctx.JobID }

// LogRootDir implements the LogContext interface
func (ctx JobLogContext) LogRootDir() string { return "" }

// LogInfo logs an informational message
func LogInfo(ctx LogContext, message string) {
	log.Printf("[%s session:%s] INFO %s", ctx.AppName(), ctx.SessionID(), message)
}

// LogAlert logs a message that deserves operator attention but is not
// necessarily an error
func LogAlert(ctx LogContext, message string) {
	log.Printf("[%s session:%s] ALERT %s", ctx.AppName(), ctx.SessionID(), message)
}

// LogSimpleErr logs a message and its underlying error, and returns a single
// error combining both for the caller to propagate
func LogSimpleErr(ctx LogContext, message string, err error) error {
	log.Printf("[%s session:%s] ERROR %s %v", ctx.AppName(), ctx.SessionID(), message, err)
	return fmt.Errorf("%s%v", message, err)
}

// LogAuditInput holds the actor/action/actee triple for audit logging
type LogAuditInput struct {
	Actor    string
	Action   string
	Actee    string
	Message  string
	Severity Severity
}

// LogAudit writes an audit-formatted log message
func LogAudit(ctx LogContext, input LogAuditInput) {
	log.Printf("[%s session:%s] AUDIT %s actor:%s action:%s actee:%s %s",
		ctx.AppName(), ctx.SessionID(), input.Severity, input.Actor, input.Action, input.Actee, input.Message)
}

// Error is a richer error containing detailed log output and a simpler
// user-facing message
type Error struct {
	LogMsg     string
	SimpleMsg  string
	Response   string
	URL        string
	HTTPStatus int
}

// Error implements the error interface
func (err Error) Error() string {
	if err.SimpleMsg != "" {
		return err.SimpleMsg
	}
	return err.LogMsg
}

// Log writes the full detail of this error to the log, with an optional
// message prefix, and returns the error for propagation
func (err Error) Log(ctx LogContext, prefix string) error {
	message := err.LogMsg
	if prefix != "" {
		message = prefix + ": " + message
	}
	if err.URL != "" {
		message += fmt.Sprintf("\nURL: %s", err.URL)
	}
	if err.HTTPStatus != 0 {
		message += fmt.Sprintf("\nHTTP Status: %d", err.HTTPStatus)
	}
	if err.Response != "" {
		message += fmt.Sprintf("\nResponse: %s", err.Response)
	}
	log.Printf("[%s session:%s] ERROR %s", ctx.AppName(), ctx.SessionID(), message)
	return err
}

// HTTPErr is an error holding an HTTP status code
type HTTPErr struct {
	Status  int
	Message string
}

// Error implements the error interface
func (err HTTPErr) Error() string {
	return err.Message
}
