package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure. Every fatal error surfaced by a
// run carries exactly one kind; only TransientStoreError is retried, and only
// inside the object store client.
type ErrorKind string

// Pipeline failure kinds
const (
	InvalidGranuleIdentifier      ErrorKind = "InvalidGranuleIdentifier"
	MissingSourceObject           ErrorKind = "MissingSourceObject"
	MalformedMetadataDocument     ErrorKind = "MalformedMetadataDocument"
	ComputationTimeout            ErrorKind = "ComputationTimeout"
	ComputationFailed             ErrorKind = "ComputationFailed"
	IncompleteComputationOutput   ErrorKind = "IncompleteComputationOutput"
	CatalogRecordGenerationFailed ErrorKind = "CatalogRecordGenerationFailed"
	PublicationFailed             ErrorKind = "PublicationFailed"
	TransientStoreError           ErrorKind = "TransientStoreError"
)

// ExitCode maps each failure kind onto a distinct process exit code for
// batch-style invocations. Zero means success; 1 is reserved for
// unclassified errors.
func (k ErrorKind) ExitCode() int {
	switch k {
	case InvalidGranuleIdentifier:
		return 10
	case MissingSourceObject:
		return 11
	case MalformedMetadataDocument:
		return 12
	case ComputationTimeout:
		return 13
	case ComputationFailed:
		return 14
	case IncompleteComputationOutput:
		return 15
	case CatalogRecordGenerationFailed:
		return 16
	case PublicationFailed:
		return 17
	case TransientStoreError:
		return 18
	}
	return 1
}

// PipelineError is a classified failure of one pipeline run
type PipelineError struct {
	Kind      ErrorKind
	Stage     string
	GranuleID string
	Err       error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	msg := string(e.Kind)
	if e.Stage != "" {
		msg += " at stage " + e.Stage
	}
	if e.GranuleID != "" {
		msg += " for granule " + e.GranuleID
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/As
func (e *PipelineError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from an error chain, or empty if the error
// is unclassified
func KindOf(err error) ErrorKind {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}

// Classify wraps err with the given kind unless it already carries one, in
// which case the original classification is preserved and only the stage and
// granule fields are backfilled
func Classify(err error, kind ErrorKind, stage, granuleID string) *PipelineError {
	var perr *PipelineError
	if errors.As(err, &perr) {
		if perr.Stage == "" {
			perr.Stage = stage
		}
		if perr.GranuleID == "" {
			perr.GranuleID = granuleID
		}
		return perr
	}
	return &PipelineError{Kind: kind, Stage: stage, GranuleID: granuleID, Err: err}
}

// Errorf builds a classified error from a format string
func Errorf(kind ErrorKind, format string, args ...interface{}) *PipelineError {
	return &PipelineError{Kind: kind, Err: fmt.Errorf(format, args...)}
}
