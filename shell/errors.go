// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"errors"
	"fmt"
	"net/http"
)

// UploadError is a problem with what the user sent, as opposed to a
// failure of the server.
type UploadError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies upload errors.
type ErrorType int

const (
	// ErrorTypeUnknown is an unclassified upload error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeMissingFile means the form had no file.
	ErrorTypeMissingFile
	// ErrorTypeUnreadable means the file is not an xlsx workbook.
	ErrorTypeUnreadable
	// ErrorTypeInvalidAlpha means the transparency is not a number in [0, 1].
	ErrorTypeInvalidAlpha
	// ErrorTypeTooLarge means the request went over the upload limit.
	ErrorTypeTooLarge
)

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// StatusCode is the HTTP status reported for the error.
func (e *UploadError) StatusCode() int {
	if e.Type == ErrorTypeTooLarge {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}

func errorType(err error) ErrorType {
	var upErr *UploadError
	if errors.As(err, &upErr) {
		return upErr.Type
	}

	return ErrorTypeUnknown
}

// IsUploadError reports whether err was caused by the request content.
func IsUploadError(err error) bool {
	var upErr *UploadError

	return errors.As(err, &upErr)
}

// IsMissingFileError reports whether the form had no file.
func IsMissingFileError(err error) bool {
	return errorType(err) == ErrorTypeMissingFile
}

// IsUnreadableError reports whether the upload was not a workbook.
func IsUnreadableError(err error) bool {
	return errorType(err) == ErrorTypeUnreadable
}

// IsInvalidAlphaError reports whether the transparency was rejected.
func IsInvalidAlphaError(err error) bool {
	return errorType(err) == ErrorTypeInvalidAlpha
}

// IsTooLargeError reports whether the request was over the upload limit.
func IsTooLargeError(err error) bool {
	return errorType(err) == ErrorTypeTooLarge
}

// statusCode maps a pipeline error to an HTTP status.
func statusCode(err error) int {
	var upErr *UploadError
	if errors.As(err, &upErr) {
		return upErr.StatusCode()
	}

	return http.StatusInternalServerError
}
