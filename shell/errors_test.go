// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package shell

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")

	tests := []struct {
		name        string
		err         error
		upload      bool
		missingFile bool
		unreadable  bool
		alpha       bool
		tooLarge    bool
		status      int
	}{
		{
			name:        "missing file",
			err:         &UploadError{Type: ErrorTypeMissingFile, Message: "no file", Err: http.ErrMissingFile},
			upload:      true,
			missingFile: true,
			status:      http.StatusBadRequest,
		},
		{
			name:       "unreadable wrapped",
			err:        fmt.Errorf("handling upload: %w", &UploadError{Type: ErrorTypeUnreadable, Message: "bad", Err: cause}),
			upload:     true,
			unreadable: true,
			status:     http.StatusBadRequest,
		},
		{
			name:   "invalid alpha",
			err:    &UploadError{Type: ErrorTypeInvalidAlpha, Message: "alpha"},
			upload: true,
			alpha:  true,
			status: http.StatusBadRequest,
		},
		{
			name:     "too large",
			err:      &UploadError{Type: ErrorTypeTooLarge, Message: "big"},
			upload:   true,
			tooLarge: true,
			status:   http.StatusRequestEntityTooLarge,
		},
		{
			name:   "server failure",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.upload, IsUploadError(tc.err))
			assert.Equal(t, tc.missingFile, IsMissingFileError(tc.err))
			assert.Equal(t, tc.unreadable, IsUnreadableError(tc.err))
			assert.Equal(t, tc.alpha, IsInvalidAlphaError(tc.err))
			assert.Equal(t, tc.tooLarge, IsTooLargeError(tc.err))
			assert.Equal(t, tc.status, statusCode(tc.err))
		})
	}
}

func TestUploadErrorMessage(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := &UploadError{Type: ErrorTypeUnreadable, Message: "無法讀取xlsx文件", Err: cause}

	assert.Equal(t, "無法讀取xlsx文件: zip: not a valid zip file", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "透明度", (&UploadError{Message: "透明度"}).Error())
}

func TestParseAlpha(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"", DefaultAlpha, true},
		{"0", 0, true},
		{"0.0", 0, true},
		{"0.7", 0.7, true},
		{"1.0", 1, true},
		{"0.37", 0.4, true},
		{"0.74", 0.7, true},
		{"0.05", 0.1, true},
		{"1.01", 0, false},
		{"-0.1", 0, false},
		{"NaN", 0, false},
		{"half", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseAlpha(tc.in)
			if !tc.ok {
				assert.True(t, IsInvalidAlphaError(err))

				return
			}

			assert.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestFileLabel(t *testing.T) {
	assert.Equal(t, "湖南方志", fileLabel("湖南方志.xlsx"))
	assert.Equal(t, "list", fileLabel(`C:\Users\me\list.xlsx`))
	assert.Equal(t, "a.b", fileLabel("dir/a.b.xlsx"))
	assert.Equal(t, "noext", fileLabel("noext"))
}
