// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// foldTitle removes the differences users usually introduce when typing a
// title by hand: full-width punctuation, compatibility characters and spaces.
func foldTitle(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFKC,
			width.Fold,
			runes.Remove(runes.Predicate(unicode.IsSpace)),
		),
		s,
	)

	return s
}
