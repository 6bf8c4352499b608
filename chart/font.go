// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package chart

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
)

// Typeface is the name the CJK font is registered under.
const Typeface font.Typeface = "SimHei"

var (
	fontOnce sync.Once
	fontErr  error
)

// RegisterFont parses the TrueType font at path and makes it the default
// face of every chart. Only the first call does any work; later calls
// return its result.
func RegisterFont(path string) error {
	fontOnce.Do(func() {
		fontErr = registerFont(path)
	})

	return fontErr
}

func registerFont(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading font: %w", err)
	}

	ttf, err := opentype.Parse(b)
	if err != nil {
		return fmt.Errorf("parsing font %s: %w", path, err)
	}

	face := font.Font{Typeface: Typeface}

	font.DefaultCache.Add(font.Collection{{Font: face, Face: ttf}})

	plot.DefaultFont = face
	plotter.DefaultFont = face

	return nil
}
