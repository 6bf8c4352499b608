// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// Era is the time-period bucket of a gazetteer.
type Era int

const (
	// EraUnknown covers missing or unrecognised period labels. It is never plotted.
	EraUnknown Era = iota
	// EraQinHan 秦漢.
	EraQinHan
	// EraWeiJin 魏晉南北朝.
	EraWeiJin
	// EraSuiTang 隋唐五代.
	EraSuiTang
	// EraSong 宋.
	EraSong
	// EraYuan 元.
	EraYuan
	// EraMing 明.
	EraMing
	// EraQing 清.
	EraQing
	// EraRepublican 民國.
	EraRepublican
)

var eraTable = [...]struct {
	label string
	color color.RGBA
}{
	EraUnknown:    {"", colornames.Black},
	EraQinHan:     {"秦漢", colornames.Yellow},
	EraWeiJin:     {"魏晉南北朝", colornames.Purple},
	EraSuiTang:    {"隋唐五代", colornames.Orange},
	EraSong:       {"宋", colornames.Cyan},
	EraYuan:       {"元", colornames.Magenta},
	EraMing:       {"明", colornames.Green},
	EraQing:       {"清", colornames.Red},
	EraRepublican: {"民國", colornames.Blue},
}

var erasByLabel = func() map[string]Era {
	m := make(map[string]Era, len(eraTable))
	for _, era := range Eras() {
		m[era.String()] = era
	}

	return m
}()

// Eras returns the known eras from the earliest to the latest.
func Eras() []Era {
	return []Era{EraQinHan, EraWeiJin, EraSuiTang, EraSong, EraYuan, EraMing, EraQing, EraRepublican}
}

// ParseEra maps a 時間段 label to its era. The match is exact.
func ParseEra(label string) Era {
	return erasByLabel[label]
}

// Known reports whether e is one of the eight plotted eras.
func (e Era) Known() bool {
	return e > EraUnknown && int(e) < len(eraTable)
}

func (e Era) String() string {
	if !e.Known() {
		return ""
	}

	return eraTable[e].label
}

// Color returns the marker colour of the era.
func (e Era) Color() color.RGBA {
	if !e.Known() {
		return eraTable[EraUnknown].color
	}

	return eraTable[e].color
}
