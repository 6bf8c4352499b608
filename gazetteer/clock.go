// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package gazetteer

import "github.com/jonboulle/clockwork"

// clock stamps catalog loads; tests swap it through SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()

		return
	}

	clock = c
}
