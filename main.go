// Copyright 2026 The Chorography Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/chorography/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
