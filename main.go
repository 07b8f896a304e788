// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/sparkstack/sparkctl/cmd"
)

func main() {
	cmd.Execute()
}
