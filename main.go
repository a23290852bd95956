// Copyright IBM Corp. 2023, 2026
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/hashicorp/copyear/cmd"
	"github.com/hashicorp/go-hclog"
)

func main() {
	appLogger := hclog.New(&hclog.LoggerOptions{
		Name:  "copyear",
		Level: hclog.LevelFromString("INFO"),
		Color: hclog.AutoColor,
	})
	hclog.SetDefault(appLogger)
	cmd.Execute()
}
