// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command codesweep recovers a forgotten Android lock pattern or PIN by
// trying candidates against TWRP's decrypt command, one per lockout window.
package main

import (
	"errors"
	"os"

	"github.com/AleutianAI/codesweep/pkg/ux"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute runs the command tree and maps the result to an exit status.
// Errors the commands have not already reported are printed here.
func execute(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	err := root.Execute()
	var exitErr *ExitError
	if err != nil && (!errors.As(err, &exitErr) || exitErr.Err != nil) {
		ux.Error(err.Error())
	}
	return exitCode(err)
}
