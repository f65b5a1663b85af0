// Package main is the entry point for the pipselect CLI application.
//
// This file bootstraps the application by invoking the command execution
// logic defined in the cmd package. The pipselect tool upgrades
// pip-installed packages interactively while leaving conda-managed
// packages alone.
package main

import "github.com/ajxudir/pipselect/cmd"

// main initializes and runs the pipselect CLI application.
//
// It delegates all command parsing and execution to the cmd package,
// which handles subcommands like scan, list, outdated, and upgrade.
func main() {
	cmd.Execute()
}
