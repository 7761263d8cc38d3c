// Package model defines the domain types and value objects for the
// devserve CLI.
//
// This package contains pure data structures with no external
// dependencies: the serve and snapshot configuration types with their
// built-in defaults and validation, plus exit codes (ExitCode) and a
// custom error type (CLIError) that carries exit codes for proper OS
// process exit handling. There are no persistent state files anywhere
// in the tool; every value here lives for a single command invocation.
package model
