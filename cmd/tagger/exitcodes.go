package main

// Exit codes
const (
	ExitSuccess  = 0 // Success, help, or -A
	ExitError    = 1 // Database can't be opened, or any other runtime failure
	ExitNoTarget = 2 // List request with neither objects nor tags
	ExitUsage    = 2 // Malformed invocation (unknown or conflicting flags, bad arguments)
)
