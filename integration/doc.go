// Package integration drives a compiled provebench binary as a child process
// and parses the report it prints, for end-to-end tests of the proving challenge.
package integration
