// Package process runs external tools as subprocesses, capturing their
// output streams and exit codes. Cancellation sends SIGTERM to the process
// group and escalates to SIGKILL after a grace period.
package process
