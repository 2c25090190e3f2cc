// Package proc launches and supervises child operating-system processes.
//
// A Builder composes a CommandLine, an optional Environment, an optional
// working directory and optional stdout redirection, and spawns through the
// platform's native creation primitive. POSIX systems go through the
// fork/exec family with a raw argument vector; Windows goes through the
// single-call process creation API with a quote-if-needed command line and an
// environment block. The backend is selected at build time, one file per
// platform.
//
// The returned Child owns the process handle exclusively. Wait blocks the
// calling goroutine until the child terminates; concurrent waits on the same
// Child are not supported and must be serialized by the caller. No timeout or
// cancellation primitive is provided.
package proc
