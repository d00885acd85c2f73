package logger

import (
	"io"
	"log"
	"os"
)

const flags = log.LstdFlags

// Null discards everything. Use it in tests.
func Null() *log.Logger {
	return log.New(io.Discard, "", flags)
}

// Default writes to stderr without prefix, for messages outside any subcommand.
func Default() *log.Logger {
	return log.New(os.Stderr, "", flags)
}

// ForCommand writes to w, with the name of the command as prefix: "[curate record find] ".
func ForCommand(w io.Writer, fullname string) *log.Logger {
	return log.New(w, "["+fullname+"] ", flags)
}
