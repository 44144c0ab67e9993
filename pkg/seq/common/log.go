package common

import (
	"io"
	"log"
	"os"
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

// Loggers for the commands. Library code returns errors and only uses
// Warn. Info is quiet until RegisterLoggers says otherwise.
var (
	Info = log.New(io.Discard, "INFO: ", logFlags)
	Warn = log.New(os.Stderr, "WARN: ", logFlags)
)

// RegisterLoggers is called once by a main. With verbose set, Info
// goes to standard error.
func RegisterLoggers(verbose bool) {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	Info = log.New(w, "INFO: ", logFlags)
	Warn = log.New(os.Stderr, "WARN: ", logFlags)
}
