package logger

import (
	"io"
	"log"
	"os"
)

// Logger wraps three leveled *log.Logger instances writing to the same
// sink. Each defaults to io.Discard, so every package in this module
// can log unconditionally without checking whether tracing was
// requested on the command line.
type Logger struct {
	info    *log.Logger
	warning *log.Logger
	error   *log.Logger
}

// NWLogger is the package-wide sink every decoding stage writes to.
var NWLogger = newLogger(io.Discard)

func newLogger(w io.Writer) Logger {
	return Logger{
		info:    log.New(w, "nwfs|INFO: ", log.Ldate|log.Ltime),
		warning: log.New(w, "nwfs|WARNING: ", log.Ldate|log.Ltime),
		error:   log.New(w, "nwfs|ERROR: ", log.Ldate|log.Ltime),
	}
}

// InitializeLogger points NWLogger at logfilename when active is true,
// or resets it to discard everything when false. Callers invoke this
// once at startup, before any decoding begins.
func InitializeLogger(active bool, logfilename string) {
	if !active {
		NWLogger = newLogger(io.Discard)
		return
	}
	file, err := os.OpenFile(logfilename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatal(err)
	}
	NWLogger = newLogger(file)
}

func (l Logger) Info(msg string) { l.info.Println(msg) }

func (l Logger) Warning(msg string) { l.warning.Println(msg) }

func (l Logger) Error(msg any) { l.error.Println(msg) }
