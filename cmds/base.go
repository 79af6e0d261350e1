// Package cmds holds the command structs the CLI wraps: each command
// validates itself and executes against the vault agent wiring.
package cmds

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var ErrInvalid = errors.New("invalid command, check arguments")

type Result interface {
	JSON() ([]byte, error)
}

type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// ValidateTime checks a daily schedule time, "HH:MM" or "HH:MM:SS".
func ValidateTime(t string) error {
	if _, err := time.Parse("15:04", t); err == nil {
		return nil
	}
	if _, err := time.Parse("15:04:05", t); err == nil {
		return nil
	}
	return fmt.Errorf("invalid time: %s", t)
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws an
// error.
func Fprintln(w io.Writer, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws an
// error.
func Fprintf(w io.Writer, format string, a ...interface{}) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}

// ParseLoggingArgs feeds glog startup arguments to the flag package as if
// they came from the command line.
func ParseLoggingArgs(s string) {
	args := make([]string, 1, 12)
	args[0] = os.Args[0]
	args = append(args, strings.Split(s, " ")...)
	orgArgs := os.Args
	os.Args = args
	flag.Parse()
	os.Args = orgArgs
}

// Execute validates and runs a command with err2 error annotation.
func Execute(c Command, w io.Writer) (r Result, err error) {
	defer err2.Handle(&err, "execute")

	try.To(c.Validate())
	return c.Exec(w)
}
