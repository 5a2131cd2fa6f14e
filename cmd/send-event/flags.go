package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/V4T54L/send-event/internal/usecase"
)

const usageText = `Send a manual event to Sentry.

NOTE: This command validates its input and attempts to send an event. Due to
network errors, rate limits or sampling the event is not guaranteed to
actually arrive. Set LOG_LEVEL=debug to see transmission errors.

Usage:
  %[1]s [flags] [PATH]

PATH is a path or glob to JSON event file(s). When provided, all other flags
are ignored and each matched file is sent as-is.

Flags:
`

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseArgs maps the command line onto a usecase.Input. Flag errors are
// reported on errOut.
func parseArgs(program string, args []string, errOut io.Writer) (usecase.Input, error) {
	var in usecase.Input
	m := &in.Manual

	fs := flag.NewFlagSet(program, flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(errOut, usageText, program)
		fs.PrintDefaults()
	}

	str := func(p *string, long, short, usage string) {
		fs.StringVar(p, long, "", usage)
		if short != "" {
			fs.StringVar(p, short, "", "shorthand for -"+long)
		}
	}
	list := func(p *stringList, long, short, usage string) {
		fs.Var(p, long, usage)
		if short != "" {
			fs.Var(p, short, "shorthand for -"+long)
		}
	}

	var messages, messageArgs, tags, extra, user, fingerprint stringList

	str(&m.Level, "level", "l", "event severity (debug|info|warning|error|fatal) [defaults to 'error']")
	fs.StringVar(&m.Timestamp, "timestamp", "", "event timestamp: unix seconds, RFC 2822 or RFC 3339")
	str(&m.Release, "release", "r", "identifier of the release")
	str(&m.Dist, "dist", "d", "set the distribution")
	str(&m.Environment, "env", "E", "send with a specific environment")
	fs.BoolVar(&m.NoEnviron, "no-environ", false, "do not send environment variables along")
	list(&messages, "message", "m", "the event message (repeatable, joined by newlines)")
	list(&messageArgs, "message-arg", "a", "arguments for the event message (repeatable)")
	str(&m.Platform, "platform", "p", "override the default 'other' platform specifier")
	list(&tags, "tag", "t", "add a tag (key:value) to the event (repeatable)")
	list(&extra, "extra", "e", "add extra information (key:value) to the event (repeatable)")
	list(&user, "user", "u", "add user information (key:value) to the event, eg: id:42, username:foo (repeatable)")
	list(&fingerprint, "fingerprint", "f", "change the fingerprint of the event (repeatable)")
	fs.StringVar(&m.Logfile, "logfile", "", "send a logfile as breadcrumbs with the event (last 100 records)")
	fs.BoolVar(&m.WithCategories, "with-categories", false, `parse a leading "LEVEL: " category off logfile lines to set the breadcrumb level`)

	if err := fs.Parse(args); err != nil {
		return usecase.Input{}, err
	}

	switch fs.NArg() {
	case 0:
	case 1:
		in.Path = fs.Arg(0)
	default:
		err := fmt.Errorf("expected at most one PATH argument, got %d (quote glob patterns to keep the shell from expanding them)", fs.NArg())
		fmt.Fprintln(errOut, err)
		return usecase.Input{}, err
	}

	m.Messages = messages
	m.MessageArgs = messageArgs
	m.Tags = tags
	m.Extra = extra
	m.User = user
	m.Fingerprint = fingerprint
	return in, nil
}
