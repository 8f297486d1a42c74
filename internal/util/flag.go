/*
 Copyright (C) 2025 Douglas Wayne Potter

 This program is free software: you can redistribute it and/or modify
 it under the terms of the GNU Affero General Public License as
 published by the Free Software Foundation, either version 3 of the
 License, or (at your option) any later version.

 This program is distributed in the hope that it will be useful,
 but WITHOUT ANY WARRANTY; without even the implied warranty of
 MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 GNU Affero General Public License for more details.

 You should have received a copy of the GNU Affero General Public License
 along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package util

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Embedding of flag.FlatSet to have a connivent Parse()
// receiver.
type FlagSet struct {
	*flag.FlagSet
	remainder []string
}

// NewFlagSet creates a new *FlagSet using the supplied usage string.
//
// The usage string should contain exactly 2 "%s" for the command name. Example:
// `Usage: %s -instance instance.json
//
// %s reads in a problem instance JSON file, solves it and outputs a solution
// to standard out.
//
// Arguments:
// `
func NewFlagSet(usage string) *FlagSet {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			flag.CommandLine.Output(),
			usage,
			os.Args[0],
			os.Args[0])
		fs.PrintDefaults()
	}

	return &FlagSet{FlagSet: fs}
}

// Parse parses the command-line flags from os.Args[1:].
// Must be called after all flags are defined and before flags are accessed by the program.
// Note: this documentation was copied from flags.Parse()
func (fs *FlagSet) Parse() {
	fs.FlagSet.Parse(os.Args[1:])
}

// NewContinueOnErrorFlagSet is like NewFlagSet but reports parse errors to
// the caller instead of calling os.Exit, so a command's entry point can be
// exercised from a test with an explicit argument list.
func NewContinueOnErrorFlagSet(usage string) *FlagSet {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			flag.CommandLine.Output(),
			usage,
			os.Args[0],
			os.Args[0])
		fs.PrintDefaults()
	}
	return &FlagSet{FlagSet: fs}
}

// boolFlag mirrors the stdlib flag package's own unexported interface: a
// Value that takes no argument (so "-flag" alone is valid, not just
// "-flag=value" or "-flag value").
type boolFlag interface {
	flag.Value
	IsBoolFlag() bool
}

// flagToken reports whether a is shaped like a flag ("-name",
// "--name", "-name=value", ...) and, if so, its name and whether it
// already carries a "=value" suffix.
func flagToken(a string) (name string, hasValue, isFlag bool) {
	if len(a) < 2 || a[0] != '-' {
		return "", false, false
	}
	s := a[1:]
	if s[0] == '-' {
		s = s[1:]
	}
	if s == "" { // bare "-" or "--"
		return "", false, false
	}
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], true, true
	}
	return s, false, true
}

// ParseArgs parses the given argument list (excluding the program name)
// rather than os.Args[1:], returning any parse error instead of exiting.
//
// Unlike flag.FlagSet.Parse, a token shaped like a flag this set does not
// define does not abort parsing: it (and its value token, if any) is set
// aside and surfaces afterward through Args(), alongside any ordinary
// positional arguments. This lets flags meant for a downstream,
// objective-specific parser ride along on the same command line without
// this flag set rejecting them.
func (fs *FlagSet) ParseArgs(args []string) error {
	var recognized, remainder []string
	for i := 0; i < len(args); i++ {
		name, hasValue, isFlag := flagToken(args[i])
		if !isFlag {
			remainder = append(remainder, args[i])
			continue
		}

		// "-h"/"-help" are handled specially by flag.FlagSet.Parse itself
		// (it prints usage and returns flag.ErrHelp) even though this set
		// never defines them; let those through so that still works.
		isHelp := name == "h" || name == "help"
		f := fs.Lookup(name)
		if f == nil && !isHelp {
			remainder = append(remainder, args[i])
			continue
		}

		recognized = append(recognized, args[i])
		if hasValue || isHelp {
			continue
		}
		if bf, ok := f.Value.(boolFlag); ok && bf.IsBoolFlag() {
			continue
		}
		if i+1 < len(args) {
			i++
			recognized = append(recognized, args[i])
		}
	}

	if err := fs.FlagSet.Parse(recognized); err != nil {
		return err
	}
	fs.remainder = append(remainder, fs.FlagSet.Args()...)
	return nil
}

// Args returns the positional arguments left over after ParseArgs: tokens
// that were never flag-shaped, plus any flag-shaped token this set did
// not define (set aside rather than rejected -- see ParseArgs). Falls
// back to the embedded flag.FlagSet's own Args() for a set parsed with
// Parse instead.
func (fs *FlagSet) Args() []string {
	if fs.remainder != nil {
		return fs.remainder
	}
	return fs.FlagSet.Args()
}
