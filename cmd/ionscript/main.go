// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	ilog "github.com/ioncore/ionscript/internal/log"
	flags "github.com/jessevdk/go-flags"
)

var log = ilog.IonsLog

// ionscriptMain is the real main function for ionscript.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func ionscriptMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	_, cmds, parser, args, err := loadConfig(os.Args[1:])
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			return nil
		}
		return err
	}
	defer func() {
		if ilog.LogRotator != nil {
			ilog.LogRotator.Close()
		}
	}()

	cmd, ok := cmds.lookup(parser.Active.Name)
	if !ok {
		return fmt.Errorf("unknown command %q", parser.Active.Name)
	}
	if err := cmd.run(os.Stdout, args); err != nil {
		if !errors.Is(err, errScriptFailed) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", parser.Active.Name, err)
		}
		return err
	}
	return nil
}

func main() {
	if err := ionscriptMain(); err != nil {
		os.Exit(1)
	}
}
