// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ioncore/ionscript/chaincfg"
	ilog "github.com/ioncore/ionscript/internal/log"
	"github.com/ioncore/ionscript/txscript"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "ionscript.conf"
	defaultLogFilename    = "ionscript.log"
	defaultLogLevel       = "warn"
)

var (
	ionscriptHomeDir  = btcutil.AppDataDir("ionscript", false)
	defaultConfigFile = filepath.Join(ionscriptHomeDir, defaultConfigFilename)
)

// config defines the global configuration options for ionscript.  Each
// command adds its own options.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ConfigFile     string `short:"C" long:"configfile" description:"Path to configuration file"`
	TestNet3       bool   `long:"testnet" description:"Use the test network"`
	RegressionTest bool   `long:"regtest" description:"Use the regression test network"`
	DebugLevel     string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir         string `long:"logdir" description:"Directory to write a rotated log file to in addition to standard error"`
	NoNullFail     bool   `long:"nonullfail" description:"Let failed signature checks consume non-empty signatures"`
	MinimalData    bool   `long:"minimaldata" description:"Require minimal data pushes and minimally encoded numbers"`

	params *chaincfg.Params
}

// scriptFlags returns the verification flags selected by the options.
func (cfg *config) scriptFlags() txscript.ScriptFlags {
	sf := txscript.StandardVerifyFlags &^ txscript.ScriptVerifyMinimalData
	if cfg.MinimalData {
		sf |= txscript.ScriptVerifyMinimalData
	}
	if cfg.NoNullFail {
		sf &^= txscript.ScriptVerifyNullFail
	}
	return sf
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// newConfigParser returns a parser for cfg with one command per operation.
func newConfigParser(cfg *config, cmds *commands, options flags.Options) *flags.Parser {
	parser := flags.NewParser(cfg, options)
	for _, c := range cmds.all() {
		_, _ = parser.AddCommand(c.name, c.short, c.long, c.data)
	}
	return parser
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in ionscript functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.  The returned parser records the command that was selected.
func loadConfig(args []string) (*config, *commands, *flags.Parser, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile: defaultConfigFile,
		DebugLevel: defaultLogLevel,
	}

	// A config file in the current directory takes precedence.
	if fileExists(defaultConfigFilename) {
		cfg.ConfigFile = defaultConfigFilename
	}

	// Pre-parse the command line options to see if an alternative config
	// file was specified.  Command names and their options are ignored
	// here.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.IgnoreUnknown)
	if _, err := preParser.ParseArgs(args); err != nil {
		return nil, nil, nil, nil, err
	}

	// Load additional config from file.
	var configFileError error
	cmds := newCommands(&cfg)
	parser := newConfigParser(&cfg, cmds, flags.Default)
	err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n", err)
			return nil, nil, nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, "Use ionscript -h to show usage")
		}
		return nil, nil, nil, nil, err
	}

	// The two test networks can't be selected simultaneously.
	funcName := "loadConfig"
	if cfg.TestNet3 && cfg.RegressionTest {
		str := "%s: the testnet and regtest params can't be used " +
			"together -- choose one of the two"
		err := fmt.Errorf(str, funcName)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, nil, nil, err
	}

	// Choose the active network params based on the testnet and regression
	// test net flags.
	cfg.params = &chaincfg.MainNetParams
	switch {
	case cfg.TestNet3:
		cfg.params = &chaincfg.TestNet3Params
	case cfg.RegressionTest:
		cfg.params = &chaincfg.RegressionNetParams
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", ilog.SupportedSubsystems())
		os.Exit(0)
	}

	// Parse, validate, and set debug log level(s).
	if err := ilog.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("%s: %v", funcName, err)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, nil, nil, err
	}

	// Initialize the log file once the level is known.
	if cfg.LogDir != "" {
		logDir := filepath.Join(cleanAndExpandPath(cfg.LogDir),
			cfg.params.Name)
		logFile := filepath.Join(logDir, defaultLogFilename)
		if err := ilog.InitLogRotator(logFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, nil, nil, err
		}
	}

	// Warn about missing config file only after all other configuration is
	// done.  This prevents the warning on help messages and invalid
	// options.  The default file is optional so its absence is only noted
	// at debug level.
	if configFileError != nil {
		if preCfg.ConfigFile == defaultConfigFile {
			log.Debugf("%v", configFileError)
		} else {
			log.Warnf("%v", configFileError)
		}
	}

	return &cfg, cmds, parser, remainingArgs, nil
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}
