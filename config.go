// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"

	"github.com/flokiorg/chainsift/parser"
)

const (
	defaultConfigFilename = "chainsift.conf"
	defaultLogFilename    = "chainsift.log"
	defaultOutputFilename = "clusters.csv"
	defaultLogLevel       = "info"
)

var (
	chainsiftHomeDir  = btcutil.AppDataDir("chainsift", false)
	defaultBlocksDir  = filepath.Join(btcutil.AppDataDir("bitcoin", false), "blocks")
	defaultConfigFile = filepath.Join(chainsiftHomeDir, defaultConfigFilename)
)

// config defines the configuration options for chainsift.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	BlocksDir   string `short:"b" long:"blocks-dir" description:"Path to the bitcoind blocks directory"`
	MaxBlock    int    `short:"m" long:"max-block" description:"Process up to the blk file with this index (0 means all)"`
	QueueSize   int    `short:"q" long:"queue-size" description:"Capacity of the queues between pipeline stages"`
	Output      string `short:"o" long:"output" description:"Cluster CSV output file"`
	Input       string `short:"i" long:"input" description:"Taint input file with start transactions"`
	Graph       string `short:"g" long:"graph" description:"Write the cluster transaction graph to this file"`
	Salt        string `long:"salt" description:"Salt prefix for the anonymized address digests"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	Profile     string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`
	CPUProfile  string `long:"cpuprofile" description:"Write CPU profile to the specified file"`
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(chainsiftHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in functioning properly without any config settings
// while still allowing the user to override settings with config files
// and command line options.  Command line options always take
// precedence.  This function also initializes logging and configures it
// accordingly.
func loadConfig() (*config, []string, error) {
	cfg := config{
		ConfigFile: defaultConfigFile,
		BlocksDir:  defaultBlocksDir,
		QueueSize:  parser.DefaultQueueSize,
		Output:     defaultOutputFilename,
		Salt:       parser.DefaultSalt,
		DebugLevel: defaultLogLevel,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version())
		os.Exit(0)
	}

	// Load additional config from file.
	parserFlags := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parserFlags).ParseFile(preCfg.ConfigFile)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parserFlags.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, nil, err
	}

	if cfg.QueueSize <= 0 {
		str := "%s: the queue size must be greater than zero -- parsed [%d]"
		err := fmt.Errorf(str, "loadConfig", cfg.QueueSize)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	if cfg.MaxBlock < 0 {
		str := "%s: the max block index must not be negative -- parsed [%d]"
		err := fmt.Errorf(str, "loadConfig", cfg.MaxBlock)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	cfg.BlocksDir = cleanAndExpandPath(cfg.BlocksDir)
	cfg.Output = cleanAndExpandPath(cfg.Output)
	cfg.Input = cleanAndExpandPath(cfg.Input)
	cfg.Graph = cleanAndExpandPath(cfg.Graph)
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.CPUProfile = cleanAndExpandPath(cfg.CPUProfile)

	// Initialize log rotation.  After log rotation has been initialized,
	// the logger variables may be used.
	if cfg.LogDir != "" {
		initLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	}

	// Parse, validate, and set debug log level(s).
	if err := parseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		err := fmt.Errorf("loadConfig: %w", err)
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	return &cfg, remainingArgs, nil
}
