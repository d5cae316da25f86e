// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime/debug"
	"runtime/pprof"

	"github.com/flokiorg/chainsift/parser"
)

var cfg *config

// csftMain is the real main function for chainsift.  It is necessary
// to work around the fact that deferred functions do not run when
// os.Exit() is called.
func csftMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	tcfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()
	defer csftLog.Info("Shutdown complete")

	// Show version at startup.
	csftLog.Infof("Version %s", version())

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		go func() {
			listenAddr := net.JoinHostPort("", cfg.Profile)
			csftLog.Infof("Profile server listening on %s", listenAddr)
			profileRedirect := http.RedirectHandler("/debug/pprof",
				http.StatusSeeOther)
			http.Handle("/", profileRedirect)
			csftLog.Errorf("%v", http.ListenAndServe(listenAddr, nil))
		}()
	}

	// Write cpu profile if requested.
	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			csftLog.Errorf("Unable to create cpu profile: %v", err)
			return err
		}
		pprof.StartCPUProfile(f)
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	csftLog.Info("Starting blockchain parser...")

	p := parser.New(parser.Config{
		BlocksDir:  cfg.BlocksDir,
		MaxBlock:   cfg.MaxBlock,
		QueueSize:  cfg.QueueSize,
		OutputPath: cfg.Output,
		InputPath:  cfg.Input,
		GraphPath:  cfg.Graph,
		Salt:       cfg.Salt,
	})
	if err := p.Run(); err != nil {
		csftLog.Errorf("%v", err)
		return err
	}

	csftLog.Info("Finished successfully")
	return nil
}

func main() {
	// If GOGC is not explicitly set, override GC percent.  Block and
	// transaction processing causes bursty allocations; this limits
	// the garbage collector from excessively overallocating during
	// those bursts.
	if os.Getenv("GOGC") == "" {
		debug.SetGCPercent(20)
	}

	// Work around defer not working after os.Exit()
	if err := csftMain(); err != nil {
		os.Exit(1)
	}
}
