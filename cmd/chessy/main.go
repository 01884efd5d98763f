package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Guilherme-Vasconcelos/chessy/engine"
)

var configPath = flag.String("config", "", "optional path to a TOML engine config file")

func main() {
	flag.Parse()

	logger, err := engine.NewLifecycleLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "chessy: failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := engine.DefaultConfig
	if *configPath != "" {
		cfg, err = engine.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", zap.String("path", *configPath), zap.Error(err))
		}
	}

	logger.Info("starting",
		zap.String("engine_name", cfg.EngineName),
		zap.String("go_version", runtime.Version()),
	)

	uci := NewUCI(cfg, logger)
	bio := bufio.NewReader(os.Stdin)
	for {
		line, _, err := bio.ReadLine()
		if err != nil {
			logger.Info("stdin closed", zap.Error(err))
			break
		}
		if err := uci.Execute(string(line)); err != nil {
			if err == errQuit {
				break
			}
			logger.Warn("command failed", zap.String("line", string(line)), zap.Error(err))
		}
	}
}
