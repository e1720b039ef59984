package main

import (
	"os"

	"go.uber.org/zap"

	"chosenoffset.com/constellation/internal/cli"
	"chosenoffset.com/constellation/internal/config"
	"chosenoffset.com/constellation/internal/observability"
	ebitenrender "chosenoffset.com/constellation/internal/render/ebiten"
)

func main() {
	// Initialize the renderer backend (ebiten)
	backend := cli.Backend{
		NewEngine: ebitenrender.NewEngine,
		NewInput:  ebitenrender.NewInputManager,
	}

	if err := cli.NewRootCmd(backend).Execute(); err != nil {
		logger := observability.NewStdoutLogger(config.LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "constellation",
		})
		logger.Error("Command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
