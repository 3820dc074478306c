// Package main is the entry point for the mxl2mei API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/mxl2mei/pkg/api"
	"github.com/james-see/mxl2mei/pkg/config"
	"github.com/james-see/mxl2mei/pkg/logging"
)

func main() {
	configFile := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	cfg.InitLogging()
	if *configFile != "" {
		logging.Info("loaded config", "path", *configFile)
	}

	fmt.Printf("Starting mxl2mei API server on port %d...\n", cfg.Server.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Server.Port)

	if err := api.NewServer(cfg).Run(); err != nil {
		logging.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
