package main

import (
	"flag"
	stdlog "log"

	"github.com/wjakew/fotofusion-desktop/internal/config"
	"github.com/wjakew/fotofusion-desktop/internal/log"
	"github.com/wjakew/fotofusion-desktop/internal/web"
)

var (
	version = "dev" // set by ldflags during build
)

func main() {
	addr := flag.String("addr", "localhost:8080", "HTTP server address")
	logFile := flag.String("log-file", config.DefaultConfig().LogFile, "log file path")
	logJSON := flag.Bool("log-json", false, "output JSON logs")
	flag.Parse()

	logger, err := log.New(*logFile, *logJSON, !*logJSON)
	if err != nil {
		stdlog.Fatal(err)
	}
	defer logger.Close()

	server := web.NewServer()
	server.SetVersion(version)
	server.SetLogger(logger)

	if err := server.Start(*addr); err != nil {
		stdlog.Fatal(err)
	}
}
