package main

import (
	"flag"
	"log"
	"os"

	netwatchd "github.com/netwatch/netwatchd/pkg"
	"github.com/netwatch/netwatchd/pkg/config"
)

func main() {
	var host string
	var port int
	var configPath string
	var testing bool
	var verbose bool
	var help bool

	flag.StringVar(&host, "host", "localhost", "Event server host")
	flag.IntVar(&port, "port", 5600, "Event server port")
	flag.StringVar(&configPath, "config", "", "Config file path (created with defaults if missing)")
	flag.BoolVar(&testing, "testing", false, "Talk to a testing event server on port 5666")
	flag.BoolVar(&verbose, "v", false, "Be verbose")
	flag.BoolVar(&help, "h", false, "Get help")
	flag.Parse()

	if help {
		flag.Usage()
		os.Exit(0)
	}

	if testing {
		port = 5666
	}

	if configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			log.Fatalln("Couldn't determine config file location:", err)
		}
		configPath = path
	}

	cfg := netwatchd.ServerConfig{
		Host:       host,
		Port:       port,
		ConfigPath: configPath,
		Verbose:    verbose,
	}

	srv := netwatchd.Server(cfg)
	srv.Start()
}
