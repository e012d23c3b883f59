package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/contour-tools-mcp/internal/config"
	"github.com/ironsheep/contour-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("contour-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("contour-tools-mcp - MCP server for contour tracing")
			fmt.Println()
			fmt.Println("Usage: contour-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  CONTOUR_MCP_CONFIG=<file>         YAML file with default tool settings")
			fmt.Println("  CONTOUR_MCP_LOG_LEVEL=debug       Enable debug logging")
			fmt.Println("  CONTOUR_MCP_BACKEND=native|opencv Contour tracing backend")
			fmt.Println("  CONTOUR_MCP_BATCH_WORKERS=<n>     Parallel images in contour_find_batch")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Contour MCP Server v%s (built %s, commit %s), backend %s",
			Version, BuildTime, GitCommit, cfg.Backend)
	}

	server.Version = Version
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
