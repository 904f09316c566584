package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/server"
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
			fmt.Printf("image-edit-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-edit-mcp - MCP server for interactive crop and transform editing")
			fmt.Println()
			fmt.Println("Usage: image-edit-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_MCP_LOG_LEVEL=debug         Enable debug logging (debug, info, warn, error)")
			fmt.Println("  IMAGE_MCP_HANDLE_HIT_SIZE=28      Side of the handle hit zone, in screen units")
			fmt.Println("  IMAGE_MCP_HANDLE_SIZE=14          Side of the drawn handle squares")
			fmt.Println("  IMAGE_MCP_PREVIEW_WIDTH=1024      Default edit_preview width in pixels")
			fmt.Println("  IMAGE_MCP_OVERLAY_DIM=0.5         How much to darken outside the crop (0-1)")
			fmt.Println("  IMAGE_MCP_BORDER_COLOR=#FFFFFF    Crop border color")
			fmt.Println("  IMAGE_MCP_HANDLE_COLOR=#FFFFFF    Crop handle color")
			fmt.Println("  IMAGE_MCP_JPEG_QUALITY=90         JPEG save quality (1-100)")
			fmt.Println("  IMAGE_MCP_WEBP_QUALITY=90         WebP save quality (0-100)")
			fmt.Println("  IMAGE_MCP_WEBP_LOSSLESS=false     Save WebP losslessly")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Debug() {
		log.Printf("Image Edit MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
