package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/readfeed/readfeed-mcp/internal/log"
	"github.com/readfeed/readfeed-mcp/internal/skills"
	"github.com/readfeed/readfeed-mcp/internal/tools"
)

const (
	version                  = "0.1.0"
	defaultAddr              = "localhost:8080"
	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

var (
	addr       string
	workingDir string
	skillsDir  string
	autoResize bool
	verbose    bool

	rootCmd = &cobra.Command{
		Use:     "readfeed-mcp",
		Short:   "File ingestion MCP server",
		Long:    "This server exposes a bounded file-read tool for LLM agents: text files are paginated under line and byte caps, images are decoded and downsized for the model context window.",
		Version: version,
		RunE:    runServer,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&addr, "addr", "a", defaultAddr, "Server address (host:port)")
	rootCmd.Flags().StringVarP(&workingDir, "workdir", "w", "", "Working directory for relative paths (default: current directory)")
	rootCmd.Flags().StringVarP(&skillsDir, "skills", "s", "", "Directory to discover SKILL.md manifests in")
	rootCmd.Flags().BoolVar(&autoResize, "auto-resize", true, "Downsize oversized images before returning them")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configureState applies command-line flags to the shared tool state.
func configureState() error {
	state := tools.GetState()
	state.Mu.Lock()
	defer state.Mu.Unlock()

	if workingDir != "" {
		info, err := os.Stat(workingDir)
		if err != nil {
			return fmt.Errorf("workdir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("workdir: %s is not a directory", workingDir)
		}
		state.WorkingDir = workingDir
	}
	state.AutoResize = autoResize
	state.Skills = skills.Loader{
		Dir:    skillsDir,
		Ignore: []string{"**/.git", "**/node_modules/**"},
	}
	return nil
}

// setupHTTPServer creates an HTTP server with the MCP handler and security
// timeouts configured to prevent slowloris attacks and resource exhaustion.
func setupHTTPServer(addr string, mcpHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", mcpHandler)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(slog.LevelDebug)
	}
	if err := configureState(); err != nil {
		return err
	}

	// Set up graceful shutdown context that responds to SIGINT and SIGTERM,
	// allowing in-flight requests to complete before stopping the server.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "readfeed",
		Version: version,
	}, nil)

	mcp.AddTool(mcpServer, &tools.ReadTool, tools.Read)
	mcp.AddTool(mcpServer, &tools.ListSkillsTool, tools.ListSkills)

	// Stateless mode allows each HTTP request to be handled independently
	// without session state, enabling horizontal scaling.
	mcpHandler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return mcpServer
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})

	server := setupHTTPServer(addr, mcpHandler)

	// Run server in goroutine to allow concurrent shutdown handling via select.
	errCh := make(chan error, 1)
	go func() {
		log.Info("MCP server listening on http://%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		log.Info("server stopped gracefully")
	}
	return nil
}
