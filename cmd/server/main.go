package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/addrnorm/pkg/api"
	"github.com/hazyhaar/addrnorm/pkg/chassis"
	"github.com/hazyhaar/addrnorm/pkg/journal"
	"github.com/hazyhaar/addrnorm/pkg/kit"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "normalize":
		cmdNormalize(os.Args[2:])
	case "runs":
		cmdRuns(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: addrnorm <command>

Commands:
  serve       Start the HTTP API (and /mcp)
  mcp         Serve the MCP tools on stdio
  normalize   Normalize an address column of a CSV file
  runs        List journaled batch runs
`)
}

// bootstrap loads config and the logger shared by every subcommand.
func bootstrap(cfgPath string) (config, *slog.Logger) {
	cfg := loadConfig(cfgPath, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	logger := newLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)
	return cfg, logger
}

func newMCPServer(svc *api.Service) *server.MCPServer {
	srv := server.NewMCPServer("addrnorm", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	api.RegisterMCPTools(srv, svc)
	return srv
}

func openJournal(path string, logger *slog.Logger) *journal.Journal {
	if path == "" {
		return nil
	}
	j, err := journal.Open(path)
	if err != nil {
		logger.Error("open journal", "path", path, "error", err)
		os.Exit(1)
	}
	return j
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	cfg, logger := bootstrap(*cfgPath)

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}
	j := openJournal(cfg.Journal, logger)
	if j != nil {
		defer j.Close()
	}
	svc := api.NewService(p, cfg.API, j, logger)

	var mcpHandler http.Handler
	if cfg.MCP {
		mcpHandler = server.NewStreamableHTTPServer(newMCPServer(svc),
			server.WithHTTPContextFunc(func(ctx context.Context, _ *http.Request) context.Context {
				return kit.WithTransport(ctx, "mcp-http")
			}),
		)
	}

	srv, err := chassis.New(chassis.Config{
		Addr:     cfg.Addr,
		TLS:      cfg.TLS.Enabled,
		HTTP3:    cfg.TLS.HTTP3,
		CertFile: cfg.TLS.CertFile,
		KeyFile:  cfg.TLS.KeyFile,
		DNSNames: cfg.TLS.DNSNames,
		Handler:  api.NewRouter(svc, mcpHandler),
		Logger:   logger,
	})
	if err != nil {
		logger.Error("chassis", "error", err)
		os.Exit(1)
	}

	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("addrnorm listening", "addr", cfg.Addr, "workers", p.Workers(), "mcp", cfg.MCP)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to config file")
	fs.Parse(args)

	cfg, logger := bootstrap(*cfgPath)

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}
	j := openJournal(cfg.Journal, logger)
	if j != nil {
		defer j.Close()
	}

	srv := newMCPServer(api.NewService(p, cfg.API, j, logger))
	err = server.ServeStdio(srv, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return kit.WithTransport(ctx, "stdio")
	}))
	if err != nil {
		logger.Error("mcp stdio", "error", err)
		os.Exit(1)
	}
}

func cmdRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	path := fs.String("journal", "addrnorm.db", "path to the journal database")
	limit := fs.Int("n", 20, "number of runs to show")
	fs.Parse(args)

	j, err := journal.Open(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open journal: %v\n", err)
		os.Exit(1)
	}
	defer j.Close()

	runs, err := j.List(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
		os.Exit(1)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tSTARTED\tSTATUS\tITEMS\tPROCESSED\tUNPARSEABLE\tAMBIGUOUS\tERROR")
	for _, r := range runs {
		msg := ""
		if r.Error != nil {
			msg = *r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.Source, time.Unix(r.StartedAt, 0).Format(time.DateTime), r.Status,
			r.Items, r.Stats.Items, r.Stats.Unparseable, r.Stats.Ambiguous, msg)
	}
	tw.Flush()
}
