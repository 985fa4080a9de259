package main

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/standardbeagle/rholang-lsp/internal/completion"
	"github.com/standardbeagle/rholang-lsp/internal/config"
	"github.com/standardbeagle/rholang-lsp/internal/diagnostics"
	"github.com/standardbeagle/rholang-lsp/internal/document"
	"github.com/standardbeagle/rholang-lsp/internal/lang"
	"github.com/standardbeagle/rholang-lsp/internal/logging"
	"github.com/standardbeagle/rholang-lsp/internal/rpc"
	"github.com/standardbeagle/rholang-lsp/internal/transport"
	"github.com/standardbeagle/rholang-lsp/internal/version"
	"github.com/standardbeagle/rholang-lsp/internal/workspace"
)

func main() {
	app := &cli.App{
		Name:                   "rholang-lsp",
		Usage:                  "Language server for Rholang with embedded MeTTa support",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Accepted but not read; config is loaded from .rholang-lsp.kdl in the home directory and in --root"},
			&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: "Project root directory"},
			&cli.BoolFlag{Name: "stdio", Usage: "Serve over stdio (default transport)"},
			&cli.IntFlag{Name: "tcp", Usage: "Serve over TCP on the given port"},
			&cli.IntFlag{Name: "ws", Usage: "Serve over WebSocket on the given port"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	root := c.String("root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}

	cfg, err := config.LoadLayered(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.Init(c.Bool("verbose"), "")
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logger.Sync()

	switch {
	case c.Int("tcp") > 0:
		addr := fmt.Sprintf(":%d", c.Int("tcp"))
		logger.Info("listening", zap.String("transport", "tcp"), zap.String("addr", addr))
		return transport.ListenTCP(addr, func(rwc io.ReadWriteCloser) {
			runAndExit(buildServer(rpc.NewConn(rwc), logger, cfg), false)
		})

	case c.Int("ws") > 0:
		addr := fmt.Sprintf(":%d", c.Int("ws"))
		logger.Info("listening", zap.String("transport", "ws"), zap.String("addr", addr))
		handler := transport.ServeWebSocket(func(rwc io.ReadWriteCloser) {
			runAndExit(buildServer(rpc.NewConn(rwc), logger, cfg), false)
		})
		mux := http.NewServeMux()
		mux.Handle("/", handler)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return http.Serve(ln, mux)

	default:
		rwc := transport.Stdio(os.Stdin, os.Stdout)
		srv := buildServer(rpc.NewConn(rwc), logger, cfg)
		installSignalShutdown(srv)
		runAndExit(srv, true)
		return nil
	}
}

// buildServer wires one connection's full set of workspace/document/
// completion/diagnostics state. Each connection gets its own workspace —
// the server doesn't share indices across client sessions.
func buildServer(conn *rpc.Conn, logger *zap.Logger, cfg config.Config) *rpc.Server {
	index := workspace.New()
	registry := lang.NewRegistry()
	dict := completion.NewDictionary()
	agg := diagnostics.NewAggregator()

	dedicated := make(map[string]bool, len(cfg.Embedded.Languages))
	for _, l := range cfg.Embedded.Languages {
		dedicated[l] = l == "metta"
	}

	builder := &document.Builder{
		Index:              index,
		Registry:           registry,
		Dictionary:         dict,
		Parse:              nil, // no grammar driver ships in this repository; see internal/ir/cst
		DedicatedLanguages: dedicated,
	}

	return rpc.NewServer(conn, logger, index, registry, dict, agg, builder, cfg)
}

// runAndExit runs the connection to completion and, when exitProcess is set
// (the stdio transport, which owns the whole process lifetime), calls
// os.Exit with the code the LSP spec requires: 0 if shutdown preceded exit,
// 1 otherwise. A TCP/WS connection never exits the process; one client
// disconnecting just ends its own goroutine.
func runAndExit(srv *rpc.Server, exitProcess bool) {
	err := srv.Serve()
	if !exitProcess {
		return
	}
	code := 0
	if !srv.CleanShutdown() {
		code = 1
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	os.Exit(code)
}

// installSignalShutdown makes SIGINT/SIGTERM drain the pipeline's worker
// pool and debouncer before the process dies, the same grace stdio clients
// get via the shutdown/exit request pair.
func installSignalShutdown(srv *rpc.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		srv.Pipeline.Shutdown()
		os.Exit(0)
	}()
}
