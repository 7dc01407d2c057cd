// Command arcade starts the NEUROSPHERE arcade server.
//
// Commands:
//  1. "serve" (default) – runs the HTTP server exposing the REST API, WebSocket updates, /metrics and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "validate" – checks every preset file in a directory
//  4. "simulate" – plays one preset headlessly and prints the final snapshot
//
// Settings come from arcade.yaml and ARCADE_* environment variables; flags
// override both. Ngrok tunneling is available for external access during
// development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/neurosphere-arcade/api"
	"github.com/wricardo/neurosphere-arcade/game/config"
	"github.com/wricardo/neurosphere-arcade/game/scores"
	"github.com/wricardo/neurosphere-arcade/game/service"
	"github.com/wricardo/neurosphere-arcade/game/session"
	"github.com/wricardo/neurosphere-arcade/logger"
	"github.com/wricardo/neurosphere-arcade/metrics"
	"github.com/wricardo/neurosphere-arcade/settings"
	"github.com/wricardo/neurosphere-arcade/transport/mcp"
	"github.com/wricardo/neurosphere-arcade/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "NEUROSPHERE Arcade Server"
)

// main loads .env, then runs the command tree.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:           "arcade",
		Usage:          AppName,
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "settings file (default: ./arcade.yaml or ~/.neurosphere/arcade.yaml)",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("ARCADE_DEBUG"),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			validateCommand(),
			simulateCommand(),
		},
	}
}

func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Usage: "HTTP server host"},
		&cli.IntFlag{Name: "port", Usage: "HTTP server port"},
		&cli.StringFlag{Name: "presets-dir", Usage: "directory containing game presets", Sources: cli.EnvVars("CONFIG_DIR")},
		&cli.StringFlag{Name: "scores-backend", Usage: "best score storage: file or sqlite"},
		&cli.StringFlag{Name: "scores-path", Usage: "best score file or database path"},
	}
}

func serveCommand() *cli.Command {
	flags := append(serverFlags(),
		&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain", Sources: cli.EnvVars("NGROK_DOMAIN")},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server with REST API, WebSocket, metrics and MCP endpoint",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			log := logger.Must(s.Debug)
			defer log.Sync()

			return runHTTPServer(ctx, s, log, cmd.String("ngrok-auth"))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server backed by an external or internal HTTP API",
		Flags: append(serverFlags(),
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "external API to use when reachable"},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			// stdout carries the protocol; zap writes to stderr
			log := logger.Must(s.Debug)
			defer log.Sync()

			return runStdioMCP(ctx, s, log, cmd.String("api-url"))
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate every preset file in a directory",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "configs"
			}
			return runValidate(cmd.Root().Writer, dir)
		},
	}
}

// loadSettings reads settings and applies the flags the user set
func loadSettings(cmd *cli.Command) (*settings.Settings, error) {
	s, err := settings.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("debug") {
		s.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("host") {
		s.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("presets-dir") {
		s.PresetsDir = cmd.String("presets-dir")
	}
	if cmd.IsSet("scores-backend") {
		// a defaulted path follows the backend
		if s.ScoresPath == settings.DefaultScoresPath(s.ScoresBackend) {
			s.ScoresPath = settings.DefaultScoresPath(cmd.String("scores-backend"))
		}
		s.ScoresBackend = cmd.String("scores-backend")
	}
	if cmd.IsSet("scores-path") {
		s.ScoresPath = cmd.String("scores-path")
	}
	if cmd.IsSet("ngrok") {
		s.Ngrok = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-domain") {
		s.NgrokDomain = cmd.String("ngrok-domain")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// services holds everything initializeServices wires together
type services struct {
	game    service.GameService
	hub     *websocket.Hub
	metrics *metrics.Metrics
	scores  scores.Store
}

func (s *services) Close() error {
	return errors.Join(s.game.Close(), s.scores.Close())
}

// initializeServices wires session/config managers, score storage, metrics,
// the WebSocket hub and the game service.
func initializeServices(s *settings.Settings, log *zap.SugaredLogger) (*services, error) {
	configManager, err := config.NewManager(s.PresetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	store, err := scores.Open(s.ScoresBackend, s.ScoresPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open score store: %w", err)
	}

	m := metrics.New("arcade")
	hub := websocket.NewHub(log.Named("websocket"))

	gameService := service.NewGameService(session.NewManager(), configManager,
		service.WithLogger(log.Named("service")),
		service.WithPublisher(hub),
		service.WithMetrics(m),
		service.WithScores(store),
	)

	return &services{game: gameService, hub: hub, metrics: m, scores: store}, nil
}

func newAPIServer(svc *services, log *zap.SugaredLogger) *api.Server {
	return api.NewServer(svc.game, svc.hub,
		api.WithLogger(log.Named("api")),
		api.WithMetricsHandler(svc.metrics.Handler()),
		api.WithScores(svc.scores),
	)
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl.
func sessionCleanupRoutine(ctx context.Context, game service.GameService, interval, ttl time.Duration, log *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := game.ExpireSessions(ctx, ttl); removed > 0 {
				log.Infow("cleaned up expired sessions", "removed", removed)
			}
		}
	}
}

// mcpHandler serves single MCP JSON-RPC messages over HTTP POST
func mcpHandler(mcpServer *server.MCPServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, metrics
// and an /mcp proxy endpoint. If ngrok is enabled it also provisions a
// public tunnel. It returns after SIGINT or SIGTERM.
func runHTTPServer(parent context.Context, s *settings.Settings, log *zap.SugaredLogger, ngrokAuth string) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := initializeServices(s, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	go svc.hub.Run(ctx)
	go sessionCleanupRoutine(ctx, svc.game, s.CleanupInterval, s.SessionTTL, log)

	addr := s.Addr()
	mcpClient := mcp.NewClient("http://" + addr)

	apiServer := newAPIServer(svc, log)
	apiServer.Router().HandleFunc("/mcp", mcpHandler(mcpClient.GetMCPServer()))

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     apiServer,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Infow("HTTP server listening", "addr", addr,
			"api", "http://"+addr+"/api",
			"websocket", "ws://"+addr+"/ws?session=<session_id>",
			"mcp", "http://"+addr+"/mcp",
			"metrics", "http://"+addr+"/metrics")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if s.Ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, s.NgrokDomain, ngrokAuth, apiServer, log)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case runErr = <-errc:
		stop()
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnw("HTTP server shutdown error", "error", err)
	}

	wg.Wait()
	log.Info("server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, domain, authToken string, handler http.Handler, log *zap.SugaredLogger) {
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Errorw("failed to start ngrok tunnel", "error", err)
		return
	}

	ngrokServer := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		ngrokServer.Close()
	}()

	log.Infow("ngrok tunnel established", "url", tun.URL())
	if err := ngrokServer.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warnw("ngrok server error", "error", err)
	}
	log.Info("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses the API at externalURL
// when it answers; otherwise it starts an internal API on a random loopback
// port and targets that.
func runStdioMCP(ctx context.Context, s *settings.Settings, log *zap.SugaredLogger, externalURL string) error {
	baseURL := externalURL

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Infow("using external API server for MCP", "url", externalURL)
	} else {
		log.Info("no external API server found, starting internal HTTP server")

		svc, err := initializeServices(s, log)
		if err != nil {
			return err
		}
		defer svc.Close()

		go svc.hub.Run(ctx)
		go sessionCleanupRoutine(ctx, svc.game, s.CleanupInterval, s.SessionTTL, log)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: newAPIServer(svc, log)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warnw("internal HTTP server error", "error", err)
			}
		}()
		defer httpServer.Close()

		baseURL = "http://" + listener.Addr().String()
		log.Infow("internal HTTP server started", "url", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runValidate prints per-file results and fails when any preset is invalid
func runValidate(w io.Writer, dir string) error {
	results, err := config.ValidateDir(dir)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return cli.Exit(fmt.Sprintf("no preset files found in %s", dir), 1)
	}

	fmt.Fprintf(w, "Validating %d preset files in %s\n\n", len(results), dir)

	invalid := 0
	for _, result := range results {
		if result.Valid {
			fmt.Fprintf(w, "✅ %s\n", result.File)
		} else {
			fmt.Fprintf(w, "❌ %s\n", result.File)
			invalid++
		}
		for _, msg := range result.Messages {
			fmt.Fprintf(w, "   %s\n", msg)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d valid, %d invalid\n", len(results)-invalid, invalid)
	if invalid > 0 {
		return cli.Exit(fmt.Sprintf("%d invalid preset files", invalid), 1)
	}
	return nil
}
