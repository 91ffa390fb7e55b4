// Command snake plays terminal snake and serves it to remote players.
//
// It supports four commands:
//  1. "play" (default) – plays in the terminal with the selected theme
//  2. "serve" – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  3. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  4. "validate" – checks every theme file in a directory
//
// Flags fall back to environment variables (PORT, HOST, CONFIG_DIR,
// SNAKE_THEME, TICK_INTERVAL, NGROK_*), and a .env file is loaded first.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/terminal-snake/api"
	"github.com/wricardo/terminal-snake/game/config"
	"github.com/wricardo/terminal-snake/game/engine"
	"github.com/wricardo/terminal-snake/game/service"
	"github.com/wricardo/terminal-snake/game/session"
	"github.com/wricardo/terminal-snake/transport/mcp"
	"github.com/wricardo/terminal-snake/transport/terminal"
	"github.com/wricardo/terminal-snake/transport/websocket"
	"github.com/wricardo/terminal-snake/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Terminal Snake"
)

// Session retention for long running servers
const (
	sessionCleanupInterval = 1 * time.Hour
	sessionMaxAge          = 24 * time.Hour
)

// main loads .env and runs the selected command
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "snake",
		Usage:   "steer a growing snake around a walled board",
		Version: Version,
		Flags:   playFlags(true),
		Action:  runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play in the terminal (default)",
				Flags:  playFlags(false),
				Action: runPlay,
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags:  serveFlags(),
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp"},
				Usage:   "run an MCP stdio server, starting an internal HTTP API if none is reachable",
				Flags: []cli.Flag{
					configDirFlag(),
					&cli.StringFlag{
						Name:    "api-url",
						Value:   "http://localhost:8080",
						Usage:   "REST API to reuse when it is already running",
						Sources: cli.EnvVars("SNAKE_API_URL"),
					},
				},
				Action: runMCP,
			},
			{
				Name:      "validate",
				Usage:     "validate theme files",
				ArgsUsage: "[dir]",
				Flags:     []cli.Flag{configDirFlag()},
				Action:    runValidate,
			},
		},
	}
}

func configDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config-dir",
		Value:   "configs",
		Usage:   "directory containing theme files",
		Sources: cli.EnvVars("CONFIG_DIR"),
	}
}

// playFlags are the terminal play flags. The root command keeps its copy
// local so subcommands do not inherit it.
func playFlags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config-dir",
			Value:   "configs",
			Usage:   "directory containing theme files",
			Sources: cli.EnvVars("CONFIG_DIR"),
			Local:   local,
		},
		&cli.StringFlag{
			Name:    "theme",
			Usage:   "theme to play with (default: classic)",
			Sources: cli.EnvVars("SNAKE_THEME"),
			Local:   local,
		},
		&cli.DurationFlag{
			Name:    "tick-interval",
			Value:   terminal.DefaultTickInterval,
			Usage:   "pause between ticks",
			Sources: cli.EnvVars("TICK_INTERVAL"),
			Local:   local,
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "append logs to this file (default: discarded)",
			Local: local,
		},
	}
}

func serveFlags() []cli.Flag {
	return []cli.Flag{
		configDirFlag(),
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		&cli.BoolFlag{Name: "ngrok", Usage: "enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{
			Name:    "ngrok-auth",
			Usage:   "ngrok auth token",
			Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
		},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
	}
}

// runPlay plays one game in the terminal until the player quits
func runPlay(ctx context.Context, cmd *cli.Command) error {
	logOutput, closeLog, err := openLogOutput(cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer closeLog()
	log.SetOutput(logOutput)

	theme, err := loadTheme(cmd.String("config-dir"), cmd.String("theme"))
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(theme, engine.DefaultWidth, engine.DefaultHeight, nil)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[PLAY] theme=%s interval=%s", theme.Name, cmd.Duration("tick-interval"))
	if err := terminal.Run(ctx, eng, terminal.NewTermboxDriver(), terminal.NewKeymap(theme), cmd.Duration("tick-interval")); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Final score: %d\n", eng.GetScore())
	return nil
}

// openLogOutput returns where play mode logs go. Logs never reach the
// terminal while termbox owns it.
func openLogOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// loadTheme resolves a theme by name. Without a config directory only the
// built-in classic theme is available.
func loadTheme(configDir, name string) (*engine.GameConfig, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if name == "" || name == config.DefaultConfigName {
			return engine.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("theme %q: %w", name, config.ErrConfigNotFound)
	}

	manager, err := config.NewManager(configDir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	theme, err := manager.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	return theme, nil
}

func setupLogging(debug bool) {
	if debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// serverOptions are the listen and tunnel settings of the serve command
type serverOptions struct {
	Host        string
	Port        int
	Ngrok       bool
	NgrokAuth   string
	NgrokDomain string
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd.Bool("debug"))
	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	gameService, sessions, err := initializeServices(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessionCleanupRoutine(ctx, sessions, sessionCleanupInterval, sessionMaxAge)

	return runHTTPServer(ctx, gameService, serverOptions{
		Host:        cmd.String("host"),
		Port:        int(cmd.Int("port")),
		Ngrok:       cmd.Bool("ngrok"),
		NgrokAuth:   cmd.String("ngrok-auth"),
		NgrokDomain: cmd.String("ngrok-domain"),
	})
}

// newRouter combines the API server, WebSocket hub, and /mcp endpoint. The
// MCP tools call back into the API at baseURL. The returned hub is running.
func newRouter(gameService service.GameService, baseURL string) (http.Handler, *websocket.Hub) {
	hub := websocket.NewHub()
	go hub.Run()

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(gameService, hub))
	mainRouter.Handle("/mcp", mcp.NewClient(baseURL))
	return mainRouter, hub
}

// runHTTPServer serves until ctx is cancelled. If ngrok is enabled it also
// provisions a public tunnel.
func runHTTPServer(ctx context.Context, gameService service.GameService, opts serverOptions) error {
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	mainRouter, hub := newRouter(gameService, fmt.Sprintf("http://%s", addr))
	defer hub.Stop()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tunnelCtx, cancelTunnel := context.WithCancel(ctx)
	defer cancelTunnel()

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if opts.Ngrok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(tunnelCtx, mainRouter, opts)
		}()
	}

	var err error
	select {
	case <-ctx.Done():
		log.Printf("Received shutdown signal. Shutting down...")
	case err = <-serveErr:
	}
	cancelTunnel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Printf("HTTP server shutdown error: %v", shutdownErr)
	}

	wg.Wait()
	log.Println("Server stopped")
	return err
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, handler http.Handler, opts serverOptions) {
	if opts.NgrokAuth == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if opts.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", opts.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(opts.NgrokAuth))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
	log.Printf("  Board viewer (ngrok): %s/", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the session and theme managers into the game
// service
func initializeServices(configDir string) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within maxAge
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// runMCP runs an MCP stdio server. It reuses a REST API already listening
// at --api-url; otherwise it starts an internal one on a random loopback
// port.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	baseURL, shutdown, err := resolveAPI(cmd.String("api-url"), cmd.String("config-dir"))
	if err != nil {
		return err
	}
	defer shutdown()

	log.Printf("MCP stdio server ready (API at %s)", baseURL)
	if err := mcp.NewClient(baseURL).ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// resolveAPI returns the base URL the MCP tools should call and a function
// releasing whatever was started for it
func resolveAPI(externalURL, configDir string) (string, func(), error) {
	log.Printf("Checking for external API server at %s...", externalURL)

	healthClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := healthClient.Get(externalURL + "/api/health")
	if err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			log.Printf("External API server found at %s, using it for MCP", externalURL)
			return externalURL, func() {}, nil
		}
	}

	log.Printf("No external API server found, starting internal HTTP server")

	gameService, _, err := initializeServices(configDir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}
	internalAddr := listener.Addr().String()
	log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

	hub := websocket.NewHub()
	go hub.Run()

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(ctx)
		hub.Stop()
	}
	return fmt.Sprintf("http://%s", internalAddr), shutdown, nil
}

// runValidate checks the theme files in the given directory, or the
// config directory when none is given
func runValidate(ctx context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = cmd.String("config-dir")
	}

	results, err := validate.ValidateDir(dir)
	if err != nil {
		return err
	}
	if !validate.Report(cmd.Root().Writer, results) {
		return fmt.Errorf("%s: some themes have errors", dir)
	}
	return nil
}
