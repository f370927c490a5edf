package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pano-tour/backend/internal/api"
	"github.com/pano-tour/backend/internal/config"
	"github.com/pano-tour/backend/internal/hotspot"
	"github.com/pano-tour/backend/internal/session"
	"github.com/pano-tour/backend/internal/storage"
	"github.com/pano-tour/backend/internal/viewer"
	"github.com/pano-tour/backend/internal/web"
	"github.com/rs/zerolog"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// viewTickInterval drives autorotation across all tours.
const viewTickInterval = 50 * time.Millisecond

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Advanced.LogLevel)

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatal().Err(err).Msg("failed to create asset directories")
	}

	// An unavailable asset store disables the viewer feature but not the
	// rest of the server; the hotspot and overlay API keep working.
	var assets storage.Assets
	assetStore, err := storage.NewAssetStore(cfg.Assets.Root, cfg.Assets.FloorplanFile, cfg.Assets.PhotosDir)
	if err != nil {
		log.Error().Err(err).Msg("viewer disabled: asset store unavailable")
	} else {
		assets = assetStore
	}

	var source hotspot.Source
	switch cfg.Hotspots.Source {
	case "http":
		source = hotspot.NewHTTPSource(cfg.Hotspots.URL, cfg.Hotspots.BypassCache)
	default:
		source = &hotspot.FileSource{Path: cfg.Hotspots.File}
	}
	hotspots := hotspot.NewStore(source, log)

	tourOpts := session.DefaultOptions()
	tourOpts.InitialPanelVisible = cfg.Panel.InitialVisible
	tourOpts.ResizeDebounce = time.Duration(cfg.Panel.ResizeDebounceMs) * time.Millisecond
	tourOpts.ViewerLimits = viewer.Limits{
		DefaultFov:         cfg.Viewer.DefaultFov,
		MinFov:             cfg.Viewer.MinFov,
		MaxFov:             cfg.Viewer.MaxFov,
		WheelZoomRate:      cfg.Viewer.WheelZoomRate,
		AutorotateYawSpeed: cfg.Viewer.AutorotateYawSpeed,
		Transition:         time.Duration(cfg.Viewer.TransitionMs) * time.Millisecond,
	}
	tours := session.NewManager(hotspots, assets, tourOpts, log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Background tour cleanup.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Sessions.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tours.CleanupIdleTours(time.Duration(cfg.Sessions.TimeoutMinutes) * time.Minute)
			}
		}
	}()

	// Autorotation ticker for all active views.
	go func() {
		ticker := time.NewTicker(viewTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tours.AdvanceAll(viewTickInterval)
			}
		}
	}()

	h := api.NewHandler(hotspots, tours, Version, assets != nil, log)
	wsHandler := api.NewWebSocketHandler(tours, log)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/api/health" ||
				strings.HasSuffix(path, "/keepalive") ||
				strings.Contains(path, "/ws/")
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		Skipper: func(c echo.Context) bool {
			return strings.Contains(c.Request().URL.Path, "/ws/")
		},
		ErrorMessage: "Request timeout",
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.Contains(c.Request().URL.Path, "/ws/")
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h, wsHandler)

	// Panorama and floorplan images are served from the asset root.
	if assetStore != nil {
		e.Static("/assets", assetStore.Root())
	}

	embeddedMode := web.HasEmbeddedFiles()
	if embeddedMode {
		if err := web.RegisterStaticRoutes(e); err != nil {
			log.Warn().Err(err).Msg("failed to register static routes")
		}
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	log.Info().
		Str("version", Version).
		Str("buildTime", BuildTime).
		Str("listen", cfg.GetServerAddr()).
		Str("assets", cfg.Assets.Root).
		Bool("viewer", assets != nil).
		Bool("embeddedFrontend", embeddedMode).
		Bool("panelInitialVisible", cfg.Panel.InitialVisible).
		Msg("panorama tour server starting")

	e.Logger.Fatal(e.StartServer(s))
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger()
}
