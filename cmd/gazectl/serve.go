package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ayusman/gazectl/internal/capture"
	"github.com/ayusman/gazectl/internal/config"
	"github.com/ayusman/gazectl/internal/detector"
	"github.com/ayusman/gazectl/internal/events"
	"github.com/ayusman/gazectl/internal/input"
	"github.com/ayusman/gazectl/internal/metrics"
	"github.com/ayusman/gazectl/internal/server"
	"github.com/ayusman/gazectl/internal/tracking"
	"github.com/ayusman/gazectl/internal/tray"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tracking service and its control API",
	Long: `Run the tracking service. Tracking starts disabled; switch it with
POST /start and POST /stop on the control API, the dashboard, "gazectl start",
or the tray menu (--tray).`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("tray", false, "Show the system tray menu (overrides tray.enabled)")
	serveCmd.Flags().String("addr", "", "Control API address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if cmd.Flags().Changed("tray") {
		cfg.Tray.Enabled, _ = cmd.Flags().GetBool("tray")
	}

	svc, hub, err := buildService(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:        cfg.Server.Addr,
		Controller:  svc,
		Events:      hub,
		Metrics:     cfg.Server.Metrics,
		StopTimeout: cfg.Tracking.StopTimeout,
		Logger:      logger,
	})

	quit := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() { quitOnce.Do(func() { close(quit) }) }

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		requestQuit()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
		requestQuit()
	}()

	if cfg.Tray.Enabled {
		t := newTray(cfg, svc, logger, requestQuit)
		go func() {
			<-quit
			t.Quit()
		}()
		// Run blocks on the main goroutine until Quit.
		t.Run()
	} else {
		<-quit
	}

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := svc.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("stop tracking")
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown control API")
	}
	return <-errCh
}

// buildService wires the camera, detector and input backend into the
// tracking service with the events hub and metrics as observers.
func buildService(cfg *config.Config, logger zerolog.Logger) (*tracking.Service, *events.Hub, error) {
	camera := capture.NewCamera(capture.Options{
		DeviceID: cfg.Camera.DeviceID,
		Width:    cfg.Camera.Width,
		Height:   cfg.Camera.Height,
		Mirror:   cfg.Camera.Mirror,
	})

	det, err := detector.NewMediaPipeDetector(detector.Config{
		ScriptPath:       cfg.Detector.ScriptPath,
		PythonPath:       cfg.Detector.PythonPath,
		MaxFaces:         cfg.Detector.MaxFaces,
		RefineLandmarks:  cfg.Detector.RefineLandmarks,
		MinDetectionConf: cfg.Detector.MinDetectionConfidence,
		MinTrackingConf:  cfg.Detector.MinTrackingConfidence,
		IdleTimeout:      cfg.Detector.IdleTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("face mesh detector: %w", err)
	}

	em, err := input.New(input.Options{
		Backend:       cfg.Input.Backend,
		PluginDir:     cfg.Input.PluginDir,
		PluginName:    cfg.Input.PluginName,
		PluginTimeout: cfg.Input.PluginTimeout,
	}, logger)
	if err != nil {
		det.Close()
		return nil, nil, fmt.Errorf("input backend %s: %w", cfg.Input.Backend, err)
	}
	logger.Info().Str("backend", cfg.Input.Backend).Msg("input backend ready")

	hub := events.NewHub(logger)
	svc := tracking.NewService(tracking.Options{
		Camera:                camera,
		Detector:              det,
		Emulator:              em,
		Logger:                logger,
		ClearOnCaptureFailure: cfg.Tracking.ClearOnCaptureFailure,
		Observers:             []tracking.Observer{hub, metrics.Observer{}},
	})
	return svc, hub, nil
}

func newTray(cfg *config.Config, svc *tracking.Service, logger zerolog.Logger, quit func()) *tray.Tray {
	t := tray.New()
	svc.AddObserver(t)

	t.OnToggle(func(enable bool) {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var err error
		if enable {
			err = svc.Start(ctx)
		} else {
			err = svc.Stop(ctx)
		}
		if err != nil {
			logger.Warn().Err(err).Bool("enable", enable).Msg("tray toggle failed")
		}
	})
	t.OnDashboard(func() {
		url := dashboardURL(cfg.Dashboard.Addr)
		if err := openBrowser(url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("open dashboard")
		}
	})
	t.OnQuit(quit)
	return t
}

// dashboardURL turns a listen address such as ":8501" into a local URL.
func dashboardURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
