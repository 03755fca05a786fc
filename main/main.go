package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sehmus-akcakale/SnapLearn/clipboard"
	"github.com/sehmus-akcakale/SnapLearn/config"
	"github.com/sehmus-akcakale/SnapLearn/deck"
	"github.com/sehmus-akcakale/SnapLearn/eventloop"
	"github.com/sehmus-akcakale/SnapLearn/hotkey"
	"github.com/sehmus-akcakale/SnapLearn/logutil"
	"github.com/sehmus-akcakale/SnapLearn/screenshot"
	"github.com/sehmus-akcakale/SnapLearn/session"
	"github.com/sehmus-akcakale/SnapLearn/tray"
	"github.com/sehmus-akcakale/SnapLearn/vision"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup logging
	logutil.Setup(cfg.EnableFileLogging)

	// Validate configuration. A missing key is the only fatal error; it
	// aborts before any hotkey is registered and before the PID file is
	// written, so a failed start never leaves a stale PID behind.
	if cfg.APIKey == "" {
		log.Fatalf("OPENROUTER_API_KEY is required. Please set it in your .env file.")
	}

	// Ensure single instance
	ensureSingleInstance(pidFile)
	defer os.Remove(pidFile) // Clean up PID file on exit

	startedAt := time.Now()

	// Initialize packages
	vision.Init(&vision.Config{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		Providers: cfg.Providers,
	})
	store, err := screenshot.NewStore(cfg.ScreenshotsDir, startedAt)
	if err != nil {
		fatalf("Failed to prepare screenshots directory: %v", err)
	}
	d, err := deck.New(cfg.OutputDir, startedAt)
	if err != nil {
		fatalf("Failed to create presentation: %v", err)
	}
	clipboardReady := true
	if err := clipboard.Init(); err != nil {
		log.Printf("Clipboard unavailable, summaries will not be copied: %v", err)
		clipboardReady = false
	}

	log.Printf("SnapLearn initialized")
	log.Printf("Using model: %s (key %s)", cfg.Model, logutil.RedactKey(cfg.APIKey))
	log.Printf("Presentation file: %s", d.Path())
	log.Printf("Screenshots directory: %s", store.Dir())
	if bounds, err := screenshot.GetDisplayBounds(); err == nil {
		log.Printf("Primary display: %dx%d", bounds.Dx(), bounds.Dy())
	} else {
		log.Printf("Could not read display bounds: %v", err)
	}

	loop := eventloop.New(session.Options{
		Capture:  store.Capture,
		Sink:     d,
		Deadline: time.Duration(cfg.AnalysisDeadlineSec) * time.Second,
	})
	if clipboardReady {
		loop.SetCopySummary(clipboard.Write)
	}

	// Create system tray icon
	tooltip := fmt.Sprintf("SnapLearn - %s AI capture, %s direct, %s quit",
		cfg.HotkeyAI, cfg.HotkeyDirect, cfg.HotkeyQuit)
	trayIcon := tray.New(tray.Config{
		Title:   "SnapLearn",
		Tooltip: tooltip,
		OnExit: func() {
			loop.Trigger(eventloop.TriggerQuit)
		},
	})
	go trayIcon.Run()
	defer trayIcon.Destroy()
	loop.SetNotifier(trayIcon, tooltip)

	// Register the three global hotkeys
	err = hotkey.Listen(
		hotkey.Binding{Combo: cfg.HotkeyAI, OnPress: func() { loop.Trigger(eventloop.TriggerAI) }},
		hotkey.Binding{Combo: cfg.HotkeyDirect, OnPress: func() { loop.Trigger(eventloop.TriggerDirect) }},
		hotkey.Binding{Combo: cfg.HotkeyQuit, OnPress: func() { loop.Trigger(eventloop.TriggerQuit) }},
	)
	if err != nil {
		fatalf("Failed to register hotkeys: %v", err)
	}

	printBanner(cfg)

	// Run until the quit hotkey, tray exit, or an interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := loop.Run(ctx); err != nil && err != context.Canceled {
		log.Printf("Event loop stopped: %v", err)
	}

	// Export the session to PDF alongside the native file
	fmt.Println("\nExporting presentation to PDF...")
	pdfPath, err := d.ExportPDF()
	if err != nil {
		log.Printf("PDF export failed: %v", err)
		fmt.Println("PDF export failed, the presentation file is still intact.")
	} else {
		fmt.Printf("PDF saved: %s\n", pdfPath)
	}

	log.Printf("Session finished: %d captures, %d slides", d.CaptureCount(), d.SlideCount())
	fmt.Printf("Presentation saved: %s\n", d.Path())
}

func printBanner(cfg *config.Config) {
	fmt.Println()
	fmt.Println("============================================================")
	fmt.Println("SnapLearn ready!")
	fmt.Printf("  %s = Capture with AI analysis (summary + question)\n", cfg.HotkeyAI)
	fmt.Printf("  %s = Direct capture (screenshot only)\n", cfg.HotkeyDirect)
	fmt.Printf("  %s = Quit and export PDF\n", cfg.HotkeyQuit)
	fmt.Println("============================================================")
	fmt.Println()
}

const pidFile = "snaplearn.pid"

// fatalf removes the PID file before exiting, since log.Fatalf skips the
// deferred cleanup.
func fatalf(format string, v ...interface{}) {
	os.Remove(pidFile)
	log.Fatalf(format, v...)
}

func ensureSingleInstance(path string) {
	// Check if PID file exists
	if _, err := os.Stat(path); err == nil {
		if pidBytes, err := os.ReadFile(path); err == nil {
			if oldPid, err := strconv.Atoi(string(pidBytes)); err == nil {
				// Try to kill the old process
				if process, err := os.FindProcess(oldPid); err == nil {
					log.Printf("Found existing instance with PID %d, killing it...", oldPid)
					process.Kill()
					process.Wait() // Wait for it to die
				}
			}
		}
	}

	// Write current PID to file
	pidStr := strconv.Itoa(os.Getpid())
	if err := os.WriteFile(path, []byte(pidStr), 0644); err != nil {
		log.Printf("Warning: Could not write PID file: %v", err)
	} else {
		log.Printf("Running as PID %s", pidStr)
	}
}
