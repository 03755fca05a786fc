// Package tray wraps the system tray icon: tooltip status plus an Exit menu
// item that shares the quit hotkey's shutdown path.
package tray

import (
	"log"
	"sync/atomic"

	"github.com/getlantern/systray"
)

type Config struct {
	Title   string
	Tooltip string
	OnExit  func()
}

type Tray struct {
	cfg   Config
	ready atomic.Bool
}

func New(cfg Config) *Tray {
	return &Tray{cfg: cfg}
}

// Run blocks inside the systray loop; call it on its own goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

func (t *Tray) onReady() {
	systray.SetTitle(t.cfg.Title)
	systray.SetTooltip(t.cfg.Tooltip)
	t.ready.Store(true)

	mExit := systray.AddMenuItem("Exit", "Save the presentation and quit")
	go func() {
		<-mExit.ClickedCh
		log.Printf("Exit requested from tray icon")
		if t.cfg.OnExit != nil {
			t.cfg.OnExit()
		}
	}()
}

// UpdateTooltip implements eventloop.Notifier.
func (t *Tray) UpdateTooltip(text string) {
	if !t.ready.Load() {
		return
	}
	systray.SetTooltip(text)
}

// Destroy removes the tray icon.
func (t *Tray) Destroy() {
	if t.ready.Load() {
		systray.Quit()
	}
}
