package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tablescope/tablescope/internal/appstate"
)

// Run drives the single-threaded event loop against screen: draw a
// frame, poll for the next key or resize event with a short timeout
// (letting search-mode debounces settle between keystrokes), handle
// it, and repeat until the app decides to quit.
func Run(screen tcell.Screen, a *App) error {
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	screen.EnableMouse()
	cols, rows := screen.Size()
	a.SetScreenSize(cols, rows)

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	a.Draw(screen)
	for {
		a.Tick()

		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if !a.HandleKey(e, time.Now()) {
					return a.Shutdown()
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-time.After(appstate.TickInterval()):
		}

		a.Draw(screen)
	}
}
