package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/term"

	"github.com/taigrr/raster/pkg/math3d"
	"github.com/taigrr/raster/pkg/render"
)

// spinSpeed is the preview turntable speed in radians per second.
const spinSpeed = 0.6

var errNotTerminal = errors.New("-preview needs a terminal on stdout")

// runPreview draws the scene into the terminal with half-block cells,
// turning the model until Esc or ctrl+c.
func runPreview(ctx context.Context, sc *scene, eye math3d.Vec3, bg render.Color) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	tty := uv.DefaultTerminal()
	width, height, err := tty.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := tty.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	tty.EnterAltScreen()
	tty.HideCursor()
	tty.Resize(width, height)

	cleanup := func() {
		tty.ExitAltScreen()
		tty.ShowCursor()
		tty.Shutdown(context.Background())
	}
	defer cleanup()

	// Each cell shows two pixel rows.
	r := render.NewRenderer(width, height*2)
	cam := render.NewCamera(eye, width, height*2)
	spin := newTurntable(*targetFPS)
	dir, dist := eye.Normalize(), eye.Len()
	target := 0.0
	paused := false

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	for {
		// Drain pending input before drawing the frame.
	events:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-tty.Events():
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					tty.Erase()
					tty.Resize(width, height)
					r = render.NewRenderer(width, height*2)
					cam.SetSize(width, height*2)
				case uv.KeyPressEvent:
					switch {
					case ev.MatchString("escape", "ctrl+c"):
						return nil
					case ev.MatchString("a", "left"):
						target -= math.Pi / 8
					case ev.MatchString("d", "right"):
						target += math.Pi / 8
					case ev.MatchString("space"):
						paused = !paused
					case ev.MatchString("+", "="):
						dist = math.Max(1.5, dist-0.25)
					case ev.MatchString("-", "_"):
						dist = math.Min(20, dist+0.25)
					}
				}
			default:
				break events
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now
		if !paused {
			target += spinSpeed * dt
		}
		spin.Step(target)

		cam.SetEye(spin.Eye(dir.Scale(dist)))

		r.Clear(bg)
		if err := sc.draw(ctx, r, cam, *workers); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		r.Draw(tty, tty.Bounds())
		if err := tty.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
