package gui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/san-kum/chaosplot/internal/config"
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/experiment"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/task"
)

const title = "Elegant Chaos"

type plotKey struct {
	key   int32
	plot  string
	label string
}

var plotKeys = []plotKey{
	{rl.KeyOne, "ac7", "ac7"},
	{rl.KeyTwo, "rabbit_foxes", "rabbit & foxes"},
	{rl.KeyThree, "rabbit_foxes_all", "all bodies"},
}

type request struct {
	id   uuid.UUID
	plot string
}

// App owns the window and turns key presses into runs. Runs execute on the
// window thread; a key press during a run's Pump retires that run through the
// token and queues the new plot, which starts once the old loop returns.
type App struct {
	window   *Window
	launcher *experiment.Launcher
	logger   *slog.Logger

	next     *request
	current  string
	planned  int
	progress int
	last     *sim.Result
	err      error
}

func (a *App) OnStep(i int, _ dynamo.State) { a.progress = i + 1 }

func (a *App) handleInput() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.launcher.Token().Clear()
		return true
	}
	for _, pk := range plotKeys {
		if rl.IsKeyPressed(pk.key) {
			a.request(pk.plot)
		}
	}
	return false
}

func (a *App) request(plot string) {
	cfg, err := a.launcher.Config(plot)
	if err != nil {
		a.err = err
		return
	}
	a.next = &request{id: a.launcher.Begin(), plot: plot}
	a.current = plot
	a.planned = cfg.Iterations
	a.progress = 0
	a.last = nil
	a.err = nil
}

func (a *App) drawOverlay() {
	var keys []string
	for _, pk := range plotKeys {
		keys = append(keys, fmt.Sprintf("[%c] %s", rune(pk.key), strings.ToUpper(pk.label)))
	}
	keys = append(keys, "[Q] QUIT")
	rl.DrawText(strings.Join(keys, "  "), 10, int32(a.window.height)-20, 10, ColTextDim)

	if a.err != nil {
		rl.DrawText(a.err.Error(), 10, 10, 10, ColError)
		return
	}
	if a.current == "" {
		rl.DrawText("press 1, 2 or 3", 10, 10, 10, ColText)
		return
	}

	status := sim.Running
	done := a.progress
	if a.last != nil {
		status = a.last.Status
		done = a.last.Iterations
	}
	line := fmt.Sprintf("%s  %s  %s/%s", a.current, status, humanize.Comma(int64(done)), humanize.Comma(int64(a.planned)))
	col := ColText
	if status == sim.Running {
		col = ColSelect
	}
	rl.DrawText(line, 10, 10, 10, col)
}

// loop idles on Pump until a plot is requested, runs it, and repeats until
// the window closes.
func (a *App) loop(ctx context.Context) {
	for !a.window.Closed() && ctx.Err() == nil {
		if a.next == nil {
			a.window.Pump()
			continue
		}

		req := *a.next
		a.next = nil
		res, err := a.launcher.Run(ctx, req.id, req.plot)
		if err != nil {
			a.logger.Error("plot failed", "plot", req.plot, "err", err)
			a.err = err
			continue
		}
		if req.id == a.launcher.Token().Active() {
			a.last = res
		}
	}
}

// Run opens a width x height window and blocks until it is closed. Plot
// sizes follow the window; WithSize is ignored.
func Run(ctx context.Context, width, height int, opts ...experiment.LauncherOption) error {
	if width <= 0 || height <= 0 {
		width, height = config.DefaultWidth, config.DefaultHeight
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(width), int32(height), title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	app := &App{
		window: newWindow(width, height),
		logger: slog.Default(),
	}
	defer app.window.unload()
	app.window.overlay = app.drawOverlay
	app.window.input = app.handleInput

	opts = append([]experiment.LauncherOption{
		experiment.WithSurfaceName("gui"),
		experiment.WithObserver(app),
	}, opts...)
	app.launcher = experiment.NewLauncher(app.window, task.NewToken(), opts...)

	app.loop(ctx)
	app.launcher.Token().Clear()
	return nil
}
