package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/experiment"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/task"
)

const (
	defaultCols = 100
	defaultRows = 40
	chromeRows  = 6
	chromeCols  = 2
)

// plotKey is one entry of the plot menu.
type plotKey struct {
	key   string
	plot  string
	label string
}

var plotKeys = []plotKey{
	{"1", "ac7", "ac7"},
	{"2", "rabbit_foxes", "rabbit & foxes"},
	{"3", "rabbit_foxes_all", "all bodies"},
}

type doneMsg struct {
	id  uuid.UUID
	res *sim.Result
	err error
}

// runner serializes runs: a new plot waits until the run it superseded has
// seen the token change and returned.
type runner struct {
	mu       sync.Mutex
	launcher *experiment.Launcher
	progress atomic.Int64
}

func (r *runner) OnStep(i int, _ dynamo.State) { r.progress.Store(int64(i + 1)) }

func (r *runner) run(ctx context.Context, id uuid.UUID, name string) tea.Cmd {
	return func() tea.Msg {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.progress.Store(0)
		res, err := r.launcher.Run(ctx, id, name)
		return doneMsg{id: id, res: res, err: err}
	}
}

type model struct {
	ctx     context.Context
	surface *CanvasSurface
	runner  *runner

	active  uuid.UUID
	current string
	planned int
	started time.Time
	status  sim.Status
	last    *sim.Result
	err     error

	width  int
	height int
}

func newModel(ctx context.Context, surface *CanvasSurface, r *runner) model {
	return model{
		ctx:     ctx,
		surface: surface,
		runner:  r,
		status:  sim.Idle,
		width:   defaultCols + chromeCols,
		height:  defaultRows + chromeRows,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.surface.Resize(msg.Width-chromeCols, msg.Height-chromeRows)
		return m, nil
	case doneMsg:
		if msg.id != m.active {
			return m, nil
		}
		m.err = msg.err
		m.last = msg.res
		if msg.res != nil {
			m.status = msg.res.Status
		} else {
			m.status = sim.Idle
		}
		return m, nil
	case frameMsg:
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.surface.Close()
		m.runner.launcher.Token().Clear()
		return m, tea.Quit
	}

	for _, pk := range plotKeys {
		if msg.String() != pk.key {
			continue
		}
		cfg, err := m.runner.launcher.Config(pk.plot)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.active = m.runner.launcher.Begin()
		m.current = pk.plot
		m.planned = cfg.Iterations
		m.started = time.Now()
		m.status = sim.Running
		m.last = nil
		m.err = nil
		return m, m.runner.run(m.ctx, m.active, pk.plot)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(" " + cyan.Render("chaosplot"))
	if m.current != "" {
		b.WriteString(dim.Render("  " + m.current))
	}
	b.WriteString("\n")

	b.WriteString(frame.Render(strings.TrimRight(m.surface.View(), "\n")))
	b.WriteString("\n")

	b.WriteString(" " + m.statusLine() + "\n")

	var keys []string
	for _, pk := range plotKeys {
		keys = append(keys, pk.key+" "+pk.label)
	}
	keys = append(keys, "q quit")
	b.WriteString(dim.Render(" "+strings.Join(keys, "   ")) + "\n")

	return b.String()
}

func (m model) statusLine() string {
	st := statusStyle(m.status)
	line := st.Render(statusIcon(m.status) + " " + m.status.String())

	if m.err != nil {
		return line + "  " + red.Render(m.err.Error())
	}
	if m.current == "" {
		return line + "  " + dim.Render("pick a plot")
	}

	done := int(m.runner.progress.Load())
	elapsed := time.Since(m.started)
	if m.last != nil {
		done = m.last.Iterations
		elapsed = m.last.Elapsed
	}

	barWidth := m.width - 48
	if barWidth > 40 {
		barWidth = 40
	}
	line += "  " + progressBar(done, m.planned, barWidth)
	line += "  " + white.Render(humanize.Comma(int64(done))) + dim.Render("/"+humanize.Comma(int64(m.planned)))
	line += "  " + dim.Render(elapsed.Truncate(time.Millisecond).String())

	if m.last != nil && m.last.Err != nil {
		line += "  " + red.Render(m.last.Err.Error())
	}
	return line
}

// Run starts the terminal front end and blocks until the user quits.
func Run(ctx context.Context, opts ...experiment.LauncherOption) error {
	surface := NewCanvasSurface(defaultCols, defaultRows)
	r := &runner{}

	opts = append([]experiment.LauncherOption{
		experiment.WithSurfaceName("tui"),
		experiment.WithObserver(r),
	}, opts...)
	r.launcher = experiment.NewLauncher(surface, task.NewToken(), opts...)

	p := tea.NewProgram(newModel(ctx, surface, r), tea.WithAltScreen(), tea.WithContext(ctx))
	surface.Attach(p.Send)

	_, err := p.Run()
	surface.Close()
	r.launcher.Token().Clear()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
