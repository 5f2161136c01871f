package experiment_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaosplot/internal/config"
	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/experiment"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/storage"
	"github.com/san-kum/chaosplot/internal/task"
)

type point struct{ x, y int }

type fakeSurface struct {
	mu     sync.Mutex
	width  int
	height int
	starts []point
	clears int
}

func (f *fakeSurface) DrawSegment(x0, y0, x1, y1 int, color string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, point{x0, y0})
	return nil
}

func (f *fakeSurface) Pump() error { return nil }

func (f *fakeSurface) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.starts = nil
	return nil
}

func (f *fakeSurface) Size() (int, int) { return f.width, f.height }

type memRecorder struct {
	runs []storage.Run
	err  error
}

func (m *memRecorder) Save(r storage.Run) error {
	m.runs = append(m.runs, r)
	return m.err
}

func shortAC7() *config.Config {
	cfg := config.GetPreset("ac7")
	cfg.Iterations = 1000
	return cfg
}

var _ = Describe("Launcher", func() {
	var (
		surface  *fakeSurface
		recorder *memRecorder
		token    *task.Token
		ctx      context.Context
	)

	BeforeEach(func() {
		surface = &fakeSurface{width: 800, height: 800}
		recorder = &memRecorder{}
		token = task.NewToken()
		ctx = context.Background()
	})

	It("records a completed run", func() {
		l := experiment.NewLauncher(surface, token,
			experiment.WithPlot("ac7", shortAC7()),
			experiment.WithRecorder(recorder),
			experiment.WithSurfaceName("test"),
		)

		res, err := l.Start(ctx, "ac7")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Status).To(Equal(sim.Completed))
		Expect(res.Iterations).To(Equal(1000))
		Expect(surface.clears).To(Equal(1))
		Expect(surface.starts).To(HaveLen(1000))

		Expect(recorder.runs).To(HaveLen(1))
		run := recorder.runs[0]
		Expect(run.ID).To(Equal(res.ID.String()))
		Expect(run.Plot).To(Equal("ac7"))
		Expect(run.Model).To(Equal("ac7"))
		Expect(run.Surface).To(Equal("test"))
		Expect(run.Status).To(Equal("completed"))
		Expect(run.Planned).To(Equal(1000))
		Expect(run.Segments).To(Equal(1000))
		Expect(run.Cause).To(BeEmpty())
	})

	It("ends a superseded run as cancelled without clearing", func() {
		l := experiment.NewLauncher(surface, token,
			experiment.WithPlot("ac7", shortAC7()),
			experiment.WithRecorder(recorder),
		)

		stale := l.Begin()
		fresh := l.Begin()
		Expect(token.IsActive(fresh)).To(BeTrue())

		res, err := l.Run(ctx, stale, "ac7")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Status).To(Equal(sim.Cancelled))
		Expect(res.Iterations).To(BeZero())
		Expect(surface.clears).To(BeZero())
		Expect(recorder.runs).To(HaveLen(1))
		Expect(recorder.runs[0].Status).To(Equal("cancelled"))
	})

	It("uses the size reported by the surface", func() {
		surface.width, surface.height = 400, 200
		l := experiment.NewLauncher(surface, token, experiment.WithPlot("ac7", shortAC7()))

		_, err := l.Start(ctx, "ac7")
		Expect(err).NotTo(HaveOccurred())
		// (0.5 + 0.94) * 400/2.48 and (0.5 + 1.38) * 200/2.77
		Expect(surface.starts[0]).To(Equal(point{232, 135}))
	})

	It("falls back to presets and rejects unknown plots", func() {
		l := experiment.NewLauncher(surface, token)

		cfg, err := l.Config("rabbit_foxes_all")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Traces).To(HaveLen(3))

		_, err = l.Start(ctx, "lorenz")
		Expect(err).To(MatchError(ContainSubstring("unknown plot")))
		Expect(recorder.runs).To(BeEmpty())
	})

	It("returns copies of overridden configs", func() {
		l := experiment.NewLauncher(surface, token, experiment.WithPlot("mine", shortAC7()))

		a, err := l.Config("mine")
		Expect(err).NotTo(HaveOccurred())
		a.Iterations = 1
		b, _ := l.Config("mine")
		Expect(b.Iterations).To(Equal(1000))
	})

	It("records the cause of a diverged run", func() {
		cfg := config.GetPreset("rabbit_foxes")
		cfg.Iterations = 10
		cfg.InitState = []float64{1, 1, 1, 1, 0, 2, 0, 0, 0, 0, 0, 0}
		l := experiment.NewLauncher(surface, token,
			experiment.WithPlot("clash", cfg),
			experiment.WithRecorder(recorder),
		)

		res, err := l.Start(ctx, "clash")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Status).To(Equal(sim.Diverged))
		Expect(errors.Is(res.Err, dynamo.ErrInvalidState)).To(BeTrue())
		Expect(recorder.runs[0].Status).To(Equal("diverged"))
		Expect(recorder.runs[0].Cause).NotTo(BeEmpty())
	})

	It("keeps the result when recording fails", func() {
		recorder.err = errors.New("disk full")
		l := experiment.NewLauncher(surface, token,
			experiment.WithPlot("ac7", shortAC7()),
			experiment.WithRecorder(recorder),
		)

		res, err := l.Start(ctx, "ac7")
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Status).To(Equal(sim.Completed))
	})

	It("passes steps to observers", func() {
		var steps int
		l := experiment.NewLauncher(surface, token,
			experiment.WithPlot("ac7", shortAC7()),
			experiment.WithObserver(sim.ObserverFunc(func(int, dynamo.State) { steps++ })),
		)

		_, err := l.Start(ctx, "ac7")
		Expect(err).NotTo(HaveOccurred())
		Expect(steps).To(Equal(1000))
	})
})
