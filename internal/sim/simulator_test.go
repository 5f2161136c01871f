package sim_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaosplot/internal/dynamo"
	"github.com/san-kum/chaosplot/internal/physics"
	"github.com/san-kum/chaosplot/internal/sim"
	"github.com/san-kum/chaosplot/internal/task"
	"github.com/san-kum/chaosplot/internal/viz"
)

func ac7Plot() sim.Plot {
	return sim.Plot{
		Name:          "ac7",
		System:        physics.NewAC7(),
		Init:          dynamo.State{0, 0, 0.5, 0.5},
		Graph:         viz.FitGraph(0.94, 2.48, 1.38, 2.77, 800, 800),
		Palette:       viz.StdPalette(),
		Step:          0.05,
		Iterations:    14801,
		FlushInterval: sim.DefaultFlushInterval,
		Traces:        []sim.Trace{{X: physics.AC7X, Y: physics.AC7Y}},
	}
}

func rabbitPlot() sim.Plot {
	rf := physics.NewRabbitFoxes()
	return sim.Plot{
		Name:          "rabbit_foxes",
		System:        rf,
		Init:          rf.DefaultState(),
		Graph:         viz.FitGraph(4.23, 9.07, 8.28, 12.39, 800, 800),
		Palette:       viz.StdPalette(),
		Step:          0.05,
		Iterations:    2000,
		FlushInterval: sim.DefaultFlushInterval,
		Traces:        []sim.Trace{{X: 0, Y: 1}},
	}
}

var _ = Describe("Simulator", func() {
	var (
		surface *recordingSurface
		token   *task.Token
		s       *sim.Simulator
		ctx     context.Context
	)

	BeforeEach(func() {
		surface = &recordingSurface{}
		token = task.NewToken()
		s = sim.New(surface, token)
		ctx = context.Background()
	})

	Describe("a full AC7 run", func() {
		It("draws one segment per iteration and pumps every flush interval", func() {
			id := token.Begin()
			res, err := s.Run(ctx, id, ac7Plot())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Completed))
			Expect(res.ID).To(Equal(id))
			Expect(res.Iterations).To(Equal(14801))
			Expect(res.Segments).To(Equal(14801))
			Expect(surface.draws()).To(Equal(14801))
			Expect(surface.pumps).To(BeNumerically(">=", 30))
			Expect(res.Pumps).To(Equal(surface.pumps))
			Expect(res.Err).To(BeNil())
		})

		It("colors segments by iteration", func() {
			p := ac7Plot()
			p.Iterations = 300
			_, err := s.Run(ctx, token.Begin(), p)

			Expect(err).NotTo(HaveOccurred())
			Expect(surface.segments[0].color).To(Equal("#00bf7f"))
			Expect(surface.segments[256].color).To(Equal("#bf7f00"))
		})

		It("chains segments end to start", func() {
			p := ac7Plot()
			p.Iterations = 50
			_, err := s.Run(ctx, token.Begin(), p)

			Expect(err).NotTo(HaveOccurred())
			x0, y0 := p.Graph.Map(0.5, 0.5)
			Expect(surface.segments[0].x0).To(Equal(x0))
			Expect(surface.segments[0].y0).To(Equal(y0))
			for i := 1; i < len(surface.segments); i++ {
				Expect(surface.segments[i].x0).To(Equal(surface.segments[i-1].x1))
				Expect(surface.segments[i].y0).To(Equal(surface.segments[i-1].y1))
			}
		})
	})

	Describe("cooperative cancellation", func() {
		It("stops within one iteration of the token changing", func() {
			id := token.Begin()
			surface.onDraw = func(n int) {
				if n == 100 {
					token.Begin()
				}
			}

			res, err := s.Run(ctx, id, ac7Plot())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Cancelled))
			Expect(res.Iterations).To(Equal(100))
			Expect(surface.draws()).To(Equal(100))
			Expect(res.Err).To(BeNil())
		})

		It("observes a token update from another goroutine", func() {
			reached := make(chan struct{})
			release := make(chan struct{})
			surface.onDraw = func(n int) {
				if n == 50 {
					close(reached)
					<-release
				}
			}

			idA := token.Begin()
			done := make(chan *sim.Result, 1)
			go func() {
				defer GinkgoRecover()
				res, err := s.Run(ctx, idA, ac7Plot())
				Expect(err).NotTo(HaveOccurred())
				done <- res
			}()

			Eventually(reached).Should(BeClosed())
			idB := token.Begin()
			Expect(token.IsActive(idB)).To(BeTrue())
			close(release)

			var res *sim.Result
			Eventually(done).Should(Receive(&res))
			Expect(res.Status).To(Equal(sim.Cancelled))
			Expect(surface.draws()).To(Equal(50))
		})

		It("never starts a run whose id is not active", func() {
			token.Begin()
			res, err := s.Run(ctx, uuid.New(), ac7Plot())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Cancelled))
			Expect(res.Iterations).To(BeZero())
			Expect(surface.draws()).To(BeZero())
			Expect(surface.pumps).To(Equal(1))
		})

		It("treats a cancelled context like a stale token", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			res, err := s.Run(cctx, token.Begin(), ac7Plot())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Cancelled))
			Expect(surface.draws()).To(BeZero())
		})
	})

	Describe("surface loss", func() {
		It("stops after the first failed draw", func() {
			surface.failDraw = true

			var res *sim.Result
			Expect(func() {
				var err error
				res, err = s.Run(ctx, token.Begin(), ac7Plot())
				Expect(err).NotTo(HaveOccurred())
			}).NotTo(Panic())

			Expect(res.Status).To(Equal(sim.SurfaceLost))
			Expect(surface.attempts).To(Equal(1))
			Expect(res.Segments).To(BeZero())
			Expect(res.Iterations).To(BeZero())
			Expect(errors.Is(res.Err, sim.ErrSurfaceClosed)).To(BeTrue())
		})

		It("stops when a pump fails", func() {
			surface.failPump = true

			res, err := s.Run(ctx, token.Begin(), ac7Plot())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.SurfaceLost))
			Expect(surface.draws()).To(Equal(1))
			Expect(res.Pumps).To(BeZero())
		})
	})

	Describe("numeric degeneracy", func() {
		It("ends the run as diverged without drawing the bad segment", func() {
			p := rabbitPlot()
			p.Init[2], p.Init[3] = p.Init[0], p.Init[1]

			res, err := s.Run(ctx, token.Begin(), p)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Diverged))
			Expect(surface.draws()).To(BeZero())
			Expect(errors.Is(res.Err, dynamo.ErrInvalidState)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(res.Err, &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(0))
		})

		It("runs the base rabbit and foxes configuration", func() {
			res, err := s.Run(ctx, token.Begin(), rabbitPlot())

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Status).To(Equal(sim.Completed))
			Expect(surface.draws()).To(Equal(2000))
		})
	})

	Describe("multiple traces", func() {
		It("draws every trace each iteration with the same color", func() {
			p := rabbitPlot()
			p.Iterations = 10
			p.Traces = []sim.Trace{{X: 0, Y: 1}, {X: 2, Y: 3}, {X: 4, Y: 5}}

			res, err := s.Run(ctx, token.Begin(), p)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Iterations).To(Equal(10))
			Expect(res.Segments).To(Equal(30))
			Expect(surface.segments[0].color).To(Equal(surface.segments[2].color))
		})
	})

	Describe("observers", func() {
		It("sees every completed iteration", func() {
			p := ac7Plot()
			p.Iterations = 25
			var seen []int
			s.AddObserver(sim.ObserverFunc(func(i int, x dynamo.State) {
				seen = append(seen, i)
			}))

			_, err := s.Run(ctx, token.Begin(), p)

			Expect(err).NotTo(HaveOccurred())
			Expect(seen).To(HaveLen(25))
			Expect(seen[24]).To(Equal(24))
		})
	})

	DescribeTable("invalid plots",
		func(mutate func(p *sim.Plot)) {
			p := ac7Plot()
			mutate(&p)
			res, err := s.Run(ctx, token.Begin(), p)

			Expect(err).To(HaveOccurred())
			Expect(res).To(BeNil())
			Expect(surface.pumps).To(BeZero())
		},
		Entry("zero step", func(p *sim.Plot) { p.Step = 0 }),
		Entry("no iterations", func(p *sim.Plot) { p.Iterations = 0 }),
		Entry("zero flush interval", func(p *sim.Plot) { p.FlushInterval = 0 }),
		Entry("wrong dimension", func(p *sim.Plot) { p.Init = dynamo.State{1, 2} }),
		Entry("trace out of range", func(p *sim.Plot) { p.Traces = []sim.Trace{{X: 0, Y: 9}} }),
		Entry("no palette", func(p *sim.Plot) { p.Palette = nil }),
		Entry("non-finite start", func(p *sim.Plot) { p.Init = dynamo.State{0, 0, 0.5, 1.0 / zero()} }),
	)

	DescribeTable("terminal statuses",
		func(st sim.Status, terminal bool) {
			Expect(st.Terminal()).To(Equal(terminal))
		},
		Entry("idle", sim.Idle, false),
		Entry("running", sim.Running, false),
		Entry("completed", sim.Completed, true),
		Entry("cancelled", sim.Cancelled, true),
		Entry("surface lost", sim.SurfaceLost, true),
		Entry("diverged", sim.Diverged, true),
	)
})

func zero() float64 { return 0 }
