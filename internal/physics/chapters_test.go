package physics_test

import (
	"context"
	"io"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/astropc/internal/dynamo"
	"github.com/san-kum/astropc/internal/physics"
	"github.com/san-kum/astropc/internal/report"
)

func run(ch physics.Chapter, maxSteps int, values ...float64) *report.Recorder {
	GinkgoHelper()
	rec := &report.Recorder{}
	err := ch.Run(context.Background(), physics.Input{Values: values, MaxSteps: maxSteps}, rec.Emitter())
	Expect(err).NotTo(HaveOccurred())
	return rec
}

// pauseLog answers every pause the same way and records how many rows
// had been printed when it was asked.
type pauseLog struct {
	answer string
	rows   int
	at     []int
}

func (p *pauseLog) Ask(string) (string, error) {
	p.at = append(p.at, p.rows)
	return p.answer, nil
}

func runPaused(ch physics.Chapter, maxSteps int, answer string, values ...float64) (*pauseLog, *report.Recorder) {
	GinkgoHelper()
	log := &pauseLog{answer: answer}
	rec := &report.Recorder{}
	console := report.NewConsole(io.Discard, log)
	counter := func(ev report.Event) bool {
		if ev.Kind == report.KindRow {
			log.rows++
		}
		return true
	}
	err := ch.Run(context.Background(), physics.Input{Values: values, MaxSteps: maxSteps}, report.Tee(counter, rec.Emitter(), console.Emitter()))
	Expect(err).NotTo(HaveOccurred())
	return log, rec
}

func lastNote(rec *report.Recorder) string {
	if len(rec.Notes) == 0 {
		return ""
	}
	return rec.Notes[len(rec.Notes)-1]
}

var _ = Describe("Chapter registry", func() {
	It("lists twelve chapters with unique names", func() {
		seen := map[string]bool{}
		for _, ch := range physics.All() {
			Expect(seen).NotTo(HaveKey(ch.Name()))
			seen[ch.Name()] = true
			Expect(ch.Title()).NotTo(BeEmpty())
			Expect(ch.Params()).NotTo(BeEmpty())
		}
		Expect(seen).To(HaveLen(12))
	})

	It("rejects the wrong number of values", func() {
		err := physics.Polytrope{}.Run(context.Background(), physics.Input{Values: []float64{1.5}}, report.Discard)
		Expect(err).To(MatchError(physics.ErrBadInput))
	})

	It("rejects non-finite values", func() {
		err := physics.Universe{}.Run(context.Background(), physics.Input{Values: []float64{math.NaN(), 0.3}}, report.Discard)
		Expect(err).To(MatchError(physics.ErrBadInput))
	})
})

var _ = Describe("Comet", func() {
	It("emits nine positions with three syndynames of nine points each", func() {
		rec := run(physics.Comet{}, 0, 0.5, 0.95, 1, 0.03)
		Expect(rec.Tables).To(HaveLen(27))
		Expect(rec.Rows()).To(Equal(243))
		Expect(rec.Breaks).To(HaveLen(9))
	})

	It("places the nucleus on the x axis at perihelion", func() {
		p := physics.CometParams{Perihelion: 0.5, Eccentricity: 0.95, Mu: 1, Outflow: 0.03}
		pos := p.Position(0)
		Expect(pos.Index).To(Equal(5))
		Expect(pos.X).To(BeNumerically("~", pos.R, 1e-15))
		Expect(pos.Y).To(BeZero())
		Expect(pos.R).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("ignores the outflow parameter for G = 0", func() {
		a := physics.CometParams{Perihelion: 0.5, Eccentricity: 0.95, Mu: 1, Outflow: 0.03}
		b := a
		b.Outflow = 5
		pos := a.Position(2)
		Expect(a.Syndyname(pos, 0)).To(Equal(b.Syndyname(pos, 0)))
	})

	It("stops when the consumer declines", func() {
		rows := 0
		err := physics.Comet{}.Run(context.Background(), physics.Input{Values: []float64{0.5, 0.95, 1, 0.03}}, func(ev report.Event) bool {
			if ev.Kind == report.KindRow {
				rows++
				return rows < 4
			}
			return true
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal(4))
	})
})

var _ = Describe("Meteor", func() {
	It("descends while losing mass", func() {
		rec := run(physics.Meteor{}, 0, 160, 20, 40, 0.01, 1, 1.1e-11, 0.02)
		Expect(rec.Tables).To(HaveLen(1))
		t := rec.Tables[0]
		Expect(len(t.Rows)).To(BeNumerically(">", 5))
		Expect(t.Rows[0][1]).To(BeNumerically("~", 0.1, 1e-12))

		heights, masses := t.Column("y"), t.Column("m")
		for i := 1; i < len(masses); i++ {
			Expect(masses[i]).To(BeNumerically("<", masses[i-1]))
			Expect(heights[i]).To(BeNumerically("<", heights[i-1]))
		}
		Expect(rec.Notes).NotTo(BeEmpty())
	})

	It("uses the mass step table", func() {
		steps := physics.MeteorSteps(2)
		Expect(steps.For(2)).To(Equal(0.1))
		Expect(steps.For(1.2)).To(Equal(0.05))
		Expect(steps.For(0.6)).To(Equal(0.01))
	})

	DescribeTable("puts a mass exactly on a bound into the finer bracket",
		func(m0 float64) {
			steps := physics.MeteorSteps(m0)
			at := func(m float64) float64 {
				return steps.Next(dynamo.State{0, 0, 0, 0, m}, 0, 0.1)
			}
			Expect(at(0.8 * m0)).To(Equal(0.05))
			Expect(at(0.5 * m0)).To(Equal(0.02))
			Expect(at(0.35 * m0)).To(Equal(0.01))
			Expect(at(math.Nextafter(0.8*m0, math.Inf(1)))).To(Equal(0.1))
			Expect(at(math.Nextafter(0.5*m0, math.Inf(1)))).To(Equal(0.05))
			Expect(at(math.Nextafter(0.35*m0, math.Inf(1)))).To(Equal(0.02))
		},
		Entry("m0 = 0.01", 0.01),
		Entry("m0 = 0.1", 0.1),
		Entry("m0 = 3", 3.0),
	)

	It("reports the ground when the meteoroid survives", func() {
		rec := run(physics.Meteor{}, 0, 2, 0, 1, 1000, 1e-6, 1e-20, 0.02)
		Expect(lastNote(rec)).To(Equal("Meteoroid has reached the ground"))
	})
})

var _ = Describe("Polytrope", func() {
	surface := func(rec *report.Recorder) string {
		for _, n := range rec.Notes {
			if strings.HasPrefix(n, "Surface x") {
				return n
			}
		}
		return ""
	}

	It("starts at the centre", func() {
		rec := run(physics.Polytrope{}, 0, 1.5, 0.05, 2, 3)
		first := rec.Tables[0].Rows[0]
		Expect(first[1:4]).To(Equal([]float64{0, 1, 0}))
		Expect(surface(rec)).NotTo(BeEmpty())
	})

	DescribeTable("finds the analytic surface",
		func(n, want float64) {
			sys := &physics.LaneEmden{N: n}
			rec := &report.Recorder{}
			err := physics.Polytrope{}.Run(context.Background(), physics.Input{Values: []float64{n, 0.05, 1, 1}}, rec.Emitter())
			Expect(err).NotTo(HaveOccurred())

			rows := rec.Tables[0].Rows
			last := rows[len(rows)-1]
			xs, _ := sys.Surface(last[1], last[2], last[3])
			Expect(xs).To(BeNumerically("~", want, 0.01))
		},
		Entry("n = 0", 0.0, math.Sqrt(6)),
		Entry("n = 1", 1.0, math.Pi),
	)
})

var _ = Describe("Stellar model", func() {
	It("derives a convective core index from the centre", func() {
		c := physics.Centre(2)
		Expect(c.N).To(BeNumerically(">", 1.4))
		Expect(c.N).To(BeNumerically("<", 1.6))
		Expect(c.Fit).To(Equal(9.0))
		Expect(physics.Centre(15).Fit).To(Equal(2.0))
	})

	It("inverts the equation of state", func() {
		c := physics.Centre(2)
		t := physics.Temperature(0.618238, c.Pressure, c.Density)
		Expect(t).To(BeNumerically("~", c.Temperature, 1e-3*c.Temperature))
	})

	It("runs from the centre to the surface", func() {
		rec := run(physics.StellarModel{}, 0, 2)
		Expect(rec.Tables).NotTo(BeEmpty())
		first := rec.Tables[0].Rows[0]
		Expect(first[1]).To(BeZero())
		Expect(first[5]).To(BeZero())
		Expect(math.IsNaN(first[7])).To(BeTrue())
		Expect(rec.Breaks).NotTo(BeEmpty())
	})
})

var _ = Describe("Atmosphere", func() {
	It("pauses once after layer 15 and continues on any other answer", func() {
		log, rec := runPaused(physics.Atmosphere{}, 0, "c", 10000, 4, 1.048)
		Expect(log.at).To(Equal([]int{16}))
		Expect(log.rows).To(Equal(33))
		Expect(lastNote(rec)).To(Equal("Model complete."))
	})

	It("computes 33 layers", func() {
		rec := run(physics.Atmosphere{}, 0, 10000, 4, 1.048)
		t := rec.Tables[0]
		Expect(t.Rows).To(HaveLen(33))
		Expect(lastNote(rec)).To(Equal("Model complete."))

		tau, temp, depth := t.Column("tau"), t.Column("T"), t.Column("z(km)")
		Expect(tau[0]).To(BeZero())
		Expect(tau[1]).To(BeNumerically("~", 0.001, 1e-15))
		Expect(tau[2]).To(BeNumerically("~", 0.00125, 1e-15))
		for i := 1; i < len(tau); i++ {
			Expect(temp[i]).To(BeNumerically(">", temp[i-1]))
			Expect(depth[i]).To(BeNumerically(">", depth[i-1]))
		}
	})
})

var _ = Describe("White dwarf", func() {
	It("pauses after layer 10 and every ten layers after that", func() {
		log, rec := runPaused(physics.WhiteDwarf{}, 0, "c", 8, 80)
		Expect(log.at).NotTo(BeEmpty())
		Expect(log.at[0]).To(Equal(11))
		for i := 1; i < len(log.at); i++ {
			Expect(log.at[i] - log.at[i-1]).To(Equal(10))
		}
		Expect(lastNote(rec)).To(HavePrefix("Total mass"))
	})

	It("stops only on s", func() {
		log, _ := runPaused(physics.WhiteDwarf{}, 0, "S", 8, 80)
		Expect(log.at).To(HaveLen(1))
		Expect(log.rows).To(Equal(11))
	})

	It("starts with zero mass at zero radius", func() {
		rec := run(physics.WhiteDwarf{}, 0, 8, 80)
		first := rec.Tables[0].Rows[0]
		Expect(first[1]).To(BeZero())
		Expect(first[2]).To(BeZero())
	})

	It("builds a star below the Chandrasekhar mass", func() {
		rec := run(physics.WhiteDwarf{}, 0, 8, 80)
		masses := rec.Tables[0].Column("Mr/M0")
		for i := 1; i < len(masses); i++ {
			Expect(masses[i]).To(BeNumerically(">", masses[i-1]))
		}
		total := masses[len(masses)-1]
		Expect(total).To(BeNumerically(">", 0.9))
		Expect(total).To(BeNumerically("<", 1.44))
	})

	It("inverts the electron gas pressure", func() {
		sys := physics.NewWhiteDwarfSystem(1)
		x := 2.5
		_, got, err := sys.Density(6.01e22 * physics.ElectronGas(x))
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeNumerically("~", x, 1e-6))
	})
})

var _ = Describe("Galactic orbit", func() {
	It("is bounded by the step limit", func() {
		rec := run(physics.GalacticOrbit{}, 20, 10, 0, 0, 150, 180)
		t := rec.Tables[0]
		Expect(t.Rows).To(HaveLen(20))
		for _, r := range t.Column("r") {
			Expect(r).To(BeNumerically(">", 0))
		}
		Expect(lastNote(rec)).To(HavePrefix("Step limit"))
	})

	It("has no vertical force in the plane", func() {
		_, kz, err := physics.DefaultGalaxy().Forces(8, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(kz).To(BeZero())
	})
})

var _ = Describe("Three-body", func() {
	It("keeps the Jacobi constant", func() {
		sys := &physics.RestrictedThreeBody{Mu: 0.000953875}
		x0 := dynamo.State{-0.509046125, 0.883345912, 0.0258975212, 0.0149272418}
		rec := run(physics.ThreeBody{}, 100, sys.Mu, x0[0], x0[1], x0[2], x0[3], 0.001)

		rows := rec.Tables[0].Rows
		Expect(rows).To(HaveLen(100))
		last := rows[len(rows)-1]
		Expect(last[1]).To(BeNumerically("~", 0.1, 1e-12))
		c := sys.Jacobi(dynamo.State{last[2], last[3], last[4], last[5]})
		Expect(c).To(BeNumerically("~", sys.Jacobi(x0), 1e-5))
	})

	It("treats a collision as a domain stop", func() {
		_, err := (&physics.RestrictedThreeBody{Mu: 0.5}).Derive(dynamo.State{0.5, 0, 0, 0}, 0)
		Expect(err).To(MatchError(dynamo.ErrDomain))
	})
})

var _ = Describe("Equipotential", func() {
	It("stays on the starting potential", func() {
		rec := run(physics.Equipotential{}, 8, 0.4, 1.05, 0, 2, 0.05)
		t := rec.Tables[0]
		Expect(t.Rows).To(HaveLen(8))
		for _, r := range t.Column("V-K") {
			Expect(math.Abs(r)).To(BeNumerically("<", 1e-5))
		}
	})

	It("stops where the curve cannot be written as y(x)", func() {
		rec := run(physics.Equipotential{}, 8, 0.4, 1.05, 0, 1, 0.05)
		Expect(rec.Tables[0].Rows).To(BeEmpty())
		Expect(lastNote(rec)).To(HavePrefix("Curve stopped"))
	})

	It("carries the trace past the x-axis after switching to x(y)", func() {
		prompter := &report.Scripted{Answers: []string{"c -0.01", ""}}
		rec := &report.Recorder{}
		console := report.NewConsole(io.Discard, prompter)
		err := physics.Equipotential{}.Run(context.Background(),
			physics.Input{Values: []float64{0.4, 0.4, 0.1, 1, 0.005}, MaxSteps: 20},
			report.Tee(rec.Emitter(), console.Emitter()))
		Expect(err).NotTo(HaveOccurred())
		Expect(prompter.Asked).To(HaveLen(2))
		Expect(rec.Notes).To(ContainElement("Tracing x(y) with step -0.01"))

		t := rec.Tables[0]
		Expect(t.Rows).To(HaveLen(20))
		ys := t.Column("y")
		Expect(ys[9]).To(BeNumerically(">", 0.08))
		Expect(ys[19]).To(BeNumerically("<", 0))
		Expect(ys[10] - ys[9]).To(BeNumerically("~", -0.01, 1e-12))
		for _, d := range t.Column("V-K") {
			Expect(math.Abs(d)).To(BeNumerically("<", 1e-4))
		}
	})

	It("keeps the step when switching without one", func() {
		prompter := &report.Scripted{Answers: []string{"c"}}
		rec := &report.Recorder{}
		console := report.NewConsole(io.Discard, prompter)
		err := physics.Equipotential{}.Run(context.Background(),
			physics.Input{Values: []float64{0.4, 0.4, 0.1, 1, 0.005}, MaxSteps: 11},
			report.Tee(rec.Emitter(), console.Emitter()))
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Notes).To(ContainElement("Tracing x(y) with step 0.005"))
		ys := rec.Tables[0].Column("y")
		Expect(ys[10] - ys[9]).To(BeNumerically("~", 0.005, 1e-12))
	})

	It("rejects an unknown direction", func() {
		err := physics.Equipotential{}.Run(context.Background(), physics.Input{Values: []float64{0.4, 1.05, 0, 3, 0.05}}, report.Discard)
		Expect(err).To(MatchError(physics.ErrBadInput))
	})
})

var _ = Describe("Parallax", func() {
	It("converges for alpha Centauri", func() {
		b := physics.Binary{Period: 78.8, Separation: 17.6, Mv1: 0.3, Mv2: 1.7, Bc1: 0.06, Bc2: 0.3}
		last, ok := b.Solve(nil)
		Expect(ok).To(BeTrue())
		Expect(last.Distance).To(BeNumerically(">", 4))
		Expect(last.Distance).To(BeNumerically("<", 4.6))
	})

	It("reports the final masses", func() {
		rec := run(physics.Parallax{}, 0, 78.8, 17.6, 0.3, 1.7, 0.06, 0.3)
		Expect(rec.Rows()).To(BeNumerically("<=", 15))
		Expect(lastNote(rec)).To(HavePrefix("Distance in light years"))
	})
})

var _ = Describe("Star formation", func() {
	It("pauses after blocks of nineteen steps", func() {
		log, _ := runPaused(physics.StarFormation{}, 60, "c", 0.15, 0.1, 1, 10, 2.5)
		Expect(log.at).To(Equal([]int{20, 39, 58}))
		Expect(log.rows).To(Equal(61))
	})

	It("stops at the first pause on s", func() {
		log, _ := runPaused(physics.StarFormation{}, 60, "s", 0.15, 0.1, 1, 10, 2.5)
		Expect(log.rows).To(Equal(20))
	})

	It("keeps the fractions summing to one", func() {
		rec := run(physics.StarFormation{}, 50, 0.15, 0.1, 1, 10, 2.5)
		t := rec.Tables[0]
		Expect(t.Rows).To(HaveLen(51))
		Expect(t.Rows[0][:4]).To(Equal([]float64{0, 0, 0.1, 0.15}))
		Expect(t.Rows[0][4]).To(BeNumerically("~", 0.75, 1e-12))
		for _, r := range t.Rows {
			Expect(r[2] + r[3] + r[4]).To(BeNumerically("~", 1, 1e-12))
		}
	})
})

var _ = Describe("Universe", func() {
	It("reaches the Big Bang in the past and expands in the future", func() {
		rec := run(physics.Universe{}, 200, 0.35, 0.35)
		Expect(rec.Tables).To(HaveLen(2))
		Expect(rec.Breaks).To(ContainElement("Model starts from Big Bang"))

		past := rec.Tables[0].Column("y")
		for _, y := range past {
			Expect(y).To(BeNumerically(">", 0))
		}
		future := rec.Tables[1].Column("y")
		Expect(future).To(HaveLen(201))
		Expect(future[200]).To(BeNumerically(">", future[0]))
	})

	It("moves on to the future when the past is declined", func() {
		tables := 0
		err := physics.Universe{}.Run(context.Background(), physics.Input{Values: []float64{0.35, 0.35}, MaxSteps: 10}, func(ev report.Event) bool {
			if ev.Kind == report.KindTable {
				tables++
				return true
			}
			return tables > 1
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(tables).To(Equal(2))
	})
})
