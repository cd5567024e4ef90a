package sandbox_test

import (
	"github.com/jakecoffman/cp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/sandbox/internal/circuit"
	"github.com/san-kum/sandbox/internal/config"
	"github.com/san-kum/sandbox/internal/material"
	"github.com/san-kum/sandbox/internal/metrics"
	"github.com/san-kum/sandbox/internal/sandbox"
	"github.com/san-kum/sandbox/internal/thermal"
)

const dt = 1.0 / 60

func newController(mode string) *sandbox.Controller {
	cfg := config.DefaultConfig()
	cfg.Mode = mode
	materials := material.Default()
	state, err := sandbox.NewSession(cfg, materials)
	Expect(err).NotTo(HaveOccurred())
	c, err := sandbox.NewController(state, sandbox.NewRegistry(materials))
	Expect(err).NotTo(HaveOccurred())
	return c
}

func click(c *sandbox.Controller, x, y float64) error {
	return c.Handle(sandbox.PointerDown{Pos: cp.Vector{X: x, Y: y}, Button: sandbox.MousePrimary})
}

var _ = Describe("Controller", func() {
	var c *sandbox.Controller

	BeforeEach(func() {
		c = newController("mechanics")
	})

	Describe("mode switching", func() {
		It("resets only the mode being entered", func() {
			Expect(c.Invoke("add_circle")).To(Succeed())
			Expect(c.State().Mechanics.Objects()).To(HaveLen(1))

			Expect(c.Handle(sandbox.KeyDown{Key: '2'})).To(Succeed())
			Expect(c.State().Mode).To(Equal(sandbox.Electricity))
			Expect(c.Invoke("add_battery")).To(Succeed())
			Expect(c.State().Mechanics.Objects()).To(HaveLen(1))

			Expect(c.Handle(sandbox.KeyDown{Key: '1'})).To(Succeed())
			Expect(c.State().Mechanics.Objects()).To(BeEmpty())
			Expect(c.State().Circuit.Components()).To(HaveLen(1))
		})

		It("switches through the mode buttons", func() {
			Expect(click(c, 25, 125)).To(Succeed())
			Expect(c.State().Mode).To(Equal(sandbox.Fluid))
			Expect(c.Frame().Mode).To(Equal(sandbox.Fluid))
		})

		It("resets the active mode on R", func() {
			Expect(c.Invoke("add_box")).To(Succeed())
			Expect(c.Handle(sandbox.KeyDown{Key: 'r'})).To(Succeed())
			Expect(c.State().Mechanics.Objects()).To(BeEmpty())
		})

		It("quits on escape", func() {
			Expect(c.Handle(sandbox.KeyDown{Key: sandbox.KeyEscape})).To(MatchError(sandbox.ErrQuit))
		})
	})

	Describe("buttons", func() {
		It("selects materials in any mode", func() {
			Expect(c.Handle(sandbox.KeyDown{Key: '4'})).To(Succeed())
			Expect(click(c, 25, 295)).To(Succeed())
			Expect(c.State().Material).To(Equal(material.Metal))
		})

		It("only fires action buttons of the active mode", func() {
			Expect(c.Handle(sandbox.KeyDown{Key: '2'})).To(Succeed())
			Expect(click(c, 25, 455)).To(Succeed())
			Expect(c.State().Circuit.Components()).To(HaveLen(1))
			Expect(c.State().Circuit.Components()[0].Type).To(Equal(circuit.Battery))
			Expect(c.State().Mechanics.Objects()).To(BeEmpty())
		})

		It("builds bodies from the selected material", func() {
			Expect(c.Invoke("material_rubber")).To(Succeed())
			Expect(click(c, 25, 505)).To(Succeed())
			objects := c.State().Mechanics.Objects()
			Expect(objects).To(HaveLen(1))
			Expect(objects[0].Material).To(Equal(material.Rubber))
		})

		It("lists only active controls in the frame", func() {
			f := c.Frame()
			Expect(f.Buttons).To(HaveLen(12))
			Expect(f.Sliders).To(HaveLen(2))
			Expect(f.Sliders[0].Label).To(Equal("Gravity"))
			Expect(f.Sliders[0].Value).To(Equal(981.0))
		})
	})

	Describe("sliders", func() {
		BeforeEach(func() {
			Expect(c.Handle(sandbox.KeyDown{Key: '2'})).To(Succeed())
		})

		It("maps pointer x linearly onto the range", func() {
			Expect(click(c, 265, 25)).To(Succeed())
			Expect(c.State().Circuit.GetParams()["voltage"]).To(BeNumerically("~", 12, 1e-9))

			Expect(click(c, 190, 65)).To(Succeed())
			Expect(c.State().Circuit.GetParams()["resistance"]).To(Equal(10.0))
		})

		It("follows the pointer while held", func() {
			Expect(click(c, 190, 25)).To(Succeed())
			Expect(c.Handle(sandbox.PointerMove{Pos: cp.Vector{X: 302.5, Y: 30}, Held: true})).To(Succeed())
			Expect(c.State().Circuit.GetParams()["voltage"]).To(BeNumerically("~", 18, 1e-9))

			Expect(c.Handle(sandbox.PointerMove{Pos: cp.Vector{X: 190, Y: 30}, Held: false})).To(Succeed())
			Expect(c.State().Circuit.GetParams()["voltage"]).To(BeNumerically("~", 18, 1e-9))
		})

		It("clamps programmatic values", func() {
			Expect(c.SetParam("resistance", 5000)).To(Succeed())
			Expect(c.State().Circuit.GetParams()["resistance"]).To(Equal(1000.0))
			Expect(c.SetParam("gravity", 10)).NotTo(Succeed())
		})
	})

	Describe("electricity", func() {
		BeforeEach(func() {
			Expect(c.Handle(sandbox.KeyDown{Key: '2'})).To(Succeed())
		})

		It("reports 0.09 A for a 9 V battery and a 100 ohm resistor", func() {
			Expect(c.Invoke("add_battery")).To(Succeed())
			Expect(c.Invoke("add_resistor")).To(Succeed())
			Expect(c.Tick(dt)).To(Succeed())

			sol := c.State().Circuit.Solution()
			Expect(sol.Current).To(BeNumerically("~", 0.09, 1e-12))
			Expect(c.Frame().Metrics).To(HaveKeyWithValue(metrics.Voltage, 9.0))
			Expect(c.Frame().Metrics[metrics.Current]).To(BeNumerically("~", 0.09, 1e-12))
		})

		It("toggles a switch when it is clicked", func() {
			Expect(c.Invoke("add_switch")).To(Succeed())
			Expect(c.Invoke("add_battery")).To(Succeed())
			Expect(c.Invoke("add_resistor")).To(Succeed())

			Expect(click(c, 500, 350)).To(Succeed())
			Expect(c.State().Circuit.Solution().Open).To(BeTrue())
			Expect(c.State().Circuit.Solution().Current).To(Equal(0.0))
		})

		It("drags a component and wires it where it is dropped", func() {
			bat := c.State().Circuit.AddAt(circuit.Battery, cp.Vector{X: 600, Y: 500})
			Expect(c.Invoke("add_resistor")).To(Succeed())

			Expect(click(c, 500, 350)).To(Succeed())
			Expect(c.Handle(sandbox.PointerMove{Pos: cp.Vector{X: 645, Y: 500}, Held: true})).To(Succeed())
			Expect(c.Handle(sandbox.PointerUp{Pos: cp.Vector{X: 645, Y: 500}, Button: sandbox.MousePrimary})).To(Succeed())

			res := c.State().Circuit.Components()[1]
			Expect(res.Position).To(Equal(cp.Vector{X: 645, Y: 500}))
			Expect(bat.ConnectedTo(res.ID)).To(BeTrue())
		})
	})

	Describe("mechanics", func() {
		It("drags a picked body", func() {
			Expect(c.Invoke("add_circle")).To(Succeed())
			Expect(click(c, 500, 233)).To(Succeed())
			Expect(c.Handle(sandbox.PointerMove{Pos: cp.Vector{X: 600, Y: 300}, Held: true})).To(Succeed())

			o := c.State().Mechanics.Objects()[0]
			Expect(o.Position()).To(Equal(cp.Vector{X: 600, Y: 300}))
			Expect(o.Velocity()).To(Equal(cp.Vector{}))
		})

		It("holds a dragged body under a still pointer", func() {
			Expect(c.Invoke("add_circle")).To(Succeed())
			Expect(click(c, 500, 233)).To(Succeed())
			hold := cp.Vector{X: 600, Y: 300}
			Expect(c.Handle(sandbox.PointerMove{Pos: hold, Held: true})).To(Succeed())

			for range 30 {
				Expect(c.Tick(dt)).To(Succeed())
			}
			o := c.State().Mechanics.Objects()[0]
			Expect(o.Position()).To(Equal(hold))
			Expect(o.Velocity()).To(Equal(cp.Vector{}))

			Expect(c.Handle(sandbox.PointerUp{Pos: hold, Button: sandbox.MousePrimary})).To(Succeed())
			for range 30 {
				Expect(c.Tick(dt)).To(Succeed())
			}
			Expect(o.Position().Y).To(BeNumerically(">", hold.Y))
		})

		It("flings a body with the secondary button", func() {
			Expect(c.Invoke("add_circle")).To(Succeed())
			Expect(c.Handle(sandbox.PointerDown{Pos: cp.Vector{X: 500, Y: 233}, Button: sandbox.MouseSecondary})).To(Succeed())
			Expect(c.Handle(sandbox.PointerUp{Pos: cp.Vector{X: 600, Y: 233}, Button: sandbox.MouseSecondary})).To(Succeed())

			Expect(c.State().Mechanics.Objects()[0].Velocity().X).To(BeNumerically(">", 0))
		})

		It("records velocity while bodies fall", func() {
			Expect(c.Invoke("add_box")).To(Succeed())
			for range 10 {
				Expect(c.Tick(dt)).To(Succeed())
			}
			s, ok := c.Metrics().Series(metrics.Velocity)
			Expect(ok).To(BeTrue())
			Expect(s.Len()).To(Equal(10))
			Expect(s.Value()).To(BeNumerically(">", 0))
		})
	})

	Describe("fluid", func() {
		BeforeEach(func() {
			Expect(c.Handle(sandbox.KeyDown{Key: '3'})).To(Succeed())
		})

		It("emits five particles per click and pours while held", func() {
			Expect(click(c, 500, 300)).To(Succeed())
			Expect(c.State().Fluid.Particles()).To(HaveLen(5))

			Expect(c.Tick(0.5)).To(Succeed())
			Expect(c.State().Fluid.Particles()).To(HaveLen(5 + 5*5))

			Expect(c.Handle(sandbox.PointerUp{Pos: cp.Vector{X: 500, Y: 300}})).To(Succeed())
			Expect(c.Tick(0.5)).To(Succeed())
			Expect(c.State().Fluid.Particles()).To(HaveLen(30))
		})

		It("emits the selected fluid", func() {
			Expect(click(c, 25, 505)).To(Succeed())
			Expect(c.State().FluidMaterial).To(Equal(material.Oil))
			Expect(click(c, 500, 300)).To(Succeed())
			Expect(c.Frame().Particles[0].Color).To(Equal(material.Yellow))
		})
	})

	Describe("thermal", func() {
		BeforeEach(func() {
			Expect(c.Handle(sandbox.KeyDown{Key: '4'})).To(Succeed())
		})

		It("heats a source on click", func() {
			Expect(c.Invoke("add_heat_source")).To(Succeed())
			Expect(click(c, 505, 355)).To(Succeed())

			f := c.Frame()
			Expect(f.Heat).NotTo(BeNil())
			Expect(f.Heat.Sources).To(HaveLen(1))
			Expect(f.Heat.Sources[0].Temperature).To(Equal(thermal.HeatSourceTemperature + thermal.ClickHeat))
		})

		It("records the mean temperature", func() {
			Expect(c.Invoke("add_heat_source")).To(Succeed())
			Expect(c.Tick(dt)).To(Succeed())
			Expect(c.Frame().Metrics[metrics.Temperature]).To(BeNumerically(">", thermal.Ambient))
		})
	})
})
