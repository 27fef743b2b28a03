package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/sophialilleengen/mwlmc/internal/config"
	"github.com/sophialilleengen/mwlmc/internal/field"
	"github.com/sophialilleengen/mwlmc/internal/mkdata"
	"github.com/sophialilleengen/mwlmc/internal/model"
	"github.com/sophialilleengen/mwlmc/internal/render"
	"github.com/sophialilleengen/mwlmc/internal/units"
)

// buildDemoModel generates a fresh dataset and assembles a model from
// it, returning the handle and the data directory.
func buildDemoModel() (*model.MWLMC, string) {
	dir := GinkgoT().TempDir()
	Expect(mkdata.Generate(dir, mkdata.DefaultParams(), zerolog.Nop())).To(Succeed())

	cfg, err := config.LoadDir(dir)
	Expect(err).NotTo(HaveOccurred())

	mw, err := model.New(cfg.ModelConfig(dir))
	Expect(err).NotTo(HaveOccurred())
	return mw, dir
}

var _ = Describe("demo sequence", func() {
	var (
		mw  *model.MWLMC
		png string
		out bytes.Buffer
	)

	BeforeEach(func() {
		var dir string
		mw, dir = buildDemoModel()
		png = filepath.Join(dir, "orbittest.png")
		out.Reset()
		Expect(demoSequence(context.Background(), mw, &out, png)).To(Succeed())
	})

	It("writes the trajectory image", func() {
		data, err := os.ReadFile(png)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(data)).To(BeNumerically(">", 8))
		Expect(data[:8]).To(Equal([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}))
	})

	It("reports one field line per component", func() {
		line := regexp.MustCompile(`^(disc|halo|lmc): \S+ \S+ \S+ \S+ \S+$`)
		var matched []string
		for _, l := range strings.Split(out.String(), "\n") {
			if line.MatchString(l) {
				matched = append(matched, strings.SplitN(l, ":", 2)[0])
			}
		}
		Expect(matched).To(Equal([]string{"disc", "halo", "lmc"}))
	})

	It("prints expansion centres in both unit conventions", func() {
		text := out.String()
		Expect(text).To(ContainSubstring("centres (virial):"))
		Expect(text).To(ContainSubstring("centres (physical):"))
	})
})

var _ = Describe("model queries", func() {
	var mw *model.MWLMC

	BeforeEach(func() {
		mw, _ = buildDemoModel()
	})

	It("produces equal-length axis series for a valid orbit", func() {
		tr, err := mw.Orbit(context.Background(),
			r3.Vec{X: -8.27}, r3.Vec{Y: 240},
			model.Options{TBegin: -0.5, TEnd: 0, Dt: 0.002})
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(BeNumerically(">", 0))
		Expect(tr.Axis(0)).To(HaveLen(tr.Len()))
		Expect(tr.Axis(1)).To(HaveLen(tr.Len()))
	})

	It("answers repeated field queries identically", func() {
		pos := r3.Vec{X: -8.27, Z: 0.021}
		first, err := mw.Fields(field.Disc, 0, pos)
		Expect(err).NotTo(HaveOccurred())
		second, err := mw.Fields(field.Disc, 0, pos)
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})

	It("returns one centre per component in both conventions", func() {
		vir, err := mw.ExpansionCentres(0, units.Virial)
		Expect(err).NotTo(HaveOccurred())
		phys, err := mw.ExpansionCentres(0, units.Physical)
		Expect(err).NotTo(HaveOccurred())

		Expect(vir).To(HaveLen(len(mw.Components())))
		Expect(phys).To(HaveLen(len(vir)))

		sc := mw.Scaling()
		for i := range vir {
			Expect(phys[i].X).To(BeNumerically("~", vir[i].X*sc.Rvir, 1e-9))
			Expect(phys[i].Y).To(BeNumerically("~", vir[i].Y*sc.Rvir, 1e-9))
			Expect(phys[i].Z).To(BeNumerically("~", vir[i].Z*sc.Rvir, 1e-9))
		}
	})

	It("refuses to render an empty trajectory", func() {
		path := filepath.Join(GinkgoT().TempDir(), "empty.png")
		Expect(render.Orbit(&model.Trajectory{}, path)).To(MatchError(render.ErrEmptyTrajectory))

		_, statErr := os.Stat(path)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})
})

var _ = Describe("report lines", func() {
	It("prints stub samples verbatim", func() {
		s := field.Sample{Force: r3.Vec{X: 1, Y: 2, Z: 3}, Density: 4, Potential: 5}
		Expect(reportLine("disc", s)).To(Equal("disc: 1 2 3 4 5"))
	})
})
