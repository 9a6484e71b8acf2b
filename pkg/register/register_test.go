package register

import (
	"math"
	"strings"
	"testing"

	"github.com/skypies/util/histogram"

	"mriflow/pkg/fmath"
	"mriflow/pkg/series"
)

// blobGrid samples a wide Gaussian blob offset by (dx, dy), so two
// calls with different offsets make a frame pair with known motion.
func blobGrid(w, h int, sigma, dx, dy float64) fmath.Grid {
	g := fmath.NewGrid(w, h)
	cx := float64(w-1) / 2.0
	cy := float64(h-1) / 2.0
	for y:=0; y<h; y++ {
		for x:=0; x<w; x++ {
			rx := float64(x) + dx - cx
			ry := float64(y) + dy - cy
			g.Set(x, y, math.Exp(-(rx*rx + ry*ry)/(2.0*sigma*sigma)))
		}
	}
	return g
}

func testConfig(t *testing.T) Config {
	cfg := NewConfig()
	cfg.Levels = 2
	cfg.FlowViz = "none"
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func TestRegisterPairImproves(t *testing.T) {
	iref := blobGrid(64, 64, 10, 1.5, -1.0)
	icur := blobGrid(64, 64, 10, 0, 0)

	pr, err := RegisterPair(iref, icur, testConfig(t))
	if err != nil {
		t.Fatalf("RegisterPair: %v", err)
	}

	if pr.MADAfter >= pr.MADBefore {
		t.Errorf("registration didn't help: MAD %f -> %f", pr.MADBefore, pr.MADAfter)
	}
	u, v := pr.Field.MeanOver(8)
	if math.Abs(u-1.5) > 0.5 || math.Abs(v+1.0) > 0.5 {
		t.Errorf("mean flow (%f,%f), want about (1.5,-1.0)", u, v)
	}
}

func TestRegisterSeriesOrderDeterministic(t *testing.T) {
	s := series.Series{Name: "synthetic"}
	for i:=0; i<6; i++ {
		s.Frames = append(s.Frames, blobGrid(32, 32, 6, float64(i)*0.4, 0))
	}

	cfg := testConfig(t)
	cfg.ReferenceFrame = 2
	cfg.Workers = 4

	r, err := RegisterSeries(s, cfg)
	if err != nil {
		t.Fatalf("RegisterSeries: %v", err)
	}

	if len(r.Pairs) != 5 {
		t.Fatalf("got %d pairs, want 5", len(r.Pairs))
	}
	want := []int{0, 1, 3, 4, 5}
	for i, pr := range r.Pairs {
		if pr.Frame != want[i] {
			t.Errorf("pair %d is frame %d, want %d", i, pr.Frame, want[i])
		}
	}
	if r.Reference != 2 {
		t.Errorf("report reference %d, want 2", r.Reference)
	}
}

// A hand-built config that never went through Finalize (no workers, no
// normalizer) still registers, instead of spinning up zero workers and
// returning an empty report.
func TestRegisterSeriesUnfinalizedConfig(t *testing.T) {
	cfg := Config{
		Alpha:         0.05,
		Levels:        1,
		MaxIterations: 200,
		Tolerance:     1e-4,
	}

	s := series.Series{Name: "bare", Frames: []fmath.Grid{
		blobGrid(32, 32, 6, 1.0, 0),
		blobGrid(32, 32, 6, 0, 0),
	}}

	r, err := RegisterSeries(s, cfg)
	if err != nil {
		t.Fatalf("RegisterSeries: %v", err)
	}
	if len(r.Pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(r.Pairs))
	}
	if r.Pairs[0].MADAfter >= r.Pairs[0].MADBefore {
		t.Errorf("registration didn't help: MAD %f -> %f", r.Pairs[0].MADBefore, r.Pairs[0].MADAfter)
	}
}

func TestRegisterSeriesValidation(t *testing.T) {
	cfg := testConfig(t)

	one := series.Series{Name: "one", Frames: []fmath.Grid{blobGrid(16, 16, 4, 0, 0)}}
	if _, err := RegisterSeries(one, cfg); err == nil {
		t.Errorf("single-frame series should fail")
	}

	ragged := series.Series{Name: "ragged", Frames: []fmath.Grid{
		blobGrid(16, 16, 4, 0, 0), blobGrid(16, 24, 4, 0, 0),
	}}
	if _, err := RegisterSeries(ragged, cfg); err == nil {
		t.Errorf("ragged series should fail")
	}

	cfg.ReferenceFrame = 9
	two := series.Series{Name: "two", Frames: []fmath.Grid{
		blobGrid(16, 16, 4, 0, 0), blobGrid(16, 16, 4, 1, 0),
	}}
	if _, err := RegisterSeries(two, cfg); err == nil {
		t.Errorf("out-of-range reference frame should fail")
	}
}

func TestFinalizeStrategyNames(t *testing.T) {
	bad := []Config{}

	c := NewConfig(); c.Normalize = "zscore"; bad = append(bad, c)
	c = NewConfig();  c.FlowViz = "sparkles"; bad = append(bad, c)
	c = NewConfig();  c.Preview = "hable";    bad = append(bad, c)
	c = NewConfig();  c.Alpha = -1;           bad = append(bad, c)
	c = NewConfig();  c.Levels = 0;           bad = append(bad, c)
	c = NewConfig();  c.Tolerance = 0;        bad = append(bad, c)

	for i, cfg := range bad {
		if err := cfg.Finalize(); err == nil {
			t.Errorf("bad config %d should fail Finalize", i)
		}
	}

	good := NewConfig()
	good.Normalize = "matchmean"
	good.FlowViz = "both"
	if err := good.Finalize(); err != nil {
		t.Errorf("good config failed Finalize: %v", err)
	}
	if good.Normalizer == nil {
		t.Errorf("Finalize didn't resolve the Normalizer")
	}
}

func TestMatchMeanNormalizer(t *testing.T) {
	cfg := NewConfig()
	cfg.Normalize = "matchmean"
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	ref := blobGrid(16, 16, 4, 0, 0)
	cur := *ref.Copy()
	for y:=0; y<16; y++ {
		for x:=0; x<16; x++ {
			cur.Set(x, y, cur.Get(x,y)*3.0)
		}
	}

	_, ncur := cfg.Normalizer(ref, cur)
	if math.Abs(ncur.Mean() - ref.Mean()) > 1e-12 {
		t.Errorf("matchmean: mean %f, want %f", ncur.Mean(), ref.Mean())
	}
}

func TestLoadConfigMissingFileIsDefaults(t *testing.T) {
	cfg, err := LoadConfig("no/such/file.yaml")
	if err != nil {
		t.Fatalf("missing config file should be fine: %v", err)
	}
	def := NewConfig()
	if cfg.Alpha != def.Alpha || cfg.Levels != def.Levels || cfg.Normalize != def.Normalize {
		t.Errorf("missing config file didn't yield defaults")
	}
}

func TestReportString(t *testing.T) {
	iref := blobGrid(32, 32, 6, 1.0, 0)
	icur := blobGrid(32, 32, 6, 0, 0)

	cfg := testConfig(t)
	s := series.Series{Name: "pair", Frames: []fmath.Grid{iref, icur}}

	r, err := RegisterSeries(s, cfg)
	if err != nil {
		t.Fatalf("RegisterSeries: %v", err)
	}

	str := r.String()
	for _, want := range []string{"pair", "t001", "MAD"} {
		if !strings.Contains(str, want) {
			t.Errorf("report %q is missing %q", str, want)
		}
	}

	// The histogram's value range spans the worst case, every level
	// capping out.
	if want := histogram.ScalarVal(cfg.Levels * cfg.MaxIterations); r.IterHist.ValMax != want {
		t.Errorf("IterHist.ValMax = %v, want %v", r.IterHist.ValMax, want)
	}
}
