package register

import(
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"mriflow/pkg/fmath"
	"mriflow/pkg/render"
	"mriflow/pkg/series"
)

// A NormalizeFunc maps a (reference, current) frame pair onto
// comparable intensity ranges before estimation runs on them.
type NormalizeFunc func(ref, cur fmath.Grid) (fmath.Grid, fmath.Grid)

type Config struct {
	Input          string  // series file or directory
	ReferenceFrame int     // timepoint every other frame registers onto
	Slice          int     // z-slice, for the volume formats

	Alpha          float64 // regularization weight
	Levels         int     // pyramid depth
	MaxIterations  int
	Tolerance      float64
	PreSmooth      int     // gaussian passes before differentiation

	Normalize      string  // "unit", "matchmean", "none"
	FlowViz        string  // "wheel", "quiver", "both", "none"
	Preview        string  // tonemapper for the preview PNGs
	OutDir         string
	WriteFlowHDR   bool    // also write flow magnitudes as Radiance files

	Workers        int     // frame pairs registered concurrently
	Verbosity      int

	// Resolved by Finalize, for use by the rest of the pipeline
	Normalizer     NormalizeFunc `yaml:"-"`
}

func NewConfig() Config {
	return Config{
		ReferenceFrame: 0,
		Alpha:          0.05,
		Levels:         3,
		MaxIterations:  1000,
		Tolerance:      1e-4,
		Normalize:      "unit",
		FlowViz:        "wheel",
		Preview:        "linear",
		OutDir:         ".",
		Workers:        4,
	}
}

// LoadConfig reads a yaml config; a missing file just means the
// defaults, so a config file is never mandatory.
func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	contents, err := ioutil.ReadFile(filename)
	if os.IsNotExist(err) {
		return c, nil
	} else if err != nil {
		return c, fmt.Errorf("read '%s': %v", filename, err)
	}

	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("parse '%s': %v", filename, err)
	}
	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Finalize does sanity checks, and resolves the strategy names into
// the funcs the pipeline calls.
func (c *Config)Finalize() error {
	if c.Alpha <= 0.0 {
		return fmt.Errorf("Alpha must be > 0, have %v", c.Alpha)
	}
	if c.Levels < 1 {
		return fmt.Errorf("Levels must be >= 1, have %d", c.Levels)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("MaxIterations must be >= 1, have %d", c.MaxIterations)
	}
	if c.Tolerance <= 0.0 {
		return fmt.Errorf("Tolerance must be > 0, have %v", c.Tolerance)
	}
	if c.PreSmooth < 0 {
		return fmt.Errorf("PreSmooth must be >= 0, have %d", c.PreSmooth)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	switch c.Normalize {
	// "unit" is series-wide, applied once up front; pairwise it's a no-op
	case "", "none", "unit":
		c.Normalizer = func(ref, cur fmath.Grid) (fmath.Grid, fmath.Grid) { return ref, cur }
	case "matchmean":
		c.Normalizer = func(ref, cur fmath.Grid) (fmath.Grid, fmath.Grid) { return ref, series.MatchMean(ref, cur) }
	default:
		return fmt.Errorf("no Normalize strategy named '%s'", c.Normalize)
	}

	switch c.FlowViz {
	case "", "wheel", "quiver", "both", "none":
	default:
		return fmt.Errorf("no FlowViz strategy named '%s'", c.FlowViz)
	}

	ok := false
	for _, name := range render.Tonemappers {
		if name == c.Preview { ok = true }
	}
	if !ok {
		return fmt.Errorf("no Preview tonemapper named '%s', wanted %s", c.Preview, render.ListTonemappers())
	}

	return nil
}
