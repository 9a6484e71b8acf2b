package register

import(
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/skypies/util/histogram"
	"gonum.org/v1/gonum/stat"

	"mriflow/pkg/fmath"
	"mriflow/pkg/render"
)

// A Report is the outcome of registering one series: the per-frame
// results in time order, plus the statistics that say whether the
// registration was worth doing.
type Report struct {
	Series    string
	Reference int
	Ref       fmath.Grid   // the (normalized) reference frame
	Pairs     []PairResult

	// Series-wide stats, filled in by finalize
	MeanImprovement   float64  // mean of per-frame (MADBefore - MADAfter)
	StddevImprovement float64
	Worsened          int      // frames the registration made worse
	NonConverged      int      // solver levels that hit the iteration cap
	IterHist          histogram.Histogram
}

func (r *Report)finalize(cfg Config) {
	r.IterHist = histogram.Histogram{NumBuckets: 50, ValMin: 0, ValMax: histogram.ScalarVal(cfg.Levels * cfg.MaxIterations)}

	improvements := []float64{}
	for _, pr := range r.Pairs {
		improvements = append(improvements, pr.MADBefore - pr.MADAfter)
		if pr.MADAfter > pr.MADBefore {
			r.Worsened++
		}
		for _, res := range pr.Stats.Levels {
			if !res.Converged { r.NonConverged++ }
		}
		r.IterHist.Add(histogram.ScalarVal(pr.Stats.TotalIterations()))
	}

	if len(improvements) > 1 {
		r.MeanImprovement, r.StddevImprovement = stat.MeanStdDev(improvements, nil)
	} else if len(improvements) == 1 {
		r.MeanImprovement = improvements[0]
	}
}

func (r Report)String() string {
	str := fmt.Sprintf("Report[%s: %d frames registered onto t%03d]\n", r.Series, len(r.Pairs), r.Reference)
	str += fmt.Sprintf("  MAD improvement: %.5f (stddev %.5f)\n", r.MeanImprovement, r.StddevImprovement)
	if r.Worsened > 0 {
		str += fmt.Sprintf("  frames made worse: %d\n", r.Worsened)
	}
	if r.NonConverged > 0 {
		str += fmt.Sprintf("  solver levels that hit the iteration cap: %d\n", r.NonConverged)
	}
	str += fmt.Sprintf("  iterations per frame: %s\n", r.IterHist)
	for _, pr := range r.Pairs {
		str += fmt.Sprintf("  %s\n", pr)
	}
	return str
}

// WriteOutputs renders the report under cfg.OutDir: a registered
// preview per frame, the flow visualization cfg asks for, and at
// higher verbosity a ref/cur/reg/diff montage per frame.
func (r Report)WriteOutputs(cfg Config) error {
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return fmt.Errorf("mkdir '%s': %v", cfg.OutDir, err)
	}

	for _, pr := range r.Pairs {
		base := filepath.Join(cfg.OutDir, fmt.Sprintf("%s-t%03d", r.Series, pr.Frame))

		if err := render.PreviewPNG(pr.Registered, cfg.Preview, base+"-reg.png"); err != nil {
			return err
		}

		if cfg.FlowViz == "wheel" || cfg.FlowViz == "both" {
			if err := render.WritePNG(render.FlowWheel(pr.Field), base+"-wheel.png"); err != nil {
				return err
			}
		}
		if cfg.FlowViz == "quiver" || cfg.FlowViz == "both" {
			if err := render.WritePNG(render.Quiver(pr.Current, pr.Field, 8), base+"-quiver.png"); err != nil {
				return err
			}
		}

		if cfg.WriteFlowHDR {
			if err := render.WriteHDR(pr.Field.Magnitude(), base+"-mag.hdr"); err != nil {
				return err
			}
		}

		if cfg.Verbosity > 0 {
			panels := []image.Image{
				render.GridToGray16(r.Ref),
				render.GridToGray16(pr.Current),
				render.GridToGray16(pr.Registered),
				render.DiffImage(r.Ref, pr.Registered),
			}
			labels := []string{"ref", fmt.Sprintf("t%03d", pr.Frame), "registered", "|diff|"}
			if err := render.WritePNG(render.Montage(panels, labels), base+"-montage.png"); err != nil {
				return err
			}
		}
	}
	return nil
}
