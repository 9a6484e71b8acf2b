package register

// The registration pipeline. RegisterPair handles one frame against
// the reference; RegisterSeries fans a whole dynamic series out over a
// pool of workers - each pair is independent, so the only ordering
// that matters is the one the Report presents.

import(
	"fmt"
	"log"
	"sync"

	"mriflow/pkg/flow"
	"mriflow/pkg/fmath"
	"mriflow/pkg/interp"
	"mriflow/pkg/series"
)

// A PairResult is one frame registered onto the reference, plus the
// numbers that say how well it went.
type PairResult struct {
	Frame      int         // timepoint of the current frame
	Current    fmath.Grid  // the (normalized) frame that was registered
	Registered fmath.Grid  // Current warped onto the reference
	Field      flow.Field
	Stats      flow.Stats

	MADBefore  float64     // mean abs diff against the reference, unregistered
	MADAfter   float64     // and after warping by the estimated field
}

func (pr PairResult)String() string {
	return fmt.Sprintf("t%03d: MAD %.4f -> %.4f, %s", pr.Frame, pr.MADBefore, pr.MADAfter, pr.Stats)
}

// RegisterPair estimates the flow that maps cur onto ref and warps
// cur by it. PreSmooth blurs feed only the estimator; the registered
// frame is the unblurred input warped by the resulting field.
func RegisterPair(ref, cur fmath.Grid, cfg Config) (PairResult, error) {
	pr := PairResult{}

	// A config that never went through Finalize still works pairwise
	if cfg.Normalizer == nil {
		cfg.Normalizer = func(ref, cur fmath.Grid) (fmath.Grid, fmath.Grid) { return ref, cur }
	}

	nref, ncur := cfg.Normalizer(ref, cur)

	eref, ecur := nref, ncur
	for i:=0; i<cfg.PreSmooth; i++ {
		eref = eref.GaussianBlur()
		ecur = ecur.GaussianBlur()
	}

	est, err := flow.NewEstimator(cfg.Alpha, cfg.Levels)
	if err != nil {
		return pr, err
	}
	est.Conv = flow.Convergence{MaxIterations: cfg.MaxIterations, Tolerance: cfg.Tolerance}

	_, fld, stats, err := est.Estimate(eref, ecur)
	if err != nil {
		return pr, err
	}

	ireg, err := interp.Bilinear{}.Warp(ncur, fld.U, fld.V)
	if err != nil {
		return pr, fmt.Errorf("register: warp: %v", err)
	}

	pr.Current = ncur
	pr.Registered = ireg
	pr.Field = fld
	pr.Stats = stats
	pr.MADBefore = fmath.MAD(nref, ncur)
	pr.MADAfter = fmath.MAD(nref, ireg)
	return pr, nil
}

type registerJob struct {
	// Inputs for the job
	Frame  int

	// Outputs
	Result PairResult
	Err    error
}

// RegisterSeries registers every non-reference frame of s onto the
// reference frame, cfg.Workers pairs at a time. The Report lists
// frames in time order whatever order the workers finish in.
func RegisterSeries(s series.Series, cfg Config) (Report, error) {
	r := Report{Series: s.Name, Reference: cfg.ReferenceFrame}

	if s.Len() < 2 {
		return r, fmt.Errorf("register: series %s has %d frames, nothing to register", s.Name, s.Len())
	}
	if !s.SameDims() {
		return r, fmt.Errorf("register: series %s has frames of differing dimensions", s.Name)
	}
	if cfg.ReferenceFrame < 0 || cfg.ReferenceFrame >= s.Len() {
		return r, fmt.Errorf("register: reference frame %d out of range [0,%d)", cfg.ReferenceFrame, s.Len())
	}

	if cfg.Normalize == "unit" {
		s.NormalizeUnit()
	}
	ref := s.Frames[cfg.ReferenceFrame]
	r.Ref = ref

	nWorkers := cfg.Workers
	if nWorkers < 1 { nWorkers = 1 }

	var wg sync.WaitGroup
	jobsChan    := make(chan registerJob, s.Len())
	resultsChan := make(chan registerJob, s.Len())

	for i:=0; i<nWorkers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				job.Result, job.Err = RegisterPair(ref, s.Frames[job.Frame], cfg)
				job.Result.Frame = job.Frame
				resultsChan<- job
			}
		}()
	}

	nJobs := 0
	for t:=0; t<s.Len(); t++ {
		if t == cfg.ReferenceFrame { continue }
		jobsChan<- registerJob{Frame: t}
		nJobs++
	}

	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	byFrame := map[int]PairResult{}
	for job := range resultsChan {
		if job.Err != nil {
			return r, fmt.Errorf("register: frame %d: %w", job.Frame, job.Err)
		}
		byFrame[job.Result.Frame] = job.Result
		if cfg.Verbosity > 0 {
			log.Printf("registered %s\n", job.Result)
		}
	}

	for t:=0; t<s.Len(); t++ {
		if pr, exists := byFrame[t]; exists {
			r.Pairs = append(r.Pairs, pr)
		}
	}

	r.finalize(cfg)
	log.Printf("registered %d/%d frames of %s onto t%03d\n", nJobs, s.Len(), s.Name, cfg.ReferenceFrame)
	return r, nil
}
