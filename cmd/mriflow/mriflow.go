package main

import(
	"flag"
	"log"

	"mriflow/pkg/register"
	"mriflow/pkg/series"
)

var(
	fConfig string
	fAlpha float64
	fLevels int
	fRefFrame int
	fSlice int
	fOutDir string
	fFlowViz string
	fWorkers int
	fVerbosity int
)

func init() {
	flag.StringVar(&fConfig, "c", "", "yaml config file (defaults apply if absent)")
	flag.Float64Var(&fAlpha, "alpha", 0, "regularization weight (>0)")
	flag.IntVar(&fLevels, "levels", 0, "pyramid depth (>=1)")
	flag.IntVar(&fRefFrame, "ref", -1, "timepoint to register everything onto")
	flag.IntVar(&fSlice, "z", -1, "z-slice to extract from a volume input")
	flag.StringVar(&fOutDir, "o", "", "output directory")
	flag.StringVar(&fFlowViz, "viz", "", "flow visualization: wheel, quiver, both, none")
	flag.IntVar(&fWorkers, "workers", 0, "frame pairs to register concurrently")
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")
	flag.Parse()

	log.Printf("mriflow starting\n")
}

func main() {
	cfg, err := register.LoadConfig(fConfig)
	if err != nil {
		log.Fatal(err)
	}

	// Override the config file with command line args, if relevant
	if fAlpha > 0.0 { cfg.Alpha = fAlpha }
	if fLevels > 0 { cfg.Levels = fLevels }
	if fRefFrame >= 0 { cfg.ReferenceFrame = fRefFrame }
	if fSlice >= 0 { cfg.Slice = fSlice }
	if fOutDir != "" { cfg.OutDir = fOutDir }
	if fFlowViz != "" { cfg.FlowViz = fFlowViz }
	if fWorkers > 0 { cfg.Workers = fWorkers }
	cfg.Verbosity = fVerbosity

	if flag.NArg() > 0 { cfg.Input = flag.Arg(0) }
	if cfg.Input == "" {
		log.Fatal("no input series; pass a file/directory argument or set Input in the config")
	}

	if err := cfg.Finalize(); err != nil {
		log.Fatalf("bad configuration: %v\n", err)
	}
	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	s, err := series.Load(cfg.Input, cfg.Slice)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %s\n", s)

	report, err := register.RegisterSeries(s, cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%s", report)

	if err := report.WriteOutputs(cfg); err != nil {
		log.Fatalf("writing outputs: %v\n", err)
	}
	log.Printf("outputs written to %s\n", cfg.OutDir)
}
