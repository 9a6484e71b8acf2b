package render

import(
	"fmt"
	"log"

	"github.com/mdouchement/hdr/tmo"

	"mriflow/pkg/fmath"
)

var(
	Tonemappers = []string{"drago03", "linear", "reinhard05"}
)

func ListTonemappers() string {
	return fmt.Sprintf("%v", Tonemappers)
}

// PreviewPNG writes a tone-mapped LDR preview of an arbitrary-range
// grid. Magnitude frames have a huge dynamic range between the blood
// pool and the background, which is what the non-linear operators are
// for; "linear" just windows.
func PreviewPNG(g fmath.Grid, strategy, filename string) error {
	op := SetupTonemapper(GrayGrid{g}, strategy)
	return WritePNG(op.Perform(), filename)
}

// Tweak the tmo parameters for grey-level frames.
func SetupTonemapper(gr GrayGrid, name string) tmo.ToneMappingOperator {
	switch name {
	case "drago03":
		return tmo.NewDefaultDrago03(gr)

	case "linear":
		return tmo.NewLinear(gr)

	case "reinhard05":
		op := tmo.NewDefaultReinhard05(gr)
		op.Chromatic = 0.0 // grey frames carry no chroma to adapt to
		return op
	}

	log.Fatalf("Tonemapper %q not recognized, wanted %s\n", name, ListTonemappers())
	return nil
}
