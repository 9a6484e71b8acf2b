package series

import(
	"mriflow/pkg/fmath"
)

// NormalizeUnit affinely maps the whole series onto [0,1] in place,
// using the series-wide extrema so that relative intensity between
// frames survives. A constant series has no span to map and is left
// alone.
func (s Series)NormalizeUnit() {
	if len(s.Frames) == 0 {
		return
	}

	lo, hi := s.Frames[0].MinMax()
	for i:=1; i<len(s.Frames); i++ {
		l, h := s.Frames[i].MinMax()
		if l < lo { lo = l }
		if h > hi { hi = h }
	}
	if hi <= lo {
		return
	}

	for _, f := range s.Frames {
		for y:=0; y<f.Dy(); y++ {
			for x:=0; x<f.Dx(); x++ {
				f.Set(x, y, (f.Get(x,y)-lo)/(hi-lo))
			}
		}
	}
}

// MatchMean returns a copy of cur rescaled so that its mean intensity
// matches ref's, flattening global brightness drift between dynamics.
// A zero-mean frame can't be rescaled and comes back unchanged.
func MatchMean(ref, cur fmath.Grid) fmath.Grid {
	out := *cur.Copy()

	mCur := cur.Mean()
	if mCur == 0 {
		return out
	}

	scale := ref.Mean() / mCur
	for y:=0; y<out.Dy(); y++ {
		for x:=0; x<out.Dx(); x++ {
			out.Set(x, y, out.Get(x,y)*scale)
		}
	}
	return out
}
