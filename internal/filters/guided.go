package filters

// Guided implements the He et al. guided filter: local linear coefficients
// recovered per window from a guide image I and a filtered signal P, built
// on top of Box so the I*I and I*P products never materialize as full
// buffers.
type Guided struct {
	box           *Box
	width, height int
	channels      int
	eps           float32
	ClampLo       float32
	ClampHi       float32

	meanI, meanP, corrI, corrIp []float32
	a, b, meanA, meanB          []float32
}

func NewGuided(radius int, eps float32, width, height, channels int) *Guided {
	n := width * height * channels
	return &Guided{
		box:      NewBox(radius, width, height, channels),
		width:    width,
		height:   height,
		channels: channels,
		eps:      eps,
		ClampLo:  0,
		ClampHi:  1,
		meanI:    make([]float32, n),
		meanP:    make([]float32, n),
		corrI:    make([]float32, n),
		corrIp:   make([]float32, n),
		a:        make([]float32, n),
		b:        make([]float32, n),
		meanA:    make([]float32, n),
		meanB:    make([]float32, n),
	}
}

func (f *Guided) Invoke(guideI, signalP, out []float32) {
	f.box.Invoke(guideI, f.meanI)
	f.box.Invoke(signalP, f.meanP)

	f.box.InvokeFunc(
		func(i int) float32 { return guideI[i] * guideI[i] },
		func(i int, v float32) { f.corrI[i] = v },
	)
	f.box.InvokeFunc(
		func(i int) float32 { return guideI[i] * signalP[i] },
		func(i int, v float32) { f.corrIp[i] = v },
	)

	for i := range f.a {
		mi := f.meanI[i]
		varI := f.corrI[i] - mi*mi
		covIp := f.corrIp[i] - mi*f.meanP[i]
		f.a[i] = covIp / (varI + f.eps)
		f.b[i] = f.meanP[i] - f.a[i]*mi
	}

	f.box.Invoke(f.a, f.meanA)
	f.box.Invoke(f.b, f.meanB)

	for i := range out {
		v := f.meanA[i]*guideI[i] + f.meanB[i]
		if v < f.ClampLo {
			v = f.ClampLo
		} else if v > f.ClampHi {
			v = f.ClampHi
		}
		out[i] = v
	}
}
