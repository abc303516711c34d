package viz

const (
	ScurryParticles = 256
	SnowFlakes      = 200
)

type particle struct {
	x, y  float64
	scale float64
	speed float64
}

// ParticleScurry moves a fixed pool of dots: each dot's height is its bin's
// magnitude and quiet bins race across the canvas faster than loud ones.
type ParticleScurry struct {
	particles [ScurryParticles]particle
	initial   [ScurryParticles]particle
}

func NewParticleScurry(opts Options) *ParticleScurry {
	rng := NewRand(opts.Seed)
	ps := &ParticleScurry{}
	for i := range ps.particles {
		ps.particles[i] = particle{
			x:     rng.RangeF(0, opts.Width),
			y:     rng.RangeF(0, opts.Height),
			scale: rng.RangeF(0, 1),
			speed: rng.RangeF(0, 10),
		}
	}
	ps.initial = ps.particles
	return ps
}

// Position reports where particle i currently sits.
func (ps *ParticleScurry) Position(i int) (x, y float64) {
	return ps.particles[i].x, ps.particles[i].y
}

func (ps *ParticleScurry) Visualize(s Surface, level float64, spectrum []float64) {
	w := s.Width()
	s.NoStroke()
	s.Fill(RGBA(19, 23, 31, Remap(level, 0, 1, 150, 220)))

	for i := range ps.particles {
		if i >= len(spectrum) {
			break
		}
		p := &ps.particles[i]
		binLevel := Remap(spectrum[i], 0, 255, 0, 1) * 2

		p.y = spectrum[i] * 3
		if binLevel > 0 {
			p.x += p.speed / binLevel
		} else {
			// A silent bin is an infinite step: wrap at once.
			p.x = 0
		}
		if p.x > w {
			p.x = 0
		}

		d := Remap(binLevel, 0, 1, 0, 100) * p.scale
		s.Ellipse(p.x, p.y, d, d)
	}
}

// Reset puts every particle back where it was created.
func (ps *ParticleScurry) Reset() {
	ps.particles = ps.initial
}

type flake struct {
	x, y  float64
	size  float64
	drift float64
}

// Snow lets a pool of flakes fall faster as the groove gets louder. Each
// flake is nudged sideways by its own bin.
type Snow struct {
	seed   uint64
	rng    *Rand
	flakes [SnowFlakes]flake
	w, h   float64
}

func NewSnow(opts Options) *Snow {
	sn := &Snow{seed: opts.Seed, w: opts.Width, h: opts.Height}
	sn.Reset()
	return sn
}

// Flake reports the position of flake i.
func (sn *Snow) Flake(i int) (x, y float64) {
	return sn.flakes[i].x, sn.flakes[i].y
}

func (sn *Snow) Visualize(s Surface, level float64, spectrum []float64) {
	w, h := s.Width(), s.Height()
	s.NoStroke()
	s.Fill(Palette.White.WithAlpha(u8(Remap(clampF(level, 0, 1), 0, 1, 120, 255))))

	for i := range sn.flakes {
		f := &sn.flakes[i]
		f.y += 0.5 + level*8 + f.size*0.2
		f.x += (bin(spectrum, i)/255-0.5)*2 + f.drift
		if f.y > h {
			f.y = 0
			f.x = sn.rng.RangeF(0, w)
		}
		if f.x < 0 {
			f.x += w
		} else if f.x > w {
			f.x -= w
		}
		s.Ellipse(f.x, f.y, f.size, f.size)
	}
}

// Reset re-seeds the pool, so every replay snows the same way.
func (sn *Snow) Reset() {
	sn.rng = NewRand(sn.seed)
	for i := range sn.flakes {
		sn.flakes[i] = flake{
			x:     sn.rng.RangeF(0, sn.w),
			y:     sn.rng.RangeF(0, sn.h),
			size:  sn.rng.RangeF(2, 8),
			drift: sn.rng.RangeF(-0.3, 0.3),
		}
	}
}
