package viz

import (
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown visualization")

// Kind names one of the built-in visualizations.
type Kind int

const (
	KindCurve Kind = iota
	KindParticleScurry
	KindLineVibration
	KindArc
	KindHelix
	KindRadial
	KindSpiral
	KindAmp
	KindEllipse
	KindSnow
	KindRotatingWave
	KindFlower
	KindStationaryCircle
	KindSpectrum
)

var kindNames = [...]string{
	KindCurve:            "curve",
	KindParticleScurry:   "particle-scurry",
	KindLineVibration:    "line-vibration",
	KindArc:              "arc",
	KindHelix:            "helix",
	KindRadial:           "radial",
	KindSpiral:           "spiral",
	KindAmp:              "amp",
	KindEllipse:          "ellipse",
	KindSnow:             "snow",
	KindRotatingWave:     "rotating-wave",
	KindFlower:           "flower",
	KindStationaryCircle: "stationary-circle",
	KindSpectrum:         "spectrum",
}

// Kinds lists every visualization in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind maps a configuration name to a Kind. The empty name selects
// Ellipse, the default for grooves configured without a visualization.
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return KindEllipse, nil
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New builds a fresh instance of k.
func New(k Kind, opts Options) (Visualization, error) {
	switch k {
	case KindCurve:
		return Curve{}, nil
	case KindParticleScurry:
		return NewParticleScurry(opts), nil
	case KindLineVibration:
		return LineVibration{}, nil
	case KindArc:
		return Arc{}, nil
	case KindHelix:
		return &Helix{}, nil
	case KindRadial:
		return NewRadial(), nil
	case KindSpiral:
		return NewSpiral(), nil
	case KindAmp:
		return NewAmp(opts.Width), nil
	case KindEllipse:
		return NewEllipse(opts.Seed), nil
	case KindSnow:
		return NewSnow(opts), nil
	case KindRotatingWave:
		return &RotatingWave{}, nil
	case KindFlower:
		return &Flower{}, nil
	case KindStationaryCircle:
		return StationaryCircle{}, nil
	case KindSpectrum:
		return Spectrum{}, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownKind, k)
}
