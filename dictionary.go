package billboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/billboard/graph"
)

// Scripting dictionary keys.
const (
	KeyFootprintMode        = "mFootprintMode"
	KeyReflectionCorrection = "mReflectionCorrection"
	KeyRefractionCorrection = "mRefractionCorrection"
	KeyDeepShadowSamples    = "mDeepBillboardSamples"
	KeyShadows              = "mShadows"
	KeyRandomColors         = "mRandomColors"
)

// Serialize writes opts into a scripting dictionary.
func (o Options) Serialize() graph.Dictionary {
	return graph.Dictionary{
		KeyFootprintMode:        uint32(o.FootprintMode),
		KeyReflectionCorrection: o.ReflectionCorrection,
		KeyRefractionCorrection: o.RefractionCorrection,
		KeyDeepShadowSamples:    o.DeepShadowSamples,
		KeyShadows:              o.Shadows,
		KeyRandomColors:         o.RandomColors,
	}
}

// ParseOptions reads a scripting dictionary over DefaultOptions. Missing
// keys keep their defaults and unknown keys are logged and ignored.
// Deep shadow samples are clamped to the supported range and an unknown
// footprint mode falls back to the default. Values of the wrong type fail
// with ErrInvalidOption.
func ParseOptions(dict graph.Dictionary) (Options, error) {
	opts := DefaultOptions()

	var unknown []string
	for key, val := range dict {
		var err error
		switch key {
		case KeyFootprintMode:
			var n int
			if n, err = intValue(key, val); err == nil {
				mode := FootprintMode(n) //nolint:gosec // validated below
				if n < 0 || !mode.Valid() {
					Logger().Warn("billboard: unknown footprint mode, using default",
						"mode", n, "default", opts.FootprintMode.String())
					break
				}
				opts.FootprintMode = mode
			}
		case KeyReflectionCorrection:
			opts.ReflectionCorrection, err = boolValue(key, val)
		case KeyRefractionCorrection:
			opts.RefractionCorrection, err = boolValue(key, val)
		case KeyShadows:
			opts.Shadows, err = boolValue(key, val)
		case KeyRandomColors:
			opts.RandomColors, err = boolValue(key, val)
		case KeyDeepShadowSamples:
			var n int
			if n, err = intValue(key, val); err == nil {
				opts.DeepShadowSamples = clampSamples(n)
			}
		default:
			unknown = append(unknown, key)
		}
		if err != nil {
			return opts, err
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		Logger().Warn("billboard: unknown dictionary keys ignored", "keys", unknown)
	}
	return opts, nil
}

func boolValue(key string, val any) (bool, error) {
	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a bool, got %T", ErrInvalidOption, key, val)
	}
	return b, nil
}

func intValue(key string, val any) (int, error) {
	const sentinel = math.MinInt
	n := graph.Dictionary{key: val}.Int(key, sentinel)
	if n == sentinel {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidOption, key, val)
	}
	return n, nil
}
