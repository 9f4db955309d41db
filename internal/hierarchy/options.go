package hierarchy

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultBigNumber is the subordinate count a member has to exceed to be a big boss.
const DefaultBigNumber = 50

// Options holds the tunables of an Engine.
type Options struct {
	BigNumber int `mapstructure:"bigNumber" json:"bigNumber"`
}

// DefaultOptions returns the options an Engine uses when nothing is configured.
func DefaultOptions() Options {
	return Options{BigNumber: DefaultBigNumber}
}

// MergeOptions decodes every override map over base in order, so later maps win.
// Keys are matched case-insensitively and unknown keys are ignored.
func MergeOptions(base Options, overrides ...map[string]interface{}) (Options, error) {
	out := base
	for _, override := range overrides {
		if len(override) == 0 {
			continue
		}
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &out,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return base, err
		}
		if err := decoder.Decode(override); err != nil {
			return base, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
	}
	if out.BigNumber < 0 {
		return base, fmt.Errorf("%w: bigNumber must not be negative, got %d", ErrInvalidOptions, out.BigNumber)
	}
	return out, nil
}
