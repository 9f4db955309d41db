package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	assert.Equal(t, 50, DefaultOptions().BigNumber)
}

func TestMergeOptions(t *testing.T) {
	tests := []struct {
		name      string
		overrides []map[string]interface{}
		want      int
	}{
		{"no overrides", nil, 50},
		{"single override", []map[string]interface{}{{"bigNumber": 10}}, 10},
		{"later wins", []map[string]interface{}{{"bigNumber": 10}, {"bigNumber": 20}}, 20},
		{"empty map keeps previous", []map[string]interface{}{{"bigNumber": 10}, {}}, 10},
		{"unknown keys ignored", []map[string]interface{}{{"color": "red", "bigNumber": 3}}, 3},
		{"case insensitive key", []map[string]interface{}{{"bignumber": 4}}, 4},
		{"string value", []map[string]interface{}{{"bigNumber": "7"}}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeOptions(DefaultOptions(), tt.overrides...)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.BigNumber)
		})
	}
}

func TestMergeOptions_Invalid(t *testing.T) {
	base := DefaultOptions()

	got, err := MergeOptions(base, map[string]interface{}{"bigNumber": -1})
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Equal(t, base, got)

	_, err = MergeOptions(base, map[string]interface{}{"bigNumber": "lots"})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
