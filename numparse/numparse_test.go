package numparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "decimal", input: "42", want: 42},
		{name: "negative", input: "-7", want: -7},
		{name: "hex prefix", input: "0x1F", want: 31},
		{name: "octal prefix", input: "0o17", want: 15},
		{name: "binary prefix", input: "0b101", want: 5},
		{name: "underscores", input: "1_000_000", want: 1000000},
		{name: "surrounding whitespace", input: "  42\t", want: 42},
		{name: "empty is zero", input: "", want: 0},
		{name: "blank is zero", input: "   ", want: 0},
		{name: "malformed", input: "12abc", wantErr: true},
		{name: "float input", input: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Int(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntOr(t *testing.T) {
	assert.Equal(t, int64(42), IntOr("42", -1))
	assert.Equal(t, int64(-1), IntOr("", -1))
	assert.Equal(t, int64(-1), IntOr("bogus", -1))
}

func TestUint(t *testing.T) {
	got, err := Uint("0xFF")
	require.NoError(t, err)
	assert.Equal(t, uint64(255), got)

	got, err = Uint("")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	_, err = Uint("-1")
	assert.Error(t, err, "negative values do not fit")
}

func TestUintOr(t *testing.T) {
	assert.Equal(t, uint64(7), UintOr("7", 99))
	assert.Equal(t, uint64(99), UintOr("-3", 99))
	assert.Equal(t, uint64(99), UintOr("", 99))
}

func TestFloat(t *testing.T) {
	got, err := Float("3.25")
	require.NoError(t, err)
	assert.Equal(t, 3.25, got)

	got, err = Float(" 1e3 ")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, got)

	got, err = Float("")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = Float("three")
	assert.Error(t, err)
}

func TestFloatOr(t *testing.T) {
	assert.Equal(t, 3.25, FloatOr("3.25", 1.0))
	assert.Equal(t, 1.0, FloatOr("NaN-ish", 1.0))
	assert.Equal(t, 1.0, FloatOr("", 1.0))
}

func TestBool(t *testing.T) {
	for _, s := range []string{"1", "t", "true", "TRUE", "True"} {
		got, err := Bool(s)
		require.NoError(t, err, s)
		assert.True(t, got, s)
	}
	for _, s := range []string{"0", "f", "false", "FALSE", ""} {
		got, err := Bool(s)
		require.NoError(t, err, s)
		assert.False(t, got, s)
	}

	_, err := Bool("yes")
	assert.Error(t, err, "ParseBool does not accept yes/no")
}

func TestBoolOr(t *testing.T) {
	assert.True(t, BoolOr("true", false))
	assert.True(t, BoolOr("", true))
	assert.True(t, BoolOr("yes", true))
	assert.False(t, BoolOr("false", true))
}
