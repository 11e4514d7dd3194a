//go:build unit

package cpf_test

import (
	"testing"

	"cashback-ledger/internal/pkg/cpf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		errIs    error
	}{
		{name: "valid formatted", input: "529.982.247-25", expected: "52998224725"},
		{name: "valid digits only", input: "52998224725", expected: "52998224725"},
		{name: "valid with spaces", input: " 529.982.247-25 ", expected: "52998224725"},
		{name: "too short", input: "5299822472", errIs: cpf.ErrInvalidLength},
		{name: "too long", input: "529982247255", errIs: cpf.ErrInvalidLength},
		{name: "letters rejected", input: "529a982b2472", errIs: cpf.ErrInvalidLength},
		{name: "wrong first check digit", input: "52998224735", errIs: cpf.ErrInvalidDigits},
		{name: "wrong second check digit", input: "52998224726", errIs: cpf.ErrInvalidDigits},
		{name: "repeated digit sequence", input: "111.111.111-11", errIs: cpf.ErrInvalidDigits},
		{name: "all zeros", input: "00000000000", errIs: cpf.ErrInvalidDigits},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := cpf.Normalize(tc.input)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestValid(t *testing.T) {
	// Check digits computed by the standard mod-11 weighting.
	assert.True(t, cpf.Valid("52998224725"))
	assert.True(t, cpf.Valid("11144477735"))
	assert.False(t, cpf.Valid("11144477734"))
	assert.False(t, cpf.Valid("22222222222"))
	assert.False(t, cpf.Valid("123"))
}
