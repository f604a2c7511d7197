package vcf

import (
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGenotype(t *testing.T) {
	tests := []struct {
		token        string
		checkPhasing bool
		want         Call
	}{
		{"0|1", true, Call{0, 1}},
		{"1|0", true, Call{1, 0}},
		{"1|1", false, Call{1, 1}},
		{"0|0", true, Call{0, 0}},
		{"./.", true, Call{0, 0}},
		{"./.", false, Call{0, 0}},
		{"1/0", false, Call{Missing, Missing}},
		{"0|1:35:0,30", true, Call{0, 1}},
	}
	for _, tt := range tests {
		got, err := DecodeGenotype([]byte(tt.token), tt.checkPhasing)
		require.NoError(t, err, tt.token)
		expect.EQ(t, got, tt.want, "token %s", tt.token)
	}
}

func TestDecodeGenotypeUnphased(t *testing.T) {
	_, err := DecodeGenotype([]byte("1/0"), true)
	assert.Equal(t, ErrUnphased, err)
}

func TestDecodeGenotypeInvalid(t *testing.T) {
	for _, token := range []string{"", "0", "0|2", ".|.", "0||1", "0|1|1", "A|C", "1-0"} {
		_, err := DecodeGenotype([]byte(token), false)
		var gerr *GenotypeError
		if assert.Error(t, err, token) && assert.True(t, errorsAs(err, &gerr), token) {
			assert.Equal(t, token, gerr.Token)
		}
	}
}

func TestCallHaplotype(t *testing.T) {
	c := Call{H1: 1, H2: 0}
	expect.EQ(t, c.Haplotype(1), Dosage(1))
	expect.EQ(t, c.Haplotype(2), Dosage(0))
}

func TestDecodeDiploidDosage(t *testing.T) {
	tests := []struct {
		token string
		want  Dosage
	}{
		{"0/0", 0},
		{"0/1", 1},
		{"1|0", 1},
		{"1/1", 2},
		{"./.", 0},
		{"./1", 1},
		{"1/1:20:7,0", 2},
	}
	for _, tt := range tests {
		got, err := DecodeDiploidDosage([]byte(tt.token))
		require.NoError(t, err, tt.token)
		expect.EQ(t, got, tt.want, "token %s", tt.token)
	}
	for _, token := range []string{"", "1", "2/1", "x/0"} {
		_, err := DecodeDiploidDosage([]byte(token))
		assert.Error(t, err, token)
	}
}
