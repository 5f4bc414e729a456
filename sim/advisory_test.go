package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvisories_HasAndCount(t *testing.T) {
	as := Advisories{
		{Kind: AdvisoryCycle, Index: 4, Message: "state 21 first seen at step 1"},
		{Kind: AdvisoryRangeFallback, Index: 2, Message: "code 97"},
		{Kind: AdvisoryRangeFallback, Index: 5, Message: "code 99"},
	}

	assert.True(t, as.Has(AdvisoryCycle))
	assert.False(t, as.Has(AdvisoryStuckAtZero))
	assert.Equal(t, 2, as.Count(AdvisoryRangeFallback))
}

func TestAdvisories_WithPrefixCopies(t *testing.T) {
	as := Advisories{{Kind: AdvisoryBackfill, Message: "3 numbers"}}

	prefixed := as.WithPrefix("demand")

	assert.Equal(t, "demand: 3 numbers", prefixed[0].Message)
	assert.Equal(t, "3 numbers", as[0].Message, "original must not be mutated")
}

func TestAdvisory_String(t *testing.T) {
	assert.Equal(t, "[cycle] #3: repeat", Advisory{Kind: AdvisoryCycle, Index: 3, Message: "repeat"}.String())
	assert.Equal(t, "[odd-digit-seed] seed 123", Advisory{Kind: AdvisoryOddDigitSeed, Message: "seed 123"}.String())
}
