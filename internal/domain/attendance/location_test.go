package attendance

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hrops-backend-go/internal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_RoundTrip(t *testing.T) {
	in := &Location{Address: "Jl. Sudirman 1, Jakarta", Latitude: -6.2088, Longitude: 106.8456}

	raw, err := EncodeLocation(in)
	require.NoError(t, err)
	require.NotNil(t, raw)

	out, err := DecodeLocation(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLocation_NilStaysNil(t *testing.T) {
	raw, err := EncodeLocation(nil)
	require.NoError(t, err)
	assert.Nil(t, raw)

	loc, err := DecodeLocation(nil)
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestDecodeLocation_MalformedIsIntegrityError(t *testing.T) {
	raw := `{"address": "half`
	loc, err := DecodeLocation(&raw)
	assert.Nil(t, loc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptLocation))
	assert.Equal(t, apperror.Internal, apperror.KindOf(err))
}

func TestEligibilityError_MatchesKind(t *testing.T) {
	var err error = Deny(ReasonOnLeave, "user is on approved leave")
	assert.True(t, errors.Is(err, apperror.Eligibility))

	var eligErr *EligibilityError
	require.True(t, errors.As(err, &eligErr))
	assert.Equal(t, ReasonOnLeave, eligErr.Reason)
}
