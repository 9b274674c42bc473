package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willvault/registry/pkg/validator"
)

func TestApplyCollectsFailures(t *testing.T) {
	t.Parallel()

	err := validator.Apply(
		validator.Required("firstName", ""),
		validator.Required("lastName", "Doe"),
		validator.ValidEmail("email", "not-an-email"),
	)
	require.Error(t, err)

	ve := validator.Extract(err)
	require.Len(t, ve, 2)
	assert.True(t, ve.Has("firstName"))
	assert.True(t, ve.Has("email"))
	assert.False(t, ve.Has("lastName"))
	assert.Equal(t, []string{"firstName", "email"}, ve.Fields())
}

func TestApplyPasses(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(
		validator.Required("username", "jdoe"),
		validator.MinLen("username", "jdoe", 3),
		validator.MaxLen("username", "jdoe", 30),
	))
}

func TestExtract(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.Extract(nil))
	assert.Nil(t, validator.Extract(errors.New("boom")))

	err := validator.Apply(validator.Required("f", ""))
	assert.NotNil(t, validator.Extract(err))
}
