package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/pto-center/auth"
)

func TestAnonymous_EstablishesSession(t *testing.T) {
	a := auth.Anonymous{ProjectID: "pto-center-prod"}

	session, err := a.Establish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pto-center-prod", session.ProjectID)
}

func TestAnonymous_MissingProjectIsConfigurationError(t *testing.T) {
	// The error must be recognizable so startup can print the dedicated
	// configuration message instead of a generic failure.
	a := auth.Anonymous{}

	_, err := a.Establish(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrConfiguration)
}
