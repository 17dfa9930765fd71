package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	logger, err := Setup(Options{Level: "debug", Encoding: JSON, Name: "test"})
	require.NoError(t, err)
	assert.Same(t, logger, Global())
	assert.NotNil(t, Named("child"))

	_, err = Setup(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = Setup(Options{Level: "info", Encoding: "xml"})
	assert.Error(t, err)
}
