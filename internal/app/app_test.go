package app

import (
	"context"
	"testing"

	"github.com/Temutjin2k/fair-fares/config"
	"github.com/Temutjin2k/fair-fares/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplication_UnknownMode(t *testing.T) {
	_, err := NewApplication(context.Background(), config.Config{Mode: "ride-service"}, logger.Discard())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestRun_WithoutService(t *testing.T) {
	a := &App{log: logger.Discard()}
	assert.ErrorIs(t, a.Run(context.Background()), ErrServiceNotInitialized)
}
