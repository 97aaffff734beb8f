package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jigsaw-bot/internal/classifier"
	"jigsaw-bot/internal/domain/entity"
	"jigsaw-bot/internal/matcher"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SECONDARY_MEASURE", "")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, 20.0, cfg.SimplifyEpsilon)
	require.False(t, cfg.UseBlobStorage())
	require.Equal(t, classifier.DefaultConfig(), cfg.ClassifierConfig())
	require.Equal(t, matcher.DefaultConfig(), cfg.MatcherConfig())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COUPLING_THRESHOLD", "40")
	t.Setenv("SECONDARY_THRESHOLD", "15.5")
	t.Setenv("SECONDARY_MEASURE", "hausdorff")
	t.Setenv("MAX_CORNER_ITERATIONS", "1000")
	t.Setenv("WORKERS", "3")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)

	m := cfg.MatcherConfig()
	require.Equal(t, 40.0, m.CouplingThreshold)
	require.Equal(t, 15.5, m.SecondaryThreshold)
	require.Equal(t, entity.MeasureHausdorff, m.Secondary)
	require.Equal(t, 1000, cfg.ClassifierConfig().MaxIterations)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port out of range", "PORT", "70000"},
		{"unknown measure", "SECONDARY_MEASURE", "median"},
		{"negative workers", "WORKERS", "-1"},
		{"zero epsilon", "SIMPLIFY_EPSILON", "0"},
		{"right angle tolerance", "RIGHT_ANGLE_TOLERANCE", "95"},
		{"coupling threshold", "COUPLING_THRESHOLD", "-1"},
		{"azure without key", "AZURE_STORAGE_ACCOUNT", "acc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AZURE_STORAGE_KEY", "")
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
