package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/hearing-digest/internal/config"
	"github.com/nguyentantai21042004/hearing-digest/internal/logger"
)

func TestNew_Schedule(t *testing.T) {
	tests := []struct {
		schedule string
		wantErr  bool
	}{
		{"@every 1h", false},
		{"*/15 * * * *", false},
		{"not a schedule", true},
	}
	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			_, err := New(config.CleanupConfig{Schedule: tt.schedule, MaxAge: time.Hour}, t.TempDir(), logger.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	s, err := New(config.CleanupConfig{Schedule: "@every 1h", MaxAge: time.Hour}, dir, logger.NewNop())
	require.NoError(t, err)

	now := time.Now()
	write := func(name string, age time.Duration) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
		mt := now.Add(-age)
		require.NoError(t, os.Chtimes(p, mt, mt))
		return p
	}
	stale := write("stale.wav", 2*time.Hour)
	fresh := write("fresh.wav", time.Minute)
	other := write("notes.txt", 2*time.Hour)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.wav"), 0755))

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	for _, p := range []string{fresh, other, filepath.Join(dir, "old.wav")} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestSweep_MissingDir(t *testing.T) {
	s, err := New(config.CleanupConfig{Schedule: "@every 1h", MaxAge: time.Hour},
		filepath.Join(t.TempDir(), "absent"), logger.NewNop())
	require.NoError(t, err)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStartStop(t *testing.T) {
	s, err := New(config.CleanupConfig{Schedule: "@every 1h", MaxAge: time.Hour}, t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
