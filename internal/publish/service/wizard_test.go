package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playautopublish/console-backend/internal/publish/domain"
	"github.com/playautopublish/console-backend/internal/state"
)

func TestWizard_Navigation(t *testing.T) {
	w := NewWizard(nil)

	t.Run("starts at upload", func(t *testing.T) {
		stage := w.Stage("p1")
		assert.Equal(t, 0, stage.Index)
		assert.Equal(t, "Upload", stage.Name)
		assert.False(t, stage.Last)
	})

	t.Run("next walks the stages and clamps at review", func(t *testing.T) {
		stage, err := w.Next("p1")
		require.NoError(t, err)
		assert.Equal(t, "Metadata", stage.Name)

		stage, err = w.Next("p1")
		require.NoError(t, err)
		assert.Equal(t, "Review", stage.Name)
		assert.True(t, stage.Last)

		stage, err = w.Next("p1")
		require.NoError(t, err)
		assert.Equal(t, "Review", stage.Name, "next past the last stage stays put")
	})

	t.Run("previous clamps at upload", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			stage, err := w.Previous("p1")
			require.NoError(t, err)
			assert.GreaterOrEqual(t, stage.Index, 0)
		}
		assert.Equal(t, "Upload", w.Stage("p1").Name)
	})

	t.Run("projects track independent positions", func(t *testing.T) {
		_, err := w.Next("p2")
		require.NoError(t, err)
		assert.Equal(t, "Metadata", w.Stage("p2").Name)
		assert.Equal(t, "Upload", w.Stage("p1").Name)
	})

	t.Run("reset returns to upload", func(t *testing.T) {
		_, err := w.Next("p2")
		require.NoError(t, err)
		w.Reset("p2")
		assert.Equal(t, 0, w.Stage("p2").Index)
	})
}

func TestWizard_LockedWhilePublishing(t *testing.T) {
	store := state.NewStore()
	seedProject(t, store, "p1")

	gate := make(chan struct{})
	runner := NewRunner(store, Options{
		Decider:      FixedDecider(false),
		PacerFactory: func(time.Duration) Pacer { return gatePacer{gate} },
	})
	w := NewWizard(runner)

	ctx, cancel := context.WithCancel(context.Background())
	started, err := runner.Start(ctx, "p1")
	require.NoError(t, err)

	stage, err := w.Next("p1")
	assert.ErrorIs(t, err, domain.ErrPublishing)
	assert.Equal(t, 0, stage.Index, "position unchanged while locked")

	_, err = w.Previous("p1")
	assert.ErrorIs(t, err, domain.ErrPublishing)

	cancel()
	waitForRun(t, runner, started.ID)

	_, err = w.Next("p1")
	assert.NoError(t, err, "lock released once the run finishes")
}
