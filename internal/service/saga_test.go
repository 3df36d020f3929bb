package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSagaAllStepsSucceed(t *testing.T) {
	var order []string
	steps := []SagaStep{
		{
			Name: "first",
			Run:  func(context.Context) error { order = append(order, "first"); return nil },
			Compensate: func(context.Context) error {
				order = append(order, "undo-first")
				return nil
			},
		},
		{
			Name: "second",
			Run:  func(context.Context) error { order = append(order, "second"); return nil },
		},
	}

	require.NoError(t, RunSaga(context.Background(), steps))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunSagaCompensatesInReverseOrder(t *testing.T) {
	var order []string
	boom := errors.New("third step failed")
	steps := []SagaStep{
		{
			Name: "first",
			Run:  func(context.Context) error { order = append(order, "first"); return nil },
			Compensate: func(context.Context) error {
				order = append(order, "undo-first")
				return nil
			},
		},
		{
			Name: "second",
			Run:  func(context.Context) error { order = append(order, "second"); return nil },
			Compensate: func(context.Context) error {
				order = append(order, "undo-second")
				return nil
			},
		},
		{
			Name: "third",
			Run:  func(context.Context) error { return boom },
		},
	}

	err := RunSaga(context.Background(), steps)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second", "undo-second", "undo-first"}, order)
}

func TestRunSagaCompensationFailureKeepsOriginalError(t *testing.T) {
	boom := errors.New("link failed")
	steps := []SagaStep{
		{
			Name: "upload",
			Run:  func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				return errors.New("delete refused")
			},
		},
		{
			Name: "link",
			Run:  func(context.Context) error { return boom },
		},
	}

	err := RunSaga(context.Background(), steps)
	require.ErrorIs(t, err, boom)
}

func TestRunSagaSkipsNilCompensation(t *testing.T) {
	var undone bool
	boom := errors.New("last failed")
	steps := []SagaStep{
		{Name: "no-undo", Run: func(context.Context) error { return nil }},
		{
			Name: "with-undo",
			Run:  func(context.Context) error { return nil },
			Compensate: func(context.Context) error {
				undone = true
				return nil
			},
		},
		{Name: "last", Run: func(context.Context) error { return boom }},
	}

	require.ErrorIs(t, RunSaga(context.Background(), steps), boom)
	assert.True(t, undone)
}
