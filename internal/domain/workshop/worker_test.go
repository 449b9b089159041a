package workshop

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorker(t *testing.T) {
	t.Run("normalizes specialization", func(t *testing.T) {
		w, err := NewWorker("  Ravi Kumar ", "tailor", "+919800000001", " Suit ", decimal.NewFromInt(18000))
		require.NoError(t, err)

		assert.Equal(t, "Ravi Kumar", w.Name)
		assert.Equal(t, "suit", w.Specialization)
		assert.True(t, w.Active)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewWorker("   ", "tailor", "", "", decimal.NewFromInt(10000))
		assert.Error(t, err)

		_, err = NewWorker("Ravi", "tailor", "", "", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestWorker_LaborCost(t *testing.T) {
	w, err := NewWorker("Ravi", "tailor", "", "shirt", decimal.NewFromInt(18000))
	require.NoError(t, err)

	// 1% of monthly salary per order
	assert.True(t, w.LaborCost().Equal(decimal.NewFromInt(180)))
}

func TestWorker_Deactivate(t *testing.T) {
	w, err := NewWorker("Ravi", "tailor", "", "", decimal.NewFromInt(10000))
	require.NoError(t, err)
	before := w.Version

	w.Deactivate()
	assert.False(t, w.Active)
	assert.Equal(t, before+1, w.Version)
}

func TestWorkTask_Complete(t *testing.T) {
	t.Run("stamps completion once", func(t *testing.T) {
		task, err := NewWorkTask(uuid.New(), uuid.New(), "shirt", time.Now())
		require.NoError(t, err)

		require.NoError(t, task.Complete(time.Now()))
		assert.NotNil(t, task.CompletedDate)

		assert.Error(t, task.Complete(time.Now()))
	})

	t.Run("requires worker and order", func(t *testing.T) {
		_, err := NewWorkTask(uuid.Nil, uuid.New(), "shirt", time.Now())
		assert.Error(t, err)

		_, err = NewWorkTask(uuid.New(), uuid.Nil, "shirt", time.Now())
		assert.Error(t, err)
	})
}

func TestWorkTask_TurnaroundDays(t *testing.T) {
	assigned := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	t.Run("whole days between assignment and completion", func(t *testing.T) {
		task, err := NewWorkTask(uuid.New(), uuid.New(), "suit", assigned)
		require.NoError(t, err)

		require.NoError(t, task.Complete(assigned.Add(3*24*time.Hour)))
		assert.Equal(t, 3, task.TurnaroundDays())
	})

	t.Run("partial day rounds down", func(t *testing.T) {
		task, err := NewWorkTask(uuid.New(), uuid.New(), "suit", assigned)
		require.NoError(t, err)

		require.NoError(t, task.Complete(assigned.Add(2*24*time.Hour+6*time.Hour)))
		assert.Equal(t, 2, task.TurnaroundDays())
	})

	t.Run("open task reports -1", func(t *testing.T) {
		task, err := NewWorkTask(uuid.New(), uuid.New(), "suit", assigned)
		require.NoError(t, err)
		assert.Equal(t, -1, task.TurnaroundDays())
	})
}
