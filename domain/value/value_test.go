package value_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"iris-stats/domain/value"
)

func TestMaybe(t *testing.T) {
	t.Run("zero value is absent", func(t *testing.T) {
		var m value.Maybe[int]
		gt.False(t, m.Present())
		gt.Equal(t, m.Or(-9), -9)
	})

	t.Run("zero count is present", func(t *testing.T) {
		m := value.Some(0)
		v, ok := m.Get()
		gt.True(t, ok)
		gt.Equal(t, v, 0)
		gt.Equal(t, value.FormatInt(m), "0")
	})

	t.Run("absent renders as blank", func(t *testing.T) {
		gt.Equal(t, value.FormatInt(value.None[int]()), "")
		gt.Equal(t, value.FormatFloat(value.None[float64]()), "")
	})
}

func TestMean(t *testing.T) {
	t.Run("skips absent entries", func(t *testing.T) {
		m := value.Mean([]value.Maybe[float64]{value.Some(10.0), value.None[float64](), value.Some(20.0)})
		v, ok := m.Get()
		gt.True(t, ok)
		gt.Equal(t, v, 15.0)
	})

	t.Run("all absent is absent", func(t *testing.T) {
		m := value.Mean([]value.Maybe[float64]{value.None[float64](), value.None[float64]()})
		gt.False(t, m.Present())
	})

	t.Run("empty is absent", func(t *testing.T) {
		gt.False(t, value.Mean(nil).Present())
	})
}
