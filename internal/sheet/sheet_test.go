package sheet

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitenkalda/SpreadSheets/internal/calc"
	"github.com/hitenkalda/SpreadSheets/internal/grid"
)

func TestSheet_Set(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		s := New()
		res, err := s.Set("A1", "hello")
		require.NoError(t, err)
		assert.Equal(t, calc.KindLiteral, res.Kind)
		assert.Equal(t, grid.Cell{Value: "hello"}, s.Cells["A1"])
		assert.Equal(t, "hello", s.Input("A1"))
	})

	t.Run("formula keeps its text", func(t *testing.T) {
		s := New()
		_, err := s.Set("A1", "4")
		require.NoError(t, err)
		_, err = s.Set("A2", "6")
		require.NoError(t, err)

		res, err := s.Set("A3", "=average(A1:A2)")
		require.NoError(t, err)
		assert.Equal(t, calc.KindNumber, res.Kind)
		assert.Equal(t, grid.Cell{Value: "5", Formula: "=average(A1:A2)"}, s.Cells["A3"])
		assert.Equal(t, "=average(A1:A2)", s.Input("A3"))
		assert.Equal(t, "5", s.Display("A3"))
	})

	t.Run("formulas read computed values", func(t *testing.T) {
		s := New()
		_, _ = s.Set("A1", "=2*3")
		_, _ = s.Set("A2", "=SUM(A1:A1)")
		assert.Equal(t, "6", s.Display("A2"))
	})

	t.Run("no recompute on change", func(t *testing.T) {
		s := New()
		_, _ = s.Set("A1", "1")
		_, _ = s.Set("B1", "=SUM(A1:A1)")
		_, _ = s.Set("A1", "10")
		assert.Equal(t, "1", s.Display("B1"))
	})

	t.Run("error result is stored", func(t *testing.T) {
		var buf bytes.Buffer
		s := New()
		s.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

		res, err := s.Set("C3", "=1/0")
		require.NoError(t, err)
		assert.ErrorIs(t, res.Err, calc.ErrDivisionByZero)
		assert.Equal(t, "#ERROR!", s.Display("C3"))
		assert.Equal(t, "=1/0", s.Input("C3"))
		assert.Contains(t, buf.String(), "cell=C3")
		assert.Contains(t, buf.String(), "component=sheet")
	})

	t.Run("empty input clears", func(t *testing.T) {
		s := New()
		_, _ = s.Set("A1", "x")
		_, err := s.Set("A1", "")
		require.NoError(t, err)
		assert.NotContains(t, s.Cells, "A1")
		assert.Equal(t, "", s.Input("A1"))
	})

	t.Run("bad cell id", func(t *testing.T) {
		s := New()
		_, err := s.Set("AA1", "1")
		assert.ErrorIs(t, err, grid.ErrUnknownColumn)
		_, err = s.Set("1A", "1")
		assert.ErrorIs(t, err, grid.ErrMalformedReference)
		assert.Empty(t, s.Cells)
	})

	t.Run("zero value sheet", func(t *testing.T) {
		var s Sheet
		_, err := s.Set("A1", "=1+1")
		require.NoError(t, err)
		assert.Equal(t, "2", s.Display("A1"))
	})
}

func TestSheet_Copy(t *testing.T) {
	s := New()
	_, _ = s.Set("A1", "1")
	_, _ = s.Set("B1", "=SUM(A1:A1)")

	require.NoError(t, s.Copy("B1", "C5"))
	assert.Equal(t, s.Cells["B1"], s.Cells["C5"])

	require.NoError(t, s.Copy("Z9", "A1"))
	assert.Equal(t, "1", s.Display("A1"))

	assert.ErrorIs(t, s.Copy("A1", "A0"), grid.ErrMalformedReference)
}

func TestSheet_Bounds(t *testing.T) {
	s := New()
	col, row := s.Bounds()
	assert.Equal(t, -1, col)
	assert.Equal(t, 0, row)

	_, _ = s.Set("C2", "x")
	_, _ = s.Set("A7", "y")
	col, row = s.Bounds()
	assert.Equal(t, 2, col)
	assert.Equal(t, 7, row)
}

func TestSheet_Layout(t *testing.T) {
	s := New()
	s.ColumnWidths["B"] = 30
	s.RowHeights[4] = 3

	assert.Equal(t, 16, s.ColumnWidth(0, 16))
	assert.Equal(t, 30, s.ColumnWidth(1, 16))
	assert.Equal(t, 1, s.RowHeight(1, 1))
	assert.Equal(t, 3, s.RowHeight(4, 1))
}
