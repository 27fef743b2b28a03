package viz

import (
	"math/bits"
	"strings"
	"testing"
)

func countDots(c *Canvas) int {
	total := 0
	for _, row := range c.Grid {
		for _, r := range row {
			total += bits.OnesCount8(uint8(r - 0x2800))
		}
	}
	return total
}

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("top-left dot: got %#x, want 0x2801", c.Grid[0][0])
	}

	c.Set(1, 3)
	if c.Grid[0][0]&0x80 == 0 {
		t.Errorf("bottom-right dot of first cell not set: %#x", c.Grid[0][0])
	}

	// Out-of-range coordinates must be ignored.
	c.Set(-1, 0)
	c.Set(0, -1)
	c.Set(8, 0)
	c.Set(0, 8)
	if got := countDots(c); got != 2 {
		t.Errorf("got %d dots after out-of-range sets, want 2", got)
	}
}

func TestCanvasDrawLineHorizontal(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)

	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != 0x2809 {
			t.Errorf("cell %d: got %#x, want 0x2809", col, c.Grid[0][col])
		}
	}
	if got := countDots(c); got != 8 {
		t.Errorf("got %d dots, want 8", got)
	}
}

func TestCanvasMark(t *testing.T) {
	c := NewCanvas(4, 4)
	c.Mark(4, 8)
	if got := countDots(c); got != 9 {
		t.Errorf("got %d dots, want 9", got)
	}

	// A corner mark clips without panicking.
	c.Clear()
	c.Mark(0, 0)
	if got := countDots(c); got != 4 {
		t.Errorf("corner mark: got %d dots, want 4", got)
	}
}

func TestCanvasClear(t *testing.T) {
	c := NewCanvas(3, 3)
	c.DrawLine(0, 0, 5, 11)
	c.Clear()
	if got := countDots(c); got != 0 {
		t.Errorf("got %d dots after clear, want 0", got)
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(5, 3)
	s := c.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 5 {
			t.Errorf("line %d has %d runes, want 5", i, n)
		}
	}
}
