package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 {
		t.Errorf("Width() = %d, expected 80", s.Width())
	}
	if s.Height() != 24 {
		t.Errorf("Height() = %d, expected 24", s.Height())
	}
	if s.Get(10, 10) != ' ' {
		t.Errorf("New screen should be filled with spaces, got %q", s.Get(10, 10))
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(5, 5, 'E', ColorRed)
	cell := s.GetCell(5, 5)
	if cell.Rune != 'E' || cell.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected red 'E'", cell)
	}

	// Out of bounds is ignored
	s.SetColored(-1, 0, 'A', ColorRed)
	s.SetColored(100, 0, 'A', ColorRed)
	if s.Get(-1, 0) != ' ' {
		t.Error("Out of bounds Get should return space")
	}
}

func TestScreenDrawTextColored(t *testing.T) {
	s := NewScreen(20, 2)
	s.DrawTextColored(2, 1, "Wave 3", ColorYellow)

	if got := strings.TrimSpace(s.Row(1)); got != "Wave 3" {
		t.Errorf("Row(1) = %q, expected %q", got, "Wave 3")
	}
	if s.GetCell(2, 1).Color != ColorYellow {
		t.Errorf("text color = %v, expected yellow", s.GetCell(2, 1).Color)
	}

	// Clipped at the right edge without panicking
	s.DrawText(18, 0, "overflow")
	if s.Get(19, 0) != 'v' {
		t.Errorf("Get(19, 0) = %q, expected 'v'", s.Get(19, 0))
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawBox(NewRect(0, 0, 5, 4), ColorGray)

	want := []string{"┌───┐", "│   │", "│   │", "└───┘"}
	for y, row := range want {
		if got := s.Row(y); got != row {
			t.Errorf("Row(%d) = %q, expected %q", y, got, row)
		}
	}
}

func TestScreenResizeAndClear(t *testing.T) {
	s := NewScreen(4, 2)
	s.Set(0, 0, 'X')
	s.Resize(6, 3)

	if s.Width() != 6 || s.Height() != 3 {
		t.Fatalf("size = %dx%d, expected 6x3", s.Width(), s.Height())
	}
	if s.Get(0, 0) != ' ' {
		t.Error("Resize should clear the buffer")
	}

	s.Set(1, 1, 'Y')
	s.Clear()
	if s.String() != "      \n      \n      " {
		t.Errorf("String() after Clear = %q", s.String())
	}
}
