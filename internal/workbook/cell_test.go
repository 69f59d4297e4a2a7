package workbook

import (
	"testing"
	"time"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		input string
		want  Cell
	}{
		{"123", Number(123)},
		{"123.45", Number(123.45)},
		{"-100", Number(-100)},
		{"hello", Text("hello")},
		{"", Empty()},
		{"Infinity", Text("Infinity")},
	}

	for _, tt := range tests {
		got := ParseValue(tt.input)
		if !got.Equal(tt.want) {
			t.Errorf("ParseValue(%q) = %v (%s), want %v (%s)",
				tt.input, got, got.Kind(), tt.want, tt.want.Kind())
		}
	}
}

func TestCell_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want bool
	}{
		{"zero cell", Cell{}, true},
		{"empty constructor", Empty(), true},
		{"empty text", Text(""), true},
		{"blank text", Text("   "), true},
		{"text", Text("x"), false},
		{"zero number", Number(0), false},
		{"false bool", Bool(false), false},
		{"date", Date(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCell_Float(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   float64
		wantOK bool
	}{
		{"number", Number(12.5), 12.5, true},
		{"numeric text", Text("42"), 42, true},
		{"padded numeric text", Text(" 7 "), 7, true},
		{"exponent text", Text("1e3"), 1000, true},
		{"non-numeric text", Text("abc"), 0, false},
		{"inf text", Text("inf"), 0, false},
		{"true", Bool(true), 1, true},
		{"false", Bool(false), 0, true},
		{"empty", Empty(), 0, false},
		{"date", Date(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)), 44927, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Float()
			if ok != tt.wantOK {
				t.Fatalf("Float() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Float() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCell_String(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{Text("abc"), "abc"},
		{Number(1000), "1000"},
		{Number(2.5), "2.5"},
		{Bool(true), "TRUE"},
		{Empty(), ""},
		{Date(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)), "05/03/2024"},
	}

	for _, tt := range tests {
		if got := tt.cell.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCell_WithHighlight(t *testing.T) {
	c := Text("x")
	h := c.WithHighlight()

	if c.Highlighted() {
		t.Error("original cell should not be highlighted")
	}
	if !h.Highlighted() {
		t.Error("WithHighlight() result should be highlighted")
	}
	if !c.Equal(h) {
		t.Error("highlight should not affect value equality")
	}
}

func TestSerialToTime(t *testing.T) {
	tests := []struct {
		name   string
		serial float64
		want   time.Time
		wantOK bool
	}{
		{"unix epoch", 25569, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"2023-01-01", 44927, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"noon", 44927.5, time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC), true},
		{"spreadsheet epoch", 0, time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC), true},
		{"out of range", 1e12, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SerialToTime(tt.serial)
			if ok != tt.wantOK {
				t.Fatalf("SerialToTime(%v) ok = %v, want %v", tt.serial, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("SerialToTime(%v) = %v, want %v", tt.serial, got, tt.want)
			}
		})
	}
}

func TestTimeToSerial_RoundTrip(t *testing.T) {
	in := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	serial := TimeToSerial(in)
	out, ok := SerialToTime(serial)
	if !ok {
		t.Fatalf("SerialToTime(%v) not ok", serial)
	}
	if !out.Equal(in) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}
