package lang

import "testing"

func TestValueTruthiness(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null, false},
		{"zero", NumberValue(0), false},
		{"nonzero", NumberValue(1), true},
		{"empty string", StringValue(""), false},
		{"nonempty string", StringValue("a"), true},
		{"false", BoolValue(false), false},
		{"true", BoolValue(true), true},
	}
	for _, c := range cases {
		if got := c.v.IsTruthy(); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestValueEquals(t *testing.T) {
	if !Null.Equals(Null) {
		t.Error("null should equal null")
	}
	if Null.Equals(NumberValue(0)) {
		t.Error("null should not equal number 0")
	}
	if !NumberValue(1).Equals(NumberValue(1)) {
		t.Error("equal numbers should be equal")
	}
	if NumberValue(1).Equals(NumberValue(2)) {
		t.Error("unequal numbers should not be equal")
	}
	if !StringValue("a").Equals(StringValue("a")) {
		t.Error("equal strings should be equal")
	}
}

func TestValueStringNumberDropsTrailingZero(t *testing.T) {
	if got := NumberValue(3).String(); got != "3" {
		t.Errorf("got %q, want %q", got, "3")
	}
	if got := NumberValue(3.5).String(); got != "3.5" {
		t.Errorf("got %q, want %q", got, "3.5")
	}
}

func TestValueStringNull(t *testing.T) {
	if got := Null.String(); got != "null" {
		t.Errorf("got %q, want %q", got, "null")
	}
}
