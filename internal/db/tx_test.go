package db

import "testing"

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?,?,?"},
	}
	for _, tt := range tests {
		if got := Placeholders(tt.n); got != tt.want {
			t.Errorf("Placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestInt64Args(t *testing.T) {
	args := Int64Args([]int64{4, 5})
	if len(args) != 2 {
		t.Fatalf("len = %d, want 2", len(args))
	}
	if args[0].(int64) != 4 || args[1].(int64) != 5 {
		t.Errorf("args = %v, want [4 5]", args)
	}
}
