package canon

import "testing"

func TestDenylistExact(t *testing.T) {
	d := NewDenylist([]string{"alabama-state", "jackson-state"}, "", nil)

	if !d.Rejected("alabama-state") {
		t.Error("alabama-state should be rejected by the exact set")
	}
	if d.Rejected("alabama") {
		t.Error("alabama should not be rejected")
	}
}

func TestDenylistSuffixWithException(t *testing.T) {
	d := NewDenylist(nil, "-am", []string{"texas-am"})

	tests := []struct {
		id   string
		want bool
	}{
		{"florida-am", true},
		{"alabama-am", true},
		{"prairie-view-am", true},
		{"texas-am", false}, // the one FBS program carrying the suffix
		{"texas", false},
	}
	for _, tt := range tests {
		if got := d.Rejected(tt.id); got != tt.want {
			t.Errorf("Rejected(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestDenylistChecksAreORd(t *testing.T) {
	d := NewDenylist([]string{"portland-state"}, "-am", []string{"texas-am"})

	if !d.Rejected("portland-state") || !d.Rejected("florida-am") {
		t.Error("both the exact set and the suffix pattern must reject independently")
	}
}
