package discovery

import (
	"net"
	"testing"
)

func TestSortIPsByPreference(t *testing.T) {
	in := []net.IP{
		net.ParseIP("127.0.0.1"),
		net.ParseIP("fe80::1"),
		net.ParseIP("192.168.1.20"),
		net.ParseIP("fd00::5"),
		net.ParseIP("8.8.8.8"),
		net.ParseIP("2001:db8::7"),
		net.ParseIP("ff02::fd"),
	}
	want := []string{
		"2001:db8::7",
		"8.8.8.8",
		"192.168.1.20",
		"fd00::5",
		"fe80::1",
		"127.0.0.1",
		"ff02::fd",
	}

	got := SortIPsByPreference(in)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	if in[0].String() != "127.0.0.1" {
		t.Error("SortIPsByPreference() modified its input")
	}
}

func TestSortIPsByPreferenceStable(t *testing.T) {
	in := []net.IP{net.ParseIP("10.0.0.2"), net.ParseIP("10.0.0.1")}
	got := SortIPsByPreference(in)
	if !got[0].Equal(in[0]) || !got[1].Equal(in[1]) {
		t.Errorf("equal-priority order changed: %v", got)
	}
}

func TestIsUniqueLocal(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"fc00::1", true},
		{"fdff:ffff::1", true},
		{"fe80::1", false},
		{"2001:db8::1", false},
		{"10.0.0.1", false},
	}
	for _, tc := range tests {
		if got := isUniqueLocal(net.ParseIP(tc.ip)); got != tc.want {
			t.Errorf("isUniqueLocal(%s) = %v, want %v", tc.ip, got, tc.want)
		}
	}
}
