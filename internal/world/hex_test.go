package world

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCoordAcceptsBothEncodings(t *testing.T) {
	cases := []struct {
		in   string
		want HexCoord
	}{
		{"050.050", HexCoord{0, 0}},
		{"047.053", HexCoord{-3, 3}},
		{"-3,3", HexCoord{-3, 3}},
		{" 2, -1 ", HexCoord{2, -1}},
		{"0,0", HexCoord{0, 0}},
		{"garbage", Origin},
		{"", Origin},
		{"1,2,3", Origin},
		{"abc.def", Origin},
	}
	for _, tc := range cases {
		if got := ParseCoord(tc.in); got != tc.want {
			t.Fatalf("ParseCoord(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeKeyIsCanonical(t *testing.T) {
	if got := NormalizeKey("-3,4"); got != "047.054" {
		t.Fatalf("expected 047.054, got %s", got)
	}
	if got := NormalizeKey("047.054"); got != "047.054" {
		t.Fatalf("expected key to be stable, got %s", got)
	}
	if got := NormalizeKey("???"); got != Origin.Key() {
		t.Fatalf("expected origin key for malformed input, got %s", got)
	}
}

func TestHexCoordJSONMapKeys(t *testing.T) {
	in := map[HexCoord]int{{Q: -3, R: 4}: 7, {Q: 1, R: 0}: 2}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"047.054":7,"051.050":2}` {
		t.Fatalf("unexpected encoding %s", raw)
	}

	var out map[HexCoord]int
	if err := json.Unmarshal([]byte(`{"-3,4":7,"051.050":2}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("decoded keys differ (-want +got):\n%s", diff)
	}
}

func TestHexesInRange(t *testing.T) {
	for radius, want := range []int{1, 7, 19, 37} {
		got := HexesInRange(HexCoord{}, radius)
		if len(got) != want {
			t.Fatalf("radius %d: expected %d hexes, got %d", radius, want, len(got))
		}
		for _, c := range got {
			if Distance(c, HexCoord{}) > radius {
				t.Fatalf("radius %d: %v is out of range", radius, c)
			}
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(HexCoord{0, 0}, HexCoord{3, -1}); d != 3 {
		t.Fatalf("expected 3, got %d", d)
	}
	if d := Distance(HexCoord{-2, 2}, HexCoord{2, -2}); d != 4 {
		t.Fatalf("expected 4, got %d", d)
	}
}
