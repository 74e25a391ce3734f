package date

import "testing"

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	// The 32nd of January is normalized to the 1st of February.
	d := New(2025, 1, 32)
	if got, want := d.String(), "2025-02-01"; got != want {
		t.Errorf("New(2025, 1, 32) = %v want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2019-07-29", want: "2019-07-29"},
		{in: "2019-7-1", want: "2019-07-01"},
		{in: "not-a-date", wantErr: true},
		{in: "2019/07/29", wantErr: true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got.String() != tc.want {
			t.Errorf("Parse(%q) = %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestCompare(t *testing.T) {
	early, late := New(2025, 1, 1), New(2025, 1, 2)
	if early.Compare(late) != -1 || late.Compare(early) != 1 || early.Compare(early) != 0 {
		t.Errorf("Compare is not a total order on days")
	}
}

func TestIterate(t *testing.T) {
	a := new(History[float64])
	a.Append(New(2025, 1, 1), 1).Append(New(2025, 1, 3), 3)
	b := new(History[float64])
	b.Append(New(2025, 1, 2), 2).Append(New(2025, 1, 3), 30)

	var got []string
	for on := range Iterate(a, b) {
		got = append(got, on.String())
	}
	want := []string{"2025-01-01", "2025-01-02", "2025-01-03"}
	if len(got) != len(want) {
		t.Fatalf("Iterate() yielded %v dates, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate()[%d] = %v want %v", i, got[i], want[i])
		}
	}
}
