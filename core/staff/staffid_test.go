package staff

import (
	"math/rand"
	"regexp"
	"testing"
)

func fixedIntn(v int) IntnFunc {
	return func(n int) int { return v % n }
}

func TestGenerateStaffID(t *testing.T) {
	tests := []struct {
		name      string
		staffName string
		intn      IntnFunc
		want      string
	}{
		{name: "two letters + 3 digits", staffName: "Ann Lee", intn: fixedIntn(23), want: "AN123"},
		{name: "upper-cased", staffName: "bob", intn: fixedIntn(0), want: "BO100"},
		{name: "upper bound", staffName: "Ze", intn: fixedIntn(899), want: "ZE999"},
		{name: "multi-byte characters", staffName: "élodie", intn: fixedIntn(5), want: "ÉL105"},
		{name: "single character", staffName: "A", intn: fixedIntn(0), want: "STF1000"},
		{name: "single character upper bound", staffName: "A", intn: fixedIntn(8999), want: "STF9999"},
		{name: "empty name", staffName: "", intn: fixedIntn(234), want: "STF1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateStaffID(tt.staffName, tt.intn); got != tt.want {
				t.Errorf("GenerateStaffID() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateStaffID_shape(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	nameRegex := regexp.MustCompile(`^AN[1-9][0-9]{2}$`)
	fallbackRegex := regexp.MustCompile(`^STF[1-9][0-9]{3}$`)

	for i := 0; i < 1000; i++ {
		if id := GenerateStaffID("Ann Lee", rnd.Intn); !nameRegex.MatchString(id) {
			t.Fatalf("GenerateStaffID() = %q; want match %s", id, nameRegex)
		}
		if id := GenerateStaffID("A", rnd.Intn); !fallbackRegex.MatchString(id) {
			t.Fatalf("GenerateStaffID() = %q; want match %s", id, fallbackRegex)
		}
	}
}
