package controllers

import "testing"

func TestCariogramScale(t *testing.T) {
	cases := []struct {
		def  float64
		want string
	}{
		{0, "Sangat Rendah"},
		{1.1, "Sangat Rendah"},
		{1.2, "Rendah"},
		{2.6, "Rendah"},
		{2.7, "Sedang"},
		{4.4, "Sedang"},
		{4.5, "Tinggi"},
		{6.5, "Tinggi"},
		{6.6, "Sangat Tinggi"},
		{12, "Sangat Tinggi"},
	}

	for _, tc := range cases {
		if got := CariogramScale(tc.def); got != tc.want {
			t.Errorf("CariogramScale(%v) = %q, want %q", tc.def, got, tc.want)
		}
	}
}
