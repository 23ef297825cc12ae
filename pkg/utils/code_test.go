package utils

import "testing"

func TestGenerateOTPCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateOTPCode()
		if err != nil {
			t.Fatalf("GenerateOTPCode: %v", err)
		}
		if len(code) != OTPLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), OTPLength)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit %q", code, c)
			}
		}
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a single
	// value would indicate a broken source.
	if len(seen) < 2 {
		t.Error("all generated codes were identical")
	}
}
