package auth

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("password stored in clear")
	}
	if err := ComparePassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("ComparePassword rejected correct password: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("ComparePassword accepted wrong password")
	}
}

func TestHashPasswordInvalidCostFallsBack(t *testing.T) {
	for _, cost := range []int{-1, 0, 99} {
		hash, err := HashPassword("s3cret-pass", cost)
		if err != nil {
			t.Fatalf("cost %d: HashPassword failed: %v", cost, err)
		}
		if err := ComparePassword(hash, "s3cret-pass"); err != nil {
			t.Fatalf("cost %d: hash does not verify: %v", cost, err)
		}
	}
}
