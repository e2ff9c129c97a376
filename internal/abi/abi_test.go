package abi

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestEncodeUint256(t *testing.T) {
	cases := []struct {
		in   *uint256.Int
		want string
	}{
		{uint256.NewInt(0), "0x" + strings.Repeat("0", 64)},
		{uint256.NewInt(1), "0x" + strings.Repeat("0", 63) + "1"},
		// 0.9 wad
		{uint256.NewInt(900000000000000000), "0x" + strings.Repeat("0", 49) + "c7d713b49da0000"},
		{new(uint256.Int).SetAllOne(), "0x" + strings.Repeat("f", 64)},
	}
	for _, c := range cases {
		if got := EncodeUint256(c.in); got != c.want {
			t.Errorf("EncodeUint256(%s) = %s, want %s", c.in.Dec(), got, c.want)
		}
	}
}

func TestEncodeUint32(t *testing.T) {
	want := "0x" + strings.Repeat("0", 56) + "ffffffff"
	if got := EncodeUint32(^uint32(0)); got != want {
		t.Errorf("EncodeUint32(max) = %s, want %s", got, want)
	}
	if got := EncodeUint32(9); !strings.HasSuffix(got, "09") || len(got) != 66 {
		t.Errorf("EncodeUint32(9) = %s", got)
	}
}

func TestDecodeUint256(t *testing.T) {
	v := uint256.NewInt(1111111111111111168)
	got, err := DecodeUint256(EncodeUint256(v))
	if err != nil {
		t.Fatalf("DecodeUint256: %v", err)
	}
	if !got.Eq(v) {
		t.Errorf("decoded %s, want %s", got.Dec(), v.Dec())
	}
	for _, bad := range []string{"", "0x12", strings.Repeat("0", 66), "0x" + strings.Repeat("z", 64)} {
		if _, err := DecodeUint256(bad); err == nil {
			t.Errorf("DecodeUint256(%q): expected error", bad)
		}
	}
}
