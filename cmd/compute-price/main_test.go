package main

import (
	"bytes"
	"math"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/smarsx/larena/internal/abi"
)

const wad = "1000000000000000000"

func TestRunLinearOnSchedule(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"linear",
		"--time_since_start", "0",
		"--num_sold", "0",
		"--initial_price", wad,
		"--per_period_price_decrease", "100000000000000000",
		"--per_period_post_switchover", wad,
	}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	want := "0x" + strings.Repeat("0", 49) + "de0b6b3a7640000\n"
	if stdout.String() != want {
		t.Fatalf("unexpected output %q, want %q", stdout.String(), want)
	}
}

func TestRunUsageErrors(t *testing.T) {
	cases := [][]string{
		nil,
		{"--num_sold", "1"},
		{"unknown"},
		{"linear", "--no_such_flag", "1"},
		{"linear", "extra"},
	}
	for _, args := range cases {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != exitUsage {
			t.Errorf("%v: expected exit %d, got %d", args, exitUsage, code)
		}
		if stdout.Len() != 0 {
			t.Errorf("%v: unexpected stdout %q", args, stdout.String())
		}
	}
}

func TestRunDomainErrors(t *testing.T) {
	cases := map[string][]string{
		"capacity": {
			"logistic",
			"--num_sold", "5",
			"--initial_price", wad,
			"--per_period_price_decrease", "100000000000000000",
			"--logistic_scale", "10000000000000000000",
			"--time_scale", wad,
		},
		"decay": {
			"linear",
			"--num_sold", "0",
			"--initial_price", wad,
			"--per_period_price_decrease", wad,
			"--per_period_post_switchover", wad,
		},
		"missing": {
			"pages",
			"--num_sold", "0",
			"--initial_price", wad,
			"--per_period_price_decrease", "100000000000000000",
		},
	}
	for name, args := range cases {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr); code != exitError {
			t.Errorf("%s: expected exit %d, got %d", name, exitError, code)
		}
		if stdout.Len() != 0 {
			t.Errorf("%s: unexpected stdout %q", name, stdout.String())
		}
	}
}

// logisticReference is the closed-form logistic VRGDA price with no time shift,
// evaluated in the same operation order as the reference pricer.
func logisticReference(elapsed, sold, initialPrice, decay, asymptote, steepness float64) float64 {
	initial := asymptote / (1 + math.Exp(steepness*0))
	value := sold + initial
	return math.Pow(1-decay, elapsed-0+math.Log(-1+asymptote/value)/steepness) * initialPrice
}

func larenaArgs(days, sold int, extra ...string) []string {
	args := []string{
		"larena",
		"--time_since_start", strconv.Itoa(days * 86400),
		"--num_sold", strconv.Itoa(sold),
		"--initial_price", "4200000000000000000",
		"--per_period_price_decrease", "310000000000000000",
		"--logistic_scale", "6392" + strings.TrimPrefix(wad, "1"),
		"--time_scale", "2300000000000000",
	}
	return append(args, extra...)
}

func TestRunLarenaMatchesClosedForm(t *testing.T) {
	switchover := []string{
		"--switchover_time", "30" + strings.TrimPrefix(wad, "1"),
		"--per_period_post_switchover", "5" + strings.TrimPrefix(wad, "1"),
	}
	cases := []struct {
		name string
		days int
		sold int
		args []string
	}{
		{"logistic", 10, 25, nil},
		{"logistic ahead of schedule", 1, 300, nil},
		{"before switchover time", 20, 50, switchover},
		{"after switchover time without reaching its units", 40, 50, switchover},
	}
	for _, tc := range cases {
		var stdout, stderr bytes.Buffer
		if code := run(larenaArgs(tc.days, tc.sold, tc.args...), &stdout, &stderr); code != exitOK {
			t.Fatalf("%s: expected exit 0, got %d", tc.name, code)
		}
		got, err := abi.DecodeUint256(strings.TrimSpace(stdout.String()))
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}

		ref := logisticReference(float64(tc.days), float64(tc.sold), 4.2, 0.31, 6392, 0.0023)
		want, _ := new(big.Float).SetFloat64(math.Trunc(ref * 1e18)).Int(nil)
		if got.ToBig().Cmp(want) != 0 {
			t.Errorf("%s: got %s, want %s", tc.name, got.Dec(), want)
		}
	}
}

func TestRunLarenaPostSwitchover(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := larenaArgs(40, 200,
		"--switchover_time", "30"+strings.TrimPrefix(wad, "1"),
		"--per_period_post_switchover", "5"+strings.TrimPrefix(wad, "1"),
	)
	if code := run(args, &stdout, &stderr); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	got, err := abi.DecodeUint256(strings.TrimSpace(stdout.String()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// linear at 5 per day from the units the logistic schedule expects by day 30
	soldBy30 := 6392/(1+math.Exp(-0.0023*30)) - 3196
	target := 30 + (200-soldBy30)/5
	want := 4.2 * math.Pow(0.69, 40-target) * 1e18
	price, _ := new(big.Float).SetInt(got.ToBig()).Float64()
	if math.Abs(price-want) > 1e-9*want {
		t.Errorf("got %v, want %v", price, want)
	}
}
