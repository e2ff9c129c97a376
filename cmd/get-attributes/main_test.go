package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const tokenJSON = `{
  "name": "Page 7",
  "description": "a page",
  "image": "data:image/svg+xml;base64,AAAA",
  "attributes": [
    {"trait_type": "emission multiple", "value": 3},
    {"trait_type": "status", "value": "minted"}
  ]
}`

func writeToken(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write token: %v", err)
	}
	return path
}

func TestRunFields(t *testing.T) {
	path := writeToken(t, tokenJSON)
	cases := map[string]string{
		"name":             "Page 7\n",
		"description":      "a page\n",
		"content":          "data:image/svg+xml;base64,AAAA\n",
		"status":           "minted\n",
		"emissionMultiple": "0x" + strings.Repeat("0", 63) + "3\n",
	}
	for field, want := range cases {
		var stdout, stderr bytes.Buffer
		if code := run([]string{field, "--path", path}, &stdout, &stderr); code != exitOK {
			t.Fatalf("%s: expected exit 0, got %d", field, code)
		}
		if stdout.String() != want {
			t.Errorf("%s: got %q, want %q", field, stdout.String(), want)
		}
	}
}

func TestRunMissingStatus(t *testing.T) {
	path := writeToken(t, `{"name":"x","description":"y","animation_url":"z","attributes":[{"value":1}]}`)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"status", "--path", path}, &stdout, &stderr); code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if stdout.String() != "\n" {
		t.Fatalf("expected empty line, got %q", stdout.String())
	}
}

func TestRunErrors(t *testing.T) {
	path := writeToken(t, tokenJSON)
	cases := []struct {
		args []string
		code int
	}{
		{nil, exitUsage},
		{[]string{"name"}, exitUsage},
		{[]string{"bogus", "--path", path}, exitUsage},
		{[]string{"name", "--path", filepath.Join(t.TempDir(), "missing.json")}, exitError},
		{[]string{"name", "--path", writeToken(t, "{")}, exitError},
	}
	for _, tc := range cases {
		var stdout, stderr bytes.Buffer
		if code := run(tc.args, &stdout, &stderr); code != tc.code {
			t.Errorf("%v: expected exit %d, got %d", tc.args, tc.code, code)
		}
		if stdout.Len() != 0 {
			t.Errorf("%v: unexpected stdout %q", tc.args, stdout.String())
		}
	}
}
