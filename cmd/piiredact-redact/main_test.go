package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"piiredact/internal/platform/testkit"
)

func writeInput(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRun_PlainText(t *testing.T) {
	in := writeInput(t, "Mój PESEL to 02070803628, karta 4111111111111111.")
	var out bytes.Buffer
	err := run(context.Background(), options{in: in, mode: "context", out: "text", timeout: time.Minute}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Mój PESEL to [NATIONAL-ID-NUMBER], karta [PAYMENT-CARD-NUMBER]."
	if got := strings.TrimSpace(out.String()); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRun_AnnotatorJSONClassified(t *testing.T) {
	in := writeInput(t, `{"text":"Mój PESEL to 02070803628."}`)
	var out bytes.Buffer
	o := options{in: in, asJSON: true, classify: true, mode: "context", out: "json", timeout: time.Minute}
	if err := run(context.Background(), o, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got struct {
		Redacted string `json:"redacted"`
		Final    struct {
			Redacted string `json:"redacted"`
		} `json:"final"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if got.Final.Redacted != "Mój PESEL to [NATIONAL-ID-NUMBER]." {
		t.Fatalf("final %q", got.Final.Redacted)
	}
	if got.Redacted != got.Final.Redacted {
		t.Fatalf("confirming classifier changed the output: %q vs %q", got.Redacted, got.Final.Redacted)
	}
}

func TestRun_BadFlags(t *testing.T) {
	for _, o := range []options{
		{out: "yaml", mode: "context"},
		{out: "text", mode: "sideways"},
	} {
		if err := run(context.Background(), o, &bytes.Buffer{}); err == nil {
			t.Fatalf("want error for %+v", o)
		}
	}
}

func TestRun_BadJSON(t *testing.T) {
	in := writeInput(t, `{"text":`)
	err := run(context.Background(), options{in: in, asJSON: true, mode: "context", out: "text", timeout: time.Minute}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("want decode error")
	}
}

func TestRun_Stdin(t *testing.T) {
	testkit.Swap[io.Reader](t, &stdin, strings.NewReader("pisz na jan.kowalski@example.pl"))
	var out bytes.Buffer
	if err := run(context.Background(), options{in: "-", mode: "context", out: "text", timeout: time.Minute}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := strings.TrimSpace(out.String()); strings.Contains(got, "example.pl") {
		t.Fatalf("email survived: %q", got)
	}
}
