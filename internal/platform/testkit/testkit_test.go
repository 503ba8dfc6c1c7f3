package testkit

import (
	"sync"
	"testing"
	"time"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()
	if r := MustPanic(t, func() { panic("boom") }); r != "boom" {
		t.Fatalf("recovered %v", r)
	}
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()
	MustContain(t, "[NAME] z Gdańska", "Gdańska")
}

func TestLocate(t *testing.T) {
	t.Parallel()
	raw := "Łódź i Łódź"
	s, e := Locate(t, raw, "Łódź")
	if s != 0 || e != len("Łódź") {
		t.Fatalf("Locate = %d,%d", s, e)
	}
	s, e = LocateAfter(t, raw, "Łódź", 1)
	if raw[s:e] != "Łódź" || s == 0 {
		t.Fatalf("LocateAfter = %d,%d", s, e)
	}
}

var (
	estimate    = func(s string) int { return len(s) / 4 }
	workerCount = 4
)

func TestSwap_FunctionAndRestore(t *testing.T) {
	t.Run("swap", func(t *testing.T) {
		Swap(t, &estimate, func(string) int { return 99 })
		if got := estimate("abcd"); got != 99 {
			t.Fatalf("swap did not take effect, got %d", got)
		}
	})
	if got := estimate("abcdefgh"); got != 2 {
		t.Fatalf("swap did not restore original, got %d", got)
	}
}

func TestSwap_Value(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		Swap(t, &workerCount, 1)
		if workerCount != 1 {
			t.Fatalf("swap failed, got %d", workerCount)
		}
	})
	if workerCount != 4 {
		t.Fatalf("swap did not restore original, got %d", workerCount)
	}
}

func TestSerial_GuardsConcurrentSubtests(t *testing.T) {
	var mu sync.Mutex
	var seq []string
	record := func(s string) {
		mu.Lock()
		seq = append(seq, s)
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				record(name + "-start")
				time.Sleep(20 * time.Millisecond)
				record(name + "-end")
			})
		}
	})

	// parallel subtests finish before "group" returns
	if len(seq) != 4 {
		t.Fatalf("unexpected sequence %v", seq)
	}
	if seq[0][0] != seq[1][0] || seq[2][0] != seq[3][0] {
		t.Fatalf("subtests interleaved: %v", seq)
	}
}
