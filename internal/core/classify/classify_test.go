package classify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piiredact/internal/core/chunker"
	"piiredact/internal/core/labels"
	"piiredact/internal/core/span"
	perr "piiredact/internal/platform/errors"
	kit "piiredact/internal/platform/testkit"
)

const doc = "Jan Nowak pracuje w Gdańsku. Anna Kowalska mieszka w Sopocie. Tel 600700800."

func fixture(t *testing.T) ([]span.Chunk, []span.EntityHint) {
	t.Helper()
	var es []span.EntityHint
	add := func(sub, label string) {
		s, e := kit.Locate(t, doc, sub)
		es = append(es, span.NewHint(doc, s, e, label, "test"))
	}
	add("Jan", labels.Name)
	add("Nowak", labels.Surname)
	add("Gdańsku", labels.City)
	add("Anna", labels.Name)
	add("Kowalska", labels.Surname)
	add("Sopocie", labels.City)
	add("600700800", labels.Phone)

	var bounds []span.TextSpan
	s1, e1 := kit.Locate(t, doc, "Jan Nowak pracuje w Gdańsku.")
	s2, e2 := kit.Locate(t, doc, "Anna Kowalska mieszka w Sopocie.")
	s3, e3 := kit.Locate(t, doc, "Tel 600700800.")
	bounds = append(bounds, span.TextSpan{Start: s1, End: e1}, span.TextSpan{Start: s2, End: e2}, span.TextSpan{Start: s3, End: e3})

	c := chunker.New(chunker.Budget{ContextWindow: 10, SafetyMargin: 0.2}, chunker.EstimatorFunc(func(string) int { return 2 }))
	return c.Chunk(c.Sentences(doc, bounds), doc, es), es
}

func TestBatches_GroupsByLabelWithRelativeOffsets(t *testing.T) {
	t.Parallel()
	chunks, _ := fixture(t)
	require.Len(t, chunks, 3)

	bs := Batches(1, chunks[1], 40)
	require.Len(t, bs, 3, "name, surname and city groups")
	for _, b := range bs {
		assert.Equal(t, 1, b.Chunk)
		require.Len(t, b.Request.Candidates, 1)
		c := b.Request.Candidates[0]
		assert.Equal(t, 0, c.ID)
		assert.Equal(t, c.Text, b.Request.ChunkText[c.Start:c.End], "offsets are chunk relative")
		assert.Equal(t, b.Spans[0].Start-chunks[1].Start, c.Start)
	}
	assert.Equal(t, labels.Name, bs[0].Request.Candidates[0].Label)
	assert.Equal(t, labels.Surname, bs[1].Request.Candidates[0].Label)
	assert.Equal(t, labels.City, bs[2].Request.Candidates[0].Label)
}

func TestBatches_SplitsAtMaxBatch(t *testing.T) {
	t.Parallel()
	raw := "a b c d e"
	c := span.Chunk{TextSpan: span.TextSpan{Start: 0, End: len(raw)}, Text: raw}
	for i := 0; i < len(raw); i += 2 {
		c.Entities = append(c.Entities, span.NewHint(raw, i, i+1, labels.Name, ""))
	}
	bs := Batches(0, c, 2)
	require.Len(t, bs, 3)
	assert.Len(t, bs[0].Request.Candidates, 2)
	assert.Len(t, bs[2].Request.Candidates, 1)
	assert.Equal(t, 0, bs[2].Request.Candidates[0].ID, "ids restart per request")
	assert.Equal(t, span.TextSpan{Start: 8, End: 9}, bs[2].Spans[0])
}

func TestRunner_ConfirmRoundTrip(t *testing.T) {
	t.Parallel()
	chunks, es := fixture(t)

	got, err := NewRunner(Confirm(), DefaultOptions()).Run(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, FromHints(es), got)
}

func TestRunner_FiltersReplies(t *testing.T) {
	t.Parallel()
	chunks, _ := fixture(t)

	clf := Func(func(_ context.Context, req Request) (Response, error) {
		out := Response{Labels: map[int]string{}}
		for _, c := range req.Candidates {
			switch c.Label {
			case labels.City:
				out.Labels[c.ID] = labels.None
			case labels.Surname:
				out.Labels[c.ID] = "lastName" // not canonical
			default:
				out.Labels[c.ID] = c.Label
			}
		}
		out.Labels[99] = labels.Name // unknown id
		return out, nil
	})

	got, err := NewRunner(clf, Options{Workers: 2}).Run(context.Background(), chunks)
	require.NoError(t, err)

	s, e := kit.Locate(t, doc, "Gdańsku")
	assert.Equal(t, labels.None, got[span.TextSpan{Start: s, End: e}], "none is kept")
	s, e = kit.Locate(t, doc, "Nowak")
	assert.NotContains(t, got, span.TextSpan{Start: s, End: e})
	assert.Len(t, got, 5)
}

func TestRunner_ErrorCancelsAndWraps(t *testing.T) {
	t.Parallel()
	chunks, _ := fixture(t)

	var calls atomic.Int32
	boom := errors.New("connection refused")
	clf := Func(func(ctx context.Context, req Request) (Response, error) {
		calls.Add(1)
		return Response{}, boom
	})
	_, err := NewRunner(clf, Options{Workers: 1}).Run(context.Background(), chunks)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	assert.True(t, perr.Retryable(err))
	assert.Equal(t, int32(1), calls.Load(), "later batches are not started after a failure")
}

func TestRunner_DeadlineMapsToTimeout(t *testing.T) {
	t.Parallel()
	chunks, _ := fixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	clf := Func(func(ctx context.Context, _ Request) (Response, error) {
		<-ctx.Done()
		return Response{}, ctx.Err()
	})
	_, err := NewRunner(clf, DefaultOptions()).Run(ctx, chunks)
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeTimeout), "got %v", err)
}

func TestRunner_BoundsConcurrency(t *testing.T) {
	t.Parallel()
	raw := "abcdefghij"
	var chunks []span.Chunk
	for i := range 10 {
		c := span.Chunk{TextSpan: span.TextSpan{Start: i, End: i + 1}, Text: raw[i : i+1]}
		c.Entities = []span.EntityHint{span.NewHint(raw, i, i+1, labels.Name, "")}
		chunks = append(chunks, c)
	}

	var mu sync.Mutex
	inFlight, peak := 0, 0
	clf := Func(func(ctx context.Context, req Request) (Response, error) {
		mu.Lock()
		inFlight++
		peak = max(peak, inFlight)
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return Confirm().Classify(ctx, req)
	})

	got, err := NewRunner(clf, Options{Workers: 3, RPS: 1000, Burst: 10}).Run(context.Background(), chunks)
	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.LessOrEqual(t, peak, 3)
}

func TestRunner_NoEntities(t *testing.T) {
	t.Parallel()
	called := false
	clf := Func(func(context.Context, Request) (Response, error) {
		called = true
		return Response{}, fmt.Errorf("unexpected")
	})
	got, err := NewRunner(clf, DefaultOptions()).Run(context.Background(), chunker.Chunk(nil, "nic tu nie ma", nil))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}
