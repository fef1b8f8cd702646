package registration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lastweeknextday/review-gateway/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewStore(NewFileBackend(dir, logger), logger), logger), dir
}

func TestService_CheckRegistrationIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AssignRegistrationToItem(ctx, "Widget", "a.com", "Widget_Canonical"))

	first, ok1 := svc.CheckRegistration(ctx, "Widget", "a.com")
	second, ok2 := svc.CheckRegistration(ctx, "Widget", "a.com")
	assert.Equal(t, first, second)
	assert.Equal(t, ok1, ok2)

	missing1, okm1 := svc.CheckRegistration(ctx, "Gadget", "a.com")
	missing2, okm2 := svc.CheckRegistration(ctx, "Gadget", "a.com")
	assert.Equal(t, missing1, missing2)
	assert.False(t, okm1)
	assert.False(t, okm2)
}

func TestService_QueueRoundtrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.QueueRegistration(ctx, "Widget", "a.com"))

	assert.True(t, svc.CheckQueue(ctx, "Widget", "a.com"))
	assert.Equal(t, []interfaces.PendingRegistration{
		{ProposedItemName: "Widget", Domain: "a.com"},
	}, svc.GetQueue(ctx))
}

func TestService_RemoveFromQueue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.QueueRegistration(ctx, "Widget", "a.com"))
	require.NoError(t, svc.QueueRegistration(ctx, "Gadget", "a.com"))
	require.NoError(t, svc.RemoveRegistrationFromQueue(ctx, "Widget", "a.com"))

	assert.False(t, svc.CheckQueue(ctx, "Widget", "a.com"))
	assert.True(t, svc.CheckQueue(ctx, "Gadget", "a.com"))
	assert.NotContains(t, svc.GetQueue(ctx), interfaces.PendingRegistration{ProposedItemName: "Widget", Domain: "a.com"})
}

func TestService_RemoveDropsAllDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.QueueRegistration(ctx, "Widget", "a.com"))
	require.NoError(t, svc.QueueRegistration(ctx, "Widget", "a.com"))
	assert.Len(t, svc.GetQueue(ctx), 2, "duplicates are not rejected on insert")

	require.NoError(t, svc.RemoveRegistrationFromQueue(ctx, "Widget", "a.com"))
	assert.Empty(t, svc.GetQueue(ctx))
}

func TestService_AssignmentResolvesLookup(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AssignRegistrationToItem(ctx, "Widget", "a.com", "Widget_Canonical"))

	name, ok := svc.CheckRegistration(ctx, "Widget", "a.com")
	assert.True(t, ok)
	assert.Equal(t, "Widget_Canonical", name)
}

func TestService_AssignmentDoesNotDequeue(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.QueueRegistration(ctx, "Widget", "a.com"))
	require.NoError(t, svc.AssignRegistrationToItem(ctx, "Widget", "a.com", "Widget_Canonical"))

	assert.True(t, svc.CheckQueue(ctx, "Widget", "a.com"))
}

func TestService_UnknownKey(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	name, ok := svc.CheckRegistration(ctx, "Nope", "nowhere.com")
	assert.False(t, ok)
	assert.Empty(t, name)
	assert.False(t, svc.CheckQueue(ctx, "Nope", "nowhere.com"))
}

func TestService_FirstAssignmentWins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.AssignRegistrationToItem(ctx, "Widget", "a.com", "First"))
	require.NoError(t, svc.AssignRegistrationToItem(ctx, "Widget", "a.com", "Second"))

	name, ok := svc.CheckRegistration(ctx, "Widget", "a.com")
	assert.True(t, ok)
	assert.Equal(t, "First", name)
	assert.Len(t, svc.GetRegistrationMapping(ctx), 2)
}

func TestService_DomainIsCaseSensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.QueueRegistration(ctx, "Widget", "A.com"))
	require.NoError(t, svc.AssignRegistrationToItem(ctx, "Widget", "A.com", "Widget_Canonical"))

	assert.False(t, svc.CheckQueue(ctx, "Widget", "a.com"))
	_, ok := svc.CheckRegistration(ctx, "Widget", "a.com")
	assert.False(t, ok)
	_, ok = svc.CheckRegistration(ctx, "widget", "A.com")
	assert.False(t, ok)
}

func TestService_EmptyKeysAreLegal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.QueueRegistration(ctx, "", ""))
	assert.True(t, svc.CheckQueue(ctx, "", ""))
	assert.False(t, svc.CheckQueue(ctx, "Widget", ""))
}

func TestService_StateSurvivesRestart(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.QueueRegistration(ctx, "Widget", "a.com"))
	require.NoError(t, svc.AssignRegistrationToItem(ctx, "Gadget", "b.com", "Gadget_Canonical"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	restarted := NewService(NewStore(NewFileBackend(dir, logger), logger), logger)

	assert.True(t, restarted.CheckQueue(ctx, "Widget", "a.com"))
	name, ok := restarted.CheckRegistration(ctx, "Gadget", "b.com")
	assert.True(t, ok)
	assert.Equal(t, "Gadget_Canonical", name)
}

func TestService_UnavailableStorage(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := NewFileBackend(filepath.Join(blocker, "reg"), logger)
	require.False(t, backend.Available())

	svc := NewService(NewStore(backend, logger), logger)
	ctx := context.Background()

	assert.Empty(t, svc.GetQueue(ctx))
	assert.Empty(t, svc.GetRegistrationMapping(ctx))
	assert.False(t, svc.CheckQueue(ctx, "Widget", "a.com"))
	_, ok := svc.CheckRegistration(ctx, "Widget", "a.com")
	assert.False(t, ok)

	assert.ErrorIs(t, svc.QueueRegistration(ctx, "Widget", "a.com"), interfaces.ErrStorageUnavailable)
	assert.ErrorIs(t, svc.AssignRegistrationToItem(ctx, "Widget", "a.com", "W"), interfaces.ErrStorageUnavailable)
	assert.ErrorIs(t, svc.RemoveRegistrationFromQueue(ctx, "Widget", "a.com"), interfaces.ErrStorageUnavailable)
}

func TestService_ConcurrentMutationsKeepEveryRecord(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	errs := make(chan error, 2*n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- svc.QueueRegistration(ctx, fmt.Sprintf("item-%d", i), "a.com")
		}(i)
		go func(i int) {
			defer wg.Done()
			errs <- svc.AssignRegistrationToItem(ctx, fmt.Sprintf("item-%d", i), "b.com", fmt.Sprintf("canonical-%d", i))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, svc.GetQueue(ctx), n)
	assert.Len(t, svc.GetRegistrationMapping(ctx), n)
	for i := 0; i < n; i++ {
		assert.True(t, svc.CheckQueue(ctx, fmt.Sprintf("item-%d", i), "a.com"))
		name, ok := svc.CheckRegistration(ctx, fmt.Sprintf("item-%d", i), "b.com")
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprintf("canonical-%d", i), name)
	}
}

// TestService_MatchesReferenceModel drives the service with random operation
// sequences and compares it against a plain slice model.
func TestService_MatchesReferenceModel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	names := rapid.SampledFrom([]string{"Widget", "widget", "Gadget", ""})
	domains := rapid.SampledFrom([]string{"a.com", "A.com", "b.com"})
	canon := rapid.StringMatching(`[A-Z][a-z]{0,6}_Canonical`)

	rapid.Check(t, func(r *rapid.T) {
		dir, err := os.MkdirTemp("", "registration-rapid-")
		if err != nil {
			r.Fatalf("temp dir: %v", err)
		}
		defer os.RemoveAll(dir)

		svc := NewService(NewStore(NewFileBackend(dir, logger), logger), logger)
		ctx := context.Background()

		var queue []interfaces.PendingRegistration
		var mapping []interfaces.ApprovedRegistration

		steps := rapid.IntRange(1, 25).Draw(r, "steps")
		for i := 0; i < steps; i++ {
			name := names.Draw(r, "name")
			domain := domains.Draw(r, "domain")

			switch rapid.IntRange(0, 3).Draw(r, "op") {
			case 0:
				if err := svc.QueueRegistration(ctx, name, domain); err != nil {
					r.Fatalf("queue: %v", err)
				}
				queue = append(queue, interfaces.PendingRegistration{ProposedItemName: name, Domain: domain})
			case 1:
				if err := svc.RemoveRegistrationFromQueue(ctx, name, domain); err != nil {
					r.Fatalf("remove: %v", err)
				}
				kept := queue[:0]
				for _, q := range queue {
					if !q.Matches(name, domain) {
						kept = append(kept, q)
					}
				}
				queue = kept
			case 2:
				item := canon.Draw(r, "item")
				if err := svc.AssignRegistrationToItem(ctx, name, domain, item); err != nil {
					r.Fatalf("assign: %v", err)
				}
				mapping = append(mapping, interfaces.ApprovedRegistration{ProposedItemName: name, Domain: domain, ItemName: item})
			case 3:
				wantItem, wantOK := "", false
				for _, m := range mapping {
					if m.Matches(name, domain) {
						wantItem, wantOK = m.ItemName, true
						break
					}
				}
				gotItem, gotOK := svc.CheckRegistration(ctx, name, domain)
				if gotItem != wantItem || gotOK != wantOK {
					r.Fatalf("CheckRegistration(%q, %q) = %q, %v; want %q, %v", name, domain, gotItem, gotOK, wantItem, wantOK)
				}
			}

			wantQueued := false
			for _, q := range queue {
				if q.Matches(name, domain) {
					wantQueued = true
					break
				}
			}
			if got := svc.CheckQueue(ctx, name, domain); got != wantQueued {
				r.Fatalf("CheckQueue(%q, %q) = %v; want %v", name, domain, got, wantQueued)
			}
		}

		if got := svc.GetQueue(ctx); len(got) != len(queue) {
			r.Fatalf("queue length %d; want %d", len(got), len(queue))
		}
		if got := svc.GetRegistrationMapping(ctx); len(got) != len(mapping) {
			r.Fatalf("mapping length %d; want %d", len(got), len(mapping))
		}
	})
}
