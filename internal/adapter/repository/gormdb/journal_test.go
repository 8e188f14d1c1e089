package gormdb

import (
	"context"
	"testing"
	"time"

	journalDomain "paychain/internal/domain/journal"
	"paychain/internal/domain/paging"
	"paychain/internal/infrastructure/db"
	"paychain/pkg/id"
)

func newTestRepo(t *testing.T) *JournalRepository {
	t.Helper()
	gdb, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&journalDomain.Entry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := gdb.DB()
		_ = sqlDB.Close()
	})
	return NewJournalRepository(gdb)
}

func seed(t *testing.T, repo *JournalRepository, entries ...journalDomain.Entry) {
	t.Helper()
	for i := range entries {
		entries[i].EntryID = id.NewID32()
		if err := repo.Append(context.Background(), &entries[i]); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
}

func TestJournalAppendAndList(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed(t, repo,
		journalDomain.Entry{EntityKind: "uploaded-file", EntityID: "F-1", Action: "upload", Outcome: journalDomain.OutcomeSuccess},
		journalDomain.Entry{EntityKind: "uploaded-file", EntityID: "F-1", Action: "validate", Outcome: journalDomain.OutcomeSuccess},
		journalDomain.Entry{EntityKind: "board-receipt", EntityID: "TXN-1", Action: "reconcile", Outcome: journalDomain.OutcomeFailed},
	)

	page, err := repo.List(ctx, paging.Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalElements != 3 || len(page.Content) != 3 {
		t.Fatalf("expected 3 entries, got %+v", page)
	}
	if page.TotalPages != 1 || page.HasNext {
		t.Fatalf("unexpected page shape %+v", page)
	}
}

func TestJournalListFiltersByOutcome(t *testing.T) {
	repo := newTestRepo(t)

	seed(t, repo,
		journalDomain.Entry{EntityKind: "uploaded-file", EntityID: "F-1", Action: "upload", Outcome: journalDomain.OutcomeSuccess},
		journalDomain.Entry{EntityKind: "board-receipt", EntityID: "TXN-1", Action: "reconcile", Outcome: journalDomain.OutcomeFailed},
	)

	page, err := repo.List(context.Background(), paging.Query{Status: "failed"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].Action != "reconcile" {
		t.Fatalf("expected only the failed entry, got %+v", page.Content)
	}

	// ALL is a no-filter sentinel
	page, err = repo.List(context.Background(), paging.Query{Status: "ALL"})
	if err != nil {
		t.Fatalf("List ALL: %v", err)
	}
	if page.TotalElements != 2 {
		t.Fatalf("expected both entries for ALL, got %d", page.TotalElements)
	}
}

func TestJournalListPagination(t *testing.T) {
	repo := newTestRepo(t)

	entries := make([]journalDomain.Entry, 5)
	for i := range entries {
		entries[i] = journalDomain.Entry{
			EntityKind: "uploaded-file", EntityID: "F-1",
			Action: "upload", Outcome: journalDomain.OutcomeSuccess,
		}
	}
	seed(t, repo, entries...)

	page, err := repo.List(context.Background(), paging.Query{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Content) != 2 || page.Number != 1 {
		t.Fatalf("unexpected window %+v", page)
	}
	if page.TotalPages != 3 || !page.HasNext || !page.HasPrevious {
		t.Fatalf("unexpected page math %+v", page)
	}
}

func TestJournalListUnknownSortFallsBack(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo,
		journalDomain.Entry{EntityKind: "uploaded-file", EntityID: "F-1", Action: "upload", Outcome: journalDomain.OutcomeSuccess},
	)

	// a column not in the whitelist must not be interpolated into the query
	page, err := repo.List(context.Background(), paging.Query{SortBy: "created_at; DROP TABLE x"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalElements != 1 {
		t.Fatalf("expected 1 entry, got %d", page.TotalElements)
	}
}

func TestJournalAppendIsDurable(t *testing.T) {
	repo := newTestRepo(t)
	e := &journalDomain.Entry{
		EntryID: id.NewID32(), EntityKind: "worker-receipt", EntityID: "WR-1",
		Action: "send-to-employer", FromStatus: "GENERATED", ToStatus: "PAYMENT_REQUESTED",
		Outcome: journalDomain.OutcomeSuccess,
	}
	if err := repo.Append(context.Background(), e); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if e.ID == 0 {
		t.Fatal("primary key must be assigned")
	}
	if e.CreatedAt.IsZero() || time.Since(e.CreatedAt) > time.Minute {
		t.Fatalf("unexpected CreatedAt %v", e.CreatedAt)
	}

	page, err := repo.List(context.Background(), paging.Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Content[0].EntryID != e.EntryID {
		t.Fatalf("expected the appended entry, got %+v", page.Content[0])
	}
}
