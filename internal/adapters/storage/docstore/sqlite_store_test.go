package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/storage"
)

type testRecord struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
	Paid   bool   `json:"paid"`
}

func newTestStore(t *testing.T, opts ...Option) *SQLiteStore {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db, opts...)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func TestInsertAndGet(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithIDGenerator(sequentialIDs()), WithClock(func() time.Time { return fixed }))

	id, err := s.Insert(ctx, CollectionMembers, testRecord{Name: "Asha", Email: "asha@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "id-001", id)

	doc, err := s.Get(ctx, CollectionMembers, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.True(t, doc.CreatedAt.Equal(fixed))

	var got testRecord
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "asha@x.com", got.Email)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), CollectionMembers, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Insert(ctx, CollectionMembers, testRecord{Name: "A"})
	require.NoError(t, err)

	_, err = s.Get(ctx, CollectionBills, id)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := s.Count(ctx, CollectionBills)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListAll_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Random UUIDs would not sort in insertion order; seq must.
	names := []string{"Zed", "Asha", "Mona", "Bo"}
	for _, n := range names {
		_, err := s.Insert(ctx, CollectionMembers, testRecord{Name: n})
		require.NoError(t, err)
	}

	docs, err := s.ListAll(ctx, CollectionMembers)
	require.NoError(t, err)
	require.Len(t, docs, len(names))
	for i, d := range docs {
		var r testRecord
		require.NoError(t, d.Decode(&r))
		assert.Equal(t, names[i], r.Name)
	}
}

func TestListAll_Empty(t *testing.T) {
	s := newTestStore(t)
	docs, err := s.ListAll(context.Background(), CollectionNotifications)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestListWhere(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, r := range []testRecord{
		{Name: "a", Email: "one@x.com", Paid: true},
		{Name: "b", Email: "two@x.com"},
		{Name: "c", Email: "one@x.com"},
	} {
		_, err := s.Insert(ctx, CollectionBills, r)
		require.NoError(t, err)
	}

	docs, err := s.ListWhere(ctx, CollectionBills, "email", "one@x.com")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	var first testRecord
	require.NoError(t, docs[0].Decode(&first))
	assert.Equal(t, "a", first.Name)

	docs, err = s.ListWhere(ctx, CollectionBills, "paid", true)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	docs, err = s.ListWhere(ctx, CollectionBills, "email", "nobody@x.com")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestListWhere_RejectsInvalidField(t *testing.T) {
	s := newTestStore(t)
	tests := []string{"", "1abc", "a.b", "email') OR 1=1 --", "na me"}
	for _, field := range tests {
		t.Run(field, func(t *testing.T) {
			_, err := s.ListWhere(context.Background(), CollectionMembers, field, "x")
			assert.ErrorIs(t, err, ErrInvalidField)
		})
	}
}

func TestUpdate_MergesFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Insert(ctx, CollectionBills, testRecord{Name: "fee", Email: "a@x.com", Status: "Unpaid"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, CollectionBills, id, map[string]any{"status": "Paid"}))

	doc, err := s.Get(ctx, CollectionBills, id)
	require.NoError(t, err)
	var got testRecord
	require.NoError(t, doc.Decode(&got))
	assert.Equal(t, "Paid", got.Status)
	assert.Equal(t, "fee", got.Name, "untouched fields survive the patch")
	assert.Equal(t, "a@x.com", got.Email)
}

func TestUpdate_NilRemovesField(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Insert(ctx, CollectionBills, testRecord{Name: "fee", Status: "Paid"})
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, CollectionBills, id, map[string]any{"status": nil}))

	doc, err := s.Get(ctx, CollectionBills, id)
	require.NoError(t, err)
	assert.NotContains(t, string(doc.Data), "status")
}

func TestUpdate_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Update(ctx, CollectionBills, "missing", map[string]any{"status": "Paid"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Update(ctx, CollectionBills, "missing", nil)
	assert.ErrorIs(t, err, ErrEmptyPatch)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.Insert(ctx, CollectionMembers, testRecord{Name: "gone"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, CollectionMembers, id))

	_, err = s.Get(ctx, CollectionMembers, id)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Delete(ctx, CollectionMembers, id), "deleting a missing document is not an error")
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Insert(ctx, CollectionNotifications, testRecord{Name: fmt.Sprint(i)})
		require.NoError(t, err)
	}
	n, err := s.Count(ctx, CollectionNotifications)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInsert_RejectsUnencodableRecord(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Insert(context.Background(), CollectionMembers, map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestOperationsRecordPerfSamples(t *testing.T) {
	ctx := context.Background()
	c := perf.NewCollector(64)
	s := newTestStore(t, WithCollector(c))

	id, err := s.Insert(ctx, CollectionMembers, testRecord{Name: "x"})
	require.NoError(t, err)
	_, err = s.Get(ctx, CollectionMembers, id)
	require.NoError(t, err)
	_, err = s.ListAll(ctx, CollectionMembers)
	require.NoError(t, err)

	assert.Equal(t, int64(3), c.Written())
	snap := c.Snapshot(time.Time{}, 10)
	keys := make(map[string]bool)
	for _, st := range snap.StoreOps {
		keys[st.Key] = true
	}
	assert.True(t, keys["members.insert"])
	assert.True(t, keys["members.get"])
	assert.True(t, keys["members.listAll"])
}

func TestDriverErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("disk I/O error")
	mock.ExpectExec("INSERT INTO document").WillReturnError(boom)
	mock.ExpectQuery("SELECT id, data, created_at FROM document").WillReturnError(boom)
	mock.ExpectExec("UPDATE document").WillReturnError(boom)
	mock.ExpectQuery("SELECT COUNT").WillReturnError(boom)

	s := NewSQLiteStore(db)
	ctx := context.Background()

	_, err = s.Insert(ctx, CollectionBills, testRecord{Name: "x"})
	assert.ErrorIs(t, err, boom)

	_, err = s.ListAll(ctx, CollectionBills)
	assert.ErrorIs(t, err, boom)

	err = s.Update(ctx, CollectionBills, "b1", map[string]any{"status": "Paid"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = s.Count(ctx, CollectionBills)
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_ZeroRowsIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE document").WillReturnResult(sqlmock.NewResult(0, 0))

	s := NewSQLiteStore(db)
	err = s.Update(context.Background(), CollectionBills, "b1", map[string]any{"status": "Paid"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
