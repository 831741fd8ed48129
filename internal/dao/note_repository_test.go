package dao

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/haierkeys/note-tree-service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func mustCreate(t testing.TB, repo domain.NoteRepository, name string, parent *int64) *domain.Note {
	t.Helper()
	n, err := repo.Create(context.Background(), &domain.Note{Name: name, ParentID: parent, Content: "<p>" + name + "</p>"})
	require.NoError(t, err)
	return n
}

func ids(notes []*domain.Note) []int64 {
	out := make([]int64, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

func TestNoteRepository_CreateGetRoundTrip(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	root := mustCreate(t, repo, "root", nil)
	child := mustCreate(t, repo, "child", &root.ID)

	got, err := repo.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "child", got.Name)
	assert.Equal(t, "<p>child</p>", got.Content)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestNoteRepository_ListByParentAndSearch(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	a := mustCreate(t, repo, "Alpha", nil)
	b := mustCreate(t, repo, "beta_100%", nil)
	c := mustCreate(t, repo, "alpha child", &a.ID)

	roots, err := repo.ListByParent(ctx, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{a.ID, b.ID}, ids(roots))

	children, err := repo.ListByParent(ctx, &a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID}, ids(children))

	found, err := repo.SearchByName(ctx, "pha")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{a.ID, c.ID}, ids(found))

	// 通配符按字面匹配
	found, err = repo.SearchByName(ctx, "_100%")
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(found))

	found, err = repo.SearchByName(ctx, "%")
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ids(found))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNoteRepository_Update(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	n := mustCreate(t, repo, "draft", nil)
	updated, err := repo.Update(ctx, n.ID, "final", "<p>done</p>")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Name)
	assert.Equal(t, "<p>done</p>", updated.Content)

	got, err := repo.GetByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Name)

	_, err = repo.Update(ctx, 404, "x", "y")
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestNoteRepository_DeleteCascade(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	r := mustCreate(t, repo, "R", nil)
	c1 := mustCreate(t, repo, "C1", &r.ID)
	g1 := mustCreate(t, repo, "G1", &c1.ID)
	other := mustCreate(t, repo, "Other", nil)

	deleted, removed, err := repo.DeleteCascade(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "R", deleted.Name)
	assert.ElementsMatch(t, []int64{c1.ID, g1.ID}, removed)

	for _, id := range []int64{r.ID, c1.ID, g1.ID} {
		_, err := repo.GetByID(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	}
	_, err = repo.GetByID(ctx, other.ID)
	assert.NoError(t, err)

	_, _, err = repo.DeleteCascade(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestNoteRepository_MoveRejectsCycles(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	a := mustCreate(t, repo, "A", nil)
	b := mustCreate(t, repo, "B", &a.ID)
	c := mustCreate(t, repo, "C", &b.ID)

	_, err := repo.Move(ctx, a.ID, &a.ID)
	assert.ErrorIs(t, err, domain.ErrCycle)

	_, err = repo.Move(ctx, a.ID, &c.ID)
	assert.ErrorIs(t, err, domain.ErrCycle)

	// 失败的移动不修改数据
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	moved, err := repo.Move(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	moved, err = repo.Move(ctx, a.ID, &c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, *moved.ParentID)

	_, err = repo.Move(ctx, 777, nil)
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
}

func TestNoteRepository_AncestorsAndOrphans(t *testing.T) {
	repo := NewNoteRepository(newTestDao(t))
	ctx := context.Background()

	a := mustCreate(t, repo, "A", nil)
	b := mustCreate(t, repo, "B", &a.ID)
	c := mustCreate(t, repo, "C", &b.ID)
	missing := int64(5000)
	orphan := mustCreate(t, repo, "Orphan", &missing)

	chain, err := repo.Ancestors(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID, b.ID, c.ID}, ids(chain))

	// 悬空父引用处停止
	chain, err = repo.Ancestors(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{orphan.ID}, ids(chain))

	count, err := repo.CountOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// hasCycle 从每个笔记沿父链向上，重复访问即为环
func hasCycle(notes []*domain.Note) bool {
	parent := make(map[int64]*int64, len(notes))
	for _, n := range notes {
		parent[n.ID] = n.ParentID
	}
	for _, n := range notes {
		seen := map[int64]bool{n.ID: true}
		cur := parent[n.ID]
		for cur != nil {
			if seen[*cur] {
				return true
			}
			seen[*cur] = true
			cur = parent[*cur]
		}
	}
	return false
}

func TestNoteRepository_AcyclicUnderRandomMoves(t *testing.T) {
	const size = 6
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	// 每个元素编码一次移动：v/(size+1) 为笔记下标，v%(size+1) 为新父节点下标，0 表示根
	properties.Property("moves never create a cycle", prop.ForAll(
		func(moves []int) bool {
			repo := NewNoteRepository(newTestDao(t))
			ctx := context.Background()

			noteIDs := make([]int64, size)
			for i := range noteIDs {
				noteIDs[i] = mustCreate(t, repo, "n", nil).ID
			}

			for _, v := range moves {
				target := noteIDs[v/(size+1)]
				var parent *int64
				if p := v % (size + 1); p > 0 {
					parent = &noteIDs[p-1]
				}
				_, err := repo.Move(ctx, target, parent)
				if err != nil && !errors.Is(err, domain.ErrCycle) {
					return false
				}
				all, err := repo.List(ctx)
				if err != nil || hasCycle(all) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.IntRange(0, size*(size+1)-1)),
	))

	properties.TestingRun(t)
}

func TestNoteRepository_CascadeCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	// parents[i] 为第 i 个笔记的父节点下标 +1，0 表示根；只引用更早的笔记因此必然无环
	properties.Property("delete removes exactly the subtree", prop.ForAll(
		func(parents []int, pick int) bool {
			repo := NewNoteRepository(newTestDao(t))
			ctx := context.Background()

			noteIDs := make([]int64, len(parents))
			parentIdx := make([]int, len(parents))
			for i, p := range parents {
				p = p % (i + 1)
				parentIdx[i] = p - 1
				var parent *int64
				if p > 0 {
					parent = &noteIDs[p-1]
				}
				noteIDs[i] = mustCreate(t, repo, "n", parent).ID
			}

			victim := pick % len(parents)
			inSubtree := func(i int) bool {
				for cur := i; cur >= 0; cur = parentIdx[cur] {
					if cur == victim {
						return true
					}
				}
				return false
			}

			if _, _, err := repo.DeleteCascade(ctx, noteIDs[victim]); err != nil {
				return false
			}
			for i, id := range noteIDs {
				_, err := repo.GetByID(ctx, id)
				if inSubtree(i) != errors.Is(err, domain.ErrNoteNotFound) {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(8, gen.IntRange(0, 8)),
		gen.IntRange(0, 7),
	))

	properties.TestingRun(t)
}

// newMockDao 使用 postgres 方言包装 sqlmock
func newMockDao(t *testing.T) (*Dao, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)
	return New(db), mock
}

func TestNoteRepository_DeleteCascadeRollsBackOnFailure(t *testing.T) {
	d, mock := newMockDao(t)
	repo := NewNoteRepository(d)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "note" WHERE "note"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id", "content"}).AddRow(1, "R", nil, ""))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "note" WHERE parent_id IN ($1)`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "note" WHERE parent_id IN ($1)`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "note" WHERE parent_id IN ($1)`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "note" WHERE id IN ($1,$2)`)).
		WithArgs(2, 3).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, _, err := repo.DeleteCascade(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, domain.IsStoreError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_MoveCycleRollsBack(t *testing.T) {
	d, mock := newMockDao(t)
	repo := NewNoteRepository(d)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "note" WHERE "note"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "parent_id"}).AddRow(1, "A", nil))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","parent_id" FROM "note" WHERE "note"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id"}).AddRow(3, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id","parent_id" FROM "note" WHERE "note"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id"}).AddRow(2, 1))
	mock.ExpectRollback()

	target := int64(3)
	_, err := repo.Move(context.Background(), 1, &target)
	assert.ErrorIs(t, err, domain.ErrCycle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
