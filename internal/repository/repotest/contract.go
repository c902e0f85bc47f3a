// Package repotest は ProductRepository 実装が共通で満たすべき振る舞いのテスト群。
package repotest

import (
	"context"
	"sort"
	"testing"

	"inventory/internal/domain/model"
	repo "inventory/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory はテストごとに空のリポジトリを返す
type Factory func(t *testing.T) repo.ProductRepository

func mouse() model.ProductCandidate {
	return model.ProductCandidate{Name: "Mouse", SKU: "ABC-1", Quantity: 5, Description: "x"}
}

func keyboard() model.ProductCandidate {
	return model.ProductCandidate{Name: "Mechanical Keyboard", SKU: "KEYS-MX-PRO", Quantity: 5, Description: "RGB backlit"}
}

// Run は全ケースをサブテストとして実行する
func Run(t *testing.T, newRepo Factory) {
	t.Run("EmptyList", func(t *testing.T) {
		r := newRepo(t)

		items, err := r.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("CreateThenFind", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)

		created, err := r.Create(ctx, mouse())
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, mouse(), created.Candidate())

		got, err := r.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("CreateAssignsDistinctIDs", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)

		a, err := r.Create(ctx, mouse())
		require.NoError(t, err)
		b, err := r.Create(ctx, mouse())
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)

		items, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("FindUnknownID", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.FindByID(context.Background(), "does-not-exist")
		assert.ErrorIs(t, err, repo.ErrNotFound)
	})

	t.Run("UpdatePreservesID", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)

		created, err := r.Create(ctx, mouse())
		require.NoError(t, err)

		updated, err := r.Update(ctx, created.ID, keyboard())
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, keyboard(), updated.Candidate())

		got, err := r.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)
	})

	t.Run("UpdateUnknownIDLeavesCollection", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)

		created, err := r.Create(ctx, mouse())
		require.NoError(t, err)

		_, err = r.Update(ctx, "does-not-exist", keyboard())
		assert.ErrorIs(t, err, repo.ErrNotFound)

		items, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Product{created}, items)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)

		keep, err := r.Create(ctx, keyboard())
		require.NoError(t, err)
		gone, err := r.Create(ctx, mouse())
		require.NoError(t, err)

		ok, err := r.Delete(ctx, gone.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		items, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Product{keep}, items)

		ok, err = r.Delete(ctx, gone.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		items, err = r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Product{keep}, items)

		_, err = r.FindByID(ctx, gone.ID)
		assert.ErrorIs(t, err, repo.ErrNotFound)
	})

	t.Run("ListReturnsEveryRecord", func(t *testing.T) {
		ctx := context.Background()
		r := newRepo(t)

		want := make([]model.Product, 0, 3)
		for _, c := range []model.ProductCandidate{mouse(), keyboard(), {Name: "Webcam HD", SKU: "CAM-HD-200", Quantity: 0, Description: "1080p"}} {
			p, err := r.Create(ctx, c)
			require.NoError(t, err)
			want = append(want, p)
		}

		got, err := r.List(ctx)
		require.NoError(t, err)
		// 順序は実装依存
		assert.ElementsMatch(t, want, got)
		assert.True(t, uniqueIDs(got))
	})
}

func uniqueIDs(items []model.Product) bool {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return false
		}
	}
	return true
}
