package crud

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/db/dbtest"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

type label struct {
	ID   uint   `gorm:"primarykey"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null"`
}

func validateLabel(l *label) error {
	if l.Name == "" {
		return errorsx.Validation("name is required")
	}
	return nil
}

func newLabelService(t *testing.T, hooks Hooks[label]) (*Service[label], *db.Repository[label]) {
	t.Helper()
	conn := dbtest.New(t, &label{})
	repo := db.NewRepository[label](conn, "name")
	if hooks.Validate == nil {
		hooks.Validate = validateLabel
	}
	return New("label", repo, hooks), repo
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("validates before writing", func(t *testing.T) {
		svc, repo := newLabelService(t, Hooks[label]{})
		err := svc.Create(ctx, &label{})
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
		n, _ := repo.Count(ctx)
		assert.Zero(t, n)
	})

	t.Run("duplicate names are validation errors", func(t *testing.T) {
		svc, _ := newLabelService(t, Hooks[label]{Duplicate: "label name already taken"})
		require.NoError(t, svc.Create(ctx, &label{Name: "red"}))

		err := svc.Create(ctx, &label{Name: "red"})
		require.Error(t, err)
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
		assert.Equal(t, "label name already taken", errorsx.Message(err))
	})

	t.Run("after write failure rolls back", func(t *testing.T) {
		svc, repo := newLabelService(t, Hooks[label]{
			AfterWrite: func(context.Context, *label) error { return errors.New("join table write failed") },
		})
		require.Error(t, svc.Create(ctx, &label{Name: "blue"}))
		n, _ := repo.Count(ctx)
		assert.Zero(t, n)
	})

	t.Run("changed fires after commit", func(t *testing.T) {
		var ops []Op
		svc, _ := newLabelService(t, Hooks[label]{
			Changed: func(_ context.Context, op Op, _ *label) { ops = append(ops, op) },
		})
		l := &label{Name: "green"}
		require.NoError(t, svc.Create(ctx, l))
		_, err := svc.Update(ctx, l.ID, func(l *label) error { l.Name = "lime"; return nil })
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, l.ID))
		assert.Equal(t, []Op{OpCreated, OpUpdated, OpDeleted}, ops)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("missing record is not found", func(t *testing.T) {
		svc, _ := newLabelService(t, Hooks[label]{})
		err := svc.Delete(ctx, 42)
		assert.True(t, errorsx.Is(err, errorsx.KindNotFound))
		assert.Equal(t, "label not found", err.Error())
	})

	t.Run("guard blocks deletion", func(t *testing.T) {
		svc, repo := newLabelService(t, Hooks[label]{
			BeforeDelete: func(context.Context, *label) error {
				return errorsx.Validation("label is still in use")
			},
		})
		l := &label{Name: "navy"}
		require.NoError(t, svc.Create(ctx, l))

		err := svc.Delete(ctx, l.ID)
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
		got, err := repo.GetByID(ctx, l.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLabelService(t, Hooks[label]{})
	l := &label{Name: "black"}
	require.NoError(t, svc.Create(ctx, l))

	_, err := svc.Update(ctx, l.ID, func(l *label) error { l.Name = ""; return nil })
	assert.True(t, errorsx.Is(err, errorsx.KindValidation))

	updated, err := svc.Update(ctx, l.ID, func(l *label) error { l.Name = "white"; return nil })
	require.NoError(t, err)
	assert.Equal(t, "white", updated.Name)

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "white", got.Name)
}
