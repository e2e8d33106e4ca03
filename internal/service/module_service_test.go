package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"suraksha.com/preparedness/internal/model"
	"suraksha.com/preparedness/pkg/apperror"
)

func newModuleFixture(t *testing.T) (ModuleService, *fakeModuleRepo, *fakeProgressRepo, *model.DisasterModule) {
	t.Helper()

	modules := newFakeModuleRepo()
	progress := newFakeProgressRepo()
	svc := NewModuleService(modules, progress)

	module := &model.DisasterModule{Slug: "earthquake", Title: "Earthquake Preparedness", IsActive: true}
	require.NoError(t, modules.Create(context.Background(), module))

	return svc, modules, progress, module
}

func TestCreateModuleDuplicateSlug(t *testing.T) {
	svc, _, _, _ := newModuleFixture(t)

	_, err := svc.Create(context.Background(), CreateModuleInput{
		Slug: "earthquake", Title: "Dup", Description: "d", Icon: "i", Color: "c",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestGetInactiveModuleIsNotFound(t *testing.T) {
	svc, modules, _, module := newModuleFixture(t)
	ctx := context.Background()

	module.IsActive = false
	require.NoError(t, modules.Update(ctx, module))

	_, err := svc.Get(ctx, module.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteIsSoft(t *testing.T) {
	svc, modules, _, module := newModuleFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, module.ID))

	stored, err := modules.FindByID(ctx, module.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestGetProgressCreatesOnce(t *testing.T) {
	svc, _, progress, module := newModuleFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.GetProgress(ctx, userID, module.ID)
	require.NoError(t, err)
	assert.False(t, first.Completed)
	assert.Zero(t, first.Score)

	second, err := svc.GetProgress(ctx, userID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeat lookups reuse the record")

	records, err := progress.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUpdateProgressRequiresRecord(t *testing.T) {
	svc, _, _, module := newModuleFixture(t)

	completed := true
	_, err := svc.UpdateProgress(context.Background(), uuid.New(), module.ID, UpdateProgressInput{Completed: &completed})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateProgressLatchesCompletedAt(t *testing.T) {
	svc, _, _, module := newModuleFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.GetProgress(ctx, userID, module.ID)
	require.NoError(t, err)

	completed := true
	score := 85
	updated, err := svc.UpdateProgress(ctx, userID, module.ID, UpdateProgressInput{Completed: &completed, Score: &score})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, 85, updated.Score)

	firstCompletedAt := *updated.CompletedAt

	// A second completed update keeps the original timestamp.
	again, err := svc.UpdateProgress(ctx, userID, module.ID, UpdateProgressInput{Completed: &completed})
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.Equal(t, firstCompletedAt, *again.CompletedAt)
}

func TestUserProgressOwnership(t *testing.T) {
	svc, _, _, module := newModuleFixture(t)
	ctx := context.Background()

	owner := &model.User{ID: uuid.New(), Role: model.RoleStudent}
	other := &model.User{ID: uuid.New(), Role: model.RoleStudent}
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}

	_, err := svc.GetProgress(ctx, owner.ID, module.ID)
	require.NoError(t, err)

	// A student may view their own records.
	records, err := svc.UserProgress(ctx, owner, owner.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// Another student may not.
	_, err = svc.UserProgress(ctx, other, owner.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// An admin may view anyone's.
	records, err = svc.UserProgress(ctx, admin, owner.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
