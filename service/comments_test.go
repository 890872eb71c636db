package service

import (
	"context"
	"testing"

	"github.com/draftdeck/design-service/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment_PinRoundTripsExactCoordinates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	author := uuid.New()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "plan.pdf")

	pin := &entity.Pin{XPercent: 37.5, YPercent: 60.2, PageNumber: 3, ZoomLevel: 1.5}
	created, err := env.svc.AddComment(ctx, author, file.ID, "cabinet clearance is tight here", nil, pin)
	require.NoError(t, err)
	assert.True(t, created.HasPin())

	comments, err := env.comments.FindByFileID(file.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	got := comments[0]
	require.NotNil(t, got.XPercent)
	require.NotNil(t, got.YPercent)
	assert.Equal(t, 37.5, *got.XPercent)
	assert.Equal(t, 60.2, *got.YPercent)
	assert.Equal(t, 3, *got.PageNumber)
	assert.Equal(t, 1.5, *got.ZoomLevel)
	assert.Equal(t, author, got.AuthorID)
}

func TestAddComment_PageNumberDefaultsToOne(t *testing.T) {
	env := newTestEnv()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "photo.png")

	pin := &entity.Pin{XPercent: 10, YPercent: 20}
	created, err := env.svc.AddComment(context.Background(), uuid.New(), file.ID, "check this corner", nil, pin)
	require.NoError(t, err)
	require.NotNil(t, created.PageNumber)
	assert.Equal(t, 1, *created.PageNumber)
}

func TestAddComment_WithoutPin(t *testing.T) {
	env := newTestEnv()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "plan.pdf")

	created, err := env.svc.AddComment(context.Background(), uuid.New(), file.ID, "overall looks good", nil, nil)
	require.NoError(t, err)
	assert.False(t, created.HasPin())
	assert.Nil(t, created.XPercent)
	assert.Nil(t, created.PageNumber)
}

func TestAddComment_RejectsOutOfRangePin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "plan.pdf")

	for _, pin := range []*entity.Pin{
		{XPercent: -0.1, YPercent: 50},
		{XPercent: 100.1, YPercent: 50},
		{XPercent: 50, YPercent: -1},
		{XPercent: 50, YPercent: 101},
	} {
		_, err := env.svc.AddComment(ctx, uuid.New(), file.ID, "bad pin", nil, pin)
		assert.ErrorIs(t, err, entity.ErrValidation)
	}
}

func TestAddComment_RejectsEmptyText(t *testing.T) {
	env := newTestEnv()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "plan.pdf")

	_, err := env.svc.AddComment(context.Background(), uuid.New(), file.ID, "   ", nil, nil)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestAddComment_UnknownFile(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.AddComment(context.Background(), uuid.New(), uuid.New(), "hello", nil, nil)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestAddComment_LinkedTask(t *testing.T) {
	env := newTestEnv()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "plan.pdf")

	taskID := uuid.New()
	created, err := env.svc.AddComment(context.Background(), uuid.New(), file.ID, "tracked as a task", &taskID, nil)
	require.NoError(t, err)
	require.NotNil(t, created.LinkedTaskID)
	assert.Equal(t, taskID, *created.LinkedTaskID)
}

func TestResolveComment_Toggles(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "plan.pdf")

	created, err := env.svc.AddComment(ctx, uuid.New(), file.ID, "fix the lighting plan", nil, nil)
	require.NoError(t, err)
	assert.False(t, created.IsResolved)

	resolved, err := env.svc.ResolveComment(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)

	reopened, err := env.svc.ResolveComment(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.IsResolved)
}

func TestResolveComment_UnknownComment(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.ResolveComment(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestHasPinnedComments(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	file := mustUpload(t, env, uuid.New(), uuid.New(), "Kitchen", "plan.pdf")

	pinned, err := env.svc.HasPinnedComments(file.ID)
	require.NoError(t, err)
	assert.False(t, pinned)

	_, err = env.svc.AddComment(ctx, uuid.New(), file.ID, "no pin", nil, nil)
	require.NoError(t, err)

	pinned, err = env.svc.HasPinnedComments(file.ID)
	require.NoError(t, err)
	assert.False(t, pinned)

	_, err = env.svc.AddComment(ctx, uuid.New(), file.ID, "pinned", nil,
		&entity.Pin{XPercent: 1, YPercent: 2})
	require.NoError(t, err)

	pinned, err = env.svc.HasPinnedComments(file.ID)
	require.NoError(t, err)
	assert.True(t, pinned)
}
