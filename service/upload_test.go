package service

import (
	"context"
	"testing"

	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/infra/produce"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadBatch_FirstUploadStartsAtVersionOne(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uploader := uuid.New()
	project := uuid.New()

	result, err := env.svc.UploadBatch(ctx, uploader, project, "Kitchen",
		[]UploadFile{uploadOf("plan.pdf", "application/pdf", "pdf bytes")}, nil)
	require.NoError(t, err)
	require.Len(t, result.Succeeded, 1)
	assert.Empty(t, result.Failed)

	file := result.Succeeded[0]
	assert.Equal(t, 1, file.VersionNumber)
	assert.Equal(t, entity.ApprovalStatusPending, file.ApprovalStatus)
	assert.False(t, file.IsCurrentApproved)
	assert.Equal(t, entity.FileTypePDF, file.FileType)
	assert.Equal(t, uploader, file.UploadedBy)
	assert.Contains(t, file.FileURL, "plan.pdf")
}

func TestUploadBatch_VersionsIncreasePerCategory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uploader := uuid.New()
	project := uuid.New()

	for want := 1; want <= 3; want++ {
		result, err := env.svc.UploadBatch(ctx, uploader, project, "Kitchen",
			[]UploadFile{uploadOf("plan.pdf", "application/pdf", "v")}, nil)
		require.NoError(t, err)
		require.Len(t, result.Succeeded, 1)
		assert.Equal(t, want, result.Succeeded[0].VersionNumber)
	}

	// A different category starts its own lineage at 1.
	result, err := env.svc.UploadBatch(ctx, uploader, project, "Bedroom",
		[]UploadFile{uploadOf("bed.png", "image/png", "v")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded[0].VersionNumber)
}

func TestUploadBatch_VersionNeverReusedAfterDeletion(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uploader := uuid.New()
	project := uuid.New()

	var latest entity.DesignFile
	for i := 0; i < 2; i++ {
		result, err := env.svc.UploadBatch(ctx, uploader, project, "Kitchen",
			[]UploadFile{uploadOf("plan.pdf", "application/pdf", "v")}, nil)
		require.NoError(t, err)
		latest = result.Succeeded[0]
	}
	require.Equal(t, 2, latest.VersionNumber)

	require.NoError(t, env.svc.DeleteFile(ctx, uploader, latest.ID))

	result, err := env.svc.UploadBatch(ctx, uploader, project, "Kitchen",
		[]UploadFile{uploadOf("plan.pdf", "application/pdf", "v")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Succeeded[0].VersionNumber, "deleted version slots must not be reclaimed")
}

func TestUploadBatch_StorageFailureSkipsFileAndContinues(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uploader := uuid.New()
	project := uuid.New()

	env.storage.failNames["broken.png"] = true

	result, err := env.svc.UploadBatch(ctx, uploader, project, "Kitchen", []UploadFile{
		uploadOf("first.png", "image/png", "a"),
		uploadOf("broken.png", "image/png", "b"),
		uploadOf("third.png", "image/png", "c"),
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Succeeded, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "broken.png", result.Failed[0].FileName)
	assert.Contains(t, result.Failed[0].Reason, entity.ErrStorageFailure.Error())

	// The skipped file must not consume a version number.
	assert.Equal(t, 1, result.Succeeded[0].VersionNumber)
	assert.Equal(t, 2, result.Succeeded[1].VersionNumber)
}

func TestUploadBatch_VersionConflictReportedNotRetried(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uploader := uuid.New()
	project := uuid.New()

	// Simulate losing the allocation race against a concurrent upload.
	env.files.conflictNext = true

	result, err := env.svc.UploadBatch(ctx, uploader, project, "Bath", []UploadFile{
		uploadOf("tub.png", "image/png", "a"),
		uploadOf("sink.png", "image/png", "b"),
	}, nil)
	require.NoError(t, err)

	require.Len(t, result.Failed, 1)
	assert.Equal(t, "tub.png", result.Failed[0].FileName)
	assert.Contains(t, result.Failed[0].Reason, entity.ErrVersionConflict.Error())

	// The batch continued and the survivor got the contested slot.
	require.Len(t, result.Succeeded, 1)
	assert.Equal(t, "sink.png", result.Succeeded[0].FileName)
	assert.Equal(t, 1, result.Succeeded[0].VersionNumber)
}

func TestUploadBatch_RejectsMissingCategoryAndEmptyBatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.UploadBatch(ctx, uuid.New(), uuid.New(), "   ",
		[]UploadFile{uploadOf("a.png", "image/png", "a")}, nil)
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = env.svc.UploadBatch(ctx, uuid.New(), uuid.New(), "Kitchen", nil, nil)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestUploadBatch_RequiresUploadCapability(t *testing.T) {
	env := newTestEnv()
	env.perms.deny("designs.upload")

	_, err := env.svc.UploadBatch(context.Background(), uuid.New(), uuid.New(), "Kitchen",
		[]UploadFile{uploadOf("a.png", "image/png", "a")}, nil)
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestUploadBatch_ReportsProgressPerFile(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	var reports []UploadProgress
	report := func(_ context.Context, p UploadProgress) {
		reports = append(reports, p)
	}

	_, err := env.svc.UploadBatch(ctx, uuid.New(), uuid.New(), "Kitchen", []UploadFile{
		uploadOf("a.png", "image/png", "a"),
		uploadOf("b.png", "image/png", "b"),
	}, report)
	require.NoError(t, err)

	require.Len(t, reports, 4)
	assert.Equal(t, UploadProgress{CurrentIndex: 0, TotalFiles: 2, PercentOfCurrentFile: 0}, reports[0])
	assert.Equal(t, UploadProgress{CurrentIndex: 0, TotalFiles: 2, PercentOfCurrentFile: 100}, reports[1])
	assert.Equal(t, UploadProgress{CurrentIndex: 1, TotalFiles: 2, PercentOfCurrentFile: 0}, reports[2])
	assert.Equal(t, UploadProgress{CurrentIndex: 1, TotalFiles: 2, PercentOfCurrentFile: 100}, reports[3])
}

func TestUploadBatch_PublishesUploadedEvents(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.svc.UploadBatch(ctx, uuid.New(), uuid.New(), "Kitchen",
		[]UploadFile{uploadOf("plan.pdf", "application/pdf", "v")}, nil)
	require.NoError(t, err)

	require.Len(t, env.publisher.messages, 1)
	assert.Equal(t, produce.EventDesignUploaded, env.publisher.messages[0].Type)
	assert.Equal(t, "Kitchen", env.publisher.messages[0].Category)
}

func TestDeleteFile_UploaderMayDeleteWithoutCapability(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	uploader := uuid.New()
	project := uuid.New()

	result, err := env.svc.UploadBatch(ctx, uploader, project, "Kitchen",
		[]UploadFile{uploadOf("plan.pdf", "application/pdf", "v")}, nil)
	require.NoError(t, err)

	env.perms.deny("designs.delete")
	assert.NoError(t, env.svc.DeleteFile(ctx, uploader, result.Succeeded[0].ID))
}

func TestDeleteFile_StrangerNeedsDeleteCapability(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	project := uuid.New()

	result, err := env.svc.UploadBatch(ctx, uuid.New(), project, "Kitchen",
		[]UploadFile{uploadOf("plan.pdf", "application/pdf", "v")}, nil)
	require.NoError(t, err)
	fileID := result.Succeeded[0].ID

	env.perms.deny("designs.delete")
	err = env.svc.DeleteFile(ctx, uuid.New(), fileID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	env.perms.denied["designs.delete"] = false
	assert.NoError(t, env.svc.DeleteFile(ctx, uuid.New(), fileID))
}
