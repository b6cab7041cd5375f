package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ochessi/tasknest/internal/auth/service"
	"github.com/Ochessi/tasknest/internal/mocks"
)

func TestCleanupService_DryRunOnlyCounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMaintenanceRepository(ctrl)
	svc := service.NewCleanupService(repo, zap.NewNop())

	// Dry run must not call DeleteStale.
	repo.EXPECT().CountStale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cutoff time.Time) (int64, int64, error) {
			assert.WithinDuration(t, time.Now().AddDate(0, 0, -90), cutoff, time.Minute)
			return 42, 7, nil
		})

	report, err := svc.Run(context.Background(), 90, true)
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 90, report.RetentionDays)
	assert.Equal(t, int64(42), report.AttemptsDeleted)
	assert.Equal(t, int64(7), report.ResetTokensFound)
}

func TestCleanupService_RunDeletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMaintenanceRepository(ctrl)
	svc := service.NewCleanupService(repo, zap.NewNop())

	repo.EXPECT().DeleteStale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cutoff time.Time) (int64, int64, error) {
			assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), cutoff, time.Minute)
			return 100, 3, nil
		})

	report, err := svc.Run(context.Background(), 30, false)
	require.NoError(t, err)
	assert.False(t, report.DryRun)
	assert.Equal(t, int64(100), report.AttemptsDeleted)
	assert.Equal(t, int64(3), report.ResetTokensFound)
}

func TestCleanupService_RunPropagatesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMaintenanceRepository(ctrl)
	svc := service.NewCleanupService(repo, zap.NewNop())

	repo.EXPECT().DeleteStale(gomock.Any(), gomock.Any()).
		Return(int64(0), int64(0), assert.AnError)

	_, err := svc.Run(context.Background(), 90, false)
	assert.Error(t, err)
}
