package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/uiscraper/backend/internal/application/credits"
	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/application/ports/mocks"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
	"github.com/uiscraper/backend/internal/infrastructure/persistence/memory"
)

var freeUser = domain.Identity{UserID: "user_free", Email: "free@example.com", Plan: domain.PlanFree}

type createFixture struct {
	store    *memory.Store
	enqueuer *mocks.MockTaskEnqueuer
	uc       *CreateGeneration
}

func newCreateFixture(t *testing.T, allotment credits.Allotment) *createFixture {
	ctrl := gomock.NewController(t)
	store := memory.NewStore()
	enqueuer := mocks.NewMockTaskEnqueuer(ctrl)
	ledger := credits.NewLedger(limitermemory.NewStore(), allotment, time.Hour)
	uc := NewCreateGeneration(store.Projects(), store.Messages(), ledger, enqueuer)
	uc.slug = func() string { return "swift-navbar" }
	return &createFixture{store: store, enqueuer: enqueuer, uc: uc}
}

func TestCreateGeneration_NewProject(t *testing.T) {
	f := newCreateFixture(t, credits.WebAllotment())
	var dispatched ports.RunGenerationPayload
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p ports.RunGenerationPayload) error {
			dispatched = p
			return nil
		})

	res, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "  a pricing card  "})
	require.NoError(t, err)
	require.NotNil(t, res.Project)
	assert.Equal(t, "swift-navbar", res.Project.Name)
	assert.Equal(t, "user_free", res.Project.UserID)
	assert.Equal(t, domain.RoleUser, res.Message.Role)
	assert.Equal(t, domain.MessageResult, res.Message.Type)
	assert.Equal(t, "a pricing card", res.Message.Content)
	assert.Equal(t, int64(credits.FreePointsWeb-1), res.Usage.RemainingPoints)

	assert.Equal(t, res.Project.ID.String(), dispatched.ProjectID)
	assert.Equal(t, "user_free", dispatched.UserID)
	assert.Equal(t, "a pricing card", dispatched.Value)
	assert.Equal(t, 1, f.store.ProjectCount())
	assert.Equal(t, 1, f.store.MessageCount())
}

func TestCreateGeneration_DuplicateSubmissionsCreateDuplicateProjects(t *testing.T) {
	f := newCreateFixture(t, credits.WebAllotment())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	first, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "navbar"})
	require.NoError(t, err)
	second, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "navbar"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Project.ID, second.Project.ID)
	assert.Equal(t, 2, f.store.ProjectCount())
}

func TestCreateGeneration_ExistingProject(t *testing.T) {
	f := newCreateFixture(t, credits.WebAllotment())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	first, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "navbar"})
	require.NoError(t, err)
	id := first.Project.ID
	second, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "make it dark", ProjectID: &id})
	require.NoError(t, err)
	assert.Equal(t, id, second.Project.ID)
	assert.Equal(t, 1, f.store.ProjectCount())
	assert.Equal(t, 2, f.store.MessageCount())
}

func TestCreateGeneration_ForeignProjectIsNotFound(t *testing.T) {
	f := newCreateFixture(t, credits.WebAllotment())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(nil)

	first, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "navbar"})
	require.NoError(t, err)

	other := domain.Identity{UserID: "user_other", Email: "o@example.com", Plan: domain.PlanFree}
	id := first.Project.ID
	_, err = f.uc.Execute(context.Background(), CreateGenerationInput{Identity: other, Value: "steal", ProjectID: &id})
	assert.ErrorIs(t, err, domerrors.ErrProjectNotFound)

	missing := domain.NewProjectID(uuid.New())
	_, err = f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "x", ProjectID: &missing})
	assert.ErrorIs(t, err, domerrors.ErrProjectNotFound)
}

func TestCreateGeneration_Validation(t *testing.T) {
	f := newCreateFixture(t, credits.WebAllotment())

	for _, value := range []string{"", "   ", strings.Repeat("x", MaxPromptLength+1)} {
		_, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: value})
		assert.ErrorIs(t, err, domerrors.ErrValidation)
	}
	_, err := f.uc.Execute(context.Background(), CreateGenerationInput{Value: "hi"})
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
	assert.Equal(t, 0, f.store.ProjectCount())
}

func TestCreateGeneration_OutOfCreditsCreatesNothing(t *testing.T) {
	f := newCreateFixture(t, credits.ExtensionAllotment())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(nil).Times(credits.FreePointsExtension)

	for i := 0; i < credits.FreePointsExtension; i++ {
		_, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "navbar"})
		require.NoError(t, err)
	}
	projectsBefore := f.store.ProjectCount()

	res, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "navbar"})
	require.ErrorIs(t, err, domerrors.ErrRateLimited)
	require.NotNil(t, res)
	assert.Nil(t, res.Project)
	assert.Equal(t, int64(0), res.Usage.RemainingPoints)
	assert.Equal(t, projectsBefore, f.store.ProjectCount())
}

func TestCreateGeneration_DispatchFailure(t *testing.T) {
	f := newCreateFixture(t, credits.WebAllotment())
	f.enqueuer.EXPECT().EnqueueRunGeneration(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	_, err := f.uc.Execute(context.Background(), CreateGenerationInput{Identity: freeUser, Value: "navbar"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatch generation")
}
