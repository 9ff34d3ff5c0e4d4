package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AchilleasB/smart-city/citizen-services/internal/core/domain"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/ports"
	"github.com/AchilleasB/smart-city/citizen-services/internal/core/services"
	"github.com/AchilleasB/smart-city/citizen-services/internal/mocks"
)

func TestJobService(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewSeededMockStore()
	root := mocks.SuperAdmin(store.SeedUser(mocks.NewUser("Root", domain.RoleSuperAdmin, nil)))
	alice := mocks.Citizen(store.SeedUser(mocks.NewUser("Alice", domain.RoleCitizen, nil)))
	svc := services.NewJobService(store, zap.NewNop())

	deadline, err := domain.ParseDate("2030-01-31")
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice, ports.NewJob{Title: "Clerk", Department: "Transport", Description: "d", Deadline: deadline})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Create(ctx, root, ports.NewJob{Title: "Clerk", Department: "Transport", Description: "d"})
	assert.ErrorIs(t, err, domain.ErrValidation, "deadline required")

	jobID, err := svc.Create(ctx, root, ports.NewJob{Title: "Clerk", Department: "Transport", Description: "d", Deadline: deadline})
	require.NoError(t, err)

	t.Run("no application yet", func(t *testing.T) {
		app, err := svc.Application(ctx, alice, jobID)
		require.NoError(t, err)
		assert.Nil(t, app)
	})

	t.Run("apply once", func(t *testing.T) {
		_, err := svc.Apply(ctx, alice, jobID, "https://cv.example.com/alice.pdf")
		require.NoError(t, err)

		_, err = svc.Apply(ctx, alice, jobID, "https://cv.example.com/other.pdf")
		assert.ErrorIs(t, err, domain.ErrAlreadyApplied)

		app, err := svc.Application(ctx, alice, jobID)
		require.NoError(t, err)
		require.NotNil(t, app)
		assert.Equal(t, "https://cv.example.com/alice.pdf", app.ResumeURL)
		assert.Equal(t, domain.ApplicationPending, app.Status)
	})

	t.Run("apply guards", func(t *testing.T) {
		_, err := svc.Apply(ctx, alice, 9999, "x")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = svc.Apply(ctx, alice, jobID, "  ")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.Apply(ctx, root, jobID, "x")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("review", func(t *testing.T) {
		apps, err := svc.Applicants(ctx, root, jobID)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, "Alice", apps[0].CitizenName)
		assert.Equal(t, "Clerk", apps[0].JobTitle)

		assert.ErrorIs(t, svc.ReviewApplication(ctx, root, apps[0].ID, "MAYBE"), domain.ErrValidation)
		require.NoError(t, svc.ReviewApplication(ctx, root, apps[0].ID, domain.ApplicationAccepted))

		mine, err := svc.MyApplications(ctx, alice)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, domain.ApplicationAccepted, mine[0].Status)
	})
}
