package services

import (
	"context"
	"testing"

	"bto-flathub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	ctx := context.Background()

	valid := func() *CreateProjectInput {
		return &CreateProjectInput{
			Name:           "Acacia Breeze",
			Neighbourhood:  "Yishun",
			TwoRoomUnits:   2,
			TwoRoomPrice:   350000,
			ThreeRoomUnits: 3,
			ThreeRoomPrice: 450000,
			OpeningDate:    "2025-03-01",
			ClosingDate:    "2025-03-31",
			OfficerSlots:   3,
			Visible:        true,
		}
	}

	t.Run("creates a project", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")

		project, err := f.projects.Create(ctx, mgr.ID, valid())
		require.NoError(t, err)
		assert.Equal(t, mgr.ID, project.ManagerID)
		assert.True(t, project.Visible)
	})

	t.Run("rejects reversed window", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		input := valid()
		input.OpeningDate = "2025-03-31"
		input.ClosingDate = "2025-03-01"

		_, err := f.projects.Create(ctx, mgr.ID, input)
		assert.ErrorIs(t, err, domain.ErrInvalidProjectDates)
	})

	t.Run("rejects negative units", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		input := valid()
		input.TwoRoomUnits = -1

		_, err := f.projects.Create(ctx, mgr.ID, input)
		assert.ErrorIs(t, err, domain.ErrInvalidUnits)
	})

	t.Run("rejects slots above the cap", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		input := valid()
		input.OfficerSlots = domain.MaxOfficerSlots + 1

		_, err := f.projects.Create(ctx, mgr.ID, input)
		assert.ErrorIs(t, err, domain.ErrInvalidOfficerSlots)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")

		_, err := f.projects.Create(ctx, mgr.ID, valid())
		require.NoError(t, err)

		input := valid()
		input.OpeningDate = "2025-06-01"
		input.ClosingDate = "2025-06-30"
		_, err = f.projects.Create(ctx, mgr.ID, input)
		assert.ErrorIs(t, err, domain.ErrProjectNameTaken)
	})

	t.Run("one visible project per manager per window", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")

		_, err := f.projects.Create(ctx, mgr.ID, valid())
		require.NoError(t, err)

		overlapping := valid()
		overlapping.Name = "Birch Grove"
		overlapping.OpeningDate = "2025-03-20"
		overlapping.ClosingDate = "2025-04-20"
		_, err = f.projects.Create(ctx, mgr.ID, overlapping)
		assert.ErrorIs(t, err, domain.ErrManagerWindowOverlap)

		// A hidden project in the same window is fine.
		hidden := valid()
		hidden.Name = "Cedar Heights"
		hidden.Visible = false
		_, err = f.projects.Create(ctx, mgr.ID, hidden)
		assert.NoError(t, err)

		// Another manager in the same window is fine too.
		other := f.manager("S0000002B")
		theirs := valid()
		theirs.Name = "Dahlia Court"
		_, err = f.projects.Create(ctx, other.ID, theirs)
		assert.NoError(t, err)
	})
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()

	t.Run("owning manager edits fields", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)

		hood := "Punggol"
		units := 7
		updated, err := f.projects.Update(ctx, project.ID, mgr.ID, &UpdateProjectInput{
			Neighbourhood: &hood,
			TwoRoomUnits:  &units,
		})
		require.NoError(t, err)
		assert.Equal(t, "Punggol", updated.Neighbourhood)
		assert.Equal(t, 7, updated.TwoRoomUnits)
	})

	t.Run("non-owner cannot edit", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		other := f.manager("S0000002B")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)

		hood := "Punggol"
		_, err := f.projects.Update(ctx, project.ID, other.ID, &UpdateProjectInput{Neighbourhood: &hood})
		assert.ErrorIs(t, err, domain.ErrNotProjectManager)
	})

	t.Run("unknown project", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")

		hood := "Punggol"
		_, err := f.projects.Update(ctx, 999, mgr.ID, &UpdateProjectInput{Neighbourhood: &hood})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestProjectVisibilityToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("turning visibility on re-checks the window rule", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		f.openProject("Acacia Breeze", mgr.ID, 2, 3)
		hidden := f.openProject("Birch Grove", mgr.ID, 5, 5)
		hidden.Visible = false

		_, err := f.projects.SetVisibility(ctx, hidden.ID, mgr.ID, true)
		assert.ErrorIs(t, err, domain.ErrManagerWindowOverlap)
	})

	t.Run("turning visibility off always succeeds", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)

		updated, err := f.projects.SetVisibility(ctx, project.ID, mgr.ID, false)
		require.NoError(t, err)
		assert.False(t, updated.Visible)
	})

	t.Run("only the owning manager toggles", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		other := f.manager("S0000002B")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)

		_, err := f.projects.SetVisibility(ctx, project.ID, other.ID, false)
		assert.ErrorIs(t, err, domain.ErrNotProjectManager)
	})
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()

	t.Run("project with a booked application cannot be deleted", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		project := f.openProject("Acacia Breeze", mgr.ID, 1, 0)
		officer := f.officer("T2222222C", 36)
		officer.HandlingProjectID = &project.ID
		user := f.applicant("S1111111B", 40, domain.Married)

		app, err := f.applications.Submit(ctx, user.ID, &SubmitInput{ProjectID: project.ID, FlatType: domain.TwoRoom})
		require.NoError(t, err)
		_, err = f.applications.Approve(ctx, app.ID, mgr.ID)
		require.NoError(t, err)
		_, err = f.applications.Book(ctx, app.ID, officer.ID)
		require.NoError(t, err)

		err = f.projects.Delete(ctx, project.ID, mgr.ID)
		assert.ErrorIs(t, err, domain.ErrProjectHasBookings)
	})

	t.Run("project without bookings is deleted", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)

		require.NoError(t, f.projects.Delete(ctx, project.ID, mgr.ID))

		_, err := f.projects.GetForUser(ctx, project.ID, mgr.ID)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestProjectAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("applicant sees a hidden project they applied to", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)
		user := f.applicant("S1111111B", 40, domain.Married)

		_, err := f.applications.Submit(ctx, user.ID, &SubmitInput{ProjectID: project.ID, FlatType: domain.TwoRoom})
		require.NoError(t, err)

		project.Visible = false

		got, err := f.projects.GetForUser(ctx, project.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)
	})

	t.Run("applicant cannot see an unrelated hidden project", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)
		project.Visible = false
		user := f.applicant("S1111111B", 40, domain.Married)

		_, err := f.projects.GetForUser(ctx, project.ID, user.ID)
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("handling officer sees their hidden project", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		project := f.openProject("Acacia Breeze", mgr.ID, 2, 3)
		project.Visible = false
		officer := f.officer("T2222222C", 36)
		officer.HandlingProjectID = &project.ID

		_, err := f.projects.GetForUser(ctx, project.ID, officer.ID)
		assert.NoError(t, err)
	})
}

func TestListProjectsForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("applicant listing filters by eligibility", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		open := f.openProject("Acacia Breeze", mgr.ID, 2, 3)
		hidden := f.openProject("Birch Grove", mgr.ID, 5, 5)
		hidden.Visible = false
		projectInWindow(f, "Cedar Heights", mgr.ID, -30, -10)

		young := f.applicant("S1111111B", 30, domain.Single)
		eligible := f.applicant("S3333333D", 35, domain.Single)

		got, total, err := f.projects.ListForUser(ctx, young.ID, &ProjectListInput{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, got)

		got, total, err = f.projects.ListForUser(ctx, eligible.ID, &ProjectListInput{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, open.ID, got[0].ID)
	})

	t.Run("manager sees the full catalog", func(t *testing.T) {
		f := newFixture()
		mgr := f.manager("S0000001A")
		other := f.manager("S0000002B")
		f.openProject("Acacia Breeze", mgr.ID, 2, 3)
		hidden := f.openProject("Birch Grove", other.ID, 5, 5)
		hidden.Visible = false

		_, total, err := f.projects.ListForUser(ctx, mgr.ID, &ProjectListInput{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)

		_, total, err = f.projects.ListForUser(ctx, mgr.ID, &ProjectListInput{Page: 1, Limit: 20, ManagedOnly: true})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})
}
