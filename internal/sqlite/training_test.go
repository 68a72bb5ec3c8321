package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/teamportal/internal/domain/training"
	"github.com/rpggio/teamportal/internal/repository"
)

func TestTrainingRepository_CreateAndList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTrainingRepository(db)
	employees := NewEmployeeRepository(db)
	require.NoError(t, employees.Create(ctx, newEmployee("e1", "Ada")))
	require.NoError(t, employees.Create(ctx, newEmployee("e2", "Grace")))

	add := func(id, employeeID string, day int, attachments []training.Attachment) {
		require.NoError(t, repo.Create(ctx, &training.Update{
			ID:          id,
			EmployeeID:  employeeID,
			Course:      "Go fundamentals",
			Date:        time.Date(2024, 7, day, 0, 0, 0, 0, time.UTC),
			TasksDone:   "chapter " + id,
			Attachments: attachments,
			Status:      training.DefaultStatus,
			CreatedBy:   "user-" + employeeID,
			CreatedAt:   time.Now().UTC(),
		}))
	}
	add("t1", "e1", 1, nil)
	add("t2", "e2", 3, []training.Attachment{{Name: "cert", URL: "https://example.com/cert.pdf"}})
	add("t3", "e1", 2, nil)

	all, err := repo.List(ctx, training.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "t2", all[0].ID, "newest first")
	require.Equal(t, "Grace", all[0].EmployeeName)
	require.Equal(t, "cert", all[0].Attachments[0].Name)
	require.Equal(t, []training.Attachment{}, all[1].Attachments)

	mine, err := repo.List(ctx, training.ListOptions{EmployeeID: "e1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, "t3", mine[0].ID)
	require.Equal(t, "t1", mine[1].ID)
}

func TestTrainingRepository_Create_UnknownEmployee(t *testing.T) {
	db := NewTestDB(t)
	err := NewTrainingRepository(db).Create(context.Background(), &training.Update{
		ID:         "t1",
		EmployeeID: "ghost",
		Course:     "Go",
		Date:       time.Now().UTC(),
		TasksDone:  "x",
		Status:     training.DefaultStatus,
		CreatedAt:  time.Now().UTC(),
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}
