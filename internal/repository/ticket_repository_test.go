package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdesk/promptdesk/internal/models"
)

func newMockRepo(t *testing.T) (*TicketRepository, sqlmock.Sqlmock, func()) {
	t.Setenv("TEST_DB_DRIVER", "mysql")
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewTicketRepository(db), mock, func() { db.Close() }
}

func ticketRows(id string, edited bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "title", "urgency", "details", "deadline", "status",
		"assigned_to", "created_by", "solution_type", "solution_data", "output_result",
		"edited", "user_notified", "created_at", "updated_at",
		"a_email", "a_full_name", "a_chat", "c_email", "c_full_name", "c_chat",
	}).AddRow(
		id, "Title", "low", nil, nil, "new",
		"u-worker", "u-creator", nil, nil, nil,
		edited, false, now, now,
		"w@example.com", "Worker", nil, "c@example.com", "Creator", nil,
	)
}

func TestGetByIDJoinsRelations(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users a ON a.id = t.assigned_to")).
		WithArgs("t-1").
		WillReturnRows(ticketRows("t-1", false))

	ticket, err := repo.GetByID(context.Background(), "t-1")
	require.NoError(t, err)
	require.NotNil(t, ticket.Assignee)
	require.NotNil(t, ticket.Creator)
	assert.Equal(t, "w@example.com", ticket.Assignee.Email)
	assert.Equal(t, "u-creator", ticket.Creator.ID)
	assert.Nil(t, ticket.Deadline)
}

func TestEditOnceZeroRowsIsNoRows(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	// The edited = FALSE guard matched nothing: a previous edit already won.
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND edited = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.EditOnce(context.Background(), "t-1", &TicketEdit{
		Title: "Edited", Urgency: models.UrgencyHigh, AssignedTo: "u-worker",
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEditOnceAppliesUpdate(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets")).
		WithArgs("Edited", "high", "", nil, "u-worker", sqlmock.AnyArg(), "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.EditOnce(context.Background(), "t-1", &TicketEdit{
		Title: "Edited", Urgency: models.UrgencyHigh, AssignedTo: "u-worker",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRow(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tickets WHERE id = ?")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPageBounds(t *testing.T) {
	limit, offset := pageBounds(0, 0)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 0, offset)

	limit, offset = pageBounds(3, 10)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 20, offset)

	limit, _ = pageBounds(1, 1000)
	assert.Equal(t, 100, limit)
}
