package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

// fakeTicketStore keeps tickets in memory and records call order alongside
// the fan-out fakes via the shared journal.
type fakeTicketStore struct {
	journal *[]string
	tickets map[string]*models.Ticket
	editErr error
}

func newFakeStore(journal *[]string) *fakeTicketStore {
	return &fakeTicketStore{journal: journal, tickets: make(map[string]*models.Ticket)}
}

func (f *fakeTicketStore) log(entry string) {
	*f.journal = append(*f.journal, entry)
}

func (f *fakeTicketStore) Create(ctx context.Context, t *models.Ticket) (*models.Ticket, error) {
	t.ID = "t-1"
	t.Status = models.StatusNew
	f.tickets[t.ID] = t
	f.log("store.create")
	return t, nil
}

func (f *fakeTicketStore) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketStore) List(ctx context.Context, page, perPage int) ([]*models.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketStore) ListByAssignee(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketStore) ListByCreator(ctx context.Context, userID string, page, perPage int) ([]*models.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketStore) UpdateStatus(ctx context.Context, id, status string) error {
	f.tickets[id].Status = status
	f.log("store.status:" + status)
	return nil
}

func (f *fakeTicketStore) CompleteWithSolution(ctx context.Context, id, solutionType, solutionData, outputResult string) error {
	t := f.tickets[id]
	t.Status = models.StatusCompleted
	t.SolutionType = solutionType
	t.SolutionData = solutionData
	t.OutputResult = outputResult
	f.log("store.complete")
	return nil
}

func (f *fakeTicketStore) EditOnce(ctx context.Context, id string, edit *repository.TicketEdit) error {
	if f.editErr != nil {
		return f.editErr
	}
	t := f.tickets[id]
	t.Title = edit.Title
	t.Urgency = edit.Urgency
	t.Edited = true
	f.log("store.edit")
	return nil
}

func (f *fakeTicketStore) MarkUserNotified(ctx context.Context, id string) error {
	f.tickets[id].UserNotified = true
	f.log("store.user_notified")
	return nil
}

func (f *fakeTicketStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.tickets[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.tickets, id)
	f.log("store.delete")
	return nil
}

type fakeDispatcher struct {
	journal *[]string
	verbs   []string
}

func (f *fakeDispatcher) TicketEvent(ctx context.Context, verb string, ticket *models.Ticket) {
	*f.journal = append(*f.journal, "webhook:"+verb)
	f.verbs = append(f.verbs, verb)
}

type notified struct {
	userID string
	kind   string
}

type fakeNotifier struct {
	journal *[]string
	writes  []notified
}

func (f *fakeNotifier) Create(ctx context.Context, userID, notificationType, title, message, redirectPath string) bool {
	*f.journal = append(*f.journal, "notify:"+notificationType)
	f.writes = append(f.writes, notified{userID: userID, kind: notificationType})
	return true
}

func newTestTicketService() (*TicketService, *fakeTicketStore, *fakeDispatcher, *fakeNotifier, *[]string) {
	journal := &[]string{}
	store := newFakeStore(journal)
	dispatcher := &fakeDispatcher{journal: journal}
	notifier := &fakeNotifier{journal: journal}
	svc := NewTicketService(store, dispatcher, notifier)
	return svc, store, dispatcher, notifier, journal
}

func TestCreateNotifiesAssignee(t *testing.T) {
	svc, _, dispatcher, notifier, _ := newTestTicketService()

	ticket, err := svc.Create(context.Background(), &CreateTicketInput{
		Title:      "Restore the index",
		Urgency:    models.UrgencyHigh,
		AssignedTo: "u-worker",
		CreatedBy:  "u-creator",
	})
	require.NoError(t, err)
	assert.True(t, ticket.UserNotified)
	assert.Equal(t, []string{"created"}, dispatcher.verbs)
	require.Len(t, notifier.writes, 1)
	assert.Equal(t, "u-worker", notifier.writes[0].userID)
	assert.Equal(t, models.NotificationTicketAssigned, notifier.writes[0].kind)
}

func TestCreateSkipsSelfNotification(t *testing.T) {
	svc, _, dispatcher, notifier, _ := newTestTicketService()

	ticket, err := svc.Create(context.Background(), &CreateTicketInput{
		Title:      "Self-assigned chore",
		Urgency:    models.UrgencyLow,
		AssignedTo: "u-1",
		CreatedBy:  "u-1",
	})
	require.NoError(t, err)
	assert.False(t, ticket.UserNotified)
	assert.Empty(t, notifier.writes)
	// The webhook still fires.
	assert.Equal(t, []string{"created"}, dispatcher.verbs)
}

func TestCreateRejectsUnknownUrgency(t *testing.T) {
	svc, _, dispatcher, _, _ := newTestTicketService()

	_, err := svc.Create(context.Background(), &CreateTicketInput{
		Title:      "Bad urgency",
		Urgency:    "urgent",
		AssignedTo: "a",
		CreatedBy:  "b",
	})
	assert.ErrorIs(t, err, ErrInvalidUrgency)
	assert.Empty(t, dispatcher.verbs)
}

func TestStartRequiresAssignee(t *testing.T) {
	svc, _, _, notifier, _ := newTestTicketService()
	created, err := svc.Create(context.Background(), &CreateTicketInput{
		Title: "Gate check", Urgency: models.UrgencyMedium, AssignedTo: "u-worker", CreatedBy: "u-creator",
	})
	require.NoError(t, err)
	notifier.writes = nil

	_, err = svc.Start(context.Background(), created.ID, "u-somebody")
	assert.ErrorIs(t, err, ErrNotAssignee)

	ticket, err := svc.Start(context.Background(), created.ID, "u-worker")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, ticket.Status)
	require.Len(t, notifier.writes, 1)
	assert.Equal(t, "u-creator", notifier.writes[0].userID)
	assert.Equal(t, models.NotificationTicketInWork, notifier.writes[0].kind)
}

func TestCompleteValidatesSolution(t *testing.T) {
	svc, store, _, notifier, _ := newTestTicketService()
	created, err := svc.Create(context.Background(), &CreateTicketInput{
		Title: "Needs a solution", Urgency: models.UrgencyMedium, AssignedTo: "u-worker", CreatedBy: "u-creator",
	})
	require.NoError(t, err)
	notifier.writes = nil

	_, err = svc.Complete(context.Background(), created.ID, "u-worker",
		&models.Solution{Type: models.SolutionN8NWorkflow, JSON: "{not json"}, "")
	assert.ErrorIs(t, err, models.ErrInvalidSolution)
	assert.Equal(t, models.StatusNew, store.tickets[created.ID].Status)

	ticket, err := svc.Complete(context.Background(), created.ID, "u-worker",
		&models.Solution{Type: models.SolutionPrompt, Text: "Use this prompt."}, "done")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, ticket.Status)
	require.Len(t, notifier.writes, 1)
	assert.Equal(t, models.NotificationTicketSolved, notifier.writes[0].kind)

	// Completing twice is rejected.
	_, err = svc.Complete(context.Background(), created.ID, "u-worker",
		&models.Solution{Type: models.SolutionPrompt, Text: "again"}, "")
	assert.ErrorIs(t, err, ErrTicketCompleted)
}

func TestEditIsOneShot(t *testing.T) {
	svc, _, dispatcher, _, _ := newTestTicketService()
	created, err := svc.Create(context.Background(), &CreateTicketInput{
		Title: "Original", Urgency: models.UrgencyLow, AssignedTo: "u-worker", CreatedBy: "u-creator",
	})
	require.NoError(t, err)

	edit := &repository.TicketEdit{Title: "Edited", Urgency: models.UrgencyHigh, AssignedTo: "u-worker"}

	_, err = svc.Edit(context.Background(), created.ID, "u-worker", edit)
	assert.ErrorIs(t, err, ErrNotCreator)

	updated, err := svc.Edit(context.Background(), created.ID, "u-creator", edit)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	assert.True(t, updated.Edited)
	assert.Contains(t, dispatcher.verbs, "updated")

	_, err = svc.Edit(context.Background(), created.ID, "u-creator", edit)
	assert.ErrorIs(t, err, ErrAlreadyEdited)
}

func TestEditLostRaceSurfacesAlreadyEdited(t *testing.T) {
	svc, store, _, _, _ := newTestTicketService()
	created, err := svc.Create(context.Background(), &CreateTicketInput{
		Title: "Race", Urgency: models.UrgencyLow, AssignedTo: "u-worker", CreatedBy: "u-creator",
	})
	require.NoError(t, err)

	// The conditional update matched zero rows: a concurrent edit won.
	store.editErr = sql.ErrNoRows
	_, err = svc.Edit(context.Background(), created.ID, "u-creator",
		&repository.TicketEdit{Title: "Late", Urgency: models.UrgencyLow, AssignedTo: "u-worker"})
	assert.ErrorIs(t, err, ErrAlreadyEdited)
}

func TestDeleteSendsWebhookBeforeRemovingRow(t *testing.T) {
	svc, _, _, _, journal := newTestTicketService()
	created, err := svc.Create(context.Background(), &CreateTicketInput{
		Title: "Doomed", Urgency: models.UrgencyLow, AssignedTo: "u-worker", CreatedBy: "u-creator",
	})
	require.NoError(t, err)
	*journal = nil

	require.NoError(t, svc.Delete(context.Background(), created.ID, "u-creator"))
	require.Equal(t, []string{"webhook:deleted", "store.delete"}, *journal)
}

func TestDeleteGuards(t *testing.T) {
	svc, store, _, _, _ := newTestTicketService()
	created, err := svc.Create(context.Background(), &CreateTicketInput{
		Title: "Guarded", Urgency: models.UrgencyLow, AssignedTo: "u-worker", CreatedBy: "u-creator",
	})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID, "u-worker")
	assert.ErrorIs(t, err, ErrNotCreator)

	store.tickets[created.ID].Status = models.StatusCompleted
	err = svc.Delete(context.Background(), created.ID, "u-creator")
	assert.ErrorIs(t, err, ErrTicketCompleted)

	err = svc.Delete(context.Background(), "missing", "u-creator")
	assert.ErrorIs(t, err, ErrNotFound)
}
