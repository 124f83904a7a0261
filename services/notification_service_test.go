package services

import (
	"context"
	"testing"

	"github.com/campusadmit/admissions-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyDecision_RejectedUsesWarning(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	app := &model.Application{
		ID:              3,
		ApplicantUserID: 7,
		StudentName:     "Jane Roe",
		UniversityID:    1,
		CourseID:        2,
		Status:          model.StatusRejected,
	}

	require.NoError(t, svc.NotifyDecision(context.Background(), app))

	notifs, err := svc.ListForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, model.NotificationTypeWarning, notifs[0].Type)
	assert.Contains(t, notifs[0].Message, "Jane Roe")
}

func TestListForUser_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	first := &model.Application{ID: 1, ApplicantUserID: 7, StudentName: "A", Status: model.StatusAdmitted}
	second := &model.Application{ID: 2, ApplicantUserID: 7, StudentName: "B", Status: model.StatusRejected}
	require.NoError(t, svc.NotifyDecision(ctx, first))
	require.NoError(t, svc.NotifyDecision(ctx, second))

	notifs, err := svc.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Equal(t, uint(2), notifs[0].ApplicationID)
	assert.Equal(t, uint(1), notifs[1].ApplicationID)
}

func TestMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	app := &model.Application{ID: 1, ApplicantUserID: 7, StudentName: "A", Status: model.StatusAdmitted}
	require.NoError(t, svc.NotifyDecision(ctx, app))

	notifs, err := svc.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, notifs, 1)

	require.NoError(t, svc.MarkRead(ctx, 7, notifs[0].ID))

	notifs, err = svc.ListForUser(ctx, 7)
	require.NoError(t, err)
	assert.True(t, notifs[0].Read)
}

func TestMarkRead_OtherUsersNotificationInvisible(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	ctx := context.Background()

	app := &model.Application{ID: 1, ApplicantUserID: 7, StudentName: "A", Status: model.StatusAdmitted}
	require.NoError(t, svc.NotifyDecision(ctx, app))

	notifs, err := svc.ListForUser(ctx, 7)
	require.NoError(t, err)

	err = svc.MarkRead(ctx, 99, notifs[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
