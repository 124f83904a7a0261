package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeSlots_TrailingSlotsEmpty(t *testing.T) {
	app := Application{
		Grades: []ApplicationGrade{
			{Position: 1, Subject: "Mathematics", Grade: "A"},
			{Position: 2, Subject: "Physics", Grade: "B+"},
			{Position: 3, Subject: "Chemistry", Grade: "A-"},
		},
	}

	slots := app.GradeSlots()

	assert.Equal(t, "Mathematics", slots[0].Subject)
	assert.Equal(t, "A", slots[0].Grade)
	assert.Equal(t, "Physics", slots[1].Subject)
	assert.Equal(t, "Chemistry", slots[2].Subject)

	for i := 3; i < MaxGradeSlots; i++ {
		assert.Empty(t, slots[i].Subject, "slot %d subject should be empty", i+1)
		assert.Empty(t, slots[i].Grade, "slot %d grade should be empty", i+1)
	}
}

func TestGradeSlots_PreservesPositions(t *testing.T) {
	// Positions need not be contiguous; each pair lands in its own slot.
	app := Application{
		Grades: []ApplicationGrade{
			{Position: 5, Subject: "Biology", Grade: "C"},
			{Position: 1, Subject: "History", Grade: "B"},
		},
	}

	slots := app.GradeSlots()

	assert.Equal(t, "History", slots[0].Subject)
	assert.Equal(t, "Biology", slots[4].Subject)
	assert.Empty(t, slots[1].Subject)
}

func TestGradeSlots_IgnoresOutOfRangePositions(t *testing.T) {
	app := Application{
		Grades: []ApplicationGrade{
			{Position: 0, Subject: "Bad", Grade: "F"},
			{Position: 9, Subject: "AlsoBad", Grade: "F"},
			{Position: 2, Subject: "Good", Grade: "A"},
		},
	}

	slots := app.GradeSlots()

	assert.Equal(t, "Good", slots[1].Subject)
	for i, s := range slots {
		if i != 1 {
			assert.Empty(t, s.Subject)
		}
	}
}

func TestToResponse_AlwaysEightSlots(t *testing.T) {
	app := Application{
		ID:          42,
		StudentName: "Jane Roe",
		Status:      StatusPending,
		Grades: []ApplicationGrade{
			{Position: 1, Subject: "Art", Grade: "A"},
		},
	}

	res := app.ToResponse()

	assert.Equal(t, uint(42), res.ID)
	assert.Equal(t, "Jane Roe", res.StudentName)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, "Art", res.Subject1)
	assert.Equal(t, "A", res.Grade1)
	assert.Empty(t, res.Subject2)
	assert.Empty(t, res.Grade8)
}

func TestApplicationStatus_IsDecision(t *testing.T) {
	assert.True(t, StatusAdmitted.IsDecision())
	assert.True(t, StatusRejected.IsDecision())
	assert.False(t, StatusPending.IsDecision())
	assert.False(t, ApplicationStatus("withdrawn").IsDecision())
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAdmin))
	assert.True(t, IsValidRole(RoleInstitution))
	assert.True(t, IsValidRole(RoleStudent))
	assert.False(t, IsValidRole("superuser"))
	assert.False(t, IsValidRole(""))
}
