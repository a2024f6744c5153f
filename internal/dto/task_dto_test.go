package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"kanban-board-api/internal/domain"
)

func TestToTaskResponseLabels(t *testing.T) {
	task := &domain.Task{Title: "task", Labels: []byte(`["bug","urgent"]`)}
	task.ID = uuid.New()

	resp := ToTaskResponse(task)
	assert.Equal(t, []string{"bug", "urgent"}, resp.Labels)
}

func TestToTaskResponseLabelsNeverNil(t *testing.T) {
	cases := map[string][]byte{
		"null labels":    nil,
		"empty payload":  []byte(``),
		"corrupt value":  []byte(`{{`),
		"empty array":    []byte(`[]`),
		"sql null quirk": []byte(`null`),
	}
	for name, labels := range cases {
		t.Run(name, func(t *testing.T) {
			resp := ToTaskResponse(&domain.Task{Title: "task", Labels: labels})
			assert.NotNil(t, resp.Labels)
			assert.Empty(t, resp.Labels)
		})
	}
}

func TestUpdateTaskRequestHasMove(t *testing.T) {
	title := "renamed"
	columnID := uuid.New()
	position := 2

	assert.False(t, (&UpdateTaskRequest{}).HasMove())
	assert.False(t, (&UpdateTaskRequest{Title: &title}).HasMove())
	assert.True(t, (&UpdateTaskRequest{ColumnID: &columnID}).HasMove())
	assert.True(t, (&UpdateTaskRequest{Position: &position}).HasMove())
}
