package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/project-management-api/internal/models"
)

func TestParseGeneratedTasks(t *testing.T) {
	tasks, err := parseGeneratedTasks(`{"tasks":[{"title":"Draft plan","description":"","priority":"high","due_date":"2026-10-28T23:59:59Z"},{"title":"Call Bob","priority":"low","due_date":null}]}`)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, models.TaskPriorityHigh, tasks[0].Priority)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 2026, tasks[0].DueDate.Year())
	assert.Nil(t, tasks[1].DueDate)

	tasks, err = parseGeneratedTasks(`{"tasks":[]}`)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = parseGeneratedTasks("Sure! Here are your tasks:")
	assert.Error(t, err)
}
