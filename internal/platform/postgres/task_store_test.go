package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/store"
)

func int64ptr(v int64) *int64 {
	return &v
}

func TestBuildListQuery(t *testing.T) {
	t.Parallel()

	t.Run("empty filter selects all tasks", func(t *testing.T) {
		t.Parallel()
		query, args := buildListQuery(store.TaskFilter{})
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "ORDER BY t.id")
		assert.Empty(t, args)
	})

	t.Run("single criterion", func(t *testing.T) {
		t.Parallel()
		query, args := buildListQuery(store.TaskFilter{StatusID: int64ptr(4)})
		assert.Contains(t, query, "WHERE t.status_id = $1")
		assert.Equal(t, []any{int64(4)}, args)
	})

	t.Run("criteria are ANDed with sequential placeholders", func(t *testing.T) {
		t.Parallel()
		query, args := buildListQuery(store.TaskFilter{
			StatusID:   int64ptr(1),
			ExecutorID: int64ptr(2),
			CreatorID:  int64ptr(3),
			LabelID:    int64ptr(4),
		})
		assert.Contains(t, query, "t.status_id = $1")
		assert.Contains(t, query, "t.executor_id = $2")
		assert.Contains(t, query, "t.creator_id = $3")
		assert.Contains(t, query, "tl.label_id = $4")
		assert.Equal(t, 3, strings.Count(query, " AND "))
		assert.Equal(t, []any{int64(1), int64(2), int64(3), int64(4)}, args)
	})

	t.Run("label criterion uses the join table", func(t *testing.T) {
		t.Parallel()
		query, args := buildListQuery(store.TaskFilter{LabelID: int64ptr(9)})
		assert.Contains(t, query, "EXISTS (SELECT 1 FROM tasks_labels tl")
		assert.Contains(t, query, "tl.task_id = t.id")
		require.Len(t, args, 1)
		assert.Equal(t, int64(9), args[0])
	})

	t.Run("results are ordered by task id", func(t *testing.T) {
		t.Parallel()
		query, _ := buildListQuery(store.TaskFilter{CreatorID: int64ptr(1)})
		assert.True(t, strings.HasSuffix(query, "ORDER BY t.id"))
	})
}

func TestNullString(t *testing.T) {
	t.Parallel()

	assert.False(t, nullString("").Valid)
	ns := nullString("text")
	assert.True(t, ns.Valid)
	assert.Equal(t, "text", ns.String)
}
