package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvneilson/neighborhood-chef-fe/internal/wizard"
)

// Повторный /create или /edit поверх идущего мастера не должен терять
// teardown старой сессии: она завершается перед установкой новой.
func TestBeginSession_EndsPrevious(t *testing.T) {
	const chatID int64 = 100500
	defer delete(chatSessions, chatID)

	prev := wizard.New()
	prev.SetTitle("Старое событие")
	prev.ToggleModifier(1)
	chatSessions[chatID] = &chatState{sess: prev, step: stepDate, userID: 7}

	next := &chatState{sess: wizard.New(), step: stepTitle, userID: 7}
	beginSession(chatID, next)

	assert.True(t, prev.Ended())
	for _, m := range prev.Modifiers() {
		assert.False(t, m.Active, m.Title)
	}

	require.Same(t, next, chatSessions[chatID])
	assert.False(t, next.sess.Ended())
}

// Вариант без сессии: /edit кладёт состояние ещё до выбора события.
func TestBeginSession_PreviousWithoutSession(t *testing.T) {
	const chatID int64 = 100501
	defer delete(chatSessions, chatID)

	chatSessions[chatID] = &chatState{userID: 7}

	next := &chatState{sess: wizard.New(), step: stepTitle, userID: 7}
	beginSession(chatID, next)

	require.Same(t, next, chatSessions[chatID])
}
