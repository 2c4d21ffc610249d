package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	t.Helper()
	ctx := context.Background()
	conversationID := "contract-test-conversation-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewConversationState(conversationID)
		state.Locale = "pt-br"
		state.Stack = append(state.Stack,
			domain.DialogInstance{ID: "root", State: map[string]any{"step": 1}},
			domain.DialogInstance{ID: "confirm", State: map[string]any{"attempts": 0}},
		)
		state.Values["foo"] = "bar"

		err := store.Save(ctx, conversationID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, conversationID, loaded.ConversationID)
		assert.Equal(t, []string{"root", "confirm"}, loaded.StackIDs())
		assert.Equal(t, "pt-br", loaded.Locale)
		assert.Equal(t, "bar", loaded.Values["foo"])
		// JSON persistence may turn ints into float64; only check presence.
		assert.NotNil(t, loaded.Stack[0].State["step"])
	})

	t.Run("Load Isolated From Caller", func(t *testing.T) {
		state := domain.NewConversationState(conversationID)
		state.Stack = append(state.Stack, domain.DialogInstance{ID: "root", State: map[string]any{}})
		require.NoError(t, store.Save(ctx, conversationID, state))

		state.Stack[0].State["mutated"] = true

		loaded, err := store.Load(ctx, conversationID)
		require.NoError(t, err)
		_, leaked := loaded.Stack[0].State["mutated"]
		assert.False(t, leaked, "mutating the saved pointer must not change stored state")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+conversationID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, conversationID, domain.NewConversationState(conversationID))
		require.NoError(t, err)

		err = store.Delete(ctx, conversationID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, conversationID)
		assert.ErrorIs(t, err, domain.ErrConversationNotFound, "Load after Delete should return ErrConversationNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := conversationID + "-1"
		id2 := conversationID + "-2"
		_ = store.Save(ctx, id1, domain.NewConversationState(id1))
		_ = store.Save(ctx, id2, domain.NewConversationState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		conversations, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, conversations, id1)
		assert.Contains(t, conversations, id2)
	})
}
