package teamsai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TurnStateManager loads and saves the persisted scopes of a TurnState.
// Conversation state is stored under
// "{channelId}/{recipientId}/conversations/{conversationId}" and user state
// under "{channelId}/{recipientId}/users/{fromId}".
type TurnStateManager struct {
	storage Storage
	logger  *zap.Logger
}

// NewTurnStateManager creates a manager backed by storage.
func NewTurnStateManager(storage Storage, logger *zap.Logger) *TurnStateManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurnStateManager{storage: storage, logger: logger}
}

// StorageKeys returns the conversation and user keys for a turn. The user
// key is empty when the activity has no sender id.
func StorageKeys(turn *TurnContext) (conversationKey, userKey string, err error) {
	activity := turn.Activity()
	if activity == nil {
		return "", "", NewStateError(ErrMsgNilTurn)
	}
	channel := activity.ChannelID()
	if channel == "" {
		return "", "", NewStateError(ErrMsgMissingChannel)
	}
	conversation := activity.ConversationID()
	if conversation == "" {
		return "", "", NewStateError(ErrMsgMissingConversation)
	}
	recipient := activity.RecipientID()

	conversationKey = fmt.Sprintf(StorageKeyFmtConversation, channel, recipient, conversation)
	if from := activity.FromID(); from != "" {
		userKey = fmt.Sprintf(StorageKeyFmtUser, channel, recipient, from)
	}
	return conversationKey, userKey, nil
}

// LoadState reads the conversation and user scopes for the turn and returns
// a TurnState whose temp scope is seeded with the activity text as input and
// an empty output.
func (m *TurnStateManager) LoadState(ctx context.Context, turn *TurnContext) (*TurnState, error) {
	conversationKey, userKey, err := StorageKeys(turn)
	if err != nil {
		return nil, err
	}

	keys := []string{conversationKey}
	if userKey != "" {
		keys = append(keys, userKey)
	}
	items, err := m.storage.Read(ctx, keys)
	if err != nil {
		return nil, err
	}

	state := &TurnState{scopes: map[string]*StateScope{
		ScopeTemp: NewStateScope(ScopeTemp, map[string]any{
			TempKeyInput:  turn.Activity().Text(),
			TempKeyOutput: "",
		}),
		ScopeConversation: NewStateScope(ScopeConversation, items[conversationKey]),
		ScopeUser:         NewStateScope(ScopeUser, items[userKey]),
	}}

	m.logger.Debug(LogMsgStateLoaded, zap.Strings(LogFieldKeys, keys), zap.Int(LogFieldItems, len(items)))
	return state, nil
}

// SaveState writes changed scopes and deletes cleared ones. Scopes that were
// not modified are left untouched in storage.
func (m *TurnStateManager) SaveState(ctx context.Context, turn *TurnContext, state *TurnState) error {
	conversationKey, userKey, err := StorageKeys(turn)
	if err != nil {
		return err
	}

	changes := make(map[string]StoreItem)
	var deletes []string
	var saved []*StateScope

	collect := func(scope *StateScope, key string) {
		if scope == nil || key == "" {
			return
		}
		switch {
		case scope.Deleted():
			deletes = append(deletes, key)
			saved = append(saved, scope)
		case scope.Changed():
			changes[key] = StoreItem(scope.Values())
			saved = append(saved, scope)
		}
	}
	collect(state.Conversation(), conversationKey)
	collect(state.User(), userKey)

	if len(changes) > 0 {
		if err := m.storage.Write(ctx, changes); err != nil {
			return err
		}
	}
	if len(deletes) > 0 {
		if err := m.storage.Delete(ctx, deletes); err != nil {
			return err
		}
	}
	for _, scope := range saved {
		scope.markSaved()
	}

	m.logger.Debug(LogMsgStateSaved, zap.Int(LogFieldItems, len(changes)), zap.Strings(LogFieldKeys, deletes))
	return nil
}
