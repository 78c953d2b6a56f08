package teamsai

import (
	"encoding/json"
	"strings"
)

// Activity is the inbound message or event that triggered a turn.
// Property lookups are case-insensitive; the lower-cased key index is built
// once at construction.
type Activity struct {
	properties map[string]any
	index      map[string]string // lower-cased key -> original key
}

// NewActivity wraps a decoded activity payload. The map is not copied and
// must not be modified afterwards.
func NewActivity(properties map[string]any) *Activity {
	if properties == nil {
		properties = make(map[string]any)
	}
	return &Activity{
		properties: properties,
		index:      buildKeyIndex(properties),
	}
}

// NewMessageActivity creates a message activity for the given conversation.
func NewMessageActivity(channelID, conversationID, fromID, text string) *Activity {
	return NewActivity(map[string]any{
		ActivityKeyType:         ActivityTypeMessage,
		ActivityKeyText:         text,
		ActivityKeyChannelID:    channelID,
		ActivityKeyConversation: map[string]any{ActivityKeyNestedID: conversationID},
		ActivityKeyFrom:         map[string]any{ActivityKeyNestedID: fromID},
	})
}

// ParseActivity decodes a JSON activity payload.
func ParseActivity(data []byte) (*Activity, error) {
	var properties map[string]any
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, NewStateError(ErrMsgInvalidActivity + ": " + err.Error())
	}
	return NewActivity(properties), nil
}

// Property returns a top-level property by case-insensitive name.
func (a *Activity) Property(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	key, ok := a.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return a.properties[key], true
}

// Properties returns a shallow copy of the activity payload.
func (a *Activity) Properties() map[string]any {
	out := make(map[string]any, len(a.properties))
	for k, v := range a.properties {
		out[k] = v
	}
	return out
}

// Type returns the activity type, e.g. "message".
func (a *Activity) Type() string { return a.stringProperty(ActivityKeyType) }

// Text returns the message text.
func (a *Activity) Text() string { return a.stringProperty(ActivityKeyText) }

// ChannelID returns the channel the activity arrived on.
func (a *Activity) ChannelID() string { return a.stringProperty(ActivityKeyChannelID) }

// ConversationID returns conversation.id.
func (a *Activity) ConversationID() string { return a.nestedID(ActivityKeyConversation) }

// FromID returns from.id.
func (a *Activity) FromID() string { return a.nestedID(ActivityKeyFrom) }

// RecipientID returns recipient.id, usually the bot id.
func (a *Activity) RecipientID() string { return a.nestedID(ActivityKeyRecipient) }

func (a *Activity) stringProperty(name string) string {
	v, ok := a.Property(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (a *Activity) nestedID(name string) string {
	v, ok := a.Property(name)
	if !ok {
		return ""
	}
	nested, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	for k, id := range nested {
		if strings.EqualFold(k, ActivityKeyNestedID) {
			s, _ := id.(string)
			return s
		}
	}
	return ""
}

func buildKeyIndex(values map[string]any) map[string]string {
	index := make(map[string]string, len(values))
	for k := range values {
		index[strings.ToLower(k)] = k
	}
	return index
}
