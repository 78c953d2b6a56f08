package teamsai

// TurnContext carries the activity of the turn being processed. It is passed
// to the renderer and to every template function.
type TurnContext struct {
	activity *Activity
}

// NewTurnContext creates a turn context for the given activity.
func NewTurnContext(activity *Activity) *TurnContext {
	return &TurnContext{activity: activity}
}

// Activity returns the triggering activity, or nil.
func (t *TurnContext) Activity() *Activity {
	if t == nil {
		return nil
	}
	return t.activity
}
