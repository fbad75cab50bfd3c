package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entity names the record collection a change event refers to.
type Entity string

const (
	EntityTransaction Entity = "transaction"
	EntityBudget      Entity = "budget"
	EntityRecurring   Entity = "recurring"
	EntityQuickAdd    Entity = "quick_add"
	// EntityAll is used for bulk operations such as import and clear-all.
	EntityAll Entity = "all"
)

// Action is what happened to the entity.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionCleared  Action = "cleared"
	ActionImported Action = "imported"
	ActionExecuted Action = "executed"
)

// ChangeEvent announces a mutation of the store. It carries only
// identifiers; consumers reload whatever they need.
type ChangeEvent struct {
	Entity    Entity    `json:"entity"`
	Action    Action    `json:"action"`
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeEvent(entity Entity, action Action, id string) *ChangeEvent {
	return &ChangeEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// AffectsAnalytics reports whether the event can change derived spending
// data. Quick-add presets never do.
func (e *ChangeEvent) AffectsAnalytics() bool {
	return e.Entity != EntityQuickAdd
}

func (e *ChangeEvent) String() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s", e.Entity, e.Action)
	}
	return fmt.Sprintf("%s %s %s", e.Entity, e.ID, e.Action)
}

func (e *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Entity == "" || e.Action == "" {
		return nil, fmt.Errorf("change event missing entity or action")
	}
	return &e, nil
}
