package notify

import (
	"encoding/json"
	"time"
)

// ChangeEvent describes one successful mutation. ParentID is the owning
// budget id for transaction events and empty for budget events.
type ChangeEvent struct {
	Entity    string    `json:"entity"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id"`
	ParentID  string    `json:"parent_id,omitempty"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeEvent(entity, action, entityID, parentID, userID string) ChangeEvent {
	return ChangeEvent{
		Entity:    entity,
		Action:    action,
		EntityID:  entityID,
		ParentID:  parentID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (e ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ChangeEventFromJSON(data []byte) (ChangeEvent, error) {
	var event ChangeEvent
	err := json.Unmarshal(data, &event)
	return event, err
}
