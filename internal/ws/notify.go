package ws

import (
	"encoding/json"
	"time"
)

const EventOpportunitiesUpdated = "opportunities_updated"

type OpportunitiesUpdatedEvent struct {
	Type          string `json:"type"`
	Action        string `json:"action"`
	OpportunityID string `json:"opportunity_id"`
	Timestamp     string `json:"timestamp"`
}

// Notifier tells subscribers that the opportunity list changed.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) OpportunitiesUpdated(action, opportunityID string) {
	if n == nil || n.hub == nil {
		return
	}

	evt := OpportunitiesUpdatedEvent{
		Type:          EventOpportunitiesUpdated,
		Action:        action,
		OpportunityID: opportunityID,
		Timestamp:     n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(b)
}
