package orch

import (
	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
)

// CreateTopic stores a topic and pushes the room's topic list to whoever is
// connected there.
func (o *Orchestrator) CreateTopic(d domain.TopicDraft) (domain.Topic, error) {
	t, err := o.Topics.CreateTopic(d, o.now())
	if err != nil {
		return domain.Topic{}, err
	}
	if room, ok := o.Rooms.Get(t.Room); ok {
		o.publish(room, topicsMessage{Type: "topics", Topics: o.Topics.Topics(t.Room)})
	}
	return t, nil
}

func (o *Orchestrator) AddResponse(d domain.ResponseDraft) (domain.Response, error) {
	r, err := o.Topics.AddResponse(d, o.now())
	if err != nil {
		return domain.Response{}, err
	}
	if room, ok := o.Rooms.Get(r.Room); ok {
		o.publish(room, responsesMessage{
			Type:      "responses",
			TopicID:   r.TopicID,
			Responses: o.Topics.Responses(r.Room, r.TopicID),
		})
	}
	return r, nil
}

// sendBoard gives a client that just joined the room's topics and responses.
func (o *Orchestrator) sendBoard(room core.RoomService, sid core.SessionID) {
	if o.Topics == nil {
		return
	}
	o.sendTo(room, sid, topicsMessage{Type: "topics", Topics: o.Topics.Topics(room.Name())})
	o.sendTo(room, sid, responsesMessage{Type: "responses", Responses: o.Topics.Responses(room.Name(), "")})
}
