package nsq

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/nsqio/go-nsq"
	"github.com/superjcd/gohltv/request"
	"github.com/superjcd/gohltv/scheduler"
)

type memoryPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
	err      error
}

func (p *memoryPublisher) Publish(topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.messages == nil {
		p.messages = map[string][][]byte{}
	}
	p.messages[topic] = append(p.messages[topic], body)
	return nil
}

func (p *memoryPublisher) Stop() {}

func newTestScheduler(t *testing.T) (*nsqScheduler, *memoryPublisher) {
	t.Helper()
	s, err := NewNsqScheduler("jobs", "workers", "127.0.0.1:4150", "127.0.0.1:4161", WithBufferSize(4))
	if err != nil {
		t.Fatal(err)
	}
	pub := &memoryPublisher{}
	s.nsqProducer = pub
	return s, pub
}

func TestQueuePushPublishesJSON(t *testing.T) {
	s, pub := newTestScheduler(t)
	req := request.New("team", map[string]string{"id": "9565"})
	if err := s.Push(context.Background(), scheduler.QUEUE_PUSH, req); err != nil {
		t.Fatal(err)
	}

	msgs := pub.messages["jobs"]
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	var got request.Request
	if err := json.Unmarshal(msgs[0], &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != req.ID || got.Arg("id") != "9565" {
		t.Errorf("unexpected message %+v", got)
	}

	pub.err = errors.New("nsqd down")
	if err := s.Push(context.Background(), scheduler.QUEUE_PUSH, req); err == nil {
		t.Errorf("publish failure should be returned")
	}
}

func TestHandleMessageFeedsWorkers(t *testing.T) {
	s, _ := newTestScheduler(t)
	h := &nsqMessageHandler{s: s}

	body, _ := json.Marshal(request.New("events", nil))
	if err := h.HandleMessage(&nsq.Message{Body: body}); err != nil {
		t.Fatal(err)
	}
	if err := h.HandleMessage(&nsq.Message{Body: []byte("{broken")}); err != nil {
		t.Errorf("malformed message should be dropped, got %v", err)
	}
	if err := h.HandleMessage(&nsq.Message{}); err != nil {
		t.Errorf("empty message should be ignored, got %v", err)
	}

	req, err := s.Pull(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if req.Kind != "events" {
		t.Errorf("unexpected job %+v", req)
	}
}

func TestUnknownPushType(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.Push(context.Background(), 42, request.New("news", nil)); err == nil {
		t.Errorf("expected error for unknown push type")
	}
}
