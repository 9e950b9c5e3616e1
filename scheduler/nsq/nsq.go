package nsq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nsqio/go-nsq"
	"github.com/superjcd/gohltv/request"
	"github.com/superjcd/gohltv/scheduler"
	"go.uber.org/zap"
)

type publisher interface {
	Publish(topic string, body []byte) error
	Stop()
}

type nsqScheduler struct {
	workerCh       chan *request.Request
	done           chan struct{}
	once           sync.Once
	nsqLookupdAddr string
	topicName      string
	channelName    string
	nsqConsumer    *nsq.Consumer
	nsqProducer    publisher
	options
}

type nsqMessageHandler struct {
	s *nsqScheduler
}

// HandleMessage hands a consumed job to the local workers. Malformed bodies
// are logged and finished so they are not redelivered.
func (h *nsqMessageHandler) HandleMessage(m *nsq.Message) error {
	if len(m.Body) == 0 {
		return nil
	}

	var req request.Request
	if err := json.Unmarshal(m.Body, &req); err != nil {
		h.s.logger.Error("drop malformed job", zap.ByteString("body", m.Body), zap.Error(err))
		return nil
	}
	return h.s.Push(context.Background(), scheduler.DIRECT_PUSH, &req)
}

var _ scheduler.Scheduler = (*nsqScheduler)(nil)

func NewNsqScheduler(topicName, channelName, nsqAddr, nsqLookupdAddr string, opts ...Option) (*nsqScheduler, error) {
	o := options{maxInFlight: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	nsqConfig := nsq.NewConfig()
	nsqConfig.MaxInFlight = o.maxInFlight

	nsqConsumer, err := nsq.NewConsumer(topicName, channelName, nsqConfig)
	if err != nil {
		return nil, fmt.Errorf("create nsq consumer: %w", err)
	}

	nsqProducer, err := nsq.NewProducer(nsqAddr, nsqConfig)
	if err != nil {
		return nil, fmt.Errorf("create nsq producer: %w", err)
	}

	return &nsqScheduler{
		workerCh:       make(chan *request.Request, o.bufferSize),
		done:           make(chan struct{}),
		topicName:      topicName,
		channelName:    channelName,
		nsqLookupdAddr: nsqLookupdAddr,
		nsqConsumer:    nsqConsumer,
		nsqProducer:    nsqProducer,
		options:        o,
	}, nil
}

func (s *nsqScheduler) Pull(ctx context.Context) (*request.Request, error) {
	select {
	case req := <-s.workerCh:
		return req, nil
	case <-s.done:
		return nil, scheduler.ErrStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *nsqScheduler) Push(ctx context.Context, typ int, reqs ...*request.Request) error {
	switch typ {
	case scheduler.DIRECT_PUSH:
		for _, req := range reqs {
			select {
			case s.workerCh <- req:
			case <-s.done:
				return scheduler.ErrStopped
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	case scheduler.QUEUE_PUSH:
		for _, req := range reqs {
			msg, err := json.Marshal(req)
			if err != nil {
				return fmt.Errorf("encode job %s: %w", req.ID, err)
			}
			if err := s.nsqProducer.Publish(s.topicName, msg); err != nil {
				return fmt.Errorf("publish job %s: %w", req.ID, err)
			}
		}
	default:
		return fmt.Errorf("unknown push type %d", typ)
	}
	return nil
}

func (s *nsqScheduler) Schedule() error {
	s.nsqConsumer.AddHandler(&nsqMessageHandler{s: s})
	if err := s.nsqConsumer.ConnectToNSQLookupd(s.nsqLookupdAddr); err != nil {
		return fmt.Errorf("connect to nsqlookupd %s: %w", s.nsqLookupdAddr, err)
	}
	s.logger.Info("consuming jobs", zap.String("topic", s.topicName), zap.String("channel", s.channelName))
	return nil
}

func (s *nsqScheduler) Stop() {
	s.once.Do(func() {
		s.nsqConsumer.Stop()
		s.nsqProducer.Stop()
		close(s.done)
	})
}
