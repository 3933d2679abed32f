package sdwebui

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"fable/pkg/schema"
	"fable/pkg/utils"
)

// Queue serializes image generation so provider rate limits stay predictable
// and scene outputs come back in order.
type Queue struct {
	client *Client
	stop   chan struct{}
	items  chan *Item
	once   sync.Once
}

type Item struct {
	Request  *schema.ImageRequest
	Response chan []io.Reader
	Error    chan error
}

func New(baseURL string) *Queue {
	return &Queue{
		client: NewClient(baseURL),
		items:  make(chan *Item, 100),
		stop:   make(chan struct{}),
	}
}

func (q *Queue) Start() {
	go q.processLoop()
}

func (q *Queue) Stop() {
	q.once.Do(func() { close(q.stop) })
}

func (q *Queue) Add(req *schema.ImageRequest) (chan []io.Reader, chan error, error) {
	respCh := make(chan []io.Reader, 1)
	errCh := make(chan error, 1)

	select {
	case q.items <- &Item{
		Request:  req,
		Response: respCh,
		Error:    errCh,
	}:
		return respCh, errCh, nil
	default:
		return nil, nil, errors.New("queue is full")
	}
}

func (q *Queue) processLoop() {
	log.Info("image queue started")
	for {
		select {
		case <-q.stop:
			log.Info("image queue stopped")
			return
		case item := <-q.items:
			q.processItem(item)
		}
	}
}

func (q *Queue) processItem(item *Item) {
	req := item.Request

	log.Debug("processing generation", "prompt", utils.LimitStr(req.Prompt, 50), "seed", req.Seed)

	images, err := q.client.Generate(req)
	if err != nil {
		log.Error("generation failed", "error", err)
		item.Error <- err
		close(item.Response)
		return
	}

	item.Response <- images
	close(item.Error)
}
