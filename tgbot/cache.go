package tgbot

import (
	"sync"
	"time"

	"github.com/kompas-ai/kompas/api"
)

// ChatCache keeps the conversation history per telegram chat ID. In-memory
// only, nothing survives a restart.
type ChatCache struct {
	mx sync.Mutex
	m  map[int64]*StoredChat
}

func NewCache() *ChatCache {
	return &ChatCache{m: map[int64]*StoredChat{}}
}

func (cc *ChatCache) Get(id int64) *StoredChat {
	cc.mx.Lock()
	defer cc.mx.Unlock()
	sc, ok := cc.m[id]
	if !ok {
		sc = &StoredChat{id: id, updated: time.Now()}
		cc.m[id] = sc
	}
	return sc
}

func (cc *ChatCache) Clear(id int64) {
	cc.mx.Lock()
	delete(cc.m, id)
	cc.mx.Unlock()
}

func (cc *ChatCache) CountMessages(id int64) int {
	sc := cc.Get(id)
	sc.mx.Lock()
	defer sc.mx.Unlock()
	return len(sc.messages)
}

type StoredChat struct {
	id      int64
	updated time.Time

	mx       sync.Mutex
	messages []*api.Message
}

func (sc *StoredChat) Add(msg *api.Message) {
	sc.mx.Lock()
	sc.messages = append(sc.messages, msg)
	sc.updated = time.Now()
	sc.mx.Unlock()
}

// Messages returns a copy of the stored history.
func (sc *StoredChat) Messages() []*api.Message {
	sc.mx.Lock()
	defer sc.mx.Unlock()
	msgs := make([]*api.Message, len(sc.messages))
	copy(msgs, sc.messages)
	return msgs
}
