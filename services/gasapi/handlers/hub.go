// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"sync"

	"github.com/AleutianAI/gasline/services/gasapi/datatypes"
)

// NoticeHub fans freshly ingested notices out to websocket
// subscribers. Subscriber channels are buffered; a subscriber that
// falls behind loses messages rather than blocking ingest.
type NoticeHub struct {
	mu   sync.Mutex
	subs map[chan datatypes.NoticeView]struct{}
}

// NewNoticeHub creates an empty hub.
func NewNoticeHub() *NoticeHub {
	return &NoticeHub{subs: make(map[chan datatypes.NoticeView]struct{})}
}

// Subscribe registers a new subscriber and returns its channel
// together with an unsubscribe function. The unsubscribe function is
// idempotent and closes the channel.
func (h *NoticeHub) Subscribe() (<-chan datatypes.NoticeView, func()) {
	ch := make(chan datatypes.NoticeView, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Broadcast delivers one notice to every subscriber, dropping it for
// subscribers whose buffers are full.
func (h *NoticeHub) Broadcast(n datatypes.NoticeView) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}
