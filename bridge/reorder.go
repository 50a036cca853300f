package bridge

import "fmt"

// reorderBuffer restores a channel's emission order from EVENT frames that
// may arrive out of order. The host numbers each channel's events with a
// contiguous seq starting at 0 (SeqAssigner); the buffer holds early
// arrivals until the gap before them fills.
type reorderBuffer struct {
	next    uint64
	pending map[uint64][]byte
	max     int
}

func newReorderBuffer(max int) *reorderBuffer {
	return &reorderBuffer{
		pending: make(map[uint64][]byte),
		max:     max,
	}
}

// offer accepts one event and returns the payloads that are now
// deliverable, in emission order. Duplicate or stale seqs are dropped.
// A gap that would require buffering more than max events is a protocol
// violation.
func (b *reorderBuffer) offer(seq uint64, payload []byte) ([][]byte, error) {
	if seq < b.next {
		// Already delivered
		return nil, nil
	}
	if seq > b.next {
		if _, ok := b.pending[seq]; ok {
			return nil, nil
		}
		if len(b.pending) >= b.max {
			return nil, fmt.Errorf("reorder buffer overflow: %d events buffered waiting for seq %d", len(b.pending), b.next)
		}
		b.pending[seq] = payload
		return nil, nil
	}

	deliverable := [][]byte{payload}
	b.next++
	for {
		buffered, ok := b.pending[b.next]
		if !ok {
			break
		}
		delete(b.pending, b.next)
		deliverable = append(deliverable, buffered)
		b.next++
	}
	return deliverable, nil
}
