// Copyright (c) 2026 Tigera, Inc. All rights reserved.
package stream

import "time"

// backoff tracks the reconnect delay between consecutive connection
// failures: it starts at the floor, doubles per failure up to the ceiling,
// and resets to the floor only after a successful open. The delay sequence
// between failures is therefore non-decreasing and bounded.
type backoff struct {
	floor   time.Duration
	ceiling time.Duration
	next    time.Duration
}

func newBackoff(floor, ceiling time.Duration) *backoff {
	return &backoff{floor: floor, ceiling: ceiling, next: floor}
}

// Next returns the delay to use for the upcoming retry and advances the
// sequence.
func (b *backoff) Next() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.ceiling {
		b.next = b.ceiling
	}
	return d
}

// Reset restarts the sequence at the floor.
func (b *backoff) Reset() {
	b.next = b.floor
}
