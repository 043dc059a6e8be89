// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package framework

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// BinaryCache holds compiled binaries keyed by hardware pairing
// (see hardware.Key). Each pairing is compiled at most once; concurrent
// requests for a pairing that is still compiling wait for that compilation.
// Failed compilations are not cached.
//
// The zero value is ready to use. A BinaryCache must not be copied.
type BinaryCache[B any] struct {
	group singleflight.Group

	mu        sync.RWMutex
	entries   map[string]B
	active    B
	hasActive bool
}

// Get returns the binary for key, calling compile if none is cached.
func (c *BinaryCache[B]) Get(key string, compile func() (B, error)) (B, error) {
	if b, ok := c.Lookup(key); ok {
		c.setActive(b)
		return b, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if b, ok := c.Lookup(key); ok {
			return b, nil
		}
		b, err := compile()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.entries == nil {
			c.entries = make(map[string]B)
		}
		c.entries[key] = b
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		var zero B
		return zero, err
	}

	b := v.(B)
	c.setActive(b)
	return b, nil
}

// Lookup returns the binary cached for key without compiling.
func (c *BinaryCache[B]) Lookup(key string) (B, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[key]
	return b, ok
}

// Active returns the binary most recently returned by Get.
func (c *BinaryCache[B]) Active() (B, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active, c.hasActive
}

// Len returns the number of cached pairings.
func (c *BinaryCache[B]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *BinaryCache[B]) setActive(b B) {
	c.mu.Lock()
	c.active = b
	c.hasActive = true
	c.mu.Unlock()
}
