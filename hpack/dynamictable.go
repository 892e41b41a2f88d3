// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hpack

import "crypto/subtle"

// entrySize is the per-entry overhead RFC 7541 §4.1 mandates on top of the
// raw name/value bytes.
const entrySize = 32

// dynamicEntry is one row of the dynamic table. It belongs exclusively to
// its table: once evicted, nothing outside this package ever sees it
// again.
type dynamicEntry struct {
	nameHash uint32
	name     string
	value    string
	size     uint32
	seq      int64 // insertion order, strictly increasing; newest has the largest seq

	bucketNext *dynamicEntry // next entry in the same hash bucket chain

	older *dynamicEntry // toward the oldest end of the table
	newer *dynamicEntry // toward the newest end of the table
}

// dynamicTable is a bounded FIFO of header entries, indexed two ways: by
// insertion order (a doubly linked list, for O(1) oldest-eviction) and by
// hashed name (a chained hash table sized to a power of two in [2,128],
// for O(1 + chain) lookups).
type dynamicTable struct {
	maxSize     uint32
	currentSize uint32
	numEntries  int
	nextSeq     int64 // pre-increment counter; first entry gets seq 1

	buckets []*dynamicEntry
	mask    uint32

	oldest *dynamicEntry
	newest *dynamicEntry
}

const (
	minBucketCount = 2
	maxBucketCount = 128
)

// newDynamicTable creates an empty table bounded at maxSize bytes.
func newDynamicTable(maxSize uint32) *dynamicTable {
	t := &dynamicTable{maxSize: maxSize}
	t.resizeBuckets(minBucketCount)
	return t
}

func (t *dynamicTable) resizeBuckets(n uint32) {
	t.buckets = make([]*dynamicEntry, n)
	t.mask = n - 1
	for e := t.oldest; e != nil; e = e.newer {
		e.bucketNext = nil
	}
	for e := t.oldest; e != nil; e = e.newer {
		idx := e.nameHash & t.mask
		e.bucketNext = t.buckets[idx]
		t.buckets[idx] = e
	}
}

// growBucketsIfNeeded doubles the bucket array when the chain load factor
// would otherwise exceed roughly 1 entry per bucket, staying within
// [minBucketCount, maxBucketCount].
func (t *dynamicTable) growBucketsIfNeeded() {
	n := uint32(len(t.buckets))
	if t.numEntries <= int(n) || n >= maxBucketCount {
		return
	}
	t.resizeBuckets(n * 2)
}

func hashName(name string) uint32 {
	h := uint32(2166136261) // FNV-1a offset basis
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return h
}

// ctEqual reports whether a and b are equal, comparing in constant time
// with respect to their contents so header values cannot be recovered by
// timing a sequence of lookups against guessed values.
func ctEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (t *dynamicTable) length() int   { return t.numEntries }
func (t *dynamicTable) size() uint32  { return t.currentSize }
func (t *dynamicTable) isEmpty() bool { return t.numEntries == 0 }

// indexOf returns the HPACK index of e relative to the start of the
// dynamic table (the static table's length is not added here). The
// newest entry is always index 1; indices grow toward the oldest entry.
func (t *dynamicTable) indexOf(e *dynamicEntry) int {
	return int(t.newest.seq-e.seq) + 1
}

// lookupByNameValue returns the entry with the smallest HPACK index whose
// (name, value) matches exactly, comparing name and value in constant time
// and combining the two comparisons with bitwise AND rather than a
// short-circuiting && so no observer can learn from timing whether the
// name matched before the value was even compared.
func (t *dynamicTable) lookupByNameValue(name, value string) (*dynamicEntry, bool) {
	if len(t.buckets) == 0 {
		return nil, false
	}
	h := hashName(name)
	var best *dynamicEntry
	for e := t.buckets[h&t.mask]; e != nil; e = e.bucketNext {
		if e.nameHash != h {
			continue
		}
		nameEq := 0
		valueEq := 0
		if ctEqual(e.name, name) {
			nameEq = 1
		}
		if ctEqual(e.value, value) {
			valueEq = 1
		}
		if nameEq&valueEq == 1 {
			if best == nil || e.seq > best.seq {
				best = e
			}
		}
	}
	return best, best != nil
}

// lookupByName returns the smallest HPACK index of any entry whose name
// matches, or -1.
func (t *dynamicTable) lookupByName(name string) int {
	if len(t.buckets) == 0 {
		return -1
	}
	h := hashName(name)
	var best *dynamicEntry
	for e := t.buckets[h&t.mask]; e != nil; e = e.bucketNext {
		if e.nameHash != h {
			continue
		}
		if ctEqual(e.name, name) {
			if best == nil || e.seq > best.seq {
				best = e
			}
		}
	}
	if best == nil {
		return -1
	}
	return t.indexOf(best)
}

// add evicts from the oldest end until there is room, then inserts a new
// newest entry. If size alone exceeds maxSize, the table is cleared
// instead and the entry is not inserted, per RFC 7541 §4.4.
func (t *dynamicTable) add(name, value string, size uint32) {
	if size > t.maxSize {
		t.clear()
		return
	}
	for t.maxSize-t.currentSize < size {
		t.evictOldest()
	}
	t.nextSeq++
	e := &dynamicEntry{
		nameHash: hashName(name),
		name:     name,
		value:    value,
		size:     size,
		seq:      t.nextSeq,
	}
	e.older = t.newest
	if t.newest != nil {
		t.newest.newer = e
	} else {
		t.oldest = e
	}
	t.newest = e
	t.numEntries++
	t.currentSize += size
	idx := e.nameHash & t.mask
	e.bucketNext = t.buckets[idx]
	t.buckets[idx] = e
	t.growBucketsIfNeeded()
}

// evictOldest unlinks the oldest entry from both the iteration order and
// its bucket chain.
func (t *dynamicTable) evictOldest() {
	e := t.oldest
	if e == nil {
		return
	}
	t.oldest = e.newer
	if t.oldest != nil {
		t.oldest.older = nil
	} else {
		t.newest = nil
	}
	t.unlinkBucket(e)
	t.numEntries--
	t.currentSize -= e.size
}

func (t *dynamicTable) unlinkBucket(e *dynamicEntry) {
	idx := e.nameHash & t.mask
	pp := &t.buckets[idx]
	for *pp != nil {
		if *pp == e {
			*pp = e.bucketNext
			return
		}
		pp = &(*pp).bucketNext
	}
}

// clear empties the table entirely.
func (t *dynamicTable) clear() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.oldest = nil
	t.newest = nil
	t.numEntries = 0
	t.currentSize = 0
}

// setMaxSize updates maxSize and evicts from the oldest end until
// currentSize <= m.
func (t *dynamicTable) setMaxSize(m uint32) {
	t.maxSize = m
	t.ensureCapacity(0)
}

// ensureCapacity evicts from the oldest end until there is room for an
// entry of the given additional size.
func (t *dynamicTable) ensureCapacity(additional uint32) {
	for t.currentSize+additional > t.maxSize {
		if t.oldest == nil {
			break
		}
		t.evictOldest()
	}
}
