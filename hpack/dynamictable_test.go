// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hpack

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamicTableIndexMonotonic(t *testing.T) {
	tbl := newDynamicTable(4096)
	tbl.add("custom-key", "one", HeaderField{Name: "custom-key", Value: "one"}.size())
	tbl.add("custom-key", "two", HeaderField{Name: "custom-key", Value: "two"}.size())
	tbl.add("custom-key", "three", HeaderField{Name: "custom-key", Value: "three"}.size())

	newest, ok := tbl.lookupByNameValue("custom-key", "three")
	require.True(t, ok)
	assert.Equal(t, 1, tbl.indexOf(newest))

	middle, ok := tbl.lookupByNameValue("custom-key", "two")
	require.True(t, ok)
	assert.Equal(t, 2, tbl.indexOf(middle))

	oldest, ok := tbl.lookupByNameValue("custom-key", "one")
	require.True(t, ok)
	assert.Equal(t, 3, tbl.indexOf(oldest))
}

func TestDynamicTableEvictsOldestFirst(t *testing.T) {
	tbl := newDynamicTable(0)
	tbl.setMaxSize(HeaderField{Name: "a", Value: "1"}.size()*2 + 1)

	tbl.add("a", "1", HeaderField{Name: "a", Value: "1"}.size())
	tbl.add("b", "2", HeaderField{Name: "b", Value: "2"}.size())
	require.Equal(t, 2, tbl.length())

	// A third entry of the same size forces eviction of "a","1".
	tbl.add("c", "3", HeaderField{Name: "c", Value: "3"}.size())
	assert.Equal(t, 2, tbl.length())

	_, ok := tbl.lookupByNameValue("a", "1")
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok = tbl.lookupByNameValue("c", "3")
	assert.True(t, ok, "newest entry should remain")
}

func TestDynamicTableOversizeEntryClearsTable(t *testing.T) {
	tbl := newDynamicTable(100)
	tbl.add("a", "1", HeaderField{Name: "a", Value: "1"}.size())
	require.Equal(t, 1, tbl.length())

	tbl.add("name", "a value far too large to fit in the configured table bound", 200)
	assert.Equal(t, 0, tbl.length())
	assert.Equal(t, uint32(0), tbl.size())
}

func TestDynamicTableSetMaxSizeEvicts(t *testing.T) {
	tbl := newDynamicTable(4096)
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("key-%d", i)
		tbl.add(name, "value", HeaderField{Name: name, Value: "value"}.size())
	}
	require.Equal(t, 10, tbl.length())

	tbl.setMaxSize(HeaderField{Name: "key-9", Value: "value"}.size())
	assert.LessOrEqual(t, tbl.size(), uint32(HeaderField{Name: "key-9", Value: "value"}.size()))
	_, ok := tbl.lookupByNameValue("key-9", "value")
	assert.True(t, ok, "most recently inserted entry should survive a shrink")
}

func TestDynamicTableLookupByNameIgnoresValue(t *testing.T) {
	tbl := newDynamicTable(4096)
	tbl.add("x-custom", "first", HeaderField{Name: "x-custom", Value: "first"}.size())
	tbl.add("x-custom", "second", HeaderField{Name: "x-custom", Value: "second"}.size())

	idx := tbl.lookupByName("x-custom")
	require.NotEqual(t, -1, idx)
	assert.Equal(t, 1, idx, "lookupByName should resolve to the most recently added match")
}

func TestDynamicTableBucketsGrowWithEntries(t *testing.T) {
	tbl := newDynamicTable(1 << 20)
	initial := len(tbl.buckets)
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("header-%d", i)
		tbl.add(name, "v", HeaderField{Name: name, Value: "v"}.size())
	}
	assert.Greater(t, len(tbl.buckets), initial)
	assert.LessOrEqual(t, len(tbl.buckets), maxBucketCount)

	// Every inserted entry must still be reachable after growth rehashed
	// the chains.
	for i := 0; i < 50; i++ {
		name := fmt.Sprintf("header-%d", i)
		_, ok := tbl.lookupByNameValue(name, "v")
		assert.True(t, ok, "entry %s lost after bucket growth", name)
	}
}

func TestDynamicTableClearEmptiesEverything(t *testing.T) {
	tbl := newDynamicTable(4096)
	tbl.add("a", "1", HeaderField{Name: "a", Value: "1"}.size())
	tbl.add("b", "2", HeaderField{Name: "b", Value: "2"}.size())
	tbl.clear()

	assert.True(t, tbl.isEmpty())
	assert.Equal(t, uint32(0), tbl.size())
	_, ok := tbl.lookupByNameValue("a", "1")
	assert.False(t, ok)
}
