// Copyright (c) 2026 The httpcodec Authors.
// All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command hpackbench encodes a fixed header-field corpus through an
// hpack.Encoder some number of times and reports the resulting byte
// counts and wall-clock time. It exists to exercise the encoder under a
// realistic repeated-header workload (the same request headers sent
// across many streams of one connection), the scenario the dynamic
// table is actually for.
package main

import (
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/fluxwire/httpcodec/hpack"
)

var (
	iterations = flag.Int("iterations", 10000, "number of times to encode the corpus")
	tableSize  = flag.Uint("table-size", uint(hpack.DefaultMaxHeaderTableSize), "dynamic table size in bytes")
	verbose    = flag.Bool("verbose", false, "enable debug-level logging")
)

// corpus models one HTTP/2 connection issuing the same handful of
// requests repeatedly: header names/values repeat across streams, which
// is exactly what lets the dynamic table pay for itself.
var corpus = [][]hpack.HeaderField{
	{
		{Name: ":method", Value: "GET"},
		{Name: ":scheme", Value: "https"},
		{Name: ":path", Value: "/api/v1/accounts"},
		{Name: "user-agent", Value: "hpackbench/1.0"},
		{Name: "accept-encoding", Value: "gzip, deflate"},
		{Name: "authorization", Value: "Bearer not-a-real-token"},
	},
	{
		{Name: ":method", Value: "GET"},
		{Name: ":scheme", Value: "https"},
		{Name: ":path", Value: "/api/v1/accounts/42"},
		{Name: "user-agent", Value: "hpackbench/1.0"},
		{Name: "accept-encoding", Value: "gzip, deflate"},
		{Name: "authorization", Value: "Bearer not-a-real-token"},
	},
	{
		{Name: ":method", Value: "POST"},
		{Name: ":scheme", Value: "https"},
		{Name: ":path", Value: "/api/v1/accounts"},
		{Name: "user-agent", Value: "hpackbench/1.0"},
		{Name: "content-type", Value: "application/json"},
		{Name: "authorization", Value: "Bearer not-a-real-token"},
	},
}

func neverSensitive(name, value string) bool { return name == "authorization" }

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	enc := hpack.NewEncoder()
	if _, err := enc.SetMaxHeaderTableSize(nil, uint32(*tableSize)); err != nil {
		log.Fatalw("invalid table size", "tableSize", *tableSize, "error", err)
	}

	log.Infow("starting run", "iterations", *iterations, "tableSize", *tableSize, "streams", len(corpus))

	var totalBytes int
	var out []byte
	start := time.Now()
	for i := 0; i < *iterations; i++ {
		headers := corpus[i%len(corpus)]
		out = out[:0]
		out, err = enc.EncodeHeaders(uint32(i), out, headers, neverSensitive)
		if err != nil {
			log.Fatalw("encode failed", "stream", i, "error", err)
		}
		totalBytes += len(out)
	}
	elapsed := time.Since(start)

	log.Infow("run complete",
		"elapsed", elapsed,
		"totalBytes", totalBytes,
		"bytesPerIteration", float64(totalBytes)/float64(*iterations),
		"dynamicTableLength", enc.TableLength(),
		"dynamicTableSize", enc.TableSize(),
	)
}
