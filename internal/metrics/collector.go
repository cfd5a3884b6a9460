// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"sync"
	"time"
)

// Collector accumulates a lightweight in-process snapshot of Secure Core
// activity, independent of the Prometheus vectors in crypto.go/session.go/
// kill.go. It backs cmd/securecore-admin's `status` subcommand, which
// prints a GetSnapshot() readout — a single cheap in-process read rather
// than a /metrics scrape.
type Collector struct {
	mu sync.RWMutex

	EncryptCount  int64
	DecryptCount  int64
	EncryptErrors int64
	DecryptErrors int64

	KillsExecuted   int64
	ReplayRejected  int64
	PolicyDenials   int64

	EncryptTimes []int64 // microseconds
	DecryptTimes []int64

	startTime        time.Time
	maxTimingSamples int
}

// NewCollector creates a new in-process collector.
func NewCollector() *Collector {
	return &Collector{
		startTime:        time.Now(),
		maxTimingSamples: 1000,
	}
}

// RecordEncrypt records a chunk-encryption operation.
func (c *Collector) RecordEncrypt(success bool, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.EncryptCount++
	if !success {
		c.EncryptErrors++
	}
	c.recordTiming(&c.EncryptTimes, d)
}

// RecordDecrypt records a chunk-decryption operation.
func (c *Collector) RecordDecrypt(success bool, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DecryptCount++
	if !success {
		c.DecryptErrors++
	}
	c.recordTiming(&c.DecryptTimes, d)
}

// RecordKill records a verified, executed kill.
func (c *Collector) RecordKill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.KillsExecuted++
}

// RecordReplayRejected records a kill blob rejected for replay.
func (c *Collector) RecordReplayRejected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ReplayRejected++
}

// RecordPolicyDenial records a policy-gate denial.
func (c *Collector) RecordPolicyDenial() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PolicyDenials++
}

func (c *Collector) recordTiming(timings *[]int64, d time.Duration) {
	*timings = append(*timings, d.Microseconds())
	if len(*timings) > c.maxTimingSamples {
		*timings = (*timings)[len(*timings)-c.maxTimingSamples:]
	}
}

// Snapshot is a point-in-time readout of a Collector.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	EncryptCount  int64
	DecryptCount  int64
	EncryptErrors int64
	DecryptErrors int64

	KillsExecuted  int64
	ReplayRejected int64
	PolicyDenials  int64

	AvgEncryptTime float64
	AvgDecryptTime float64
}

// GetSnapshot returns a snapshot of current metrics.
func (c *Collector) GetSnapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Snapshot{
		Timestamp:      time.Now(),
		Uptime:         time.Since(c.startTime),
		EncryptCount:   c.EncryptCount,
		DecryptCount:   c.DecryptCount,
		EncryptErrors:  c.EncryptErrors,
		DecryptErrors:  c.DecryptErrors,
		KillsExecuted:  c.KillsExecuted,
		ReplayRejected: c.ReplayRejected,
		PolicyDenials:  c.PolicyDenials,
		AvgEncryptTime: average(c.EncryptTimes),
		AvgDecryptTime: average(c.DecryptTimes),
	}
}

// Reset clears all accumulated counters and timing samples.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.EncryptCount, c.DecryptCount = 0, 0
	c.EncryptErrors, c.DecryptErrors = 0, 0
	c.KillsExecuted, c.ReplayRejected, c.PolicyDenials = 0, 0, 0
	c.EncryptTimes, c.DecryptTimes = nil, nil
	c.startTime = time.Now()
}

func average(values []int64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int64
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// globalCollector is the package-level default Collector, mirroring how
// GetDefaultLogger works in internal/logger.
var globalCollector = NewCollector()

// GetGlobalCollector returns the global metrics collector.
func GetGlobalCollector() *Collector {
	return globalCollector
}
