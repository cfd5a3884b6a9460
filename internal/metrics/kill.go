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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// KillBlobsVerified tracks kill-blob verification attempts.
	KillBlobsVerified = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kill",
			Name:      "blobs_verified_total",
			Help:      "Total number of kill blobs verified, by outcome",
		},
		[]string{"outcome"}, // accepted, bad_signature, device_mismatch, replayed, malformed
	)

	// KillsExecuted tracks terminal kill executions (process lifetime fuse set).
	KillsExecuted = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "kill",
			Name:      "executed_total",
			Help:      "Total number of times the kill fuse was set",
		},
	)

	// KeystoreStateTransitions tracks Locked/Active/Killed transitions.
	KeystoreStateTransitions = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "keystore",
			Name:      "state_transitions_total",
			Help:      "Total number of keystore state transitions",
		},
		[]string{"from", "to"},
	)

	// PolicyDenials tracks policy-gate denials.
	PolicyDenials = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "denials_total",
			Help:      "Total number of operations denied by the policy gate",
		},
		[]string{"reason"}, // killed, capability
	)
)
