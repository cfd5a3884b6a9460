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

// Package metrics exposes Prometheus instrumentation for the Secure Core
// library: crypto operation counters, session lifecycle gauges, keystore
// state transitions, and kill/policy events. No metric carries key
// material or device identity, only counts and durations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "securecore"

// Registry is the collector registry all Secure Core metrics register
// against. Kept separate from prometheus.DefaultRegisterer so embedding
// applications can mount it at whatever path they choose.
var Registry = prometheus.NewRegistry()
