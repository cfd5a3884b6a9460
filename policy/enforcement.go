package policy

import (
	"github.com/sage-x-project/securecore/device"
	"github.com/sage-x-project/securecore/fuse"
	"github.com/sage-x-project/securecore/internal/metrics"
)

// Operation is the closed set of actions an Enforcer can gate.
type Operation int

const (
	OpUpload Operation = iota
	OpDownload
	OpRestore
	OpRoute
	OpViewStatus
	OpRegisterDevice
	OpRemoveDevice
	OpIssueKill
)

var operationCapability = map[Operation]Capability{
	OpUpload:         CapUpload,
	OpDownload:       CapDownload,
	OpRestore:        CapRestore,
	OpRoute:          CapRouteContent,
	OpViewStatus:     CapViewStatus,
	OpRegisterDevice: CapRegisterDevice,
	OpRemoveDevice:   CapRemoveDevice,
	OpIssueKill:      CapIssueKill,
}

// Enforcer answers whether a given Operation is currently allowed for one
// device. It holds no secrets and performs no cryptography; it exists
// purely to centralize "is this allowed" so that decision is made in
// exactly one place rather than scattered across callers.
type Enforcer struct {
	registry *device.Registry
	caps     CapabilitySet
}

// NewEnforcer binds a device registry (for kill-state checks) to a fixed
// capability set.
func NewEnforcer(reg *device.Registry, caps CapabilitySet) *Enforcer {
	return &Enforcer{registry: reg, caps: caps}
}

// Allow reports whether op is permitted right now. Kill state is checked
// before capability membership and overrides it unconditionally: a device
// that has been killed is denied every operation regardless of what its
// capability set says, and a process whose kill fuse has tripped denies
// every operation for every device.
func (e *Enforcer) Allow(op Operation) bool {
	if fuse.Blown() || e.registry.IsKilled() {
		metrics.PolicyDenials.WithLabelValues("killed").Inc()
		metrics.GetGlobalCollector().RecordPolicyDenial()
		return false
	}

	cap, ok := operationCapability[op]
	if !ok || !e.caps.Allows(cap) {
		metrics.PolicyDenials.WithLabelValues("capability").Inc()
		metrics.GetGlobalCollector().RecordPolicyDenial()
		return false
	}
	return true
}
