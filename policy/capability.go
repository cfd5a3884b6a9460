// Package policy implements the capability-based permission gate that
// sits in front of every operation this library exposes. It holds no
// cryptographic material and makes no cryptographic decisions: it answers
// exactly one question, "is this operation allowed right now", consulting
// the kill fuse first and a capability set second.
package policy

// Capability is a declarative permission supplied by the application
// layer. Holding a Capability implies nothing on its own — only a
// Enforcer checking it against an Operation gives it force.
type Capability int

const (
	CapEncrypt Capability = iota
	CapDecrypt
	CapUpload
	CapDownload
	CapRestore
	CapViewStatus

	CapUseStrategyB
	CapExportRecovery
	CapImportRecovery
	CapDisableRecovery

	CapRouteContent
	CapModifyPolicy

	CapRegisterDevice
	CapRemoveDevice
	CapRenameDevice

	CapIssueKill

	CapViewLogs
)

// CapabilitySet is an immutable, fixed collection of capabilities. The
// three predefined sets below (Standard, Admin, Locked) are the only
// instances this library constructs; application code selects one per
// device role rather than building its own.
type CapabilitySet struct {
	caps map[Capability]struct{}
}

// NewCapabilitySet builds an immutable set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return CapabilitySet{caps: m}
}

// Allows reports whether cap is a member of the set.
func (s CapabilitySet) Allows(cap Capability) bool {
	_, ok := s.caps[cap]
	return ok
}

// Standard is the capability set for an ordinary paired device: it can
// move data but cannot manage devices, policy, or issue a kill.
var Standard = NewCapabilitySet(
	CapEncrypt, CapDecrypt, CapUpload, CapDownload, CapRestore, CapViewStatus,
	CapRouteContent, CapViewLogs,
)

// Admin is the capability set for an operator device: everything Standard
// has, plus device management, policy changes, recovery export, and the
// sole authority to issue a kill.
var Admin = NewCapabilitySet(
	CapEncrypt, CapDecrypt, CapUpload, CapDownload, CapRestore, CapViewStatus,
	CapUseStrategyB, CapExportRecovery, CapImportRecovery, CapDisableRecovery,
	CapRouteContent, CapModifyPolicy,
	CapRegisterDevice, CapRemoveDevice, CapRenameDevice,
	CapIssueKill, CapViewLogs,
)

// Locked is the empty capability set: a device in this role passes every
// Allow check straight to denial regardless of kill state, useful for a
// device that has been administratively suspended without being killed.
var Locked = NewCapabilitySet()
