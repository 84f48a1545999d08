package feed

// Identity is an opaque ledger identity. Address derivation is owned by
// the ledgers; this system only compares identities for equality.
type Identity string

func (i Identity) String() string {
	return string(i)
}

// CallContext carries both authorization layers of an incoming request:
// the direct caller and the ultimate originator of the call chain. The
// gates check the two together so that neither an unauthorized direct
// caller nor a spoofed call chain passes.
type CallContext struct {
	Caller     Identity `json:"caller"`
	Originator Identity `json:"originator"`
}

func NewCallContext(caller, originator Identity) CallContext {
	return CallContext{
		Caller:     caller,
		Originator: originator,
	}
}

// IsRelay reports whether both layers match the given relay identity.
func (c CallContext) IsRelay(relay Identity) bool {
	return c.Caller == relay && c.Originator == relay
}
