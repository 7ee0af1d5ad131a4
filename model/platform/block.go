package platform

// BlockInfo is the metadata of the block under construction, handed in by the
// consensus layer with the ordered transition batch.
type BlockInfo struct {
	Height                uint64
	TimeMs                uint64
	Epoch                 uint16
	CoreChainLockedHeight uint32
	ProtocolVersion       uint32
}
