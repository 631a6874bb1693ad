package consensus

// Payload is either a DKG summary payload or a data payload. Both kinds may carry an ECDSA payload.
type Payload struct {
	Summary *SummaryPayload `cbor:",omitempty"`
	Data    *DataPayload    `cbor:",omitempty"`
	Ecdsa   *EcdsaPayload   `cbor:",omitempty"`
}

// SummaryPayload is carried by the first block of every DKG interval.
type SummaryPayload struct {
	Dkg DkgSummary
}

// DkgSummary describes the DKG interval a summary block opens.
type DkgSummary struct {
	StartHeight        Height
	IntervalLength     Height
	NextIntervalLength Height
	RegistryVersion    uint64
}

// NextStartHeight is the height of the summary block opening the following interval.
func (s DkgSummary) NextStartHeight() Height {
	return s.StartHeight + s.IntervalLength + 1
}

// DataPayload is carried by every non-summary block.
type DataPayload struct {
	Batch    BatchPayload
	Dealings Dealings
}

// BatchPayload holds the messages that end up in the batch delivered for this block.
type BatchPayload struct {
	Ingress [][]byte
	XNet    [][]byte
}

// Dealings are the DKG dealings included in a data block, tagged with the start of their interval.
type Dealings struct {
	StartHeight Height
	Messages    [][]byte
}

// EcdsaPayload is the threshold ECDSA state carried along the chain.
type EcdsaPayload struct {
	KeyID               string
	SignatureAgreements map[string][]byte
	AvailableQuadruples []uint64
	NextUnusedID        uint64
}

// NewSummaryPayload returns the payload of a summary block opening an interval at start.
func NewSummaryPayload(start Height, intervalLength Height, registryVersion uint64) Payload {
	return Payload{
		Summary: &SummaryPayload{
			Dkg: DkgSummary{
				StartHeight:        start,
				IntervalLength:     intervalLength,
				NextIntervalLength: intervalLength,
				RegistryVersion:    registryVersion,
			},
		},
	}
}

// NewDataPayload returns an empty data payload belonging to the interval started at start.
func NewDataPayload(start Height) Payload {
	return Payload{
		Data: &DataPayload{
			Dealings: Dealings{StartHeight: start},
		},
	}
}

// IsSummary returns true for summary payloads.
func (p Payload) IsSummary() bool {
	return p.Summary != nil
}

// DkgIntervalStartHeight returns the start height of the DKG interval the payload belongs to.
func (p Payload) DkgIntervalStartHeight() Height {
	if p.Summary != nil {
		return p.Summary.Dkg.StartHeight
	}
	if p.Data != nil {
		return p.Data.Dealings.StartHeight
	}
	return 0
}

// AsEcdsa returns the ECDSA payload, if the block carries one.
func (p Payload) AsEcdsa() (*EcdsaPayload, bool) {
	return p.Ecdsa, p.Ecdsa != nil
}

func (p Payload) copy() Payload {
	cp := Payload{}
	if p.Summary != nil {
		summary := *p.Summary
		cp.Summary = &summary
	}
	if p.Data != nil {
		data := *p.Data
		cp.Data = &data
	}
	if p.Ecdsa != nil {
		ecdsa := *p.Ecdsa
		cp.Ecdsa = &ecdsa
	}
	return cp
}
