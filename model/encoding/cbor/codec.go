package cbor

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/replicanet/replica/model/encoding"
)

// EncMode is the canonical CBOR encoding mode. Canonical encoding sorts map keys, so equal values
// always produce equal bytes, which makes it usable as input for content hashes.
var EncMode = func() cbor.EncMode {
	options := cbor.CanonicalEncOptions()
	options.Time = cbor.TimeRFC3339Nano
	encMode, err := options.EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not create cbor encoding mode: %v", err))
	}
	return encMode
}()

// DecMode rejects duplicate map keys. Use Unmarshal to also reject trailing bytes.
var DecMode = func() cbor.DecMode {
	decMode, err := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("could not create cbor decoding mode: %v", err))
	}
	return decMode
}()

// Unmarshal decodes exactly one CBOR item from b into val. Bytes after the item are an error.
func Unmarshal(b []byte, val interface{}) error {
	decoder := DecMode.NewDecoder(bytes.NewReader(b))
	if err := decoder.Decode(val); err != nil {
		return err
	}
	if read := decoder.NumBytesRead(); read != len(b) {
		return fmt.Errorf("cbor: %d bytes of extraneous data starting at index %d", len(b)-read, read)
	}
	return nil
}

// Encoder is the CBOR implementation of encoding.Encoder.
type Encoder struct{}

var _ encoding.Encoder = (*Encoder)(nil)

func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(val interface{}) ([]byte, error) {
	return EncMode.Marshal(val)
}

func (e *Encoder) Decode(b []byte, val interface{}) error {
	return Unmarshal(b, val)
}

func (e *Encoder) MustEncode(val interface{}) []byte {
	b, err := e.Encode(val)
	if err != nil {
		panic(err)
	}
	return b
}

func (e *Encoder) MustDecode(b []byte, val interface{}) {
	err := e.Decode(b, val)
	if err != nil {
		panic(err)
	}
}
