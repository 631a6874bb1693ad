package encoding

// Encoder converts values to and from their byte representation. Registry records and their
// storage values are written through it.
type Encoder interface {
	// Encode returns an error for value types the encoder cannot represent.
	Encode(interface{}) ([]byte, error)
	// Decode returns an error when the bytes do not describe a value of the target type.
	Decode([]byte, interface{}) error
	MustEncode(interface{}) []byte
	MustDecode([]byte, interface{})
}
