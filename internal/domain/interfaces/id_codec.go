package interfaces

// IDCodec reversibly obfuscates internal integer identifiers into opaque
// strings for external exposure. Encode and Decode must round-trip.
type IDCodec interface {
	Encode(id int64) (string, error)
	Decode(encoded string) (int64, error)
}
