// Package packet defines the simulated transmission unit and the provenance
// metadata stamped on it at creation.
package packet

import (
	"encoding/binary"
	"fmt"
)

// TagSize is the serialized size of a ProvenanceTag in bytes.
const TagSize = 12

// ProvenanceTag records when and where a packet was created so that
// downstream observers can compute latency without sender-side state.
// It is a value type: copies travel with the packet and it has no mutators.
type ProvenanceTag struct {
	creationTimestamp uint64 // simulated nanoseconds
	sourceID          uint32
}

// NewProvenanceTag stamps a tag for a packet created at the given simulated
// time by the given source. Panics on negative time.
func NewProvenanceTag(createdAt int64, sourceID uint32) ProvenanceTag {
	if createdAt < 0 {
		panic(fmt.Sprintf("packet: creation timestamp must be non-negative, got %d", createdAt))
	}
	return ProvenanceTag{creationTimestamp: uint64(createdAt), sourceID: sourceID}
}

// CreationTimestamp returns the creation time in simulated nanoseconds.
func (t ProvenanceTag) CreationTimestamp() uint64 {
	return t.creationTimestamp
}

// SourceID returns the identifier of the originating node.
func (t ProvenanceTag) SourceID() uint32 {
	return t.sourceID
}

// LatencyAt returns the ticks elapsed between creation and now.
func (t ProvenanceTag) LatencyAt(now int64) int64 {
	return now - int64(t.creationTimestamp)
}

func (t ProvenanceTag) String() string {
	return fmt.Sprintf("created=%dns source=%d", t.creationTimestamp, t.sourceID)
}

// MarshalBinary encodes the tag as a big-endian timestamp followed by the
// big-endian source id.
func (t ProvenanceTag) MarshalBinary() ([]byte, error) {
	b := make([]byte, TagSize)
	binary.BigEndian.PutUint64(b[0:8], t.creationTimestamp)
	binary.BigEndian.PutUint32(b[8:12], t.sourceID)
	return b, nil
}

// DecodeProvenanceTag parses the wire form produced by MarshalBinary.
func DecodeProvenanceTag(b []byte) (ProvenanceTag, error) {
	if len(b) != TagSize {
		return ProvenanceTag{}, fmt.Errorf("provenance tag: want %d bytes, got %d", TagSize, len(b))
	}
	return ProvenanceTag{
		creationTimestamp: binary.BigEndian.Uint64(b[0:8]),
		sourceID:          binary.BigEndian.Uint32(b[8:12]),
	}, nil
}
