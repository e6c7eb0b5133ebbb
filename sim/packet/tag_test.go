package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvenanceTag_Accessors(t *testing.T) {
	tag := NewProvenanceTag(100_000_000, 7)
	assert.Equal(t, uint64(100_000_000), tag.CreationTimestamp())
	assert.Equal(t, uint32(7), tag.SourceID())
	assert.Equal(t, int64(2_500_000), tag.LatencyAt(102_500_000))
}

func TestProvenanceTag_WireFormat(t *testing.T) {
	tag := NewProvenanceTag(0x0102030405060708, 0x0a0b0c0d)
	b, err := tag.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 0x0a, 0x0b, 0x0c, 0x0d}, b)

	got, err := DecodeProvenanceTag(b)
	require.NoError(t, err)
	assert.Equal(t, tag, got)
}

func TestDecodeProvenanceTag_WrongLength(t *testing.T) {
	_, err := DecodeProvenanceTag(make([]byte, TagSize-1))
	assert.Error(t, err)
}

func TestProvenanceTag_SurvivesPacketCopy(t *testing.T) {
	// GIVEN a packet stamped at creation
	p := Packet{FlowID: 3, Tag: NewProvenanceTag(42, 3)}

	// WHEN the packet is copied across the channel boundary and the copy is modified
	q := p
	q.Attempts++

	// THEN both copies carry the same tag
	assert.Equal(t, p.Tag, q.Tag)
	assert.Equal(t, uint64(42), q.Tag.CreationTimestamp())
}

func TestNewProvenanceTag_NegativeTimePanics(t *testing.T) {
	assert.Panics(t, func() { NewProvenanceTag(-1, 0) })
}
