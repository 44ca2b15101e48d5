// Package msgpack provides a MessagePack body codec.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/cloak"
)

// msgpackCodec implements cloak.Codec for MessagePack.
type msgpackCodec struct{}

// New returns a MessagePack codec. Map keys are sorted so equal payloads
// always produce equal plaintext before encryption.
func New() cloak.Codec {
	return &msgpackCodec{}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Aliases returns the other registered MessagePack media types.
func (c *msgpackCodec) Aliases() []string {
	return []string{"application/x-msgpack", "application/vnd.msgpack"}
}

// Marshal encodes v as MessagePack.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
