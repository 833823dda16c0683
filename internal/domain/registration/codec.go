package registration

import (
	"encoding/json"
	"fmt"

	"techconnect/internal/pkg/seal"
)

// Codec turns sessions into blobs for a Store. With a seal.Box the JSON is
// encrypted; without one it is stored as is, which only the in-memory store
// should do.
type Codec struct {
	box *seal.Box
}

func NewCodec(box *seal.Box) *Codec {
	return &Codec{box: box}
}

func (c *Codec) Encode(s *Session) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if c == nil || c.box == nil {
		return raw, nil
	}
	return c.box.Seal(raw)
}

func (c *Codec) Decode(blob []byte) (*Session, error) {
	raw := blob
	if c != nil && c.box != nil {
		var err error
		raw, err = c.box.Open(blob)
		if err != nil {
			return nil, err
		}
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.FieldErrors == nil {
		s.FieldErrors = FieldErrors{}
	}
	return &s, nil
}
