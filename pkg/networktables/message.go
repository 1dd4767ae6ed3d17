package networktables

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// controlMessage is one element of an NT4 text frame.
type controlMessage struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// publishParams announces a topic the client will write.
type publishParams struct {
	Name       string         `json:"name"`
	PubUID     int64          `json:"pubuid"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// announceParams is sent by the server for every known topic.
type announceParams struct {
	Name   string `json:"name"`
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	PubUID *int64 `json:"pubuid,omitempty"`
}

// encodePublish builds the text frame announcing the given topics.
func encodePublish(topics []*topic) ([]byte, error) {
	msgs := make([]controlMessage, 0, len(topics))
	for _, t := range topics {
		params, err := json.Marshal(publishParams{
			Name:       t.name,
			PubUID:     t.pubuid,
			Type:       t.typ.String(),
			Properties: map[string]any{},
		})
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, controlMessage{Method: "publish", Params: params})
	}
	return json.Marshal(msgs)
}

// decodeControl parses a text frame from the server.
func decodeControl(data []byte) ([]controlMessage, error) {
	var msgs []controlMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode control frame: %w", err)
	}
	return msgs, nil
}

// valueFrame is one [id, timestamp, type, value] element of a binary frame.
type valueFrame struct {
	ID        int64
	Timestamp int64
	Type      Type
	Value     any
}

// encodeValues packs frames back to back into one binary message.
func encodeValues(frames []valueFrame) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)

	for _, f := range frames {
		if err := enc.EncodeArrayLen(4); err != nil {
			return nil, err
		}
		if err := enc.EncodeInt(f.ID); err != nil {
			return nil, err
		}
		if err := enc.EncodeInt(f.Timestamp); err != nil {
			return nil, err
		}
		if err := enc.EncodeInt(int64(f.Type)); err != nil {
			return nil, err
		}
		if err := encodeValue(enc, f.Type, f.Value); err != nil {
			return nil, fmt.Errorf("topic %d: %w", f.ID, err)
		}
	}
	return buf.Bytes(), nil
}

func encodeValue(enc *msgpack.Encoder, typ Type, v any) error {
	switch typ {
	case TypeBoolean:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: want bool, got %T", ErrTypeMismatch, v)
		}
		return enc.EncodeBool(b)
	case TypeDouble:
		f, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%w: want float64, got %T", ErrTypeMismatch, v)
		}
		return enc.EncodeFloat64(f)
	case TypeFloat:
		f, ok := v.(float32)
		if !ok {
			return fmt.Errorf("%w: want float32, got %T", ErrTypeMismatch, v)
		}
		return enc.EncodeFloat32(f)
	case TypeInt:
		i, ok := v.(int64)
		if !ok {
			return fmt.Errorf("%w: want int64, got %T", ErrTypeMismatch, v)
		}
		return enc.EncodeInt(i)
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, v)
		}
		return enc.EncodeString(s)
	default:
		return fmt.Errorf("unsupported type %v", typ)
	}
}

// decodeValues unpacks every frame in a binary message.
func decodeValues(data []byte) ([]valueFrame, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))

	var frames []valueFrame
	for {
		n, err := dec.DecodeArrayLen()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		if n != 4 {
			return frames, fmt.Errorf("value frame has %d elements, want 4", n)
		}

		var f valueFrame
		if f.ID, err = dec.DecodeInt64(); err != nil {
			return frames, err
		}
		if f.Timestamp, err = dec.DecodeInt64(); err != nil {
			return frames, err
		}
		typ, err := dec.DecodeInt()
		if err != nil {
			return frames, err
		}
		f.Type = Type(typ)
		if f.Value, err = dec.DecodeInterfaceLoose(); err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}

// asInt64 normalizes a loosely decoded integer.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}
