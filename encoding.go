package safeen

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodingMethod selects the serialization used by Export and Import.
type EncodingMethod int

const (
	MsgPack EncodingMethod = iota
	JSON

	DefaultEncoding = MsgPack
)

func (enc EncodingMethod) String() string {
	switch enc {
	case MsgPack:
		return "msgpack"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("EncodingMethod(%d)", int(enc))
	}
}

// ParseEncodingMethod accepts "msgpack" or "json".
func ParseEncodingMethod(s string) (EncodingMethod, error) {
	switch s {
	case "msgpack", "mp":
		return MsgPack, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}

func (enc EncodingMethod) encode(w io.Writer, v any) error {
	switch enc {
	case MsgPack:
		e := msgpack.NewEncoder(w)
		e.SetSortMapKeys(true)
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("failed to encode %T using MsgPack: %w", v, err)
		}
		return nil
	case JSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		if err := e.Encode(v); err != nil {
			return fmt.Errorf("failed to encode %T to JSON: %w", v, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported encoding %v", enc)
	}
}

func (enc EncodingMethod) decode(r io.Reader, v any) error {
	switch enc {
	case MsgPack:
		if err := msgpack.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("failed to decode msgpack into %T: %w", v, err)
		}
		return nil
	case JSON:
		d := json.NewDecoder(r)
		d.UseNumber()
		d.DisallowUnknownFields()
		if err := d.Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON into %T: %w", v, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported encoding %v", enc)
	}
}
