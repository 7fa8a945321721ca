package tags

import (
	"math"

	"github.com/audiotag/tagwire/errors"
	"github.com/audiotag/tagwire/mempool"
	"github.com/audiotag/tagwire/msgpack"
)

// Decode reads a top-level map from buf into a new record. String field
// bytes are copied into arena and the returned record's strings view that
// memory, so the record is only valid until the arena is reset or released.
//
// The map may have any number of entries: unknown keys are skipped, missing
// keys leave their fields at the zero value, and a duplicate key overwrites
// the earlier value. Any truncation, type mismatch, or arena exhaustion
// aborts the decode; no partial record is returned on error.
func Decode(buf []byte, arena *mempool.Arena) (*TagData, error) {
	if len(buf) == 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "nil or empty buffer")
	}
	if arena == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "nil arena")
	}

	r := msgpack.NewReader(buf)
	count, err := r.ReadMapHeader()
	if err != nil {
		return nil, err
	}

	td := &TagData{}
	for i := 0; i < count; i++ {
		key, err := r.ReadString()
		if err != nil {
			return nil, err
		}

		f := lookupField(key)
		if f == nil {
			// Forward compatibility: a newer producer may emit keys
			// this decoder does not know.
			if err := r.Skip(); err != nil {
				return nil, err
			}
			continue
		}

		if f.kind == fieldString {
			raw, err := r.ReadString()
			if err != nil {
				return nil, err
			}
			s, ok := arena.AllocString(raw)
			if !ok {
				return nil, errors.OutOfMemory(errors.PhaseDecode, len(raw))
			}
			*f.str(td) = s
		} else {
			v, err := r.ReadUint()
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, errors.Range(errors.PhaseDecode,
					"field %s: value %d exceeds uint32", f.key, v)
			}
			*f.num(td) = uint32(v)
		}
	}

	return td, nil
}
