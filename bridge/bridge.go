package bridge

import (
	"context"
	"encoding/binary"

	"go.uber.org/zap"

	tagwire "github.com/audiotag/tagwire"
	"github.com/audiotag/tagwire/errors"
	"github.com/audiotag/tagwire/frame"
	"github.com/audiotag/tagwire/mempool"
	"github.com/audiotag/tagwire/tags"
)

// guestCalls invokes the guest's tag entry points. The wazero module
// satisfies it in production; tests substitute a fake so the transfer
// logic runs without a wasm binary.
type guestCalls interface {
	// ReadTags parses the audio at (bufPtr, bufLen) and returns a pointer
	// to a framed record in guest memory, writing the frame's total size
	// to outSizePtr. A zero pointer signals failure.
	ReadTags(ctx context.Context, bufPtr, bufLen, outSizePtr uint32) (uint32, error)
	// WriteTags applies the framed record at (tagsPtr, tagsLen) to the
	// audio at (bufPtr, bufLen) and publishes the rewritten audio through
	// outPtrPtr/outSizePtr. Returns zero on success or a negative status.
	WriteTags(ctx context.Context, bufPtr, bufLen, tagsPtr, tagsLen, outPtrPtr, outSizePtr uint32) (int32, error)
}

// Bridge drives a tag-reader guest module. Not safe for concurrent use:
// the staging pool and decode arena are reused across calls, and a record
// returned by ReadTags is only valid until the next call.
type Bridge struct {
	cfg   Config
	mem   tagwire.GuestMemory
	alloc tagwire.GuestAllocator
	calls guestCalls

	pool  *mempool.Pool
	arena *mempool.Arena
	bufs  *frame.BufferPool

	close func(context.Context) error
}

// newBridge wires a bridge over an already-instantiated guest surface.
func newBridge(cfg Config, mem tagwire.GuestMemory, alloc tagwire.GuestAllocator, calls guestCalls) (*Bridge, error) {
	pool := mempool.New(cfg.PoolSize)
	if pool == nil {
		return nil, errors.OutOfMemory(errors.PhaseBridge, cfg.PoolSize)
	}
	if cfg.MaxFrameSize <= 0 {
		cfg.MaxFrameSize = frame.DefaultMaxFrameSize
	}
	return &Bridge{
		cfg:   cfg,
		mem:   mem,
		alloc: alloc,
		calls: calls,
		pool:  pool,
		arena: mempool.NewArena(0),
		bufs:  frame.NewBufferPool(cfg.MaxBuffers),
	}, nil
}

// PoolStats reports the staging pool's lifetime allocation counters.
func (b *Bridge) PoolStats() mempool.PoolStats {
	return b.pool.Stats()
}

// Close releases the guest module and host-side memory. Idempotent.
func (b *Bridge) Close(ctx context.Context) error {
	b.pool.Destroy()
	b.arena.Release()
	b.bufs.Clear()
	if b.close != nil {
		fn := b.close
		b.close = nil
		return fn(ctx)
	}
	return nil
}

// ReadTags copies audio into guest memory, asks the guest to parse it,
// and decodes the returned frame. The record's strings live in bridge
// memory and are valid until the next call on this bridge.
func (b *Bridge) ReadTags(ctx context.Context, audio []byte) (*tags.TagData, error) {
	if len(audio) == 0 {
		return nil, errors.InvalidInput(errors.PhaseBridge, "nil or empty audio buffer")
	}

	b.arena.Reset()

	audioPtr, err := b.alloc.Alloc(uint32(len(audio)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindOutOfMemory, err, "guest audio buffer")
	}
	defer b.alloc.Free(audioPtr)

	if err := b.mem.Write(audioPtr, audio); err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "copy audio into guest", err)
	}

	outSizePtr, err := b.alloc.Alloc(4)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindOutOfMemory, err, "guest out_size cell")
	}
	defer b.alloc.Free(outSizePtr)

	resPtr, err := b.calls.ReadTags(ctx, audioPtr, uint32(len(audio)), outSizePtr)
	if err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "tl_read_tags trapped", err)
	}
	if resPtr == 0 {
		return nil, errors.Internal(errors.PhaseBridge, "guest failed to read tags", nil)
	}
	defer b.alloc.Free(resPtr)

	resSize, err := b.mem.ReadU32(outSizePtr)
	if err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "read result size", err)
	}
	if int(resSize) > b.cfg.MaxFrameSize+frame.HeaderSize {
		return nil, errors.Range(errors.PhaseBridge, "guest frame of %d bytes exceeds limit %d", resSize, b.cfg.MaxFrameSize)
	}

	view, err := b.mem.Read(resPtr, resSize)
	if err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "read result frame", err)
	}

	// The view aliases guest memory; copy it out before decoding so a
	// memory growth between here and decode cannot move it underneath us.
	staged := b.bufs.Acquire(len(view))
	defer b.bufs.Release(staged)
	copy(staged, view)

	payload, err := frame.Payload(staged)
	if err != nil {
		return nil, err
	}

	td, err := tags.Decode(payload, b.arena)
	if err != nil {
		return nil, err
	}

	Logger().Debug("read tags from guest",
		zap.Int("audio_bytes", len(audio)),
		zap.Uint32("frame_bytes", resSize))
	return td, nil
}

// WriteTags encodes td, pushes it and the audio across the boundary, and
// returns the rewritten audio. The returned slice is freshly allocated
// and owned by the caller.
func (b *Bridge) WriteTags(ctx context.Context, audio []byte, td *tags.TagData) ([]byte, error) {
	if len(audio) == 0 {
		return nil, errors.InvalidInput(errors.PhaseBridge, "nil or empty audio buffer")
	}
	if td == nil {
		return nil, errors.InvalidInput(errors.PhaseBridge, "nil record")
	}

	// Two-pass encode into pool memory: measure, then fill exactly.
	n, err := tags.EncodeSize(td)
	if err != nil {
		return nil, err
	}
	b.pool.Reset()
	staged := b.pool.Alloc(frame.HeaderSize + n)
	if staged == nil {
		return nil, errors.OutOfMemory(errors.PhaseAlloc, frame.HeaderSize+n)
	}
	staged = staged[:frame.HeaderSize+n]
	binary.LittleEndian.PutUint32(staged, uint32(n))
	if _, err := tags.Encode(td, staged[frame.HeaderSize:]); err != nil {
		return nil, err
	}

	audioPtr, err := b.alloc.Alloc(uint32(len(audio)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindOutOfMemory, err, "guest audio buffer")
	}
	defer b.alloc.Free(audioPtr)
	if err := b.mem.Write(audioPtr, audio); err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "copy audio into guest", err)
	}

	tagsPtr, err := b.alloc.Alloc(uint32(len(staged)))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindOutOfMemory, err, "guest tag frame")
	}
	defer b.alloc.Free(tagsPtr)
	if err := b.mem.Write(tagsPtr, staged); err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "copy tag frame into guest", err)
	}

	outPtrPtr, err := b.alloc.Alloc(8) // out_ptr and out_size cells
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindOutOfMemory, err, "guest out cells")
	}
	defer b.alloc.Free(outPtrPtr)
	outSizePtr := outPtrPtr + 4

	status, err := b.calls.WriteTags(ctx, audioPtr, uint32(len(audio)),
		tagsPtr, uint32(len(staged)), outPtrPtr, outSizePtr)
	if err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "tl_write_tags trapped", err)
	}
	if status != 0 {
		return nil, errors.New(errors.PhaseBridge, kindFromCode(status)).
			Detail("guest rejected write with status %d", status).
			Build()
	}

	outPtr, err := b.mem.ReadU32(outPtrPtr)
	if err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "read out pointer", err)
	}
	outSize, err := b.mem.ReadU32(outSizePtr)
	if err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "read out size", err)
	}
	if outPtr == 0 || outSize == 0 {
		return nil, errors.Internal(errors.PhaseBridge, "guest published empty output", nil)
	}
	defer b.alloc.Free(outPtr)

	view, err := b.mem.Read(outPtr, outSize)
	if err != nil {
		return nil, errors.Internal(errors.PhaseBridge, "read rewritten audio", err)
	}
	out := make([]byte, len(view))
	copy(out, view)

	Logger().Debug("wrote tags through guest",
		zap.Int("audio_bytes", len(audio)),
		zap.Int("frame_bytes", len(staged)),
		zap.Uint32("out_bytes", outSize))
	return out, nil
}

// kindFromCode maps a guest status code back onto the error taxonomy.
// Inverse of Kind.Code for the closed set; unknown codes are internal.
func kindFromCode(code int32) errors.Kind {
	switch code {
	case errors.KindInvalidInput.Code():
		return errors.KindInvalidInput
	case errors.KindTypeMismatch.Code():
		return errors.KindTypeMismatch
	case errors.KindRange.Code():
		return errors.KindRange
	case errors.KindOutOfMemory.Code():
		return errors.KindOutOfMemory
	case errors.KindTruncated.Code():
		return errors.KindTruncated
	default:
		return errors.KindInternal
	}
}
