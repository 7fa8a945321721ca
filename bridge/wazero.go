package bridge

import (
	"context"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/audiotag/tagwire/errors"
)

// Guest export names, fixed by the module ABI.
const (
	exportMalloc    = "tl_malloc"
	exportFree      = "tl_free"
	exportReadTags  = "tl_read_tags"
	exportWriteTags = "tl_write_tags"
)

// New loads the guest module named by cfg.ModulePath, instantiates it under
// a fresh wazero runtime, and returns a bridge over its exports. The caller
// must Close the bridge to release the runtime.
func New(ctx context.Context, cfg Config) (*Bridge, error) {
	wasmBytes, err := os.ReadFile(cfg.ModulePath)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBridge, errors.KindInvalidInput, err, "read guest module")
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	mod, err := r.InstantiateWithConfig(ctx, wasmBytes,
		wazero.NewModuleConfig().WithName("tagreader"))
	if err != nil {
		_ = r.Close(ctx)
		return nil, errors.Internal(errors.PhaseBridge, "instantiate guest module", err)
	}

	g, err := newGuestModule(mod)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}

	b, err := newBridge(cfg, g, g, g)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	b.close = r.Close

	Logger().Info("guest module loaded",
		zap.String("path", cfg.ModulePath),
		zap.Uint32("memory_pages", cfg.MemoryLimitPages))
	return b, nil
}

// guestModule adapts a wazero module to the bridge's guest interfaces:
// memory access, allocation, and the tag entry points.
type guestModule struct {
	mod       api.Module
	malloc    api.Function
	free      api.Function
	readTags  api.Function
	writeTags api.Function
}

func newGuestModule(mod api.Module) (*guestModule, error) {
	g := &guestModule{mod: mod}
	for _, e := range []struct {
		name string
		dst  *api.Function
	}{
		{exportMalloc, &g.malloc},
		{exportFree, &g.free},
		{exportReadTags, &g.readTags},
		{exportWriteTags, &g.writeTags},
	} {
		fn := mod.ExportedFunction(e.name)
		if fn == nil {
			return nil, errors.InvalidInput(errors.PhaseBridge, "guest module missing export "+e.name)
		}
		*e.dst = fn
	}
	if mod.Memory() == nil {
		return nil, errors.InvalidInput(errors.PhaseBridge, "guest module exports no memory")
	}
	return g, nil
}

// Read returns a view into guest linear memory, valid until the memory
// grows. Callers that hold the bytes across guest calls must copy.
func (g *guestModule) Read(offset, length uint32) ([]byte, error) {
	buf, ok := g.mod.Memory().Read(offset, length)
	if !ok {
		return nil, errors.Range(errors.PhaseBridge, "guest memory read [%d, %d) out of bounds", offset, uint64(offset)+uint64(length))
	}
	return buf, nil
}

func (g *guestModule) Write(offset uint32, data []byte) error {
	if !g.mod.Memory().Write(offset, data) {
		return errors.Range(errors.PhaseBridge, "guest memory write [%d, %d) out of bounds", offset, uint64(offset)+uint64(len(data)))
	}
	return nil
}

func (g *guestModule) ReadU32(offset uint32) (uint32, error) {
	v, ok := g.mod.Memory().ReadUint32Le(offset)
	if !ok {
		return 0, errors.Range(errors.PhaseBridge, "guest memory read u32 at %d out of bounds", offset)
	}
	return v, nil
}

func (g *guestModule) WriteU32(offset, value uint32) error {
	if !g.mod.Memory().WriteUint32Le(offset, value) {
		return errors.Range(errors.PhaseBridge, "guest memory write u32 at %d out of bounds", offset)
	}
	return nil
}

func (g *guestModule) Size() uint32 {
	return g.mod.Memory().Size()
}

func (g *guestModule) Alloc(size uint32) (uint32, error) {
	res, err := g.malloc.Call(context.Background(), uint64(size))
	if err != nil {
		return 0, err
	}
	ptr := uint32(res[0])
	if ptr == 0 {
		return 0, errors.OutOfMemory(errors.PhaseBridge, int(size))
	}
	return ptr, nil
}

func (g *guestModule) Free(ptr uint32) {
	if ptr == 0 {
		return
	}
	if _, err := g.free.Call(context.Background(), uint64(ptr)); err != nil {
		Logger().Warn("guest free failed", zap.Uint32("ptr", ptr), zap.Error(err))
	}
}

func (g *guestModule) ReadTags(ctx context.Context, bufPtr, bufLen, outSizePtr uint32) (uint32, error) {
	res, err := g.readTags.Call(ctx, uint64(bufPtr), uint64(bufLen), uint64(outSizePtr))
	if err != nil {
		return 0, err
	}
	return uint32(res[0]), nil
}

func (g *guestModule) WriteTags(ctx context.Context, bufPtr, bufLen, tagsPtr, tagsLen, outPtrPtr, outSizePtr uint32) (int32, error) {
	res, err := g.writeTags.Call(ctx,
		uint64(bufPtr), uint64(bufLen),
		uint64(tagsPtr), uint64(tagsLen),
		uint64(outPtrPtr), uint64(outSizePtr))
	if err != nil {
		return 0, err
	}
	return int32(res[0]), nil
}
