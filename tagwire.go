package tagwire

// GuestMemory represents the linear memory of a guest module.
// All reads and writes are bounds-checked; a failed access returns
// an error instead of faulting.
type GuestMemory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	WriteU32(offset uint32, value uint32) error
	Size() uint32
}

// GuestAllocator allocates memory inside guest linear memory.
// Typically backed by the guest's exported malloc/free pair.
type GuestAllocator interface {
	Alloc(size uint32) (uint32, error)
	Free(ptr uint32)
}
