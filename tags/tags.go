package tags

// TagData is the fixed-shape tag record. String fields encode as empty
// strings when unset; numeric fields default to zero. After Decode, string
// fields view memory owned by the decoding arena.
type TagData struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	Comment     string
	AlbumArtist string
	Composer    string

	Year       uint32
	Track      uint32
	Disc       uint32
	BPM        uint32
	Bitrate    uint32
	SampleRate uint32
	Channels   uint32
	Length     uint32 // duration in seconds
	LengthMs   uint32 // duration in milliseconds
}

// fieldKind discriminates the two wire types a field can have.
type fieldKind uint8

const (
	fieldString fieldKind = iota
	fieldUint
)

// fieldDef binds a wire key to a typed accessor. The same table drives
// encoding, size measurement, and decode dispatch.
type fieldDef struct {
	key  string
	kind fieldKind
	str  func(*TagData) *string
	num  func(*TagData) *uint32
}

// encodeOrder is the canonical field order on the wire: the seven text
// fields and nine numeric fields interleaved exactly as the original
// producers emit them. Changing this order changes the bytes, not the
// semantics; it is kept stable for byte-identical output across versions.
var encodeOrder = [16]fieldDef{
	{key: "title", kind: fieldString, str: func(t *TagData) *string { return &t.Title }},
	{key: "artist", kind: fieldString, str: func(t *TagData) *string { return &t.Artist }},
	{key: "album", kind: fieldString, str: func(t *TagData) *string { return &t.Album }},
	{key: "year", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.Year }},
	{key: "track", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.Track }},
	{key: "genre", kind: fieldString, str: func(t *TagData) *string { return &t.Genre }},
	{key: "comment", kind: fieldString, str: func(t *TagData) *string { return &t.Comment }},
	{key: "albumArtist", kind: fieldString, str: func(t *TagData) *string { return &t.AlbumArtist }},
	{key: "composer", kind: fieldString, str: func(t *TagData) *string { return &t.Composer }},
	{key: "disc", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.Disc }},
	{key: "bpm", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.BPM }},
	{key: "bitrate", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.Bitrate }},
	{key: "sampleRate", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.SampleRate }},
	{key: "channels", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.Channels }},
	{key: "length", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.Length }},
	{key: "lengthMs", kind: fieldUint, num: func(t *TagData) *uint32 { return &t.LengthMs }},
}

// dispatchOrder lists the indices of encodeOrder sorted lexicographically
// by key. Decode binary-searches this table instead of hashing: the table
// is static, trivially auditable, and stable across rebuilds.
var dispatchOrder = [16]uint8{
	2,  // album
	7,  // albumArtist
	1,  // artist
	11, // bitrate
	10, // bpm
	13, // channels
	6,  // comment
	8,  // composer
	9,  // disc
	5,  // genre
	14, // length
	15, // lengthMs
	12, // sampleRate
	0,  // title
	4,  // track
	3,  // year
}

// lookupField binary-searches the dispatch table for key. Returns nil for
// unknown keys; the caller skips the value.
func lookupField(key []byte) *fieldDef {
	lo, hi := 0, len(dispatchOrder)
	for lo < hi {
		mid := (lo + hi) / 2
		f := &encodeOrder[dispatchOrder[mid]]
		if c := compareKey(key, f.key); c == 0 {
			return f
		} else if c < 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return nil
}

// compareKey compares a raw wire key against a table key without
// converting the wire bytes to a string.
func compareKey(a []byte, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
