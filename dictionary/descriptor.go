package dictionary

// Shard names.
const (
	Base              = "base"
	Check             = "check"
	TokenInfo         = "tid"
	TokenInfoPos      = "tid_pos"
	TokenInfoMap      = "tid_map"
	ConnectionCosts   = "cc"
	Unknown           = "unk"
	UnknownPos        = "unk_pos"
	UnknownMap        = "unk_map"
	UnknownChar       = "unk_char"
	UnknownCompatible = "unk_compat"
	UnknownInvoke     = "unk_invoke"
)

// Extension is appended to every shard name to form its file name.
const Extension = ".dat"

// Descriptor names one shard and its element type.
type Descriptor struct {
	Name string
	Kind Kind
}

var descriptors = [...]Descriptor{
	{Base, KindInt32},
	{Check, KindInt32},
	{TokenInfo, KindUint8},
	{TokenInfoPos, KindUint8},
	{TokenInfoMap, KindUint8},
	{ConnectionCosts, KindInt16},
	{Unknown, KindUint8},
	{UnknownPos, KindUint8},
	{UnknownMap, KindUint8},
	{UnknownChar, KindUint8},
	{UnknownCompatible, KindUint32},
	{UnknownInvoke, KindUint8},
}

// Descriptors returns the shard table in load order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors[:])
	return out
}

// Lookup returns the descriptor for name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
