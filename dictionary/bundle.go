package dictionary

import "fmt"

// Trie holds the double-array trie of the system dictionary.
type Trie struct {
	Base  []int32
	Check []int32
}

// TokenInfoSet holds the token-info dictionaries.
type TokenInfoSet struct {
	Dictionary []uint8
	Positions  []uint8
	TargetMap  []uint8
}

// UnknownSet holds the unknown-word dictionaries and character definitions.
type UnknownSet struct {
	Dictionary           []uint8
	Positions            []uint8
	TargetMap            []uint8
	CharDefinitions      []uint8
	CompatibleCategories []uint32
	InvokeDefinitions    []uint8
}

// Bundle is the fully decoded dictionary. Every slot is exclusively owned by
// the Bundle.
type Bundle struct {
	Trie            Trie
	TokenInfo       TokenInfoSet
	ConnectionCosts []int16
	Unknown         UnknownSet
}

// Consumer receives the decoded dictionary in load order.
type Consumer interface {
	LoadTrie(base, check []int32) error
	LoadTokenInfo(dictionary, positions, targetMap []uint8) error
	LoadConnectionCosts(costs []int16) error
	LoadUnknown(dictionary, positions, targetMap, charDefinitions []uint8, compatibleCategories []uint32, invokeDefinitions []uint8) error
}

// Apply feeds the bundle into c: trie, token info, connection costs, then
// unknown words. It stops at the first error.
func (b *Bundle) Apply(c Consumer) error {
	if err := c.LoadTrie(b.Trie.Base, b.Trie.Check); err != nil {
		return fmt.Errorf("load trie: %w", err)
	}
	if err := c.LoadTokenInfo(b.TokenInfo.Dictionary, b.TokenInfo.Positions, b.TokenInfo.TargetMap); err != nil {
		return fmt.Errorf("load token info: %w", err)
	}
	if err := c.LoadConnectionCosts(b.ConnectionCosts); err != nil {
		return fmt.Errorf("load connection costs: %w", err)
	}
	u := b.Unknown
	if err := c.LoadUnknown(u.Dictionary, u.Positions, u.TargetMap, u.CharDefinitions, u.CompatibleCategories, u.InvokeDefinitions); err != nil {
		return fmt.Errorf("load unknown: %w", err)
	}
	return nil
}

// Size returns the total decoded size in bytes.
func (b *Bundle) Size() int {
	u := b.Unknown
	return 4*(len(b.Trie.Base)+len(b.Trie.Check)) +
		len(b.TokenInfo.Dictionary) + len(b.TokenInfo.Positions) + len(b.TokenInfo.TargetMap) +
		2*len(b.ConnectionCosts) +
		len(u.Dictionary) + len(u.Positions) + len(u.TargetMap) + len(u.CharDefinitions) +
		4*len(u.CompatibleCategories) + len(u.InvokeDefinitions)
}

// set routes a decoded shard into its slot by name.
func (b *Bundle) set(name string, v any) {
	switch name {
	case Base:
		b.Trie.Base = v.([]int32)
	case Check:
		b.Trie.Check = v.([]int32)
	case TokenInfo:
		b.TokenInfo.Dictionary = v.([]uint8)
	case TokenInfoPos:
		b.TokenInfo.Positions = v.([]uint8)
	case TokenInfoMap:
		b.TokenInfo.TargetMap = v.([]uint8)
	case ConnectionCosts:
		b.ConnectionCosts = v.([]int16)
	case Unknown:
		b.Unknown.Dictionary = v.([]uint8)
	case UnknownPos:
		b.Unknown.Positions = v.([]uint8)
	case UnknownMap:
		b.Unknown.TargetMap = v.([]uint8)
	case UnknownChar:
		b.Unknown.CharDefinitions = v.([]uint8)
	case UnknownCompatible:
		b.Unknown.CompatibleCategories = v.([]uint32)
	case UnknownInvoke:
		b.Unknown.InvokeDefinitions = v.([]uint8)
	default:
		panic("dictionary: unknown shard " + name)
	}
}
