package data

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// TypeHash is a stable 64-bit fingerprint of a type's canonical name. It is
// used only for equality checks and cache lookups, never to infer layout -
// two types with colliding hashes but different identities are a correctness
// bug the registry's name+module comparison must still catch independently.
type TypeHash uint64

// ComputeTypeHash fingerprints a type's canonical name (module-qualified
// when the module is non-empty).
func ComputeTypeHash(name, moduleName string) TypeHash {
	canonical := name
	if moduleName != "" {
		canonical = moduleName + "::" + name
	}
	return TypeHash(xxhash.Sum64String(canonical))
}

func (h TypeHash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}
