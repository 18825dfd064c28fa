package interfaces

import "stock-kite-desk/internal/types"

// Directory resolves spreadsheet display names to exchange identities.
// Lookup returns a complete entry or not-found, never a partial one.
type Directory interface {
	Lookup(name string) (types.DirectoryEntry, bool)
}
