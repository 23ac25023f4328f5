// Package entity maps spec entity keys to client sync targets.
package entity

// SyncRules maps a spec's top-level entity key to the client table that
// must be re-synced when that entity type changes. An empty target marks a
// server-only entity: the datasheet change is real but no client table
// depends on it.
//
// The table is fixed at build time and injected into the mapper rather
// than read as ambient global state, so tests can substitute alternate
// tables.
type SyncRules map[string]string

// DefaultRules is the production table. Every entity key the generator
// scripts emit has an entry here; adding a new generator means adding its
// key.
func DefaultRules() SyncRules {
	return SyncRules{
		"items":            "ItemData",
		"equipment":        "EquipmentData",
		"evolutions":       "EquipmentEvolutionData",
		"materialEnchants": "MaterialEnchantData",
		"enchants":         "EquipmentEnchantData",
		"itemStrings":      "StrSheet_Item",

		// Server-only: consumed by the game server directly, no client
		// table to refresh.
		"passivities":    "",
		"cCompensations": "",
		"eCompensations": "",
		"fCompensations": "",
		"iCompensations": "",
	}
}
