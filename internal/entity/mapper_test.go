package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionSplitsThreeWays(t *testing.T) {
	rules := DefaultRules()

	p := rules.Partition([]string{"items", "evolutions", "passivities", "futureSections"})

	assert.Equal(t, []string{"EquipmentEvolutionData", "ItemData"}, p.Syncable)
	assert.Equal(t, []string{"passivities"}, p.ServerOnly)
	assert.Equal(t, []string{"futureSections"}, p.Unknown)
}

func TestPartitionDeduplicatesTargets(t *testing.T) {
	// Two keys mapping to the same target yield one sync entry.
	rules := SyncRules{"items": "ItemData", "itemAliases": "ItemData"}

	p := rules.Partition([]string{"items", "itemAliases", "items"})

	assert.Equal(t, []string{"ItemData"}, p.Syncable)
	assert.Empty(t, p.ServerOnly)
	assert.Empty(t, p.Unknown)
}

func TestPartitionSortsTargets(t *testing.T) {
	p := DefaultRules().Partition([]string{"itemStrings", "enchants", "equipment"})

	assert.Equal(t, []string{"EquipmentData", "EquipmentEnchantData", "StrSheet_Item"}, p.Syncable)
}

func TestPartitionEmptyInput(t *testing.T) {
	p := DefaultRules().Partition(nil)

	assert.Empty(t, p.Syncable)
	assert.Empty(t, p.ServerOnly)
	assert.Empty(t, p.Unknown)
}

func TestDefaultRulesCoverGeneratorKeys(t *testing.T) {
	// Every key the generator scripts emit must have an entry; a missing
	// key would silently fall into the unknown set.
	rules := DefaultRules()
	for _, key := range []string{
		"items", "equipment", "evolutions", "materialEnchants", "enchants",
		"itemStrings", "passivities", "cCompensations", "eCompensations",
		"fCompensations", "iCompensations",
	} {
		_, ok := rules[key]
		assert.True(t, ok, "missing rule for %s", key)
	}
}
