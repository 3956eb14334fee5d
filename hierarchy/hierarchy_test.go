package hierarchy

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type engine struct{}

type chassis struct {
	engine
}

type vehicle struct {
	chassis
}

type truck struct {
	vehicle
	cargo
}

type cargo struct {
	engine
}

type loopA struct {
	*loopB
}

type loopB struct {
	*loopA
}

type plain struct {
	Named engine // not anonymous, not an ancestor
}

func TestAncestors_SingleChain(t *testing.T) {
	anc := Ancestors(reflect.TypeOf(vehicle{}))

	assert.Equal(t, []reflect.Type{
		reflect.TypeOf(engine{}),
		reflect.TypeOf(chassis{}),
	}, anc)
}

func TestAncestors_MostGeneralFirst(t *testing.T) {
	anc := Ancestors(reflect.TypeOf(truck{}))
	assert.Len(t, anc, 4)

	// engine is embedded by every other ancestor, so it must come first.
	assert.Equal(t, reflect.TypeOf(engine{}), anc[0])

	pos := make(map[reflect.Type]int, len(anc))
	for i, a := range anc {
		pos[a] = i
	}
	assert.Less(t, pos[reflect.TypeOf(engine{})], pos[reflect.TypeOf(chassis{})])
	assert.Less(t, pos[reflect.TypeOf(chassis{})], pos[reflect.TypeOf(vehicle{})])
	assert.Less(t, pos[reflect.TypeOf(engine{})], pos[reflect.TypeOf(cargo{})])
}

func TestAncestors_DiamondDeduplicates(t *testing.T) {
	anc := Ancestors(reflect.TypeOf(truck{}))

	count := 0
	for _, a := range anc {
		if a == reflect.TypeOf(engine{}) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAncestors_PointerInput(t *testing.T) {
	byValue := Ancestors(reflect.TypeOf(vehicle{}))
	byPointer := Ancestors(reflect.TypeOf(&vehicle{}))
	assert.Equal(t, byValue, byPointer)
}

func TestAncestors_NoEmbedding(t *testing.T) {
	assert.Empty(t, Ancestors(reflect.TypeOf(engine{})))
	assert.Empty(t, Ancestors(reflect.TypeOf(plain{})))
}

func TestAncestors_NonStruct(t *testing.T) {
	assert.Empty(t, Ancestors(reflect.TypeOf(42)))
	assert.Empty(t, Ancestors(nil))
}

func TestAncestors_PointerCycleTerminates(t *testing.T) {
	anc := Ancestors(reflect.TypeOf(loopA{}))

	// The walk must not recurse forever, and a type is never its own ancestor.
	assert.Equal(t, []reflect.Type{reflect.TypeOf(loopB{})}, anc)
}

func TestChain_EndsWithSelf(t *testing.T) {
	chain := Chain(reflect.TypeOf(&vehicle{}))

	assert.Equal(t, []reflect.Type{
		reflect.TypeOf(engine{}),
		reflect.TypeOf(chassis{}),
		reflect.TypeOf(vehicle{}),
	}, chain)
}

func TestEmbeds(t *testing.T) {
	assert.True(t, Embeds(reflect.TypeOf(vehicle{}), reflect.TypeOf(engine{})))
	assert.True(t, Embeds(reflect.TypeOf(&truck{}), reflect.TypeOf(cargo{})))
	assert.False(t, Embeds(reflect.TypeOf(engine{}), reflect.TypeOf(vehicle{})))
	assert.False(t, Embeds(reflect.TypeOf(plain{}), reflect.TypeOf(engine{})))
}
