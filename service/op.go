package service

import "fmt"

type opKind uint8

const (
	opMapSet opKind = iota
	opMapInsert
	opMapUpsert
	opMapErase
	opMapAt
	opMapBound
	opSetInsert
	opSetErase
	opSetBound
	opSetEraseRange
	opStackPush
	opStackPop
	numOpKinds
)

var opNames = [numOpKinds]string{
	opMapSet:        "map.set",
	opMapInsert:     "map.insert",
	opMapUpsert:     "map.upsert",
	opMapErase:      "map.erase",
	opMapAt:         "map.at",
	opMapBound:      "map.bound",
	opSetInsert:     "set.insert",
	opSetErase:      "set.erase",
	opSetBound:      "set.bound",
	opSetEraseRange: "set.erase-range",
	opStackPush:     "stack.push",
	opStackPop:      "stack.pop",
}

func (k opKind) String() string {
	if k < numOpKinds {
		return opNames[k]
	}
	return fmt.Sprintf("op(%d)", uint8(k))
}

// op is one step of a run. Val is the stored value for writes and the
// span width for range erasure.
type op struct {
	Seq  uint64
	Kind opKind
	Key  int
	Val  int
}

func (o op) String() string {
	return fmt.Sprintf("#%d %s key=%d val=%d", o.Seq, o.Kind, o.Key, o.Val)
}
