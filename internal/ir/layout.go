package ir

import (
	"errors"
	"fmt"
)

// ErrDuplicateKey is returned when a block or instruction is pushed twice.
var ErrDuplicateKey = errors.New("ir: duplicate key")

// Layout orders the blocks of a function and the instructions in each block.
// Both levels are append-only.
type Layout struct {
	blocks []BasicBlock
	insts  map[BasicBlock]*InstList
}

func newLayout() *Layout {
	return &Layout{insts: make(map[BasicBlock]*InstList)}
}

// PushBlock appends bb to the block order.
func (l *Layout) PushBlock(bb BasicBlock) error {
	if _, ok := l.insts[bb]; ok {
		return fmt.Errorf("%w: block %d", ErrDuplicateKey, bb)
	}
	l.blocks = append(l.blocks, bb)
	l.insts[bb] = &InstList{set: make(map[Value]struct{})}
	return nil
}

// Blocks returns the blocks in layout order.
func (l *Layout) Blocks() []BasicBlock {
	return l.blocks
}

// Insts returns the instruction list of bb, or nil if bb is not laid out.
func (l *Layout) Insts(bb BasicBlock) *InstList {
	return l.insts[bb]
}

type InstList struct {
	items []Value
	set   map[Value]struct{}
}

// PushBack appends v. Pushing the same value twice is an error.
func (il *InstList) PushBack(v Value) error {
	if _, ok := il.set[v]; ok {
		return fmt.Errorf("%w: value %d", ErrDuplicateKey, v)
	}
	il.set[v] = struct{}{}
	il.items = append(il.items, v)
	return nil
}

func (il *InstList) Len() int { return len(il.items) }

// Back returns the last instruction.
func (il *InstList) Back() (Value, bool) {
	if len(il.items) == 0 {
		return NoValue, false
	}
	return il.items[len(il.items)-1], true
}

func (il *InstList) Values() []Value { return il.items }
