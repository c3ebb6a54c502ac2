// Package ir is the Koopa-style intermediate representation produced by
// irgen.
//
// A Program owns functions and global values. Each FunctionData owns a
// DataFlowGraph, where every Value and BasicBlock of the function is
// defined, and a Layout, which orders blocks and the instructions inside
// them. Value, BasicBlock and Function are plain handles; their data is
// looked up through the owning graph.
//
// Integer constants, zeroinit, undef and aggregates are values that live in
// the graph but never in a layout. Everything else is an instruction and
// belongs to exactly one block once pushed.
package ir
