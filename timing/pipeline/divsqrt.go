package pipeline

import (
	"github.com/DarionT/cvw/insts"
	"github.com/DarionT/cvw/softfp"
	"github.com/DarionT/cvw/timing/latency"
)

// DivSqrtUnit is the iterative divide/square-root unit. It accepts one
// operation at a time through a start/busy/done handshake: Start captures
// the operands and the occupancy, Step advances the countdown once per
// tick, and the result is collected on the tick Step reports done.
//
// Special-case operands resolve on the start tick. A pipeline flush never
// aborts the recurrence; it marks the result discarded and the unit runs to
// completion before accepting the next operation.
type DivSqrtUnit struct {
	table *latency.Table

	busy      bool
	remaining uint64
	discarded bool

	result uint64
	flags  softfp.Flags
}

// NewDivSqrtUnit creates a new iterative unit with the given timing table.
func NewDivSqrtUnit(table *latency.Table) *DivSqrtUnit {
	return &DivSqrtUnit{table: table}
}

// Busy reports whether the unit is occupied.
func (u *DivSqrtUnit) Busy() bool {
	return u.busy
}

// Discarded reports whether the in-flight result has been flushed.
func (u *DivSqrtUnit) Discarded() bool {
	return u.discarded
}

// Result returns the completed value and flags.
func (u *DivSqrtUnit) Result() (uint64, softfp.Flags) {
	return u.result, u.flags
}

// Start accepts a divide or square root. a and b are the boxed register
// values; b is ignored for square roots. The caller must not start while
// the unit is busy.
func (u *DivSqrtUnit) Start(inst *insts.Instruction, a, b uint64, rm softfp.RoundingMode) {
	f := inst.Fmt
	ua := softfp.Unbox(a, f)
	ub := softfp.Unbox(b, f)

	var special bool
	var res uint64
	var fl softfp.Flags
	if inst.Op == insts.OpFSQRT {
		x := softfp.Unpack(ua, f)
		_, _, special = softfp.SqrtSpecial(x, f)
		res, fl = softfp.Sqrt(ua, f, rm)
	} else {
		x := softfp.Unpack(ua, f)
		y := softfp.Unpack(ub, f)
		_, _, special = softfp.DivSpecial(x, y, f)
		res, fl = softfp.Div(ua, ub, f, rm)
	}

	u.busy = true
	u.discarded = false
	u.result = softfp.Box(res, f)
	u.flags = fl

	if special {
		u.remaining = 1
		return
	}
	if inst.Op == insts.OpFSQRT {
		u.remaining = u.table.SqrtCycles(f)
	} else {
		u.remaining = u.table.DivCycles(f)
	}
}

// Step advances the countdown by one tick and reports whether the
// operation completed this tick.
func (u *DivSqrtUnit) Step() bool {
	if !u.busy {
		return false
	}
	u.remaining--
	if u.remaining == 0 {
		u.busy = false
		return true
	}
	return false
}

// Flush marks the in-flight result as discarded. The recurrence keeps
// running; the result is dropped when it completes.
func (u *DivSqrtUnit) Flush() {
	if u.busy {
		u.discarded = true
	}
}
