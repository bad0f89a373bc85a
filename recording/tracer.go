package recording

import (
	"github.com/chiplab/mrambridge/bridge"
	"github.com/chiplab/mrambridge/memctrl"
	"github.com/chiplab/mrambridge/sim"
	"github.com/chiplab/mrambridge/system"
)

// CommandTrace is one row of the commands table: a serial command
// starting or completing.
type CommandTrace struct {
	Cycle  uint64
	Event  string
	Opcode uint8
	Addr   uint32
	Data   uint16
}

// TransactionTrace is one row of the transactions table: a completed
// memory cycle on the pins.
type TransactionTrace struct {
	Cycle uint64
	Op    string
	Addr  uint32
	Data  uint16
}

// SystemTracer records every serial command and memory transaction of a
// board into a DataRecorder.
type SystemTracer struct {
	recorder DataRecorder
	board    *system.Comp
}

// NewSystemTracer creates a tracer writing to the given recorder. Call
// Attach to start recording.
func NewSystemTracer(
	recorder DataRecorder,
	board *system.Comp,
) *SystemTracer {
	recorder.CreateTable("commands", CommandTrace{})
	recorder.CreateTable("transactions", TransactionTrace{})

	return &SystemTracer{
		recorder: recorder,
		board:    board,
	}
}

// Attach hooks the tracer into the board's dispatcher and memory
// controller.
func (t *SystemTracer) Attach() {
	t.board.Dispatcher().AcceptHook(t)
	t.board.Controller().AcceptHook(t)
}

// Func implements sim.Hook.
func (t *SystemTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case bridge.HookPosCommandStart, bridge.HookPosCommandDone:
		cmd := ctx.Item.(bridge.Command)
		t.recorder.InsertData("commands", CommandTrace{
			Cycle:  t.board.Cycle(),
			Event:  ctx.Pos.Name,
			Opcode: cmd.Opcode,
			Addr:   cmd.Addr,
			Data:   cmd.Data,
		})
	case memctrl.HookPosWriteComplete:
		t.insertTransaction("write", ctx.Item.(memctrl.Transaction))
	case memctrl.HookPosReadComplete:
		t.insertTransaction("read", ctx.Item.(memctrl.Transaction))
	}
}

func (t *SystemTracer) insertTransaction(
	op string,
	trans memctrl.Transaction,
) {
	t.recorder.InsertData("transactions", TransactionTrace{
		Cycle: t.board.Cycle(),
		Op:    op,
		Addr:  trans.Addr,
		Data:  trans.Data,
	})
}
