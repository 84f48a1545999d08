package outbox

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/feedmirror/feedmirror/feed"
	"github.com/feedmirror/feedmirror/types"
)

// Outbox is a fire-and-forget outbound instruction queue for one
// target gate. Push persists the instruction and returns immediately;
// the delivery loop invokes the registered consumer and never reports
// consumer failures back to the pusher.
type Outbox struct {
	target string
	budget uint64

	db     types.DB
	logger *zap.Logger

	consumer Consumer

	instructionCh chan Instruction

	mu        sync.Mutex
	sequence  uint64
	pending   []Instruction
	queued    uint64
	delivered uint64
	failed    uint64
}

func New(target string, budget uint64, db types.DB, logger *zap.Logger) *Outbox {
	return &Outbox{
		target:        target,
		budget:        budget,
		db:            db,
		logger:        logger,
		instructionCh: make(chan Instruction, 64),
	}
}

// Initialize loads undelivered instructions from the previous run;
// Start delivers them before new ones.
func (o *Outbox) Initialize() error {
	pending, err := LoadInstructions(o.db)
	if err != nil {
		return errors.Wrap(err, "failed to load pending instructions")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending = pending
	o.queued = uint64(len(pending))
	for _, instruction := range pending {
		if instruction.Sequence >= o.sequence {
			o.sequence = instruction.Sequence + 1
		}
	}
	return nil
}

// RegisterConsumer sets the delivery handler. Must be called before
// Start.
func (o *Outbox) RegisterConsumer(consumer Consumer) {
	o.consumer = consumer
}

func (o *Outbox) Target() string {
	return o.target
}

func (o *Outbox) Budget() uint64 {
	return o.budget
}

// Push enqueues an instruction for the target. The instruction is
// persisted before it is handed to the delivery loop, so a crash in
// between redelivers it on restart.
func (o *Outbox) Push(kind InstructionKind, roundID uint64, record *feed.RoundRecord) error {
	o.mu.Lock()
	instruction := Instruction{
		Target:    o.target,
		Kind:      kind,
		RoundID:   roundID,
		Record:    record,
		Budget:    o.budget,
		Timestamp: types.CurrentNanoTimestamp(),
		Sequence:  o.sequence,
	}
	o.sequence++
	o.queued++
	o.mu.Unlock()

	if err := SaveInstruction(o.db, instruction); err != nil {
		return errors.Wrap(err, "failed to save instruction")
	}

	o.instructionCh <- instruction
	return nil
}

// Start runs the delivery loop until the context is done. Instructions
// loaded at construction are delivered first.
func (o *Outbox) Start(ctx types.Context) error {
	if o.consumer == nil {
		return errors.New("no consumer registered")
	}

	o.mu.Lock()
	pending := o.pending
	o.pending = nil
	o.mu.Unlock()

	for _, instruction := range pending {
		o.deliver(ctx, instruction)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case instruction := <-o.instructionCh:
			o.deliver(ctx, instruction)
		}
	}
}

func (o *Outbox) deliver(ctx types.Context, instruction Instruction) {
	err := o.consumer(ctx, instruction)
	if err != nil {
		// delivery succeeded, processing did not; the result is not
		// reported back to the pusher
		o.logger.Info("instruction processing failed",
			zap.String("target", instruction.Target),
			zap.String("kind", string(instruction.Kind)),
			zap.Uint64("round_id", instruction.RoundID),
			zap.String("error", err.Error()))
	}

	o.mu.Lock()
	if err != nil {
		o.failed++
	} else {
		o.delivered++
	}
	o.mu.Unlock()

	if err := DeleteInstruction(o.db, instruction); err != nil {
		o.logger.Error("failed to delete delivered instruction", zap.String("error", err.Error()))
	}
}

type Status struct {
	Target    string `json:"target"`
	Budget    uint64 `json:"budget"`
	QueueLen  int    `json:"queue_len"`
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
}

func (o *Outbox) GetStatus() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Status{
		Target:    o.target,
		Budget:    o.budget,
		QueueLen:  int(o.queued - o.delivered - o.failed),
		Delivered: o.delivered,
		Failed:    o.failed,
	}
}

// WaitForDelivery blocks until every instruction pushed before the call
// has been delivered, or the timeout elapses. Test helper.
func (o *Outbox) WaitForDelivery(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		o.mu.Lock()
		idle := o.delivered+o.failed == o.queued
		o.mu.Unlock()
		if idle {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
