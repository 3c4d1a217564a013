package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/propsim/market"
)

// FillPolicy decides which bracket leg wins when a take-profit and a
// stop-loss are both satisfiable within one bar. OHLC granularity cannot
// reveal the true intrabar path, so this is a policy, not a fact.
type FillPolicy int8

const (
	// StopFirst resolves the stop-loss first: the conservative assumption
	// that protects against overstating strategy performance.
	StopFirst FillPolicy = iota
	TakeProfitFirst
)

// BookConfig controls fill evaluation behavior.
type BookConfig struct {
	Policy FillPolicy

	// SameBarBrackets evaluates bracket legs against the bar that filled
	// their entry. When false, legs start on the following bar-group.
	SameBarBrackets bool

	// MaxContracts caps a symbol's projected net position; zero disables.
	MaxContracts int
}

// OrderRequest is a strategy's submission. The book owns the resulting order
// record; callers get the id.
type OrderRequest struct {
	Symbol string
	Side   Side
	Size   int
	Type   OrderType
	Limit  float64
	Stop   float64
}

// BracketIDs identifies the three orders of a bracket.
type BracketIDs struct {
	Entry      int64
	TakeProfit int64
	StopLoss   int64
}

// Book owns every order and OCO group record for their entire lifetime. It
// evaluates fill conditions per bar and advances order state. All order ids
// are a deterministic monotonic sequence so identical replays produce
// identical output.
type Book struct {
	cfg       BookConfig
	contracts map[string]market.Contract
	posSize   func(symbol string) int

	orders map[int64]*Order
	seq    []int64 // ids in creation order
	groups map[int64]*OCOGroup

	nextOrder int64
	nextGroup int64

	// queue holds submitted orders; they activate only after the current
	// bar-group completes, so nothing is evaluated retroactively.
	queue []int64

	events []Order // transition notifications, drained by the engine

	// closeReasons labels engine-issued liquidation orders.
	closeReasons map[int64]string

	halted bool
	now    time.Time
}

func NewBook(cfg BookConfig, contracts map[string]market.Contract, posSize func(string) int) *Book {
	return &Book{
		cfg:       cfg,
		contracts: contracts,
		posSize:   posSize,
		orders:       make(map[int64]*Order),
		groups:       make(map[int64]*OCOGroup),
		closeReasons: make(map[int64]string),
	}
}

// SetClock sets the timestamp stamped onto newly created orders.
func (b *Book) SetClock(t time.Time) { b.now = t }

// SetHalted makes every later submission fail with ErrAccountHalted.
func (b *Book) SetHalted() { b.halted = true }

// Order returns a copy of an order record.
func (b *Book) Order(id int64) (Order, bool) {
	o, ok := b.orders[id]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// Group returns a copy of an OCO group record.
func (b *Book) Group(id int64) (OCOGroup, bool) {
	g, ok := b.groups[id]
	if !ok {
		return OCOGroup{}, false
	}
	return *g, true
}

// DrainEvents returns and clears the accumulated order transitions.
func (b *Book) DrainEvents() []Order {
	ev := b.events
	b.events = nil
	return ev
}

func (b *Book) emit(o *Order) { b.events = append(b.events, *o) }

func (b *Book) validate(req OrderRequest) error {
	if req.Size <= 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidOrderRequest, req.Size)
	}
	if req.Side != Buy && req.Side != Sell {
		return fmt.Errorf("%w: bad side", ErrInvalidOrderRequest)
	}
	if _, ok := b.contracts[req.Symbol]; !ok {
		return fmt.Errorf("%w: unknown symbol %q", ErrInvalidOrderRequest, req.Symbol)
	}
	switch req.Type {
	case Market:
	case Limit:
		if req.Limit <= 0 {
			return fmt.Errorf("%w: limit order needs a limit price", ErrInvalidOrderRequest)
		}
	case Stop:
		if req.Stop <= 0 {
			return fmt.Errorf("%w: stop order needs a stop price", ErrInvalidOrderRequest)
		}
	case StopLimit:
		if req.Limit <= 0 || req.Stop <= 0 {
			return fmt.Errorf("%w: stop-limit order needs both prices", ErrInvalidOrderRequest)
		}
	default:
		return fmt.Errorf("%w: unknown order type", ErrInvalidOrderRequest)
	}
	return nil
}

// projectedSize is the symbol's net position if this order and every working
// same-direction order all filled. Orders that could breach the contract cap
// are rejected outright, never partially applied.
func (b *Book) projectedSize(req OrderRequest) int {
	size := b.posSize(req.Symbol) + req.Size*req.Side.Sign()
	for _, id := range b.seq {
		o := b.orders[id]
		if o.Working() && o.Symbol == req.Symbol && o.Side == req.Side && o.OCOGroup == 0 {
			size += o.Size * o.Side.Sign()
		}
	}
	return size
}

func (b *Book) create(req OrderRequest) *Order {
	b.nextOrder++
	o := &Order{
		ID:      b.nextOrder,
		Symbol:  req.Symbol,
		Side:    req.Side,
		Size:    req.Size,
		Type:    req.Type,
		Limit:   req.Limit,
		Stop:    req.Stop,
		Status:  Created,
		Created: b.now,
	}
	b.orders[o.ID] = o
	b.seq = append(b.seq, o.ID)
	return o
}

func (b *Book) reject(o *Order, err error) error {
	o.Status = Rejected
	o.RejectReason = err.Error()
	b.emit(o)
	return err
}

// Submit validates a request and queues the order for activation after the
// current bar-group. The returned id is valid even for rejected orders.
func (b *Book) Submit(req OrderRequest) (int64, error) {
	if err := b.validate(req); err != nil {
		o := b.create(req)
		return o.ID, b.reject(o, err)
	}
	o := b.create(req)
	if b.halted {
		return o.ID, b.reject(o, ErrAccountHalted)
	}
	if b.cfg.MaxContracts > 0 && abs(b.projectedSize(req)) > b.cfg.MaxContracts {
		return o.ID, b.reject(o, fmt.Errorf("%w: limit %d", ErrMaxContracts, b.cfg.MaxContracts))
	}
	o.Status = Submitted
	b.queue = append(b.queue, o.ID)
	b.emit(o)
	return o.ID, nil
}

// SubmitBracket creates an entry order plus linked take-profit and stop-loss
// legs. Leg prices are offsets in ticks from the entry fill price and are
// fixed the instant the entry fills.
func (b *Book) SubmitBracket(entry OrderRequest, tpTicks, slTicks int) (BracketIDs, error) {
	if tpTicks <= 0 || slTicks <= 0 {
		return BracketIDs{}, fmt.Errorf("%w: bracket offsets must be positive ticks", ErrInvalidOrderRequest)
	}
	entryID, err := b.Submit(entry)
	if err != nil {
		return BracketIDs{Entry: entryID}, err
	}

	b.nextGroup++
	exit := OrderRequest{
		Symbol: entry.Symbol,
		Side:   -entry.Side,
		Size:   entry.Size,
	}
	// Prices come from the entry fill; create the legs directly so the
	// placeholder prices don't trip validation.
	tp := b.create(exit)
	tp.Type = Limit
	sl := b.create(exit)
	sl.Type = Stop

	g := &OCOGroup{
		ID:              b.nextGroup,
		EntryID:         entryID,
		TakeProfit:      tp.ID,
		StopLoss:        sl.ID,
		State:           OCOPendingEntry,
		TakeProfitTicks: tpTicks,
		StopLossTicks:   slTicks,
	}
	b.groups[g.ID] = g
	b.orders[entryID].OCOGroup = g.ID
	tp.OCOGroup = g.ID
	sl.OCOGroup = g.ID

	tp.Status = Submitted
	sl.Status = Submitted
	b.queue = append(b.queue, tp.ID, sl.ID)
	b.emit(tp)
	b.emit(sl)

	return BracketIDs{Entry: entryID, TakeProfit: tp.ID, StopLoss: sl.ID}, nil
}

// Cancel moves a working order to CANCELLED. Cancelling an unfilled bracket
// entry also cancels its legs. Cancel on a finished order is an error and a
// no-op.
func (b *Book) Cancel(id int64) error {
	o, ok := b.orders[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownOrder, id)
	}
	if o.Status.Terminal() {
		return fmt.Errorf("%w: order %d is %s", ErrAlreadyTerminal, id, o.Status)
	}
	b.cancel(o)
	if g, ok := b.groups[o.OCOGroup]; ok && g.State != OCOResolved && o.ID == g.EntryID {
		// Cancelling an unfilled entry takes its unresolved legs with it.
		b.cancelLegs(g)
		g.State = OCOResolved
	}
	return nil
}

// CancelAll cancels every working order, optionally for one symbol.
func (b *Book) CancelAll(symbol string) {
	for _, id := range b.seq {
		o := b.orders[id]
		if !o.Working() {
			continue
		}
		if symbol != "" && o.Symbol != symbol {
			continue
		}
		b.cancel(o)
		if g, ok := b.groups[o.OCOGroup]; ok {
			g.State = OCOResolved
		}
	}
	b.queue = b.queue[:0]
}

func (b *Book) cancel(o *Order) {
	o.Status = Cancelled
	b.emit(o)
	for i, id := range b.queue {
		if id == o.ID {
			b.queue = append(b.queue[:i], b.queue[i+1:]...)
			break
		}
	}
}

func (b *Book) cancelLegs(g *OCOGroup) {
	for _, id := range []int64{g.TakeProfit, g.StopLoss} {
		if leg := b.orders[id]; leg.Working() {
			b.cancel(leg)
		}
	}
}

// Activate flushes the submission queue: standalone orders and bracket
// entries become ACTIVE, bracket legs become PENDING until their entry fills.
func (b *Book) Activate() {
	for _, id := range b.queue {
		o := b.orders[id]
		if o.Status != Submitted {
			continue
		}
		if g, ok := b.groups[o.OCOGroup]; ok && o.ID != g.EntryID {
			o.Status = Pending
		} else {
			o.Status = Active
		}
		b.emit(o)
	}
	b.queue = b.queue[:0]
}

// ExpireAll expires every order still working at the end of the data.
func (b *Book) ExpireAll() {
	for _, id := range b.seq {
		if o := b.orders[id]; o.Working() {
			o.Status = Expired
			b.emit(o)
		}
	}
	b.queue = b.queue[:0]
}

// Liquidate queues an engine-issued market order that bypasses the halt and
// contract-limit checks. reason is carried onto the resulting trade.
func (b *Book) Liquidate(symbol string, side Side, size int, reason string) int64 {
	o := b.create(OrderRequest{Symbol: symbol, Side: side, Size: size, Type: Market})
	o.liquidation = true
	o.Status = Active // effective immediately; fills at the next bar open
	b.closeReasons[o.ID] = reason
	b.emit(o)
	return o.ID
}

// closeReason labels the trade a fill produces.
func (b *Book) closeReason(o *Order) string {
	if r, ok := b.closeReasons[o.ID]; ok {
		return r
	}
	if g, ok := b.groups[o.OCOGroup]; ok {
		switch o.ID {
		case g.TakeProfit:
			return "TakeProfit"
		case g.StopLoss:
			return "StopLoss"
		}
	}
	return "Strategy"
}
