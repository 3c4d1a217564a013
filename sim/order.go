package sim

import "time"

type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Sign returns +1 for buys and -1 for sells.
func (s Side) Sign() int { return int(s) }

type OrderType int8

const (
	Market OrderType = iota
	Limit
	Stop
	StopLimit
)

func (t OrderType) String() string {
	switch t {
	case Market:
		return "MARKET"
	case Limit:
		return "LIMIT"
	case Stop:
		return "STOP"
	case StopLimit:
		return "STOP_LIMIT"
	}
	return "UNKNOWN"
}

type OrderStatus int8

const (
	Created OrderStatus = iota
	Submitted
	// Pending is reserved for bracket legs waiting on their entry's fill.
	Pending
	Active
	Filled
	Cancelled
	Rejected
	Expired
)

func (s OrderStatus) String() string {
	switch s {
	case Created:
		return "CREATED"
	case Submitted:
		return "SUBMITTED"
	case Pending:
		return "PENDING"
	case Active:
		return "ACTIVE"
	case Filled:
		return "FILLED"
	case Cancelled:
		return "CANCELLED"
	case Rejected:
		return "REJECTED"
	case Expired:
		return "EXPIRED"
	}
	return "UNKNOWN"
}

// Terminal reports whether the status is final.
func (s OrderStatus) Terminal() bool {
	switch s {
	case Filled, Cancelled, Rejected, Expired:
		return true
	}
	return false
}

// Order is a single order record. Orders are owned exclusively by the Book;
// strategies hold only the id.
type Order struct {
	ID     int64
	Symbol string
	Side   Side
	Size   int
	Type   OrderType

	// Limit and Stop are zero when not applicable to the order type.
	Limit float64
	Stop  float64

	Status  OrderStatus
	Created time.Time

	FillPrice float64
	FillTime  time.Time

	// OCOGroup links bracket legs; zero means standalone.
	OCOGroup int64

	RejectReason string

	// triggered marks a stop-limit whose stop condition has been met; it is
	// evaluated as a plain limit order afterwards.
	triggered bool

	// liquidation orders are issued by the engine itself and bypass the halt
	// and contract-limit checks.
	liquidation bool
}

// Working reports whether the order can still reach a fill.
func (o *Order) Working() bool {
	switch o.Status {
	case Submitted, Pending, Active:
		return true
	}
	return false
}

type OCOState int8

const (
	OCOPendingEntry OCOState = iota
	OCOActive
	OCOResolved
)

// OCOGroup is a bracket: an entry order plus take-profit and stop-loss legs.
// At most one leg ever fills; the instant one does, the sibling is cancelled
// before any other order is processed.
type OCOGroup struct {
	ID         int64
	EntryID    int64
	TakeProfit int64
	StopLoss   int64
	State      OCOState

	// Leg offsets in ticks from the entry fill price. Leg prices are set the
	// moment the entry fills.
	TakeProfitTicks int
	StopLossTicks   int
}
