package product

import "github.com/coregx/cldes/event"

// Node is the lazy synchronous product of two operands, answering every
// query in §4.2 without ever allocating n0*n1 cells. Grounded on
// SuperProxy in the original: the same qx/qy decode, the same shared/
// only-in-0/only-in-1 event split, and the same three-branch dispatch on
// contains_trans/trans/inv_trans.
type Node struct {
	n0 VState // a.NumStates()
	n  VState // n0 * b.NumStates()
	q0 VState

	shared   event.Set
	onlyIn0  event.Set
	onlyIn1  event.Set
	events   event.Set
	marked   map[VState]struct{}
	markedSl []VState

	a, b Operand
}

// New builds the virtual product of a and b. It returns an error if the
// product state count would overflow VState's 64-bit range (spec.md §7's
// checked virtual-index arithmetic).
func New(a, b Operand) (*Node, error) {
	n0 := a.NumStates()
	n1 := b.NumStates()

	if n0 != 0 && n1 > (^VState(0))/n0 {
		return nil, newError(IndexOverflow, "product: %d * %d overflows a 64-bit virtual state index", n0, n1)
	}
	n := n0 * n1

	aEvents := a.Events()
	bEvents := b.Events()
	shared := aEvents.Intersect(bEvents)
	onlyIn0 := aEvents.Difference(shared)
	onlyIn1 := bEvents.Difference(shared)
	events := aEvents.Union(bEvents)

	marked := make(map[VState]struct{})
	for _, q0 := range a.MarkedStates() {
		for _, q1 := range b.MarkedStates() {
			marked[q1*n0+q0] = struct{}{}
		}
	}
	markedSl := make([]VState, 0, len(marked))
	for m := range marked {
		markedSl = append(markedSl, m)
	}

	return &Node{
		n0:       n0,
		n:        n,
		q0:       b.InitialState()*n0 + a.InitialState(),
		shared:   shared,
		onlyIn0:  onlyIn0,
		onlyIn1:  onlyIn1,
		events:   events,
		marked:   marked,
		markedSl: markedSl,
		a:        a,
		b:        b,
	}, nil
}

// decode splits a virtual state into its (qx, qy) components: qx addresses
// a, qy addresses b.
func (n *Node) decode(q VState) (qx, qy VState) {
	return q % n.n0, q / n.n0
}

func (n *Node) NumStates() VState    { return n.n }
func (n *Node) InitialState() VState { return n.q0 }
func (n *Node) Events() event.Set    { return n.events }

// AlphabetSize returns the wider of the two operands' declared alphabet
// widths, so the materialised supervisor can address every event either
// side of the product uses.
func (n *Node) AlphabetSize() int {
	sa, sb := n.a.AlphabetSize(), n.b.AlphabetSize()
	if sa > sb {
		return sa
	}
	return sb
}

func (n *Node) IsMarked(q VState) bool {
	_, ok := n.marked[q]
	return ok
}

func (n *Node) MarkedStates() []VState { return n.markedSl }

// Enabled implements the formula from spec.md §3:
// (outA ∩ outB) ∪ (outA ∩ onlyIn0) ∪ (outB ∩ onlyIn1).
func (n *Node) Enabled(q VState) event.Set {
	qx, qy := n.decode(q)
	ea := n.a.Enabled(qx)
	eb := n.b.Enabled(qy)
	return ea.Intersect(eb).Union(ea.Intersect(n.onlyIn0)).Union(eb.Intersect(n.onlyIn1))
}

// InvEnabled is the symmetric formula over in_events.
func (n *Node) InvEnabled(q VState) event.Set {
	qx, qy := n.decode(q)
	ea := n.a.InvEnabled(qx)
	eb := n.b.InvEnabled(qy)
	return ea.Intersect(eb).Union(ea.Intersect(n.onlyIn0)).Union(eb.Intersect(n.onlyIn1))
}

func (n *Node) ContainsTrans(q VState, e event.Event) bool {
	if !n.events.Test(e) {
		return false
	}
	qx, qy := n.decode(q)
	inX := n.a.ContainsTrans(qx, e)
	inY := n.b.ContainsTrans(qy, e)
	return (inX && inY) || (inX && n.onlyIn0.Test(e)) || (inY && n.onlyIn1.Test(e))
}

func (n *Node) Trans(q VState, e event.Event) (VState, bool) {
	if !n.events.Test(e) {
		return 0, false
	}
	qx, qy := n.decode(q)
	inX := n.a.ContainsTrans(qx, e)
	inY := n.b.ContainsTrans(qy, e)

	switch {
	case inX && inY:
		nx, _ := n.a.Trans(qx, e)
		ny, _ := n.b.Trans(qy, e)
		return ny*n.n0 + nx, true
	case inX && n.onlyIn0.Test(e):
		nx, _ := n.a.Trans(qx, e)
		return qy*n.n0 + nx, true
	case inY && n.onlyIn1.Test(e):
		ny, _ := n.b.Trans(qy, e)
		return ny*n.n0 + qx, true
	default:
		return 0, false
	}
}

func (n *Node) ContainsInvTrans(q VState, e event.Event) bool {
	if !n.events.Test(e) {
		return false
	}
	qx, qy := n.decode(q)
	inX := n.a.ContainsInvTrans(qx, e)
	inY := n.b.ContainsInvTrans(qy, e)
	return (inX && inY) || (inX && n.onlyIn0.Test(e)) || (inY && n.onlyIn1.Test(e))
}

func (n *Node) InvTrans(q VState, e event.Event) []VState {
	if !n.events.Test(e) {
		return nil
	}
	qx, qy := n.decode(q)
	inX := n.a.ContainsInvTrans(qx, e)
	inY := n.b.ContainsInvTrans(qy, e)

	var out []VState
	switch {
	case inX && inY:
		predX := n.a.InvTrans(qx, e)
		predY := n.b.InvTrans(qy, e)
		out = make([]VState, 0, len(predX)*len(predY))
		for _, px := range predX {
			for _, py := range predY {
				out = append(out, py*n.n0+px)
			}
		}
	case inX && n.onlyIn0.Test(e):
		predX := n.a.InvTrans(qx, e)
		out = make([]VState, 0, len(predX))
		for _, px := range predX {
			out = append(out, qy*n.n0+px)
		}
	case inY && n.onlyIn1.Test(e):
		predY := n.b.InvTrans(qy, e)
		out = make([]VState, 0, len(predY))
		for _, py := range predY {
			out = append(out, py*n.n0+qx)
		}
	}
	return out
}

func (n *Node) AllocateInverted() {
	n.a.AllocateInverted()
	n.b.AllocateInverted()
}

func (n *Node) ClearInverted() {
	n.a.ClearInverted()
	n.b.ClearInverted()
}
