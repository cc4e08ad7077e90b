// Package flow drives the terminal checkout: list products, take a
// purchase, offer bonus units, ask about membership, print the receipt,
// and loop while the customer keeps buying.
package flow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"convenience_store/checkout/internal/logic"
	"convenience_store/checkout/internal/session"
	"convenience_store/checkout/internal/view"

	"go.uber.org/zap"
)

// State of the terminal flow.
type State int

const (
	Shopping State = iota
	Checkout
	Done
)

func (s State) String() string {
	switch s {
	case Shopping:
		return "shopping"
	case Checkout:
		return "checkout"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

type Flow struct {
	pricer *session.Pricer
	in     LineReader
	out    *view.Printer
	logger *zap.Logger

	state   State
	current *session.Session
	orders  []*session.Checkout
}

// New builds a flow over a shared pricer.
func New(pricer *session.Pricer, in LineReader, out *view.Printer, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{pricer: pricer, in: in, out: out, logger: logger}
}

// Orders returns the checkouts confirmed so far.
func (f *Flow) Orders() []*session.Checkout { return f.orders }

// Run loops until the customer is done. Running out of input ends the
// flow like a "no" answer; context errors are returned.
func (f *Flow) Run(ctx context.Context) error {
	f.state = Shopping
	for f.state != Done {
		var err error
		switch f.state {
		case Shopping:
			err = f.shop(ctx)
		case Checkout:
			err = f.checkout(ctx)
		}

		if errors.Is(err, io.EOF) {
			f.logger.Info("input closed", zap.Stringer("state", f.state))
			f.state = Done
			break
		}
		if err != nil {
			return err
		}
	}
	f.out.Println(view.MsgFarewell)
	return nil
}

func (f *Flow) shop(ctx context.Context) error {
	f.out.Catalog(f.pricer.Catalog.Entries())

	for {
		f.out.Println(view.MsgPurchasePrompt)
		line, err := f.in.ReadLine(ctx)
		if err != nil {
			return err
		}

		s, err := f.fill(ctx, line)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			f.out.Error(customerError(err))
			continue
		}

		f.current = s
		f.state = Checkout
		return nil
	}
}

// fill builds a fresh session from one purchase line. Any bad item throws
// the whole line away so the customer can type it again.
func (f *Flow) fill(ctx context.Context, line string) (*session.Session, error) {
	requests, err := view.ParsePurchase(line)
	if err != nil {
		return nil, err
	}

	s := f.pricer.New()
	for _, req := range requests {
		entry, err := f.pricer.Catalog.Lookup(req.Name)
		if err != nil {
			return nil, err
		}

		qty := req.Quantity
		if f.bonusWithinReach(entry, qty, s.Cart().UnitsOf(entry)) {
			yes, err := f.askYesNo(ctx, fmt.Sprintf(view.MsgBonusOffer, entry.Name()))
			if err != nil {
				return nil, err
			}
			if yes {
				qty++
			}
		}

		if _, err := s.Add(req.Name, qty); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// bonusWithinReach reports whether one more paid unit would earn one more
// free unit that is actually on the shelf, given the units earlier lines
// of the purchase already hold.
func (f *Flow) bonusWithinReach(entry *logic.Entry, qty, reserved int) bool {
	promo := entry.Promotion()
	if promo == nil || promo.Shortfall(qty) != 1 {
		return false
	}
	return entry.BonusFor(qty+1, reserved) > entry.BonusFor(qty, reserved)
}

func (f *Flow) checkout(ctx context.Context) error {
	membership, err := f.askYesNo(ctx, view.MsgMembership)
	if err != nil {
		return err
	}

	out, err := f.current.Confirm(ctx, membership)
	if err != nil {
		f.out.Error(customerError(err))
		f.logger.Warn("checkout failed", zap.String("session", f.current.ID), zap.Error(err))
		f.current = nil
		f.state = Shopping
		return nil
	}
	f.orders = append(f.orders, out)
	f.out.Receipt(out.Receipt)

	more, err := f.askYesNo(ctx, view.MsgBuyMore)
	if err != nil {
		return err
	}
	f.current = nil
	if more {
		f.state = Shopping
	} else {
		f.state = Done
	}
	return nil
}

func (f *Flow) askYesNo(ctx context.Context, prompt string) (bool, error) {
	for {
		f.out.Println(prompt)
		line, err := f.in.ReadLine(ctx)
		if err != nil {
			return false, err
		}
		yes, err := view.ParseYesNo(line)
		if err != nil {
			f.out.Error(err)
			continue
		}
		return yes, nil
	}
}

// customerError swaps core errors for the messages shown at the counter.
func customerError(err error) error {
	switch {
	case errors.Is(err, logic.ErrUnknownProduct):
		return view.ErrNoSuchProduct
	case errors.Is(err, logic.ErrOutOfStock), errors.Is(err, logic.ErrInsufficientStock):
		return view.ErrOverStock
	case errors.Is(err, logic.ErrInvalidQuantity):
		return view.ErrInvalidFormat
	}
	return err
}
