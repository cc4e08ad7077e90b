package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"convenience_store/checkout/internal/logic"
	"convenience_store/checkout/internal/session"

	"github.com/cucumber/godog"
)

type checkoutTestContext struct {
	rows       []logic.EntryData
	promotions map[string]int

	pricer  *session.Pricer
	session *session.Session
	order   *session.Checkout
	err     error
}

func (c *checkoutTestContext) reset() {
	c.rows = nil
	c.promotions = map[string]int{}
	c.pricer = nil
	c.session = nil
	c.order = nil
	c.err = nil
}

// ensure builds the catalog on first use, after every Given has run.
func (c *checkoutTestContext) ensure() error {
	if c.pricer != nil {
		return nil
	}
	catalog, err := logic.LoadCatalog(c.rows, c.promotions)
	if err != nil {
		return err
	}
	c.pricer = session.NewPricer(catalog, logic.DefaultMembershipPolicy(), nil, nil)
	c.session = c.pricer.New()
	return nil
}

func (c *checkoutTestContext) aCatalogWithPricedWithStock(name string, price, stock int) error {
	c.rows = append(c.rows, logic.EntryData{Name: name, UnitPrice: int64(price), Stock: stock})
	return nil
}

func (c *checkoutTestContext) hasAPromotion(name string, n int) error {
	c.promotions[name] = n
	return nil
}

func (c *checkoutTestContext) iAddToTheCart(quantity int, name string) error {
	if err := c.ensure(); err != nil {
		return err
	}
	_, c.err = c.session.Add(name, quantity)
	return nil
}

func (c *checkoutTestContext) iCheckOut(with string) error {
	if err := c.ensure(); err != nil {
		return err
	}
	order, err := c.session.Confirm(context.Background(), with == "with")
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}
	c.order = order
	return nil
}

func (c *checkoutTestContext) thePriceForIs(quantity int, name string, want int) error {
	if err := c.ensure(); err != nil {
		return err
	}
	entry, err := c.pricer.Catalog.Lookup(name)
	if err != nil {
		return err
	}
	got, err := entry.PriceFor(quantity)
	if err != nil {
		return err
	}
	return expect("price", int64(want), got)
}

func (c *checkoutTestContext) addingFailsWith(kind string) error {
	var want error
	switch kind {
	case "out of stock":
		want = logic.ErrOutOfStock
	case "unknown product":
		want = logic.ErrUnknownProduct
	case "invalid quantity":
		want = logic.ErrInvalidQuantity
	default:
		return fmt.Errorf("unknown error kind %q", kind)
	}
	if !errors.Is(c.err, want) {
		return fmt.Errorf("expected %v, got %v", want, c.err)
	}
	return nil
}

func (c *checkoutTestContext) theCartHasLines(n int) error {
	if got := c.session.Cart().Len(); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *checkoutTestContext) theCartTotalIs(want int) error {
	return expect("cart total", int64(want), c.session.Cart().Total())
}

func (c *checkoutTestContext) receiptFigure(field string) func(int) error {
	return func(want int) error {
		if c.order == nil {
			return errors.New("no checkout confirmed")
		}
		r := c.order.Receipt
		var got int64
		switch field {
		case "gross":
			got = r.Gross
		case "promotion":
			got = r.Promotion
		case "membership":
			got = r.Membership
		case "net":
			got = r.Net
		}
		return expect(field, int64(want), got)
	}
}

func (c *checkoutTestContext) hasLeftInStock(name string, want int) error {
	entry, err := c.pricer.Catalog.Lookup(name)
	if err != nil {
		return err
	}
	if got := entry.Stock(); got != want {
		return fmt.Errorf("expected %s stock %d, got %d", name, want, got)
	}
	return nil
}

func expect(what string, want, got int64) error {
	if want != got {
		return fmt.Errorf("expected %s %d, got %d", what, want, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given
	ctx.Step(`^a catalog with "([^"]*)" priced (\d+) with stock (\d+)$`, tc.aCatalogWithPricedWithStock)
	ctx.Step(`^"([^"]*)" has a (\d+)\+1 promotion$`, tc.hasAPromotion)

	// When
	ctx.Step(`^I add (\d+) "([^"]*)" to the cart$`, tc.iAddToTheCart)
	ctx.Step(`^I check out (with|without) membership$`, tc.iCheckOut)

	// Then
	ctx.Step(`^the price for (\d+) "([^"]*)" is (\d+)$`, tc.thePriceForIs)
	ctx.Step(`^adding fails with "([^"]*)"$`, tc.addingFailsWith)
	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^the cart total is (\d+)$`, tc.theCartTotalIs)
	ctx.Step(`^the gross total is (\d+)$`, tc.receiptFigure("gross"))
	ctx.Step(`^the promotion savings are (\d+)$`, tc.receiptFigure("promotion"))
	ctx.Step(`^the membership savings are (\d+)$`, tc.receiptFigure("membership"))
	ctx.Step(`^the net payable is (\d+)$`, tc.receiptFigure("net"))
	ctx.Step(`^"([^"]*)" has (\d+) left in stock$`, tc.hasLeftInStock)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"checkout.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
