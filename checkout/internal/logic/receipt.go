package logic

// LineKind tags a receipt record so the view can lay it out.
type LineKind string

const (
	KindItem       LineKind = "item"
	KindBonus      LineKind = "bonus"
	KindGross      LineKind = "gross"
	KindPromotion  LineKind = "promotion"
	KindMembership LineKind = "membership"
	KindNet        LineKind = "net"
)

// ReceiptLine is one structured receipt record. Quantity is zero on the
// promotion, membership and net records. Discount amounts are negative.
// Item and gross records carry Amount at list value for every unit handed
// out and Charged for what the paid units cost (PriceFor / cart total).
type ReceiptLine struct {
	Kind     LineKind `json:"kind"`
	Label    string   `json:"label"`
	Quantity int      `json:"quantity,omitempty"`
	Amount   int64    `json:"amount"`
	Charged  int64    `json:"charged,omitempty"`
}

// Receipt is the built receipt plus its summary figures.
type Receipt struct {
	Lines      []ReceiptLine `json:"lines"`
	Gross      int64         `json:"gross"`
	Charged    int64         `json:"charged"`
	Promotion  int64         `json:"promotion"`
	Membership int64         `json:"membership"`
	Net        int64         `json:"net"`
}

// Receipt labels, in the store's locale.
const (
	LabelGross      = "총구매액"
	LabelPromotion  = "행사할인"
	LabelMembership = "멤버십할인"
	LabelNet        = "내실돈"
)

// Builder turns a cart and its discounts into a receipt.
type Builder struct{}

// NewBuilder returns a receipt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build lists one item record per cart line in cart order (units handed
// out at list value), then one bonus record per line with free units,
// then gross, promotion, membership and net. Net is clamped at zero.
func (b *Builder) Build(cart *Cart, discounts DiscountResult) Receipt {
	lines := cart.Lines()
	records := make([]ReceiptLine, 0, len(lines)+4)

	var gross, charged int64
	var units int
	for _, line := range lines {
		value := line.Entry.UnitPrice() * int64(line.Units())
		// quantities were validated in AddItem
		price, _ := line.Entry.PriceFor(line.Quantity)
		gross += value
		charged += price
		units += line.Units()
		records = append(records, ReceiptLine{
			Kind:     KindItem,
			Label:    line.Entry.Name(),
			Quantity: line.Units(),
			Amount:   value,
			Charged:  price,
		})
	}

	for _, line := range lines {
		if line.Free == 0 {
			continue
		}
		records = append(records, ReceiptLine{
			Kind:     KindBonus,
			Label:    line.Entry.Name(),
			Quantity: line.Free,
			Amount:   line.Entry.UnitPrice() * int64(line.Free),
		})
	}

	net := gross - discounts.Promotion - discounts.Membership
	if net < 0 {
		net = 0
	}

	records = append(records,
		ReceiptLine{Kind: KindGross, Label: LabelGross, Quantity: units, Amount: gross, Charged: charged},
		ReceiptLine{Kind: KindPromotion, Label: LabelPromotion, Amount: -discounts.Promotion},
		ReceiptLine{Kind: KindMembership, Label: LabelMembership, Amount: -discounts.Membership},
		ReceiptLine{Kind: KindNet, Label: LabelNet, Amount: net},
	)

	return Receipt{
		Lines:      records,
		Gross:      gross,
		Charged:    charged,
		Promotion:  discounts.Promotion,
		Membership: discounts.Membership,
		Net:        net,
	}
}
