package view

import (
	"fmt"
	"io"
	"strings"

	"convenience_store/checkout/internal/logic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgWelcome        = "안녕하세요. W편의점입니다.\n현재 보유하고 있는 상품입니다.\n"
	MsgPurchasePrompt = "구매하실 상품명과 수량을 입력해 주세요. (예: [사이다-2],[감자칩-1])"
	MsgBonusOffer     = "현재 %s은(는) 1개를 더 구매하시면 1개를 무료로 더 받을 수 있습니다. 추가하시겠습니까? (Y/N)"
	MsgMembership     = "멤버십 할인을 받으시겠습니까? (Y/N)"
	MsgBuyMore        = "감사합니다. 구매하고 싶은 다른 상품이 있나요? (Y/N)"
	MsgFarewell       = "구매가 종료되었습니다. 감사합니다."
)

// Printer renders prompts, the catalog and receipts to a terminal.
type Printer struct {
	w   io.Writer
	num *message.Printer
}

// NewPrinter writes to w, grouping amounts the Korean way (1,000).
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, num: message.NewPrinter(language.Korean)}
}

// Amount formats an integer amount with thousands separators.
func (p *Printer) Amount(n int64) string {
	return p.num.Sprintf("%d", n)
}

func (p *Printer) Println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Error prints an error on its own line, adding the [ERROR] tag if missing.
func (p *Printer) Error(err error) {
	msg := err.Error()
	if !strings.HasPrefix(msg, "[ERROR]") {
		msg = "[ERROR] " + msg
	}
	fmt.Fprintln(p.w, msg)
}

// TagPromotion marks promoted entries that are in stock.
const TagPromotion = "프로모션"

// Catalog lists every entry with price, stock and promotion tag.
func (p *Printer) Catalog(entries []*logic.Entry) {
	fmt.Fprint(p.w, MsgWelcome+"\n")
	for _, e := range entries {
		stock := "재고 없음"
		if n := e.Stock(); n > 0 {
			stock = p.num.Sprintf("%d개", n)
			if e.Promotion() != nil {
				stock += " " + TagPromotion
			}
		}
		fmt.Fprintf(p.w, "- %s %s원 %s\n", e.Name(), p.Amount(e.UnitPrice()), stock)
	}
	fmt.Fprintln(p.w)
}

// Receipt prints the structured receipt as text.
func (p *Printer) Receipt(r logic.Receipt) {
	fmt.Fprintln(p.w, "==============W 편의점================")
	fmt.Fprintf(p.w, "%-14s\t%4s\t%10s\n", "상품명", "수량", "금액")

	bonusHeader := false
	for _, line := range r.Lines {
		switch line.Kind {
		case logic.KindItem:
			fmt.Fprintf(p.w, "%-14s\t%4d\t%10s\n", line.Label, line.Quantity, p.Amount(line.Amount))
		case logic.KindBonus:
			if !bonusHeader {
				fmt.Fprintln(p.w, "=============증\t정===============")
				bonusHeader = true
			}
			fmt.Fprintf(p.w, "%-14s\t%4d\n", line.Label, line.Quantity)
		case logic.KindGross:
			fmt.Fprintln(p.w, "====================================")
			fmt.Fprintf(p.w, "%-14s\t%4d\t%10s\n", line.Label, line.Quantity, p.Amount(line.Amount))
		case logic.KindPromotion, logic.KindMembership, logic.KindNet:
			fmt.Fprintf(p.w, "%-14s\t%4s\t%10s\n", line.Label, "", p.Amount(line.Amount))
		}
	}
	fmt.Fprintln(p.w)
}
