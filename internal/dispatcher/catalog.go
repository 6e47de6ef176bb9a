package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
)

func (d *Dispatcher) visaActions() map[string]action {
	return map[string]action{
		"menu":               d.visaMenu,
		"order":              d.firstProductsPage,
		"products":           d.productsPage,
		"product":            d.productDetail,
		"guide":              d.productGuide,
		"order_product":      d.orderProduct,
		"verification_guide": d.verificationGuide,
		"charge":             d.notImplemented,
		"documents":          d.notImplemented,
	}
}

func (d *Dispatcher) firstProductsPage(ctx context.Context, cmd *Command) error {
	return d.showProducts(ctx, cmd, 1)
}

func (d *Dispatcher) productsPage(ctx context.Context, cmd *Command) error {
	page, err := cmd.PageArg(0)
	if err != nil {
		return err
	}
	return d.showProducts(ctx, cmd, page)
}

func (d *Dispatcher) showProducts(ctx context.Context, cmd *Command, page int) error {
	products, total, err := d.catalog.List(ctx, page)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		d.replace(ctx, cmd, Prompt{Text: msgNoProducts, Keyboard: backKeyboard("visa:menu")})
		return nil
	}

	kb := make([][]Button, 0, len(products)+2)
	for _, p := range products {
		label := fmt.Sprintf("%s - %s", p.Name, d.money(p.Price))
		kb = append(kb, row(btn(label, cmdData("visa", "product", p.ID))))
	}
	if nav := pager("visa:products", page, total); len(nav) > 0 {
		kb = append(kb, nav)
	}
	kb = append(kb, row(btn("Back", "visa:menu")))

	d.replace(ctx, cmd, Prompt{
		Text:     fmt.Sprintf("Available products (page %d of %d):", page, total),
		Keyboard: kb,
	})
	return nil
}

func (d *Dispatcher) productDetail(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	d.replace(ctx, cmd, Prompt{
		Text:    d.productText(product),
		PhotoID: product.PhotoFileID,
		Keyboard: [][]Button{
			row(btn("Order", cmdData("visa", "order_product", id))),
			row(btn("Guide", cmdData("visa", "guide", id))),
			row(btn("Back", "visa:products:1")),
		},
	})
	return nil
}

func (d *Dispatcher) productText(p *domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nCode: %s\nPrice: %s", p.Name, p.Code, d.money(p.Price))
	if lines := p.Descriptions(); len(lines) > 0 {
		b.WriteString("\n\n")
		for _, line := range lines {
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *Dispatcher) productGuide(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	d.replace(ctx, cmd, Prompt{Text: msgProductGuide, Keyboard: backKeyboard(cmdData("visa", "product", id))})
	return nil
}

func (d *Dispatcher) orderProduct(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	d.replace(ctx, cmd, Prompt{
		Text: fmt.Sprintf(msgOrderDocuments, product.Name),
		Keyboard: [][]Button{
			row(btn("Continue", cmdData("order", "continue", id))),
			row(btn("Back", cmdData("visa", "product", id))),
		},
	})
	return nil
}

func (d *Dispatcher) verificationGuide(ctx context.Context, cmd *Command) error {
	d.alert(ctx, cmd, msgGuideComingSoon)
	return nil
}

func (d *Dispatcher) notImplemented(ctx context.Context, cmd *Command) error {
	d.alert(ctx, cmd, msgNotImplemented)
	return nil
}
