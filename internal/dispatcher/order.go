package dispatcher

import (
	"context"
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/flow"
)

func (d *Dispatcher) orderActions() map[string]action {
	return map[string]action{
		"continue":           d.continueOrder,
		"cancel":             d.cancelOrder,
		"back":               d.orderBack,
		"verification_guide": d.verificationGuide,
	}
}

// continueOrder starts the order flow for a product
func (d *Dispatcher) continueOrder(ctx context.Context, cmd *Command) error {
	id, err := cmd.Int64Arg(0)
	if err != nil {
		return err
	}
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	data := domain.Data{domain.KeyProductID: id}
	first, err := d.startFlow(ctx, cmd.UserID, flow.Order, data)
	if err != nil {
		return err
	}

	p := d.stepPrompt(ctx, first, data)
	p.Text = fmt.Sprintf(msgOrdering, product.Name, d.money(product.Price)) + p.Text
	d.replace(ctx, cmd, p)
	return nil
}

func (d *Dispatcher) cancelOrder(ctx context.Context, cmd *Command) error {
	if d.inFlow(ctx, cmd.UserID, flow.Order) {
		d.store.Clear(ctx, cmd.UserID)
	}
	d.show(ctx, cmd, Prompt{Text: msgOrderCancelled, Keyboard: d.mainMenuKeyboard(cmd.UserID)})
	return nil
}

func (d *Dispatcher) orderBack(ctx context.Context, cmd *Command) error {
	return d.back(ctx, cmd, flow.Order)
}
