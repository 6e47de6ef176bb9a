package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/flow"
	"github.com/M0SENI/VisaBot/internal/metrics"

	"go.uber.org/zap"
)

// terminal performs the one persistence write that ends a flow and
// returns the message for the user
type terminal func(ctx context.Context, msg Message, data domain.Data, log *zap.Logger) (Prompt, error)

func (d *Dispatcher) terminalFor(name flow.Name) terminal {
	switch name {
	case flow.Order:
		return d.placeOrder
	case flow.ProductCreation:
		return d.createProduct
	case flow.PriceEdit:
		return d.updatePrice
	case flow.DescriptionEdit:
		return d.updateDescription
	}
	return nil
}

// complete runs the terminal action of step's flow. Missing context expires
// the session; a failed write keeps it unless ClearOnFailure is set.
func (d *Dispatcher) complete(ctx context.Context, msg Message, step flow.Step, data domain.Data, log *zap.Logger) string {
	name := string(step.Flow)
	fn := d.terminalFor(step.Flow)
	if fn == nil {
		log.Error("Flow has no terminal action")
		d.expire(ctx, msg.UserID, msg.ChatID)
		return "expired"
	}

	p, err := fn(ctx, msg, data, log)
	switch {
	case err == nil:
		d.store.Clear(ctx, msg.UserID)
		metrics.IncFlowCompletion(name, "ok")
		log.Info("Flow completed")
		d.reply(ctx, msg.ChatID, p)
		return "completed"

	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
		log.Warn("Flow context is gone", zap.Error(err))
		metrics.IncFlowCompletion(name, "expired")
		d.expire(ctx, msg.UserID, msg.ChatID)
		return "expired"

	default:
		log.Error("Terminal action failed", zap.Error(err))
		metrics.IncFlowCompletion(name, "failed")
		if d.cfg.ClearOnFailure {
			d.store.Clear(ctx, msg.UserID)
			d.reply(ctx, msg.ChatID, Prompt{Text: msgSaveFailedCleared, Keyboard: d.mainMenuKeyboard(msg.UserID)})
			return "failed"
		}
		d.reply(ctx, msg.ChatID, Prompt{Text: msgSaveFailedRetry, Keyboard: d.stepKeyboard(step)})
		return "failed"
	}
}

func (d *Dispatcher) placeOrder(ctx context.Context, msg Message, data domain.Data, log *zap.Logger) (Prompt, error) {
	order, err := d.orders.Place(ctx, msg.UserID, data)
	if err != nil {
		return Prompt{}, err
	}
	log.Info("Order submitted", zap.Int64("order_id", order.ID))

	d.notifyAdmin(ctx, order, log)
	return Prompt{Text: msgOrderSubmitted, Keyboard: d.mainMenuKeyboard(msg.UserID)}, nil
}

// notifyAdmin forwards the order documents with the review keyboard.
// Delivery failures do not undo the order.
func (d *Dispatcher) notifyAdmin(ctx context.Context, order *domain.Order, log *zap.Logger) {
	media := []Media{
		{Kind: MediaPhoto, FileID: order.PassportFileID, Caption: fmt.Sprintf("Order #%d passport", order.ID)},
		{Kind: MediaVideo, FileID: order.VerificationVideoID},
	}
	if err := d.transport.SendAlbum(ctx, d.cfg.AdminID, media); err != nil {
		log.Warn("Failed to send order documents to admin", zap.Int64("order_id", order.ID), zap.Error(err))
	}

	d.reply(ctx, d.cfg.AdminID, Prompt{
		Text: d.orderSummary(order),
		Keyboard: [][]Button{
			row(btn("Accept", cmdData("admin", "accept_order", order.ID)), btn("Reject", cmdData("admin", "reject_order", order.ID))),
			row(btn("User Profile", cmdData("menu", "profile", order.UserID))),
		},
	})
}

func (d *Dispatcher) orderSummary(order *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order #%d\n\n", order.ID)
	fmt.Fprintf(&b, "Product: %s\n", order.ProductName)
	fmt.Fprintf(&b, "Price: %s\n", d.money(order.ProductPrice))
	fmt.Fprintf(&b, "Deposit: %s\n\n", d.money(d.orders.DepositAmount(order.ProductPrice)))
	fmt.Fprintf(&b, "User ID: %d\n", order.UserID)
	fmt.Fprintf(&b, "Full name: %s\n", order.FullName)
	fmt.Fprintf(&b, "Address: %s\n", order.Address)
	fmt.Fprintf(&b, "Mobile: %s\n", order.Mobile)
	fmt.Fprintf(&b, "Tx hash: %s", order.TxHash)
	return b.String()
}

func (d *Dispatcher) createProduct(ctx context.Context, msg Message, data domain.Data, log *zap.Logger) (Prompt, error) {
	product, err := d.catalog.Create(ctx, data)
	if err != nil {
		return Prompt{}, err
	}
	log.Info("Product created", zap.Int64("product_id", product.ID))

	return Prompt{
		Text: fmt.Sprintf("Product created successfully!\n\nCode: %s\nName: %s\nPrice: %s",
			product.Code, product.Name, d.money(product.Price)),
		Keyboard: productSettingsKeyboard(),
	}, nil
}

func (d *Dispatcher) updatePrice(ctx context.Context, msg Message, data domain.Data, log *zap.Logger) (Prompt, error) {
	product, oldPrice, err := d.catalog.UpdatePrice(ctx, data)
	if err != nil {
		return Prompt{}, err
	}
	log.Info("Price updated", zap.Int64("product_id", product.ID))

	return Prompt{
		Text: fmt.Sprintf("Price updated!\n\n%s\nOld price: %s\nNew price: %s",
			product.Name, d.money(oldPrice), d.money(product.Price)),
		Keyboard: [][]Button{
			row(btn("View Product", cmdData("admin", "view_product", product.ID))),
			row(btn("Back", "admin:products")),
		},
	}, nil
}

func (d *Dispatcher) updateDescription(ctx context.Context, msg Message, data domain.Data, log *zap.Logger) (Prompt, error) {
	product, old, err := d.catalog.UpdateDescription(ctx, data)
	if err != nil {
		return Prompt{}, err
	}
	index, _ := data.Int64(domain.KeyDescriptionIndex)
	log.Info("Description updated", zap.Int64("product_id", product.ID), zap.Int64("index", index))

	return Prompt{
		Text: fmt.Sprintf("Description %d of %s updated!\n\nOld: %s\nNew: %s",
			index, product.Name, old, data.String(domain.KeyNewDescription)),
		Keyboard: [][]Button{
			row(btn("Edit Descriptions", cmdData("admin", "edit_descriptions", product.ID))),
			row(btn("Back", "admin:products")),
		},
	}, nil
}
