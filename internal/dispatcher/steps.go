package dispatcher

import (
	"context"
	"fmt"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/flow"

	"go.uber.org/zap"
)

// dispatchMessage feeds an inbound message to the step the user is on
// and returns the outcome label for metrics.
func (d *Dispatcher) dispatchMessage(ctx context.Context, msg Message, log *zap.Logger) string {
	sess, ok := d.store.Get(ctx, msg.UserID)
	if !ok || !sess.Active() {
		d.reply(ctx, msg.ChatID, Prompt{Text: msgUseMenu, Keyboard: d.mainMenuKeyboard(msg.UserID)})
		return "idle"
	}

	log = log.With(zap.String("state", string(sess.State)))
	step, ok := d.flows.Step(sess.State)
	if !ok {
		log.Warn("Session in unknown state")
		d.expire(ctx, msg.UserID, msg.ChatID)
		return "expired"
	}
	log = log.With(zap.String("flow", string(step.Flow)))

	if needsProduct(step.Flow) {
		if _, ok := sess.Data.Int64(domain.KeyProductID); !ok {
			log.Warn("Session lost its product")
			d.expire(ctx, msg.UserID, msg.ChatID)
			return "expired"
		}
	}

	res := step.Apply(sess.Data, msg.Input)
	switch res.Outcome {
	case flow.Reject:
		log.Debug("Input rejected", zap.Error(res.Err))
		d.reply(ctx, msg.ChatID, Prompt{Text: step.Reprompt, Keyboard: d.stepKeyboard(step)})
		return "rejected"

	case flow.Accumulate:
		item, _ := res.Value.(string)
		d.store.AppendToList(ctx, msg.UserID, step.Key, item)
		count := len(d.store.Data(ctx, msg.UserID).Strings(step.Key))
		d.reply(ctx, msg.ChatID, Prompt{
			Text:     fmt.Sprintf(msgDescriptionSaved, count),
			Keyboard: d.stepKeyboard(step),
		})
		return "accumulated"

	case flow.Advance:
		next, ok := d.flows.Step(step.Next)
		if !ok {
			log.Error("Step points to unknown state", zap.String("next", string(step.Next)))
			d.expire(ctx, msg.UserID, msg.ChatID)
			return "expired"
		}
		d.store.Transition(ctx, msg.UserID, next.State, res.Data)
		log.Debug("Step advanced", zap.String("next", string(next.State)))
		d.reply(ctx, msg.ChatID, d.stepPrompt(ctx, next, res.Data))
		return "advanced"

	default:
		return d.complete(ctx, msg, step, res.Data, log)
	}
}

func needsProduct(name flow.Name) bool {
	return name == flow.Order || name == flow.PriceEdit || name == flow.DescriptionEdit
}

// expire drops a session whose context is gone
func (d *Dispatcher) expire(ctx context.Context, userID, chatID int64) {
	d.store.Clear(ctx, userID)
	d.reply(ctx, chatID, Prompt{Text: msgSessionExpired, Keyboard: d.mainMenuKeyboard(userID)})
}

// startFlow begins name with a fresh history and returns its entry step
func (d *Dispatcher) startFlow(ctx context.Context, userID int64, name flow.Name, data domain.Data) (flow.Step, error) {
	first, ok := d.flows.First(name)
	if !ok {
		return flow.Step{}, fmt.Errorf("flow %q has no steps", name)
	}
	d.store.Clear(ctx, userID)
	d.store.SetState(ctx, userID, first.State, data)
	return first, nil
}

// stepPrompt renders the prompt of step for the data collected so far
func (d *Dispatcher) stepPrompt(ctx context.Context, step flow.Step, data domain.Data) Prompt {
	p := Prompt{Text: step.Prompt, Keyboard: d.stepKeyboard(step)}
	if step.State != domain.StateCollectDepositHash {
		return p
	}

	id, _ := data.Int64(domain.KeyProductID)
	product, err := d.catalog.Get(ctx, id)
	if err != nil {
		d.logger.Warn("Failed to load product for deposit prompt", zap.Int64("product_id", id), zap.Error(err))
		return p
	}
	pct := d.orders.DepositPercent()
	p.Text = fmt.Sprintf(msgDepositPrompt,
		pct,
		d.money(d.orders.DepositAmount(product.Price)),
		d.cfg.WalletAddress,
		pct,
	)
	return p
}

func (d *Dispatcher) stepKeyboard(step flow.Step) [][]Button {
	switch step.Flow {
	case flow.Order:
		cancel := btn("Cancel", "order:cancel")
		if first, _ := d.flows.First(flow.Order); first.State == step.State {
			return [][]Button{row(cancel)}
		}
		kb := [][]Button{row(btn("Back", "order:back"), cancel)}
		if step.State == domain.StateCollectVerificationVideo {
			kb = append([][]Button{row(btn("Verification Guide", "order:verification_guide"))}, kb...)
		}
		return kb

	case flow.ProductCreation:
		cancel := btn("Cancel", "admin:cancel_add_product")
		if step.Skippable {
			return [][]Button{row(btn("Skip Photo", "admin:add_product_skip_photo"), cancel)}
		}
		return [][]Button{row(btn("Back", "admin:back_step"), cancel)}

	case flow.PriceEdit:
		return [][]Button{row(btn("Cancel", "admin:cancel_edit_price"))}

	case flow.DescriptionEdit:
		return [][]Button{row(btn("Cancel", "admin:cancel_edit_desc"))}
	}
	return nil
}

// back restores the previous step of name. Presses from outside name, or with
// nothing to undo, leave the session untouched.
func (d *Dispatcher) back(ctx context.Context, cmd *Command, name flow.Name) error {
	if !d.inFlow(ctx, cmd.UserID, name) {
		d.alert(ctx, cmd, msgNothingToUndo)
		return nil
	}

	sess, ok := d.store.Back(ctx, cmd.UserID)
	if !ok {
		d.alert(ctx, cmd, msgNothingToUndo)
		return nil
	}

	step, ok := d.flows.Step(sess.State)
	if !ok {
		d.expire(ctx, cmd.UserID, cmd.ChatID)
		return nil
	}
	d.show(ctx, cmd, d.stepPrompt(ctx, step, sess.Data))
	return nil
}

// inFlow reports whether the user is currently inside name
func (d *Dispatcher) inFlow(ctx context.Context, userID int64, name flow.Name) bool {
	current, ok := d.flows.FlowOf(d.store.State(ctx, userID))
	return ok && current == name
}
