package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/M0SENI/VisaBot/internal/domain"
	"github.com/M0SENI/VisaBot/internal/flow"
	"github.com/M0SENI/VisaBot/internal/metrics"
	"github.com/M0SENI/VisaBot/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Button is an inline keyboard button carrying a command
type Button struct {
	Text string
	Data string
}

// Prompt is an outbound message
type Prompt struct {
	Text     string
	Keyboard [][]Button
	// PhotoID sends the prompt as a photo with Text as caption
	PhotoID string
}

// MediaKind is the kind of an album item
type MediaKind int

const (
	MediaPhoto MediaKind = iota
	MediaVideo
)

// Media is one item of an album
type Media struct {
	Kind    MediaKind
	FileID  string
	Caption string
}

// Transport delivers prompts to chats
type Transport interface {
	Send(ctx context.Context, chatID int64, p Prompt) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, p Prompt) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	SendAlbum(ctx context.Context, chatID int64, media []Media) error
	// Answer acknowledges a button press, optionally showing text
	Answer(ctx context.Context, callbackID, text string, alert bool) error
}

// Catalog manages products
type Catalog interface {
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, page int) ([]domain.Product, int, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, data domain.Data) (*domain.Product, error)
	UpdatePrice(ctx context.Context, data domain.Data) (*domain.Product, int64, error)
	UpdateDescription(ctx context.Context, data domain.Data) (*domain.Product, string, error)
	Delete(ctx context.Context, id int64) error
}

// Orders places and reviews orders
type Orders interface {
	Place(ctx context.Context, userID int64, data domain.Data) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	Commission(ctx context.Context, userID int64) (int, float64, error)
	Review(ctx context.Context, orderID int64, accept bool) (*domain.OrderReview, error)
	DepositAmount(price int64) int64
	DepositPercent() int
}

// Wallets manages balances
type Wallets interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	Charge(ctx context.Context, userID, amount int64) error
	Transactions(ctx context.Context, userID int64, page int) ([]domain.Transaction, int, error)
}

// Users reads user records
type Users interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
}

// Services groups the storage backed collaborators
type Services struct {
	Catalog Catalog
	Orders  Orders
	Wallets Wallets
	Users   Users
}

// Config holds the static settings the dispatcher needs
type Config struct {
	AdminID       int64
	WalletAddress string
	Currency      string
	// ChargeAmounts are the wallet top-up options
	ChargeAmounts []int64
	// ClearOnFailure drops the session when a terminal action fails
	ClearOnFailure bool
}

// Message is an inbound chat message
type Message struct {
	UserID int64
	ChatID int64
	Input  flow.Input
}

// Command is an inbound button press. Data has the form namespace:action[:args...].
type Command struct {
	UserID     int64
	ChatID     int64
	MessageID  int
	CallbackID string
	Data       string

	namespace string
	action    string
	args      []string
	answered  bool
}

var errBadArgument = errors.New("bad command argument")

// Int64Arg parses the i-th argument
func (c *Command) Int64Arg(i int) (int64, error) {
	if i >= len(c.args) {
		return 0, fmt.Errorf("%w: missing argument %d", errBadArgument, i)
	}
	n, err := strconv.ParseInt(c.args[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadArgument, c.args[i])
	}
	return n, nil
}

// PageArg parses the i-th argument as a page number, defaulting to 1
func (c *Command) PageArg(i int) (int, error) {
	if i >= len(c.args) {
		return 1, nil
	}
	n, err := strconv.Atoi(c.args[i])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: page %q", errBadArgument, c.args[i])
	}
	return n, nil
}

type action func(ctx context.Context, cmd *Command) error

type namespace struct {
	adminOnly bool
	actions   map[string]action
}

// Dispatcher routes inbound events to flow steps and command handlers
type Dispatcher struct {
	store     session.Store
	locker    *session.Locker
	flows     *flow.Registry
	transport Transport
	catalog   Catalog
	orders    Orders
	wallets   Wallets
	users     Users
	cfg       Config
	logger    *zap.Logger
	routes    map[string]namespace
}

// New creates a dispatcher
func New(
	store session.Store,
	locker *session.Locker,
	flows *flow.Registry,
	transport Transport,
	services Services,
	cfg Config,
	logger *zap.Logger,
) *Dispatcher {
	d := &Dispatcher{
		store:     store,
		locker:    locker,
		flows:     flows,
		transport: transport,
		catalog:   services.Catalog,
		orders:    services.Orders,
		wallets:   services.Wallets,
		users:     services.Users,
		cfg:       cfg,
		logger:    logger,
	}
	d.routes = d.commandRoutes()
	return d
}

func (d *Dispatcher) commandRoutes() map[string]namespace {
	return map[string]namespace{
		"menu":   {actions: d.menuActions()},
		"visa":   {actions: d.visaActions()},
		"order":  {actions: d.orderActions()},
		"wallet": {actions: d.walletActions()},
		"admin":  {adminOnly: true, actions: d.adminActions()},
	}
}

func (d *Dispatcher) isAdmin(userID int64) bool {
	return userID == d.cfg.AdminID
}

func (d *Dispatcher) eventLogger(userID int64) *zap.Logger {
	return d.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.Int64("user_id", userID),
	)
}

// acquire takes the user's lock, giving up when ctx is done so a stuck
// event cannot hold back the user's later events forever
func (d *Dispatcher) acquire(ctx context.Context, userID int64, kind string) (func(), bool) {
	unlock, err := d.locker.Lock(ctx, userID)
	if err != nil {
		d.logger.Warn("Gave up waiting for user lock",
			zap.Int64("user_id", userID),
			zap.String("kind", kind),
			zap.Error(err),
		)
		metrics.IncDispatch(kind, "busy")
		return nil, false
	}
	return unlock, true
}

// HandleMessage processes a text or media message
func (d *Dispatcher) HandleMessage(ctx context.Context, msg Message) {
	unlock, ok := d.acquire(ctx, msg.UserID, "message")
	if !ok {
		d.reply(context.WithoutCancel(ctx), msg.ChatID, Prompt{Text: msgBusy})
		return
	}
	defer unlock()

	log := d.eventLogger(msg.UserID).With(zap.Stringer("input", msg.Input.Kind))
	defer d.recoverPanic(ctx, msg.ChatID, nil, log)

	outcome := d.dispatchMessage(ctx, msg, log)
	metrics.IncDispatch("message", outcome)
}

// HandleCommand processes a button press. The press is always answered.
func (d *Dispatcher) HandleCommand(ctx context.Context, cmd Command) {
	unlock, ok := d.acquire(ctx, cmd.UserID, "command")
	if !ok {
		d.alert(context.WithoutCancel(ctx), &cmd, msgBusy)
		return
	}
	defer unlock()

	log := d.eventLogger(cmd.UserID).With(zap.String("command", cmd.Data))
	defer func() {
		if !cmd.answered {
			d.answer(ctx, &cmd, "", false)
		}
	}()
	defer d.recoverPanic(ctx, cmd.ChatID, &cmd, log)

	outcome := d.route(ctx, &cmd, log)
	metrics.IncDispatch("command", outcome)
}

// Start greets the user with the main menu
func (d *Dispatcher) Start(ctx context.Context, userID, chatID int64, registered bool) {
	unlock, ok := d.acquire(ctx, userID, "start")
	if !ok {
		d.reply(context.WithoutCancel(ctx), chatID, Prompt{Text: msgBusy})
		return
	}
	defer unlock()

	log := d.eventLogger(userID)
	defer d.recoverPanic(ctx, chatID, nil, log)

	text := msgWelcomeBack
	if registered {
		text = msgWelcomeRegistered
	}
	d.reply(ctx, chatID, Prompt{Text: text, Keyboard: d.mainMenuKeyboard(userID)})
	metrics.IncDispatch("start", "ok")
}

// Cancel abandons any active flow
func (d *Dispatcher) Cancel(ctx context.Context, userID, chatID int64) {
	unlock, ok := d.acquire(ctx, userID, "cancel")
	if !ok {
		d.reply(context.WithoutCancel(ctx), chatID, Prompt{Text: msgBusy})
		return
	}
	defer unlock()

	log := d.eventLogger(userID)
	defer d.recoverPanic(ctx, chatID, nil, log)

	state := d.store.State(ctx, userID)
	d.store.Clear(ctx, userID)
	log.Info("Session cancelled", zap.String("state", string(state)))

	d.reply(ctx, chatID, Prompt{Text: msgCancelled, Keyboard: d.mainMenuKeyboard(userID)})
	metrics.IncDispatch("cancel", "ok")
}

func (d *Dispatcher) recoverPanic(ctx context.Context, chatID int64, cmd *Command, log *zap.Logger) {
	r := recover()
	if r == nil {
		return
	}

	log.Error("Recovered from panic in dispatcher",
		zap.Any("panic", r),
		zap.ByteString("stack", debug.Stack()),
	)
	metrics.IncDispatch("panic", "recovered")

	if cmd != nil && !cmd.answered {
		d.alert(ctx, cmd, msgGenericError)
		return
	}
	d.reply(ctx, chatID, Prompt{Text: msgGenericError})
}

func (d *Dispatcher) route(ctx context.Context, cmd *Command, log *zap.Logger) string {
	parts := strings.Split(cmd.Data, ":")
	cmd.namespace = parts[0]
	if len(parts) > 1 {
		cmd.action = parts[1]
		cmd.args = parts[2:]
	}

	ns, ok := d.routes[cmd.namespace]
	if !ok {
		log.Warn("Unknown command namespace")
		d.alert(ctx, cmd, msgInvalidCommand)
		return "invalid"
	}
	if ns.adminOnly && !d.isAdmin(cmd.UserID) {
		log.Warn("Admin command from non-admin")
		d.alert(ctx, cmd, msgAccessDenied)
		return "denied"
	}
	fn, ok := ns.actions[cmd.action]
	if !ok {
		log.Warn("Unknown command action", zap.String("action", cmd.action))
		d.alert(ctx, cmd, msgInvalidCommand)
		return "invalid"
	}

	err := fn(ctx, cmd)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errBadArgument):
		log.Warn("Bad command argument", zap.Error(err))
		d.alert(ctx, cmd, msgInvalidCommand)
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		d.alert(ctx, cmd, msgNotFound)
		return "not_found"
	default:
		log.Error("Command failed", zap.Error(err))
		d.alert(ctx, cmd, msgGenericError)
		return "error"
	}
}
