package session

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/ports"
	"github.com/kobina/pos-cart-service/internal/domain/cart"
	"github.com/kobina/pos-cart-service/internal/domain/catalog"
	"github.com/kobina/pos-cart-service/internal/domain/checkout"
	domainErrors "github.com/kobina/pos-cart-service/internal/domain/errors"
	"github.com/kobina/pos-cart-service/internal/pkg/clock"
)

// Status is the checkout state machine position. Finalizing never survives a
// call: a submission either completes (back to Empty) or fails validation
// (stays where it was), so only the three resting states are observable.
type Status string

const (
	StatusEmpty         Status = "empty"
	StatusBuilding      Status = "building"
	StatusCreditDetails Status = "credit_details"
)

type MessageKind string

const (
	MessageError MessageKind = "error"
	MessageInfo  MessageKind = "info"
)

// Message is one transient operator-facing notice. A newer message supersedes
// it immediately; otherwise it expires at its deadline.
type Message struct {
	Text      string
	Kind      MessageKind
	expiresAt time.Time
}

// Config carries the engine timings. The zero value is not usable; callers
// build it from config.EngineConfig.
type Config struct {
	ClearArmTimeout time.Duration
	MessageTTL      time.Duration
}

// SnapshotLoader hands the session a fresh product snapshot. Submission
// re-resolves cart lines against a freshly loaded snapshot so the aggregate
// availability check does not trust stale terminal state.
type SnapshotLoader func(ctx context.Context) (*catalog.Snapshot, error)

// Session is one terminal's cart plus its checkout context and the
// deadline-driven ephemeral state around them. All ephemeral state (clear-arm
// window, transient message) is modeled as deadlines against the injected
// clock, so tests advance logical time instead of sleeping.
type Session struct {
	ID string

	// mu serializes mutations; the engine's contract is one logical
	// mutation per operator action, and the HTTP surface may race.
	mu sync.Mutex

	cart     *cart.Cart
	checkout checkout.Context
	status   Status
	snapshot *catalog.Snapshot

	clearArmedAt *time.Time
	message      *Message
	lastActive   time.Time

	clk      clock.Clock
	cfg      Config
	loader   SnapshotLoader
	sink     ports.SaleSink
	registry ports.CategoryRegistry
	newID    func() string
	log      *zap.Logger
}

func newSession(
	id string,
	snapshot *catalog.Snapshot,
	clk clock.Clock,
	cfg Config,
	loader SnapshotLoader,
	sink ports.SaleSink,
	registry ports.CategoryRegistry,
	newID func() string,
	log *zap.Logger,
) *Session {
	return &Session{
		ID:         id,
		cart:       cart.New(),
		checkout:   checkout.NewContext(),
		status:     StatusEmpty,
		snapshot:   snapshot,
		lastActive: clk.Now(),
		clk:        clk,
		cfg:        cfg,
		loader:     loader,
		sink:       sink,
		registry:   registry,
		newID:      newID,
		log:        log.With(zap.String("session_id", id)),
	}
}

// AddLine adds one unit of the product under the given selling unit. The
// same (product, unit) key increments the existing line; a rejected add
// leaves the cart unchanged and surfaces the stock message.
func (s *Session) AddLine(productID int64, unit catalog.SellingUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status == StatusCreditDetails {
		return domainErrors.ErrInvalidSessionState
	}

	product, err := s.snapshot.Get(productID)
	if err != nil {
		return err
	}

	if err := s.cart.AddLine(product, unit); err != nil {
		s.reportError(err)
		return err
	}

	s.syncAfterCartChange()
	return nil
}

// SetQuantity replaces a line's quantity; below one it removes the line. A
// failed availability check signals the violation and changes nothing.
func (s *Session) SetQuantity(productID int64, unit catalog.SellingUnit, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status == StatusCreditDetails {
		return domainErrors.ErrInvalidSessionState
	}

	key := cart.Key{ProductID: productID, Unit: unit}
	if err := s.cart.SetQuantity(key, quantity); err != nil {
		if domainErrors.IsOutOfStock(err) {
			s.reportError(err)
		}
		return err
	}

	s.syncAfterCartChange()
	return nil
}

// RemoveLine deletes the matching line; absent keys are a no-op.
func (s *Session) RemoveLine(productID int64, unit catalog.SellingUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status == StatusCreditDetails {
		return domainErrors.ErrInvalidSessionState
	}

	s.cart.RemoveLine(cart.Key{ProductID: productID, Unit: unit})
	s.syncAfterCartChange()
	return nil
}

// UndoLastAdd reverts the most recent add by one unit. Without a pending
// pointer it is a no-op.
func (s *Session) UndoLastAdd() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status == StatusCreditDetails {
		return domainErrors.ErrInvalidSessionState
	}

	s.cart.UndoLastAdd()
	s.syncAfterCartChange()
	return nil
}

// RequestClear drives the two-step destructive clear. The first invocation
// arms and starts the auto-disarm window; a second invocation inside the
// window performs the clear. After the window lapses the next invocation
// re-arms instead of clearing.
func (s *Session) RequestClear() (cleared bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.cart.IsEmpty() {
		return false
	}

	now := s.clk.Now()
	if s.clearArmed(now) {
		s.resetCart()
		s.reportInfo("Cart cleared")
		return true
	}

	s.clearArmedAt = &now
	return false
}

func (s *Session) clearArmed(now time.Time) bool {
	return s.clearArmedAt != nil && now.Sub(*s.clearArmedAt) <= s.cfg.ClearArmTimeout
}

// SetCheckoutFields updates the once-per-checkout fields collected in the
// cart view.
func (s *Session) SetCheckoutFields(method checkout.PaymentMethod, customerName, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status == StatusCreditDetails {
		return domainErrors.ErrInvalidSessionState
	}

	s.checkout.PaymentMethod = method
	s.checkout.CustomerName = customerName
	s.checkout.Notes = notes
	return nil
}

// SubmitOutcome reports where a successful Submit landed: straight through to
// a finalized sale, or parked in the credit-detail step.
type SubmitOutcome struct {
	NeedsCreditDetails bool
	Finalized          []*checkout.FinalizedSaleLine
}

// Submit runs the aggregate availability check over the whole cart against a
// freshly loaded snapshot, then either finalizes the sale or, for credit,
// transitions to the credit-detail step. Every failure keeps the session in
// Building and is reported as a transient message.
func (s *Session) Submit(ctx context.Context) (*SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status == StatusCreditDetails {
		return nil, domainErrors.ErrInvalidSessionState
	}
	if s.cart.IsEmpty() {
		return nil, domainErrors.ErrCartEmpty
	}

	s.refreshSnapshot(ctx)

	if err := cart.CheckCart(s.cart.Lines()); err != nil {
		s.reportError(err)
		return nil, err
	}

	if err := s.checkout.ValidateForSubmit(); err != nil {
		s.reportError(err)
		return nil, err
	}

	if s.checkout.IsCredit() {
		s.status = StatusCreditDetails
		return &SubmitOutcome{NeedsCreditDetails: true}, nil
	}

	finalized := s.finalize(ctx)
	return &SubmitOutcome{Finalized: finalized}, nil
}

// ConfirmCreditDetails completes a credit checkout. The phone must be
// non-blank and the initial payment inside [0, cartTotal]; a violation keeps
// the session in the credit-detail step with a message echoing the bound.
func (s *Session) ConfirmCreditDetails(ctx context.Context, phone string, initialPayment decimal.Decimal) (*SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status != StatusCreditDetails {
		return nil, domainErrors.ErrInvalidSessionState
	}

	s.checkout.CreditorPhone = phone
	s.checkout.InitialPayment = initialPayment

	if err := s.checkout.ValidateCreditDetails(s.cart.Total()); err != nil {
		s.reportError(err)
		return nil, err
	}

	finalized := s.finalize(ctx)
	return &SubmitOutcome{Finalized: finalized}, nil
}

// CancelCreditDetails backs out of the credit-detail step without losing the
// cart.
func (s *Session) CancelCreditDetails() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.status != StatusCreditDetails {
		return domainErrors.ErrInvalidSessionState
	}
	s.status = StatusBuilding
	s.checkout.CreditorPhone = ""
	s.checkout.InitialPayment = decimal.Zero
	return nil
}

// finalize emits one record per cart line in order, hands them to the sink
// and the category registry fire-and-forget, and resets the session. The cart
// is cleared unconditionally; sink failures are logged, never surfaced here.
func (s *Session) finalize(ctx context.Context) []*checkout.FinalizedSaleLine {
	lines := s.cart.Lines()
	records := checkout.BuildSaleLines(lines, s.checkout, s.newID)

	categories := touchedCategories(lines)

	go s.handOff(context.WithoutCancel(ctx), records, categories)

	s.resetCart()
	s.reportInfo("Sale recorded")
	return records
}

func (s *Session) handOff(ctx context.Context, records []*checkout.FinalizedSaleLine, categories []string) {
	if err := s.sink.SubmitSale(ctx, records); err != nil {
		s.log.Error("sale submission failed", zap.Int("lines", len(records)), zap.Error(err))
	}

	for _, name := range categories {
		if err := s.registry.Register(ctx, name); err != nil {
			s.log.Warn("category registration failed", zap.String("category", name), zap.Error(err))
		}
	}
}

func touchedCategories(lines []*cart.Line) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		name := line.Product.Category
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// resetCart empties the cart and restores every checkout-context field to its
// default, dropping the arm window with it.
func (s *Session) resetCart() {
	s.cart.Clear()
	s.checkout = checkout.NewContext()
	s.status = StatusEmpty
	s.clearArmedAt = nil
}

// syncAfterCartChange re-derives status and disarms a pending clear: the
// confirmation was armed against a cart that no longer exists.
func (s *Session) syncAfterCartChange() {
	s.clearArmedAt = nil
	if s.cart.IsEmpty() {
		s.status = StatusEmpty
		return
	}
	if s.status == StatusEmpty {
		s.status = StatusBuilding
	}
}

// refreshSnapshot reloads the product snapshot and re-points cart lines at
// the fresh records. Lines whose product vanished keep their old record; the
// aggregate check will judge them against the stock it knows.
func (s *Session) refreshSnapshot(ctx context.Context) {
	if s.loader == nil {
		return
	}

	fresh, err := s.loader(ctx)
	if err != nil {
		s.log.Warn("snapshot refresh failed, validating against cached stock", zap.Error(err))
		return
	}

	s.snapshot = fresh
	for _, line := range s.cart.Lines() {
		if p, err := fresh.Get(line.Product.ID); err == nil {
			line.Product = p
		}
	}
}

func (s *Session) reportError(err error) {
	s.setMessage(err.Error(), MessageError)
}

func (s *Session) reportInfo(text string) {
	s.setMessage(text, MessageInfo)
}

func (s *Session) setMessage(text string, kind MessageKind) {
	s.message = &Message{
		Text:      text,
		Kind:      kind,
		expiresAt: s.clk.Now().Add(s.cfg.MessageTTL),
	}
}

// CurrentMessage returns the live transient message, or nil once it expired.
func (s *Session) CurrentMessage() *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentMessageLocked()
}

func (s *Session) currentMessageLocked() *Message {
	if s.message == nil || s.clk.Now().After(s.message.expiresAt) {
		return nil
	}
	return s.message
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

func (s *Session) Cart() *cart.Cart {
	return s.cart
}

func (s *Session) Checkout() checkout.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkout
}

func (s *Session) ClearArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clearArmed(s.clk.Now())
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastActive
}

func (s *Session) touch() {
	s.lastActive = s.clk.Now()
}
