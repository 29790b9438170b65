package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"meal-subscription-be/internal/entity"
	"meal-subscription-be/internal/repository/contract"
	"meal-subscription-be/internal/repository/specification"
	"meal-subscription-be/internal/repository/unitofwork"
	"meal-subscription-be/pkg/payment"

	"github.com/google/uuid"
)

// --- store ---

type fakeData struct {
	users    map[uuid.UUID]entity.User
	plans    map[uuid.UUID]entity.Plan
	subs     map[uuid.UUID]entity.Subscription
	orders   map[uuid.UUID]entity.Order
	payments map[string]entity.PaymentRecord
}

func newFakeData() *fakeData {
	return &fakeData{
		users:    map[uuid.UUID]entity.User{},
		plans:    map[uuid.UUID]entity.Plan{},
		subs:     map[uuid.UUID]entity.Subscription{},
		orders:   map[uuid.UUID]entity.Order{},
		payments: map[string]entity.PaymentRecord{},
	}
}

func (d *fakeData) clone() *fakeData {
	c := newFakeData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.plans {
		c.plans[k] = v
	}
	for k, v := range d.subs {
		c.subs[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	return c
}

// fakeStore is a transactional in-memory database. Begin works on a copy
// that Commit swaps in.
type fakeStore struct {
	mu   sync.Mutex
	data *fakeData

	failOrderCreate error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: newFakeData()}
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: s}
}

func (s *fakeStore) snapshot() *fakeData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

func (s *fakeStore) putUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.Id] = u
}

func (s *fakeStore) putPlan(p entity.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.plans[p.Id] = p
}

func (s *fakeStore) putSubscription(sub entity.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.subs[sub.Id] = sub
}

func (s *fakeStore) putOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.orders[o.Id] = o
}

type fakeUnitOfWork struct {
	store *fakeStore
	tx    *fakeData
}

// with runs fn against the transaction copy, or the committed data outside one.
func (u *fakeUnitOfWork) with(fn func(d *fakeData) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if u.tx != nil {
		return fn(u.tx)
	}
	return fn(u.store.data)
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errors.New("transaction already started")
	}
	u.tx = u.store.snapshot()
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	if u.tx == nil {
		return errors.New("no transaction to commit")
	}
	u.store.mu.Lock()
	u.store.data = u.tx
	u.store.mu.Unlock()
	u.tx = nil
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}
	u.tx = nil
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepo{uow: u}
}

func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &fakeSubscriptionRepo{uow: u}
}

func (u *fakeUnitOfWork) OrderRepository() contract.OrderRepository {
	return &fakeOrderRepo{uow: u}
}

// --- specification evaluation ---

// selectWhere keeps the items accepted by match for every filtering spec and
// applies OrderBy specs through less. Specs match does not know are ignored.
func selectWhere[T any](
	items []T,
	specs []specification.Specification,
	match func(spec specification.Specification, item T) bool,
	less func(field string, a, b T) bool,
) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, spec := range specs {
			if !match(spec, item) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	for _, spec := range specs {
		if ob, ok := spec.(specification.OrderBy); ok && less != nil {
			sort.SliceStable(out, func(i, j int) bool {
				if ob.Desc {
					return less(ob.Field, out[j], out[i])
				}
				return less(ob.Field, out[i], out[j])
			})
		}
	}
	return out
}

func matchSubscription(spec specification.Specification, s entity.Subscription) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return s.Id == sp.ID
	case specification.UserOwnedBy:
		return s.UserId == sp.UserID
	case specification.ByStatus:
		return s.Status == sp.Status
	case specification.ByPaymentID:
		return s.PaymentId == sp.PaymentID
	}
	return true
}

func lessSubscription(field string, a, b entity.Subscription) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}

func matchPlan(spec specification.Specification, p entity.Plan) bool {
	if sp, ok := spec.(specification.ByID); ok {
		return p.Id == sp.ID
	}
	return true
}

func lessPlan(field string, a, b entity.Plan) bool {
	if field == "price" {
		return a.Price < b.Price
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

func matchOrder(spec specification.Specification, o entity.Order) bool {
	switch sp := spec.(type) {
	case specification.ByID:
		return o.Id == sp.ID
	case specification.UserOwnedBy:
		return o.UserId == sp.UserID
	case specification.BySubscription:
		return o.SubscriptionId != nil && *o.SubscriptionId == sp.SubscriptionID
	case specification.ByPaymentID:
		return o.PaymentId == sp.PaymentID
	}
	return true
}

func lessOrder(field string, a, b entity.Order) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}

func matchUser(spec specification.Specification, u entity.User) bool {
	if sp, ok := spec.(specification.ByID); ok {
		return u.Id == sp.ID
	}
	return true
}

func values[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// --- repositories ---

type fakeUserRepo struct{ uow *fakeUnitOfWork }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.uow.with(func(d *fakeData) error {
		d.users[user.Id] = *user
		return nil
	})
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var found *entity.User
	err := r.uow.with(func(d *fakeData) error {
		res := selectWhere(values(d.users), specs, matchUser, nil)
		if len(res) > 0 {
			u := res[0]
			found = &u
		}
		return nil
	})
	return found, err
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	err := r.uow.with(func(d *fakeData) error {
		for _, u := range selectWhere(values(d.users), specs, matchUser, nil) {
			u := u
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

func (r *fakeUserRepo) SetCurrentSubscription(ctx context.Context, userId uuid.UUID, subscriptionId *uuid.UUID) error {
	return r.uow.with(func(d *fakeData) error {
		u, ok := d.users[userId]
		if !ok {
			return nil
		}
		if subscriptionId != nil {
			id := *subscriptionId
			u.CurrentSubscriptionId = &id
		} else {
			u.CurrentSubscriptionId = nil
		}
		d.users[userId] = u
		return nil
	})
}

type fakeSubscriptionRepo struct{ uow *fakeUnitOfWork }

func (r *fakeSubscriptionRepo) CreatePlan(ctx context.Context, plan *entity.Plan) error {
	return r.uow.with(func(d *fakeData) error {
		d.plans[plan.Id] = *plan
		return nil
	})
}

func (r *fakeSubscriptionRepo) FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.Plan, error) {
	var found *entity.Plan
	err := r.uow.with(func(d *fakeData) error {
		res := selectWhere(values(d.plans), specs, matchPlan, lessPlan)
		if len(res) > 0 {
			p := res[0]
			found = &p
		}
		return nil
	})
	return found, err
}

func (r *fakeSubscriptionRepo) FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.Plan, error) {
	var out []*entity.Plan
	err := r.uow.with(func(d *fakeData) error {
		for _, p := range selectWhere(values(d.plans), specs, matchPlan, lessPlan) {
			p := p
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *fakeSubscriptionRepo) CreateSubscription(ctx context.Context, sub *entity.Subscription) error {
	return r.uow.with(func(d *fakeData) error {
		d.subs[sub.Id] = *sub
		return nil
	})
}

func (r *fakeSubscriptionRepo) UpdateSubscription(ctx context.Context, sub *entity.Subscription) error {
	return r.CreateSubscription(ctx, sub)
}

func (r *fakeSubscriptionRepo) FindOneSubscription(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var found *entity.Subscription
	err := r.uow.with(func(d *fakeData) error {
		res := selectWhere(values(d.subs), specs, matchSubscription, lessSubscription)
		if len(res) > 0 {
			s := res[0]
			found = &s
		}
		return nil
	})
	return found, err
}

func (r *fakeSubscriptionRepo) FindAllSubscriptions(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	err := r.uow.with(func(d *fakeData) error {
		for _, s := range selectWhere(values(d.subs), specs, matchSubscription, lessSubscription) {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

func (r *fakeSubscriptionRepo) FindAllSubscriptionDetails(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionDetail, error) {
	var out []*entity.SubscriptionDetail
	err := r.uow.with(func(d *fakeData) error {
		for _, s := range selectWhere(values(d.subs), specs, matchSubscription, lessSubscription) {
			detail := &entity.SubscriptionDetail{Subscription: s}
			if u, ok := d.users[s.UserId]; ok {
				detail.UserName, detail.UserEmail = u.Name, u.Email
			}
			if p, ok := d.plans[s.PlanId]; ok {
				detail.PlanName, detail.PlanPrice, detail.PlanDuration = p.Name, p.Price, p.Duration
			}
			out = append(out, detail)
		}
		return nil
	})
	return out, err
}

func (r *fakeSubscriptionRepo) CreatePaymentRecord(ctx context.Context, record *entity.PaymentRecord) error {
	return r.uow.with(func(d *fakeData) error {
		if _, exists := d.payments[record.PaymentId]; exists {
			return contract.ErrDuplicatePayment
		}
		d.payments[record.PaymentId] = *record
		return nil
	})
}

func (r *fakeSubscriptionRepo) FindOnePaymentRecord(ctx context.Context, specs ...specification.Specification) (*entity.PaymentRecord, error) {
	var found *entity.PaymentRecord
	err := r.uow.with(func(d *fakeData) error {
		for _, spec := range specs {
			if sp, ok := spec.(specification.ByPaymentID); ok {
				if rec, exists := d.payments[sp.PaymentID]; exists {
					found = &rec
				}
			}
		}
		return nil
	})
	return found, err
}

type fakeOrderRepo struct{ uow *fakeUnitOfWork }

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if err := r.uow.store.failOrderCreate; err != nil {
		return err
	}
	return r.uow.with(func(d *fakeData) error {
		d.orders[order.Id] = *order
		return nil
	})
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	return r.uow.with(func(d *fakeData) error {
		d.orders[order.Id] = *order
		return nil
	})
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	var found *entity.Order
	err := r.uow.with(func(d *fakeData) error {
		res := selectWhere(values(d.orders), specs, matchOrder, lessOrder)
		if len(res) > 0 {
			o := res[0]
			found = &o
		}
		return nil
	})
	return found, err
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.uow.with(func(d *fakeData) error {
		for _, o := range selectWhere(values(d.orders), specs, matchOrder, lessOrder) {
			o := o
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

// --- collaborators ---

type gatewayCall struct {
	Amount   int64
	Currency string
	Receipt  string
}

type stubGateway struct {
	mu    sync.Mutex
	calls []gatewayCall
	err   error
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.calls = append(g.calls, gatewayCall{Amount: amount, Currency: currency, Receipt: receipt})
	return &payment.Order{
		ID:       "order_" + uuid.NewString()[:8],
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type recordedEvent struct {
	Type           string
	SubscriptionId uuid.UUID
}

type fakeLifecyclePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakeLifecyclePublisher) add(t string, id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: t, SubscriptionId: id})
}

func (p *fakeLifecyclePublisher) Activated(ctx context.Context, sub *entity.Subscription, plan *entity.Plan) {
	p.add("SUBSCRIPTION_ACTIVATED", sub.Id)
}

func (p *fakeLifecyclePublisher) Renewed(ctx context.Context, sub *entity.Subscription, plan *entity.Plan) {
	p.add("SUBSCRIPTION_RENEWED", sub.Id)
}

func (p *fakeLifecyclePublisher) Upgraded(ctx context.Context, previous, current *entity.Subscription, plan *entity.Plan, charged float64) {
	p.add("SUBSCRIPTION_UPGRADED", current.Id)
}

func (p *fakeLifecyclePublisher) Cancelled(ctx context.Context, sub *entity.Subscription, byAdmin bool) {
	p.add("SUBSCRIPTION_CANCELLED", sub.Id)
}

func (p *fakeLifecyclePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeReceiptQueue struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (q *fakeReceiptQueue) Publish(payload []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.payloads = append(q.payloads, payload)
	return nil
}

func (q *fakeReceiptQueue) decoded(v interface{}, i int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return json.Unmarshal(q.payloads[i], v)
}

func (q *fakeReceiptQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

type loggedEntry struct {
	level   string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []loggedEntry
}

func (l *recordingLogger) add(level, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, loggedEntry{level: level, message: message, details: details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.add("debug", message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.add("info", message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.add("warn", message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.add("error", message, details)
}

func (l *recordingLogger) Sync() error { return nil }

func (l *recordingLogger) errors() []loggedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []loggedEntry
	for _, e := range l.entries {
		if e.level == "error" {
			out = append(out, e)
		}
	}
	return out
}
