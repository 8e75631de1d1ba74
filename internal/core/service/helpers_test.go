package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wavenet-solutions/invoice-api/internal/core/domain"
	"github.com/wavenet-solutions/invoice-api/internal/core/ports"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// recorderStub captures audit events synchronously for assertions.
type recorderStub struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recorderStub) Record(event domain.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderStub) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Action)
	}
	return out
}

// stubAccountRepo is an in-memory AccountRepository.
type stubAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.GroupedWith = append([]string(nil), a.GroupedWith...)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return nil, domain.ErrEmailExists
		}
	}
	copy := cloneAccount(account)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("acc-%d", r.nextID)
	}
	r.accounts[copy.ID] = cloneAccount(copy)
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.accounts {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role = role
	return nil
}

func (r *stubAccountRepo) SetBlocked(_ context.Context, id string, blocked bool) error {
	a, ok := r.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.IsBlocked = blocked
	return nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *stubAccountRepo) ListNonTopAdmin(_ context.Context) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.Role != domain.RoleTopAdmin {
			out = append(out, cloneAccount(a))
		}
	}
	sortAccounts(out)
	return out, nil
}

func (r *stubAccountRepo) ListByCreator(_ context.Context, creatorID string) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.CreatedBy == creatorID {
			out = append(out, cloneAccount(a))
		}
	}
	sortAccounts(out)
	return out, nil
}

func (r *stubAccountRepo) CountByCreator(_ context.Context, creatorID string) (int64, error) {
	var n int64
	for _, a := range r.accounts {
		if a.CreatedBy == creatorID {
			n++
		}
	}
	return n, nil
}

func (r *stubAccountRepo) ListActiveByRole(_ context.Context, role domain.Role, excludeID string) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, a := range r.accounts {
		if a.Role == role && !a.IsBlocked && a.ID != excludeID {
			out = append(out, cloneAccount(a))
		}
	}
	sortAccounts(out)
	return out, nil
}

func (r *stubAccountRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) AddPeer(_ context.Context, a, b string) error {
	first, ok := r.accounts[a]
	if !ok {
		return domain.ErrAccountNotFound
	}
	second, ok := r.accounts[b]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if !first.IsPeerOf(b) {
		first.GroupedWith = append(first.GroupedWith, b)
	}
	if !second.IsPeerOf(a) {
		second.GroupedWith = append(second.GroupedWith, a)
	}
	return nil
}

func (r *stubAccountRepo) RemovePeer(_ context.Context, a, b string) error {
	first, ok := r.accounts[a]
	if !ok {
		return domain.ErrAccountNotFound
	}
	second, ok := r.accounts[b]
	if !ok {
		return domain.ErrAccountNotFound
	}
	first.GroupedWith = removeID(first.GroupedWith, b)
	second.GroupedWith = removeID(second.GroupedWith, a)
	return nil
}

func (r *stubAccountRepo) DetachPeers(_ context.Context, id string) error {
	for _, a := range r.accounts {
		a.GroupedWith = removeID(a.GroupedWith, id)
	}
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func sortAccounts(accounts []*domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ID < accounts[j].ID
	})
}

// stubInvoiceRepo is an in-memory InvoiceRepository.
type stubInvoiceRepo struct {
	invoices map[string]*domain.Invoice
	nextID   int
}

func newStubInvoiceRepo() *stubInvoiceRepo {
	return &stubInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
}

func cloneInvoice(i *domain.Invoice) *domain.Invoice {
	if i == nil {
		return nil
	}
	clone := *i
	return &clone
}

func (r *stubInvoiceRepo) Create(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	for _, existing := range r.invoices {
		if existing.InvoiceNumber == invoice.InvoiceNumber {
			return nil, domain.ErrInvoiceNumberExists
		}
	}
	copy := cloneInvoice(invoice)
	if copy.ID == "" {
		r.nextID++
		copy.ID = fmt.Sprintf("inv-%d", r.nextID)
	}
	r.invoices[copy.ID] = cloneInvoice(copy)
	return cloneInvoice(copy), nil
}

func (r *stubInvoiceRepo) FindByID(_ context.Context, id string) (*domain.Invoice, error) {
	i, ok := r.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return cloneInvoice(i), nil
}

func (r *stubInvoiceRepo) FindByNumber(_ context.Context, number string) (*domain.Invoice, error) {
	for _, i := range r.invoices {
		if i.InvoiceNumber == number {
			return cloneInvoice(i), nil
		}
	}
	return nil, domain.ErrInvoiceNotFound
}

func (r *stubInvoiceRepo) ListByCreator(_ context.Context, creatorID string) ([]*domain.Invoice, error) {
	var out []*domain.Invoice
	for _, i := range r.invoices {
		if i.CreatedBy == creatorID {
			out = append(out, cloneInvoice(i))
		}
	}
	return out, nil
}

func (r *stubInvoiceRepo) ListAll(_ context.Context) ([]*domain.Invoice, error) {
	var out []*domain.Invoice
	for _, i := range r.invoices {
		out = append(out, cloneInvoice(i))
	}
	return out, nil
}

func (r *stubInvoiceRepo) Update(_ context.Context, invoice *domain.Invoice) error {
	if _, ok := r.invoices[invoice.ID]; !ok {
		return domain.ErrInvoiceNotFound
	}
	r.invoices[invoice.ID] = cloneInvoice(invoice)
	return nil
}

func (r *stubInvoiceRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.invoices[id]; !ok {
		return domain.ErrInvoiceNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *stubInvoiceRepo) DeleteByCreator(_ context.Context, creatorID string) error {
	for id, i := range r.invoices {
		if i.CreatedBy == creatorID {
			delete(r.invoices, id)
		}
	}
	return nil
}

func (r *stubInvoiceRepo) MaxSequence(_ context.Context, year string) (int64, error) {
	var max int64
	for _, i := range r.invoices {
		if i.FinancialYear != year {
			continue
		}
		_, seq, err := domain.ParseInvoiceNumber(i.InvoiceNumber)
		if err != nil {
			continue
		}
		if int64(seq) > max {
			max = int64(seq)
		}
	}
	return max, nil
}

// fakeAllocator emulates the atomic counter: it is clamped to at least the
// floor, then incremented on every call.
type fakeAllocator struct {
	counters map[string]int64
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{counters: make(map[string]int64)}
}

func (f *fakeAllocator) Next(_ context.Context, year string, floor int64) (int64, error) {
	if floor > f.counters[year] {
		f.counters[year] = floor
	}
	f.counters[year]++
	return f.counters[year], nil
}

var _ ports.AccountRepository = (*stubAccountRepo)(nil)
var _ ports.InvoiceRepository = (*stubInvoiceRepo)(nil)
var _ ports.SequenceAllocator = (*fakeAllocator)(nil)
var _ ports.AuditRecorder = (*recorderStub)(nil)
