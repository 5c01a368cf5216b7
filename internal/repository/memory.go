package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rewear/exchange-service/internal/model"
)

// MemoryStore is a mutex-guarded, map-and-slice backed Store. It backs the
// memory storage driver and the test fixtures. WithinTx serializes under the
// store-wide lock and rolls back by restoring a snapshot.
type MemoryStore struct {
	mu   sync.Mutex
	data memData
	inTx bool
}

type memData struct {
	users         map[string]model.User
	items         map[string]model.Item
	requests      []model.SwapRequest
	swaps         []model.Swap
	transactions  []model.PointsTransaction
	notifications []model.Notification
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: memData{
			users: make(map[string]model.User),
			items: make(map[string]model.Item),
		},
	}
}

func (s *MemoryStore) lock() {
	if !s.inTx {
		s.mu.Lock()
	}
}

func (s *MemoryStore) unlock() {
	if !s.inTx {
		s.mu.Unlock()
	}
}

// Users returns the user repository
func (s *MemoryStore) Users() UserRepository { return &memoryUserRepository{s} }

// Items returns the item repository
func (s *MemoryStore) Items() ItemRepository { return &memoryItemRepository{s} }

// SwapRequests returns the swap request repository
func (s *MemoryStore) SwapRequests() SwapRequestRepository { return &memorySwapRequestRepository{s} }

// Swaps returns the swap repository
func (s *MemoryStore) Swaps() SwapRepository { return &memorySwapRepository{s} }

// Points returns the points ledger repository
func (s *MemoryStore) Points() PointsRepository { return &memoryPointsRepository{s} }

// Notifications returns the notification repository
func (s *MemoryStore) Notifications() NotificationRepository { return &memoryNotificationRepository{s} }

// WithinTx serializes fn under the store lock and restores the pre-call
// snapshot if fn fails. Nested calls join the surrounding transaction.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	txStore := &MemoryStore{data: s.data, inTx: true}

	if err := fn(txStore); err != nil {
		s.data = snapshot
		return err
	}
	s.data = txStore.data
	return nil
}

func (d memData) clone() memData {
	out := memData{
		users:         make(map[string]model.User, len(d.users)),
		items:         make(map[string]model.Item, len(d.items)),
		requests:      append([]model.SwapRequest(nil), d.requests...),
		swaps:         append([]model.Swap(nil), d.swaps...),
		transactions:  append([]model.PointsTransaction(nil), d.transactions...),
		notifications: append([]model.Notification(nil), d.notifications...),
	}
	for id, u := range d.users {
		out.users[id] = u
	}
	for id, it := range d.items {
		out.items[id] = cloneItem(it)
	}
	return out
}

func cloneItem(item model.Item) model.Item {
	item.Tags = append([]string(nil), item.Tags...)
	item.Images = append([]model.ItemImage(nil), item.Images...)
	item.User = nil
	return item
}

func sanitizeRequest(r model.SwapRequest) model.SwapRequest {
	r.Item = nil
	r.Requester = nil
	return r
}

func sanitizeSwap(sw model.Swap) model.Swap {
	sw.Item = nil
	sw.Owner = nil
	sw.Swapper = nil
	return sw
}

// --- users ---

type memoryUserRepository struct{ s *MemoryStore }

func (r *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.s.lock()
	defer r.s.unlock()
	if u, ok := r.s.data.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *model.User) error {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.data.users[user.ID]; ok {
		r.s.data.users[user.ID] = *user
	}
	return nil
}

func (r *memoryUserRepository) Count(ctx context.Context) (int, error) {
	r.s.lock()
	defer r.s.unlock()
	return len(r.s.data.users), nil
}

// --- items ---

type memoryItemRepository struct{ s *MemoryStore }

func (r *memoryItemRepository) Create(ctx context.Context, item *model.Item) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.items[item.ID] = cloneItem(*item)
	return nil
}

func (r *memoryItemRepository) GetByID(ctx context.Context, id string) (*model.Item, error) {
	r.s.lock()
	defer r.s.unlock()
	if it, ok := r.s.data.items[id]; ok {
		it = cloneItem(it)
		return &it, nil
	}
	return nil, nil
}

func (r *memoryItemRepository) Search(ctx context.Context, filter model.ItemFilter) ([]model.Item, int, error) {
	r.s.lock()
	defer r.s.unlock()

	var matched []model.Item
	for _, it := range r.s.data.items {
		if itemMatches(it, filter) {
			matched = append(matched, cloneItem(it))
		}
	}

	desc := !strings.EqualFold(filter.SortOrder, "asc")
	sortBy := filter.SortBy
	sort.SliceStable(matched, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "points":
			less = matched[i].Points < matched[j].Points
		case "title":
			less = matched[i].Title < matched[j].Title
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if desc {
			return !less && !itemEqualKey(matched[i], matched[j], sortBy)
		}
		return less
	})

	total := len(matched)
	limit := filter.Limit
	if limit <= 0 {
		limit = 12
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= total {
		return []model.Item{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func itemEqualKey(a, b model.Item, sortBy string) bool {
	switch sortBy {
	case "points":
		return a.Points == b.Points
	case "title":
		return a.Title == b.Title
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}

func itemMatches(item model.Item, filter model.ItemFilter) bool {
	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		hit := strings.Contains(strings.ToLower(item.Title), q) ||
			strings.Contains(strings.ToLower(item.Description), q)
		if !hit {
			for _, tag := range item.Tags {
				if strings.Contains(strings.ToLower(tag), q) {
					hit = true
					break
				}
			}
		}
		if !hit {
			return false
		}
	}
	if len(filter.Categories) > 0 && !containsCategory(filter.Categories, item.Category) {
		return false
	}
	if len(filter.Types) > 0 && !containsType(filter.Types, item.Type) {
		return false
	}
	if len(filter.Sizes) > 0 && !containsSize(filter.Sizes, item.Size) {
		return false
	}
	if len(filter.Conditions) > 0 && !containsCondition(filter.Conditions, item.Condition) {
		return false
	}
	if filter.MinPoints != nil && item.Points < *filter.MinPoints {
		return false
	}
	if filter.MaxPoints != nil && item.Points > *filter.MaxPoints {
		return false
	}
	if filter.Location != "" &&
		!strings.Contains(strings.ToLower(item.Location), strings.ToLower(filter.Location)) {
		return false
	}
	if filter.Status != nil && item.Status != *filter.Status {
		return false
	}
	if filter.UserID != "" && item.UserID != filter.UserID {
		return false
	}
	return true
}

func containsCategory(list []model.ItemCategory, v model.ItemCategory) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}

func containsType(list []model.ItemType, v model.ItemType) bool {
	for _, t := range list {
		if t == v {
			return true
		}
	}
	return false
}

func containsSize(list []model.ItemSize, v model.ItemSize) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsCondition(list []model.ItemCondition, v model.ItemCondition) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}

func (r *memoryItemRepository) Update(ctx context.Context, item *model.Item) error {
	r.s.lock()
	defer r.s.unlock()
	if existing, ok := r.s.data.items[item.ID]; ok {
		updated := cloneItem(*item)
		updated.Status = existing.Status // status changes only via UpdateStatus
		r.s.data.items[item.ID] = updated
	}
	return nil
}

func (r *memoryItemRepository) UpdateStatus(ctx context.Context, id string, from, to model.ItemStatus) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	item, ok := r.s.data.items[id]
	if !ok || item.Status != from {
		return false, nil
	}
	item.Status = to
	r.s.data.items[id] = item
	return true, nil
}

func (r *memoryItemRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	if _, ok := r.s.data.items[id]; !ok {
		return false, nil
	}
	delete(r.s.data.items, id)
	return true, nil
}

func (r *memoryItemRepository) Count(ctx context.Context) (int, error) {
	r.s.lock()
	defer r.s.unlock()
	return len(r.s.data.items), nil
}

func (r *memoryItemRepository) CountByStatus(ctx context.Context, status model.ItemStatus) (int, error) {
	r.s.lock()
	defer r.s.unlock()
	count := 0
	for _, it := range r.s.data.items {
		if it.Status == status {
			count++
		}
	}
	return count, nil
}

// --- swap requests ---

type memorySwapRequestRepository struct{ s *MemoryStore }

func (r *memorySwapRequestRepository) Create(ctx context.Context, request *model.SwapRequest) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.requests = append(r.s.data.requests, sanitizeRequest(*request))
	return nil
}

func (r *memorySwapRequestRepository) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.data.requests {
		if r.s.data.requests[i].ID == id {
			req := r.s.data.requests[i]
			return &req, nil
		}
	}
	return nil, nil
}

func (r *memorySwapRequestRepository) ListByRequester(ctx context.Context, requesterID string) ([]model.SwapRequest, error) {
	return r.list(func(req model.SwapRequest) bool { return req.RequesterID == requesterID })
}

func (r *memorySwapRequestRepository) ListByItem(ctx context.Context, itemID string) ([]model.SwapRequest, error) {
	return r.list(func(req model.SwapRequest) bool { return req.ItemID == itemID })
}

func (r *memorySwapRequestRepository) ListPendingByItem(ctx context.Context, itemID string) ([]model.SwapRequest, error) {
	return r.list(func(req model.SwapRequest) bool {
		return req.ItemID == itemID && req.Status == model.RequestStatusPending
	})
}

// list returns matching requests newest first
func (r *memorySwapRequestRepository) list(match func(model.SwapRequest) bool) ([]model.SwapRequest, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.SwapRequest
	for i := len(r.s.data.requests) - 1; i >= 0; i-- {
		if match(r.s.data.requests[i]) {
			out = append(out, r.s.data.requests[i])
		}
	}
	return out, nil
}

func (r *memorySwapRequestRepository) UpdateStatus(ctx context.Context, id string, from, to model.SwapRequestStatus) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.data.requests {
		if r.s.data.requests[i].ID == id {
			if r.s.data.requests[i].Status != from {
				return false, nil
			}
			r.s.data.requests[i].Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *memorySwapRequestRepository) HasPending(ctx context.Context, itemID, requesterID string) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, req := range r.s.data.requests {
		if req.ItemID == itemID && req.RequesterID == requesterID && req.Status == model.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

// --- swaps ---

type memorySwapRepository struct{ s *MemoryStore }

func (r *memorySwapRepository) Create(ctx context.Context, swap *model.Swap) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.swaps = append(r.s.data.swaps, sanitizeSwap(*swap))
	return nil
}

func (r *memorySwapRepository) GetByRequestID(ctx context.Context, requestID string) (*model.Swap, error) {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.data.swaps {
		if r.s.data.swaps[i].RequestID == requestID {
			sw := r.s.data.swaps[i]
			return &sw, nil
		}
	}
	return nil, nil
}

func (r *memorySwapRepository) ListByUser(ctx context.Context, userID string) ([]model.Swap, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.Swap
	for i := len(r.s.data.swaps) - 1; i >= 0; i-- {
		sw := r.s.data.swaps[i]
		if sw.OwnerID == userID || sw.SwapperID == userID {
			out = append(out, sw)
		}
	}
	return out, nil
}

func (r *memorySwapRepository) Count(ctx context.Context) (int, error) {
	r.s.lock()
	defer r.s.unlock()
	return len(r.s.data.swaps), nil
}

// --- points ledger ---

type memoryPointsRepository struct{ s *MemoryStore }

func (r *memoryPointsRepository) Insert(ctx context.Context, transaction *model.PointsTransaction) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.transactions = append(r.s.data.transactions, *transaction)
	return nil
}

func (r *memoryPointsRepository) SumByUser(ctx context.Context, userID string) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	var sum int64
	for _, t := range r.s.data.transactions {
		if t.UserID == userID {
			sum += t.Amount
		}
	}
	return sum, nil
}

func (r *memoryPointsRepository) ListByUser(ctx context.Context, userID string) ([]model.PointsTransaction, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.PointsTransaction
	for i := len(r.s.data.transactions) - 1; i >= 0; i-- {
		if r.s.data.transactions[i].UserID == userID {
			out = append(out, r.s.data.transactions[i])
		}
	}
	return out, nil
}

func (r *memoryPointsRepository) SumByTypes(ctx context.Context, types ...model.PointsTransactionType) (int64, error) {
	r.s.lock()
	defer r.s.unlock()
	var sum int64
	for _, t := range r.s.data.transactions {
		for _, typ := range types {
			if t.Type == typ {
				sum += t.Amount
				break
			}
		}
	}
	return sum, nil
}

// --- notifications ---

type memoryNotificationRepository struct{ s *MemoryStore }

func (r *memoryNotificationRepository) Insert(ctx context.Context, notification *model.Notification) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.data.notifications = append(r.s.data.notifications, *notification)
	return nil
}

func (r *memoryNotificationRepository) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.data.notifications {
		if r.s.data.notifications[i].ID == id {
			n := r.s.data.notifications[i]
			return &n, nil
		}
	}
	return nil, nil
}

func (r *memoryNotificationRepository) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.Notification
	for i := len(r.s.data.notifications) - 1; i >= 0; i-- {
		if r.s.data.notifications[i].UserID == userID {
			out = append(out, r.s.data.notifications[i])
		}
	}
	return out, nil
}

func (r *memoryNotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	r.s.lock()
	defer r.s.unlock()
	count := 0
	for _, n := range r.s.data.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memoryNotificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.data.notifications {
		if r.s.data.notifications[i].ID == id {
			r.s.data.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int, error) {
	r.s.lock()
	defer r.s.unlock()
	count := 0
	for i := range r.s.data.notifications {
		if r.s.data.notifications[i].UserID == userID && !r.s.data.notifications[i].IsRead {
			r.s.data.notifications[i].IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *memoryNotificationRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.data.notifications {
		if r.s.data.notifications[i].ID == id {
			r.s.data.notifications = append(
				r.s.data.notifications[:i], r.s.data.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
