package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"fixtrack/internal/authz"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/utils"
)

// memStore общее состояние фейковых репозиториев. fakeTxManager делает снимок
// перед транзакцией и восстанавливает его при ошибке, поэтому откат виден в тестах.
type memStore struct {
	mu          sync.Mutex
	nextID      uint64
	users       map[uint64]entities.User
	clients     map[uint64]entities.Client
	orders      map[uint64]entities.Order
	updates     []entities.OrderUpdate
	comments    []entities.OrderComment
	attachments []entities.Attachment
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uint64]entities.User),
		clients: make(map[uint64]entities.Client),
		orders:  make(map[uint64]entities.Order),
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func copyOrder(o entities.Order) entities.Order {
	o.Accessories = append([]string{}, o.Accessories...)
	return o
}

type memSnapshot struct {
	nextID      uint64
	users       map[uint64]entities.User
	clients     map[uint64]entities.Client
	orders      map[uint64]entities.Order
	updates     []entities.OrderUpdate
	comments    []entities.OrderComment
	attachments []entities.Attachment
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		nextID:      s.nextID,
		users:       make(map[uint64]entities.User, len(s.users)),
		clients:     make(map[uint64]entities.Client, len(s.clients)),
		orders:      make(map[uint64]entities.Order, len(s.orders)),
		updates:     append([]entities.OrderUpdate{}, s.updates...),
		comments:    append([]entities.OrderComment{}, s.comments...),
		attachments: append([]entities.Attachment{}, s.attachments...),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.clients {
		snap.clients[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = copyOrder(v)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.users = snap.users
	s.clients = snap.clients
	s.orders = snap.orders
	s.updates = snap.updates
	s.comments = snap.comments
	s.attachments = snap.attachments
}

func (s *memStore) updatesFor(orderID uint64) []entities.OrderUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.OrderUpdate
	for _, u := range s.updates {
		if u.OrderID == orderID {
			out = append(out, u)
		}
	}
	return out
}

func (s *memStore) order(id uint64) entities.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrder(s.orders[id])
}

// --- transaction manager ---

type fakeTxManager struct {
	store *memStore
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	snap := m.store.snapshot()
	if err := fn(nil); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// --- users ---

type fakeUserRepo struct {
	store *memStore
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.User, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string, excludeID uint64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter repositories.UserListFilter) ([]entities.User, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.User, 0)
	for _, u := range r.store.users {
		if filter.Role != "" && string(u.Role) != filter.Role {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != "" && !strings.Contains(u.Username, filter.Search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Username == user.Username {
			return apperrors.ErrConflict
		}
	}
	user.ID = r.store.id()
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	r.store.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entities.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.users[user.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Username, existing.Role, existing.IsActive = user.Username, user.Role, user.IsActive
	r.store.users[user.ID] = existing
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint64, passwordHash string, mustChange bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash, u.MustChangePassword = passwordHash, mustChange
	r.store.users[userID] = u
	return nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role string) (uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n uint64
	for _, u := range r.store.users {
		if string(u.Role) == role {
			n++
		}
	}
	return n, nil
}

// --- clients ---

type fakeClientRepo struct {
	store *memStore
}

func (r *fakeClientRepo) List(ctx context.Context, search string, limit, offset int) ([]entities.Client, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.Client, 0)
	for _, c := range r.store.clients {
		if search == "" || strings.Contains(c.Name, search) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, uint64(len(out)), nil
}

func (r *fakeClientRepo) FindByID(ctx context.Context, id uint64) (*entities.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clients[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *fakeClientRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Client, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeClientRepo) FindByPhoneOrEmail(ctx context.Context, phone, email string) (*entities.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ids := make([]uint64, 0, len(r.store.clients))
	for id := range r.store.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		c := r.store.clients[id]
		if (phone != "" && utils.SafeDeref(c.Phone) == phone) || (email != "" && strings.EqualFold(utils.SafeDeref(c.Email), email)) {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeClientRepo) CreateInTx(ctx context.Context, tx pgx.Tx, client *entities.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	client.ID = r.store.id()
	r.store.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, client *entities.Client) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.clients[client.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.store.clients[client.ID] = *client
	return nil
}

// --- orders ---

type fakeOrderRepo struct {
	store *memStore
}

func (r *fakeOrderRepo) CreateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.TicketCode == order.TicketCode || o.SecurityKey == order.SecurityKey {
			return apperrors.ErrConflict
		}
	}
	order.ID = r.store.id()
	order.CreatedAt, order.UpdatedAt = time.Now(), time.Now()
	r.store.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *fakeOrderRepo) CodesExistInTx(ctx context.Context, tx pgx.Tx, ticketCode, securityKey string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.TicketCode == ticketCode || o.SecurityKey == securityKey {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrderRepo) withNames(o entities.Order) entities.OrderWithNames {
	out := entities.OrderWithNames{Order: copyOrder(o)}
	if o.AssignedTechnicianID != nil {
		if u, ok := r.store.users[*o.AssignedTechnicianID]; ok {
			name := u.Username
			out.TechnicianUsername = &name
		}
	}
	if u, ok := r.store.users[o.CreatedBy]; ok {
		name := u.Username
		out.CreatorUsername = &name
	}
	return out
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint64) (*entities.OrderWithNames, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := r.withNames(o)
	return &out, nil
}

func (r *fakeOrderRepo) FindByIDForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := copyOrder(o)
	return &out, nil
}

func (r *fakeOrderRepo) FindByTicketAndKey(ctx context.Context, ticketCode, securityKey string) (*entities.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.TicketCode == ticketCode && o.SecurityKey == securityKey {
			out := copyOrder(o)
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeOrderRepo) UpdateInTx(ctx context.Context, tx pgx.Tx, order *entities.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.orders[order.ID]; !ok {
		return apperrors.ErrNotFound
	}
	order.UpdatedAt = time.Now()
	r.store.orders[order.ID] = copyOrder(*order)
	return nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter entities.OrderFilter) ([]entities.OrderWithNames, uint64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.OrderWithNames, 0)
	for _, o := range r.store.orders {
		if filter.TechnicianID != nil && !o.IsAssignedTo(*filter.TechnicianID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, string(o.Status)) {
			continue
		}
		out = append(out, r.withNames(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *fakeOrderRepo) ListByClient(ctx context.Context, clientID uint64, limit int) ([]entities.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.Order, 0)
	for _, o := range r.store.orders {
		if o.ClientID != nil && *o.ClientID == clientID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// --- audit, comments, attachments ---

type fakeUpdateRepo struct {
	store   *memStore
	failErr error
}

func (r *fakeUpdateRepo) CreateInTx(ctx context.Context, tx pgx.Tx, update *entities.OrderUpdate) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	update.ID = r.store.id()
	update.CreatedAt = time.Now()
	r.store.updates = append(r.store.updates, *update)
	return nil
}

func (r *fakeUpdateRepo) ListByOrder(ctx context.Context, orderID uint64) ([]entities.OrderUpdate, error) {
	items := r.store.updatesFor(orderID)
	out := make([]entities.OrderUpdate, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	return out, nil
}

type fakeCommentRepo struct {
	store *memStore
}

func (r *fakeCommentRepo) CreateInTx(ctx context.Context, tx pgx.Tx, comment *entities.OrderComment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	comment.ID = r.store.id()
	comment.CreatedAt = time.Now()
	r.store.comments = append(r.store.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByOrder(ctx context.Context, orderID uint64, types ...constants.CommentType) ([]entities.OrderComment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.OrderComment, 0)
	for i := len(r.store.comments) - 1; i >= 0; i-- {
		c := r.store.comments[i]
		if c.OrderID != orderID {
			continue
		}
		if len(types) > 0 {
			keep := false
			for _, t := range types {
				keep = keep || c.CommentType == t
			}
			if !keep {
				continue
			}
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeAttachmentRepo struct {
	store   *memStore
	failErr error
}

func (r *fakeAttachmentRepo) CreateInTx(ctx context.Context, tx pgx.Tx, a *entities.Attachment) error {
	if r.failErr != nil {
		return r.failErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a.ID = r.store.id()
	a.CreatedAt = time.Now()
	r.store.attachments = append(r.store.attachments, *a)
	return nil
}

func (r *fakeAttachmentRepo) ListByOrder(ctx context.Context, orderID uint64) ([]entities.Attachment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]entities.Attachment, 0)
	for _, a := range r.store.attachments {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- collaborators ---

type fakeFileStorage struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	n       int
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{saved: make(map[string][]byte)}
}

func (f *fakeFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	path := fmt.Sprintf("%s/file-%d-%s", prefix, f.n, originalFileName)
	f.saved[path] = data
	return path, nil
}

func (f *fakeFileStorage) Delete(filePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, filePath)
	f.deleted = append(f.deleted, filePath)
	return nil
}

func (f *fakeFileStorage) PublicURL(filePath string) string {
	return constants.UploadURLPrefix + filePath
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	default:
		c.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	fmt.Sscan(c.data[key], &n)
	n++
	c.data[key] = fmt.Sprint(n)
	return n, nil
}

// plainHasher детерминированный хешер, чтобы тесты не ждали bcrypt.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Verify(plain, digest string) bool { return digest == "hashed:"+plain }

var errStoreDown = errors.New("хранилище недоступно")

// --- fixture ---

type fixture struct {
	store       *memStore
	tx          *fakeTxManager
	users       *fakeUserRepo
	clients     *fakeClientRepo
	orders      *fakeOrderRepo
	updates     *fakeUpdateRepo
	comments    *fakeCommentRepo
	attachments *fakeAttachmentRepo
	files       *fakeFileStorage
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:       store,
		tx:          &fakeTxManager{store: store},
		users:       &fakeUserRepo{store: store},
		clients:     &fakeClientRepo{store: store},
		orders:      &fakeOrderRepo{store: store},
		updates:     &fakeUpdateRepo{store: store},
		comments:    &fakeCommentRepo{store: store},
		attachments: &fakeAttachmentRepo{store: store},
		files:       newFakeFileStorage(),
	}
}

func (f *fixture) addUser(username string, role constants.Role) *entities.User {
	u := &entities.User{Username: username, PasswordHash: "hashed:Secret#123", Role: role, IsActive: true}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fixture) addOrder(status constants.OrderStatus, techID *uint64, createdBy uint64) *entities.Order {
	f.store.mu.Lock()
	n := f.store.nextID + 1
	f.store.mu.Unlock()
	o := &entities.Order{
		TicketCode:           fmt.Sprintf("FIXTEST%04d", n),
		SecurityKey:          fmt.Sprintf("KEY%05d", n),
		ClientName:           "Иван Петров",
		ServiceType:          constants.ServiceEquipmentRepair,
		ProblemDescription:   "Не включается",
		Status:               status,
		Accessories:          []string{},
		AssignedTechnicianID: techID,
		CreatedBy:            createdBy,
	}
	if err := f.orders.CreateInTx(context.Background(), nil, o); err != nil {
		panic(err)
	}
	return o
}

func ctxFor(u *entities.User) context.Context {
	return utils.ContextWithSession(context.Background(), &authz.Session{
		AccountID: u.ID,
		Username:  u.Username,
		Role:      u.Role,
	})
}
