package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/png"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skinlib-api/config"
	"skinlib-api/internal/application/ports"
	"skinlib-api/internal/domain/closet"
	"skinlib-api/internal/domain/player"
	"skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
	"skinlib-api/internal/infrastructure/mq"
)

type FakeTextureRepository struct {
	mu   sync.Mutex
	rows map[texture.ID]*texture.Texture
	next texture.ID

	DeleteErr error
}

func newFakeTextureRepository() *FakeTextureRepository {
	return &FakeTextureRepository{rows: map[texture.ID]*texture.Texture{}}
}

func (f *FakeTextureRepository) get(id texture.ID) *texture.Texture {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil
	}
	cp := *t
	return &cp
}

func (f *FakeTextureRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func (f *FakeTextureRepository) CreateTexture(ctx context.Context, d texture.Descriptor, uploader user.ID) (*texture.Texture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	t := &texture.Texture{
		ID:         f.next,
		Name:       d.Name,
		Type:       d.Type,
		Hash:       d.Hash,
		SizeKB:     d.SizeKB,
		Public:     d.Public,
		UploaderID: uploader,
		UploadedAt: time.Now(),
		Likes:      1,
	}
	f.rows[t.ID] = t
	cp := *t
	return &cp, nil
}

func (f *FakeTextureRepository) FetchTextureByID(ctx context.Context, id texture.ID) (*texture.Texture, error) {
	return f.get(id), nil
}

func (f *FakeTextureRepository) FetchTexturesByHash(ctx context.Context, hash string) (texture.Textures, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ts texture.Textures
	for _, t := range f.rows {
		if t.Hash == hash {
			cp := *t
			ts = append(ts, &cp)
		}
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
	return ts, nil
}

func (f *FakeTextureRepository) FetchTextures(ctx context.Context, q texture.Query) (texture.Textures, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched texture.Textures
	for _, t := range f.rows {
		if q.Filter.Type != "" && !containsType(q.Filter.Type.Types(), t.Type) {
			continue
		}
		if q.Filter.UploaderID != 0 && t.UploaderID != q.Filter.UploaderID {
			continue
		}
		if q.Filter.Query != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q.Filter.Query)) {
			continue
		}
		if !q.Visibility.All && !t.Public && (q.Visibility.ViewerID == 0 || t.UploaderID != q.Visibility.ViewerID) {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	from := (q.Page - 1) * texture.PageSize
	if from >= len(matched) {
		return texture.Textures{}, total, nil
	}
	to := min(from+texture.PageSize, len(matched))
	return matched[from:to], total, nil
}

func containsType(ts []texture.AssetType, t texture.AssetType) bool {
	for _, v := range ts {
		if v == t {
			return true
		}
	}
	return false
}

func (f *FakeTextureRepository) RenameTexture(ctx context.Context, id texture.ID, name string) (*texture.Texture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	t.Name = name
	cp := *t
	return &cp, nil
}

func (f *FakeTextureRepository) UpdatePrivacy(ctx context.Context, id texture.ID, public bool) (*texture.Texture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	t.Public = public
	cp := *t
	return &cp, nil
}

func (f *FakeTextureRepository) AdjustLikes(ctx context.Context, id texture.ID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.rows[id]; ok {
		t.Likes = max(t.Likes+delta, 1)
	}
	return nil
}

func (f *FakeTextureRepository) DeleteTexture(ctx context.Context, id texture.ID) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type FakeClosetRepository struct {
	mu      sync.Mutex
	entries map[texture.ID]map[user.ID]string

	RemoveErr map[user.ID]error
}

func newFakeClosetRepository() *FakeClosetRepository {
	return &FakeClosetRepository{
		entries:   map[texture.ID]map[user.ID]string{},
		RemoveErr: map[user.ID]error{},
	}
}

func (f *FakeClosetRepository) has(uid user.ID, tid texture.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[tid][uid]
	return ok
}

func (f *FakeClosetRepository) FetchEntriesByTexture(ctx context.Context, tid texture.ID) (closet.Entries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var es closet.Entries
	for uid, name := range f.entries[tid] {
		es = append(es, &closet.Entry{UserID: uid, TextureID: tid, ItemName: name})
	}
	sort.Slice(es, func(i, j int) bool { return es[i].UserID < es[j].UserID })
	return es, nil
}

func (f *FakeClosetRepository) AddEntry(ctx context.Context, uid user.ID, tid texture.ID, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries[tid] == nil {
		f.entries[tid] = map[user.ID]string{}
	}
	if _, ok := f.entries[tid][uid]; ok {
		return false, nil
	}
	f.entries[tid][uid] = name
	return true, nil
}

func (f *FakeClosetRepository) RemoveEntry(ctx context.Context, uid user.ID, tid texture.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.RemoveErr[uid]; err != nil {
		return err
	}
	delete(f.entries[tid], uid)
	return nil
}

type FakePlayerRepository struct {
	mu      sync.Mutex
	players map[player.ID]*player.Player

	ClearErr map[player.ID]error
}

func newFakePlayerRepository() *FakePlayerRepository {
	return &FakePlayerRepository{
		players:  map[player.ID]*player.Player{},
		ClearErr: map[player.ID]error{},
	}
}

func (f *FakePlayerRepository) add(pid player.ID, owner user.ID, t texture.AssetType, tid texture.ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[pid] = &player.Player{
		ID:      pid,
		OwnerID: owner,
		Slots:   map[texture.AssetType]texture.ID{t: tid},
	}
}

func (f *FakePlayerRepository) slot(pid player.ID, t texture.AssetType) texture.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.players[pid].Slots[t]
}

func (f *FakePlayerRepository) FetchPlayersBySlot(ctx context.Context, t texture.AssetType, tid texture.ID) (player.Players, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ps player.Players
	for _, p := range f.players {
		if p.Slots[t] == tid {
			ps = append(ps, p)
		}
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
	return ps, nil
}

func (f *FakePlayerRepository) ClearSlot(ctx context.Context, pid player.ID, t texture.AssetType, tid texture.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.ClearErr[pid]; err != nil {
		return err
	}
	if p, ok := f.players[pid]; ok && p.Slots[t] == tid {
		p.Slots[t] = 0
	}
	return nil
}

type FakeLedger struct {
	mu       sync.Mutex
	balances map[user.ID]int64

	CreditErr error
}

func newFakeLedger(balances map[user.ID]int64) *FakeLedger {
	return &FakeLedger{balances: balances}
}

func (f *FakeLedger) balance(uid user.ID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[uid]
}

func (f *FakeLedger) Credit(ctx context.Context, uid user.ID, amount int64) error {
	if f.CreditErr != nil {
		return f.CreditErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[uid]; !ok {
		return user.ErrUserNotFound
	}
	f.balances[uid] += amount
	return nil
}

func (f *FakeLedger) Debit(ctx context.Context, uid user.ID, amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[uid]
	if !ok {
		return user.ErrUserNotFound
	}
	if b < amount {
		return user.ErrInsufficientBalance
	}
	f.balances[uid] = b - amount
	return nil
}

func (f *FakeLedger) Balance(ctx context.Context, uid user.ID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[uid]
	if !ok {
		return 0, user.ErrUserNotFound
	}
	return b, nil
}

type FakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int

	// OnPut runs before the bytes are stored, outside the store's own lock.
	OnPut func()
}

func newFakeBlobStore() *FakeBlobStore {
	return &FakeBlobStore{objects: map[string][]byte{}}
}

func (f *FakeBlobStore) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (f *FakeBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	if f.OnPut != nil {
		f.OnPut()
	}
	hash := f.Hash(data)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[hash] = data
	f.puts++
	return hash, nil
}

func (f *FakeBlobStore) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

func (f *FakeBlobStore) Has(ctx context.Context, hash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[hash]
	return ok, nil
}

func (f *FakeBlobStore) Delete(ctx context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, hash)
	return nil
}

func (f *FakeBlobStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type FakeRabbitMQ struct {
	in chan mq.Event
}

func newFakeRabbitMQ() *FakeRabbitMQ { return &FakeRabbitMQ{in: make(chan mq.Event, 64)} }

func (f *FakeRabbitMQ) Connect(ctx context.Context, dsn string) error { return nil }
func (f *FakeRabbitMQ) Init() error                                   { return nil }
func (f *FakeRabbitMQ) PublisherWorker(ctx context.Context)           {}
func (f *FakeRabbitMQ) GetInputChan() chan mq.Event                   { return f.in }
func (f *FakeRabbitMQ) GetConn() *amqp091.Connection                  { return nil }

func (f *FakeRabbitMQ) actions() []string {
	var as []string
	for {
		select {
		case e := <-f.in:
			as = append(as, e.Action)
		default:
			return as
		}
	}
}

var _ ports.RabbitMQ = (*FakeRabbitMQ)(nil)

type fixture struct {
	svc      ports.TextureService
	textures *FakeTextureRepository
	closets  *FakeClosetRepository
	players  *FakePlayerRepository
	ledger   *FakeLedger
	blobs    *FakeBlobStore
	mq       *FakeRabbitMQ
}

func testSkinlibConfig() config.Skinlib {
	return config.Skinlib{
		MaxUploadFileSizeKB: 1024,
		PublicRatePerKB:     2,
		PrivateRatePerKB:    10,
		PerClosetItemFee:    0,
		RefundOnDelete:      true,
	}
}

func newFixture(t *testing.T, cfg config.Skinlib, balances map[user.ID]int64) *fixture {
	t.Helper()

	f := &fixture{
		textures: newFakeTextureRepository(),
		closets:  newFakeClosetRepository(),
		players:  newFakePlayerRepository(),
		ledger:   newFakeLedger(balances),
		blobs:    newFakeBlobStore(),
		mq:       newFakeRabbitMQ(),
	}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
	f.svc = NewTextureService(
		zap.NewNop(),
		cfg,
		f.textures,
		f.closets,
		f.players,
		f.ledger,
		f.blobs,
		f.mq,
		counter,
	)

	return f
}

// pngBytes encodes a blank w x h image; seed changes one pixel so different
// seeds give different content hashes.
func pngBytes(t *testing.T, w, h int, seed byte) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Pix[0] = seed
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newUpload(name string, typ texture.AssetType, public bool, data []byte) texture.Upload {
	return texture.Upload{
		Name:     name,
		Type:     typ,
		Public:   &public,
		MimeType: "image/png",
		Data:     data,
	}
}

func actor(id user.ID) *user.Actor { return &user.Actor{ID: id} }

func admin(id user.ID) *user.Actor { return &user.Actor{ID: id, Role: user.RoleAdmin} }
