package mirror

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Ключи хранилища, общие с браузерным клиентом
const (
	CartKey      = "auroraApparel_cart"
	CartStateKey = "auroraApparel_cart_state"
)

var ErrNoValue = errors.New("no value stored")

// Storage — долговременное хранилище строк по ключу, как localStorage браузера.
type Storage interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNoValue
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStorage) Put(key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

var boltBucket = []byte("localStorage")

// BoltStorage — значения в одном bucket bbolt.
type BoltStorage struct {
	db *bolt.DB
}

func OpenBoltStorage(path string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}
	return &BoltStorage{db: db}, nil
}

func (b *BoltStorage) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(key))
		if v == nil {
			return ErrNoValue
		}
		// v валиден только внутри транзакции
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (b *BoltStorage) Put(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), value)
	})
}

func (b *BoltStorage) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
}

func (b *BoltStorage) Close() error {
	return b.db.Close()
}

// CartStorage — локальная копия корзины. Запись без гарантий; неудачное
// или нечитаемое чтение даёт пустой результат.
type CartStorage struct {
	Store Storage
	Log   *zap.Logger
}

func (c CartStorage) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c CartStorage) put(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err == nil {
		err = c.Store.Put(key, raw)
	}
	if err != nil {
		c.logger().Warn("could not save to storage", zap.String("key", key), zap.Error(err))
	}
}

// SaveLines — сохранить строки в том виде, как их вернул сервер.
func (c CartStorage) SaveLines(lines []Line) {
	if lines == nil {
		lines = []Line{}
	}
	c.put(CartKey, lines)
}

// LoadLines — nil, если пригодных данных нет.
func (c CartStorage) LoadLines() []Line {
	raw, err := c.Store.Get(CartKey)
	if err != nil {
		if !errors.Is(err, ErrNoValue) {
			c.logger().Warn("could not load cart from storage", zap.Error(err))
		}
		return nil
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		c.logger().Warn("stored cart is corrupt", zap.Error(err))
		return nil
	}
	return lines
}

// SaveState — сохранить и вернуть нормализованный снимок строк.
func (c CartStorage) SaveState(lines []Line) CartSnapshot {
	snap := BuildSnapshot(lines)
	c.put(CartStateKey, snap)
	return snap
}

func (c CartStorage) LoadState() CartSnapshot {
	raw, err := c.Store.Get(CartStateKey)
	if err != nil {
		return EmptySnapshot()
	}
	snap := EmptySnapshot()
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger().Warn("stored cart state is corrupt", zap.Error(err))
		return EmptySnapshot()
	}
	if snap.Items == nil {
		snap.Items = []SnapshotItem{}
	}
	return snap
}

func (c CartStorage) Clear() {
	for _, key := range []string{CartKey, CartStateKey} {
		if err := c.Store.Delete(key); err != nil {
			c.logger().Warn("could not clear storage", zap.String("key", key), zap.Error(err))
		}
	}
}
