package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cartTTL      = 30 * 24 * time.Hour
	selectionTTL = 30 * time.Minute
)

// Store persiste le panier et la sélection de checkout d'un
// utilisateur. L'implémentation de référence est Redis ; l'interface
// permet de brancher un store mémoire dans les tests.
type Store interface {
	Load(ctx context.Context, userID string) (Cart, error)
	Save(ctx context.Context, userID string, c Cart) error
	SaveSelection(ctx context.Context, userID string, productIDs []string) error
	LoadSelection(ctx context.Context, userID string) ([]string, error)
	ClearSelection(ctx context.Context, userID string) error
}

type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func cartKey(userID string) string      { return "cart:" + userID }
func selectionKey(userID string) string { return "checkout:selected:" + userID }

// Load retourne un panier vide (jamais nil) si la clé n'existe pas.
func (s *RedisStore) Load(ctx context.Context, userID string) (Cart, error) {
	data, err := s.Client.Get(ctx, cartKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, err
	}
	if c == nil {
		c = New()
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, c Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, cartKey(userID), data, cartTTL).Err()
}

func (s *RedisStore) SaveSelection(ctx context.Context, userID string, productIDs []string) error {
	data, err := json.Marshal(productIDs)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, selectionKey(userID), data, selectionTTL).Err()
}

// LoadSelection retourne nil sans erreur quand aucune sélection n'est
// en attente : le checkout retombe alors sur le panier entier.
func (s *RedisStore) LoadSelection(ctx context.Context, userID string) ([]string, error) {
	data, err := s.Client.Get(ctx, selectionKey(userID)).Result()
	if err == redis.Nil || data == "" {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RedisStore) ClearSelection(ctx context.Context, userID string) error {
	return s.Client.Del(ctx, selectionKey(userID)).Err()
}
