package redis

import (
	"context"
	"hash/crc32"
	"hash/fnv"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/go-clean-tweets/domain"
)

const (
	KeyTweetBloom = "bloom:tweet:ids"

	DefaultBloomHashes = 3
)

type redisBloomRepo struct {
	client       *redis.Client
	BloomBitSize uint64
	Hashes       int
}

var _ domain.BloomRepository = (*redisBloomRepo)(nil)

// NewRedisBloomRepo sets bits for each id at hashes positions, hashes <= 0
// means DefaultBloomHashes.
func NewRedisBloomRepo(client *redis.Client, bitSize uint64, hashes int) *redisBloomRepo {
	if hashes <= 0 {
		hashes = DefaultBloomHashes
	}
	return &redisBloomRepo{
		client:       client,
		BloomBitSize: bitSize,
		Hashes:       hashes,
	}
}

func (r *redisBloomRepo) Add(ctx context.Context, id int64) error {
	return r.BulkAdd(ctx, []int64{id})
}

func (r *redisBloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	offsets := r.getOffset(id)
	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(offsets))
	for i, offset := range offsets {
		cmds[i] = pipe.GetBit(ctx, KeyTweetBloom, int64(offset))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	for _, cmd := range cmds {
		if cmd.Val() == 0 {
			return false, nil
		}
	}
	return true, nil
}

func (r *redisBloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, id := range ids {
		for _, offset := range r.getOffset(id) {
			pipe.SetBit(ctx, KeyTweetBloom, int64(offset), 1)
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// getOffset derives the bit positions of id by double hashing: position i is
// h1 + i*h2 over the filter size. h2 is forced odd so successive positions
// do not collapse onto h1.
func (r *redisBloomRepo) getOffset(id int64) []uint64 {
	data := strconv.AppendInt(nil, id, 10)

	h1 := uint64(crc32.ChecksumIEEE(data))
	h := fnv.New64a()
	_, _ = h.Write(data)
	h2 := h.Sum64() | 1

	offsets := make([]uint64, r.Hashes)
	for i := range offsets {
		offsets[i] = (h1 + uint64(i)*h2) % r.BloomBitSize
	}
	return offsets
}
