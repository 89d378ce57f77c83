package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/jass/internal/cache"
	"github.com/jason-s-yu/jass/internal/config"
)

func TestGameStoreIsPerGameWithoutRedis(t *testing.T) {
	a, b := gameStore(nil), gameStore(nil)
	require.IsType(t, &cache.Memory{}, a)
	assert.NotSame(t, a, b)

	shared := cache.NewMemory()
	assert.Same(t, shared, gameStore(shared))
}

func randomConfig(games int) config.Config {
	cfg := config.Defaults()
	cfg.Seed = 11
	cfg.Games = games
	cfg.Players = []string{"n:Aline", "n:Bastien", "n:Colette", "n:Donatien"}
	return cfg
}

func TestRunRandomGames(t *testing.T) {
	log, hook := test.NewNullLogger()
	require.NoError(t, run(context.Background(), randomConfig(3), log))

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "jass: done", last.Message)
	assert.Equal(t, 3, last.Data["team1_wins"].(int)+last.Data["team2_wins"].(int))
}

func TestRunWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := randomConfig(2)
	cfg.RedisAddr = mr.Addr()
	cfg.RedisTTL = time.Hour
	log, _ := test.NewNullLogger()
	require.NoError(t, run(context.Background(), cfg, log))

	keys := mr.Keys()
	assert.NotEmpty(t, keys)
	for _, k := range keys {
		assert.Equal(t, time.Hour, mr.TTL(k), k)
	}
}

func TestRunRejectsBadSeat(t *testing.T) {
	cfg := randomConfig(1)
	cfg.Players[2] = "x:Nobody"
	log, _ := test.NewNullLogger()
	assert.Error(t, run(context.Background(), cfg, log))
}
