package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func quietConfig(seed int64) (Config, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return Config{
		Seed:        seed,
		Ops:         20_000,
		KeySpace:    128,
		VerifyEvery: 500,
		Logger:      logger,
	}, hook
}

func TestRunnerClean(t *testing.T) {
	cfg, hook := quietConfig(1)
	rep, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, uint64(20_000), rep.Ops)
	var total uint64
	for _, n := range rep.Counts {
		total += n
	}
	require.Equal(t, rep.Ops, total)
	require.Len(t, rep.Counts, int(numOpKinds))
	require.Equal(t, 41, rep.Verifications)
	require.Zero(t, rep.Exhausted)
	require.True(t, rep.MapNodes.Balanced())
	require.True(t, rep.SetNodes.Balanced())
	require.NotZero(t, rep.MapLen)

	require.Equal(t, "[runner] finished", hook.LastEntry().Message)
	require.Equal(t, "runner", hook.LastEntry().Data["component"])
}

func TestRunnerDeterministic(t *testing.T) {
	cfg, _ := quietConfig(7)
	cfg.Ops = 5_000
	a, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)
	b, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, a.Counts, b.Counts)
	require.Equal(t, a.MapLen, b.MapLen)
	require.Equal(t, a.SetLen, b.SetLen)
	require.Equal(t, a.StackLen, b.StackLen)
	require.Equal(t, a.MapNodes, b.MapNodes)
}

func TestRunnerBounded(t *testing.T) {
	cfg, _ := quietConfig(3)
	cfg.Ops = 5_000
	cfg.KeySpace = 256
	cfg.MaxNodes = 32
	rep, err := NewRunner(cfg).Run(context.Background())
	require.NoError(t, err)
	require.NotZero(t, rep.Exhausted)
	require.LessOrEqual(t, rep.MapLen, 32)
	require.LessOrEqual(t, rep.SetLen, 32)
	require.LessOrEqual(t, rep.StackLen, 32)
	require.True(t, rep.MapNodes.Balanced())
}

func TestRunnerCancelled(t *testing.T) {
	cfg, _ := quietConfig(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := NewRunner(cfg).Run(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	require.Zero(t, rep.Ops)
}

func TestRunnerDetectsDivergence(t *testing.T) {
	cfg, hook := quietConfig(5)
	r := NewRunner(cfg)
	for i := 0; i < 300; i++ {
		o := r.next()
		r.trail.record(o)
		require.NoError(t, r.apply(o))
	}
	require.NoError(t, r.verify())

	r.refMap[-1] = 7
	err := r.verify()
	require.True(t, errors.Is(err, ErrDiverged))
	require.Contains(t, err.Error(), "map contents differ")
	delete(r.refMap, -1)

	r.refStack = append(r.refStack, 42)
	err = r.verify()
	require.True(t, errors.Is(err, ErrDiverged))
	require.Contains(t, err.Error(), "stack contents differ")

	err = r.fail(err)
	require.True(t, errors.Is(err, ErrDiverged))
	require.Contains(t, errors.FlattenDetails(err), "recent ops:")
	require.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestDivergedMarksOp(t *testing.T) {
	err := diverged(op{Seq: 9, Kind: opMapAt, Key: 3, Val: 4}, "got %d, want %d", 1, 2)
	require.True(t, errors.Is(err, ErrDiverged))
	require.Equal(t, "#9 map.at key=3 val=4: got 1, want 2", err.Error())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{MaxNodes: -3}.withDefaults()
	require.Equal(t, DefaultOps, cfg.Ops)
	require.Equal(t, DefaultKeySpace, cfg.KeySpace)
	require.Equal(t, DefaultVerifyEvery, cfg.VerifyEvery)
	require.Equal(t, DefaultTrailSize, cfg.TrailSize)
	require.Zero(t, cfg.MaxNodes)
	require.NotNil(t, cfg.Logger)
}

func TestTrailKeepsNewest(t *testing.T) {
	tr := newTrail(3)
	require.Empty(t, tr.ops())
	for i := 1; i <= 6; i++ {
		tr.record(op{Seq: uint64(i)})
	}
	var seqs []uint64
	for _, o := range tr.ops() {
		seqs = append(seqs, o.Seq)
	}
	require.Equal(t, []uint64{3, 4, 5, 6}, seqs)
	require.Equal(t, "op(200)", opKind(200).String())
}
