package service

import (
	"context"
	"math/rand"
	"slices"
	"strings"
	"time"

	"ftl/domain/bounds"
	"ftl/domain/ordered"
	"ftl/domain/rbtree"
	"ftl/domain/stack"
	"ftl/domain/vector"
	"ftl/infra/memory"
	"ftl/infra/sequence"

	"github.com/cockroachdb/errors"
	"github.com/google/btree"
	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
)

// ErrDiverged marks a container result that disagrees with its
// reference.
var ErrDiverged = errors.New("container diverged from reference")

// Report summarizes a run.
type Report struct {
	Seed          int64
	Ops           uint64
	Counts        map[string]uint64
	Exhausted     uint64
	Verifications int

	MapLen   int
	SetLen   int
	StackLen int

	MapNodes memory.Stats
	SetNodes memory.Stats
	Elapsed  time.Duration
}

type mapNode = rbtree.Node[ordered.Entry[int, int]]

/*
Runner applies a seeded stream of operations to the containers and to
their references in lockstep.

A Runner is single-use and not safe for concurrent use.
*/
type Runner struct {
	cfg   Config
	log   logrus.FieldLogger
	rng   *rand.Rand
	seq   *sequence.Sequencer
	trail *trail

	mapArena *memory.Arena[mapNode]
	setArena *memory.Arena[rbtree.Node[int]]
	m        *ordered.Map[int, int]
	set      *ordered.Set[int]
	st       *stack.Stack[int]

	refMap   map[int]int
	refSet   *btree.BTreeG[int]
	refStack []int

	report Report
}

// NewRunner wires the containers, their arenas and the references.
func NewRunner(cfg Config) *Runner {
	cfg = cfg.withDefaults()

	var arenaOpts []memory.Option
	if cfg.MaxNodes > 0 {
		arenaOpts = append(arenaOpts, memory.WithMaxSize(cfg.MaxNodes))
	}
	mapArena := memory.NewArena[mapNode](arenaOpts...)
	setArena := memory.NewArena[rbtree.Node[int]](arenaOpts...)

	return &Runner{
		cfg:   cfg,
		log:   cfg.Logger.WithFields(logrus.Fields{"component": "runner", "seed": cfg.Seed}),
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		seq:   sequence.New(0),
		trail: newTrail(cfg.TrailSize),

		mapArena: mapArena,
		setArena: setArena,
		m:        ordered.NewMap[int, int](ordered.WithMapAllocator[int, int](mapArena)),
		set:      ordered.NewSet(rbtree.WithAllocator[int](setArena)),
		st:       stack.NewOn[int](vector.NewWithMax[int](cfg.MaxNodes)),

		refMap: make(map[int]int),
		refSet: btree.NewOrderedG[int](16),

		report: Report{Seed: cfg.Seed, Counts: make(map[string]uint64)},
	}
}

//
// ──────────────────────────────────────────────────────────
// Run loop
// ──────────────────────────────────────────────────────────
//

// Run applies cfg.Ops operations, then verifies and drains every
// container. It stops early when ctx is done or a container diverges.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	r.log.WithFields(logrus.Fields{
		"ops":       r.cfg.Ops,
		"keys":      r.cfg.KeySpace,
		"max_nodes": r.cfg.MaxNodes,
	}).Info("[runner] started")

	for i := 0; i < r.cfg.Ops; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return r.finish(start), errors.Wrapf(err, "stopped after %d ops", i)
			}
		}

		o := r.next()
		r.trail.record(o)
		if err := r.apply(o); err != nil {
			return r.finish(start), r.fail(err)
		}

		if (i+1)%r.cfg.VerifyEvery == 0 {
			if err := r.verify(); err != nil {
				return r.finish(start), r.fail(err)
			}
			r.log.WithField("op", o.Seq).Debug("[runner] verified")
		}
	}

	if err := r.verify(); err != nil {
		return r.finish(start), r.fail(err)
	}
	rep := r.finish(start)
	if err := r.drain(); err != nil {
		return rep, r.fail(err)
	}
	rep.MapNodes, rep.SetNodes = r.mapArena.Stats(), r.setArena.Stats()

	r.log.WithFields(logrus.Fields{
		"ops":           rep.Ops,
		"exhausted":     rep.Exhausted,
		"verifications": rep.Verifications,
		"elapsed":       rep.Elapsed,
	}).Info("[runner] finished")
	r.log.Debugf("[runner] report:\n%s", pretty.Sprint(rep))
	return rep, nil
}

func (r *Runner) next() op {
	o := op{
		Seq:  r.seq.Next(),
		Kind: opKind(r.rng.Intn(int(numOpKinds))),
		Key:  r.rng.Intn(r.cfg.KeySpace),
	}
	if o.Kind == opSetEraseRange {
		o.Val = r.rng.Intn(8)
	} else {
		o.Val = r.rng.Intn(1 << 20)
	}
	return o
}

func (r *Runner) finish(start time.Time) Report {
	r.report.Ops = r.seq.Issued()
	r.report.MapLen = r.m.Len()
	r.report.SetLen = r.set.Len()
	r.report.StackLen = r.st.Len()
	r.report.MapNodes = r.mapArena.Stats()
	r.report.SetNodes = r.setArena.Stats()
	r.report.Elapsed = time.Since(start)
	return r.report
}

// fail logs err with the recent operations and attaches them to it.
func (r *Runner) fail(err error) error {
	recent := r.trail.ops()
	r.log.WithFields(logrus.Fields{
		"op":    r.seq.Current(),
		"error": err.Error(),
	}).Error("[runner] run failed")
	r.log.Debugf("[runner] recent ops:\n%s", pretty.Sprint(recent))

	lines := make([]string, len(recent))
	for i, o := range recent {
		lines[i] = o.String()
	}
	return errors.WithDetailf(err, "recent ops:\n%s", strings.Join(lines, "\n"))
}

func diverged(o op, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(errors.Newf(format, args...), "%s", o), ErrDiverged)
}

// exhausted reports whether err is an expected capacity failure of a
// bounded run, and counts it.
func (r *Runner) exhausted(err error) bool {
	if r.cfg.MaxNodes == 0 {
		return false
	}
	if errors.Is(err, memory.ErrExhausted) || errors.Is(err, bounds.ErrLength) {
		r.report.Exhausted++
		return true
	}
	return false
}

//
// ──────────────────────────────────────────────────────────
// Operations
// ──────────────────────────────────────────────────────────
//

func (r *Runner) apply(o op) error {
	r.report.Counts[o.Kind.String()]++
	k, v := o.Key, o.Val

	switch o.Kind {
	case opMapSet:
		if err := r.m.Set(k, v); err != nil {
			if r.exhausted(err) {
				return nil
			}
			return err
		}
		r.refMap[k] = v

	case opMapInsert:
		it, added, err := r.m.Insert(k, v)
		if err != nil {
			if r.exhausted(err) {
				return nil
			}
			return err
		}
		want, had := r.refMap[k]
		if added == had {
			return diverged(o, "added=%t but the key was present=%t", added, had)
		}
		if had && it.Value() != want {
			return diverged(o, "blocking entry holds %d, want %d", it.Value(), want)
		}
		if added {
			r.refMap[k] = v
		}

	case opMapUpsert:
		slot, err := r.m.Upsert(k)
		if err != nil {
			if r.exhausted(err) {
				return nil
			}
			return err
		}
		if want := r.refMap[k]; *slot != want {
			return diverged(o, "slot holds %d, want %d", *slot, want)
		}
		*slot++
		r.refMap[k]++

	case opMapErase:
		_, had := r.refMap[k]
		if n := r.m.EraseKey(k); (n == 1) != had {
			return diverged(o, "erased %d, key was present=%t", n, had)
		}
		delete(r.refMap, k)

	case opMapAt:
		got, err := r.m.At(k)
		want, had := r.refMap[k]
		switch {
		case had && err != nil:
			return diverged(o, "unexpected error: %v", err)
		case had && got != want:
			return diverged(o, "got %d, want %d", got, want)
		case !had && !errors.Is(err, bounds.ErrOutOfRange):
			return diverged(o, "absent key returned %d, %v", got, err)
		}

	case opMapBound:
		it := r.m.LowerBound(k)
		want, ok := r.refLowerKey(k)
		if it.IsEnd() == ok || (ok && it.Key() != want) {
			return diverged(o, "lower bound mismatch, reference has %d (found=%t)", want, ok)
		}

	case opSetInsert:
		had := r.refSet.Has(k)
		_, added, err := r.set.Insert(k)
		if err != nil {
			if r.exhausted(err) {
				return nil
			}
			return err
		}
		if added == had {
			return diverged(o, "added=%t but the value was present=%t", added, had)
		}
		r.refSet.ReplaceOrInsert(k)

	case opSetErase:
		_, had := r.refSet.Delete(k)
		if n := r.set.EraseValue(k); (n == 1) != had {
			return diverged(o, "erased %d, value was present=%t", n, had)
		}

	case opSetBound:
		lb := r.set.LowerBound(k)
		want, ok := 0, false
		r.refSet.AscendGreaterOrEqual(k, func(x int) bool {
			want, ok = x, true
			return false
		})
		if lb.IsEnd() == ok || (ok && lb.Value() != want) {
			return diverged(o, "lower bound mismatch, reference has %d (found=%t)", want, ok)
		}
		expect := lb
		if ok && want == k {
			expect = lb.Next()
		}
		if !r.set.UpperBound(k).Equal(expect) {
			return diverged(o, "upper bound mismatch")
		}

	case opSetEraseRange:
		hi := k + v
		var doomed []int
		r.refSet.AscendRange(k, hi, func(x int) bool {
			doomed = append(doomed, x)
			return true
		})
		before := r.set.Len()
		r.set.EraseRange(r.set.LowerBound(k), r.set.LowerBound(hi))
		if n := before - r.set.Len(); n != len(doomed) {
			return diverged(o, "erased %d values, reference erased %d", n, len(doomed))
		}
		for _, x := range doomed {
			r.refSet.Delete(x)
		}

	case opStackPush:
		if err := r.st.Push(v); err != nil {
			if r.exhausted(err) {
				return nil
			}
			return err
		}
		r.refStack = append(r.refStack, v)

	case opStackPop:
		n := len(r.refStack)
		if n == 0 {
			if !r.st.Empty() {
				return diverged(o, "stack holds %d elements, reference is empty", r.st.Len())
			}
			return nil
		}
		if got := r.st.Top(); got != r.refStack[n-1] {
			return diverged(o, "top is %d, want %d", got, r.refStack[n-1])
		}
		r.st.Pop()
		r.refStack = r.refStack[:n-1]

	default:
		return errors.AssertionFailedf("unknown op %s", o.Kind)
	}
	return nil
}

func (r *Runner) refLowerKey(k int) (int, bool) {
	best, ok := 0, false
	for key := range r.refMap {
		if key >= k && (!ok || key < best) {
			best, ok = key, true
		}
	}
	return best, ok
}

//
// ──────────────────────────────────────────────────────────
// Verification
// ──────────────────────────────────────────────────────────
//

// verify checks the tree invariants, compares full contents with the
// references and round-trips the map through Clone.
func (r *Runner) verify() error {
	r.report.Verifications++

	if err := r.m.Verify(); err != nil {
		return errors.Wrap(err, "map")
	}
	if err := r.set.Verify(); err != nil {
		return errors.Wrap(err, "set")
	}

	if got, want := slices.Collect(r.m.Pairs()), r.refMapEntries(); !slices.Equal(got, want) {
		return errors.Mark(
			errors.Newf("map contents differ:\n%s", strings.Join(pretty.Diff(want, got), "\n")),
			ErrDiverged)
	}

	var wantSet []int
	r.refSet.Ascend(func(x int) bool {
		wantSet = append(wantSet, x)
		return true
	})
	if got := slices.Collect(r.set.All()); !slices.Equal(got, wantSet) {
		return errors.Mark(
			errors.Newf("set contents differ:\n%s", strings.Join(pretty.Diff(wantSet, got), "\n")),
			ErrDiverged)
	}

	if got := slices.Collect(r.st.All()); !slices.Equal(got, r.refStack) {
		return errors.Mark(
			errors.Newf("stack contents differ:\n%s", strings.Join(pretty.Diff(r.refStack, got), "\n")),
			ErrDiverged)
	}

	c, err := r.m.Clone()
	if err != nil {
		if r.exhausted(err) {
			return nil
		}
		return err
	}
	defer c.Clear()
	if !ordered.MapEqual(r.m, c) {
		return errors.AssertionFailedf("map clone differs from its source")
	}
	return c.Verify()
}

func (r *Runner) refMapEntries() []ordered.Entry[int, int] {
	keys := make([]int, 0, len(r.refMap))
	for k := range r.refMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]ordered.Entry[int, int], len(keys))
	for i, k := range keys {
		out[i] = ordered.Entry[int, int]{First: k, Second: r.refMap[k]}
	}
	return out
}

// drain empties every container and checks that no node is left behind.
func (r *Runner) drain() error {
	r.m.Clear()
	r.set.Clear()
	for !r.st.Empty() {
		r.st.Pop()
	}
	clear(r.refMap)
	r.refSet.Clear(false)
	r.refStack = r.refStack[:0]

	if err := checkDrained("map", r.mapArena); err != nil {
		return err
	}
	return checkDrained("set", r.setArena)
}

func checkDrained[T any](name string, a *memory.Arena[T]) error {
	if a.Live() != 0 || !a.Stats().Balanced() {
		return errors.AssertionFailedf("%s arena leaked: %d live, %s", errors.Safe(name), a.Live(), pretty.Sprint(a.Stats()))
	}
	return nil
}
