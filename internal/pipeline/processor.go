/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import (
	"context"
	"sync"

	"github.com/alitto/pond"
	"golang.org/x/sync/errgroup"

	"github.com/airsurvey/reduction/internal/associator"
	"github.com/airsurvey/reduction/internal/store"
	"github.com/airsurvey/reduction/internal/timeutil"
)

/*****************************************************************************************************************/

// The *PoolSize constants size each stage's worker pool. dispatchLoop waits for each submitted
// frame to finish before claiming the next, so every stage still processes one frame at a time.
const (
	extractPoolSize   = 4
	astrometryPoolSize = 2
	matchPoolSize     = 4
	associatePoolSize = 1
)

/*****************************************************************************************************************/

// stage pairs a frame-advancing function with the states it consumes, forming one row of the
// processor's dispatch table, per §4.3's "processor picks the oldest frame in state X." accepts
// reports whether a frame's current state belongs to this stage's input.
type stage struct {
	name    string
	accepts func(State) bool
	pool    *pond.WorkerPool
	run     func(ctx *Context, frame *Frame) error
}

/*****************************************************************************************************************/

// Processor drives frames through extraction, astrometry, catalog match and association. It owns
// one Queue, one worker pool per stage (so a slow external subprocess in one stage never starves
// another), and one per-pointing Associator. Its mutex guards the associator map; the associators
// themselves are only used from the associate stage, which processes one frame at a time.
type Processor struct {
	ctx   *Context
	queue *Queue

	stages []stage

	mu          sync.Mutex
	claimed     map[*Frame]bool
	associators map[string]*associator.Associator

	emitter *associator.Emitter

	// journal is the optional audit-trail store, present only when db.enable is set, per §2B.
	journal *store.Store

	// OnTrack, if set, is called synchronously from the associate stage immediately after a track
	// is emitted and journaled, letting a caller (e.g. the track CLI's debug renderer) observe
	// finalized tracks without coupling the processor to any particular presentation concern.
	OnTrack func(*associator.Track)

	stopped bool
}

/*****************************************************************************************************************/

// SetJournal attaches the optional frame/track audit journal, gated by the db.enable
// configuration key. It must be called before Run.
func (p *Processor) SetJournal(j *store.Store) {
	p.journal = j
}

/*****************************************************************************************************************/

// NewProcessor returns a Processor ready to run, writing finalized tracks under outputRoot and
// identifying itself to GTW consumers as station.
func NewProcessor(pctx *Context, outputRoot, station string) *Processor {
	p := &Processor{
		ctx:         pctx,
		queue:       NewQueue(),
		claimed:     make(map[*Frame]bool),
		associators: make(map[string]*associator.Associator),
		emitter:     associator.NewEmitter(outputRoot, station),
	}

	inState := func(s State) func(State) bool {
		return func(candidate State) bool { return candidate == s }
	}

	p.stages = []stage{
		{name: "extract", accepts: inState(StateInit), pool: pond.New(extractPoolSize, extractPoolSize), run: RunExtraction},
		{name: "astrometry", accepts: inState(StateExtracted), pool: pond.New(astrometryPoolSize, astrometryPoolSize), run: RunAstrometry},
		{name: "match", accepts: inState(StateSolved), pool: pond.New(matchPoolSize, matchPoolSize), run: RunMatch},
		{
			name: "associate",
			accepts: func(s State) bool {
				return s == StateCalibratedOrMatched || s.Terminal()
			},
			pool: pond.New(associatePoolSize, associatePoolSize),
			run:  p.associate,
		},
	}

	return p
}

/*****************************************************************************************************************/

// Submit creates a Frame for filePath under pointing and adds it to the queue, per §4.3's arrival
// path.
func (p *Processor) Submit(filePath string, pointing Pointing) *Frame {
	frame := NewFrame(filePath, pointing)

	p.queue.Push(frame)

	return frame
}

/*****************************************************************************************************************/

// Len reports the number of frames currently in flight.
func (p *Processor) Len() int {
	return p.queue.Len()
}

/*****************************************************************************************************************/

// Run drives every stage's dispatch loop until ctx is cancelled, then waits for in-flight stage
// work to finish before returning, per §5's "context.Context cancellation" design note.
func (p *Processor) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i := range p.stages {
		s := p.stages[i]

		g.Go(func() error {
			p.dispatchLoop(gctx, s)
			return nil
		})
	}

	<-gctx.Done()

	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.queue.cond.Broadcast()

	err := g.Wait()

	for _, s := range p.stages {
		s.pool.StopAndWait()
	}

	return err
}

/*****************************************************************************************************************/

// dispatchLoop repeatedly claims the oldest unclaimed frame in s.input and submits s.run to s's
// pool, until ctx is cancelled. Claiming (rather than removing) keeps the frame visible to
// Snapshot/Len while its stage runs, and waiting for each submitted job before claiming the next
// keeps the stage to one frame at a time.
func (p *Processor) dispatchLoop(ctx context.Context, s stage) {
	for {
		frame := p.awaitClaim(ctx, s.accepts)
		if frame == nil {
			return
		}

		done := make(chan struct{})

		s.pool.Submit(func() {
			defer close(done)

			if err := s.run(p.ctx, frame); err != nil {
				p.ctx.Log.Failure(s.name, frame.FilePath, err)
			}

			p.release(frame)
			p.queue.cond.Broadcast()
		})

		select {
		case <-done:
		case <-ctx.Done():
			return
		}
	}
}

/*****************************************************************************************************************/

// awaitClaim blocks until a frame whose state satisfies accepts is unclaimed and available,
// claims it, and returns it, or returns nil once ctx is cancelled.
func (p *Processor) awaitClaim(ctx context.Context, accepts func(State) bool) *Frame {
	p.queue.mu.Lock()
	defer p.queue.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		p.mu.Lock()
		if p.stopped {
			p.mu.Unlock()
			return nil
		}

		for _, f := range p.queue.frames {
			if !accepts(f.CurrentState()) || p.claimed[f] {
				continue
			}

			p.claimed[f] = true
			p.mu.Unlock()

			return f
		}
		p.mu.Unlock()

		p.queue.cond.Wait()
	}
}

/*****************************************************************************************************************/

// release clears a frame's claim so a later stage (or, on terminal failure, cleanup) can pick it
// up.
func (p *Processor) release(f *Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.claimed, f)
}

/*****************************************************************************************************************/

// pointingKey groups frames into the same Associator by their group/unit/camera identity, per
// §4.4's per-pointing track state.
func pointingKey(pt Pointing) string {
	return pt.GID + "/" + pt.UID + "/" + pt.CID
}

/*****************************************************************************************************************/

// associate is the processor's final stage: it feeds a calibrated frame's sources into the
// pointing's Associator, emits any tracks that finalize as a result, and retires the frame from
// the queue. It also retires frames that reached a terminal Failed_* state in an earlier stage,
// since those never reach StateCalibratedOrMatched on their own.
func (p *Processor) associate(ctx *Context, frame *Frame) error {
	if frame.CurrentState().Terminal() {
		ctx.Log.Failure(frame.CurrentState().String(), frame.FilePath, frame.Err)
		p.journalFrame(frame)
		p.queue.remove(frame)

		return nil
	}

	key := pointingKey(frame.Pointing)

	p.mu.Lock()
	a, ok := p.associators[key]
	if !ok {
		a = associator.New()
		p.associators[key] = a
	}
	p.mu.Unlock()

	a.NewFrame(frame.Pointing.FrameNo)

	for _, s := range frame.Sources {
		a.AddSource(&associator.PvPoint{
			File:     frame.FilePath,
			MidUTC:   frame.ExposureMid,
			MJD:      timeutil.ModifiedJulianDay(frame.ExposureMid),
			FrameNo:  frame.Pointing.FrameNo,
			SourceID: s.ID,
			X:        s.X,
			Y:        s.Y,
			RA:       s.RA,
			Dec:      s.Dec,
			Magnitude: s.Magnitude,
			Matched:   s.Matched,
		})
	}

	a.EndFrame()

	for _, track := range a.TakeFinalized() {
		if err := p.emitter.Emit(track); err != nil {
			ctx.Log.Failure("EmitFailed", frame.FilePath, err)
		}

		p.journalTrack(track)

		if p.OnTrack != nil {
			p.OnTrack(track)
		}
	}

	p.journalFrame(frame)
	p.queue.remove(frame)

	return nil
}

/*****************************************************************************************************************/

// journalFrame writes frame's outcome to the audit journal, if one is attached. A journal failure
// is logged, not propagated: the journal is an audit trail, not a correctness dependency.
func (p *Processor) journalFrame(frame *Frame) {
	if p.journal == nil {
		return
	}

	matched := 0

	for _, s := range frame.Sources {
		if s.Matched {
			matched++
		}
	}

	errText := ""
	if frame.Err != nil {
		errText = frame.Err.Error()
	}

	rec := store.FrameRecord{
		FilePath:     frame.FilePath,
		GID:          frame.Pointing.GID,
		UID:          frame.Pointing.UID,
		CID:          frame.Pointing.CID,
		FrameNo:      frame.Pointing.FrameNo,
		State:        frame.CurrentState().String(),
		Error:        errText,
		Width:        frame.Width,
		Height:       frame.Height,
		FWHM:         frame.FWHM,
		SourceCount:  len(frame.Sources),
		MatchedCount: matched,
	}

	if err := p.journal.RecordFrame(rec); err != nil {
		p.ctx.Log.Failure("JournalFailed", frame.FilePath, err)
	}
}

/*****************************************************************************************************************/

// journalTrack writes track's summary to the audit journal, if one is attached.
func (p *Processor) journalTrack(track *associator.Track) {
	if p.journal == nil || len(track.Pts) == 0 {
		return
	}

	rec := store.TrackRecord{
		ID:         track.ID,
		PointCount: len(track.Pts),
		FirstFile:  track.Pts[0].File,
		LastFile:   track.Pts[len(track.Pts)-1].File,
	}

	if err := p.journal.RecordTrack(rec); err != nil {
		p.ctx.Log.Failure("JournalFailed", track.ID, err)
	}
}

/*****************************************************************************************************************/
