package upload

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Config bounds the simulated progress.
type Config struct {
	MinStep     int           `validate:"gte=1,lte=100"`
	MaxStep     int           `validate:"gtefield=MinStep,lte=100"`
	GracePeriod time.Duration `validate:"gte=0"`
	Seed        uint64        // 0 picks a random seed
}

func DefaultConfig() Config {
	return Config{MinStep: 1, MaxStep: 15, GracePeriod: 3 * time.Second}
}

// CompleteFunc materializes a finished task and returns the new node id.
type CompleteFunc func(Task) (string, error)

type Option func(*Pipeline)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// WithCompletion sets the callback run once per task when it reaches 100%.
// A callback error turns the task into StatusFailed.
func WithCompletion(fn CompleteFunc) Option {
	return func(p *Pipeline) {
		p.onComplete = fn
	}
}

// Pipeline owns the active task list. It is driven from one goroutine: the
// caller invokes Advance on each timer tick. Subscriber channels may be read
// from anywhere.
type Pipeline struct {
	cfg        Config
	rng        *rand.Rand
	validate   *validator.Validate
	logger     *zap.Logger
	newID      func() string
	onComplete CompleteFunc

	tasks  map[string]*Task
	order  []string
	subs   map[string][]chan Update
	closed bool
}

// New validates cfg and returns an empty pipeline.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	v := validator.New()
	// The store trims names, so a blank one must fail here rather than at completion.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("upload validator: %w", err)
	}
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("upload config: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	p := &Pipeline{
		cfg:      cfg,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		validate: v,
		logger:   zap.NewNop(),
		newID:    uuid.NewString,
		tasks:    make(map[string]*Task),
		subs:     make(map[string][]chan Update),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Submit creates one task per blob. Valid blobs start uploading at once;
// invalid ones are kept as failed tasks wrapping ErrInvalidBlob.
func (p *Pipeline) Submit(blobs []Blob, folderID string, now time.Time) []Task {
	out := make([]Task, 0, len(blobs))
	for _, b := range blobs {
		t := &Task{
			ID:          p.newID(),
			DisplayName: b.Name,
			SizeBytes:   b.SizeBytes,
			MimeType:    b.MimeType,
			FolderID:    folderID,
			Status:      StatusQueued,
			SubmittedAt: now,
		}
		if err := p.validate.Struct(b); err != nil {
			t.Status = StatusFailed
			t.Err = fmt.Errorf("%w: %q: %v", ErrInvalidBlob, b.Name, err)
			p.logger.Warn("upload rejected", zap.String("name", b.Name), zap.Error(err))
		} else {
			t.Status = StatusUploading
			p.logger.Debug("upload started",
				zap.String("task", t.ID),
				zap.String("name", b.Name),
				zap.Int64("size", b.SizeBytes))
		}
		p.tasks[t.ID] = t
		p.order = append(p.order, t.ID)
		out = append(out, *t)
	}
	return out
}

// Advance runs one tick: every uploading task gains a random step in
// [MinStep, MaxStep], clamped at 100, and completed tasks older than the
// grace period leave the active list. It returns the updates it published.
func (p *Pipeline) Advance(now time.Time) []Update {
	var updates []Update
	for _, id := range p.order {
		t := p.tasks[id]
		if t.Status != StatusUploading {
			continue
		}
		step := p.cfg.MinStep + p.rng.IntN(p.cfg.MaxStep-p.cfg.MinStep+1)
		t.Progress = min(t.Progress+step, 100)
		if t.Progress == 100 {
			p.complete(t, now)
		}
		u := t.update()
		updates = append(updates, u)
		p.publish(u)
	}
	p.expire(now)
	return updates
}

func (p *Pipeline) complete(t *Task, now time.Time) {
	t.Status = StatusCompleted
	t.CompletedAt = now
	if p.onComplete == nil {
		return
	}
	nodeID, err := p.onComplete(*t)
	if err != nil {
		t.Status = StatusFailed
		t.Err = err
		p.logger.Error("upload could not be stored", zap.String("task", t.ID), zap.Error(err))
		return
	}
	t.NodeID = nodeID
	p.logger.Info("upload completed",
		zap.String("task", t.ID),
		zap.String("name", t.DisplayName),
		zap.String("node", nodeID))
}

func (p *Pipeline) expire(now time.Time) {
	keep := p.order[:0]
	for _, id := range p.order {
		t := p.tasks[id]
		if t.Status == StatusCompleted && now.Sub(t.CompletedAt) >= p.cfg.GracePeriod {
			p.drop(id)
			continue
		}
		keep = append(keep, id)
	}
	clear(p.order[len(keep):])
	p.order = keep
}

func (p *Pipeline) drop(id string) {
	delete(p.tasks, id)
	for _, ch := range p.subs[id] {
		close(ch)
	}
	delete(p.subs, id)
}

// Dismiss removes a terminal task from the active list.
func (p *Pipeline) Dismiss(id string) error {
	t, ok := p.tasks[id]
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownTask)
	}
	if !t.Status.Terminal() {
		return fmt.Errorf("%q is still %s: %w", id, t.Status, ErrUnknownTask)
	}
	p.drop(id)
	p.order = slices.DeleteFunc(p.order, func(o string) bool { return o == id })
	return nil
}

// Subscribe returns a channel of updates for one task and a cancel func.
// The channel is closed when the task leaves the active list. Slow readers
// miss intermediate updates rather than blocking the pipeline.
func (p *Pipeline) Subscribe(taskID string) (<-chan Update, func(), error) {
	t, ok := p.tasks[taskID]
	if !ok || p.closed {
		return nil, func() {}, fmt.Errorf("%q: %w", taskID, ErrUnknownTask)
	}
	ch := make(chan Update, subscriberBuffer)
	ch <- t.update()
	p.subs[taskID] = append(p.subs[taskID], ch)

	cancel := func() {
		subs := p.subs[taskID]
		for i, c := range subs {
			if c == ch {
				p.subs[taskID] = slices.Delete(subs, i, i+1)
				close(ch)
				return
			}
		}
	}
	return ch, cancel, nil
}

func (p *Pipeline) publish(u Update) {
	for _, ch := range p.subs[u.TaskID] {
		select {
		case ch <- u:
		default:
			p.logger.Debug("upload subscriber lagging", zap.String("task", u.TaskID))
		}
	}
}

// Active returns snapshots of the tasks still listed, in submission order.
func (p *Pipeline) Active() []Task {
	out := make([]Task, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.tasks[id])
	}
	return out
}

func (p *Pipeline) Get(id string) (Task, bool) {
	t, ok := p.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// Busy reports whether any task is still uploading or waiting out its grace
// period.
func (p *Pipeline) Busy() bool {
	for _, id := range p.order {
		if p.tasks[id].Status != StatusFailed {
			return true
		}
	}
	return false
}

// Close ends every subscription. The task list is left as is.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	for id, subs := range p.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(p.subs, id)
	}
}
