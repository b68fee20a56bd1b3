// Package flow drives one student visit through its steps: identity,
// avatar, instructions, questionnaire, result and rating. Every surface (TUI,
// CLI) goes through the Controller so persistence happens in one place.
package flow

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/quiz"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
)

// Step is where the visit currently is.
type Step int

const (
	StepIdentity Step = iota
	StepAvatar
	StepInstructions
	StepQuiz
	StepResult
	StepRating
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepIdentity:
		return "identity"
	case StepAvatar:
		return "avatar"
	case StepInstructions:
		return "instructions"
	case StepQuiz:
		return "quiz"
	case StepResult:
		return "result"
	case StepRating:
		return "rating"
	case StepDone:
		return "done"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

var (
	// ErrNoSession is returned by operations that need a logged-in student.
	ErrNoSession = errors.New("no active session")

	// ErrPersist is returned when the store refused a write.
	ErrPersist = errors.New("could not save progress")

	ErrUnknownAvatar = errors.New("unknown avatar")
	ErrNotFinished   = errors.New("questionnaire not finished")
	ErrAlreadyRated  = errors.New("session already rated")
)

// Store is the persistence the controller needs.
type Store interface {
	SaveCurrentUser(ctx context.Context, p session.Profile) bool
	LoadCurrentUser(ctx context.Context) (session.Profile, bool)
	ClearCurrentUser(ctx context.Context) bool
	SaveCurrentSession(ctx context.Context, s *session.Session) bool
	LoadCurrentSession(ctx context.Context) (*session.Session, bool)
	ClearCurrentSession(ctx context.Context) bool
	UpsertHistory(ctx context.Context, s session.Session) bool
	AppendRating(ctx context.Context, r rating.Rating) bool
	RecordView(ctx context.Context, resource string) (int, bool)
}

// Options configures a Controller. Zero values select the wall clock, a
// randomly seeded source and the embedded bank.
type Options struct {
	Now  func() time.Time
	Rand *rand.Rand
	Bank []quiz.Question
	Log  *logging.Logger
}

// Controller owns the in-memory state of one visit.
type Controller struct {
	store Store
	now   func() time.Time
	rng   *rand.Rand
	bank  []quiz.Question
	log   *logging.Logger

	step   Step
	user   *session.Profile
	sess   *session.Session
	engine *quiz.Engine
	rated  bool
}

// New creates a controller at the identity step.
func New(store Store, opts Options) (*Controller, error) {
	c := &Controller{
		store: store,
		now:   opts.Now,
		rng:   opts.Rand,
		bank:  opts.Bank,
		log:   logging.OrNop(opts.Log).With("component", "flow"),
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.bank == nil {
		bank, err := quiz.DefaultBank()
		if err != nil {
			return nil, err
		}
		c.bank = bank
	}
	return c, nil
}

// Step returns the current step.
func (c *Controller) Step() Step { return c.step }

// User returns the logged-in profile.
func (c *Controller) User() (session.Profile, bool) {
	if c.user == nil {
		return session.Profile{}, false
	}
	return *c.user, true
}

// Session returns the current session, or nil.
func (c *Controller) Session() *session.Session { return c.sess }

// Engine returns the questionnaire engine once StartQuiz has run.
func (c *Controller) Engine() *quiz.Engine { return c.engine }

// Rand returns the controller's random source.
func (c *Controller) Rand() *rand.Rand { return c.rng }

// Login validates the profile, then stores it as the current user together
// with a fresh session. Both writes must succeed; otherwise the controller
// stays on the identity step. A previous current session is overwritten.
func (c *Controller) Login(ctx context.Context, in session.ProfileInput) error {
	if err := session.ValidateProfile(in); err != nil {
		return err
	}
	now := c.now()
	id := session.NewID(now, c.rng)
	p := session.NewProfile(id, in, now)
	s := session.New(p, now)

	if !c.store.SaveCurrentUser(ctx, p) {
		return fmt.Errorf("%w: current user", ErrPersist)
	}
	if !c.store.SaveCurrentSession(ctx, s) {
		return fmt.Errorf("%w: current session", ErrPersist)
	}

	c.user = &p
	c.sess = s
	c.engine = nil
	c.rated = false
	c.step = StepAvatar
	c.log.Info("login", "session", s.ID, "age", p.Age, "gender", string(p.Gender))
	return nil
}

// Avatars returns the avatars offered to the current student.
func (c *Controller) Avatars() []session.Avatar {
	if c.sess == nil {
		return nil
	}
	return session.AvatarsFor(c.sess.Gender)
}

// ChooseAvatar stores the avatar with id in the current session.
func (c *Controller) ChooseAvatar(ctx context.Context, id string) error {
	if c.sess == nil {
		return ErrNoSession
	}
	a, ok := session.FindAvatar(c.sess.Gender, id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAvatar, id)
	}
	c.sess.SetAvatar(a)
	if !c.store.SaveCurrentSession(ctx, c.sess) {
		return fmt.Errorf("%w: avatar", ErrPersist)
	}
	c.step = StepInstructions
	return nil
}

// MarkInstructionsViewed records that the instructions were shown.
func (c *Controller) MarkInstructionsViewed(ctx context.Context) error {
	if c.sess == nil {
		return ErrNoSession
	}
	c.sess.MarkInstructionsViewed(c.now())
	if !c.store.SaveCurrentSession(ctx, c.sess) {
		return fmt.Errorf("%w: instructions", ErrPersist)
	}
	c.step = StepQuiz
	return nil
}

// StartQuiz selects the questions for today and starts the engine. Answers
// already in the session are kept.
func (c *Controller) StartQuiz(ctx context.Context) (*quiz.Engine, error) {
	if c.sess == nil {
		return nil, ErrNoSession
	}
	active := quiz.SelectActive(c.bank, c.now().Weekday(), c.rng)
	e := quiz.NewEngine(c.sess)
	if err := e.Start(active); err != nil {
		return nil, err
	}
	c.engine = e
	c.step = StepQuiz
	c.log.Debug("quiz started", "session", c.sess.ID, "questions", e.Len())
	return e, nil
}

// Answer records option for the current question and saves the session.
func (c *Controller) Answer(ctx context.Context, option int) error {
	if c.engine == nil {
		return quiz.ErrNotActive
	}
	if err := c.engine.Answer(option); err != nil {
		return err
	}
	if !c.store.SaveCurrentSession(ctx, c.sess) {
		c.log.Warn("answer not saved", "session", c.sess.ID)
	}
	return nil
}

// Advance moves to the next question.
func (c *Controller) Advance() error {
	if c.engine == nil {
		return quiz.ErrNotActive
	}
	return c.engine.Advance()
}

// Retreat moves to the previous question.
func (c *Controller) Retreat() {
	if c.engine != nil {
		c.engine.Retreat()
	}
}

// Finish completes the questionnaire and writes the session to the history.
// With unanswered questions and force unset it returns
// quiz.ErrConfirmationRequired. The current session slot is kept so the
// result and rating steps can read it.
func (c *Controller) Finish(ctx context.Context, force bool) (session.Summary, error) {
	if c.engine == nil {
		return session.Summary{}, quiz.ErrNotActive
	}
	if err := c.engine.Finish(force); err != nil {
		return session.Summary{}, err
	}
	if !c.store.UpsertHistory(ctx, *c.sess) {
		return session.Summary{}, fmt.Errorf("%w: history", ErrPersist)
	}
	if !c.store.SaveCurrentSession(ctx, c.sess) {
		c.log.Warn("completed session not saved as current", "session", c.sess.ID)
	}
	c.step = StepResult
	c.log.Info("session completed", "session", c.sess.ID, "dominant", c.sess.Dominant, "answers", c.sess.TotalAnswers)
	return session.Summarize(c.sess), nil
}

// Summary returns the results of the completed session.
func (c *Controller) Summary() (session.Summary, error) {
	if c.sess == nil {
		return session.Summary{}, ErrNoSession
	}
	if !c.sess.Completed {
		return session.Summary{}, ErrNotFinished
	}
	return session.Summarize(c.sess), nil
}

// OpenRating moves from the result to the rating form.
func (c *Controller) OpenRating() error {
	if c.sess == nil {
		return ErrNoSession
	}
	if !c.sess.Completed {
		return ErrNotFinished
	}
	c.step = StepRating
	return nil
}

// SubmitRating validates the form and appends a new rating.
func (c *Controller) SubmitRating(ctx context.Context, in rating.Input) (rating.Rating, error) {
	if c.sess == nil {
		return rating.Rating{}, ErrNoSession
	}
	if !c.sess.Completed {
		return rating.Rating{}, ErrNotFinished
	}
	if c.rated {
		return rating.Rating{}, ErrAlreadyRated
	}
	r, err := rating.New(c.sess, in, c.now(), c.rng)
	if err != nil {
		return rating.Rating{}, err
	}
	if !c.store.AppendRating(ctx, r) {
		return rating.Rating{}, fmt.Errorf("%w: rating", ErrPersist)
	}
	c.rated = true
	c.step = StepDone
	c.log.Info("rating submitted", "rating", r.ID, "session", r.SessionID, "stars", r.Stars)
	return r, nil
}

// RecordView counts a visit to a wellness resource.
func (c *Controller) RecordView(ctx context.Context, resource string) int {
	n, ok := c.store.RecordView(ctx, resource)
	if !ok {
		c.log.Warn("view not recorded", "resource", resource)
	}
	return n
}

// Pending returns the stored current session when it was left unfinished.
func (c *Controller) Pending(ctx context.Context) (*session.Session, bool) {
	s, ok := c.store.LoadCurrentSession(ctx)
	if !ok || s.Completed {
		return nil, false
	}
	return s, true
}

// Resume restores an unfinished session and returns the step it continues
// from.
func (c *Controller) Resume(ctx context.Context) (Step, error) {
	s, ok := c.Pending(ctx)
	if !ok {
		return c.step, ErrNoSession
	}
	if p, ok := c.store.LoadCurrentUser(ctx); ok {
		c.user = &p
	}
	c.sess = s
	c.engine = nil
	c.rated = false
	switch {
	case s.Avatar == nil:
		c.step = StepAvatar
	case !s.InstructionsViewed:
		c.step = StepInstructions
	default:
		c.step = StepQuiz
	}
	c.log.Info("session resumed", "session", s.ID, "step", c.step.String())
	return c.step, nil
}

// Restart drops the current session and returns to the identity step. The
// current user slot is kept.
func (c *Controller) Restart(ctx context.Context) {
	c.store.ClearCurrentSession(ctx)
	c.sess = nil
	c.engine = nil
	c.rated = false
	c.step = StepIdentity
}

// Logout clears both the current user and the current session.
func (c *Controller) Logout(ctx context.Context) {
	c.store.ClearCurrentSession(ctx)
	c.store.ClearCurrentUser(ctx)
	c.user = nil
	c.sess = nil
	c.engine = nil
	c.rated = false
	c.step = StepIdentity
}
