package quiz

import (
	"errors"
	"fmt"

	"github.com/zeusync/gallery/internal/core/events/bus"
	"github.com/zeusync/gallery/internal/core/observability/log"
)

var (
	ErrInvalidQuiz  = errors.New("quiz: invalid config")
	ErrAlreadyBound = errors.New("quiz: gate already bound")
)

// Question offers two answers; Correct is the index of the right one.
type Question struct {
	Prompt  string    `yaml:"prompt"`
	Answers [2]string `yaml:"answers"`
	Correct int       `yaml:"correct"`
}

type Config struct {
	// Buttons are the target names that pick answer 0 and answer 1.
	Buttons   [2]string  `yaml:"buttons"`
	Questions []Question `yaml:"questions"`
}

func (c Config) Validate() error {
	if c.Buttons[0] == "" || c.Buttons[1] == "" {
		return fmt.Errorf("%w: both buttons must be named", ErrInvalidQuiz)
	}
	if c.Buttons[0] == c.Buttons[1] {
		return fmt.Errorf("%w: buttons share the name %q", ErrInvalidQuiz, c.Buttons[0])
	}
	if len(c.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	for i, q := range c.Questions {
		if q.Correct != 0 && q.Correct != 1 {
			return fmt.Errorf("%w: question %d: correct answer %d", ErrInvalidQuiz, i, q.Correct)
		}
	}
	return nil
}

// Answered is the payload of quiz.answered.
type Answered struct {
	Index   int
	Choice  int
	Correct bool
	Score   int
}

// Result is the payload of quiz.finished.
type Result struct {
	Score  int
	Total  int
	Failed bool
}

// Gate walks through the questions as the answer buttons get shot. A wrong
// answer or answering the last question finishes the quiz; later hits are
// ignored, so a failed run stops on the question after the wrong answer
// instead of playing on to the end.
type Gate struct {
	cfg  Config
	bus  bus.EventBus
	log  log.Log
	subs []bus.Subscription

	index    int
	score    int
	failed   bool
	finished bool
}

func NewGate(cfg Config, eventBus bus.EventBus, logger log.Log) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gate{cfg: cfg, bus: eventBus, log: logger.Named("quiz")}, nil
}

// Bind subscribes to hits on both buttons.
func (g *Gate) Bind() error {
	if len(g.subs) > 0 {
		return ErrAlreadyBound
	}
	for choice, button := range g.cfg.Buttons {
		sub, err := g.bus.SubscribeSource(bus.EventHit, button, func(bus.Event) error {
			return g.Answer(choice)
		})
		if err != nil {
			g.Close()
			return err
		}
		g.subs = append(g.subs, sub)
	}
	return nil
}

// Close drops the button subscriptions.
func (g *Gate) Close() {
	for _, sub := range g.subs {
		_ = g.bus.Unsubscribe(sub)
	}
	g.subs = nil
}

// Answer records choice for the current question.
func (g *Gate) Answer(choice int) error {
	if g.finished {
		return nil
	}
	q := g.cfg.Questions[g.index]
	correct := choice == q.Correct
	if correct {
		g.score++
	} else {
		g.failed = true
	}

	answered := Answered{Index: g.index, Choice: choice, Correct: correct, Score: g.score}
	g.log.Info("quiz answered",
		log.Int("index", g.index),
		log.Int("choice", choice),
		log.Bool("correct", correct),
	)

	g.index++
	if g.index == len(g.cfg.Questions) {
		g.index = len(g.cfg.Questions) - 1
		g.finished = true
	}
	if g.failed {
		g.finished = true
	}

	err := g.bus.Publish(bus.NewEvent(bus.EventQuizAnswered, "quiz", answered))
	if g.finished {
		res := g.Result()
		g.log.Info("quiz finished", log.Int("score", res.Score), log.Bool("failed", res.Failed))
		err = errors.Join(err, g.bus.Publish(bus.NewEvent(bus.EventQuizFinished, "quiz", res)))
	}
	return err
}

func (g *Gate) Index() int     { return g.index }
func (g *Gate) Score() int     { return g.score }
func (g *Gate) Failed() bool   { return g.failed }
func (g *Gate) Finished() bool { return g.finished }

// Current is the question on screen.
func (g *Gate) Current() Question { return g.cfg.Questions[g.index] }

func (g *Gate) Result() Result {
	return Result{Score: g.score, Total: len(g.cfg.Questions), Failed: g.failed}
}
