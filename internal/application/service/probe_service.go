package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// RunResult is the outcome of ProbeService.Run
type RunResult struct {
	Run     *model.Run
	Records []model.ResultRecord
}

// ProbeService runs one request session per request spec concurrently and
// joins them into a single ordered list of result records.
type ProbeService struct {
	config    *model.Config
	factory   port.RunnerFactory
	newSink   port.SinkFactory
	history   port.HistoryRepository
	publisher port.Publisher
	observers []port.ResultObserver
	logger    port.Logger
}

// NewProbeService creates a new ProbeService instance
func NewProbeService(config *model.Config, factory port.RunnerFactory, newSink port.SinkFactory, logger port.Logger) *ProbeService {
	return &ProbeService{
		config:  config,
		factory: factory,
		newSink: newSink,
		logger:  logger,
	}
}

// SetHistory stores every finished run in history
func (s *ProbeService) SetHistory(history port.HistoryRepository) {
	s.history = history
}

// SetPublisher streams run events to publisher
func (s *ProbeService) SetPublisher(publisher port.Publisher) {
	s.publisher = publisher
}

// AddObserver registers an observer notified of every record
func (s *ProbeService) AddObserver(observer port.ResultObserver) {
	s.observers = append(s.observers, observer)
}

// Run executes every spec of set. Configuration errors are returned before
// any connection is attempted. Once the sessions are started Run waits for
// all of them and returns N x R records, failed rounds included, in the
// order they were appended.
func (s *ProbeService) Run(ctx context.Context, set *model.RequestSet) (*RunResult, error) {
	specs := set.Specs()
	if len(specs) == 0 {
		return nil, model.Configurationf("no requests to run")
	}

	prepared := make([]*model.RequestSpec, 0, len(specs))
	for _, spec := range specs {
		spec = spec.Clone()
		spec.ApplyDefaults(s.config.DefaultHeaders)
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		prepared = append(prepared, spec)
	}

	run := &model.Run{ID: uuid.NewString(), Requests: len(specs)}
	observers := append([]port.ResultObserver(nil), s.observers...)
	var publisher *publishObserver
	if s.publisher != nil {
		publisher = &publishObserver{service: s, runID: run.ID}
		observers = append(observers, publisher)
	}
	sink := s.newSink(observers...)

	runners := make([]port.RequestRunner, 0, len(prepared))
	for _, spec := range prepared {
		runner := s.factory.NewRunner(spec, sink)
		if err := runner.Prepare(); err != nil {
			return nil, fmt.Errorf("%s: %w", spec.Key(), err)
		}
		runners = append(runners, runner)
	}

	run.StartedAt = time.Now()
	publishing := publisher != nil && s.connectPublisher()
	if publishing {
		defer s.closePublisher()
		publisher.enabled = true
		urls := make([]string, len(prepared))
		for i, spec := range prepared {
			urls[i] = spec.Key()
		}
		s.publish(model.MessageTypeRunStarted, run.ID, model.RunStartedPayload{URLs: urls, StartedAt: run.StartedAt})
	}
	s.logger.Info("Run %s started with %d request(s)", run.ID, len(runners))

	var g errgroup.Group
	for _, runner := range runners {
		runner := runner
		g.Go(func() error {
			s.sessionStarted(observers)
			defer s.sessionFinished(observers)
			return runner.Run(ctx)
		})
	}
	err := g.Wait()

	run.FinishedAt = time.Now()
	records := sink.All()
	run.Summary = model.Summarize(records)
	s.logger.Info("Run %s finished: %d record(s), %d failed, %d timed out",
		run.ID, run.Summary.Count, run.Summary.Failed, run.Summary.TimedOut)

	if s.history != nil {
		if herr := s.history.SaveRun(run, records); herr != nil {
			s.logger.Error("Failed to save run %s: %v", run.ID, herr)
		}
	}
	if publishing {
		s.publish(model.MessageTypeRunFinished, run.ID, model.RunFinishedPayload{Summary: run.Summary, FinishedAt: run.FinishedAt})
	}

	return &RunResult{Run: run, Records: records}, err
}

// Ping probes the container at endpoint count times with CPing
func (s *ProbeService) Ping(ctx context.Context, endpoint model.Endpoint, count int) []model.ResultRecord {
	if count < 1 {
		count = 1
	}
	s.logger.Debug("Pinging %s %d time(s)", endpoint, count)
	return s.factory.Ping(ctx, endpoint, count)
}

// History returns the most recent runs
func (s *ProbeService) History(limit int) ([]*model.Run, error) {
	if s.history == nil {
		return nil, fmt.Errorf("result history is not configured")
	}
	return s.history.ListRuns(limit)
}

// RunResults returns the stored records of a run
func (s *ProbeService) RunResults(runID string) ([]model.ResultRecord, error) {
	if s.history == nil {
		return nil, fmt.Errorf("result history is not configured")
	}
	return s.history.GetResults(runID)
}

func (s *ProbeService) sessionStarted(observers []port.ResultObserver) {
	for _, o := range observers {
		if so, ok := o.(port.SessionObserver); ok {
			so.SessionStarted()
		}
	}
}

func (s *ProbeService) sessionFinished(observers []port.ResultObserver) {
	for _, o := range observers {
		if so, ok := o.(port.SessionObserver); ok {
			so.SessionFinished()
		}
	}
}

func (s *ProbeService) connectPublisher() bool {
	if s.publisher == nil {
		return false
	}
	if err := s.publisher.Connect(); err != nil {
		s.logger.Warn("Result publishing disabled: %v", err)
		return false
	}
	return true
}

func (s *ProbeService) closePublisher() {
	if err := s.publisher.Close(); err != nil {
		s.logger.Debug("Closing publisher: %v", err)
	}
}

func (s *ProbeService) publish(msgType model.MessageType, runID string, payload interface{}) {
	msg, err := model.NewMessage(msgType, runID, payload)
	if err != nil {
		s.logger.Error("Failed to create %s message: %v", msgType, err)
		return
	}
	if err := s.publisher.Publish(msg); err != nil {
		s.logger.Warn("Failed to publish %s message: %v", msgType, err)
	}
}

// publishObserver forwards every record to the publisher once enabled.
// enabled is only written before the sessions start.
type publishObserver struct {
	service *ProbeService
	runID   string
	enabled bool
}

func (o *publishObserver) Observe(record model.ResultRecord) {
	if o.enabled {
		o.service.publish(model.MessageTypeResult, o.runID, record)
	}
}
