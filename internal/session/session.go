package session

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"battery-arbitrage/internal/backtest"
	"battery-arbitrage/internal/data"
	"battery-arbitrage/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ErrNoDataset is returned by analysis operations before any successful upload.
var ErrNoDataset = errors.New("no dataset loaded: upload a price file first")

// DefaultMaxUploadBytes caps raw upload size when Options leaves it unset.
const DefaultMaxUploadBytes = 20 << 20

type Options struct {
	MaxUploadBytes int64
	Cache          *ResultCache // nil disables result caching
	Engine         *backtest.Engine
	Logger         logrus.FieldLogger
	Now            func() time.Time
}

// Session owns the process-wide current dataset. Uploads publish a new,
// fully loaded dataset with a single pointer swap; analyses read one snapshot
// and never observe a partially loaded dataset.
type Session struct {
	current  atomic.Pointer[model.Dataset]
	maxBytes int64
	cache    *ResultCache
	engine   *backtest.Engine
	log      logrus.FieldLogger
	now      func() time.Time
}

func New(opts Options) *Session {
	s := &Session{
		maxBytes: opts.MaxUploadBytes,
		cache:    opts.Cache,
		engine:   opts.Engine,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxUploadBytes
	}
	if s.engine == nil {
		s.engine = backtest.New(nil)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Upload parses raw and, on success only, replaces the current dataset.
// A failed upload leaves the previous dataset in place.
func (s *Session) Upload(raw []byte, source string) (*model.Dataset, error) {
	log := s.log.WithField("source", source)

	if int64(len(raw)) > s.maxBytes {
		err := &data.LoadError{
			Code:    data.CodeFileTooLarge,
			Message: "file exceeds upload limit",
		}
		log.WithField("bytes", len(raw)).Error(err)
		return nil, err
	}

	ds, err := data.Load(raw)
	if err != nil {
		log.WithError(err).Error("upload rejected")
		return nil, err
	}
	ds.ID = uuid.NewString()
	ds.Source = source
	ds.LoadedAt = s.now()

	s.current.Store(ds)
	s.cache.Clear()

	log.WithFields(logrus.Fields{
		"dataset_id": ds.ID,
		"rows":       len(ds.Records),
	}).Info("dataset loaded")
	return ds, nil
}

// Current returns the current dataset snapshot, or ErrNoDataset.
func (s *Session) Current() (*model.Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}
	return ds, nil
}

// Analyze runs the full daily, monthly and yearly roll-up against a single
// dataset snapshot.
func (s *Session) Analyze(capacity int, price decimal.Decimal) (*backtest.Result, error) {
	params, err := model.NewBatteryParams(capacity, price)
	if err != nil {
		return nil, err
	}
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}

	daily, monthly, err := s.dailyAndMonthly(ds, capacity)
	if err != nil {
		return nil, err
	}
	yearly, err := s.engine.Yearly(monthly, params, s.now())
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"dataset_id": ds.ID,
		"capacity":   capacity,
		"days":       len(daily),
		"unbounded":  yearly.Unbounded,
	}).Debug("analysis complete")
	return &backtest.Result{Daily: daily, Monthly: monthly, Yearly: yearly}, nil
}

func (s *Session) Daily(capacity int) ([]model.DailySummary, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	daily, _, err := s.dailyAndMonthly(ds, capacity)
	return daily, err
}

func (s *Session) Monthly(capacity int) ([]model.MonthlySummary, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	ds, err := s.Current()
	if err != nil {
		return nil, err
	}
	_, monthly, err := s.dailyAndMonthly(ds, capacity)
	return monthly, err
}

func (s *Session) Yearly(capacity int, price decimal.Decimal) (model.YearlySummary, error) {
	res, err := s.Analyze(capacity, price)
	if err != nil {
		return model.YearlySummary{}, err
	}
	return res.Yearly, nil
}

func (s *Session) dailyAndMonthly(ds *model.Dataset, capacity int) ([]model.DailySummary, []model.MonthlySummary, error) {
	key := cacheKey(ds.ID, capacity)
	if daily, monthly, ok := s.cache.Get(key); ok {
		return daily, monthly, nil
	}

	daily, err := s.engine.Daily(ds, capacity)
	if err != nil {
		s.log.WithError(err).WithField("dataset_id", ds.ID).Error("daily analysis failed")
		return nil, nil, err
	}
	monthly, err := s.engine.Monthly(daily)
	if err != nil {
		s.log.WithError(err).WithField("dataset_id", ds.ID).Error("monthly analysis failed")
		return nil, nil, err
	}

	// A newer upload may have landed meanwhile; its id differs, so this entry
	// is simply never read.
	s.cache.Set(key, daily, monthly)
	return daily, monthly, nil
}

func checkCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be > 0", model.ErrInvalidParams)
	}
	return nil
}
