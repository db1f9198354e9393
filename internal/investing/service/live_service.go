package service

import (
	"context"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"investing-backend/internal/investing/dto"
	"investing-backend/pkg/common"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/utils"
)

// FrameWriter sends one JSON message to a connected client.
type FrameWriter interface {
	WriteJSON(v interface{}) error
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithRandSource replaces the per-connection random source factory.
func WithRandSource(newSource func() rand.Source) BroadcasterOption {
	return func(b *Broadcaster) {
		b.newSource = newSource
	}
}

// Broadcaster pushes simulated live quotes to each connection on its own ticker.
// The simulated values never leave the connection; the catalog is not written.
type Broadcaster struct {
	masterService MasterService
	interval      time.Duration
	maxChange     float64
	logger        *logger.Logger
	newSource     func() rand.Source
	now           func() time.Time
	active        atomic.Int64
}

// NewBroadcaster creates a new Broadcaster.
func NewBroadcaster(masterService MasterService, interval time.Duration, maxChange float64, log *logger.Logger, opts ...BroadcasterOption) *Broadcaster {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxChange < 0 {
		maxChange = -maxChange
	}
	b := &Broadcaster{
		masterService: masterService,
		interval:      interval,
		maxChange:     maxChange,
		logger:        log,
		now:           utils.TimeNowIST,
		newSource: func() rand.Source {
			return rand.NewPCG(rand.Uint64(), rand.Uint64())
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Active reports the number of connections currently streaming.
func (b *Broadcaster) Active() int {
	return int(b.active.Load())
}

// Stream writes a liveMutualFunds and a liveStocks event on every tick until
// ctx is cancelled or a write fails.
func (b *Broadcaster) Stream(ctx context.Context, connID string, w FrameWriter) error {
	b.active.Add(1)
	defer b.active.Add(-1)

	walk := newPriceWalk(rand.New(b.newSource()), b.maxChange)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.InfoContext(ctx, "Live stream started", logger.StringField("conn_id", connID), logger.IntField("active", b.Active()))
	defer b.logger.InfoContext(ctx, "Live stream stopped", logger.StringField("conn_id", connID))

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := b.tick(ctx, walk, w); err != nil {
				b.logger.WarnContext(ctx, "Failed to push live update", logger.ErrorField(err), logger.StringField("conn_id", connID))
				return err
			}
		}
	}
}

func (b *Broadcaster) tick(ctx context.Context, walk *priceWalk, w FrameWriter) error {
	date := utils.DateString(b.now())

	funds, err := b.masterService.ListFunds(ctx, dto.Page{})
	if err != nil {
		b.logger.WarnContext(ctx, "Skipping live funds, catalog unavailable", logger.ErrorField(err))
	} else {
		data := make([]dto.LiveMutualFund, 0, len(funds))
		for _, f := range funds {
			latest, ok := f.LatestNAV()
			if !ok {
				continue
			}
			data = append(data, dto.LiveMutualFund{
				Symbol: f.Symbol,
				Name:   f.Name,
				Value:  walk.next("mf:"+f.ISIN, latest.NAV),
				Date:   date,
			})
		}
		if err := w.WriteJSON(dto.LiveEvent{Event: common.EventLiveMutualFunds, Data: data}); err != nil {
			return err
		}
	}

	stocks, err := b.masterService.ListStocks(ctx, dto.Page{})
	if err != nil {
		b.logger.WarnContext(ctx, "Skipping live stocks, catalog unavailable", logger.ErrorField(err))
		return nil
	}
	data := make([]dto.LiveStock, 0, len(stocks))
	for _, s := range stocks {
		latest, ok := s.LatestPrice()
		if !ok {
			continue
		}
		data = append(data, dto.LiveStock{
			Symbol:       s.Symbol,
			Name:         s.Name,
			CurrentPrice: walk.next("stock:"+s.Symbol, latest.Price),
			Date:         date,
		})
	}
	return w.WriteJSON(dto.LiveEvent{Event: common.EventLiveStocks, Data: data})
}

// priceWalk is a per-connection random walk seeded from persisted prices.
type priceWalk struct {
	rnd       *rand.Rand
	maxChange float64
	last      map[string]float64
}

func newPriceWalk(rnd *rand.Rand, maxChange float64) *priceWalk {
	return &priceWalk{rnd: rnd, maxChange: maxChange, last: make(map[string]float64)}
}

// next moves the value of key by a uniform factor in [-maxChange, +maxChange].
// The first call for a key starts from base.
func (p *priceWalk) next(key string, base float64) float64 {
	prev, ok := p.last[key]
	if !ok {
		prev = base
	}
	value := prev * p.factor()
	p.last[key] = value
	return value
}

func (p *priceWalk) factor() float64 {
	return 1 + (p.rnd.Float64()*2-1)*p.maxChange
}
