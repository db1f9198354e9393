package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/config"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"
)

var (
	// ErrProcessFailed is returned when the recommender could not start, exited non-zero or timed out.
	ErrProcessFailed = errors.New("recommender process failed")
	// ErrInvalidResponse is returned when the recommender printed something other than a result document.
	ErrInvalidResponse = errors.New("recommender returned an invalid response")
)

const (
	recommendationSource = "stock_advisor"
	recommendationsLimit = 50
	processWaitDelay     = 2 * time.Second
	maxStderrLogBytes    = 4096
	maxStdoutBytes       = 1 << 20
)

// Recommender produces recommendations for one user.
type Recommender interface {
	Recommend(ctx context.Context, userID string) (*dto.RecommendationResult, error)
}

// RecommendationService runs the recommender and keeps the history.
type RecommendationService interface {
	Recommend(ctx context.Context, userID uint) (*dto.RecommendationResult, error)
	History(ctx context.Context, userID uint) ([]entity.Recommendation, error)
}

// NewProcessRecommender creates a Recommender that runs an external command
// and reads a JSON document from its stdout. The user id is the last argument.
func NewProcessRecommender(cfg config.Recommender, log *logger.Logger) Recommender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &processRecommender{
		command: cfg.Command,
		args:    cfg.Args,
		dir:     cfg.Dir,
		timeout:   timeout,
		maxStdout: maxStdoutBytes,
		logger:    log,
	}
}

type processRecommender struct {
	command   string
	args      []string
	dir       string
	timeout   time.Duration
	maxStdout int
	logger    *logger.Logger
}

func (r *processRecommender) Recommend(ctx context.Context, userID string) (*dto.RecommendationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, r.args...), userID)
	cmd := exec.CommandContext(ctx, r.command, args...)
	cmd.Dir = r.dir
	cmd.WaitDelay = processWaitDelay

	stdout := &limitedBuffer{limit: r.maxStdout}
	stderr := &limitedBuffer{limit: maxStderrLogBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		r.logger.ErrorContext(ctx, "Recommender process failed",
			logger.ErrorField(err),
			logger.StringField("user_id", userID),
			logger.StringField("stderr", stderr.String()),
			logger.Field("duration", time.Since(start)),
		)
		return nil, fmt.Errorf("%w: %v", ErrProcessFailed, err)
	}

	result, err := readRecommendation(stdout)
	if err != nil {
		r.logger.ErrorContext(ctx, "Recommender returned an invalid response",
			logger.ErrorField(err),
			logger.StringField("user_id", userID),
			logger.IntField("stdout_bytes", stdout.Len()),
		)
		return nil, err
	}
	if result.UserID == "" {
		result.UserID = userID
	}
	return result, nil
}

func readRecommendation(out *limitedBuffer) (*dto.RecommendationResult, error) {
	if out.overflow {
		return nil, fmt.Errorf("%w: stdout exceeds %d bytes", ErrInvalidResponse, out.limit)
	}
	return parseRecommendation(out.Bytes())
}

func parseRecommendation(raw []byte) (*dto.RecommendationResult, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, fmt.Errorf("%w: stdout is not a JSON object", ErrInvalidResponse)
	}
	var result dto.RecommendationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if result.RecommendedStocks == nil && result.RecommendedMutualFunds == nil {
		return nil, fmt.Errorf("%w: no recommendation lists", ErrInvalidResponse)
	}
	if result.RecommendedStocks == nil {
		result.RecommendedStocks = []dto.RecommendationItem{}
	}
	if result.RecommendedMutualFunds == nil {
		result.RecommendedMutualFunds = []dto.RecommendationItem{}
	}
	return &result, nil
}

// limitedBuffer keeps the first limit bytes written to it and drops the rest.
// Writes never fail so the child is not killed by a broken pipe.
type limitedBuffer struct {
	bytes.Buffer
	limit    int
	overflow bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room < len(p) {
		b.overflow = true
		if room > 0 {
			b.Buffer.Write(p[:room])
		}
		return len(p), nil
	}
	return b.Buffer.Write(p)
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(recommender Recommender, recommendationRepo repository.RecommendationRepository, log *logger.Logger) RecommendationService {
	return &recommendationService{
		recommender:        recommender,
		recommendationRepo: recommendationRepo,
		logger:             log,
	}
}

type recommendationService struct {
	recommender        Recommender
	recommendationRepo repository.RecommendationRepository
	logger             *logger.Logger
}

// Recommend runs the recommender for userID and appends the result to the history.
func (s *recommendationService) Recommend(ctx context.Context, userID uint) (*dto.RecommendationResult, error) {
	result, err := s.recommender.Recommend(ctx, strconv.FormatUint(uint64(userID), 10))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindUpstream, "Recommendation service unavailable", err)
	}

	record := &entity.Recommendation{UserID: userID, Source: recommendationSource}
	if record.RecommendedStocks, err = json.Marshal(result.RecommendedStocks); err == nil {
		record.RecommendedMutualFunds, err = json.Marshal(result.RecommendedMutualFunds)
	}
	if err == nil {
		err = s.recommendationRepo.Create(ctx, record)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to store recommendation", logger.ErrorField(err), logger.Field("user_id", userID))
	}

	return result, nil
}

// History returns the latest recommendations of a user, newest first.
func (s *recommendationService) History(ctx context.Context, userID uint) ([]entity.Recommendation, error) {
	recommendations, err := s.recommendationRepo.FindAllByUser(ctx, userID, recommendationsLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list recommendations", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch recommendations", err)
	}
	return recommendations, nil
}
