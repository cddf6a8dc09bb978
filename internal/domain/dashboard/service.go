package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finpulse/internal/domain/account"
	"finpulse/internal/domain/budget"
	"finpulse/internal/domain/transaction"
	"finpulse/internal/shared/stream"
)

// Service derives dashboard snapshots from a user's collections.
type Service struct {
	transactions transaction.Repository
	accounts     account.Repository
	budgets      budget.Repository
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	transactions transaction.Repository,
	accounts account.Repository,
	budgets budget.Repository,
	loc *time.Location,
	logger *zap.Logger,
) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		transactions: transactions,
		accounts:     accounts,
		budgets:      budgets,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
	}
}

// Current reads the three collections concurrently and computes one snapshot.
// An empty userID yields Empty().
func (s *Service) Current(ctx context.Context, userID string) (Snapshot, error) {
	if userID == "" {
		return Empty(), nil
	}

	var (
		txs      []transaction.Transaction
		accounts []account.Account
		budgets  []budget.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.transactions.ListByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		accounts, err = s.accounts.ListByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.ListByUserID(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	return Compute(txs, accounts, budgets, s.now(), s.loc), nil
}

// Watch emits a fresh snapshot whenever transactions, accounts or budgets
// change. Without a signed-in user every source emits one empty set, so the
// feed still yields Empty() instead of staying silent.
func (s *Service) Watch(ctx context.Context, userID string) stream.Subscription[Snapshot] {
	if userID == "" {
		return stream.CombineLatest3(ctx,
			stream.Just(ctx, []transaction.Transaction{}),
			stream.Just(ctx, []account.Account{}),
			stream.Just(ctx, []budget.Budget{}),
			func([]transaction.Transaction, []account.Account, []budget.Budget) Snapshot {
				return Empty()
			},
		)
	}

	s.logger.Debug("dashboard watch started", zap.String("user_id", userID))
	return stream.CombineLatest3(ctx,
		s.transactions.WatchByUserID(ctx, userID),
		s.accounts.WatchByUserID(ctx, userID),
		s.budgets.WatchByUserID(ctx, userID),
		func(txs []transaction.Transaction, accounts []account.Account, budgets []budget.Budget) Snapshot {
			return Compute(txs, accounts, budgets, s.now(), s.loc)
		},
	)
}
