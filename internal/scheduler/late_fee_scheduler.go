package scheduler

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
)

// LateFeeScheduler runs the nightly sweep that posts accrued late fees to
// overdue active loans. It only calls into FeeService.ApplyLateFee; loans
// that are already up to date are skipped.
type LateFeeScheduler struct {
	cron        *cron.Cron
	pawnService service.TitlePawnService
	feeService  service.FeeService
	spec        string
}

func NewLateFeeScheduler(
	pawnService service.TitlePawnService,
	feeService service.FeeService,
	spec string,
) *LateFeeScheduler {
	return &LateFeeScheduler{
		cron:        cron.New(),
		pawnService: pawnService,
		feeService:  feeService,
		spec:        spec,
	}
}

func (s *LateFeeScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.Sweep)
	if err != nil {
		logger.Error("Failed to add cron job for late fee sweep", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Late fee scheduler started", map[string]interface{}{
		"spec": s.spec,
	})

	return nil
}

// Sweep posts outstanding late fees for every overdue active loan. Also
// callable directly for a manual run.
func (s *LateFeeScheduler) Sweep() {
	asOf := time.Now()
	logger.Info("Starting late fee sweep", map[string]interface{}{
		"as_of": asOf,
	})

	loans, err := s.pawnService.GetOverdueLoans(asOf)
	if err != nil {
		logger.Error("Failed to list overdue loans", err, nil)
		return
	}

	posted, skipped, failed := 0, 0, 0
	for i := range loans {
		loan := &loans[i]

		fee, err := s.feeService.ApplyLateFee(loan.ID, loan.CompanyID, asOf)
		if err != nil {
			if errors.Is(err, service.ErrNothingToPost) {
				skipped++
				continue
			}
			failed++
			logger.Error("Failed to apply late fee", err, map[string]interface{}{
				"title_pawn_id": loan.ID,
			})
			continue
		}

		posted++
		logger.Info("Late fee posted", map[string]interface{}{
			"title_pawn_id": loan.ID,
			"fee_id":        fee.ID,
			"amount":        fee.Amount.String(),
		})
	}

	logger.Info("Late fee sweep finished", map[string]interface{}{
		"overdue": len(loans),
		"posted":  posted,
		"skipped": skipped,
		"failed":  failed,
	})
}

func (s *LateFeeScheduler) Stop() {
	logger.Info("Stopping late fee scheduler...", nil)
	s.cron.Stop()
	logger.Info("Late fee scheduler stopped", nil)
}
