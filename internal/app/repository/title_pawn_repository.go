package repository

import (
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TitlePawnRepository interface {
	Create(pawn *model.TitlePawn) error
	FindByID(id uint) (*model.TitlePawn, error)
	FindByIDForUpdate(tx *gorm.DB, id uint) (*model.TitlePawn, error)
	FindByCompany(companyID uint, status model.TitlePawnStatus) ([]model.TitlePawn, error)
	FindByVehicle(vehicleID uint) ([]model.TitlePawn, error)
	FindOverdueActive(asOf time.Time) ([]model.TitlePawn, error)
	Update(pawn *model.TitlePawn) error
	CountApprovedByUserOnDate(userID uint, date time.Time) (int64, decimal.Decimal, error)
}

type titlePawnRepository struct {
	db *gorm.DB
}

func NewTitlePawnRepository(db *gorm.DB) TitlePawnRepository {
	return &titlePawnRepository{db: db}
}

func (r *titlePawnRepository) preloadPawn() *gorm.DB {
	return r.db.Preload("Store").
		Preload("Vehicle", func(db *gorm.DB) *gorm.DB {
			return db.Preload("Customer")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC")
		}).
		Preload("Fees", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		})
}

func (r *titlePawnRepository) Create(pawn *model.TitlePawn) error {
	logger.Debug("Creating title pawn in database", map[string]interface{}{
		"company_id": pawn.CompanyID,
		"store_id":   pawn.StoreID,
		"vehicle_id": pawn.VehicleID,
		"requested":  pawn.LoanAmountRequested,
	})

	if err := r.db.Create(pawn).Error; err != nil {
		logger.Error("Failed to create title pawn in database", err, map[string]interface{}{
			"company_id": pawn.CompanyID,
			"vehicle_id": pawn.VehicleID,
		})
		return err
	}

	logger.Debug("Title pawn created in database", map[string]interface{}{
		"title_pawn_id": pawn.ID,
		"status":        pawn.Status,
	})
	return nil
}

func (r *titlePawnRepository) FindByID(id uint) (*model.TitlePawn, error) {
	var pawn model.TitlePawn
	if err := r.preloadPawn().First(&pawn, id).Error; err != nil {
		logger.Error("Failed to find title pawn by ID in database", err, map[string]interface{}{
			"title_pawn_id": id,
		})
		return nil, err
	}
	return &pawn, nil
}

// FindByIDForUpdate loads the loan inside the caller's transaction with a row
// lock, so concurrent payments against the same loan serialize.
func (r *titlePawnRepository) FindByIDForUpdate(tx *gorm.DB, id uint) (*model.TitlePawn, error) {
	var pawn model.TitlePawn
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Store").
		Preload("Payments").
		Preload("Fees").
		First(&pawn, id).Error; err != nil {
		logger.Error("Failed to lock title pawn for update", err, map[string]interface{}{
			"title_pawn_id": id,
		})
		return nil, err
	}
	return &pawn, nil
}

func (r *titlePawnRepository) FindByCompany(companyID uint, status model.TitlePawnStatus) ([]model.TitlePawn, error) {
	query := r.preloadPawn().Where("company_id = ?", companyID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var pawns []model.TitlePawn
	if err := query.Order("created_at DESC").Find(&pawns).Error; err != nil {
		logger.Error("Failed to find title pawns by company in database", err, map[string]interface{}{
			"company_id": companyID,
			"status":     status,
		})
		return nil, err
	}

	logger.Debug("Title pawns found by company in database", map[string]interface{}{
		"company_id": companyID,
		"status":     status,
		"count":      len(pawns),
	})
	return pawns, nil
}

func (r *titlePawnRepository) FindByVehicle(vehicleID uint) ([]model.TitlePawn, error) {
	var pawns []model.TitlePawn
	if err := r.preloadPawn().
		Where("vehicle_id = ?", vehicleID).
		Order("created_at DESC").
		Find(&pawns).Error; err != nil {
		logger.Error("Failed to find title pawns by vehicle in database", err, map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return nil, err
	}
	return pawns, nil
}

// FindOverdueActive returns active loans past maturity at the given instant,
// with stores and payments preloaded for late-fee math.
func (r *titlePawnRepository) FindOverdueActive(asOf time.Time) ([]model.TitlePawn, error) {
	var pawns []model.TitlePawn
	if err := r.db.
		Preload("Store").
		Preload("Payments").
		Preload("Fees").
		Where("status = ? AND loan_maturity_date < ?", model.StatusActive, asOf).
		Order("loan_maturity_date ASC").
		Find(&pawns).Error; err != nil {
		logger.Error("Failed to find overdue title pawns in database", err, map[string]interface{}{
			"as_of": asOf,
		})
		return nil, err
	}

	logger.Debug("Overdue title pawns found in database", map[string]interface{}{
		"as_of": asOf,
		"count": len(pawns),
	})
	return pawns, nil
}

func (r *titlePawnRepository) Update(pawn *model.TitlePawn) error {
	if err := r.db.Save(pawn).Error; err != nil {
		logger.Error("Failed to update title pawn in database", err, map[string]interface{}{
			"title_pawn_id": pawn.ID,
		})
		return err
	}
	return nil
}

// CountApprovedByUserOnDate returns how many loans the user approved on the
// given calendar day and the dollar total, for daily approval limit checks.
func (r *titlePawnRepository) CountApprovedByUserOnDate(userID uint, date time.Time) (int64, decimal.Decimal, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int64
	if err := r.db.Model(&model.TitlePawn{}).
		Where("approved_by_user_id = ? AND updated_at >= ? AND updated_at < ? AND status NOT IN ?",
			userID, dayStart, dayEnd, []model.TitlePawnStatus{model.StatusPending}).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count user approvals for day", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, decimal.Zero, err
	}

	var sumResult struct {
		Total decimal.Decimal
	}
	if err := r.db.Model(&model.TitlePawn{}).
		Select("COALESCE(SUM(loan_amount_approved), 0) as total").
		Where("approved_by_user_id = ? AND updated_at >= ? AND updated_at < ? AND status NOT IN ?",
			userID, dayStart, dayEnd, []model.TitlePawnStatus{model.StatusPending}).
		Scan(&sumResult).Error; err != nil {
		logger.Error("Failed to sum user approvals for day", err, map[string]interface{}{
			"user_id": userID,
		})
		return 0, decimal.Zero, err
	}

	return count, sumResult.Total, nil
}
