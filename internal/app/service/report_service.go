package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/crownpawn/titlepawn-backend/internal/app/model"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ReportService renders back-office xlsx exports.
type ReportService interface {
	ExportActivePortfolio(companyID uint, asOf time.Time) (*bytes.Buffer, error)
	ExportPaymentHistory(companyID uint, from, to time.Time) (*bytes.Buffer, error)
}

type reportService struct {
	pawnRepo    repository.TitlePawnRepository
	paymentRepo repository.PaymentRepository
}

func NewReportService(pawnRepo repository.TitlePawnRepository, paymentRepo repository.PaymentRepository) ReportService {
	return &reportService{pawnRepo: pawnRepo, paymentRepo: paymentRepo}
}

// ExportActivePortfolio lists every active loan with its balances, maturity,
// and whether it is overdue as of the report instant.
func (s *reportService) ExportActivePortfolio(companyID uint, asOf time.Time) (*bytes.Buffer, error) {
	loans, err := s.pawnRepo.FindByCompany(companyID, model.StatusActive)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Active Portfolio"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{
		"Loan ID", "Store", "Vehicle", "Customer", "Principal", "Rate %",
		"Monthly Payment", "Remaining Balance", "Additional Fees",
		"Start Date", "Maturity Date", "Overdue",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, loan := range loans {
		customer := fmt.Sprintf("%s %s",
			loan.Vehicle.Customer.FirstName, loan.Vehicle.Customer.LastName)
		vehicle := fmt.Sprintf("%d %s %s",
			loan.Vehicle.Year, loan.Vehicle.Make, loan.Vehicle.Model)

		values := []interface{}{
			loan.ID,
			loan.Store.Name,
			vehicle,
			customer,
			loan.LoanAmountApproved.StringFixed(2),
			loan.InterestRate.StringFixed(2),
			loan.MonthlyPayment.StringFixed(2),
			loan.RemainingBalance.StringFixed(2),
			loan.AdditionalFees.StringFixed(2),
			loan.LoanStartDate.Format("2006-01-02"),
			loan.LoanMaturityDate.Format("2006-01-02"),
			loan.IsOverdue(asOf),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render portfolio report", err, map[string]interface{}{
			"company_id": companyID,
		})
		return nil, err
	}

	logger.Info("Active portfolio report generated", map[string]interface{}{
		"company_id": companyID,
		"loans":      len(loans),
	})
	return buf, nil
}

// ExportPaymentHistory lists payments in the date range with their split
// context.
func (s *reportService) ExportPaymentHistory(companyID uint, from, to time.Time) (*bytes.Buffer, error) {
	payments, err := s.paymentRepo.FindByCompanyBetween(companyID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payments"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{
		"Payment ID", "Loan ID", "Receipt", "Date", "Amount", "Type",
		"Method", "Balance After", "Late",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, p := range payments {
		values := []interface{}{
			p.ID,
			p.TitlePawnID,
			p.ReceiptNumber,
			p.PaymentDate.Format("2006-01-02 15:04"),
			p.Amount.StringFixed(2),
			string(p.PaymentType),
			string(p.PaymentMethod),
			p.LoanBalanceAfterPayment.StringFixed(2),
			p.IsLatePayment,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render payment report", err, map[string]interface{}{
			"company_id": companyID,
		})
		return nil, err
	}

	logger.Info("Payment history report generated", map[string]interface{}{
		"company_id": companyID,
		"payments":   len(payments),
		"from":       from,
		"to":         to,
	})
	return buf, nil
}
