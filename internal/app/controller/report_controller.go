package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	apperrors "github.com/crownpawn/titlepawn-backend/internal/errors"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportController struct {
	reportService service.ReportService
}

func NewReportController(reportService service.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// ActivePortfolio downloads the active-loan portfolio as xlsx
// GET /api/v1/reports/active-portfolio
func (ctrl *ReportController) ActivePortfolio(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	asOf := time.Now()
	buf, err := ctrl.reportService.ExportActivePortfolio(companyID, asOf)
	if err != nil {
		log.Error("Failed to generate portfolio report", err, map[string]interface{}{
			"company_id": companyID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ReportFailed, "report generation failed")
		return
	}

	filename := fmt.Sprintf("active-portfolio-%s.xlsx", asOf.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// PaymentHistory downloads payments in a date range as xlsx
// GET /api/v1/reports/payment-history?from=YYYY-MM-DD&to=YYYY-MM-DD
func (ctrl *ReportController) PaymentHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	companyID, _ := middleware.GetCompanyID(c)

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "to must not precede from")
		return
	}
	// Include the whole end day.
	to = to.AddDate(0, 0, 1)

	buf, err := ctrl.reportService.ExportPaymentHistory(companyID, from, to)
	if err != nil {
		log.Error("Failed to generate payment report", err, map[string]interface{}{
			"company_id": companyID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ReportFailed, "report generation failed")
		return
	}

	filename := fmt.Sprintf("payments-%s-%s.xlsx", c.Query("from"), c.Query("to"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
