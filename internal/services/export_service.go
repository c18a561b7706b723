package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/loanbook/loanbook-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders aggregation rows as CSV or XLSX downloads. The CSV
// shape (comma separated, double-quote escaped) is a stable contract
// consumed by the download side.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

func writeCSV(rows [][]string) []byte {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	for _, row := range rows {
		_ = writer.Write(row)
	}
	writer.Flush()
	return buf.Bytes()
}

// LoansCSV exports the loan list view.
func (s *ExportService) LoansCSV(views []models.LoanView) ([]byte, string, error) {
	rows := [][]string{{"Ref", "Borrower", "Mobile", "Amount", "Interest %", "Tenure", "EMI", "Total Paid", "Outstanding", "State", "Issue Date", "Next Due"}}
	for _, v := range views {
		rows = append(rows, []string{
			v.LoanRef,
			v.BorrowerName,
			v.MobileNumber,
			fmt.Sprintf("%.2f", v.Amount),
			fmt.Sprintf("%.2f", v.Interest),
			fmt.Sprintf("%d", v.Tenure),
			fmt.Sprintf("%.2f", v.EMI),
			fmt.Sprintf("%.2f", v.TotalPaid),
			fmt.Sprintf("%.2f", v.Outstanding),
			v.State,
			v.IssueDateLabel,
			v.NextDueLabel,
		})
	}

	filename := fmt.Sprintf("loans_%s.csv", time.Now().Format("2006-01-02"))
	return writeCSV(rows), filename, nil
}

// BorrowersCSV exports the borrower aggregation.
func (s *ExportService) BorrowersCSV(summaries []models.BorrowerSummary) ([]byte, string, error) {
	rows := [][]string{{"Borrower", "Mobile", "Loans", "Total Principal", "Has Active", "Last Issue Date", "References"}}
	for _, b := range summaries {
		hasActive := "No"
		if b.HasActive {
			hasActive = "Yes"
		}
		refs := ""
		for i, ref := range b.LoanRefs {
			if i > 0 {
				refs += ", "
			}
			refs += ref
		}
		rows = append(rows, []string{
			b.Name,
			b.MobileNumber,
			fmt.Sprintf("%d", b.LoanCount),
			fmt.Sprintf("%.2f", b.TotalPrincipal),
			hasActive,
			models.FormatDisplayDate(b.LastIssueDate),
			refs,
		})
	}

	filename := fmt.Sprintf("borrowers_%s.csv", time.Now().Format("2006-01-02"))
	return writeCSV(rows), filename, nil
}

// WalletCSV exports the company cash ledger.
func (s *ExportService) WalletCSV(summary models.WalletSummary) ([]byte, string, error) {
	rows := [][]string{{"Date", "Type", "Description", "Borrower", "Credit", "Debit"}}
	for _, txn := range summary.Transactions {
		credit, debit := "", ""
		if txn.IsCredit {
			credit = fmt.Sprintf("%.2f", txn.Amount)
		} else {
			debit = fmt.Sprintf("%.2f", txn.Amount)
		}
		rows = append(rows, []string{
			models.FormatDisplayDate(txn.Date),
			txn.Type,
			txn.Description,
			txn.Borrower,
			credit,
			debit,
		})
	}

	filename := fmt.Sprintf("wallet_%s.csv", time.Now().Format("2006-01-02"))
	return writeCSV(rows), filename, nil
}

// IncentivesCSV exports the employee incentive report.
func (s *ExportService) IncentivesCSV(incentives []models.IncentiveRow) ([]byte, string, error) {
	rows := [][]string{{"Month", "Employee", "Collected", "Incentive"}}
	for _, row := range incentives {
		rows = append(rows, []string{
			row.Month,
			row.Employee,
			fmt.Sprintf("%.2f", row.Collected),
			fmt.Sprintf("%.2f", row.Incentive),
		})
	}

	filename := fmt.Sprintf("incentives_%s.csv", time.Now().Format("2006-01-02"))
	return writeCSV(rows), filename, nil
}

// OverviewXLSX exports the dashboard stats, financial overview and monthly
// buckets as a workbook.
func (s *ExportService) OverviewXLSX(stats models.DashboardStats, overview models.FinancialOverview, buckets []models.MonthlyBucket) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Overview"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Loan Book Report")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	_ = f.SetCellValue(sheet, "A3", "Portfolio")
	_ = f.SetCellValue(sheet, "A4", "Metric")
	_ = f.SetCellValue(sheet, "B4", "Value")

	_ = f.SetCellValue(sheet, "A5", "Total Loans")
	_ = f.SetCellValue(sheet, "B5", stats.TotalLoans)
	_ = f.SetCellValue(sheet, "A6", "Active")
	_ = f.SetCellValue(sheet, "B6", stats.ActiveLoans)
	_ = f.SetCellValue(sheet, "A7", "Overdue")
	_ = f.SetCellValue(sheet, "B7", stats.OverdueLoans)
	_ = f.SetCellValue(sheet, "A8", "Closed")
	_ = f.SetCellValue(sheet, "B8", stats.ClosedLoans)
	_ = f.SetCellValue(sheet, "A9", "Total Disbursed")
	_ = f.SetCellValue(sheet, "B9", stats.TotalDisbursed)
	_ = f.SetCellValue(sheet, "A10", "Total Collected")
	_ = f.SetCellValue(sheet, "B10", stats.TotalCollected)

	_ = f.SetCellValue(sheet, "A12", overview.BalanceLabel)
	_ = f.SetCellValue(sheet, "B12", overview.Balance)

	_ = f.SetCellValue(sheet, "A14", "Month")
	_ = f.SetCellValue(sheet, "B14", "Disbursed")
	_ = f.SetCellValue(sheet, "C14", "Collected")
	for i, b := range buckets {
		row := 15 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.Month)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.Disbursed)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.Collected)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("loanbook_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
