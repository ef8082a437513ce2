// Package export renders a case workbook: a summary sheet with the
// monthly cash picture and per-year transcript rollup, the normalized
// entity sheets, and one sheet per transcript source.
package export

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-tax/caseflow/internal/calc"
	"github.com/meridian-tax/caseflow/internal/model"
)

// moneyFormat is the Excel number format for amount cells.
const moneyFormat = "#,##0.00"

const dateLayout = "2006-01-02"

// CaseData bundles everything a workbook renders. Slices may be empty;
// their sheets are still written with headers so the workbook shape is
// stable across cases.
type CaseData struct {
	Case        *model.Case
	Summary     *calc.CaseSummary
	Entities    *model.EntitySet
	Activity    []model.AccountActivity
	WageDocs    []model.WageDocument
	Returns     []model.ReturnSummary
	GeneratedAt time.Time
}

// BuildWorkbook renders the case workbook in memory.
func BuildWorkbook(data *CaseData) (*xlsx.File, error) {
	if data == nil || data.Case == nil {
		return nil, eris.New("export: case data is required")
	}

	f := xlsx.NewFile()
	p := message.NewPrinter(language.AmericanEnglish)

	if err := addSummarySheet(f, data, p); err != nil {
		return nil, err
	}
	if err := addEntitySheets(f, data.Entities); err != nil {
		return nil, err
	}
	if err := addActivitySheet(f, data.Activity); err != nil {
		return nil, err
	}
	if err := addWageSheet(f, data.WageDocs); err != nil {
		return nil, err
	}
	if err := addReturnsSheet(f, data.Returns); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteFile renders the workbook and saves it to path.
func WriteFile(data *CaseData, path string) error {
	f, err := BuildWorkbook(data)
	if err != nil {
		return err
	}
	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

func addSummarySheet(f *xlsx.File, data *CaseData, p *message.Printer) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}

	labelRow(sheet, "Case", data.Case.CaseRef)
	labelRow(sheet, "Generated", generated.Format(dateLayout))
	sheet.AddRow()

	if s := data.Summary; s != nil {
		labelRow(sheet, "Monthly employment income", p.Sprintf("$%.2f", s.TotalMonthlyIncome))
		labelRow(sheet, "Other monthly income", p.Sprintf("$%.2f", s.OtherMonthlyIncome))
		labelRow(sheet, "Monthly expenses", p.Sprintf("$%.2f", s.TotalMonthlyExpenses))
		labelRow(sheet, "Disposable income", p.Sprintf("$%.2f", s.DisposableIncome))
		labelRow(sheet, "Account balances", p.Sprintf("$%.2f", s.TotalAccountBalance))
		labelRow(sheet, "Asset equity", p.Sprintf("$%.2f", s.TotalEquity))
		sheet.AddRow()

		addHeader(sheet, "Year", "Wage Income", "SE Income", "Withholding",
			"SE Tax", "IRS Balance", "Return Filed", "CSED", "CSED Status")
		for _, y := range s.Years {
			row := sheet.AddRow()
			row.AddCell().SetInt(y.TaxYear)
			addMoney(row, y.WageIncome)
			addMoney(row, y.SelfEmploymentIncome)
			addMoney(row, y.Withholding)
			addMoney(row, y.SelfEmploymentTax)
			addMoney(row, y.AccountBalance)
			row.AddCell().SetBool(y.ReturnFiled)
			if y.Statute != nil {
				row.AddCell().SetString(y.Statute.Expiration.Format(dateLayout))
				row.AddCell().SetString(string(y.Statute.Status))
			}
		}
	}
	return nil
}

func addEntitySheets(f *xlsx.File, set *model.EntitySet) error {
	sheet, err := f.AddSheet("Household & Employment")
	if err != nil {
		return eris.Wrap(err, "export: add household sheet")
	}
	if set != nil {
		if h := set.Household; h != nil {
			labelRow(sheet, "Filing status", h.FilingStatus)
			row := sheet.AddRow()
			row.AddCell().SetString("Household size")
			row.AddCell().SetInt(h.HouseholdSize)
			labelRowPtr(sheet, "Housing", h.HousingStatus)
			labelRowPtr(sheet, "Street", h.Street)
			labelRowPtr(sheet, "City", h.City)
			labelRowPtr(sheet, "State", h.State)
			labelRowPtr(sheet, "County", h.County)
			labelRowPtr(sheet, "Zip", h.ZipCode)
			sheet.AddRow()
		}

		addHeader(sheet, "Role", "Employer", "Occupation", "Pay Frequency",
			"Monthly Income", "Annual Income")
		for _, e := range set.Employments {
			row := sheet.AddRow()
			row.AddCell().SetString(string(e.Role))
			addStringPtr(row, e.Employer)
			addStringPtr(row, e.Occupation)
			row.AddCell().SetString(string(e.PayFrequency))
			addMoneyPtr(row, e.MonthlyIncome)
			addMoneyPtr(row, e.AnnualIncome)
		}
		sheet.AddRow()

		addHeader(sheet, "Income Source", "Amount", "Frequency", "Monthly Amount")
		for _, s := range set.IncomeSources {
			row := sheet.AddRow()
			row.AddCell().SetString(s.Category)
			addMoney(row, s.Amount)
			row.AddCell().SetString(string(s.Frequency))
			addMoney(row, s.MonthlyAmount)
		}
	}

	expenses, err := f.AddSheet("Expenses")
	if err != nil {
		return eris.Wrap(err, "export: add expenses sheet")
	}
	addHeader(expenses, "Category", "Amount", "Frequency", "Monthly Amount")
	if set != nil {
		for _, e := range set.MonthlyExpenses {
			row := expenses.AddRow()
			row.AddCell().SetString(e.Category)
			addMoney(row, e.Amount)
			row.AddCell().SetString(string(e.Frequency))
			addMoney(row, e.MonthlyAmount)
		}
	}

	assets, err := f.AddSheet("Assets")
	if err != nil {
		return eris.Wrap(err, "export: add assets sheet")
	}
	addHeader(assets, "Account Type", "Institution", "Balance")
	if set != nil {
		for _, a := range set.FinancialAccounts {
			row := assets.AddRow()
			row.AddCell().SetString(a.AccountType)
			addStringPtr(row, a.Institution)
			addMoney(row, a.Balance)
		}
	}
	assets.AddRow()
	addHeader(assets, "Vehicle", "Description", "Value", "Loan Balance", "Equity", "Monthly Payment")
	if set != nil {
		for _, v := range set.Vehicles {
			row := assets.AddRow()
			row.AddCell().SetString(v.Slot)
			addStringPtr(row, v.Description)
			addMoneyPtr(row, v.CurrentValue)
			addMoneyPtr(row, v.LoanBalance)
			addMoneyPtr(row, v.Equity)
			addMoneyPtr(row, v.MonthlyPayment)
		}
	}
	assets.AddRow()
	addHeader(assets, "Property", "Description", "Value", "Loan Balance", "Equity",
		"Monthly Payment", "Monthly Rent", "Net Rental")
	if set != nil {
		for _, pr := range set.RealProperties {
			row := assets.AddRow()
			row.AddCell().SetString(pr.Slot)
			addStringPtr(row, pr.Description)
			addMoneyPtr(row, pr.CurrentValue)
			addMoneyPtr(row, pr.LoanBalance)
			addMoneyPtr(row, pr.Equity)
			addMoneyPtr(row, pr.MonthlyPayment)
			addMoneyPtr(row, pr.MonthlyRent)
			addMoneyPtr(row, pr.NetMonthlyRental)
		}
	}
	return nil
}

func addActivitySheet(f *xlsx.File, activity []model.AccountActivity) error {
	sheet, err := f.AddSheet("Account Transcript")
	if err != nil {
		return eris.Wrap(err, "export: add activity sheet")
	}
	addHeader(sheet, "Year", "Code", "Description", "Date", "Amount", "Category",
		"Payment", "Penalty/Interest", "Starts CSED", "Tolling Category", "Tolling Days")
	for _, a := range activity {
		row := sheet.AddRow()
		row.AddCell().SetInt(a.TaxYear)
		row.AddCell().SetString(a.Code)
		row.AddCell().SetString(a.Description)
		addDatePtr(row, a.Date)
		addMoneyPtr(row, a.Amount)
		row.AddCell().SetString(a.Category)
		row.AddCell().SetBool(a.IsPayment)
		row.AddCell().SetBool(a.IsPenaltyOrInterest)
		row.AddCell().SetBool(a.StartsStatute)
		row.AddCell().SetString(a.TollingCategory)
		row.AddCell().SetInt(a.TollingDays)
	}
	return nil
}

func addWageSheet(f *xlsx.File, docs []model.WageDocument) error {
	sheet, err := f.AddSheet("Wage Documents")
	if err != nil {
		return eris.Wrap(err, "export: add wage sheet")
	}
	addHeader(sheet, "Year", "Form", "Payer", "Category", "Self-Employment",
		"Income", "Withholding")
	for _, d := range docs {
		row := sheet.AddRow()
		row.AddCell().SetInt(d.TaxYear)
		row.AddCell().SetString(d.FormCode)
		row.AddCell().SetString(d.Payer)
		row.AddCell().SetString(d.Category)
		row.AddCell().SetBool(d.SelfEmployment)
		addMoneyPtr(row, d.Income)
		addMoneyPtr(row, d.Withholding)
	}
	return nil
}

func addReturnsSheet(f *xlsx.File, returns []model.ReturnSummary) error {
	sheet, err := f.AddSheet("Returns")
	if err != nil {
		return eris.Wrap(err, "export: add returns sheet")
	}
	addHeader(sheet, "Year", "Filing Status", "AGI", "Taxable Income", "Total Tax", "Filed")
	for _, r := range returns {
		row := sheet.AddRow()
		row.AddCell().SetInt(r.TaxYear)
		addStringPtr(row, r.FilingStatus)
		addMoneyPtr(row, r.AGI)
		addMoneyPtr(row, r.TaxableIncome)
		addMoneyPtr(row, r.TotalTax)
		addDatePtr(row, r.FiledDate)
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	style := xlsx.NewStyle()
	style.Font = *xlsx.NewFont(11, "Calibri")
	style.Font.Bold = true
	style.ApplyFont = true

	row := sheet.AddRow()
	for _, title := range titles {
		cell := row.AddCell()
		cell.SetString(title)
		cell.SetStyle(style)
	}
}

func labelRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

func labelRowPtr(sheet *xlsx.Sheet, label string, value *string) {
	if value == nil {
		return
	}
	labelRow(sheet, label, *value)
}

func addMoney(row *xlsx.Row, v float64) {
	row.AddCell().SetFloatWithFormat(v, moneyFormat)
}

func addMoneyPtr(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloatWithFormat(*v, moneyFormat)
	}
}

func addStringPtr(row *xlsx.Row, s *string) {
	cell := row.AddCell()
	if s != nil {
		cell.SetString(*s)
	}
}

func addDatePtr(row *xlsx.Row, t *time.Time) {
	cell := row.AddCell()
	if t != nil {
		cell.SetString(t.Format(dateLayout))
	}
}
