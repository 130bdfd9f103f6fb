package report

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SalesSheetName  = "Vendas"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var salesHeadings = []string{
	"ID", "Data", "Caixa", "Dinheiro", "QR", "Banco", "Governo", "Total",
	"Esperado", "Conferido", "Diferença", "Status", "Registrado por", "Auditado por",
}

func salesRow(entry domain.DailySalesEntry) []any {
	return []any{
		entry.ID,
		entry.Date,
		entry.CashierName,
		entry.Channels.Cash,
		entry.Channels.QR,
		entry.Channels.Bank,
		entry.Channels.Government,
		entry.Total,
		entry.Reconciliation.ExpectedAmount,
		entry.Reconciliation.ActualAmount,
		entry.Reconciliation.Difference,
		string(entry.Status),
		entry.SubmittedBy,
		entry.AuditedBy,
	}
}

// NewSalesWorkbook monta a planilha com um lançamento por linha e uma linha final de totais
func NewSalesWorkbook(entries []domain.DailySalesEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SalesSheetName); err != nil {
		return nil, errors.Wrap(err, "erro ao renomear planilha")
	}

	if err := f.SetSheetRow(SalesSheetName, "A1", &salesHeadings); err != nil {
		return nil, errors.Wrap(err, "erro ao escrever cabeçalho")
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := salesRow(entry)
		if err := f.SetSheetRow(SalesSheetName, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "erro ao escrever lançamento %s", entry.ID)
		}
	}

	if len(entries) > 0 {
		if err := writeTotals(f, len(entries)); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// writeTotals soma as colunas de valores (D até K)
func writeTotals(f *excelize.File, rows int) error {
	totalRow := rows + 2
	labelCell, _ := excelize.CoordinatesToCellName(3, totalRow)
	if err := f.SetCellValue(SalesSheetName, labelCell, "Total"); err != nil {
		return err
	}

	for col := 4; col <= 11; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}

		cell, _ := excelize.CoordinatesToCellName(col, totalRow)
		formula := "SUM(" + name + "2:" + name + strconv.Itoa(rows+1) + ")"
		if err := f.SetCellFormula(SalesSheetName, cell, formula); err != nil {
			return errors.Wrap(err, "erro ao escrever totais")
		}
	}

	return nil
}
