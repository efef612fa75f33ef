package domain

import "github.com/shopspring/decimal"

// Summarize totals operations the way the gateway reports them. Failed
// operations are ignored; top-ups count as received, cashback separately,
// everything else as spent.
func Summarize(ops []Operation) OperationsSummary {
	sum := OperationsSummary{
		SpentAmount:    decimal.Zero,
		ReceivedAmount: decimal.Zero,
		CashbackAmount: decimal.Zero,
	}
	for _, op := range ops {
		if op.Status == OperationStatusFailed {
			continue
		}
		switch op.Type {
		case OperationTypeTopUp:
			sum.ReceivedAmount = sum.ReceivedAmount.Add(op.Amount)
		case OperationTypeCashback:
			sum.CashbackAmount = sum.CashbackAmount.Add(op.Amount)
		default:
			sum.SpentAmount = sum.SpentAmount.Add(op.Amount)
		}
	}
	return sum
}
