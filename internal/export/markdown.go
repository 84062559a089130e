// Package export renders parse results for humans and downstream tools:
// Markdown summaries and CSV transaction dumps.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmitriimasiakin/pd-bot/internal/cashflow"
	"github.com/dmitriimasiakin/pd-bot/internal/ledger"
	"github.com/dmitriimasiakin/pd-bot/internal/statement"
)

// StatementMarkdown renders an account-card report as Markdown.
func StatementMarkdown(rep statement.Report) string {
	var md []string

	md = append(md, "# Отчёт по карточке счёта", "")
	md = append(md, fmt.Sprintf("Транзакций: %d", len(rep.Transactions)), "")

	md = append(md, "## Денежные потоки", "")
	md = append(md, "- Поступления: "+money(rep.Cashflow.CashIn))
	md = append(md, "- Списания: "+money(rep.Cashflow.CashOut))
	md = append(md, "- Сальдо потока: "+money(rep.Cashflow.Delta), "")

	md = append(md, "## Остатки", "")
	s := rep.Balances.Summary
	md = append(md, "- Минимальный дневной: "+nullMoney(s.DailyMin))
	md = append(md, "- Максимальный дневной: "+nullMoney(s.DailyMax))
	md = append(md, "- Средний дневной: "+nullMoney(s.DailyAvg), "")
	if len(s.ByMonthEnd) > 0 {
		md = append(md, "### Остатки на конец месяца", "")
		for _, k := range sortedKeys(s.ByMonthEnd) {
			md = append(md, fmt.Sprintf("- %s: %s", k, money(s.ByMonthEnd[k])))
		}
		md = append(md, "")
	}

	if len(rep.Balances.Stress) > 0 {
		md = append(md, "## Стресс-тест", "")
		keys := make([]string, 0, len(rep.Balances.Stress))
		for k := range rep.Balances.Stress {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			st := rep.Balances.Stress[k]
			risk := "ок"
			if st.DefaultRisk {
				risk = "риск просрочки"
			}
			md = append(md, fmt.Sprintf("- %s: после платежа %s, недостаток %s — %s",
				k, money(st.EndBalanceAfterPayment), money(st.Shortfall), risk))
		}
		md = append(md, "")
	}

	md = append(md, "## Контрагенты", "")
	md = append(md, renderRanking("Поступления", rep.Counterparties.Inflow)...)
	md = append(md, renderRanking("Списания", rep.Counterparties.Outflow)...)

	return strings.Join(md, "\n")
}

// LedgerMarkdown renders a turnover-balance report as Markdown.
func LedgerMarkdown(rep ledger.Report) string {
	var md []string

	title := "Кредиторская задолженность"
	if rep.AccountType == ledger.Receivables {
		title = "Дебиторская задолженность"
	}
	md = append(md, "# "+title, "")
	md = append(md, fmt.Sprintf("Контрагентов: %d", len(rep.Entries)), "")

	md = append(md, "## Итоги", "")
	md = append(md, "- Обороты Дт: "+money(rep.Summary.TotalDebit))
	md = append(md, "- Обороты Кт: "+money(rep.Summary.TotalCredit))
	md = append(md, "- Сальдо начальное: "+money(rep.Summary.Opening))
	md = append(md, "- Сальдо конечное: "+money(rep.Summary.Closing), "")

	md = append(md, "## Структура задолженности по срокам", "")
	for _, k := range sortedKeys(rep.Aging) {
		md = append(md, fmt.Sprintf("- %s дней: %s", k, money(rep.Aging[k])))
	}
	md = append(md, "")

	md = append(md, "## Метрики", "")
	md = append(md, "- DSO: "+nullMoney(rep.Metrics.DSO))
	md = append(md, "- DPO: "+nullMoney(rep.Metrics.DPO), "")

	md = append(md, renderRanking("Концентрация", rep.Concentration)...)

	return strings.Join(md, "\n")
}

func renderRanking(title string, r cashflow.Ranking) []string {
	md := []string{"### " + title, ""}
	if len(r.Top) == 0 {
		return append(md, "- нет данных", "")
	}
	for _, ranked := range r.Top {
		md = append(md, fmt.Sprintf("- %s: %s (%s)", ranked.Name, money(ranked.Amount), percent(ranked.Share)))
	}
	md = append(md, fmt.Sprintf("- ТОП-1/3/5: %s / %s / %s",
		percent(r.Concentration.Top1), percent(r.Concentration.Top3), percent(r.Concentration.Top5)), "")
	return md
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "—"
	}
	return money(d.Decimal)
}

func percent(share decimal.Decimal) string {
	return share.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
