package table

import (
	"sort"
	"strings"

	"github.com/dmitriimasiakin/pd-bot/internal/lexer"
)

// Role is the semantic meaning assigned to a column.
type Role string

// Roles recognized on bank account cards.
const (
	RoleDate         Role = "date"
	RoleDebit        Role = "debit"
	RoleCredit       Role = "credit"
	RoleBalance      Role = "balance"
	RoleCounterparty Role = "counterparty"
	RoleDescription  Role = "description"
)

// Additional roles carried by turnover-balance ledgers.
const (
	RoleOpening  Role = "opening"
	RoleTurnover Role = "turnover"
	RoleClosing  Role = "closing"
)

// cardRoles is the resolution order for account cards. Order matters:
// debit and credit claim numeric columns before balance gets its pick.
var cardRoles = []Role{RoleDate, RoleDebit, RoleCredit, RoleBalance, RoleCounterparty, RoleDescription}

// Lexicon maps each role to its ordered header-keyword list. Earlier
// keywords win over later ones, and within a keyword the leftmost column
// wins.
type Lexicon map[Role][]string

// DefaultLexicon returns the keyword lists tuned for 1C-style Russian
// ledger exports.
func DefaultLexicon() Lexicon {
	return Lexicon{
		RoleDate:         {"дата"},
		RoleDebit:        {"дебет", "дт"},
		RoleCredit:       {"кредит", "кт"},
		RoleBalance:      {"остат", "сальдо"},
		RoleCounterparty: {"контраг", "постав", "покупат", "платель", "получат", "банк", "клиент"},
		RoleDescription:  {"назнач", "опис", "коммент", "основан"},
		RoleOpening:      {"начальн", "сальдо"},
		RoleTurnover:     {"оборот"},
		RoleClosing:      {"конечн", "сальдо"},
	}
}

// RoleMap assigns each resolved role a column index. Unresolved roles are
// absent.
type RoleMap map[Role]int

// Column returns the column index for a role.
func (m RoleMap) Column(r Role) (int, bool) {
	i, ok := m[r]
	return i, ok
}

// Names translates the map to role → column name, with "" for unresolved
// roles, for inclusion in parse results.
func (m RoleMap) Names(t Table, roles []Role) map[string]string {
	out := make(map[string]string, len(roles))
	for _, r := range roles {
		name := ""
		if i, ok := m[r]; ok && i < len(t.Columns) {
			name = t.Columns[i]
		}
		out[string(r)] = name
	}
	return out
}

// CardRoles returns the account-card role set in resolution order.
func CardRoles() []Role {
	return append([]Role(nil), cardRoles...)
}

// sampleRows caps how many data rows content-based fallbacks inspect.
const sampleRows = 200

// Resolver assigns roles to table columns: a header-keyword pass first,
// then content sampling for roles still unresolved. Resolution is
// deterministic for identical input.
type Resolver struct {
	lexicon Lexicon
	conv    lexer.Convention
}

// NewResolver creates a Resolver with the given lexicon and lexing
// convention.
func NewResolver(lexicon Lexicon, conv lexer.Convention) *Resolver {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Resolver{lexicon: lexicon, conv: conv}
}

// Resolve maps account-card roles onto the table's columns. Raw tables
// resolve only the implicit description role.
func (r *Resolver) Resolve(t Table) RoleMap {
	roles := make(RoleMap)
	if t.Raw {
		roles[RoleDescription] = 0
		return roles
	}
	if len(t.Columns) == 0 {
		return roles
	}

	for _, role := range cardRoles {
		if i, ok := r.findByKeyword(t.Columns, role); ok {
			roles[role] = i
		}
	}

	sample := t.Rows
	if len(sample) > sampleRows {
		sample = sample[:sampleRows]
	}

	if _, ok := roles[RoleDate]; !ok {
		if i, ok := r.guessDateColumn(t, sample); ok {
			roles[RoleDate] = i
		}
	}

	_, hasDebit := roles[RoleDebit]
	_, hasCredit := roles[RoleCredit]
	if !hasDebit || !hasCredit {
		d, c := r.guessAmountColumns(t, sample)
		if !hasDebit && d >= 0 {
			roles[RoleDebit] = d
		}
		if !hasCredit && c >= 0 {
			roles[RoleCredit] = c
		}
	}

	if _, ok := roles[RoleBalance]; !ok {
		if i, ok := r.guessBalanceColumn(t, sample, roles); ok {
			roles[RoleBalance] = i
		}
	}

	// Counterparty has no content fallback: free-text recovery happens
	// during extraction instead.

	if _, ok := roles[RoleDescription]; !ok {
		if i, ok := r.guessDescriptionColumn(t, roles); ok {
			roles[RoleDescription] = i
		}
	}

	return roles
}

// ResolveLedger maps turnover-ledger roles onto the table's columns using
// keywords only.
func (r *Resolver) ResolveLedger(t Table, roles []Role) RoleMap {
	out := make(RoleMap)
	if t.Raw {
		out[RoleCounterparty] = 0
		return out
	}
	for _, role := range roles {
		if i, ok := r.findByKeyword(t.Columns, role); ok {
			out[role] = i
		}
	}
	return out
}

// findByKeyword returns the first column whose header contains any of the
// role's keywords, honoring keyword order before column order.
func (r *Resolver) findByKeyword(columns []string, role Role) (int, bool) {
	for _, kw := range r.lexicon[role] {
		for i, c := range columns {
			if strings.Contains(strings.ToLower(c), kw) {
				return i, true
			}
		}
	}
	return -1, false
}

func (r *Resolver) guessDateColumn(t Table, sample [][]any) (int, bool) {
	best, bestHits := -1, 0
	for i := range t.Columns {
		hits := 0
		for _, row := range sample {
			if r.conv.ContainsDate(CellText(row[i])) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	return best, best >= 0
}

// numericScores ranks columns by how many sampled cells look like money.
// Ties keep original column order.
func (r *Resolver) numericScores(t Table, sample [][]any) []scoredColumn {
	var cand []scoredColumn
	for i := range t.Columns {
		score := 0
		for _, row := range sample {
			text := CellText(row[i])
			// Date cells carry digit runs that would otherwise pass
			// for money.
			if r.conv.ContainsDate(text) {
				continue
			}
			if r.conv.LooksNumeric(text) {
				score++
			}
		}
		if score > 0 {
			cand = append(cand, scoredColumn{col: i, score: score})
		}
	}
	sort.SliceStable(cand, func(a, b int) bool { return cand[a].score > cand[b].score })
	return cand
}

type scoredColumn struct {
	col   int
	score int
}

// guessAmountColumns picks debit/credit columns from the top numeric
// candidates, preferring ones whose header hints the role.
func (r *Resolver) guessAmountColumns(t Table, sample [][]any) (int, int) {
	cand := r.numericScores(t, sample)
	if len(cand) > 3 {
		cand = cand[:3]
	}

	hint := func(role Role, exclude int) int {
		for _, sc := range cand {
			if sc.col == exclude {
				continue
			}
			if r.headerHints(t.Columns[sc.col], role) {
				return sc.col
			}
		}
		return -1
	}

	dcol := hint(RoleDebit, -1)
	ccol := hint(RoleCredit, dcol)

	if dcol < 0 && len(cand) >= 1 {
		dcol = cand[0].col
	}
	if ccol < 0 {
		for _, sc := range cand {
			if sc.col != dcol {
				ccol = sc.col
				break
			}
		}
	}
	return dcol, ccol
}

// guessBalanceColumn takes the best numeric column not claimed by date,
// debit, or credit and not named like an amount column.
func (r *Resolver) guessBalanceColumn(t Table, sample [][]any, assigned RoleMap) (int, bool) {
	taken := map[int]bool{}
	if i, ok := assigned[RoleDate]; ok {
		taken[i] = true
	}
	if i, ok := assigned[RoleDebit]; ok {
		taken[i] = true
	}
	if i, ok := assigned[RoleCredit]; ok {
		taken[i] = true
	}
	for _, sc := range r.numericScores(t, sample) {
		if taken[sc.col] {
			continue
		}
		if r.headerHints(t.Columns[sc.col], RoleDebit) || r.headerHints(t.Columns[sc.col], RoleCredit) {
			continue
		}
		return sc.col, true
	}
	return -1, false
}

// guessDescriptionColumn retries the keyword pass while skipping the
// counterparty column.
func (r *Resolver) guessDescriptionColumn(t Table, assigned RoleMap) (int, bool) {
	cp, hasCP := assigned[RoleCounterparty]
	for _, kw := range r.lexicon[RoleDescription] {
		for i, c := range t.Columns {
			if hasCP && i == cp {
				continue
			}
			if strings.Contains(strings.ToLower(c), kw) {
				return i, true
			}
		}
	}
	return -1, false
}

func (r *Resolver) headerHints(column string, role Role) bool {
	low := strings.ToLower(column)
	for _, kw := range r.lexicon[role] {
		if strings.Contains(low, kw) {
			return true
		}
	}
	return false
}
