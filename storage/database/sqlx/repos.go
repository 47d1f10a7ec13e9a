// Package sqlxrepos implements the domain repositories over postgres.
package sqlxrepos

import (
	"strconv"
	"strings"

	"github.com/charbel-francis/saleaf/core"
)

func itoa(n int) string { return strconv.Itoa(n) }

func joinAnd(conds []string) string { return strings.Join(conds, " AND ") }

// orderClause renders an ORDER BY for the requested ordering. Field names can
// come from the client, so only columns in sortable make it into the clause;
// anything else is dropped rather than spliced into SQL.
func orderClause(ordering []core.DBOrdering, sortable map[string]bool) string {
	orderList := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if sortable[ord.Field] {
			orderList = append(orderList, ord.String())
		}
	}
	if len(orderList) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(orderList, ", ")
}

// argList builds a positional-placeholder collector for hand-written queries.
type argList struct {
	args []interface{}
}

func (a *argList) add(v interface{}) string {
	a.args = append(a.args, v)
	return "$" + itoa(len(a.args))
}
